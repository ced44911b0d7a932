// Package lockfile provides read/write/verify for sqltable.lock files.
// The lock file records the SHA-256 of every rendered .sql file and the merkle
// root over all of them, so hand edits and stale output can be detected.
package lockfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hlop3z/sqltable/internal/alerr"
	"github.com/hlop3z/sqltable/internal/drift"
)

// Extension is the suffix of files tracked by the lock file.
const Extension = ".sql"

// Entry represents a single file entry in the lock file.
type Entry struct {
	Filename string // Slash-separated path relative to the output dir
	Checksum string
}

// LockFile represents the parsed contents of a lock file.
type LockFile struct {
	Aggregate string  // Merkle root over all entries
	Entries   []Entry // Individual file checksums
}

// OutputHash returns the recorded state as a drift.OutputHash.
func (lf *LockFile) OutputHash() *drift.OutputHash {
	h := &drift.OutputHash{Root: lf.Aggregate, Files: make(map[string]string, len(lf.Entries))}
	for _, e := range lf.Entries {
		h.Files[e.Filename] = e.Checksum
	}
	return h
}

// Read reads and parses a lock file from the given path.
// Returns nil if the file does not exist.
func Read(path string) (*LockFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, alerr.Wrap(alerr.ErrLockRead, err, "failed to read lock file").
			WithFile(path)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, alerr.New(alerr.ErrLockRead, "lock file is empty").
			WithFile(path)
	}
	lines := strings.Split(text, "\n")

	lf := &LockFile{
		Aggregate: strings.TrimSpace(lines[0]),
	}

	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		checksum, filename, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		lf.Entries = append(lf.Entries, Entry{
			Filename: strings.TrimSpace(filename),
			Checksum: checksum,
		})
	}

	return lf, nil
}

// Write computes checksums for every .sql file under outDir and writes the lock file.
func Write(outDir, lockPath string) error {
	hash, err := Hash(outDir)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString(hash.Root + "\n")
	for _, p := range hash.Paths() {
		fmt.Fprintf(&sb, "%s %s\n", hash.Files[p], p)
	}

	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return alerr.Wrap(alerr.ErrOutputWrite, err, "failed to create lock file directory").
			WithFile(lockPath)
	}
	if err := os.WriteFile(lockPath, []byte(sb.String()), 0o644); err != nil {
		return alerr.Wrap(alerr.ErrOutputWrite, err, "failed to write lock file").
			WithFile(lockPath)
	}
	return nil
}

// Verify compares the files under outDir against the lock file.
// Differences are reported in the result; the error is only for I/O failures
// and a missing lock file (ErrLockNotFound).
func Verify(outDir, lockPath string) (*drift.Result, error) {
	lf, err := Read(lockPath)
	if err != nil {
		return nil, err
	}
	if lf == nil {
		return nil, alerr.New(alerr.ErrLockNotFound, "lock file not found").
			WithFile(lockPath).
			WithHelp("run 'sqltable lock' after rendering")
	}

	actual, err := Hash(outDir)
	if err != nil {
		return nil, err
	}
	return drift.Compare(lf.OutputHash(), actual), nil
}

// Check is like Verify but turns any drift into an ErrLockMismatch error.
func Check(outDir, lockPath string) error {
	result, err := Verify(outDir, lockPath)
	if err != nil {
		return err
	}
	if !result.HasDrift {
		return nil
	}
	return alerr.New(alerr.ErrLockMismatch, drift.FormatSummary(result)).
		WithFile(lockPath).
		With("missing", len(result.Missing)).
		With("extra", len(result.Extra)).
		With("modified", len(result.Modified))
}

// DefaultPath returns the default lock file path for a project.
// The lock file is placed next to sqltable.yaml.
func DefaultPath() string {
	return "sqltable.lock"
}

// Hash walks outDir and hashes every .sql file. A missing directory hashes as empty.
func Hash(outDir string) (*drift.OutputHash, error) {
	entries, err := computeEntries(outDir)
	if err != nil {
		return nil, err
	}
	checksums := make(map[string]string, len(entries))
	for _, e := range entries {
		checksums[e.Filename] = e.Checksum
	}
	return drift.HashFromChecksums(checksums)
}

// computeEntries reads all .sql files below outDir and computes their checksums.
func computeEntries(outDir string) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(outDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == outDir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), Extension) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(outDir, path)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{
			Filename: filepath.ToSlash(rel),
			Checksum: drift.HashContent(string(data)),
		})
		return nil
	})
	if err != nil {
		return nil, alerr.Wrap(alerr.ErrOutputMissing, err, "failed to read output directory").
			With("dir", outDir)
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Filename, b.Filename)
	})
	return entries, nil
}
