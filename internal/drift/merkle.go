// Package drift fingerprints tables and rendered output, and detects when
// generated DDL on disk no longer matches what was recorded.
package drift

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/cbergoon/merkletree"

	"github.com/hlop3z/sqltable/internal/alerr"
)

// OutputHash is the merkle root over a set of rendered files.
type OutputHash struct {
	Root  string            // Root hash of all files
	Files map[string]string // Relative path -> sha256 of content
}

// Paths returns the file paths in sorted order.
func (h *OutputHash) Paths() []string {
	paths := make([]string, 0, len(h.Files))
	for p := range h.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// fileContent implements merkletree.Content for file-level hashing.
type fileContent struct {
	path string
	hash string
}

func (f fileContent) CalculateHash() ([]byte, error) {
	h := sha256.Sum256([]byte(f.path + ":" + f.hash))
	return h[:], nil
}

func (f fileContent) Equals(other merkletree.Content) (bool, error) {
	o, ok := other.(fileContent)
	if !ok {
		return false, nil
	}
	return f.path == o.path && f.hash == o.hash, nil
}

// ComputeOutputHash hashes every file body and builds the merkle tree.
// files maps a relative path to its content.
func ComputeOutputHash(files map[string]string) (*OutputHash, error) {
	checksums := make(map[string]string, len(files))
	for path, content := range files {
		checksums[path] = HashContent(content)
	}
	return HashFromChecksums(checksums)
}

// HashFromChecksums builds the merkle tree from precomputed file checksums.
// The leaves are ordered by path, so the root does not depend on map order.
func HashFromChecksums(checksums map[string]string) (*OutputHash, error) {
	result := &OutputHash{Files: make(map[string]string, len(checksums))}
	for p, sum := range checksums {
		result.Files[p] = sum
	}

	if len(checksums) == 0 {
		result.Root = emptyHash()
		return result, nil
	}

	contents := make([]merkletree.Content, 0, len(checksums))
	for _, p := range result.Paths() {
		contents = append(contents, fileContent{path: p, hash: checksums[p]})
	}

	tree, err := merkletree.NewTree(contents)
	if err != nil {
		return nil, alerr.Wrap(alerr.EInternalError, err, "failed to build merkle tree")
	}

	result.Root = hex.EncodeToString(tree.MerkleRoot())
	return result, nil
}

// HashContent computes the SHA-256 of s and returns hex encoding.
func HashContent(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// emptyHash returns a consistent hash for an empty output set.
func emptyHash() string {
	return HashContent("empty_output")
}
