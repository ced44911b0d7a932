// Package loader reads table descriptions from yaml files.
package loader

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/sqltable/internal/alerr"
	"github.com/hlop3z/sqltable/internal/schema"
)

// Extensions lists the file extensions LoadDir picks up.
var Extensions = []string{".yaml", ".yml"}

// Parse decodes and validates one table. source names the input in errors.
// Unknown keys are rejected.
func Parse(data []byte, source string) (*schema.Table, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var t schema.Table
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, alerr.New(alerr.ErrSchemaInvalid, "table file is empty").
				WithFile(source)
		}
		var ae *alerr.Error
		if errors.As(err, &ae) {
			return nil, ae.WithFile(source)
		}
		return nil, alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid table yaml").
			WithFile(source)
	}

	if err := t.Validate(); err != nil {
		return nil, withFile(err, source)
	}
	return &t, nil
}

// LoadFile reads and parses a single table file.
func LoadFile(path string) (*schema.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, alerr.Wrap(alerr.ErrSchemaNotFound, err, "table file not found").
				WithFile(path)
		}
		return nil, alerr.Wrap(alerr.ErrSchemaInvalid, err, "cannot read table file").
			WithFile(path)
	}
	return Parse(data, path)
}

// Files lists the table files in dir, sorted by name. Subdirectories are not searched.
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, alerr.Wrap(alerr.ErrSchemaNotFound, err, "tables directory not found").
				With("dir", dir).
				WithHelp("run 'sqltable init' to create it")
		}
		return nil, alerr.Wrap(alerr.ErrSchemaInvalid, err, "cannot read tables directory").
			With("dir", dir)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsTableFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// IsTableFile reports whether name has a table file extension.
func IsTableFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadDir loads every table file in dir. Files that fail are skipped and their
// errors joined, so callers get every table that did load together with all
// failures. Two files declaring the same table name is an error.
func LoadDir(dir string) ([]*schema.Table, error) {
	files, err := Files(dir)
	if err != nil {
		return nil, err
	}

	var (
		tables []*schema.Table
		errs   []error
		seen   = make(map[string]string, len(files))
	)
	for _, path := range files {
		t, err := LoadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if first, dup := seen[t.Name]; dup {
			errs = append(errs, alerr.Newf(alerr.ErrSchemaDuplicate, "table %q is declared twice", t.Name).
				WithFile(path).
				With("first", first))
			continue
		}
		seen[t.Name] = path
		tables = append(tables, t)
	}
	return tables, errors.Join(errs...)
}

func withFile(err error, source string) error {
	var ae *alerr.Error
	if errors.As(err, &ae) {
		ae.WithFile(source)
	}
	return err
}
