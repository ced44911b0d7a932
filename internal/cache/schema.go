// Package cache provides a local SQLite cache of rendered DDL and output hashes.
// The cache is stored in .sqltable/cache.db and is gitignored.
// It is optional and can always be rebuilt from the table files.
package cache

import (
	"encoding/json"

	"github.com/hlop3z/sqltable/internal/alerr"
	"github.com/hlop3z/sqltable/internal/drift"
)

// outputHashJSON is the JSON-serializable representation of drift.OutputHash.
type outputHashJSON struct {
	Root  string            `json:"root"`
	Files map[string]string `json:"files"`
}

// SerializeOutputHash converts a drift.OutputHash to JSON bytes for storage.
func SerializeOutputHash(h *drift.OutputHash) ([]byte, error) {
	hj := &outputHashJSON{Files: map[string]string{}}
	if h != nil {
		hj.Root = h.Root
		for k, v := range h.Files {
			hj.Files[k] = v
		}
	}

	data, err := json.Marshal(hj)
	if err != nil {
		return nil, alerr.Wrap(alerr.ErrCacheWrite, err, "failed to serialize output hash")
	}
	return data, nil
}

// DeserializeOutputHash converts JSON bytes back to a drift.OutputHash.
func DeserializeOutputHash(data []byte) (*drift.OutputHash, error) {
	var hj outputHashJSON
	if err := json.Unmarshal(data, &hj); err != nil {
		return nil, alerr.Wrap(alerr.ErrCacheRead, err, "failed to deserialize output hash")
	}
	if hj.Files == nil {
		hj.Files = map[string]string{}
	}
	return &drift.OutputHash{Root: hj.Root, Files: hj.Files}, nil
}
