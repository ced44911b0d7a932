// Package dialect provides engine-specific CREATE TABLE generation.
// Each dialect implements the field type mapping, identifier quoting,
// and the statement layout for one target engine.
package dialect

import (
	"strings"

	"github.com/hlop3z/sqltable/internal/alerr"
	"github.com/hlop3z/sqltable/internal/fieldtype"
	"github.com/hlop3z/sqltable/internal/schema"
)

// TypeMapper maps parsed field types to engine type tokens.
type TypeMapper interface {
	// TypeSQL returns the engine token for t.
	// ClickHouse: partial, returns ErrTypeUnsupported for types it cannot store.
	// MySQL: total.
	TypeSQL(t fieldtype.Type) (string, error)
}

// SQLFormatter quotes identifiers for the engine.
type SQLFormatter interface {
	// QuoteIdent quotes a table or column name.
	// ClickHouse/MySQL: `name`
	QuoteIdent(name string) string
}

// FeatureDetector reports engine capabilities.
type FeatureDetector interface {
	// SupportsAutoIncrement reports whether "increment: true" is rendered.
	// MySQL: true
	// ClickHouse: false
	SupportsAutoIncrement() bool
}

// DDLGenerator renders table statements.
type DDLGenerator interface {
	// CreateTableSQL renders a CREATE TABLE statement for t.
	// Any error aborts the render and no partial output is returned.
	CreateTableSQL(t *schema.Table) (string, error)
}

// Dialect defines the interface for engine-specific SQL generation.
// Implementations hold no state and are safe for concurrent use.
type Dialect interface {
	// Name returns the dialect name (clickhouse, mysql, elasticsearch).
	Name() string

	TypeMapper
	SQLFormatter
	FeatureDetector
	DDLGenerator
}

// Get returns the dialect implementation for the given name.
// Valid names: "clickhouse", "ch", "mysql", "elasticsearch", "es".
func Get(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "clickhouse", "ch":
		return ClickHouse(), nil
	case "mysql":
		return MySQL(), nil
	case "elasticsearch", "elastic", "es":
		return Elasticsearch(), nil
	}
	return nil, alerr.Newf(alerr.EUnsupportedDialect, "unsupported engine %q", name).
		With("engine", name).
		WithHelp(alerr.SuggestSimilar(name, Names())).
		WithNote("supported engines: " + strings.Join(Names(), ", "))
}

// Names returns the list of supported dialect names.
func Names() []string {
	return []string{"clickhouse", "mysql", "elasticsearch"}
}
