package dialect

import (
	"github.com/hlop3z/sqltable/internal/fieldtype"
	"github.com/hlop3z/sqltable/internal/schema"
)

// elasticsearch is a placeholder dialect. Index mappings are not generated yet;
// CreateTableSQL returns the table name so the engine can already be listed in
// configuration.
type elasticsearch struct{}

// Elasticsearch returns the Elasticsearch placeholder dialect.
func Elasticsearch() Dialect {
	return &elasticsearch{}
}

func (d *elasticsearch) Name() string {
	return "elasticsearch"
}

func (d *elasticsearch) TypeSQL(t fieldtype.Type) (string, error) {
	return "", unsupportedType(d.Name(), t).
		WithNote("elasticsearch mappings are not generated")
}

func (d *elasticsearch) QuoteIdent(name string) string {
	return name
}

func (d *elasticsearch) SupportsAutoIncrement() bool {
	return false
}

func (d *elasticsearch) CreateTableSQL(t *schema.Table) (string, error) {
	return t.Name, nil
}
