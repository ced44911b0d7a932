package dialect

import (
	"errors"
	"strings"

	"github.com/hlop3z/sqltable/internal/alerr"
	"github.com/hlop3z/sqltable/internal/fieldtype"
	"github.com/hlop3z/sqltable/internal/schema"
)

// QuoteIdentFunc is a function that quotes an identifier.
type QuoteIdentFunc func(name string) string

// quoteIdentBacktick quotes with backticks, doubling embedded backticks.
func quoteIdentBacktick(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// quoteLiteral renders s as a single-quoted string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// ColumnDefConfig holds all callbacks and config for buildColumnDefSQL.
type ColumnDefConfig struct {
	// ColumnName renders the column name. ClickHouse leaves it bare, MySQL quotes it.
	ColumnName QuoteIdentFunc
	TypeSQL    func(fieldtype.Type) (string, error)
	// QuotedDefault reports whether defaults of the given type are string literals.
	QuotedDefault func(fieldtype.Type) bool
	// AutoIncrement enables the AUTO_INCREMENT clause.
	AutoIncrement bool
}

// resolveFieldType parses the type of f. Errors carry the column name and,
// when the name hints at one, a suggested type.
func resolveFieldType(f *schema.Field) (fieldtype.Type, error) {
	ft, err := fieldtype.Parse(f.Type)
	if err != nil {
		err = alerr.Annotate(err, "", f.Name)
		if ae, ok := err.(*alerr.Error); ok {
			if hint := alerr.SuggestFieldType(f.Name); hint != "" {
				ae.WithNote("a column named " + f.Name + " is usually " + hint)
			}
		}
		return nil, err
	}
	return ft, nil
}

// CheckFieldTypes parses every field type of t and joins the failures, so
// callers can report all grammar errors of a table at once without picking
// an engine.
func CheckFieldTypes(t *schema.Table) error {
	var errs []error
	for i := range t.Fields {
		if _, err := resolveFieldType(&t.Fields[i]); err != nil {
			errs = append(errs, alerr.Annotate(err, t.Name, ""))
		}
	}
	return errors.Join(errs...)
}

// buildColumnDefSQL generates the SQL for one column definition:
// name, type, then AUTO_INCREMENT, nullability and default when a value block is set.
func buildColumnDefSQL(f *schema.Field, cfg ColumnDefConfig) (string, error) {
	ft, err := resolveFieldType(f)
	if err != nil {
		return "", err
	}
	typeSQL, err := cfg.TypeSQL(ft)
	if err != nil {
		return "", alerr.Annotate(err, "", f.Name)
	}

	var b strings.Builder
	b.WriteString(cfg.ColumnName(f.Name))
	b.WriteString(" ")
	b.WriteString(typeSQL)

	if f.Value != nil {
		if cfg.AutoIncrement && f.Value.IsIncrement() {
			b.WriteString(" AUTO_INCREMENT")
		}
		writeNullability(&b, f.Value)
		writeDefault(&b, f.Value, cfg.QuotedDefault(ft))
	}
	return b.String(), nil
}

// writeNullability writes the NULL/NOT NULL clause.
func writeNullability(b *strings.Builder, v *schema.ValueConf) {
	if v.IsNotNull() {
		b.WriteString(" NOT NULL")
	} else {
		b.WriteString(" NULL")
	}
}

// writeDefault writes the DEFAULT clause if set.
func writeDefault(b *strings.Builder, v *schema.ValueConf, quoted bool) {
	value, ok := v.DefaultValue()
	if !ok {
		return
	}
	b.WriteString(" DEFAULT ")
	if quoted {
		b.WriteString(quoteLiteral(value))
	} else {
		b.WriteString(value)
	}
}

// TrailerFunc appends engine clauses after the closing parenthesis.
type TrailerFunc func(b *strings.Builder, t *schema.Table)

// buildCreateTableSQL generates a single-line CREATE TABLE statement using the
// provided helpers. trailer may be nil.
func buildCreateTableSQL(t *schema.Table, cfg ColumnDefConfig, trailer TrailerFunc) (string, error) {
	var b strings.Builder

	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(quoteIdentBacktick(t.Name))
	b.WriteString(" ( ")

	for i := range t.Fields {
		col, err := buildColumnDefSQL(&t.Fields[i], cfg)
		if err != nil {
			return "", alerr.Annotate(err, t.Name, "")
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(col)
	}

	b.WriteString(")")
	if trailer != nil {
		trailer(&b, t)
	}
	return b.String(), nil
}

// unsupportedType returns the error for a type the dialect cannot store.
func unsupportedType(dialect string, t fieldtype.Type) *alerr.Error {
	return alerr.Newf(alerr.ErrTypeUnsupported, "type %s is not supported by %s", t, dialect).
		With("type", t.String()).
		With("dialect", dialect)
}
