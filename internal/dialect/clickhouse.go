package dialect

import (
	"fmt"
	"strings"

	"github.com/hlop3z/sqltable/internal/alerr"
	"github.com/hlop3z/sqltable/internal/fieldtype"
	"github.com/hlop3z/sqltable/internal/schema"
)

// clickhouse implements the Dialect interface for ClickHouse.
type clickhouse struct{}

// ClickHouse returns the ClickHouse dialect implementation.
func ClickHouse() Dialect {
	return &clickhouse{}
}

func (d *clickhouse) Name() string {
	return "clickhouse"
}

// -----------------------------------------------------------------------------
// Type mappings
// ClickHouse has no time-of-day, timestamp, varbinary, half-float, struct or
// null column types; those return ErrTypeUnsupported.
// -----------------------------------------------------------------------------

var clickhouseBasic = map[fieldtype.Basic]string{
	fieldtype.UInt8:      "UInt8",
	fieldtype.UInt16:     "UInt16",
	fieldtype.UInt32:     "UInt32",
	fieldtype.UInt64:     "UInt64",
	fieldtype.UInt128:    "UInt128",
	fieldtype.UInt256:    "UInt256",
	fieldtype.Int8:       "Int8",
	fieldtype.Int16:      "Int16",
	fieldtype.Int32:      "Int32",
	fieldtype.Int64:      "Int64",
	fieldtype.Int128:     "Int128",
	fieldtype.Int256:     "Int256",
	fieldtype.Float32:    "Float32",
	fieldtype.Double:     "Float64",
	fieldtype.Boolean:    "Bool",
	fieldtype.Text:       "String",
	fieldtype.Date:       "Date",
	fieldtype.DateTime:   "DateTime",
	fieldtype.DateTime64: "DateTime64",
	fieldtype.JSON:       "Json",
	fieldtype.IPv4:       "IPv4",
	fieldtype.IPv6:       "IPv6",
}

func (d *clickhouse) TypeSQL(t fieldtype.Type) (string, error) {
	switch v := t.(type) {
	case fieldtype.Char, fieldtype.Varchar:
		return "String", nil
	case fieldtype.FixedString:
		return fmt.Sprintf("FixedString(%d)", v.Length), nil
	case fieldtype.Decimal:
		return fmt.Sprintf("Decimal(%d, %d)", v.Precision, v.Scale), nil
	case fieldtype.Array:
		elem, err := d.TypeSQL(v.Elem)
		if err != nil {
			return "", err
		}
		return "Array(" + elem + ")", nil
	case fieldtype.Basic:
		if token, ok := clickhouseBasic[v]; ok {
			return token, nil
		}
		return "", unsupportedType(d.Name(), t).
			WithHelp(clickhouseAlternative(v))
	}
	return "", alerr.Newf(alerr.EInternalError, "unhandled field type %T", t)
}

// clickhouseAlternative suggests a supported type for an unsupported one.
func clickhouseAlternative(b fieldtype.Basic) string {
	switch b {
	case fieldtype.Float64:
		return "use double, which maps to Float64"
	case fieldtype.Float16:
		return "use float32"
	case fieldtype.Timestamp:
		return "use datetime or datetime64"
	case fieldtype.Time:
		return "store the time of day as uint32 seconds or use datetime"
	case fieldtype.VarBinary:
		return "use text, which maps to String"
	case fieldtype.Struct:
		return "use json"
	}
	return ""
}

// clickhouseQuotedDefault reports whether defaults of t are written as string literals.
func clickhouseQuotedDefault(t fieldtype.Type) bool {
	switch t.Kind() {
	case fieldtype.KindChar, fieldtype.KindFixedString, fieldtype.KindVarchar,
		fieldtype.KindDate, fieldtype.KindDateTime, fieldtype.KindDateTime64:
		return true
	}
	return false
}

// -----------------------------------------------------------------------------
// Identifiers and features
// -----------------------------------------------------------------------------

func (d *clickhouse) QuoteIdent(name string) string {
	return quoteIdentBacktick(name)
}

func (d *clickhouse) SupportsAutoIncrement() bool {
	return false
}

// -----------------------------------------------------------------------------
// DDL
// -----------------------------------------------------------------------------

// CreateTableSQL renders, for example:
//
//	CREATE TABLE IF NOT EXISTS `events` ( id UInt64 NOT NULL, at DateTime) ENGINE = MergeTree() PRIMARY KEY (id) ORDER BY (id,at)
//
// Column names are left unquoted. PRIMARY KEY and ORDER BY are only written for
// MergeTree-family engines; ORDER BY is the primary key followed by order_by.
func (d *clickhouse) CreateTableSQL(t *schema.Table) (string, error) {
	cfg := ColumnDefConfig{
		ColumnName:    func(name string) string { return name },
		TypeSQL:       d.TypeSQL,
		QuotedDefault: clickhouseQuotedDefault,
	}
	return buildCreateTableSQL(t, cfg, d.writeEngine)
}

func (d *clickhouse) writeEngine(b *strings.Builder, t *schema.Table) {
	engine := t.EngineOrDefault()
	b.WriteString(" ENGINE = ")
	b.WriteString(engine.String())

	if !engine.IsMergeTreeFamily() {
		return
	}

	pk := t.PrimaryKey()
	if len(pk) > 0 {
		b.WriteString(" PRIMARY KEY (")
		b.WriteString(strings.Join(pk, ","))
		b.WriteString(")")
	}
	if t.OrderBy != nil {
		order := append(append([]string{}, pk...), t.OrderBy...)
		b.WriteString(" ORDER BY (")
		b.WriteString(strings.Join(order, ","))
		b.WriteString(")")
	}
}
