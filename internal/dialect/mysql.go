package dialect

import (
	"fmt"

	"github.com/hlop3z/sqltable/internal/alerr"
	"github.com/hlop3z/sqltable/internal/fieldtype"
	"github.com/hlop3z/sqltable/internal/schema"
)

// mysql implements the Dialect interface for MySQL.
type mysql struct{}

// MySQL returns the MySQL dialect implementation.
func MySQL() Dialect {
	return &mysql{}
}

func (d *mysql) Name() string {
	return "mysql"
}

// -----------------------------------------------------------------------------
// Type mappings
// Every field type has a MySQL form. Wide integers become exact decimals,
// addresses become bounded strings, and composite types are stored as json.
// -----------------------------------------------------------------------------

var mysqlBasic = map[fieldtype.Basic]string{
	fieldtype.Text:       "text",
	fieldtype.VarBinary:  "blob",
	fieldtype.UInt8:      "tinyint unsigned",
	fieldtype.UInt16:     "smallint unsigned",
	fieldtype.UInt32:     "int unsigned",
	fieldtype.UInt64:     "bigint unsigned",
	fieldtype.UInt128:    "decimal(39,0)",
	fieldtype.UInt256:    "decimal(78,0)",
	fieldtype.Int8:       "tinyint",
	fieldtype.Int16:      "smallint",
	fieldtype.Int32:      "int",
	fieldtype.Int64:      "bigint",
	fieldtype.Int128:     "decimal(39,0)",
	fieldtype.Int256:     "decimal(78,0)",
	fieldtype.Float16:    "float",
	fieldtype.Float32:    "float",
	fieldtype.Float64:    "double",
	fieldtype.Double:     "double",
	fieldtype.Boolean:    "tinyint(1)",
	fieldtype.Date:       "date",
	fieldtype.Time:       "time",
	fieldtype.DateTime:   "datetime",
	fieldtype.DateTime64: "datetime",
	fieldtype.Timestamp:  "timestamp",
	fieldtype.JSON:       "json",
	fieldtype.IPv4:       "varchar(15)",
	fieldtype.IPv6:       "varchar(39)",
	fieldtype.Struct:     "json",
	fieldtype.Null:       "json",
}

func (d *mysql) TypeSQL(t fieldtype.Type) (string, error) {
	switch v := t.(type) {
	case fieldtype.Char:
		return fmt.Sprintf("char(%d)", v.Width), nil
	case fieldtype.Varchar:
		return fmt.Sprintf("varchar(%d)", v.Width), nil
	case fieldtype.FixedString:
		return fmt.Sprintf("char(%d)", v.Length), nil
	case fieldtype.Decimal:
		return fmt.Sprintf("decimal(%d,%d)", v.Precision, v.Scale), nil
	case fieldtype.Array:
		return "json", nil
	case fieldtype.Basic:
		if token, ok := mysqlBasic[v]; ok {
			return token, nil
		}
	}
	return "", alerr.Newf(alerr.EInternalError, "no mysql mapping for field type %s", t).
		With("type", t.String())
}

// mysqlQuotedDefault reports whether defaults of t are written as string literals.
func mysqlQuotedDefault(t fieldtype.Type) bool {
	switch t.Kind() {
	case fieldtype.KindChar, fieldtype.KindFixedString, fieldtype.KindVarchar, fieldtype.KindText,
		fieldtype.KindDate, fieldtype.KindDateTime, fieldtype.KindDateTime64,
		fieldtype.KindTime, fieldtype.KindTimestamp, fieldtype.KindJSON,
		fieldtype.KindIPv4, fieldtype.KindIPv6:
		return true
	}
	return false
}

// -----------------------------------------------------------------------------
// Identifiers and features
// -----------------------------------------------------------------------------

func (d *mysql) QuoteIdent(name string) string {
	return quoteIdentBacktick(name)
}

func (d *mysql) SupportsAutoIncrement() bool {
	return true
}

// -----------------------------------------------------------------------------
// DDL
// -----------------------------------------------------------------------------

// CreateTableSQL renders, for example:
//
//	CREATE TABLE IF NOT EXISTS `users` ( `id` int AUTO_INCREMENT NOT NULL, `name` varchar(64) NULL DEFAULT 'anon')
func (d *mysql) CreateTableSQL(t *schema.Table) (string, error) {
	cfg := ColumnDefConfig{
		ColumnName:    d.QuoteIdent,
		TypeSQL:       d.TypeSQL,
		QuotedDefault: mysqlQuotedDefault,
		AutoIncrement: true,
	}
	return buildCreateTableSQL(t, cfg, nil)
}
