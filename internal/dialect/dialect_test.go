package dialect_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/hlop3z/sqltable/internal/alerr"
	"github.com/hlop3z/sqltable/internal/dialect"
	"github.com/hlop3z/sqltable/internal/fieldtype"
	"github.com/hlop3z/sqltable/internal/schema"
)

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func primary() *schema.IndexType {
	p := schema.Primary
	return &p
}

func eventsTable() *schema.Table {
	return &schema.Table{
		Name: "events",
		Fields: []schema.Field{
			{Name: "id", Type: "uint64", Index: primary(), Value: &schema.ValueConf{NotNull: schema.Bool(true)}},
			{Name: "kind", Type: "varchar(32)", Value: &schema.ValueConf{NotNull: schema.Bool(true), Default: schema.String("click")}},
			{Name: "created_at", Type: "datetime"},
		},
		OrderBy: []string{"created_at"},
	}
}

func mustGet(t *testing.T, name string) dialect.Dialect {
	t.Helper()
	d, err := dialect.Get(name)
	if err != nil {
		t.Fatalf("Get(%q) error: %v", name, err)
	}
	return d
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

func TestGet(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"clickhouse", "clickhouse"},
		{"ClickHouse", "clickhouse"},
		{"ch", "clickhouse"},
		{"mysql", "mysql"},
		{" MySQL ", "mysql"},
		{"elasticsearch", "elasticsearch"},
		{"es", "elasticsearch"},
	}
	for _, tt := range tests {
		if got := mustGet(t, tt.input).Name(); got != tt.want {
			t.Errorf("Get(%q).Name() = %q, want %q", tt.input, got, tt.want)
		}
	}

	for _, name := range dialect.Names() {
		if got := mustGet(t, name).Name(); got != name {
			t.Errorf("Get(%q).Name() = %q", name, got)
		}
	}
}

func TestGetUnknown(t *testing.T) {
	_, err := dialect.Get("mysq")
	if !alerr.Is(err, alerr.EUnsupportedDialect) {
		t.Fatalf("Get(mysq) = %v, want EUnsupportedDialect", err)
	}
	var ae *alerr.Error
	if !errors.As(err, &ae) || len(ae.Helps()) != 1 || ae.Helps()[0] != "did you mean 'mysql'?" {
		t.Errorf("Helps() = %v", ae.Helps())
	}
}

func TestNarrowInterfaceUsage(t *testing.T) {
	requireQuote := func(f dialect.SQLFormatter, name, expected string) {
		t.Helper()
		if got := f.QuoteIdent(name); got != expected {
			t.Errorf("QuoteIdent(%q) = %q, want %q", name, got, expected)
		}
	}
	requireQuote(dialect.MySQL(), "users", "`users`")
	requireQuote(dialect.ClickHouse(), "we`ird", "`we``ird`")

	requireAutoIncrement := func(f dialect.FeatureDetector, expected bool) {
		t.Helper()
		if got := f.SupportsAutoIncrement(); got != expected {
			t.Errorf("SupportsAutoIncrement() = %v, want %v", got, expected)
		}
	}
	requireAutoIncrement(dialect.MySQL(), true)
	requireAutoIncrement(dialect.ClickHouse(), false)
	requireAutoIncrement(dialect.Elasticsearch(), false)
}

// -----------------------------------------------------------------------------
// Shared behaviour
// -----------------------------------------------------------------------------

func TestRenderDoesNotMutateTable(t *testing.T) {
	tbl := eventsTable()
	before := len(tbl.Fields)
	for _, name := range dialect.Names() {
		if _, err := mustGet(t, name).CreateTableSQL(tbl); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
	if len(tbl.Fields) != before || tbl.Engine != nil || len(tbl.OrderBy) != 1 {
		t.Errorf("table was modified: %+v", tbl)
	}
}

func TestRenderConcurrent(t *testing.T) {
	tbl := eventsTable()
	want := map[string]string{}
	for _, name := range dialect.Names() {
		sql, err := mustGet(t, name).CreateTableSQL(tbl)
		if err != nil {
			t.Fatal(err)
		}
		want[name] = sql
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		for _, name := range dialect.Names() {
			wg.Add(1)
			go func(name string) {
				defer wg.Done()
				d, _ := dialect.Get(name)
				got, err := d.CreateTableSQL(tbl)
				if err != nil || got != want[name] {
					t.Errorf("%s: concurrent render = %q, %v", name, got, err)
				}
			}(name)
		}
	}
	wg.Wait()
}

func TestRenderSyntaxError(t *testing.T) {
	tbl := &schema.Table{
		Name: "users",
		Fields: []schema.Field{
			{Name: "id", Type: "int32"},
			{Name: "client_ip", Type: "ipv5"},
		},
	}

	for _, name := range []string{"clickhouse", "mysql"} {
		t.Run(name, func(t *testing.T) {
			sql, err := mustGet(t, name).CreateTableSQL(tbl)
			if sql != "" {
				t.Errorf("partial output returned: %q", sql)
			}
			if !alerr.IsSyntax(err) {
				t.Fatalf("err = %v, want syntax error", err)
			}
			var ae *alerr.Error
			errors.As(err, &ae)
			ctx := ae.GetContext()
			if ctx["table"] != "users" || ctx["column"] != "client_ip" {
				t.Errorf("context = %v", ctx)
			}
			if notes := ae.Notes(); len(notes) != 1 || !strings.Contains(notes[0], "ipv4") {
				t.Errorf("Notes() = %v", notes)
			}
		})
	}
}

func TestDefaultLiteralEscaping(t *testing.T) {
	tbl := &schema.Table{
		Name:   "t",
		Fields: []schema.Field{{Name: "s", Type: "varchar", Value: &schema.ValueConf{Default: schema.String("it's")}}},
	}
	sql, err := dialect.MySQL().CreateTableSQL(tbl)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sql, "DEFAULT 'it''s'") {
		t.Errorf("sql = %s", sql)
	}
}

func TestElasticsearchPlaceholder(t *testing.T) {
	d := dialect.Elasticsearch()
	sql, err := d.CreateTableSQL(eventsTable())
	if err != nil || sql != "events" {
		t.Errorf("CreateTableSQL() = %q, %v", sql, err)
	}
	if _, err := d.TypeSQL(fieldtype.Int32); !alerr.IsUnsupported(err) {
		t.Errorf("TypeSQL() = %v, want unsupported", err)
	}
}

func TestCheckFieldTypes(t *testing.T) {
	if err := dialect.CheckFieldTypes(eventsTable()); err != nil {
		t.Fatalf("CheckFieldTypes() = %v", err)
	}

	tbl := &schema.Table{
		Name: "users",
		Fields: []schema.Field{
			{Name: "id", Type: "int32"},
			{Name: "ip", Type: "ipv5"},
			{Name: "price", Type: "decimal(1)"},
			{Name: "ok", Type: "struct"},
		},
	}
	err := dialect.CheckFieldTypes(tbl)
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok || len(joined.Unwrap()) != 2 {
		t.Fatalf("CheckFieldTypes() = %v, want 2 joined errors", err)
	}
	for i, column := range []string{"ip", "price"} {
		var ae *alerr.Error
		if !errors.As(joined.Unwrap()[i], &ae) {
			t.Fatalf("error %d is not coded", i)
		}
		if ae.GetContext()["table"] != "users" || ae.GetContext()["column"] != column {
			t.Errorf("error %d context = %v", i, ae.GetContext())
		}
	}
}
