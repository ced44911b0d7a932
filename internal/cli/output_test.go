package cli

import (
	"testing"
)

func TestTable(t *testing.T) {
	table := NewTable("TYPE", "CLICKHOUSE", "MYSQL")
	table.AddRow("int8", "Int8", "tinyint")
	table.AddRow("varchar", "String") // short row
	table.AddRow("ipv4", "IPv4", "varchar(15)", "extra")

	if table.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", table.Len())
	}

	want := "TYPE     CLICKHOUSE  MYSQL      \n" +
		"───────  ──────────  ───────────\n" +
		"int8     Int8        tinyint\n" +
		"varchar  String\n" +
		"ipv4     IPv4        varchar(15)\n"
	if got := table.String(); got != want {
		t.Errorf("String() =\n%q\nwant\n%q", got, want)
	}
}

func TestTableEmpty(t *testing.T) {
	if got := NewTable().String(); got != "" {
		t.Errorf("empty table = %q", got)
	}
	if got := NewTable("A").String(); got != "A\n─\n" {
		t.Errorf("header-only table = %q", got)
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"ab", 4, "ab  "},
		{"abcd", 2, "abcd"},
		{"─", 2, "─ "},
	}
	for _, tt := range tests {
		if got := padRight(tt.in, tt.width); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestList(t *testing.T) {
	l := NewList()
	l.Add("users")
	l.AddSuccess("mysql/users.sql")
	l.AddError("clickhouse/users.sql")
	l.AddWarning("stale lock file")

	want := "  • users\n" +
		"  ✓ mysql/users.sql\n" +
		"  ✗ clickhouse/users.sql\n" +
		"  ! stale lock file\n"
	if got := l.String(); got != want {
		t.Errorf("String() =\n%q\nwant\n%q", got, want)
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 tables"},
		{1, "1 table"},
		{2, "2 tables"},
	}
	for _, tt := range tests {
		if got := FormatCount(tt.n, "table", "tables"); got != tt.want {
			t.Errorf("FormatCount(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
	if got := FormatKeyValue("engine", "mysql"); got != "engine: mysql" {
		t.Errorf("FormatKeyValue() = %q", got)
	}
}
