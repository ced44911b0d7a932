package schema

import (
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/sqltable/internal/alerr"
)

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

func TestDefaultTable(t *testing.T) {
	tbl := DefaultTable()

	if tbl.Name != "my_table" {
		t.Errorf("Name = %q, want my_table", tbl.Name)
	}
	if len(tbl.Fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(tbl.Fields))
	}

	id := tbl.Fields[0]
	if id.Name != "id" || id.Type != "int32" || !id.IsPrimary() {
		t.Errorf("id field = %+v", id)
	}
	if !id.Value.IsIncrement() || !id.Value.IsNotNull() {
		t.Error("id should be auto-increment and not null")
	}
	if _, ok := id.Value.DefaultValue(); ok {
		t.Error("id should have no default")
	}

	value := tbl.Fields[1]
	if value.Type != DefaultFieldType || value.Index != nil || value.Value != nil {
		t.Errorf("value field = %+v", value)
	}

	if tbl.Engine != nil || tbl.OrderBy != nil {
		t.Error("default table should not set engine or order_by")
	}
}

func TestNewTypedField(t *testing.T) {
	f := NewTypedField("amount", "decimal(18,4)")
	if f.Name != "amount" || f.Type != "decimal(18,4)" {
		t.Errorf("NewTypedField() = %+v", f)
	}
}

func TestValueConfNilSafe(t *testing.T) {
	var v *ValueConf
	if v.IsIncrement() || v.IsNotNull() {
		t.Error("nil ValueConf should report no constraints")
	}
	if _, ok := v.DefaultValue(); ok {
		t.Error("nil ValueConf should have no default")
	}

	v = &ValueConf{Increment: Bool(false), NotNull: Bool(false), Default: String("")}
	if v.IsIncrement() || v.IsNotNull() {
		t.Error("explicit false flags should be false")
	}
	if d, ok := v.DefaultValue(); !ok || d != "" {
		t.Errorf("DefaultValue() = (%q, %v), want (\"\", true)", d, ok)
	}
}

func TestPrimaryKey(t *testing.T) {
	primary := Primary
	unique := Unique
	tbl := &Table{
		Name: "events",
		Fields: []Field{
			{Name: "tenant", Type: "uint32", Index: &primary},
			{Name: "email", Type: "varchar", Index: &unique},
			{Name: "id", Type: "uint64", Index: &primary},
			{Name: "payload", Type: "json"},
		},
	}

	want := []string{"tenant", "id"}
	if got := tbl.PrimaryKey(); !reflect.DeepEqual(got, want) {
		t.Errorf("PrimaryKey() = %v, want %v", got, want)
	}
}

func TestEngineOrDefault(t *testing.T) {
	tbl := &Table{Name: "t"}
	if got := tbl.EngineOrDefault(); got != DefaultEngine {
		t.Errorf("EngineOrDefault() = %v, want %v", got, DefaultEngine)
	}

	tbl.Engine = &ClickHouseEngine{Kind: Log}
	if got := tbl.EngineOrDefault(); got.Kind != Log {
		t.Errorf("EngineOrDefault() = %v, want Log", got)
	}
}

// -----------------------------------------------------------------------------
// Validation
// -----------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		table *Table
		code  alerr.Code
	}{
		{"valid", DefaultTable(), ""},
		{"missing name", &Table{Fields: []Field{NewField("a")}}, alerr.ErrSchemaInvalid},
		{"no fields", &Table{Name: "t"}, alerr.ErrSchemaInvalid},
		{"unnamed field", &Table{Name: "t", Fields: []Field{{Type: "int32"}}}, alerr.ErrSchemaInvalid},
		{"duplicate field", &Table{Name: "t", Fields: []Field{NewField("a"), NewField("a")}}, alerr.ErrSchemaDuplicate},
		{"bad type is not checked here", &Table{Name: "t", Fields: []Field{NewTypedField("a", "frobnicate")}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			if !alerr.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want code %v", err, tt.code)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// Index roles
// -----------------------------------------------------------------------------

func TestParseIndexType(t *testing.T) {
	tests := []struct {
		input string
		want  IndexType
	}{
		{"primary", Primary},
		{"PRIMARY", Primary},
		{"Unique", Unique},
		{"index", Index},
		{"fulltext", FullText},
		{"full_text", FullText},
		{"FullText", FullText},
		{"spatial", Spatial},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseIndexType(tt.input)
			if err != nil {
				t.Fatalf("ParseIndexType(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseIndexType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	if _, err := ParseIndexType("primery"); !alerr.Is(err, alerr.ErrSchemaInvalid) {
		t.Errorf("ParseIndexType(primery) = %v, want ErrSchemaInvalid", err)
	}
}

// -----------------------------------------------------------------------------
// YAML
// -----------------------------------------------------------------------------

func TestTableYAMLRoundTrip(t *testing.T) {
	src := `
table_name: events
fields:
  - name: id
    type: uint64
    index: primary
    value:
      not_null: true
  - name: status
    type: varchar(16)
    value:
      default: "new"
  - name: created_at
    type: datetime
table_engine: ReplacingMergeTree
order_by: [created_at]
`
	var tbl Table
	if err := yaml.Unmarshal([]byte(src), &tbl); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if tbl.Name != "events" || len(tbl.Fields) != 3 {
		t.Fatalf("table = %+v", tbl)
	}
	if !tbl.Fields[0].IsPrimary() || !tbl.Fields[0].Value.IsNotNull() {
		t.Errorf("id field = %+v", tbl.Fields[0])
	}
	if d, ok := tbl.Fields[1].Value.DefaultValue(); !ok || d != "new" {
		t.Errorf("status default = (%q, %v)", d, ok)
	}
	if tbl.Engine == nil || tbl.Engine.Kind != ReplacingMergeTree {
		t.Errorf("Engine = %v", tbl.Engine)
	}
	if !reflect.DeepEqual(tbl.OrderBy, []string{"created_at"}) {
		t.Errorf("OrderBy = %v", tbl.OrderBy)
	}

	out, err := yaml.Marshal(&tbl)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if !strings.Contains(string(out), "index: primary") || !strings.Contains(string(out), "ReplacingMergeTree()") {
		t.Errorf("Marshal output:\n%s", out)
	}

	var again Table
	if err := yaml.Unmarshal(out, &again); err != nil {
		t.Fatalf("re-Unmarshal error: %v", err)
	}
	if !reflect.DeepEqual(again, tbl) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", again, tbl)
	}
}

func TestIndexTypeYAMLError(t *testing.T) {
	src := "table_name: t\nfields:\n  - name: a\n    type: int32\n    index: primery\n"
	var tbl Table
	err := yaml.Unmarshal([]byte(src), &tbl)
	if !alerr.Is(err, alerr.ErrSchemaInvalid) {
		t.Fatalf("Unmarshal error = %v, want ErrSchemaInvalid", err)
	}
	if line := err.(*alerr.Error).GetContext()["line"]; line != 5 {
		t.Errorf("line = %v, want 5", line)
	}
}
