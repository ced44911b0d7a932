// Package schema holds the dialect-neutral table description that every
// engine renders from.
//
// Values in this package carry configuration only. Renderers read them and
// never modify them, so one *Table may be rendered for several engines at once.
package schema

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/sqltable/internal/alerr"
)

// DefaultFieldType is the type of fields created with NewField.
const DefaultFieldType = "varchar(255)"

// Table is a dialect-neutral table description.
type Table struct {
	Name   string            `yaml:"table_name"`
	Fields []Field           `yaml:"fields"`
	Engine *ClickHouseEngine `yaml:"table_engine,omitempty"`
	// OrderBy lists ordering columns for MergeTree-family engines.
	// They are appended after the primary key columns.
	OrderBy []string `yaml:"order_by,omitempty"`
}

// Field is a single column. Type is kept as text and parsed when rendering.
type Field struct {
	Name  string     `yaml:"name"`
	Type  string     `yaml:"type"`
	Index *IndexType `yaml:"index,omitempty"`
	Value *ValueConf `yaml:"value,omitempty"`
}

// ValueConf holds per-column value constraints. Nil members are unset.
type ValueConf struct {
	Increment *bool   `yaml:"increment,omitempty"`
	NotNull   *bool   `yaml:"not_null,omitempty"`
	Default   *string `yaml:"default,omitempty"`
}

// IsIncrement reports whether the column auto-increments.
func (v *ValueConf) IsIncrement() bool {
	return v != nil && v.Increment != nil && *v.Increment
}

// IsNotNull reports whether the column rejects NULL.
func (v *ValueConf) IsNotNull() bool {
	return v != nil && v.NotNull != nil && *v.NotNull
}

// DefaultValue returns the default literal and whether one is set.
func (v *ValueConf) DefaultValue() (string, bool) {
	if v == nil || v.Default == nil {
		return "", false
	}
	return *v.Default, true
}

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

// NewField returns a field of DefaultFieldType.
func NewField(name string) Field {
	return Field{Name: name, Type: DefaultFieldType}
}

// NewTypedField returns a field with the given type specification.
func NewTypedField(name, fieldType string) Field {
	return Field{Name: name, Type: fieldType}
}

// PrimaryKeyField returns an auto-incrementing, non-null int32 primary key.
func PrimaryKeyField(name string) Field {
	idx := Primary
	return Field{
		Name:  name,
		Type:  "int32",
		Index: &idx,
		Value: &ValueConf{
			Increment: Bool(true),
			NotNull:   Bool(true),
		},
	}
}

// DefaultTable returns the starter table written by "sqltable init".
func DefaultTable() *Table {
	return &Table{
		Name: "my_table",
		Fields: []Field{
			PrimaryKeyField("id"),
			NewField("value"),
		},
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// String returns a pointer to s.
func String(s string) *string { return &s }

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

// EngineOrDefault returns the table engine, or DefaultEngine when none is set.
func (t *Table) EngineOrDefault() ClickHouseEngine {
	if t.Engine == nil {
		return DefaultEngine
	}
	return *t.Engine
}

// PrimaryKey returns the names of primary fields in declaration order.
func (t *Table) PrimaryKey() []string {
	var cols []string
	for _, f := range t.Fields {
		if f.IsPrimary() {
			cols = append(cols, f.Name)
		}
	}
	return cols
}

// IsPrimary reports whether the field is part of the primary key.
func (f *Field) IsPrimary() bool {
	return f.Index != nil && *f.Index == Primary
}

// Validate checks the structural minimum a loader must guarantee: a table name,
// at least one field, and unique non-empty field names. Field types are checked
// when rendering.
func (t *Table) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return alerr.New(alerr.ErrSchemaInvalid, "table name is required")
	}
	if len(t.Fields) == 0 {
		return alerr.New(alerr.ErrSchemaInvalid, "table has no fields").
			WithTable(t.Name)
	}

	seen := make(map[string]int, len(t.Fields))
	for i, f := range t.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return alerr.Newf(alerr.ErrSchemaInvalid, "field #%d has no name", i+1).
				WithTable(t.Name)
		}
		if prev, dup := seen[f.Name]; dup {
			return alerr.Newf(alerr.ErrSchemaDuplicate, "field %q is declared twice", f.Name).
				WithTable(t.Name).
				With("first", prev+1).
				With("second", i+1)
		}
		seen[f.Name] = i
	}
	return nil
}

// -----------------------------------------------------------------------------
// Index roles
// -----------------------------------------------------------------------------

// IndexType is the index role of a field.
type IndexType int

// Index roles. Only Primary affects rendering today.
const (
	Primary IndexType = iota + 1
	Unique
	Index
	FullText
	Spatial
)

var indexNames = map[IndexType]string{
	Primary:  "primary",
	Unique:   "unique",
	Index:    "index",
	FullText: "fulltext",
	Spatial:  "spatial",
}

// String returns the lowercase yaml name of the role.
func (i IndexType) String() string {
	if name, ok := indexNames[i]; ok {
		return name
	}
	return "unknown"
}

// ParseIndexType parses an index role name case-insensitively.
// "full_text" is accepted as a spelling of fulltext.
func ParseIndexType(s string) (IndexType, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "")
	for i, name := range indexNames {
		if name == key {
			return i, nil
		}
	}
	return 0, alerr.Newf(alerr.ErrSchemaInvalid, "unknown index type %q", s).
		WithHelp(alerr.SuggestSimilar(key, []string{"primary", "unique", "index", "fulltext", "spatial"}))
}

// MarshalYAML writes the role by name.
func (i IndexType) MarshalYAML() (any, error) {
	return i.String(), nil
}

// UnmarshalYAML reads the role by name.
func (i *IndexType) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseIndexType(node.Value)
	if err != nil {
		return atLine(err, node)
	}
	*i = parsed
	return nil
}
