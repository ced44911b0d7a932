package schema

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/sqltable/internal/alerr"
)

// EngineKind identifies a ClickHouse table engine.
type EngineKind int

// ClickHouse table engines. The zero value is MergeTree, the default engine.
const (
	MergeTree EngineKind = iota
	ReplacingMergeTree
	SummingMergeTree
	AggregatingMergeTree
	CollapsingMergeTree
	VersionedCollapsingMergeTree
	TinyLog
	StripeLog
	Log
)

var engineNames = map[EngineKind]string{
	MergeTree:                    "MergeTree",
	ReplacingMergeTree:           "ReplacingMergeTree",
	SummingMergeTree:             "SummingMergeTree",
	AggregatingMergeTree:         "AggregatingMergeTree",
	CollapsingMergeTree:          "CollapsingMergeTree",
	VersionedCollapsingMergeTree: "VersionedCollapsingMergeTree",
	TinyLog:                      "TinyLog",
	StripeLog:                    "StripeLog",
	Log:                          "Log",
}

// engineAliases maps lowercase engine names to kinds. "collapsingmergertree" is the
// spelling used by early table files.
var engineAliases = map[string]EngineKind{
	"collapsingmergertree": CollapsingMergeTree,
}

func init() {
	for k, name := range engineNames {
		engineAliases[strings.ToLower(name)] = k
	}
}

// EngineNames returns the display names of all engines.
func EngineNames() []string {
	names := make([]string, 0, len(engineNames))
	for k := MergeTree; k <= Log; k++ {
		names = append(names, engineNames[k])
	}
	return names
}

// String returns the engine name without parameters.
func (k EngineKind) String() string {
	if name, ok := engineNames[k]; ok {
		return name
	}
	return "EngineKind(" + strconv.Itoa(int(k)) + ")"
}

// ClickHouseEngine is the storage engine of a ClickHouse table.
// Sign is used by the collapsing engines, Version only by VersionedCollapsingMergeTree.
type ClickHouseEngine struct {
	Kind    EngineKind
	Sign    int8
	Version uint8
}

// DefaultEngine is used when a table does not name an engine.
var DefaultEngine = ClickHouseEngine{Kind: MergeTree}

// String returns the engine as it appears after "ENGINE =".
func (e ClickHouseEngine) String() string {
	switch e.Kind {
	case CollapsingMergeTree:
		return fmt.Sprintf("CollapsingMergeTree(%d)", e.Sign)
	case VersionedCollapsingMergeTree:
		return fmt.Sprintf("VersionedCollapsingMergeTree(%d,%d)", e.Sign, e.Version)
	case TinyLog, StripeLog, Log:
		return e.Kind.String()
	default:
		return e.Kind.String() + "()"
	}
}

// IsMergeTreeFamily reports whether the engine accepts PRIMARY KEY and ORDER BY clauses.
func (e ClickHouseEngine) IsMergeTreeFamily() bool {
	switch e.Kind {
	case MergeTree, ReplacingMergeTree, SummingMergeTree, AggregatingMergeTree,
		CollapsingMergeTree, VersionedCollapsingMergeTree:
		return true
	}
	return false
}

// IsLogFamily reports whether the engine is one of the lightweight log engines.
func (e ClickHouseEngine) IsLogFamily() bool {
	switch e.Kind {
	case TinyLog, StripeLog, Log:
		return true
	}
	return false
}

// ParseEngine parses an engine specification such as "MergeTree", "Log",
// "CollapsingMergeTree(1)" or "VersionedCollapsingMergeTree(-1,2)".
// Names are case-insensitive and empty parentheses are optional.
func ParseEngine(text string) (ClickHouseEngine, error) {
	spec := strings.TrimSpace(text)
	name, rest, hasArgs := strings.Cut(spec, "(")
	name = strings.TrimSpace(name)

	var args []string
	if hasArgs {
		body, ok := strings.CutSuffix(strings.TrimSpace(rest), ")")
		if !ok {
			return ClickHouseEngine{}, alerr.New(alerr.ErrTableEngineInvalid, "missing closing parenthesis in table engine").
				With("engine", text)
		}
		if body = strings.TrimSpace(body); body != "" {
			for _, a := range strings.Split(body, ",") {
				args = append(args, strings.TrimSpace(a))
			}
		}
	}

	kind, ok := engineAliases[strings.ToLower(name)]
	if !ok {
		return ClickHouseEngine{}, alerr.Newf(alerr.ErrTableEngineInvalid, "unknown table engine %q", name).
			With("engine", text).
			WithHelp(alerr.SuggestSimilar(name, EngineNames()))
	}

	return newEngine(kind, args, text)
}

// newEngine builds an engine from its kind and textual parameters.
func newEngine(kind EngineKind, args []string, text string) (ClickHouseEngine, error) {
	want := 0
	switch kind {
	case CollapsingMergeTree:
		want = 1
	case VersionedCollapsingMergeTree:
		want = 2
	}
	if len(args) != want {
		return ClickHouseEngine{}, alerr.Newf(alerr.ErrTableEngineInvalid, "%s expects %d parameter(s), got %d", kind, want, len(args)).
			With("engine", text)
	}

	e := ClickHouseEngine{Kind: kind}
	if want >= 1 {
		sign, err := strconv.ParseInt(args[0], 10, 8)
		if err != nil {
			return ClickHouseEngine{}, alerr.Wrapf(alerr.ErrTableEngineInvalid, err, "%s sign must be an 8-bit integer", kind).
				With("engine", text)
		}
		e.Sign = int8(sign)
	}
	if want == 2 {
		version, err := strconv.ParseUint(args[1], 10, 8)
		if err != nil {
			return ClickHouseEngine{}, alerr.Wrapf(alerr.ErrTableEngineInvalid, err, "%s version must be an unsigned 8-bit integer", kind).
				With("engine", text)
		}
		e.Version = uint8(version)
	}
	return e, nil
}

// MarshalYAML writes the engine in its display form.
func (e ClickHouseEngine) MarshalYAML() (any, error) {
	return e.String(), nil
}

// UnmarshalYAML accepts either the display form ("CollapsingMergeTree(1)") or a
// single-key mapping from engine name to its parameters:
//
//	table_engine: {VersionedCollapsingMergeTree: [1, 2]}
func (e *ClickHouseEngine) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseEngine(node.Value)
		if err != nil {
			return atLine(err, node)
		}
		*e = parsed
		return nil

	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return atLine(alerr.New(alerr.ErrTableEngineInvalid, "table engine mapping must have exactly one key"), node)
		}
		name, params := node.Content[0].Value, node.Content[1]

		var args []string
		switch params.Kind {
		case yaml.ScalarNode:
			args = []string{params.Value}
		case yaml.SequenceNode:
			for _, p := range params.Content {
				args = append(args, p.Value)
			}
		default:
			return atLine(alerr.New(alerr.ErrTableEngineInvalid, "table engine parameters must be a value or a list"), node)
		}

		kind, ok := engineAliases[strings.ToLower(name)]
		if !ok {
			return atLine(alerr.Newf(alerr.ErrTableEngineInvalid, "unknown table engine %q", name).
				WithHelp(alerr.SuggestSimilar(name, EngineNames())), node)
		}
		parsed, err := newEngine(kind, args, name)
		if err != nil {
			return atLine(err, node)
		}
		*e = parsed
		return nil
	}

	return atLine(alerr.New(alerr.ErrTableEngineInvalid, "table engine must be a string or a mapping"), node)
}

// atLine records the yaml line of node on err.
func atLine(err error, node *yaml.Node) error {
	if ae, ok := err.(*alerr.Error); ok && node.Line > 0 {
		ae.With("line", node.Line)
	}
	return err
}
