package schema

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/sqltable/internal/alerr"
)

func TestParseEngine(t *testing.T) {
	tests := []struct {
		input string
		want  ClickHouseEngine
	}{
		{"MergeTree", ClickHouseEngine{Kind: MergeTree}},
		{"MergeTree()", ClickHouseEngine{Kind: MergeTree}},
		{"mergetree", ClickHouseEngine{Kind: MergeTree}},
		{" ReplacingMergeTree ( ) ", ClickHouseEngine{Kind: ReplacingMergeTree}},
		{"SummingMergeTree", ClickHouseEngine{Kind: SummingMergeTree}},
		{"AggregatingMergeTree()", ClickHouseEngine{Kind: AggregatingMergeTree}},
		{"CollapsingMergeTree(1)", ClickHouseEngine{Kind: CollapsingMergeTree, Sign: 1}},
		{"CollapsingMergerTree(-1)", ClickHouseEngine{Kind: CollapsingMergeTree, Sign: -1}},
		{"VersionedCollapsingMergeTree(-1, 3)", ClickHouseEngine{Kind: VersionedCollapsingMergeTree, Sign: -1, Version: 3}},
		{"TinyLog", ClickHouseEngine{Kind: TinyLog}},
		{"StripeLog", ClickHouseEngine{Kind: StripeLog}},
		{"log", ClickHouseEngine{Kind: Log}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseEngine(tt.input)
			if err != nil {
				t.Fatalf("ParseEngine(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseEngine(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseEngineErrors(t *testing.T) {
	inputs := []string{
		"",
		"MergeTre",
		"MergeTree(",
		"MergeTree(1)",
		"CollapsingMergeTree",
		"CollapsingMergeTree(1,2)",
		"CollapsingMergeTree(200)",
		"VersionedCollapsingMergeTree(1)",
		"VersionedCollapsingMergeTree(1,-2)",
		"Log(x)",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseEngine(input)
			if !alerr.Is(err, alerr.ErrTableEngineInvalid) {
				t.Errorf("ParseEngine(%q) = %v, want ErrTableEngineInvalid", input, err)
			}
		})
	}
}

func TestParseEngineSuggestion(t *testing.T) {
	_, err := ParseEngine("StripLog")
	ae, ok := err.(*alerr.Error)
	if !ok {
		t.Fatalf("expected *alerr.Error, got %T", err)
	}
	if helps := ae.Helps(); len(helps) != 1 || helps[0] != "did you mean 'StripeLog'?" {
		t.Errorf("Helps() = %v", helps)
	}
}

func TestEngineString(t *testing.T) {
	tests := []struct {
		engine ClickHouseEngine
		want   string
	}{
		{DefaultEngine, "MergeTree()"},
		{ClickHouseEngine{Kind: SummingMergeTree}, "SummingMergeTree()"},
		{ClickHouseEngine{Kind: CollapsingMergeTree, Sign: -1}, "CollapsingMergeTree(-1)"},
		{ClickHouseEngine{Kind: VersionedCollapsingMergeTree, Sign: 1, Version: 2}, "VersionedCollapsingMergeTree(1,2)"},
		{ClickHouseEngine{Kind: TinyLog}, "TinyLog"},
		{ClickHouseEngine{Kind: Log}, "Log"},
	}

	for _, tt := range tests {
		if got := tt.engine.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
		parsed, err := ParseEngine(tt.want)
		if err != nil || parsed != tt.engine {
			t.Errorf("ParseEngine(%q) = %+v, %v", tt.want, parsed, err)
		}
	}
}

func TestEngineFamilies(t *testing.T) {
	for k := MergeTree; k <= Log; k++ {
		e := ClickHouseEngine{Kind: k}
		if e.IsMergeTreeFamily() == e.IsLogFamily() {
			t.Errorf("%v must belong to exactly one family", k)
		}
	}
	if !(ClickHouseEngine{Kind: VersionedCollapsingMergeTree}).IsMergeTreeFamily() {
		t.Error("VersionedCollapsingMergeTree should be MergeTree family")
	}
	if !(ClickHouseEngine{Kind: StripeLog}).IsLogFamily() {
		t.Error("StripeLog should be log family")
	}
	if len(EngineNames()) != int(Log)+1 {
		t.Errorf("EngineNames() = %v", EngineNames())
	}
}

func TestEngineYAMLMapping(t *testing.T) {
	tests := []struct {
		src  string
		want ClickHouseEngine
	}{
		{"engine: CollapsingMergeTree(1)", ClickHouseEngine{Kind: CollapsingMergeTree, Sign: 1}},
		{"engine: {CollapsingMergeTree: -1}", ClickHouseEngine{Kind: CollapsingMergeTree, Sign: -1}},
		{"engine: {VersionedCollapsingMergeTree: [1, 2]}", ClickHouseEngine{Kind: VersionedCollapsingMergeTree, Sign: 1, Version: 2}},
		{"engine: {ReplacingMergeTree: []}", ClickHouseEngine{Kind: ReplacingMergeTree}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			var doc struct {
				Engine ClickHouseEngine `yaml:"engine"`
			}
			if err := yaml.Unmarshal([]byte(tt.src), &doc); err != nil {
				t.Fatalf("Unmarshal error: %v", err)
			}
			if doc.Engine != tt.want {
				t.Errorf("Engine = %+v, want %+v", doc.Engine, tt.want)
			}
		})
	}
}

func TestEngineYAMLErrors(t *testing.T) {
	srcs := []string{
		"engine: Nonsense",
		"engine: {A: 1, B: 2}",
		"engine: {Bogus: [1]}",
		"engine: {CollapsingMergeTree: {x: 1}}",
		"engine: [MergeTree]",
	}

	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			var doc struct {
				Engine ClickHouseEngine `yaml:"engine"`
			}
			err := yaml.Unmarshal([]byte(src), &doc)
			if !alerr.Is(err, alerr.ErrTableEngineInvalid) {
				t.Fatalf("Unmarshal(%q) = %v, want ErrTableEngineInvalid", src, err)
			}
			if line := err.(*alerr.Error).GetContext()["line"]; line != 1 {
				t.Errorf("line = %v, want 1", line)
			}
		})
	}
}
