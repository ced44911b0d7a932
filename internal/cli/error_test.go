package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hlop3z/sqltable/internal/alerr"
)

func init() {
	// Force plain mode in tests so style functions return raw text (no ANSI codes).
	SetDefault(&Config{Mode: ModePlain})
}

func assertContains(t *testing.T, output string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\ngot:\n%s", want, output)
		}
	}
}

func TestFormatError_Nil(t *testing.T) {
	if got := FormatError(nil); got != "" {
		t.Errorf("FormatError(nil) = %q, want empty", got)
	}
}

func TestFormatError_Context(t *testing.T) {
	err := alerr.New(alerr.ErrTypeUnsupported, "type time is not supported by clickhouse").
		WithTable("events").
		WithColumn("at").
		WithNote("clickhouse has no time-of-day type").
		WithHelp("use datetime instead")

	output := FormatError(err)

	assertContains(t, output,
		"error[E3001]: type time is not supported by clickhouse",
		"| column: at",
		"| table: events",
		"note: clickhouse has no time-of-day type",
		"help: use datetime instead",
	)
	if strings.Index(output, "column:") > strings.Index(output, "table:") {
		t.Error("context keys should be sorted")
	}
	if strings.Contains(output, "notes:") || strings.Contains(output, "helps:") {
		t.Error("notes and helps should not be repeated as context")
	}
}

func TestFormatError_FileAndSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.yaml")
	src := "table_name: users\nfields:\n  - name: id\n    type: ipv5\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	err := alerr.New(alerr.ErrTypeUnknown, `unknown field type "ipv5"`).
		WithFile(path).
		With("line", 4)

	output := FormatError(err)

	assertContains(t, output,
		"--> "+path+":4",
		"3 |   - name: id",
		"4 |     type: ipv5",
		"  |     ^^^^^^^^^^",
	)
	if strings.Contains(output, "line: 4") {
		t.Error("line should not be repeated as context")
	}
}

func TestFormatError_FileWithoutLine(t *testing.T) {
	err := alerr.New(alerr.ErrSchemaNotFound, "table file not found").WithFile("tables/x.yaml")
	output := FormatError(err)
	assertContains(t, output, "--> tables/x.yaml\n")
}

func TestFormatError_MissingSourceFile(t *testing.T) {
	err := alerr.New(alerr.ErrSchemaInvalid, "bad").WithFile("nope/x.yaml").With("line", 3)
	output := FormatError(err)
	assertContains(t, output, "--> nope/x.yaml:3")
	if strings.Contains(output, "3 |") {
		t.Error("unreadable files should not render a snippet")
	}
}

func TestFormatError_Cause(t *testing.T) {
	err := alerr.Wrap(alerr.ErrCacheInit, errors.New("disk full"), "failed to open cache database")
	assertContains(t, FormatError(err), "error[E8001]", "cause: disk full")
}

func TestFormatError_Generic(t *testing.T) {
	output := FormatError(errors.New("plain failure"))
	if output != "error: plain failure\n" {
		t.Errorf("FormatError() = %q", output)
	}
}

func TestFormatError_WrappedCoded(t *testing.T) {
	inner := alerr.New(alerr.ErrLockNotFound, "lock file not found")
	output := FormatError(fmt.Errorf("verify: %w", inner))
	assertContains(t, output, "error[E4004]: lock file not found")
}

func TestFormatError_Joined(t *testing.T) {
	err := errors.Join(
		alerr.New(alerr.ErrSchemaInvalid, "first"),
		errors.Join(errors.New("second"), alerr.New(alerr.ErrTypeSyntax, "third")),
	)

	if got := len(Flatten(err)); got != 3 {
		t.Fatalf("Flatten() returned %d errors, want 3", got)
	}

	output := FormatError(err)
	first := strings.Index(output, "first")
	second := strings.Index(output, "second")
	third := strings.Index(output, "third")
	if first < 0 || second < first || third < second {
		t.Errorf("joined errors out of order:\n%s", output)
	}
	if !strings.Contains(output, "\n\nerror: second") {
		t.Errorf("joined errors should be separated by a blank line:\n%s", output)
	}
}

func TestFlattenNil(t *testing.T) {
	if Flatten(nil) != nil {
		t.Error("Flatten(nil) should be nil")
	}
}

func TestFormatMessages(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"warning", FormatWarning("no tables found"), "warning: no tables found\n"},
		{"warning help", FormatWarning("no tables found", "run 'sqltable init'"), "warning: no tables found\nhelp: run 'sqltable init'\n"},
		{"note", FormatNote("cached"), "note: cached\n"},
		{"help", FormatHelp("try again"), "help: try again\n"},
		{"success", FormatSuccess("wrote 4 files"), "success: wrote 4 files\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
