package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// SourceSnippet is a span of lines from a table file shown under an error.
type SourceSnippet struct {
	File      string
	StartLine int
	Lines     []string
	Target    int // line to point at, 0 for none
	Label     string
}

// NewSourceSnippet reads the lines around targetLine from file.
func NewSourceSnippet(file string, targetLine, contextBefore, contextAfter int) (*SourceSnippet, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	startLine := targetLine - contextBefore
	if startLine < 1 {
		startLine = 1
	}
	endLine := targetLine + contextAfter

	var lines []string
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if targetLine > lineNum {
		return nil, fmt.Errorf("%s has %d lines, wanted line %d", file, lineNum, targetLine)
	}

	return &SourceSnippet{
		File:      file,
		StartLine: startLine,
		Lines:     lines,
		Target:    targetLine,
	}, nil
}

// Render renders the snippet with line numbers. The target line is
// underlined from its first non-blank character.
func (s *SourceSnippet) Render() string {
	if len(s.Lines) == 0 {
		return ""
	}

	var b strings.Builder

	maxLineNum := s.StartLine + len(s.Lines) - 1
	width := len(fmt.Sprintf("%d", maxLineNum))
	padding := strings.Repeat(" ", width)

	b.WriteString(padding)
	b.WriteString(" ")
	b.WriteString(Pipe())
	b.WriteString("\n")

	for i, line := range s.Lines {
		lineNum := s.StartLine + i

		b.WriteString(LineNum(fmt.Sprintf("%*d", width, lineNum)))
		b.WriteString(" ")
		b.WriteString(Pipe())
		b.WriteString(" ")
		b.WriteString(Source(line))
		b.WriteString("\n")

		if lineNum != s.Target {
			continue
		}
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		b.WriteString(padding)
		b.WriteString(" ")
		b.WriteString(Pipe())
		b.WriteString(" ")
		b.WriteString(strings.Repeat(" ", len(line)-len(trimmed)))
		b.WriteString(Pointer(strings.Repeat("^", len(strings.TrimRight(trimmed, " \t")))))
		if s.Label != "" {
			b.WriteString(" ")
			b.WriteString(s.Label)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderFileHeader renders the file location header (e.g., "--> tables/users.yaml:5")
func RenderFileHeader(file string, line int) string {
	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(stylePipeArrow())
	b.WriteString(" ")

	loc := file
	if line > 0 {
		loc = fmt.Sprintf("%s:%d", file, line)
	}
	b.WriteString(FilePath(loc))
	b.WriteString("\n")
	return b.String()
}

func stylePipeArrow() string {
	if !EnableColors() {
		return "-->"
	}
	return stylePipe.Render("-->")
}
