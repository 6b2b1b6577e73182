// Package gold extracts golden test cases from Markdown documents. A case
// starts at a heading of the form "Test: <name>" and collects the fenced
// code blocks that follow until the next such heading; each fence's info
// string names the kind of expectation it holds.
package gold

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Kinds of expectation fences recognized in golden files.
const (
	KindTAC   = "tac"   // expected instruction listing
	KindDump  = "dump"  // expected tree dump
	KindDot   = "dot"   // expected graph dump
	KindError = "error" // expected diagnostic message
)

func knownKind(lang string) bool {
	switch lang {
	case KindTAC, KindDump, KindDot, KindError:
		return true
	}
	return false
}

// Case is one extracted golden test case.
type Case struct {
	Name   string
	fences map[string]string
}

// Fence returns the contents of the fence of the given kind and whether
// the case has one. Trailing newlines are trimmed.
func (c *Case) Fence(kind string) (string, bool) {
	s, ok := c.fences[kind]
	return s, ok
}

// ExtractCases parses a Markdown document and returns its golden cases in
// document order. A recognized fence outside any case, a duplicate fence
// kind within a case, an unknown fence kind, or a case with no fences at
// all is an error.
func ExtractCases(markdown string) ([]Case, error) {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var cases []Case
	var current *Case

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := headingText(n, source)
			if !strings.HasPrefix(heading, "Test: ") {
				return ast.WalkContinue, nil
			}
			if current != nil {
				if err := validateCase(current); err != nil {
					return ast.WalkStop, err
				}
				cases = append(cases, *current)
			}
			current = &Case{
				Name:   strings.TrimPrefix(heading, "Test: "),
				fences: map[string]string{},
			}

		case *ast.FencedCodeBlock:
			lang := string(n.Language(source))
			if lang == "" {
				return ast.WalkContinue, nil
			}
			line := lineNumber(n, source)
			if current == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of test case", line, lang)
			}
			if !knownKind(lang) {
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence kind '%s' in test '%s'", line, lang, current.Name)
			}
			if _, dup := current.fences[lang]; dup {
				return ast.WalkStop, fmt.Errorf("line %d: multiple %s fences in test '%s'", line, lang, current.Name)
			}
			current.fences[lang] = strings.TrimRight(fenceContent(n, source), "\n")
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if current != nil {
		if err := validateCase(current); err != nil {
			return nil, err
		}
		cases = append(cases, *current)
	}

	return cases, nil
}

func validateCase(c *Case) error {
	if len(c.fences) == 0 {
		return fmt.Errorf("test '%s' has no expectation fences", c.Name)
	}
	return nil
}

func headingText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < block.Lines().Len(); i++ {
		line := block.Lines().At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

func lineNumber(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	line := 1
	for i := 0; i < start && i < len(source); i++ {
		if source[i] == '\n' {
			line++
		}
	}
	return line
}
