// Package source loads Ning programs from disk.
package source

import (
	"fmt"
	"os"
	"strings"

	"ning/internal/ast"
	"ning/internal/lexer"
	"ning/internal/parser"
)

// Ext is the file extension of Ning programs.
const Ext = ".ning"

// File is a parsed source file.
type File struct {
	Path string    // path it was read from, or the name given to Parse
	Text string    // full source text
	Defs []ast.Def // parsed definitions
}

// Load reads and parses the file at path. Syntax errors are returned along
// with whatever definitions could be parsed; a nil file means the file could
// not be read at all.
func Load(path string) (*File, []error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{fmt.Errorf("cannot read file %s: %w", path, err)}
	}
	return Parse(path, string(content))
}

// Parse parses text as a file called name.
func Parse(name, text string) (*File, []error) {
	l := lexer.New(text)
	p := parser.New(l)
	defs := p.ParseFile()

	var errs []error
	for _, e := range p.Errors() {
		errs = append(errs, fmt.Errorf("%s:%s", name, e))
	}

	return &File{Path: name, Text: text, Defs: defs}, errs
}

// Line returns line n (1-based) of the source without its newline, or ""
// when out of range.
func (f *File) Line(n int) string {
	lines := strings.Split(f.Text, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[n-1], "\r")
}
