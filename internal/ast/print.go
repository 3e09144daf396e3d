package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump returns a human-readable representation of the AST.
func Dump(node Node) string {
	var sb strings.Builder
	fprintNode(&sb, node, 0)
	return sb.String()
}

// DumpFile dumps every definition of a file, in order.
func DumpFile(defs []Def) string {
	var sb strings.Builder
	for _, def := range defs {
		fprintNode(&sb, def, 0)
	}
	return sb.String()
}

func fprintNode(w io.Writer, n Node, indent int) {
	if n == nil {
		return
	}

	ind := strings.Repeat("  ", indent)

	switch n := n.(type) {
	case *CommandDef:
		fmt.Fprintf(w, "%sCommandDef signature=%q\n", ind, HeaderSignature(n.Header))
		fprintHeader(w, n.Header, indent+1)
		fprintNode(w, n.Body, indent+1)

	case *QueryDef:
		fmt.Fprintf(w, "%sQueryDef signature=%q returns=%s\n", ind, HeaderSignature(n.Header), n.ReturnType.Type)
		fprintHeader(w, n.Header, indent+1)
		fprintNode(w, n.Body, indent+1)

	case *GlobalDef:
		fmt.Fprintf(w, "%sGlobalDef\n", ind)
		fprintNode(w, n.Body, indent+1)

	case *ParamDef:
		fmt.Fprintf(w, "%sParam name=%q type=%s\n", ind, n.ParamName(), n.Type.Type)

	case *Block:
		fmt.Fprintf(w, "%sBlock\n", ind)
		for _, cmd := range n.Commands {
			fprintNode(w, cmd, indent+1)
		}

	case *Command:
		fmt.Fprintf(w, "%sCommand signature=%q\n", ind, CommandSignature(n))
		for _, part := range n.Parts {
			if _, ok := part.(*Identifier); ok {
				continue
			}
			fprintNode(w, part, indent+1)
		}

	case *ParenExpr:
		fprintNode(w, n.Expr, indent)

	case *SquareRef:
		fmt.Fprintf(w, "%sSquareRef name=%q\n", ind, n.RefName())

	case *StringLiteral:
		fmt.Fprintf(w, "%sStringLiteral %s\n", ind, n.Source)

	case *CompoundExpr:
		if name, ok := n.BareName(); ok {
			fmt.Fprintf(w, "%sName %q\n", ind, name)
			return
		}
		fmt.Fprintf(w, "%sApply signature=%q\n", ind, QuerySignature(n))
		for _, part := range n.Parts {
			if _, ok := part.(*Identifier); ok {
				continue
			}
			fprintNode(w, part, indent+1)
		}

	case *Identifier:
		fmt.Fprintf(w, "%sIdentifier %s\n", ind, n.Name)

	case *TypeNode:
		fmt.Fprintf(w, "%sType %s\n", ind, n.Type)

	default:
		fmt.Fprintf(w, "%s<unknown node %T>\n", ind, n)
	}
}

func fprintHeader(w io.Writer, header []HeaderPart, indent int) {
	for _, p := range Params(header) {
		fprintNode(w, p, indent)
	}
}

// Format renders a node back as single-line source text.
func Format(node Node) string {
	var sb strings.Builder
	formatNode(&sb, node)
	return sb.String()
}

func formatNode(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *CommandDef:
		sb.WriteString("Command ")
		formatHeader(sb, n.Header)
		sb.WriteByte(' ')
		formatNode(sb, n.Body)
	case *QueryDef:
		sb.WriteString(n.ReturnType.Type.String())
		sb.WriteString(" Query ")
		formatHeader(sb, n.Header)
		sb.WriteByte(' ')
		formatNode(sb, n.Body)
	case *GlobalDef:
		sb.WriteString("Global ")
		formatNode(sb, n.Body)
	case *ParamDef:
		fmt.Fprintf(sb, "(%s %s)", n.Type.Type, n.ParamName())
	case *Block:
		sb.WriteByte('{')
		for _, cmd := range n.Commands {
			sb.WriteByte(' ')
			formatNode(sb, cmd)
		}
		sb.WriteString(" }")
	case *Command:
		for i, part := range n.Parts {
			if i > 0 {
				sb.WriteByte(' ')
			}
			formatNode(sb, part)
		}
		sb.WriteByte(';')
	case *ParenExpr:
		sb.WriteByte('(')
		formatNode(sb, n.Expr)
		sb.WriteByte(')')
	case *SquareRef:
		sb.WriteByte('[')
		sb.WriteString(n.RefName())
		sb.WriteByte(']')
	case *StringLiteral:
		sb.WriteString(n.Source)
	case *CompoundExpr:
		for i, part := range n.Parts {
			if i > 0 {
				sb.WriteByte(' ')
			}
			formatNode(sb, part)
		}
	case *Identifier:
		sb.WriteString(n.Name)
	case *TypeNode:
		sb.WriteString(n.Type.String())
	}
}

func formatHeader(sb *strings.Builder, header []HeaderPart) {
	sb.WriteByte('(')
	for i, part := range header {
		if i > 0 {
			sb.WriteByte(' ')
		}
		formatNode(sb, part)
	}
	sb.WriteByte(')')
}
