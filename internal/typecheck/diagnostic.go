package typecheck

import (
	"fmt"

	"ning/internal/ast"
	"ning/internal/token"
	"ning/internal/types"
)

// Kind classifies a diagnostic.
type Kind int

const (
	NameClash Kind = iota
	GlobalDefNotFirst
	IllegalCommandInGlobalDefBody
	IllegalCommandInQueryDefBody
	QueryDefBodyMutatesGlobal
	QueryDefBodyLacksInevitableReturn
	ReassignedImmutableVariable
	ReturnKindMismatch
	ReturnTypeMismatch
	ArgTypeMismatch
	SquareTypeMismatch
	NameNotFound
)

var kindNames = [...]string{
	NameClash:                         "NameClash",
	GlobalDefNotFirst:                 "GlobalDefNotFirst",
	IllegalCommandInGlobalDefBody:     "IllegalCommandInGlobalDefBody",
	IllegalCommandInQueryDefBody:      "IllegalCommandInQueryDefBody",
	QueryDefBodyMutatesGlobal:         "QueryDefBodyMutatesGlobal",
	QueryDefBodyLacksInevitableReturn: "QueryDefBodyLacksInevitableReturn",
	ReassignedImmutableVariable:       "ReassignedImmutableVariable",
	ReturnKindMismatch:                "ReturnKindMismatch",
	ReturnTypeMismatch:                "ReturnTypeMismatch",
	ArgTypeMismatch:                   "ArgTypeMismatch",
	SquareTypeMismatch:                "SquareTypeMismatch",
	NameNotFound:                      "NameNotFound",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Diagnostic is one typechecking error. Which of the optional fields are set
// depends on Kind.
type Diagnostic struct {
	Kind Kind
	// Node is the offending node.
	Node ast.Node
	// Nodes bundles every offender, for GlobalDefNotFirst.
	Nodes []ast.Node

	// Conflict is the earlier definition a NameClash collides with; for a
	// builtin it is nil and ConflictBuiltin holds the signature.
	Conflict        ast.Node
	ConflictBuiltin string

	// Expected and Actual are set for ArgTypeMismatch and
	// ReturnTypeMismatch; ExpectedSquare and ActualSquare for
	// SquareTypeMismatch.
	Expected       types.Set
	Actual         types.Type
	ExpectedSquare types.SquareSet
	ActualSquare   types.Square

	Msg string
}

func (d Diagnostic) Pos() token.Position {
	if d.Node == nil {
		return token.Position{}
	}
	return d.Node.Pos()
}

func (d Diagnostic) Error() string {
	pos := d.Pos()
	return fmt.Sprintf("%d:%d: %s", pos.Line, pos.Column, d.Msg)
}
