package typecheck_test

import (
	"testing"

	"ning/internal/ast"
	"ning/internal/lexer"
	"ning/internal/parser"
	"ning/internal/typecheck"
	"ning/internal/types"
)

func check(t *testing.T, input string) []typecheck.Diagnostic {
	t.Helper()

	l := lexer.New(input)
	p := parser.New(l)
	defs := p.ParseFile()
	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			t.Logf("parser error: %s", e)
		}
		t.Fatalf("expected no parser errors, got %d", len(errs))
	}

	diags := typecheck.Check(defs)
	for _, d := range diags {
		t.Logf("%s: %s", d.Kind, d.Error())
	}
	return diags
}

func expectKinds(t *testing.T, diags []typecheck.Diagnostic, want ...typecheck.Kind) {
	t.Helper()

	if len(diags) != len(want) {
		t.Fatalf("expected %d diagnostics %v, got %d", len(want), want, len(diags))
	}
	for i, k := range want {
		if diags[i].Kind != k {
			t.Fatalf("diagnostic %d: expected %s, got %s", i, k, diags[i].Kind)
		}
	}
}

func TestCheck_ValidProgram(t *testing.T) {
	input := `Global {
    var [score] (0);
    let [limit] (10);
    create number list [history];
}

Number Query (double (Number x)) {
    let [y] ((x) * (2));
    return (y);
}

Boolean Query (over limit (Number x)) {
    if ((x) > (limit)) {
        return (true);
    } else {
        return (false);
    };
}

Command (update) {
    assign [score] (double (score));
    add (score) to [history];
    if (over limit (score)) {
        assign [score] (0);
        delete all of [history];
    };
    repeat (3) times {
        increase [score] (1);
    };
}

Command (render) {
    clear rect at (0) (0) size (window width) (window height);
    draw image ("ship") at (canvas mouse x) (canvas mouse y) size (32) (32);
}
`

	expectKinds(t, check(t, input))
}

func TestCheck_CommandsMayCallEachOther(t *testing.T) {
	input := `Command (ping (Number n)) {
    if ((n) > (0)) {
        pong ((n) - (1));
    };
}

Command (pong (Number n)) {
    ping (n);
}
`

	expectKinds(t, check(t, input))
}

func TestCheck_QueriesSeeOnlyEarlierQueries(t *testing.T) {
	input := `Number Query (first) {
    return (second);
}

Number Query (second) {
    return (1);
}

Number Query (third) {
    return ((second) + (third));
}
`

	diags := check(t, input)
	expectKinds(t, diags, typecheck.NameNotFound, typecheck.NameNotFound)
	if diags[0].Pos().Line != 2 || diags[1].Pos().Line != 10 {
		t.Fatalf("expected errors on lines 2 and 10, got %s and %s", diags[0].Pos(), diags[1].Pos())
	}
}

func TestCheck_DuplicateDeclarationReportedOnce(t *testing.T) {
	input := `Command (update) {
    let [x] (1);
    let [x] (2);
    let [y] ((x) + (1));
}
`

	diags := check(t, input)
	expectKinds(t, diags, typecheck.NameClash)
	if diags[0].Conflict == nil || diags[0].Conflict.Pos().Line != 2 {
		t.Fatalf("expected the clash to point at line 2, got %#v", diags[0].Conflict)
	}
}

func TestCheck_NameClashes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		builtin string
	}{
		{"query with builtin", "Number Query (pi) { return (1); }", "pi"},
		{"variable with builtin", "Command (update) { let [pi] (1); }", "pi"},
		{"command with builtin", "Command (return) { }", "return"},
		{"command with query", "Number Query (go) { return (1); }\nCommand (go) { }", ""},
		{"parameter with global", "Global { let [speed] (1); }\nCommand (go (Number speed)) { }", ""},
		{"list with variable", "Command (update) { var [xs] (1); create number list [xs]; }", ""},
		{"shadowing in block", "Command (update) { let [x] (1); if (true) { let [x] (2); }; }", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := check(t, tt.input)
			expectKinds(t, diags, typecheck.NameClash)
			if diags[0].ConflictBuiltin != tt.builtin {
				t.Fatalf("expected builtin conflict %q, got %q", tt.builtin, diags[0].ConflictBuiltin)
			}
		})
	}
}

func TestCheck_InevitableReturn(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		lacks bool
	}{
		{"plain return", "return (1);", false},
		{"if without else", "if (true) { return (1); };", true},
		{"if with else", "if (true) { return (1); } else { return (2); };", false},
		{"else without return", "if (true) { return (1); } else { let [x] (2); };", true},
		{"nested if else", "if (true) { if (false) { return (1); } else { return (2); }; } else { return (3); };", false},
		{"return in repeat", "repeat (2) times { return (1); };", true},
		{"empty body", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := check(t, "Number Query (f) { "+tt.body+" }")
			if tt.lacks {
				expectKinds(t, diags, typecheck.QueryDefBodyLacksInevitableReturn)
			} else {
				expectKinds(t, diags)
			}
		})
	}
}

func TestCheck_ImmutableVariables(t *testing.T) {
	input := `Command (go (Number n)) {
    assign [n] (1);
    let [k] (1);
    increase [k] (1);
    var [m] (1);
    assign [m] (2);
}
`

	diags := check(t, input)
	expectKinds(t, diags, typecheck.ReassignedImmutableVariable, typecheck.ReassignedImmutableVariable)
}

func TestCheck_GlobalDefNotFirst(t *testing.T) {
	input := `Command (update) { }
Global { let [a] (1); }
Global { let [b] (2); }
Command (render) {
    let [c] ((a) + (b));
}
`

	diags := check(t, input)
	expectKinds(t, diags, typecheck.GlobalDefNotFirst)
	if len(diags[0].Nodes) != 2 {
		t.Fatalf("expected both misplaced Global definitions bundled, got %d", len(diags[0].Nodes))
	}
}

func TestCheck_GlobalBodyOnlyDeclares(t *testing.T) {
	input := `Global {
    var [x] (0);
    increase [x] (1);
    if (true) { };
    launch rockets;
}
`

	expectKinds(t, check(t, input),
		typecheck.IllegalCommandInGlobalDefBody,
		typecheck.IllegalCommandInGlobalDefBody,
		typecheck.IllegalCommandInGlobalDefBody,
	)
}

func TestCheck_QueryBodyRestrictions(t *testing.T) {
	input := `Global {
    var [x] (0);
    create number list [xs];
}

Number Query (f) {
    while (true) { };
    resize canvas to (1) by (1);
    assign [x] (1);
    add (1) to [xs];
    var [local] (0);
    increase [local] (1);
    return (local);
}
`

	expectKinds(t, check(t, input),
		typecheck.IllegalCommandInQueryDefBody,
		typecheck.IllegalCommandInQueryDefBody,
		typecheck.QueryDefBodyMutatesGlobal,
		typecheck.QueryDefBodyMutatesGlobal,
	)
}

func TestCheck_ReturnKinds(t *testing.T) {
	input := `Command (update) {
    return (1);
    return;
}

Number Query (f) {
    return;
}

Number Query (g) {
    return ("a");
}
`

	// queries are checked before commands
	diags := check(t, input)
	expectKinds(t, diags,
		typecheck.ReturnKindMismatch,
		typecheck.ReturnTypeMismatch,
		typecheck.ReturnKindMismatch,
	)
	if diags[1].Actual != types.String || !diags[1].Expected.Has(types.Number) {
		t.Fatalf("expected Number/String mismatch, got %s/%s", diags[1].Expected, diags[1].Actual)
	}
	if diags[2].Pos().Line != 2 {
		t.Fatalf("expected the command's return on line 2, got %s", diags[2].Pos())
	}
}

func TestCheck_ArgTypeMismatch(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
	}{
		{"arithmetic", `let [v] (("a") + (1));`},
		{"equality", `let [v] ((1) = ("a"));`},
		{"ternary branches", `let [v] (if (true) then (1) else ("a"));`},
		{"ternary condition", `let [v] (if (1) then (1) else (2));`},
		{"list element", `add ("a") to [xs];`},
		{"assign", `assign [n] ("a");`},
		{"user command", `go ("fast");`},
		{"user query", `let [v] (double (true));`},
		{"canvas", `resize canvas to ("a") by (1);`},
	}

	prelude := `Global {
    create number list [xs];
    var [n] (0);
}
Number Query (double (Number x)) { return ((x) * (2)); }
Command (go (Number speed)) { }
`

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := check(t, prelude+"Command (update) { "+tt.cmd+" }")
			expectKinds(t, diags, typecheck.ArgTypeMismatch)
		})
	}
}

func TestCheck_SquareTypeMismatch(t *testing.T) {
	input := `Global {
    create number list [xs];
    var [n] (0);
    var [s] ("a");
}

Command (update) {
    add (1) to [n];
    increase [xs] (1);
    increase [s] (1);
    let [v] (length of [n]);
}
`

	diags := check(t, input)
	expectKinds(t, diags,
		typecheck.SquareTypeMismatch,
		typecheck.SquareTypeMismatch,
		typecheck.SquareTypeMismatch,
		typecheck.SquareTypeMismatch,
	)
	if diags[0].ActualSquare.IsList || diags[0].ActualSquare.Elem != types.Number {
		t.Fatalf("expected a Number variable as the actual square, got %s", diags[0].ActualSquare)
	}
}

func TestCheck_PoisonDoesNotCascade(t *testing.T) {
	input := `Command (update) {
    let [x] (nope);
    let [y] ((x) + (1));
    let [z] ((item (0) of [missing]) + (1));
    let [w] ((y) * ((z) - ((x) / (2))));
    if ((w) > (y)) { };
}
`

	diags := check(t, input)
	expectKinds(t, diags, typecheck.NameNotFound, typecheck.NameNotFound)
}

func TestCheck_MismatchKeepsOutputType(t *testing.T) {
	input := `Command (update) {
    let [x] (("a") * (2));
    let [y] ((x) ++ ("!"));
}
`

	// x is still a Number, so the concatenation is a second, genuine mismatch
	expectKinds(t, check(t, input), typecheck.ArgTypeMismatch, typecheck.ArgTypeMismatch)
}

func TestCheck_UnknownCommand(t *testing.T) {
	input := `Command (update) {
    fly to (1);
}
`

	diags := check(t, input)
	expectKinds(t, diags, typecheck.NameNotFound)
	if _, ok := diags[0].Node.(*ast.Command); !ok {
		t.Fatalf("expected the command as the offending node, got %T", diags[0].Node)
	}
}

func TestCheck_BlockScopes(t *testing.T) {
	input := `Command (update) {
    if (true) {
        let [inner] (1);
    };
    let [outer] (inner);
    if (true) {
        let [inner] (2);
    };
}
`

	// inner is gone after its block, so it can be declared again
	expectKinds(t, check(t, input), typecheck.NameNotFound)
}

func TestCheck_TernaryTakesHealthyBranch(t *testing.T) {
	input := `Command (update) {
    let [v] (if (true) then (nope) else (1));
    let [w] ((v) ++ ("a"));
    let [u] (if (false) then ("s") else (nada));
    let [twice] ((u) * (2));
    let [p] (if (true) then (nope) else (nada));
    let [q] ((p) ++ ("a"));
}
`

	diags := check(t, input)
	expectKinds(t, diags,
		typecheck.NameNotFound, typecheck.ArgTypeMismatch,
		typecheck.NameNotFound, typecheck.ArgTypeMismatch,
		typecheck.NameNotFound, typecheck.NameNotFound)

	// v took the Number of its else branch, u the String of its then branch
	if diags[1].Actual != types.Number || !diags[1].Expected.Has(types.String) {
		t.Fatalf("expected a Number where a String belongs, got %s for %s", diags[1].Actual, diags[1].Expected)
	}
	if diags[3].Actual != types.String || !diags[3].Expected.Has(types.Number) {
		t.Fatalf("expected a String where a Number belongs, got %s for %s", diags[3].Actual, diags[3].Expected)
	}
}
