package boba

import (
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func checkSrc(t *testing.T, src string) []string {
	t.Helper()
	prog, err := ParseSource(src)
	if err != nil {
		t.Fatalf("parse error for %q: %v", src, err)
	}
	return CheckTypes(prog)
}

func wantClean(t *testing.T, src string) {
	t.Helper()
	if diags := checkSrc(t, src); len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

func wantOneDiag(t *testing.T, src, substr string) {
	t.Helper()
	diags := checkSrc(t, src)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diags), diags)
	}
	if !strings.Contains(diags[0], substr) {
		t.Fatalf("diagnostic %q does not contain %q", diags[0], substr)
	}
}

// --- tests -----------------------------------------------------------------

func Test_Checker_Clean_Program(t *testing.T) {
	wantClean(t, `
fun add(a: int, b: int): int {
    return a + b
}
x = add(1, 2)
y = x + 3
output(y)
`)
}

func Test_Checker_Mixed_List_Single_Diagnostic(t *testing.T) {
	wantOneDiag(t, `[1, "a"]`, "List contains mixed types: item 1")
}

func Test_Checker_Numeric_List_Mixing_Allowed(t *testing.T) {
	wantClean(t, "[1, 2.5, 3]")
}

func Test_Checker_Mixed_Map_Keys_And_Values(t *testing.T) {
	wantOneDiag(t, `[1: "a", "b": "c"]`, "Map contains mixed key types: entry 1")
	wantOneDiag(t, `[1: "a", 2: 3]`, "Map contains mixed value types: entry 1")
}

func Test_Checker_Undefined_Variable(t *testing.T) {
	wantOneDiag(t, "x + 1", "Undefined variable: x")
}

func Test_Checker_Add_Type_Mismatch(t *testing.T) {
	wantOneDiag(t, `1 + "a"`, "Cannot add values of types int and string")
}

func Test_Checker_Arithmetic_Rejects_Strings(t *testing.T) {
	wantOneDiag(t, `"a" * "b"`, "Cannot perform arithmetic on types string and string")
}

func Test_Checker_Numeric_Widening_Both_Directions(t *testing.T) {
	wantClean(t, "x = 1 + 2.5")
	wantClean(t, "y = 2.5 - 1")
}

func Test_Checker_Comparison_Rules(t *testing.T) {
	wantClean(t, `"a" < "b"`)
	wantClean(t, "1 < 2.5")
	wantOneDiag(t, `1 < "a"`, "Cannot compare values of types int and string")
}

func Test_Checker_Equality_Needs_Compatible_Types(t *testing.T) {
	wantClean(t, "1 == 1.5")
	wantOneDiag(t, `1 == "a"`, "Cannot compare values of incompatible types int and string")
}

func Test_Checker_Logical_Operands_Must_Be_Bool(t *testing.T) {
	wantOneDiag(t, "1 && true", "Logical operators require boolean operands, got int and bool")
}

func Test_Checker_Unary_Rules(t *testing.T) {
	wantClean(t, "-2.5")
	wantOneDiag(t, `-"a"`, "Cannot negate value of type string")
	wantOneDiag(t, "!1", "Cannot apply logical NOT to type int")
	wantClean(t, "x = &5\ny = x + \"\"")
}

func Test_Checker_Condition_Must_Be_Bool(t *testing.T) {
	wantOneDiag(t, "if 1 { output(1) }", "If condition must be boolean, got int")
	wantOneDiag(t, "if true { } elseif 2 { }", "Else-if condition must be boolean, got int")
	wantOneDiag(t, "loop (1) { }", "Loop condition must be boolean, got int")
}

func Test_Checker_Branch_Bodies_Are_Checked(t *testing.T) {
	wantOneDiag(t, "if false { 1 && 2 }", "Logical operators require boolean operands")
}

func Test_Checker_Call_Arity(t *testing.T) {
	wantOneDiag(t, `
fun f(a: int) { output(a) }
f(1, 2)
`, "Function 'f' expects 1 arguments, got 2")
}

func Test_Checker_Call_Argument_Type(t *testing.T) {
	wantOneDiag(t, `
fun f(a: int) { output(a) }
f("x")
`, "Function 'f' argument 0 has type string, expected int")
}

func Test_Checker_Undefined_Function(t *testing.T) {
	wantOneDiag(t, "g(1)", "Undefined function: g")
}

func Test_Checker_Any_Param_Accepts_Everything(t *testing.T) {
	wantClean(t, `
fun show(v: any) { output(v) }
show(1)
show("a")
show([1, 2])
`)
}

func Test_Checker_Return_Arity_Mismatch(t *testing.T) {
	wantOneDiag(t, "fun f(): int { return 1, 2 }",
		"Function 'f' returns 2 values, but declared to return 1 values")
}

func Test_Checker_Return_Type_Mismatch(t *testing.T) {
	wantOneDiag(t, `fun f(): int { return "a" }`,
		"Function 'f' return value 0 has type string, expected int")
}

func Test_Checker_Missing_Return(t *testing.T) {
	wantOneDiag(t, "fun f(): int { output(1) }", "Function 'f' is missing return statement")
}

func Test_Checker_Null_Return_Type_Exempt_From_Missing_Return(t *testing.T) {
	wantClean(t, "fun f(): null { output(1) }")
}

func Test_Checker_Function_Body_Errors_Carry_Name_Prefix(t *testing.T) {
	wantOneDiag(t, "fun f() { x + 1 }", "In function 'f': Undefined variable: x")
}

func Test_Checker_Params_Visible_In_Body(t *testing.T) {
	wantClean(t, "fun f(a: int, b: float): float { return a + b }")
}

func Test_Checker_Conversion_Pairings(t *testing.T) {
	wantClean(t, `int("42")`)
	wantClean(t, "string(3.5)")
	wantClean(t, `bool("true")`)
	wantOneDiag(t, "bool(1)", "Cannot convert from int to bool")
}

func Test_Checker_Outputf_Requires_String(t *testing.T) {
	wantOneDiag(t, "outputf(5)", "outputf requires a string argument, got int")
}

func Test_Checker_Input_Result_Is_String(t *testing.T) {
	wantClean(t, `x = input("? ")
y = x + "!"`)
}

func Test_Checker_Is_Predicate_Types_As_Bool(t *testing.T) {
	wantClean(t, "x = 5\nif x is int { output(x) }")
}

func Test_Checker_Collects_Multiple_Findings(t *testing.T) {
	diags := checkSrc(t, "1 + \"a\"\n!2\nundefined_one")
	if len(diags) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d: %v", len(diags), diags)
	}
}
