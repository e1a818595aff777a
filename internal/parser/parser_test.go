package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/marmoset-lang/marmoset/internal/ast"
	"github.com/marmoset-lang/marmoset/internal/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("parser has %d error(s):\n%s", len(errs), strings.Join(msgs, "\n"))
	}
	return program
}

func singleExpression(t *testing.T, input string) ast.Expression {
	t.Helper()
	program := parseProgram(t, input)
	if len(program.Statements) != 1 {
		t.Fatalf("program has %d statements, want 1", len(program.Statements))
	}
	stmt, ok := program.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ExpressionStatement", program.Statements[0])
	}
	return stmt.Expression
}

func testIntegerLiteral(t *testing.T, expr ast.Expression, value int64) {
	t.Helper()
	il, ok := expr.(*ast.IntegerLiteral)
	if !ok {
		t.Fatalf("expression is %T, want *ast.IntegerLiteral", expr)
	}
	if il.Value != value {
		t.Errorf("literal value is %d, want %d", il.Value, value)
	}
}

func testIdentifier(t *testing.T, expr ast.Expression, value string) {
	t.Helper()
	ident, ok := expr.(*ast.Identifier)
	if !ok {
		t.Fatalf("expression is %T, want *ast.Identifier", expr)
	}
	if ident.Value != value {
		t.Errorf("identifier value is %q, want %q", ident.Value, value)
	}
}

func TestLetStatements(t *testing.T) {
	tests := []struct {
		input         string
		expectedIdent string
		expectedValue interface{}
	}{
		{"let x = 5;", "x", int64(5)},
		{"let y = true;", "y", true},
		{"let foobar = y;", "foobar", "y"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		if len(program.Statements) != 1 {
			t.Fatalf("program has %d statements, want 1", len(program.Statements))
		}
		stmt, ok := program.Statements[0].(*ast.LetStatement)
		if !ok {
			t.Fatalf("statement is %T, want *ast.LetStatement", program.Statements[0])
		}
		if stmt.Name.Value != tt.expectedIdent {
			t.Errorf("name is %q, want %q", stmt.Name.Value, tt.expectedIdent)
		}

		switch want := tt.expectedValue.(type) {
		case int64:
			testIntegerLiteral(t, stmt.Value, want)
		case bool:
			bl, ok := stmt.Value.(*ast.BooleanLiteral)
			if !ok || bl.Value != want {
				t.Errorf("value is %v (%T), want %v", stmt.Value, stmt.Value, want)
			}
		case string:
			testIdentifier(t, stmt.Value, want)
		}
	}
}

func TestReturnStatements(t *testing.T) {
	tests := []struct {
		input    string
		hasValue bool
	}{
		{"fn() { return 5; }", true},
		{"fn() { return; }", false},
		{"fn() { return }", false},
	}

	for _, tt := range tests {
		fl := singleExpression(t, tt.input).(*ast.FunctionLiteral)
		if len(fl.Body.Statements) != 1 {
			t.Fatalf("input %q: body has %d statements, want 1", tt.input, len(fl.Body.Statements))
		}
		ret, ok := fl.Body.Statements[0].(*ast.ReturnStatement)
		if !ok {
			t.Fatalf("input %q: statement is %T, want *ast.ReturnStatement",
				tt.input, fl.Body.Statements[0])
		}
		if got := ret.Value != nil; got != tt.hasValue {
			t.Errorf("input %q: return has value %v, want %v", tt.input, got, tt.hasValue)
		}
	}
}

func TestWhileStatement(t *testing.T) {
	program := parseProgram(t, "while (x < 10) { x = x + 1; }")
	if len(program.Statements) != 1 {
		t.Fatalf("program has %d statements, want 1", len(program.Statements))
	}
	stmt, ok := program.Statements[0].(*ast.WhileStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.WhileStatement", program.Statements[0])
	}
	if got := stmt.Condition.String(); got != "(x < 10)" {
		t.Errorf("condition is %q, want %q", got, "(x < 10)")
	}
	if len(stmt.Body.Statements) != 1 {
		t.Errorf("body has %d statements, want 1", len(stmt.Body.Statements))
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"-a * b", "((-a) * b)"},
		{"!-a", "(!(-a))"},
		{"a + b + c", "((a + b) + c)"},
		{"a + b - c", "((a + b) - c)"},
		{"a * b * c", "((a * b) * c)"},
		{"a * b / c", "((a * b) / c)"},
		{"a + b / c", "(a + (b / c))"},
		{"a % b + c", "((a % b) + c)"},
		{"a + b * c + d / e - f", "(((a + (b * c)) + (d / e)) - f)"},
		{"5 > 4 == 3 < 4", "((5 > 4) == (3 < 4))"},
		{"5 <= 4 != 3 >= 4", "((5 <= 4) != (3 >= 4))"},
		{"3 + 4 * 5 == 3 * 1 + 4 * 5", "((3 + (4 * 5)) == ((3 * 1) + (4 * 5)))"},
		{"true == true && false != true", "((true == true) && (false != true))"},
		{"a && b || c && d", "((a && b) || (c && d))"},
		{"!(true == true)", "(!(true == true))"},
		{"(5 + 5) * 2", "((5 + 5) * 2)"},
		{"2 / (5 + 5)", "(2 / (5 + 5))"},
		{"a + add(b * c) + d", "((a + add((b * c))) + d)"},
		{"add(a + b + c * d / f + g)", "add((((a + b) + ((c * d) / f)) + g))"},
		{"a * [1, 2, 3, 4][b * c] * d", "((a * ([1, 2, 3, 4][(b * c)])) * d)"},
		{"add(a * b[2], b[1], 2 * [1, 2][1])", "add((a * (b[2])), (b[1]), (2 * ([1, 2][1])))"},
	}

	for _, tt := range tests {
		expr := singleExpression(t, tt.input)
		if got := expr.String(); got != tt.expected {
			t.Errorf("input %q:\n  got  %q\n  want %q", tt.input, got, tt.expected)
		}
	}
}

func TestAssignExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"x = 5", "x = 5"},
		{"x = y = 5", "x = y = 5"},
		{"arr[0] = 1 + 2", "(arr[0]) = (1 + 2)"},
		{"h[\"key\"] = true", "(h[\"key\"]) = true"},
	}

	for _, tt := range tests {
		expr := singleExpression(t, tt.input)
		assign, ok := expr.(*ast.AssignExpression)
		if !ok {
			t.Fatalf("input %q: expression is %T, want *ast.AssignExpression", tt.input, expr)
		}
		if got := assign.String(); got != tt.expected {
			t.Errorf("input %q: got %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestInvalidAssignmentTarget(t *testing.T) {
	p := New(lexer.New("1 + 2 = 3;"))
	p.ParseProgram()

	errs := p.Errors()
	if len(errs) == 0 {
		t.Fatal("expected a parse error, got none")
	}
	found := false
	for _, e := range errs {
		if e.Code == "P005" {
			found = true
		}
	}
	if !found {
		t.Errorf("no P005 diagnostic in %v", errs)
	}
}

func TestIfExpression(t *testing.T) {
	expr := singleExpression(t, "if (x < y) { x } else { y }")
	ie, ok := expr.(*ast.IfExpression)
	if !ok {
		t.Fatalf("expression is %T, want *ast.IfExpression", expr)
	}
	if got := ie.Condition.String(); got != "(x < y)" {
		t.Errorf("condition is %q, want %q", got, "(x < y)")
	}
	if ie.Alternative == nil {
		t.Fatal("alternative is nil")
	}

	expr = singleExpression(t, "if (x) { 1 }")
	if ie := expr.(*ast.IfExpression); ie.Alternative != nil {
		t.Errorf("alternative is %v, want nil", ie.Alternative)
	}
}

func TestFunctionLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"fn() {};", []string{}},
		{"fn(x) {};", []string{"x"}},
		{"fn(x, y, z) {};", []string{"x", "y", "z"}},
	}

	for _, tt := range tests {
		fl := singleExpression(t, tt.input).(*ast.FunctionLiteral)
		if len(fl.Parameters) != len(tt.expected) {
			t.Fatalf("input %q: %d parameters, want %d",
				tt.input, len(fl.Parameters), len(tt.expected))
		}
		for i, want := range tt.expected {
			testIdentifier(t, fl.Parameters[i], want)
		}
	}
}

func TestFunctionLiteralName(t *testing.T) {
	program := parseProgram(t, "let myFunction = fn() { };")
	stmt := program.Statements[0].(*ast.LetStatement)
	fl, ok := stmt.Value.(*ast.FunctionLiteral)
	if !ok {
		t.Fatalf("value is %T, want *ast.FunctionLiteral", stmt.Value)
	}
	if fl.Name != "myFunction" {
		t.Errorf("name is %q, want %q", fl.Name, "myFunction")
	}
}

func TestCallExpression(t *testing.T) {
	expr := singleExpression(t, "add(1, 2 * 3, 4 + 5);")
	call, ok := expr.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expression is %T, want *ast.CallExpression", expr)
	}
	testIdentifier(t, call.Function, "add")
	if len(call.Arguments) != 3 {
		t.Fatalf("%d arguments, want 3", len(call.Arguments))
	}
	testIntegerLiteral(t, call.Arguments[0], 1)
	if got := call.Arguments[1].String(); got != "(2 * 3)" {
		t.Errorf("argument 1 is %q, want %q", got, "(2 * 3)")
	}
}

func TestArrayLiterals(t *testing.T) {
	expr := singleExpression(t, "[1, 2 * 2, 3 + 3]")
	arr, ok := expr.(*ast.ArrayLiteral)
	if !ok {
		t.Fatalf("expression is %T, want *ast.ArrayLiteral", expr)
	}
	if len(arr.Elements) != 3 {
		t.Fatalf("%d elements, want 3", len(arr.Elements))
	}
	testIntegerLiteral(t, arr.Elements[0], 1)

	expr = singleExpression(t, "[]")
	if arr := expr.(*ast.ArrayLiteral); len(arr.Elements) != 0 {
		t.Errorf("empty literal has %d elements", len(arr.Elements))
	}
}

func TestHashLiterals(t *testing.T) {
	expr := singleExpression(t, `{"one": 1, "two": 2, "three": 3}`)
	hash, ok := expr.(*ast.HashLiteral)
	if !ok {
		t.Fatalf("expression is %T, want *ast.HashLiteral", expr)
	}
	if len(hash.Keys) != 3 {
		t.Fatalf("%d pairs, want 3", len(hash.Keys))
	}

	expected := map[string]int64{"one": 1, "two": 2, "three": 3}
	for i, k := range hash.Keys {
		sl, ok := k.(*ast.StringLiteral)
		if !ok {
			t.Fatalf("key is %T, want *ast.StringLiteral", k)
		}
		testIntegerLiteral(t, hash.Vals[i], expected[sl.Value])
	}

	expr = singleExpression(t, "{}")
	if hash := expr.(*ast.HashLiteral); len(hash.Keys) != 0 {
		t.Errorf("empty literal has %d pairs", len(hash.Keys))
	}

	expr = singleExpression(t, `{true: 1, 2: "two"}`)
	hash = expr.(*ast.HashLiteral)
	if _, ok := hash.Keys[0].(*ast.BooleanLiteral); !ok {
		t.Errorf("key 0 is %T, want *ast.BooleanLiteral", hash.Keys[0])
	}
	if _, ok := hash.Keys[1].(*ast.IntegerLiteral); !ok {
		t.Errorf("key 1 is %T, want *ast.IntegerLiteral", hash.Keys[1])
	}
}

func TestIndexAndSliceExpressions(t *testing.T) {
	expr := singleExpression(t, "myArray[1 + 1]")
	idx, ok := expr.(*ast.IndexExpression)
	if !ok {
		t.Fatalf("expression is %T, want *ast.IndexExpression", expr)
	}
	testIdentifier(t, idx.Left, "myArray")
	if got := idx.Index.String(); got != "(1 + 1)" {
		t.Errorf("index is %q, want %q", got, "(1 + 1)")
	}

	expr = singleExpression(t, "myArray[1:3]")
	slice, ok := expr.(*ast.SliceExpression)
	if !ok {
		t.Fatalf("expression is %T, want *ast.SliceExpression", expr)
	}
	testIdentifier(t, slice.Left, "myArray")
	testIntegerLiteral(t, slice.Low, 1)
	testIntegerLiteral(t, slice.High, 3)
}

func TestStringAndNullLiterals(t *testing.T) {
	expr := singleExpression(t, `"hello world";`)
	sl, ok := expr.(*ast.StringLiteral)
	if !ok {
		t.Fatalf("expression is %T, want *ast.StringLiteral", expr)
	}
	if sl.Value != "hello world" {
		t.Errorf("value is %q, want %q", sl.Value, "hello world")
	}

	expr = singleExpression(t, "null;")
	if _, ok := expr.(*ast.NullLiteral); !ok {
		t.Errorf("expression is %T, want *ast.NullLiteral", expr)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input        string
		expectedCode string
	}{
		{"let x 5;", "P001"},
		{"let = 10;", "P001"},
		{"5 +;", "P002"},
		{"if (x) { 1", "P003"},
		{"99999999999999999999;", "P004"},
	}

	for _, tt := range tests {
		p := New(lexer.New(tt.input))
		p.ParseProgram()

		errs := p.Errors()
		if len(errs) == 0 {
			t.Errorf("input %q: expected errors, got none", tt.input)
			continue
		}
		found := false
		for _, e := range errs {
			if e.Code == tt.expectedCode {
				found = true
				if e.Line == 0 {
					t.Errorf("input %q: diagnostic %s has no line", tt.input, e.Code)
				}
			}
		}
		if !found {
			t.Errorf("input %q: no %s diagnostic in %v", tt.input, tt.expectedCode, errs)
		}
	}
}

func TestErrorPositions(t *testing.T) {
	p := New(lexer.New("let a = 1;\nlet b 2;"))
	p.ParseProgram()

	errs := p.Errors()
	if len(errs) == 0 {
		t.Fatal("expected errors, got none")
	}
	if errs[0].Line != 2 {
		t.Errorf("error on line %d, want 2", errs[0].Line)
	}
	if !strings.Contains(errs[0].Error(), fmt.Sprintf("%d:", errs[0].Line)) {
		t.Errorf("rendered error %q does not carry its position", errs[0].Error())
	}
}
