package vm

import "testing"

func TestDefineAndResolveGlobal(t *testing.T) {
	global := NewSymbolTable()

	a, ok := global.Define("a")
	if !ok {
		t.Fatalf("could not define a")
	}
	if a != (Symbol{Name: "a", Scope: GlobalScope, Index: 0}) {
		t.Errorf("wrong symbol for a: %+v", a)
	}

	b, _ := global.Define("b")
	if b != (Symbol{Name: "b", Scope: GlobalScope, Index: 1}) {
		t.Errorf("wrong symbol for b: %+v", b)
	}

	for _, want := range []Symbol{a, b} {
		got, ok := global.Resolve(want.Name)
		if !ok {
			t.Fatalf("name %s not resolvable", want.Name)
		}
		if got != want {
			t.Errorf("resolved %s to %+v, want %+v", want.Name, got, want)
		}
	}
}

func TestDefineRejectsDuplicates(t *testing.T) {
	global := NewSymbolTable()
	global.Define("a")

	if _, ok := global.Define("a"); ok {
		t.Errorf("redefining a in the same scope succeeded")
	}

	// The same name is fine one scope in.
	local := NewEnclosedSymbolTable(global)
	if _, ok := local.Define("a"); !ok {
		t.Errorf("shadowing a in an enclosed scope failed")
	}
}

func TestDefineShadowsBuiltins(t *testing.T) {
	global := NewSymbolTable()
	global.DefineBuiltin(0, "len")

	sym, ok := global.Define("len")
	if !ok {
		t.Fatalf("shadowing a builtin failed")
	}
	if sym.Scope != GlobalScope {
		t.Errorf("wrong scope after shadowing: %+v", sym)
	}

	resolved, _ := global.Resolve("len")
	if resolved.Scope != GlobalScope {
		t.Errorf("builtin still wins after shadowing: %+v", resolved)
	}
}

func TestResolveLocal(t *testing.T) {
	global := NewSymbolTable()
	global.Define("a")
	global.Define("b")

	local := NewEnclosedSymbolTable(global)
	local.Define("c")
	local.Define("d")

	expected := []Symbol{
		{Name: "a", Scope: GlobalScope, Index: 0},
		{Name: "b", Scope: GlobalScope, Index: 1},
		{Name: "c", Scope: LocalScope, Index: 0},
		{Name: "d", Scope: LocalScope, Index: 1},
	}

	for _, want := range expected {
		got, ok := local.Resolve(want.Name)
		if !ok {
			t.Fatalf("name %s not resolvable", want.Name)
		}
		if got != want {
			t.Errorf("resolved %s to %+v, want %+v", want.Name, got, want)
		}
	}
}

func TestResolveFree(t *testing.T) {
	global := NewSymbolTable()
	global.Define("a")
	global.Define("b")

	first := NewEnclosedSymbolTable(global)
	first.Define("c")
	first.Define("d")

	second := NewEnclosedSymbolTable(first)
	second.Define("e")
	second.Define("f")

	tests := []struct {
		table        *SymbolTable
		expected     []Symbol
		expectedFree []Symbol
	}{
		{
			first,
			[]Symbol{
				{Name: "a", Scope: GlobalScope, Index: 0},
				{Name: "b", Scope: GlobalScope, Index: 1},
				{Name: "c", Scope: LocalScope, Index: 0},
				{Name: "d", Scope: LocalScope, Index: 1},
			},
			[]Symbol{},
		},
		{
			second,
			[]Symbol{
				{Name: "a", Scope: GlobalScope, Index: 0},
				{Name: "b", Scope: GlobalScope, Index: 1},
				{Name: "c", Scope: FreeScope, Index: 0},
				{Name: "d", Scope: FreeScope, Index: 1},
				{Name: "e", Scope: LocalScope, Index: 0},
				{Name: "f", Scope: LocalScope, Index: 1},
			},
			[]Symbol{
				{Name: "c", Scope: LocalScope, Index: 0},
				{Name: "d", Scope: LocalScope, Index: 1},
			},
		},
	}

	for _, tt := range tests {
		for _, want := range tt.expected {
			got, ok := tt.table.Resolve(want.Name)
			if !ok {
				t.Fatalf("name %s not resolvable", want.Name)
			}
			if got != want {
				t.Errorf("resolved %s to %+v, want %+v", want.Name, got, want)
			}
		}

		if len(tt.table.FreeSymbols) != len(tt.expectedFree) {
			t.Fatalf("wrong number of free symbols. got=%d, want=%d",
				len(tt.table.FreeSymbols), len(tt.expectedFree))
		}
		for i, want := range tt.expectedFree {
			if tt.table.FreeSymbols[i] != want {
				t.Errorf("wrong free symbol %d. got=%+v, want=%+v", i, tt.table.FreeSymbols[i], want)
			}
		}
	}
}

func TestResolveUnresolvableFree(t *testing.T) {
	global := NewSymbolTable()
	global.Define("a")

	first := NewEnclosedSymbolTable(global)
	first.Define("c")

	second := NewEnclosedSymbolTable(first)
	second.Define("e")
	second.Define("f")

	expected := []Symbol{
		{Name: "a", Scope: GlobalScope, Index: 0},
		{Name: "c", Scope: FreeScope, Index: 0},
		{Name: "e", Scope: LocalScope, Index: 0},
		{Name: "f", Scope: LocalScope, Index: 1},
	}

	for _, want := range expected {
		got, ok := second.Resolve(want.Name)
		if !ok {
			t.Fatalf("name %s not resolvable", want.Name)
		}
		if got != want {
			t.Errorf("resolved %s to %+v, want %+v", want.Name, got, want)
		}
	}

	for _, name := range []string{"b", "d"} {
		if _, ok := second.Resolve(name); ok {
			t.Errorf("name %s resolved, but was expected not to", name)
		}
	}
}

func TestDefineAndResolveBuiltins(t *testing.T) {
	global := NewSymbolTable()
	first := NewEnclosedSymbolTable(global)
	second := NewEnclosedSymbolTable(first)

	expected := []Symbol{
		{Name: "a", Scope: BuiltinScope, Index: 0},
		{Name: "c", Scope: BuiltinScope, Index: 1},
		{Name: "e", Scope: BuiltinScope, Index: 2},
		{Name: "f", Scope: BuiltinScope, Index: 3},
	}

	for i, sym := range expected {
		global.DefineBuiltin(i, sym.Name)
	}

	for _, table := range []*SymbolTable{global, first, second} {
		for _, want := range expected {
			got, ok := table.Resolve(want.Name)
			if !ok {
				t.Fatalf("name %s not resolvable", want.Name)
			}
			if got != want {
				t.Errorf("resolved %s to %+v, want %+v", want.Name, got, want)
			}
		}
	}
}

func TestDefineAndResolveFunctionName(t *testing.T) {
	global := NewSymbolTable()
	global.DefineFunctionName("a")

	want := Symbol{Name: "a", Scope: FunctionScope, Index: 0}
	got, ok := global.Resolve("a")
	if !ok {
		t.Fatalf("function name a not resolvable")
	}
	if got != want {
		t.Errorf("resolved a to %+v, want %+v", got, want)
	}
}

func TestShadowingFunctionName(t *testing.T) {
	global := NewSymbolTable()
	global.DefineFunctionName("a")

	sym, ok := global.Define("a")
	if !ok {
		t.Fatalf("shadowing the function name failed")
	}
	if sym.Scope != GlobalScope {
		t.Errorf("wrong scope after shadowing: %+v", sym)
	}
}

func TestCopyDoesNotAliasTheOriginal(t *testing.T) {
	original := NewSymbolTable()
	original.Define("a")

	copied := original.Copy()
	copied.Define("b")

	if _, ok := copied.Resolve("a"); !ok {
		t.Error("copy lost binding for a")
	}
	if _, ok := original.Resolve("b"); ok {
		t.Error("define on the copy leaked into the original")
	}

	sym, ok := copied.Resolve("b")
	if !ok {
		t.Fatal("copy cannot resolve its own binding")
	}
	if sym.Index != 1 {
		t.Errorf("b has index %d, want 1", sym.Index)
	}
	if original.NumDefinitions() != 1 || copied.NumDefinitions() != 2 {
		t.Errorf("definition counts diverged wrong: original=%d copy=%d",
			original.NumDefinitions(), copied.NumDefinitions())
	}
}
