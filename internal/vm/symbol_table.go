package vm

// SymbolScope classifies where a binding's storage lives.
type SymbolScope string

const (
	GlobalScope   SymbolScope = "GLOBAL"
	LocalScope    SymbolScope = "LOCAL"
	FreeScope     SymbolScope = "FREE"
	BuiltinScope  SymbolScope = "BUILTIN"
	FunctionScope SymbolScope = "FUNCTION" // the function currently being compiled
)

// Symbol is one resolved binding: its name, scope kind and slot index
// within that scope.
type Symbol struct {
	Name  string
	Scope SymbolScope
	Index int
}

// SymbolTable tracks bindings for one lexical level. Tables nest at
// function boundaries; resolution walks outward, reclassifying
// enclosing locals as free variables along the way.
type SymbolTable struct {
	Outer *SymbolTable

	// FreeSymbols records, in capture order, the symbols of the
	// enclosing table that this function captures. The compiler emits
	// one load per entry right before OP_CLOSURE.
	FreeSymbols []Symbol

	store          map[string]Symbol
	numDefinitions int
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{store: make(map[string]Symbol)}
}

func NewEnclosedSymbolTable(outer *SymbolTable) *SymbolTable {
	s := NewSymbolTable()
	s.Outer = outer
	return s
}

// Define registers a new binding in this scope. The second return is
// false when the name is already bound in the same scope; rebinding is
// done with assignment, not a second let.
func (s *SymbolTable) Define(name string) (Symbol, bool) {
	if existing, ok := s.store[name]; ok {
		if existing.Scope != BuiltinScope && existing.Scope != FunctionScope {
			return existing, false
		}
	}

	symbol := Symbol{Name: name, Index: s.numDefinitions}
	if s.Outer == nil {
		symbol.Scope = GlobalScope
	} else {
		symbol.Scope = LocalScope
	}

	s.store[name] = symbol
	s.numDefinitions++
	return symbol, true
}

// DefineBuiltin registers a builtin name with its registry index in
// the outermost scope. Builtins are never popped.
func (s *SymbolTable) DefineBuiltin(index int, name string) Symbol {
	symbol := Symbol{Name: name, Scope: BuiltinScope, Index: index}
	s.store[name] = symbol
	return symbol
}

// DefineFunctionName binds the name of the function currently being
// compiled, so its body can refer to itself without a capture.
func (s *SymbolTable) DefineFunctionName(name string) Symbol {
	symbol := Symbol{Name: name, Scope: FunctionScope, Index: 0}
	s.store[name] = symbol
	return symbol
}

// Resolve looks a name up starting at the innermost scope. When the
// name is found in an enclosing function's local (or already-free)
// scope, it is registered as a free variable of every intervening
// table, so transitive captures are recorded at each level.
func (s *SymbolTable) Resolve(name string) (Symbol, bool) {
	sym, ok := s.store[name]
	if !ok && s.Outer != nil {
		sym, ok = s.Outer.Resolve(name)
		if !ok {
			return sym, ok
		}
		if sym.Scope == GlobalScope || sym.Scope == BuiltinScope {
			return sym, ok
		}
		return s.defineFree(sym), true
	}
	return sym, ok
}

// NumDefinitions returns how many bindings this table defined; for a
// function scope this is its local slot count.
func (s *SymbolTable) NumDefinitions() int { return s.numDefinitions }

// Copy returns a table with the same bindings that can be mutated
// without affecting the receiver. A REPL compiles each line against a
// copy, so a failed compilation leaves no half-registered names behind.
func (s *SymbolTable) Copy() *SymbolTable {
	c := &SymbolTable{
		Outer:          s.Outer,
		FreeSymbols:    append([]Symbol(nil), s.FreeSymbols...),
		store:          make(map[string]Symbol, len(s.store)),
		numDefinitions: s.numDefinitions,
	}
	for name, sym := range s.store {
		c.store[name] = sym
	}
	return c
}

func (s *SymbolTable) defineFree(original Symbol) Symbol {
	s.FreeSymbols = append(s.FreeSymbols, original)

	symbol := Symbol{Name: original.Name, Scope: FreeScope, Index: len(s.FreeSymbols) - 1}
	s.store[original.Name] = symbol
	return symbol
}
