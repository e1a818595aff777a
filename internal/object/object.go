// Package object defines the runtime value representation shared by
// the compiler and the virtual machine.
package object

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
)

type ObjectType string

const (
	INTEGER_OBJ           = "INTEGER"
	STRING_OBJ            = "STRING"
	BOOLEAN_OBJ           = "BOOLEAN"
	NULL_OBJ              = "NULL"
	ARRAY_OBJ             = "ARRAY"
	HASH_OBJ              = "HASH"
	ERROR_OBJ             = "ERROR"
	BUILTIN_OBJ           = "BUILTIN"
	COMPILED_FUNCTION_OBJ = "COMPILED_FUNCTION"
	CLOSURE_OBJ           = "CLOSURE"
)

// Object is the closed variant every runtime value implements.
type Object interface {
	Type() ObjectType
	Inspect() string
}

// HashKey identifies a hash map key by type and content. Only
// Integer, String and Boolean values are hashable.
type HashKey struct {
	Type  ObjectType
	Value uint64
}

// Hashable is implemented by values usable as hash map keys.
type Hashable interface {
	HashKey() HashKey
}

// Integer is a signed 64-bit integer.
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }
func (i *Integer) HashKey() HashKey {
	return HashKey{Type: i.Type(), Value: uint64(i.Value)}
}

// String is an immutable byte sequence.
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }
func (s *String) HashKey() HashKey {
	h := fnv.New64a()
	h.Write([]byte(s.Value))
	return HashKey{Type: s.Type(), Value: h.Sum64()}
}

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }
func (b *Boolean) HashKey() HashKey {
	var value uint64
	if b.Value {
		value = 1
	}
	return HashKey{Type: b.Type(), Value: value}
}

type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

// Array is an ordered mutable sequence. Arrays are heap objects shared
// by reference: assignment and argument passing alias the same
// underlying storage, so in-place mutation is visible to all holders.
type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	elems := make([]string, 0, len(a.Elements))
	for _, e := range a.Elements {
		elems = append(elems, e.Inspect())
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

// HashPair keeps the original key object next to its value so Inspect
// can render keys, not their hashes.
type HashPair struct {
	Key   Object
	Value Object
}

// Hash maps hashable keys to values by content equality. Like Array it
// is shared by reference.
type Hash struct {
	Pairs map[HashKey]HashPair
}

func (h *Hash) Type() ObjectType { return HASH_OBJ }
func (h *Hash) Inspect() string {
	pairs := make([]string, 0, len(h.Pairs))
	for _, pair := range h.Pairs {
		pairs = append(pairs, pair.Key.Inspect()+": "+pair.Value.Inspect())
	}
	// Insertion order is not tracked; sort for stable output.
	sort.Strings(pairs)
	return "{" + strings.Join(pairs, ", ") + "}"
}

// Error is the value a builtin returns to signal failure; the VM turns
// it into a runtime error.
type Error struct {
	Message string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return "ERROR: " + e.Message }

// Errorf builds an Error from a format string.
func Errorf(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// Singletons shared by the VM; Null, true and false carry no state, so
// one allocation each serves every program.
var (
	NullValue  = &Null{}
	TrueValue  = &Boolean{Value: true}
	FalseValue = &Boolean{Value: false}
)

// NativeBool returns the shared Boolean for a Go bool.
func NativeBool(v bool) *Boolean {
	if v {
		return TrueValue
	}
	return FalseValue
}

// IsTruthy reports the language's truthiness rule: false and null are
// falsy, every other value is truthy.
func IsTruthy(obj Object) bool {
	switch obj {
	case FalseValue, NullValue:
		return false
	}
	switch v := obj.(type) {
	case *Boolean:
		return v.Value
	case *Null:
		return false
	}
	return true
}
