package object

import (
	"bytes"
	"testing"
	"time"
)

type recordingClock struct {
	slept []time.Duration
}

func (c *recordingClock) Sleep(d time.Duration) { c.slept = append(c.slept, d) }

func newTestRegistry() (*Registry, *bytes.Buffer, *recordingClock) {
	var out bytes.Buffer
	clock := &recordingClock{}
	return NewRegistry(&out, clock), &out, clock
}

func TestRegistryLookup(t *testing.T) {
	registry, _, _ := newTestRegistry()

	for i, name := range []string{"len", "print", "push", "pop", "is_null", "sleep"} {
		b, idx, ok := registry.Lookup(name)
		if !ok {
			t.Fatalf("builtin %s not found", name)
		}
		if idx != i {
			t.Errorf("wrong index for %s. got=%d, want=%d", name, idx, i)
		}
		if b.Name != name {
			t.Errorf("wrong name. got=%s, want=%s", b.Name, name)
		}
		if registry.ByIndex(idx) != b {
			t.Errorf("ByIndex(%d) does not match Lookup result", idx)
		}
	}

	if _, _, ok := registry.Lookup("nope"); ok {
		t.Errorf("unknown name resolved")
	}
	if registry.ByIndex(99) != nil {
		t.Errorf("out-of-range index did not return nil")
	}
}

func TestBuiltinLenContract(t *testing.T) {
	registry, _, _ := newTestRegistry()
	lenFn, _, _ := registry.Lookup("len")

	tests := []struct {
		arg      Object
		expected int64
	}{
		{&String{Value: "four"}, 4},
		{&String{Value: ""}, 0},
		{&Array{Elements: []Object{NullValue, NullValue}}, 2},
		{&Hash{Pairs: map[HashKey]HashPair{}}, 0},
	}
	for _, tt := range tests {
		result, ok := lenFn.Fn(tt.arg).(*Integer)
		if !ok || result.Value != tt.expected {
			t.Errorf("len(%s) = %v, want %d", tt.arg.Inspect(), result, tt.expected)
		}
	}

	if _, ok := lenFn.Fn(&Integer{Value: 1}).(*Error); !ok {
		t.Errorf("len(1) did not fail")
	}
}

func TestBuiltinPrintWritesToSink(t *testing.T) {
	registry, out, _ := newTestRegistry()
	printFn, _, _ := registry.Lookup("print")

	if printFn.Arity != Variadic {
		t.Fatalf("print is not variadic")
	}

	result := printFn.Fn(&String{Value: "a"}, &Integer{Value: 7})
	if result != NullValue {
		t.Errorf("print did not return null")
	}
	if out.String() != "a 7\n" {
		t.Errorf("wrong output: %q", out.String())
	}
}

func TestBuiltinPushMutatesInPlace(t *testing.T) {
	registry, _, _ := newTestRegistry()
	pushFn, _, _ := registry.Lookup("push")

	arr := &Array{Elements: []Object{&Integer{Value: 1}}}
	alias := arr

	if result := pushFn.Fn(arr, &Integer{Value: 2}); result != NullValue {
		t.Errorf("push did not return null")
	}
	if len(alias.Elements) != 2 {
		t.Errorf("mutation not visible through alias: %s", alias.Inspect())
	}

	if _, ok := pushFn.Fn(&Integer{Value: 1}, NullValue).(*Error); !ok {
		t.Errorf("push on non-array did not fail")
	}
}

func TestBuiltinPop(t *testing.T) {
	registry, _, _ := newTestRegistry()
	popFn, _, _ := registry.Lookup("pop")

	arr := &Array{Elements: []Object{&Integer{Value: 1}, &Integer{Value: 2}}}
	result, ok := popFn.Fn(arr).(*Integer)
	if !ok || result.Value != 2 {
		t.Fatalf("pop returned %v, want 2", result)
	}
	if len(arr.Elements) != 1 {
		t.Errorf("pop did not shrink the array: %s", arr.Inspect())
	}

	if _, ok := popFn.Fn(&Array{}).(*Error); !ok {
		t.Errorf("pop on empty array did not fail")
	}
}

func TestBuiltinIsNull(t *testing.T) {
	registry, _, _ := newTestRegistry()
	isNullFn, _, _ := registry.Lookup("is_null")

	if isNullFn.Fn(NullValue) != TrueValue {
		t.Errorf("is_null(null) is not true")
	}
	if isNullFn.Fn(&Integer{Value: 0}) != FalseValue {
		t.Errorf("is_null(0) is not false")
	}
}

func TestBuiltinSleepBlocksThroughClock(t *testing.T) {
	registry, _, clock := newTestRegistry()
	sleepFn, _, _ := registry.Lookup("sleep")

	if result := sleepFn.Fn(&Integer{Value: 50}); result != NullValue {
		t.Errorf("sleep did not return null")
	}
	if len(clock.slept) != 1 || clock.slept[0] != 50*time.Millisecond {
		t.Errorf("wrong sleep durations: %v", clock.slept)
	}

	if _, ok := sleepFn.Fn(&Integer{Value: -1}).(*Error); !ok {
		t.Errorf("negative sleep did not fail")
	}
	if _, ok := sleepFn.Fn(&String{Value: "1"}).(*Error); !ok {
		t.Errorf("non-integer sleep did not fail")
	}
}
