package object

import "sort"

// Environment holds the bindings of one scope and a link to its enclosing
// scope. inLoop records whether break and continue are legal here.
type Environment struct {
	store  map[string]Object
	outer  *Environment
	inLoop bool
}

// NewEnvironment creates a new, top-level environment.
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object)}
}

// NewEnclosedEnvironment creates a child scope of outer. The child inherits
// the loop flag of outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	if outer != nil {
		env.inLoop = outer.inLoop
	}
	return env
}

// NewLoopEnvironment creates the shared body scope of a while or for loop.
func NewLoopEnvironment(outer *Environment) *Environment {
	env := NewEnclosedEnvironment(outer)
	env.inLoop = true
	return env
}

// NewFunctionEnvironment creates the scope of a function call: a child of
// outer (the environment the function was defined in) whose loop flag is
// taken from caller.
func NewFunctionEnvironment(outer, caller *Environment) *Environment {
	env := NewEnclosedEnvironment(outer)
	env.inLoop = caller != nil && caller.inLoop
	return env
}

// InLoop reports whether the scope is inside a loop body.
func (e *Environment) InLoop() bool { return e.inLoop }

// Outer returns the enclosing environment.
func (e *Environment) Outer() *Environment { return e.outer }

// Get retrieves an object by name, checking outer scopes if necessary.
func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.outer {
		if obj, ok := env.store[name]; ok {
			return obj, true
		}
	}
	return nil, false
}

// Set binds name to val.
//
// With defineLocally the binding is created (or replaced) in this scope,
// shadowing any outer one. Otherwise the nearest scope that already binds
// name is updated, and false is returned when there is none.
func (e *Environment) Set(name string, val Object, defineLocally bool) (Object, bool) {
	if defineLocally {
		e.store[name] = val
		return val, true
	}
	for env := e; env != nil; env = env.outer {
		if _, ok := env.store[name]; ok {
			env.store[name] = val
			return val, true
		}
	}
	return nil, false
}

// Names returns the names bound directly in this scope, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.store))
	for name := range e.store {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone copies the scope for a new class instance. Arrays and hashes are
// copied so instances do not share them, and functions defined in e are
// rebound to the copy.
func (e *Environment) Clone() *Environment {
	clone := &Environment{
		store:  make(map[string]Object, len(e.store)),
		outer:  e.outer,
		inLoop: e.inLoop,
	}
	seen := map[Object]Object{}
	for name, val := range e.store {
		clone.store[name] = copyValue(val, e, clone, seen)
	}
	return clone
}

func copyValue(val Object, from, to *Environment, seen map[Object]Object) Object {
	if copied, ok := seen[val]; ok {
		return copied
	}
	switch val := val.(type) {
	case *Array:
		arr := &Array{Elements: make([]Object, len(val.Elements))}
		seen[val] = arr
		for i, el := range val.Elements {
			arr.Elements[i] = copyValue(el, from, to, seen)
		}
		return arr
	case *Hash:
		hash := &Hash{Pairs: make(map[HashKey]HashPair, len(val.Pairs))}
		seen[val] = hash
		for k, pair := range val.Pairs {
			hash.Pairs[k] = HashPair{Key: pair.Key, Value: copyValue(pair.Value, from, to, seen)}
		}
		return hash
	case *Function:
		if val.Env != from {
			return val
		}
		fn := &Function{Parameters: val.Parameters, Body: val.Body, Env: to}
		seen[val] = fn
		return fn
	default:
		return val
	}
}
