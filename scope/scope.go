/*
 * DICE
 *
 * Copyright 2026 The DICE Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package scope implements the lexically scoped name-to-value environment
// chain DICE programs run in (§3.4 of spec.md).
package scope

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

/*
GlobalScope names the outermost scope, seeded with builtins.
*/
const GlobalScope = "global"

/*
Scope is a single frame in the environment chain: a mapping from name to value
plus a pointer to its enclosing scope. There are no declaration keywords in
DICE - an assignment to an unbound name creates the binding in the current
scope.
*/
type Scope struct {
	name    string
	parent  *Scope
	storage map[string]interface{}
	lock    *sync.RWMutex // shared with every scope in the same chain
}

/*
New creates a fresh global scope with no parent.
*/
func New(name string) *Scope {
	return NewChild(name, nil)
}

/*
NewChild creates a new scope whose parent is the given Scope. Passing a nil
parent creates a new, independent chain (used for the global scope and for
spawning unrelated interpreter runs in tests).
*/
func NewChild(name string, parent *Scope) *Scope {
	s := &Scope{name: name, storage: make(map[string]interface{})}
	if parent != nil {
		s.parent = parent
		s.lock = parent.lock
	} else {
		s.lock = &sync.RWMutex{}
	}
	return s
}

/*
Name returns this scope's name, used in diagnostics.
*/
func (s *Scope) Name() string {
	return s.name
}

/*
Parent returns the enclosing scope, or nil for the global scope.
*/
func (s *Scope) Parent() *Scope {
	return s.parent
}

/*
GetValue looks up a name, walking outward through parent scopes until the
first binding is found.
*/
func (s *Scope) GetValue(name string) (interface{}, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.getValue(name)
}

func (s *Scope) getValue(name string) (interface{}, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.storage[name]; ok {
			return v, true
		}
	}
	return nil, false
}

/*
SetValue assigns a value to a name. If the name is already bound in this
scope or an enclosing one, that binding is updated; otherwise a new binding is
created in this scope (§3.4 of spec.md: "there are no declaration keywords").
*/
func (s *Scope) SetValue(name string, value interface{}) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.storage[name]; ok {
			cur.storage[name] = value
			return
		}
	}

	s.storage[name] = value
}

/*
SetLocalValue binds a name in this scope specifically, shadowing any binding
of the same name in an enclosing scope. Used to bind function parameters and
loop variables, which must not leak into or overwrite an outer binding.
*/
func (s *Scope) SetLocalValue(name string, value interface{}) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.storage[name] = value
}

/*
String renders the scope chain for debugging.
*/
func (s *Scope) String() string {
	s.lock.RLock()
	defer s.lock.RUnlock()

	var buf strings.Builder
	for cur := s; cur != nil; cur = cur.parent {
		keys := make([]string, 0, len(cur.storage))
		for k := range cur.storage {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprintf(&buf, "%s: {", cur.name)
		for i, k := range keys {
			if i > 0 {
				buf.WriteString(", ")
			}
			fmt.Fprintf(&buf, "%s=%v", k, cur.storage[k])
		}
		buf.WriteString("}")
		if cur.parent != nil {
			buf.WriteString(" -> ")
		}
	}
	return buf.String()
}
