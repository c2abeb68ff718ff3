/*
 * DICE
 *
 * Copyright 2026 The DICE Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package interpreter walks a parsed DICE program and executes it: structured
// parallelism, @timed, and parallelTasks/next() (§4.4-§4.7 of spec.md).
package interpreter

import (
	"fmt"
	"sync"

	"dice/parser"
	"dice/scope"
)

/*
Value is a DICE runtime value. Per §3.3 of spec.md it is one of: Number
(float64), String (string), Boolean (bool), Function, TaskUnitClass,
TaskUnitInstance, *ParallelTasks, or Unit. Go's interface{} stands in for the
tagged union; the interpreter type-switches on concrete type where the
distinction matters.
*/
type Value = interface{}

/*
Unit is the result of executing a statement. DICE has no explicit return, so
every FuncDef call yields Unit.
*/
type Unit struct{}

func (Unit) String() string { return "()" }

/*
Builtin is the contract a host-provided callable must satisfy (§6 of
spec.md: "a mapping from name to a callable object with signature
(args: [Value]) -> Value"). The stdlib package's print/mock_sensor/sleep, and
any function registered through stdlib.NewFuncAdapter, implement this.
*/
type Builtin interface {
	Run(args []Value) (Value, error)
}

/*
Function is a user-defined DICE function value: a closure over the
environment it was defined in (§9 Design Notes: "closures hold a strong
reference to their defining frame").
*/
type Function struct {
	Name   string
	Params []string
	Body   *parser.Node // FuncDef body Statements node
	Env    *scope.Scope // definition-time scope
	Timed  bool         // true if this FuncDef was the target of @timed
	Label  string       // @timed label, meaningful only if Timed
}

func (f *Function) String() string {
	return fmt.Sprintf("<function %s/%d>", f.Name, len(f.Params))
}

/*
TaskUnitClass is a taskunit declaration (§4.7 of spec.md): a named, ordered
set of zero-arg step methods, not yet bound to any instance environment.
*/
type TaskUnitClass struct {
	Name  string
	Steps []*parser.Node // ordered FuncDef nodes, in declaration order
	Env   *scope.Scope   // enclosing (global) scope, shared by every instance's parent
}

func (c *TaskUnitClass) String() string {
	return fmt.Sprintf("<taskunit %s>", c.Name)
}

/*
TaskUnitInstance is the result of calling a TaskUnitClass as a constructor
(e.g. DeviceA()). Each instance gets a fresh child scope so step methods can
close over per-instance state, though the core step bodies in spec.md's
examples need none.
*/
type TaskUnitInstance struct {
	Class *TaskUnitClass
	Env   *scope.Scope
	steps map[int]*Function // parsed once at construction: "stepN" -> N
}

func (i *TaskUnitInstance) String() string {
	return fmt.Sprintf("<%s instance>", i.Class.Name)
}

/*
step returns the Function bound to stepN on this instance, or nil if this
instance's class never declared it (§4.6 of spec.md: missing steps are
skipped silently, not an error).
*/
func (i *TaskUnitInstance) step(n int) *Function {
	return i.steps[n]
}

/*
ParallelTasks is the group value returned by the parallelTasks(...) builtin
(§4.6 of spec.md): a fixed member list and a cursor starting at 1, advanced one
step per call to next().
*/
type ParallelTasks struct {
	Members []*TaskUnitInstance
	mu      sync.Mutex
	cursor  int
}

/*
NewParallelTasks groups task-unit instances under a cursor starting at step 1.
*/
func NewParallelTasks(members []*TaskUnitInstance) *ParallelTasks {
	return &ParallelTasks{Members: members, cursor: 1}
}

func (g *ParallelTasks) String() string {
	return fmt.Sprintf("<parallelTasks x%d>", len(g.Members))
}
