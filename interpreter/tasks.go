/*
 * DICE
 *
 * Copyright 2026 The DICE Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package interpreter

import (
	"fmt"
	"regexp"
	"strconv"

	"devt.de/krotik/common/errorutil"

	"dice/parser"
	"dice/scope"
	"dice/util"
)

var stepNamePattern = regexp.MustCompile(`^step([1-9][0-9]*)$`)

/*
instantiateTaskUnit implements the "DeviceA()" construction syntax of §4.7 of
spec.md: a fresh per-instance scope, child of the class's defining scope, and
a step table parsed once from the class's ordered FuncDef list.
*/
func (in *Interpreter) instantiateTaskUnit(class *TaskUnitClass) *TaskUnitInstance {
	instEnv := scope.NewChild(class.Name, class.Env)

	steps := make(map[int]*Function)
	for _, stepNode := range class.Steps {
		m := stepNamePattern.FindStringSubmatch(stepNode.Name)
		if m == nil {
			// A taskunit method not named stepN carries no barrier position;
			// it is bound in the instance scope but parallelTasks.next()
			// never calls it.
			instEnv.SetLocalValue(stepNode.Name, &Function{
				Name: stepNode.Name, Params: stepNode.Params,
				Body: stepNode.Children[0], Env: instEnv,
			})
			continue
		}
		n, _ := strconv.Atoi(m[1])
		fn := &Function{Name: stepNode.Name, Params: stepNode.Params, Body: stepNode.Children[0], Env: instEnv}
		steps[n] = fn
		instEnv.SetLocalValue(stepNode.Name, fn)
	}

	return &TaskUnitInstance{Class: class, Env: instEnv, steps: steps}
}

/*
parallelTasksBuiltin implements the builtin described in §4.6 of spec.md:
parallelTasks(a, b, ...) groups task-unit instances under a step cursor.
Registered directly on the global scope rather than through stdlib, since it
operates on interpreter-internal Values (TaskUnitInstance) that a host
embedding the interpreter has no business constructing itself.
*/
type parallelTasksBuiltin struct {
	source string
}

func (b *parallelTasksBuiltin) Run(args []Value) (Value, error) {
	if len(args) == 0 {
		return nil, util.NewError(b.source, util.ErrRuntimeError, "parallelTasks requires at least one task-unit instance", nil)
	}

	members := make([]*TaskUnitInstance, len(args))
	for i, a := range args {
		inst, ok := a.(*TaskUnitInstance)
		if !ok {
			return nil, util.NewError(b.source, util.ErrRuntimeError,
				fmt.Sprintf("parallelTasks argument %d is not a task-unit instance", i+1), nil)
		}
		members[i] = inst
	}

	return NewParallelTasks(members), nil
}

/*
groupNext implements group.next() (§4.6 of spec.md): every member defining
the current step fans out concurrently, the call blocks until they all join,
and the cursor advances. Exhaustion - no member has the current step - is a
RuntimeError.
*/
func (in *Interpreter) groupNext(group *ParallelTasks, callNode *parser.Node) (Value, error) {
	group.mu.Lock()
	k := group.cursor
	errorutil.AssertTrue(k > 0, "parallelTasks cursor must stay positive")
	group.mu.Unlock()

	var branches []func() error
	for _, member := range group.Members {
		member := member
		if fn := member.step(k); fn != nil {
			branches = append(branches, func() error {
				_, err := in.callFunction(fn, nil)
				return err
			})
		}
	}

	if len(branches) == 0 {
		return nil, util.NewError(in.Source, util.ErrRuntimeError, "group exhausted", callNode)
	}

	if err := in.runBranches(branches); err != nil {
		return nil, err
	}

	group.mu.Lock()
	group.cursor++
	group.mu.Unlock()

	return Unit{}, nil
}
