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
	"io"
	"strconv"

	"dice/parser"
	"dice/scope"
	"dice/util"
)

/*
Interpreter holds everything a single DICE run shares: the global scope, the
output sink print and @timed write to (§6 of spec.md), and an optional
diagnostic logger for parallel branch scheduling (§1.2 of SPEC_FULL.md).
*/
type Interpreter struct {
	Source string
	Output io.Writer
	Logger util.Logger
	Global *scope.Scope
}

/*
New creates an Interpreter with a fresh global scope seeded with the
parallelTasks builtin (§4.6 of spec.md). Host builtins (print, mock_sensor,
sleep, ...) are registered separately through RegisterBuiltin.
*/
func New(source string, output io.Writer, logger util.Logger) *Interpreter {
	if logger == nil {
		logger = util.NewNullLogger()
	}

	in := &Interpreter{
		Source: source,
		Output: output,
		Logger: logger,
		Global: scope.New(scope.GlobalScope),
	}

	in.Global.SetLocalValue("parallelTasks", &parallelTasksBuiltin{source: source})

	return in
}

/*
RegisterBuiltin binds a host-provided callable into the global scope under
name, implementing the "uniform builtin interface" contract of §6 of spec.md.
*/
func (in *Interpreter) RegisterBuiltin(name string, b Builtin) {
	in.Global.SetLocalValue(name, b)
}

/*
Run implements §4.4's Program rule: bind every top-level declaration into the
global scope, then invoke main with no arguments. Absence of a callable main
is a RuntimeError.
*/
func (in *Interpreter) Run(program *parser.Node) error {
	stmts := program.Children[0]

	for _, stmt := range stmts.Children {
		if _, err := in.exec(stmt, in.Global); err != nil {
			return err
		}
	}

	mainVal, ok := in.Global.GetValue("main")
	if !ok {
		return util.NewError(in.Source, util.ErrRuntimeError, "main is not defined", program)
	}
	mainFn, ok := mainVal.(*Function)
	if !ok {
		return util.NewError(in.Source, util.ErrRuntimeError, "main is not callable", program)
	}

	_, err := in.callFunction(mainFn, nil)
	return err
}

func (in *Interpreter) nameError(node *parser.Node, name string) error {
	return util.NewError(in.Source, util.ErrNameError, fmt.Sprintf("unbound name %q", name), node)
}

func (in *Interpreter) runtimeError(node *parser.Node, detail string) error {
	return util.NewError(in.Source, util.ErrRuntimeError, detail, node)
}

func (in *Interpreter) makeFunction(node *parser.Node, env *scope.Scope, timed bool, label string) *Function {
	return &Function{
		Name: node.Name, Params: node.Params, Body: node.Children[0],
		Env: env, Timed: timed, Label: label,
	}
}

/*
exec is the single dispatch point for every AST Kind: eval(expr,env)->value
and exec(stmt,env)->Unit of §4.4 of spec.md collapse into one function since
DICE's AST does not distinguish expression nodes from statement nodes at the
type level.
*/
func (in *Interpreter) exec(node *parser.Node, env *scope.Scope) (Value, error) {
	switch node.Kind {

	case parser.Statements:
		var last Value = Unit{}
		for _, stmt := range node.Children {
			v, err := in.exec(stmt, env)
			if err != nil {
				return nil, err
			}
			last = v
		}
		return last, nil

	case parser.FuncDef:
		env.SetLocalValue(node.Name, in.makeFunction(node, env, false, ""))
		return Unit{}, nil

	case parser.TaskUnitDef:
		env.SetLocalValue(node.Name, &TaskUnitClass{Name: node.Name, Steps: node.Children, Env: env})
		return Unit{}, nil

	case parser.Timed:
		target := node.Children[0]
		if target.Kind == parser.FuncDef {
			// @timed on a FuncDef attaches to the definition (§4.5 of
			// spec.md): every future invocation is timed, not just this one.
			env.SetLocalValue(target.Name, in.makeFunction(target, env, true, node.Label))
			return Unit{}, nil
		}
		return in.execTimed(node, env)

	case parser.Sequence:
		if _, err := in.exec(node.Children[0], env); err != nil {
			return nil, err
		}
		return in.exec(node.Children[1], env)

	case parser.If:
		cond, err := in.exec(node.Children[0], env)
		if err != nil {
			return nil, err
		}
		b, ok := cond.(bool)
		if !ok {
			return nil, in.runtimeError(node, "if condition is not a boolean")
		}
		if b {
			return in.exec(node.Children[1], env)
		}
		if len(node.Children) > 2 {
			return in.exec(node.Children[2], env)
		}
		return Unit{}, nil

	case parser.Loop:
		return in.execLoop(node, env)

	case parser.ParallelLoop:
		return in.execParallelLoop(node, env)

	case parser.Parallel:
		return in.execParallel(node, env)

	case parser.Assign:
		val, err := in.exec(node.Children[0], env)
		if err != nil {
			return nil, err
		}
		env.SetValue(node.Name, val)
		return val, nil

	case parser.Call:
		return in.execCall(node, env)

	case parser.MethodCall:
		return in.execMethodCall(node, env)

	case parser.Identifier:
		v, ok := env.GetValue(node.Name)
		if !ok {
			return nil, in.nameError(node, node.Name)
		}
		return v, nil

	case parser.NumberLiteral:
		v, err := strconv.ParseFloat(node.Name, 64)
		if err != nil {
			return nil, in.runtimeError(node, "malformed number literal "+node.Name)
		}
		return v, nil

	case parser.StringLiteral:
		return node.Name, nil

	case parser.BooleanLiteral:
		return node.Name == "true", nil

	case parser.BinaryOp:
		return in.execBinaryOp(node, env)

	case parser.UnaryOp:
		return in.execUnaryOp(node, env)
	}

	return nil, in.runtimeError(node, fmt.Sprintf("unhandled node kind %v", node.Kind))
}

func (in *Interpreter) execLoop(node *parser.Node, env *scope.Scope) (Value, error) {
	lo, hi, err := in.evalRange(node, env)
	if err != nil {
		return nil, err
	}

	for i := lo; i < hi; i++ {
		child := scope.NewChild("loop", env)
		child.SetLocalValue(node.Name, float64(i))
		if _, err := in.exec(node.Children[2], child); err != nil {
			return nil, err
		}
	}
	return Unit{}, nil
}

func (in *Interpreter) execParallelLoop(node *parser.Node, env *scope.Scope) (Value, error) {
	lo, hi, err := in.evalRange(node, env)
	if err != nil {
		return nil, err
	}

	var branches []func() error
	for i := lo; i < hi; i++ {
		i := i
		branches = append(branches, func() error {
			child := scope.NewChild("parallel-loop", env)
			child.SetLocalValue(node.Name, float64(i))
			_, err := in.exec(node.Children[2], child)
			return err
		})
	}

	if err := in.runBranches(branches); err != nil {
		return nil, err
	}
	return Unit{}, nil
}

func (in *Interpreter) execParallel(node *parser.Node, env *scope.Scope) (Value, error) {
	body := node.Children[0]

	branches := make([]func() error, len(body.Children))
	for i, stmt := range body.Children {
		stmt := stmt
		branches[i] = func() error {
			child := scope.NewChild("parallel", env)
			_, err := in.exec(stmt, child)
			return err
		}
	}

	if err := in.runBranches(branches); err != nil {
		return nil, err
	}
	return Unit{}, nil
}

/*
evalRange evaluates a Loop/ParallelLoop's bounds, enforcing §4.4's
"lo, hi must be integers; lo <= hi" constraint.
*/
func (in *Interpreter) evalRange(node *parser.Node, env *scope.Scope) (int, int, error) {
	loVal, err := in.exec(node.Children[0], env)
	if err != nil {
		return 0, 0, err
	}
	hiVal, err := in.exec(node.Children[1], env)
	if err != nil {
		return 0, 0, err
	}

	lo, ok := loVal.(float64)
	if !ok || lo != float64(int(lo)) {
		return 0, 0, in.runtimeError(node, "loop range bound is not an integer")
	}
	hi, ok := hiVal.(float64)
	if !ok || hi != float64(int(hi)) {
		return 0, 0, in.runtimeError(node, "loop range bound is not an integer")
	}
	if lo > hi {
		return 0, 0, in.runtimeError(node, "loop range lo > hi")
	}

	return int(lo), int(hi), nil
}

func (in *Interpreter) execCall(node *parser.Node, env *scope.Scope) (Value, error) {
	callee, err := in.exec(node.Children[0], env)
	if err != nil {
		return nil, err
	}

	args, err := in.evalArgs(node.Children[1:], env)
	if err != nil {
		return nil, err
	}

	switch fn := callee.(type) {
	case *Function:
		return in.callFunction(fn, args)
	case Builtin:
		ret, err := fn.Run(args)
		if err != nil {
			return nil, in.runtimeError(node, err.Error())
		}
		return ret, nil
	case *TaskUnitClass:
		if len(args) != 0 {
			return nil, in.runtimeError(node, fmt.Sprintf("%s takes no constructor arguments", fn.Name))
		}
		return in.instantiateTaskUnit(fn), nil
	default:
		return nil, in.runtimeError(node, "value is not callable")
	}
}

func (in *Interpreter) execMethodCall(node *parser.Node, env *scope.Scope) (Value, error) {
	recv, err := in.exec(node.Children[0], env)
	if err != nil {
		return nil, err
	}
	args, err := in.evalArgs(node.Children[1:], env)
	if err != nil {
		return nil, err
	}

	switch r := recv.(type) {
	case *ParallelTasks:
		if node.Name != "next" {
			return nil, in.runtimeError(node, fmt.Sprintf("parallelTasks has no method %q", node.Name))
		}
		return in.groupNext(r, node)
	case *TaskUnitInstance:
		fn, ok := r.Env.GetValue(node.Name)
		if !ok {
			return nil, in.runtimeError(node, fmt.Sprintf("%s has no method %q", r.Class.Name, node.Name))
		}
		f, ok := fn.(*Function)
		if !ok {
			return nil, in.runtimeError(node, fmt.Sprintf("%s.%s is not callable", r.Class.Name, node.Name))
		}
		return in.callFunction(f, args)
	default:
		return nil, in.runtimeError(node, "value has no methods")
	}
}

func (in *Interpreter) evalArgs(argNodes []*parser.Node, env *scope.Scope) ([]Value, error) {
	if len(argNodes) == 0 {
		return nil, nil
	}
	args := make([]Value, len(argNodes))
	for i, a := range argNodes {
		v, err := in.exec(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

/*
callFunction runs a user function's body in a fresh child scope of its
definition environment (§4.4 of spec.md: "lexical closure"). DICE has no
explicit return, so the result is always Unit; a @timed function emits its
line around the full call (§4.5).
*/
func (in *Interpreter) callFunction(fn *Function, args []Value) (Value, error) {
	if len(args) != len(fn.Params) {
		return nil, util.NewError(in.Source, util.ErrRuntimeError,
			fmt.Sprintf("%s expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args)), nil)
	}

	child := scope.NewChild(fn.Name, fn.Env)
	for i, p := range fn.Params {
		child.SetLocalValue(p, args[i])
	}

	if !fn.Timed {
		_, err := in.exec(fn.Body, child)
		return Unit{}, err
	}

	timedNode := &parser.Node{Kind: parser.Timed, Label: fn.Label, Children: []*parser.Node{fn.Body}}
	_, err := in.execTimed(timedNode, child)
	return Unit{}, err
}
