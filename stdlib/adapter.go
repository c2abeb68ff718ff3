/*
 * DICE
 *
 * Copyright 2026 The DICE Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package stdlib provides the host builtin callables DICE programs can invoke
// (§6 of spec.md), plus a reflection-based adapter so a host embedding the
// interpreter can register an ordinary Go function without hand-marshaling
// interpreter.Value.
package stdlib

import (
	"fmt"
	"reflect"

	"dice/interpreter"
)

/*
FuncAdapter bridges an arbitrary Go function to the interpreter.Builtin
contract, modeled on the teacher's stdlib/adapter.go ECALFunctionAdapter: it
uses reflection to coerce interpreter.Value arguments (float64, string, bool)
into the wrapped function's parameter types, and converts its Go return
values back.
*/
type FuncAdapter struct {
	fn        reflect.Value
	docstring string
}

/*
NewFuncAdapter wraps fn, a Go func value, as an interpreter.Builtin. fn's last
return value may be an error; any other return values are turned into
interpreter.Values directly (numeric kinds to float64).
*/
func NewFuncAdapter(fn interface{}, docstring string) *FuncAdapter {
	return &FuncAdapter{reflect.ValueOf(fn), docstring}
}

/*
Run implements interpreter.Builtin.
*/
func (a *FuncAdapter) Run(args []interpreter.Value) (ret interpreter.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("error calling builtin: %v", r)
		}
	}()

	ft := a.fn.Type()

	if len(args) != ft.NumIn() {
		return nil, fmt.Errorf("expected %d argument(s), got %d", ft.NumIn(), len(args))
	}

	fargs := make([]reflect.Value, len(args))
	for i, arg := range args {
		expected := ft.In(i)

		if n, ok := arg.(float64); ok && expected.Kind() != reflect.Float64 && isNumericKind(expected.Kind()) {
			arg = coerceFloat(n, expected.Kind())
		}

		given := reflect.TypeOf(arg)
		if given == nil || (given != expected && !given.AssignableTo(expected)) {
			return nil, fmt.Errorf("argument %d should be %v, got %v", i+1, expected, given)
		}
		fargs[i] = reflect.ValueOf(arg)
	}

	out := a.fn.Call(fargs)

	var results []interpreter.Value
	for i, v := range out {
		if i == len(out)-1 && ft.Out(i) == reflect.TypeOf((*error)(nil)).Elem() {
			if e, ok := v.Interface().(error); ok && e != nil {
				err = e
			}
			continue
		}
		results = append(results, toValue(v))
	}

	switch len(results) {
	case 0:
		return interpreter.Unit{}, err
	case 1:
		return results[0], err
	default:
		return results, err
	}
}

/*
DocString returns a descriptive text about the wrapped function.
*/
func (a *FuncAdapter) DocString() (string, error) {
	return a.docstring, nil
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32:
		return true
	}
	return false
}

func coerceFloat(n float64, k reflect.Kind) interface{} {
	switch k {
	case reflect.Int:
		return int(n)
	case reflect.Int8:
		return int8(n)
	case reflect.Int16:
		return int16(n)
	case reflect.Int32:
		return int32(n)
	case reflect.Int64:
		return int64(n)
	case reflect.Uint:
		return uint(n)
	case reflect.Uint8:
		return uint8(n)
	case reflect.Uint16:
		return uint16(n)
	case reflect.Uint32:
		return uint32(n)
	case reflect.Uint64:
		return uint64(n)
	case reflect.Float32:
		return float32(n)
	}
	return n
}

func toValue(v reflect.Value) interpreter.Value {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	default:
		return v.Interface()
	}
}
