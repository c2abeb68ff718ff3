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

	"dice/parser"
	"dice/scope"
)

/*
execBinaryOp implements §4.4's operator semantics: arithmetic on Numbers, "+"
on two Strings concatenates, comparisons return Boolean, "&&"/"||"
short-circuit. Mixed-type arithmetic is a RuntimeError.
*/
func (in *Interpreter) execBinaryOp(node *parser.Node, env *scope.Scope) (Value, error) {
	op := node.Name

	if op == "&&" || op == "||" {
		return in.execShortCircuit(node, env)
	}

	lhs, err := in.exec(node.Children[0], env)
	if err != nil {
		return nil, err
	}
	rhs, err := in.exec(node.Children[1], env)
	if err != nil {
		return nil, err
	}

	switch op {
	case "+":
		if ln, lok := lhs.(float64); lok {
			if rn, rok := rhs.(float64); rok {
				return ln + rn, nil
			}
		}
		if ls, lok := lhs.(string); lok {
			if rs, rok := rhs.(string); rok {
				return ls + rs, nil
			}
		}
		return nil, in.runtimeError(node, "operands to \"+\" must both be numbers or both be strings")

	case "-", "*", "/":
		ln, lok := lhs.(float64)
		rn, rok := rhs.(float64)
		if !lok || !rok {
			return nil, in.runtimeError(node, fmt.Sprintf("operands to %q must be numbers", op))
		}
		switch op {
		case "-":
			return ln - rn, nil
		case "*":
			return ln * rn, nil
		case "/":
			if rn == 0 {
				return nil, in.runtimeError(node, "division by zero")
			}
			return ln / rn, nil
		}

	case "==":
		return valuesEqual(lhs, rhs), nil
	case "!=":
		return !valuesEqual(lhs, rhs), nil

	case "<", "<=", ">", ">=":
		ln, lok := lhs.(float64)
		rn, rok := rhs.(float64)
		if !lok || !rok {
			return nil, in.runtimeError(node, fmt.Sprintf("operands to %q must be numbers", op))
		}
		switch op {
		case "<":
			return ln < rn, nil
		case "<=":
			return ln <= rn, nil
		case ">":
			return ln > rn, nil
		case ">=":
			return ln >= rn, nil
		}
	}

	return nil, in.runtimeError(node, "unknown operator "+op)
}

func (in *Interpreter) execShortCircuit(node *parser.Node, env *scope.Scope) (Value, error) {
	lhs, err := in.exec(node.Children[0], env)
	if err != nil {
		return nil, err
	}
	lb, ok := lhs.(bool)
	if !ok {
		return nil, in.runtimeError(node, "operand is not a boolean")
	}

	if node.Name == "&&" && !lb {
		return false, nil
	}
	if node.Name == "||" && lb {
		return true, nil
	}

	rhs, err := in.exec(node.Children[1], env)
	if err != nil {
		return nil, err
	}
	rb, ok := rhs.(bool)
	if !ok {
		return nil, in.runtimeError(node, "operand is not a boolean")
	}
	return rb, nil
}

func (in *Interpreter) execUnaryOp(node *parser.Node, env *scope.Scope) (Value, error) {
	operand, err := in.exec(node.Children[0], env)
	if err != nil {
		return nil, err
	}

	switch node.Name {
	case "-":
		n, ok := operand.(float64)
		if !ok {
			return nil, in.runtimeError(node, "operand to unary \"-\" is not a number")
		}
		return -n, nil
	case "!":
		b, ok := operand.(bool)
		if !ok {
			return nil, in.runtimeError(node, "operand to \"!\" is not a boolean")
		}
		return !b, nil
	}

	return nil, in.runtimeError(node, "unknown unary operator "+node.Name)
}

func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return a == b
	}
}
