/*
 * DICE
 *
 * Copyright 2026 The DICE Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package parser builds the DICE abstract syntax tree from a token stream.
package parser

import (
	"bytes"
	"fmt"

	"dice/lexer"
)

/*
Kind tags the variant a Node represents. The interpreter dispatches on Kind
with a single switch rather than using one Go type per node, keeping the tree
trivially serializable. The compiler does not check that switch for
exhaustiveness; a Kind it does not handle yields a runtime error.
*/
type Kind int

const (
	Program Kind = iota
	Statements
	FuncDef
	Call
	Assign
	If
	Loop
	ParallelLoop
	Parallel
	Sequence
	Timed
	MethodCall
	NumberLiteral
	StringLiteral
	BooleanLiteral
	Identifier
	BinaryOp
	UnaryOp
	TaskUnitDef
)

var kindNames = map[Kind]string{
	Program:       "Program",
	Statements:    "Statements",
	FuncDef:       "FuncDef",
	Call:          "Call",
	Assign:        "Assign",
	If:            "If",
	Loop:          "Loop",
	ParallelLoop:  "ParallelLoop",
	Parallel:      "Parallel",
	Sequence:      "Sequence",
	Timed:         "Timed",
	MethodCall:    "MethodCall",
	NumberLiteral: "NumberLiteral",
	StringLiteral: "StringLiteral",
	BooleanLiteral: "BooleanLiteral",
	Identifier:    "Identifier",
	BinaryOp:      "BinaryOp",
	UnaryOp:       "UnaryOp",
	TaskUnitDef:   "TaskUnitDef",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

/*
Node is a single AST node. Every node has exactly one parent except Program,
which is the tree root; the interpreter never mutates a Node after parsing.

Only the fields relevant to a Node's Kind are populated; see the comment on
each field for which Kind variants use it.
*/
type Node struct {
	Kind  Kind
	Token lexer.Token // token this node originates from, for error positions

	Name  string // FuncDef/TaskUnitDef/Assign/Loop-var/Identifier/MethodCall name, BinaryOp/UnaryOp operator lexeme, literal text of Number/String/BooleanLiteral
	Label string // Timed: explicit or derived label

	Params []string // FuncDef: parameter names, in order

	// Children, by Kind:
	//   Program:       [Statements]
	//   Statements:    ordered statement nodes
	//   FuncDef:       [body Statements]
	//   Call:          [callee, arg0, arg1, ...]
	//   Assign:        [value]
	//   If:            [cond, thenStatements, elseStatements?]
	//   Loop:          [lo, hi, bodyStatements]
	//   ParallelLoop:  [lo, hi, bodyStatements]
	//   Parallel:      [bodyStatements]
	//   Sequence:      [head, tail]
	//   Timed:         [target]
	//   MethodCall:    [receiver, arg0, arg1, ...]
	//   BinaryOp:      [lhs, rhs]
	//   UnaryOp:       [operand]
	//   TaskUnitDef:   ordered step FuncDef nodes
	Children []*Node
}

/*
String renders the tree for debugging and test failure messages. It is not an
AST pretty-printer in the collaborator sense (§1 of spec.md keeps that out of
core scope); it exists only so test assertions and panics read clearly.
*/
func (n *Node) String() string {
	var buf bytes.Buffer
	n.write(&buf, 0)
	return buf.String()
}

func (n *Node) write(buf *bytes.Buffer, indent int) {
	for i := 0; i < indent; i++ {
		buf.WriteString("  ")
	}
	buf.WriteString(n.Kind.String())
	if n.Name != "" {
		fmt.Fprintf(buf, " %q", n.Name)
	}
	if n.Label != "" {
		fmt.Fprintf(buf, " label=%q", n.Label)
	}
	buf.WriteString("\n")
	for _, c := range n.Children {
		c.write(buf, indent+1)
	}
}
