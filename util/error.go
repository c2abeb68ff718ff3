/*
 * DICE
 *
 * Copyright 2026 The DICE Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

/*
Package util contains utility definitions shared across the DICE packages:
error types and logging.
*/
package util

import (
	"errors"
	"fmt"

	"dice/parser"
)

/*
Error kinds a DiceError can wrap. Used for equality checks by callers that
need to distinguish, say, a name error from a runtime type error.
*/
var (
	ErrLexError    = errors.New("Lex error")
	ErrParseError  = errors.New("Parse error")
	ErrNameError   = errors.New("Name error")
	ErrRuntimeError = errors.New("Runtime error")
)

/*
DiceError is the error type the interpreter produces for name resolution and
evaluation failures. Lexing and parsing report their errors as *parser.Error
instead. Node is nil when no AST node is at hand (for example an arity
mismatch on a function call).
*/
type DiceError struct {
	Source string // name given to the run, e.g. a file path
	Type   error  // one of the Err* sentinels above
	Detail string
	Node   *parser.Node
	Line   int
	Pos    int
}

/*
NewError builds a DiceError, pulling line/column information from node's
token when available.
*/
func NewError(source string, t error, detail string, node *parser.Node) *DiceError {
	e := &DiceError{Source: source, Type: t, Detail: detail, Node: node}
	if node != nil {
		e.Line = node.Token.Line
		e.Pos = node.Token.Col
	}
	return e
}

func (e *DiceError) Error() string {
	ret := fmt.Sprintf("DICE error in %s: %v (%v)", e.Source, e.Type, e.Detail)
	if e.Line != 0 {
		ret = fmt.Sprintf("%s (Line:%d Pos:%d)", ret, e.Line, e.Pos)
	}
	return ret
}

/*
Is supports errors.Is against the Err* sentinels.
*/
func (e *DiceError) Is(target error) bool {
	return errors.Is(e.Type, target)
}
