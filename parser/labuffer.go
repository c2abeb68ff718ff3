/*
 * DICE
 *
 * Copyright 2026 The DICE Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package parser

import (
	"devt.de/krotik/common/datautil"

	"dice/lexer"
)

/*
laBuffer is a small look-ahead buffer sitting on top of the lexer's token
channel. The parser needs to peek ahead to disambiguate constructs such as
"p loop" (ParallelLoop) from "p {" (Parallel), and to look past an identifier
to see whether it is followed by "=" (Assign) or "(" (Call).
*/
type laBuffer struct {
	tokens chan lexer.Token
	buffer *datautil.RingBuffer
}

/*
newLABuffer creates a laBuffer of the given look-ahead size backed by the
given token channel.
*/
func newLABuffer(c chan lexer.Token, size int) *laBuffer {
	if size < 1 {
		size = 1
	}

	b := &laBuffer{c, datautil.NewRingBuffer(size)}

	v, more := <-b.tokens
	b.buffer.Add(v)

	for b.buffer.Size() < size && more && v.Kind != lexer.EOF {
		v, more = <-b.tokens
		b.buffer.Add(v)
	}

	return b
}

/*
next consumes and returns the next token.
*/
func (b *laBuffer) next() lexer.Token {
	ret := b.buffer.Poll()

	if v, more := <-b.tokens; more {
		b.buffer.Add(v)
	}

	if ret == nil {
		return lexer.Token{Kind: lexer.EOF}
	}

	return ret.(lexer.Token)
}

/*
peek looks inside the buffer, 0 being the next token to be consumed.
*/
func (b *laBuffer) peek(pos int) lexer.Token {
	if pos >= b.buffer.Size() {
		return lexer.Token{Kind: lexer.EOF}
	}
	return b.buffer.Get(pos).(lexer.Token)
}

/*
peekIs reports whether the next token (position 0) has the given kind. This
folds the parser's single most common lookahead shape - "is the next token
a...?" - used to pick a statement form (p.peekIs(lexer.Loop) for ParallelLoop
vs Parallel, p.peekIs(lexer.Semicolon) for an optional trailing terminator).
*/
func (b *laBuffer) peekIs(kind lexer.Kind) bool {
	return b.peek(0).Kind == kind
}

/*
peekIsAssignAhead reports whether an identifier at position 0 is followed by
"=", the disambiguation the parser needs to tell an Assign from a bare
expression statement starting with an identifier.
*/
func (b *laBuffer) peekIsAssignAhead() bool {
	return b.peek(0).Kind == lexer.Identifier && b.peek(1).Kind == lexer.Assign
}
