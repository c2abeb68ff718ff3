/*
 * DICE
 *
 * Copyright 2026 The DICE Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package util

import (
	"errors"
	"strings"
	"testing"

	"dice/lexer"
	"dice/parser"
)

func TestNewErrorWithoutNode(t *testing.T) {
	err := NewError("t.dice", ErrLexError, "unterminated string", nil)

	if !errors.Is(err, ErrLexError) {
		t.Fatalf("expected errors.Is to match ErrLexError")
	}
	if strings.Contains(err.Error(), "Line:") {
		t.Fatalf("expected no line info without a node, got %q", err.Error())
	}
}

func TestNewErrorWithNode(t *testing.T) {
	node := &parser.Node{Token: lexer.Token{Line: 3, Col: 7}}
	err := NewError("t.dice", ErrNameError, "unbound variable x", node)

	if err.Line != 3 || err.Pos != 7 {
		t.Fatalf("expected position pulled from node token, got %d:%d", err.Line, err.Pos)
	}
	if !strings.Contains(err.Error(), "Line:3 Pos:7") {
		t.Fatalf("expected rendered position, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "unbound variable x") {
		t.Fatalf("expected detail in message, got %q", err.Error())
	}
}

func TestErrorIsDistinguishesKinds(t *testing.T) {
	err := NewError("t.dice", ErrRuntimeError, "not a number", nil)

	if errors.Is(err, ErrNameError) {
		t.Fatal("runtime error should not match ErrNameError")
	}
	if !errors.Is(err, ErrRuntimeError) {
		t.Fatal("expected errors.Is to match ErrRuntimeError")
	}
}
