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
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *Node {
	t.Helper()
	n, err := Parse("t", src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return n
}

func stmts(program *Node) []*Node {
	return program.Children[0].Children
}

func TestParseSequentialArrow(t *testing.T) {
	prog := mustParse(t, `func main(){ print("a") -> print("b") -> print("c"); }`)

	fn := stmts(prog)[0]
	if fn.Kind != FuncDef || fn.Name != "main" {
		t.Fatalf("expected FuncDef main, got %v", fn)
	}

	body := fn.Children[0]
	if len(body.Children) != 1 {
		t.Fatalf("expected a single sequence statement, got %d", len(body.Children))
	}

	seq := body.Children[0]
	if seq.Kind != Sequence {
		t.Fatalf("expected Sequence root, got %v", seq.Kind)
	}

	// a -> b -> c should right-lean: Sequence(a, Sequence(b, c))
	if seq.Children[1].Kind != Sequence {
		t.Fatalf("expected right-leaning chain, got %v", seq.Children[1].Kind)
	}
}

func TestParseParallelBlockVsParallelLoop(t *testing.T) {
	prog := mustParse(t, `func main(){ p { print("x"); } -> p loop i in 0..3 { print("y"); } }`)

	body := stmts(prog)[0].Children[0]
	seq := body.Children[0]
	if seq.Kind != Sequence {
		t.Fatalf("expected Sequence, got %v", seq.Kind)
	}
	if seq.Children[0].Kind != Parallel {
		t.Fatalf("expected Parallel, got %v", seq.Children[0].Kind)
	}
	if seq.Children[1].Kind != ParallelLoop {
		t.Fatalf("expected ParallelLoop, got %v", seq.Children[1].Kind)
	}
	if seq.Children[1].Name != "i" {
		t.Fatalf("expected loop var 'i', got %q", seq.Children[1].Name)
	}
}

func TestParseTimedDefaultLabels(t *testing.T) {
	cases := []struct {
		src   string
		label string
	}{
		{`@timed func main(){ print("hi"); }`, "function"},
		{`func main(){ @timed p { print("hi"); } }`, "parallel"},
		{`func main(){ @timed { print("hi"); } }`, "block"},
		{`func main(){ @timed print("hi"); }`, "print"},
	}

	for _, c := range cases {
		prog := mustParse(t, c.src)
		var timed *Node
		top := stmts(prog)[0]
		if top.Kind == Timed {
			timed = top
		} else {
			timed = top.Children[0].Children[0]
		}
		if timed.Kind != Timed {
			t.Fatalf("%s: expected Timed node, got %v", c.src, timed.Kind)
		}
		if timed.Label != c.label {
			t.Errorf("%s: expected label %q, got %q", c.src, c.label, timed.Label)
		}
	}
}

func TestParseTimedExplicitLabel(t *testing.T) {
	prog := mustParse(t, `@timed("custom") func main(){ print("hi"); }`)
	timed := stmts(prog)[0]
	if timed.Label != "custom" {
		t.Fatalf("expected explicit label, got %q", timed.Label)
	}
}

func TestParseTimedCannotWrapTimed(t *testing.T) {
	_, err := Parse("t", `@timed @timed { print("hi"); }`)
	if err == nil {
		t.Fatal("expected a parse error nesting @timed")
	}
}

func TestParseIfElse(t *testing.T) {
	prog := mustParse(t, `func main(){ if (true) { print("a"); } else { print("b"); } }`)
	ifNode := stmts(prog)[0].Children[0].Children[0]
	if ifNode.Kind != If {
		t.Fatalf("expected If, got %v", ifNode.Kind)
	}
	if len(ifNode.Children) != 3 {
		t.Fatalf("expected cond+then+else, got %d children", len(ifNode.Children))
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	prog := mustParse(t, `func main(){ x = 1 + 2 * 3; }`)
	assign := stmts(prog)[0].Children[0].Children[0]
	if assign.Kind != Assign {
		t.Fatalf("expected Assign, got %v", assign.Kind)
	}
	add := assign.Children[0]
	if add.Kind != BinaryOp || add.Name != "+" {
		t.Fatalf("expected top level '+', got %v %q", add.Kind, add.Name)
	}
	if add.Children[1].Kind != BinaryOp || add.Children[1].Name != "*" {
		t.Fatalf("expected '*' nested under '+', got %v", add.Children[1].Kind)
	}
}

func TestParseMethodCallAndTaskUnit(t *testing.T) {
	prog := mustParse(t, `
taskunit DeviceA {
  func step1() { print("A1"); }
  func step2() { print("A2"); }
}
func main(){
  g = parallelTasks(DeviceA());
  g.next();
}`)
	tu := stmts(prog)[0]
	if tu.Kind != TaskUnitDef || tu.Name != "DeviceA" {
		t.Fatalf("expected TaskUnitDef DeviceA, got %v", tu)
	}
	if len(tu.Children) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(tu.Children))
	}

	main := stmts(prog)[1]
	body := main.Children[0].Children

	call := body[1]
	if call.Kind != MethodCall || call.Name != "next" {
		t.Fatalf("expected MethodCall next, got %v", call)
	}
}

func TestParseErrorUnexpectedToken(t *testing.T) {
	_, err := Parse("t", `func main( { }`)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "expected") {
		t.Fatalf("expected diagnostic to mention 'expected', got %v", err)
	}
}
