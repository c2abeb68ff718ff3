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
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dice/parser"
	"dice/util"
)

// capturingPrint is a print builtin that records each line in order, guarded
// by a mutex since multiple parallel branches write to it (§9 of spec.md).
type capturingPrint struct {
	mu    sync.Mutex
	lines []string
}

func (c *capturingPrint) Run(args []Value) (Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	c.mu.Lock()
	c.lines = append(c.lines, strings.Join(parts, " "))
	c.mu.Unlock()
	return Unit{}, nil
}

type failingBuiltin struct{}

func (failingBuiltin) Run(args []Value) (Value, error) {
	return nil, fmt.Errorf("intentional failure")
}

func runSource(t *testing.T, src string) (*capturingPrint, *strings.Builder, error) {
	t.Helper()

	program, err := parser.Parse("t.dice", src)
	require.NoError(t, err)

	var out strings.Builder
	in := New("t.dice", &out, nil)

	print := &capturingPrint{}
	in.RegisterBuiltin("print", print)
	in.RegisterBuiltin("fail", failingBuiltin{})

	return print, &out, in.Run(program)
}

func TestSequentialArrowOrdersPrints(t *testing.T) {
	print, _, err := runSource(t, `func main(){ print("a") -> print("b") -> print("c"); }`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, print.lines)
}

func TestParallelJoinsBeforeTail(t *testing.T) {
	print, _, err := runSource(t, `func main(){ p { print("x"); print("y"); } -> print("z"); }`)
	require.NoError(t, err)

	require.Len(t, print.lines, 3)
	assert.Equal(t, "z", print.lines[2])
	assert.ElementsMatch(t, []string{"x", "y"}, print.lines[:2])
}

func TestNestedParallelOrdering(t *testing.T) {
	print, _, err := runSource(t, `func main(){ p { print("1"); print("2") -> print("3"); } -> print("done"); }`)
	require.NoError(t, err)

	idx := func(s string) int {
		for i, l := range print.lines {
			if l == s {
				return i
			}
		}
		t.Fatalf("line %q not found in %v", s, print.lines)
		return -1
	}

	assert.Less(t, idx("2"), idx("3"))
	done := idx("done")
	assert.Greater(t, done, idx("1"))
	assert.Greater(t, done, idx("2"))
	assert.Greater(t, done, idx("3"))
}

func TestTimedBlockEmitsOneLine(t *testing.T) {
	program, err := parser.Parse("t.dice", `func main(){ @timed { x = 1 + 1; } }`)
	require.NoError(t, err)

	var out strings.Builder
	in := New("t.dice", &out, nil)
	in.RegisterBuiltin("print", &capturingPrint{})

	require.NoError(t, in.Run(program))

	matched, _ := regexp.MatchString(`^\[TIMED: block\] \d+\.\d{4}s\n$`, out.String())
	assert.True(t, matched, "unexpected timed line: %q", out.String())
}

func TestTimedEmitsEvenOnError(t *testing.T) {
	_, out, err := runSource(t, `func main(){ @timed { fail(); } }`)
	assert.Error(t, err)
	assert.Contains(t, out.String(), "[TIMED: block]")
}

func TestParallelTasksSynchronization(t *testing.T) {
	print, _, err := runSource(t, `
taskunit DeviceA {
  func step1() { print("A1"); }
  func step2() { print("A2"); }
}
taskunit DeviceB {
  func step1() { print("B1"); }
  func step2() { print("B2"); }
}
func main(){
  g = parallelTasks(DeviceA(), DeviceB());
  g.next();
  g.next();
}`)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"A1", "A2", "B1", "B2"}, print.lines)

	idx := func(s string) int {
		for i, l := range print.lines {
			if l == s {
				return i
			}
		}
		return -1
	}
	assert.Greater(t, idx("A2"), -1)
	assert.True(t, idx("A2") > idx("A1") || idx("A2") > idx("B1"))
}

func TestParallelTasksExhaustionIsRuntimeError(t *testing.T) {
	_, _, err := runSource(t, `
taskunit DeviceA {
  func step1() { print("A1"); }
}
func main(){
  g = parallelTasks(DeviceA());
  g.next();
  g.next();
}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "group exhausted")
}

func TestErrorInParallelBranchPropagatesAfterSiblingsFinish(t *testing.T) {
	print, _, err := runSource(t, `func main(){ p { print("ok"); fail(); } }`)
	require.Error(t, err)
	assert.Contains(t, print.lines, "ok")
}

func TestLoopRebindsVariablePerIteration(t *testing.T) {
	print, _, err := runSource(t, `func main(){ loop i in 0..3 { print(i); } }`)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2"}, print.lines)
}

func TestIfElseBranches(t *testing.T) {
	print, _, err := runSource(t, `func main(){ if (1 < 2) { print("then"); } else { print("else"); } }`)
	require.NoError(t, err)
	assert.Equal(t, []string{"then"}, print.lines)
}

func TestMixedTypeArithmeticIsRuntimeError(t *testing.T) {
	_, _, err := runSource(t, `func main(){ x = 1 + "a"; }`)
	require.Error(t, err)
}

func TestUnboundIdentifierIsNameError(t *testing.T) {
	_, _, err := runSource(t, `func main(){ print(nope); }`)
	require.Error(t, err)
}

func TestParallelBranchSpawnIsTracedToLogger(t *testing.T) {
	program, err := parser.Parse("t.dice", `func main(){ p { print("a"); print("b"); } }`)
	require.NoError(t, err)

	var trace bytes.Buffer
	var out strings.Builder
	in := New("t.dice", &out, util.NewBufferLogger(&trace))
	in.RegisterBuiltin("print", &capturingPrint{})

	require.NoError(t, in.Run(program))

	assert.Contains(t, trace.String(), "spawning 2 branches")
	assert.Contains(t, trace.String(), "joined 2 branches")
}

func TestMissingMainIsRuntimeError(t *testing.T) {
	program, err := parser.Parse("t.dice", `func other(){ }`)
	require.NoError(t, err)

	var out strings.Builder
	in := New("t.dice", &out, nil)
	err = in.Run(program)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "main")
}
