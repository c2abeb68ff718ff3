/*
 * DICE
 *
 * Copyright 2026 The DICE Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package stdlib

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"dice/config"
	"dice/interpreter"
)

/*
printBuiltin implements §6 of spec.md's print(...): writes each argument's
string form separated by spaces, then a newline, to the shared output sink.
All branches write to the same sink (§9 "Shared-output interleaving"), so
writes are serialized with a mutex to keep one branch's line from being cut
by another's mid-write.
*/
type printBuiltin struct {
	out io.Writer
	mu  *sync.Mutex
}

/*
NewPrint returns the print builtin, writing to out.
*/
func NewPrint(out io.Writer) interpreter.Builtin {
	return &printBuiltin{out: out, mu: &sync.Mutex{}}
}

func (p *printBuiltin) Run(args []interpreter.Value) (interpreter.Value, error) {
	parts := make([]interface{}, len(args))
	for i, a := range args {
		parts[i] = formatValue(a)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, parts...)

	return interpreter.Unit{}, nil
}

func formatValue(v interpreter.Value) string {
	switch t := v.(type) {
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	case string:
		return t
	case bool:
		return fmt.Sprintf("%v", t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

/*
mockSensorBuiltin implements §6 of spec.md's mock_sensor(label, delay_seconds):
blocks the branch for delay_seconds, then prints a reading line. Seeded
through config.MockSensorSeed (§1.3 of SPEC_FULL.md) so a host can make a run
reproducible; the default (seed 0) seeds from the current time.
*/
type mockSensorBuiltin struct {
	out  io.Writer
	mu   *sync.Mutex
	rng  *rand.Rand
	rmu  sync.Mutex
	sleep func(time.Duration)
}

/*
NewMockSensor returns the mock_sensor builtin, writing readings to out.
*/
func NewMockSensor(out io.Writer) interpreter.Builtin {
	seed := int64(config.Int(config.MockSensorSeed))
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &mockSensorBuiltin{
		out:   out,
		mu:    &sync.Mutex{},
		rng:   rand.New(rand.NewSource(seed)),
		sleep: time.Sleep,
	}
}

func (m *mockSensorBuiltin) Run(args []interpreter.Value) (interpreter.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("mock_sensor expects 2 arguments, got %d", len(args))
	}
	label, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("mock_sensor's first argument must be a string")
	}
	delay, ok := args[1].(float64)
	if !ok {
		return nil, fmt.Errorf("mock_sensor's second argument must be a number")
	}

	m.sleep(time.Duration(delay * float64(time.Second)))

	m.rmu.Lock()
	reading := m.rng.Float64() * 100
	m.rmu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Fprintf(m.out, "[%s] センサー値: %.2f\n", label, reading)

	return interpreter.Unit{}, nil
}

/*
sleepBuiltin implements the sleep(seconds) builtin used by spec.md §8's timed
block scenario. Not required by §6's minimum set but implied by its concrete
examples.
*/
type sleepBuiltin struct {
	sleep func(time.Duration)
}

/*
NewSleep returns the sleep builtin.
*/
func NewSleep() interpreter.Builtin {
	return &sleepBuiltin{sleep: time.Sleep}
}

func (s *sleepBuiltin) Run(args []interpreter.Value) (interpreter.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("sleep expects 1 argument, got %d", len(args))
	}
	seconds, ok := args[0].(float64)
	if !ok {
		return nil, fmt.Errorf("sleep's argument must be a number")
	}
	s.sleep(time.Duration(seconds * float64(time.Second)))
	return interpreter.Unit{}, nil
}

/*
Register installs print, mock_sensor and sleep on in, implementing §6 of
spec.md's "host environment supplies a small set of built-in callables".
*/
func Register(in *interpreter.Interpreter, out io.Writer) {
	in.RegisterBuiltin("print", NewPrint(out))
	in.RegisterBuiltin("mock_sensor", NewMockSensor(out))
	in.RegisterBuiltin("sleep", NewSleep())
}
