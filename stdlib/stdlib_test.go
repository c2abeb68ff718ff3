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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dice/interpreter"
)

func TestPrintJoinsArgsWithSpaces(t *testing.T) {
	var buf strings.Builder
	p := NewPrint(&buf)

	_, err := p.Run([]interpreter.Value{"a", 1.0, true})
	require.NoError(t, err)

	assert.Equal(t, "a 1 true\n", buf.String())
}

func TestMockSensorSleepsThenReports(t *testing.T) {
	var buf strings.Builder
	ms := NewMockSensor(&buf).(*mockSensorBuiltin)

	var slept time.Duration
	ms.sleep = func(d time.Duration) { slept = d }

	_, err := ms.Run([]interpreter.Value{"temp", 0.5})
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, slept)
	assert.Contains(t, buf.String(), "[temp] センサー値:")
}

func TestSleepRejectsWrongArity(t *testing.T) {
	s := NewSleep()
	_, err := s.Run(nil)
	assert.Error(t, err)
}

func TestFuncAdapterCoercesNumericArgs(t *testing.T) {
	called := false
	adapter := NewFuncAdapter(func(n int, label string) error {
		called = true
		assert.Equal(t, 3, n)
		assert.Equal(t, "x", label)
		return nil
	}, "")

	_, err := adapter.Run([]interpreter.Value{3.0, "x"})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestFuncAdapterPropagatesError(t *testing.T) {
	adapter := NewFuncAdapter(func() error {
		return assertionsError{}
	}, "")

	_, err := adapter.Run(nil)
	assert.Error(t, err)
}

type assertionsError struct{}

func (assertionsError) Error() string { return "boom" }
