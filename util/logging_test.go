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
	"bytes"
	"testing"
)

func TestNullLoggerDiscardsEverything(t *testing.T) {
	nl := NewNullLogger()
	nl.LogDebug(nil, "test")
	nl.LogInfo(nil, "test")
	nl.LogError(nil, "test")
}

func TestStdOutLoggerFormatsByLevel(t *testing.T) {
	var got []string
	sol := NewStdOutLogger()
	sol.stdlog = func(v ...interface{}) { got = append(got, v[0].(string)) }

	sol.LogDebug("test1")
	sol.LogInfo("test2")
	sol.LogError("test3")

	want := []string{"debug: test1", "test2", "error: test3"}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("line %d: got %q, want %q", i, got[i], w)
		}
	}
}

func TestBufferLoggerWritesEachLevel(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	bl := NewBufferLogger(buf)
	bl.LogDebug("l", "test1")
	bl.LogInfo(nil, "test2")
	bl.LogError("l", "test3")

	want := `debug: ltest1
<nil>test2
error: ltest3
`
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
