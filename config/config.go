/*
 * DICE
 *
 * Copyright 2026 The DICE Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package config holds process-wide tunables for the dice CLI and interpreter.
package config

import (
	"fmt"
	"strconv"

	"devt.de/krotik/common/errorutil"
)

// Global variables
// ================

/*
ProductVersion is the current version of DICE.
*/
const ProductVersion = "1.0.0"

/*
Known configuration keys.
*/
const (
	// WorkerCount bounds how many branches of a single parallel block (or
	// group.next() step) run at once; nested blocks each get their own
	// workers. 0 means unbounded (one goroutine per branch, the default).
	WorkerCount = "WorkerCount"

	// MockSensorSeed seeds mock_sensor's pseudo-random generator; 0 means
	// seed from the current time.
	MockSensorSeed = "MockSensorSeed"
)

/*
DefaultConfig is the default configuration.
*/
var DefaultConfig = map[string]interface{}{
	WorkerCount:    0,
	MockSensorSeed: 0,
}

/*
Config is the actual configuration in use, seeded from DefaultConfig and
overridable by CLI flags.
*/
var Config map[string]interface{}

func init() {
	data := make(map[string]interface{})
	for k, v := range DefaultConfig {
		data[k] = v
	}

	Config = data
}

// Helper functions
// ================

/*
Str reads a config value as a string value.
*/
func Str(key string) string {
	return fmt.Sprint(Config[key])
}

/*
Int reads a config value as an int value.
*/
func Int(key string) int {
	ret, err := strconv.ParseInt(fmt.Sprint(Config[key]), 10, 64)

	errorutil.AssertTrue(err == nil,
		fmt.Sprintf("Could not parse config key %v: %v", key, err))

	return int(ret)
}
