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
	"fmt"
	"time"

	"dice/parser"
	"dice/scope"
)

/*
execTimed implements §4.5 of spec.md: measure target's full execution
duration against a monotonic clock and emit exactly one
"[TIMED: <label>] <seconds>s" line to the output sink, with 4-digit
fractional precision, even when target raises - the error is re-propagated
after the line is emitted.

time.Now/time.Since (standard library) is used rather than a third-party
duration helper: the teacher's devt.de/krotik/common/timeutil package only
offers cron-style recurring scheduling, which has no bearing on measuring a
single elapsed interval (see DESIGN.md).
*/
func (in *Interpreter) execTimed(node *parser.Node, env *scope.Scope) (Value, error) {
	target := node.Children[0]

	start := time.Now()
	val, err := in.exec(target, env)
	elapsed := time.Since(start)

	fmt.Fprintf(in.Output, "[TIMED: %s] %.4fs\n", node.Label, elapsed.Seconds())

	return val, err
}
