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
	"sync"

	"devt.de/krotik/common/sortutil"
	"devt.de/krotik/common/stringutil"

	"dice/config"
)

/*
runBranches executes each branch concurrently and joins before returning,
implementing §5 of spec.md ("suspends its caller until all spawned branches
have joined") and §7's error containment policy ("join all, then re-raise the
first error in branch-join order; remaining errors are discarded"). Join
order here is branch declaration order, which is the only ordering a caller
can observe regardless of actual completion order.

config.WorkerCount bounds concurrency when set above zero (§1.3 of
SPEC_FULL.md); by default every branch gets its own goroutine.
*/
func (in *Interpreter) runBranches(branches []func() error) error {
	n := len(branches)
	if n == 0 {
		return nil
	}

	noun := "branch"
	if stringutil.Plural(n) != "" {
		noun = "branches"
	}

	in.Logger.LogDebug(fmt.Sprintf("spawning %d %s", n, noun))

	errs := make([]error, n)

	if workerCap := config.Int(config.WorkerCount); workerCap > 0 {
		runBranchesBounded(branches, errs, workerCap)
	} else {
		var wg sync.WaitGroup
		wg.Add(n)
		for i := range branches {
			go func(i int) {
				defer wg.Done()
				errs[i] = branches[i]()
			}(i)
		}
		wg.Wait()
	}

	in.Logger.LogDebug(fmt.Sprintf("joined %d %s", n, noun))

	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

/*
runBranchesBounded dispatches branches to workerCap workers pulling from a
priority queue keyed by branch index, rather than one goroutine per branch.
Used when a host embeds the interpreter under memory/scheduler pressure and
sets config.WorkerCount (§1.3 of SPEC_FULL.md); the priority ordering has no
observable effect on program semantics (§5 of spec.md leaves branch
interleaving unspecified) beyond giving earlier-declared branches a slight
head start when workers are scarce.
*/
func runBranchesBounded(branches []func() error, errs []error, workerCap int) {
	queue := sortutil.NewPriorityQueue()
	for i := range branches {
		queue.Push(i, i)
	}

	var qmu sync.Mutex
	var workers sync.WaitGroup
	workers.Add(workerCap)

	for w := 0; w < workerCap; w++ {
		go func() {
			defer workers.Done()
			for {
				qmu.Lock()
				if queue.Size() == 0 {
					qmu.Unlock()
					return
				}
				item := queue.Pop()
				qmu.Unlock()

				i := item.(int)
				errs[i] = branches[i]()
			}
		}()
	}

	workers.Wait()
}
