/*
Copyright 2025 Identio Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package serializer

import (
	"context"
	"sync"

	"github.com/identio/onboarding-go/internal/sdkerror"
)

// Queue executes submitted tasks strictly one at a time, in submission order.
// A task is not dequeued until the previous one finished its network round
// trip and any local state mutation, so two overlapping operations can never
// race on persisted state.
type Queue struct {
	mu     sync.Mutex
	closed bool
	tasks  chan task
	wg     sync.WaitGroup
}

type task struct {
	ctx context.Context
	fn  func(context.Context) error
	res chan error
}

// New starts the single worker goroutine.
func New() *Queue {
	q := &Queue{tasks: make(chan task, 16)}
	q.wg.Add(1)
	go q.worker()
	return q
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for t := range q.tasks {
		// A task whose context expired while queued is aborted without running.
		if err := t.ctx.Err(); err != nil {
			t.res <- err
			continue
		}
		t.res <- t.fn(t.ctx)
	}
}

// Run submits fn and blocks until it has executed. Once a task starts there is
// no cancellation; it runs to completion or transport failure.
func (q *Queue) Run(ctx context.Context, fn func(context.Context) error) error {
	t := task{ctx: ctx, fn: fn, res: make(chan error, 1)}

	// Enqueueing under the lock keeps submission order deterministic and makes
	// Close safe against a concurrent send.
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return sdkerror.New(sdkerror.ErrClosed, "request queue is closed")
	}
	q.tasks <- t
	q.mu.Unlock()

	return <-t.res
}

// Close stops accepting tasks and waits for the worker to drain.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	q.mu.Unlock()
	q.wg.Wait()
}
