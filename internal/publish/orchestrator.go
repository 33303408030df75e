// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// DefaultWorkers is the default concurrency limit for a run.
const DefaultWorkers = 4

// Orchestrator executes publish tasks with bounded concurrency. Workers hand
// every terminal state off as an immutable Outcome on a channel; no counter
// is ever mutated from worker code.
type Orchestrator struct {
	Publisher Publisher
	Workers   int
	Logger    *log.Logger
}

// NewOrchestrator returns an orchestrator running up to workers tasks
// concurrently. workers must be positive; that is validated by the caller
// before a run starts.
func NewOrchestrator(p Publisher, workers int, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{Publisher: p, Workers: workers, Logger: logger}
}

// Run executes every task to a terminal state and returns one outcome per
// task. There is no cancellation between tasks and no retry: a failing task
// is recorded and its siblings keep running. Run returns only after every
// submitted task has terminated and every outcome has been collected.
func (o *Orchestrator) Run(ctx context.Context, tasks []Task) []Outcome {
	workers := o.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(tasks) {
		workers = max(len(tasks), 1)
	}

	taskCh := make(chan Task)
	outcomeCh := make(chan Outcome, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskCh {
				outcomeCh <- o.runOne(ctx, task)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(outcomeCh)
	}()

	// Feed the pool from a separate goroutine so the submitter blocks on a
	// saturated pool while this goroutine drains outcomes.
	go func() {
		for _, task := range tasks {
			taskCh <- task
		}
		close(taskCh)
	}()

	outcomes := make([]Outcome, 0, len(tasks))
	for outcome := range outcomeCh {
		outcomes = append(outcomes, outcome)
	}

	if len(outcomes) != len(tasks) {
		// Every submitted task must report exactly one terminal state; a
		// mismatch means the handoff contract is broken.
		panic(fmt.Sprintf("collected %d outcomes for %d tasks", len(outcomes), len(tasks)))
	}
	return outcomes
}

// runOne drives a single task from RUNNING to its terminal state and builds
// its outcome record.
func (o *Orchestrator) runOne(ctx context.Context, task Task) Outcome {
	o.Logger.Debug("publishing",
		"coordinate", task.Coordinate.String(),
		"classification", task.Classification.String(),
		"repo", task.Repo.ID)

	outcome := Outcome{
		Coordinate:     task.Coordinate,
		Classification: task.Classification,
		Status:         Succeeded,
		Files:          task.FileCount(),
	}
	if err := o.Publisher.Publish(ctx, task); err != nil {
		outcome.Status = Failed
		outcome.Err = err
		o.Logger.Error("publish failed",
			"coordinate", task.Coordinate.String(),
			"err", err)
	}
	return outcome
}
