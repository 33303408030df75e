// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"fmt"

	"repub-cli/pkg/maven"
)

// Status is the terminal state of a publish task.
type Status int

const (
	// Succeeded means the publisher reported success (or the run was a
	// dry run, which always succeeds).
	Succeeded Status = iota
	// Failed means the publisher reported failure. Failures never abort
	// sibling tasks or the run.
	Failed
)

// String returns the status label used in logs.
func (s Status) String() string {
	if s == Failed {
		return "failed"
	}
	return "succeeded"
}

// Outcome is the immutable record a worker produces exactly once per task.
// Files carries the task's physical file count so statistics stay
// file-granular.
type Outcome struct {
	Coordinate     maven.Coordinate
	Classification maven.Classification
	Status         Status
	Files          int
	Err            error // cause for failed outcomes, nil otherwise
}

// Statistics summarizes a completed run. For every run
// Total == Skipped + Succeeded + Failed, Succeeded == ReleaseSucceeded +
// SnapshotSucceeded, and Failed == ReleaseFailed + SnapshotFailed.
type Statistics struct {
	Total             int
	Skipped           int
	Succeeded         int
	Failed            int
	ReleaseSucceeded  int
	ReleaseFailed     int
	SnapshotSucceeded int
	SnapshotFailed    int
}

// HadFailures reports whether any task failed.
func (s Statistics) HadFailures() bool { return s.Failed > 0 }

// add folds one outcome into the statistics. The fold is commutative and
// associative, so outcome arrival order never changes the result.
func (s Statistics) add(o Outcome) Statistics {
	if o.Files <= 0 {
		// An outcome must account for at least its primary file; anything
		// else means the task/outcome handoff contract is broken.
		panic(fmt.Sprintf("outcome for %s carries no files", o.Coordinate))
	}
	switch o.Status {
	case Succeeded:
		s.Succeeded += o.Files
		if o.Classification == maven.Snapshot {
			s.SnapshotSucceeded += o.Files
		} else {
			s.ReleaseSucceeded += o.Files
		}
	case Failed:
		s.Failed += o.Files
		if o.Classification == maven.Snapshot {
			s.SnapshotFailed += o.Files
		} else {
			s.ReleaseFailed += o.Files
		}
	}
	return s
}

// Aggregate folds a finite outcome set into statistics. skipped is the
// number of files excluded by the scanner or dropped by selection; Total is
// reconciled so every discovered file is counted exactly once.
func Aggregate(outcomes []Outcome, skipped int) Statistics {
	stats := Statistics{Skipped: skipped}
	for _, o := range outcomes {
		stats = stats.add(o)
	}
	stats.Total = stats.Skipped + stats.Succeeded + stats.Failed
	return stats
}
