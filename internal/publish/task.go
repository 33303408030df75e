// SPDX-License-Identifier: MPL-2.0

// Package publish turns selected artifacts into fully-resolved publish tasks
// and executes them through a bounded worker pool, collecting one immutable
// outcome per task and folding outcomes into run statistics.
package publish

import (
	"repub-cli/internal/selection"
	"repub-cli/pkg/maven"
)

type (
	// Target identifies one remote repository.
	Target struct {
		URL string
		ID  string
	}

	// Routing holds the two targets a run publishes into. Snapshot
	// coordinates go to Snapshots, everything else to Releases.
	Routing struct {
		Releases  Target
		Snapshots Target
	}

	// Task is one fully-resolved publish request. It is owned exclusively
	// by the orchestrator from construction until its outcome is recorded.
	Task struct {
		Coordinate     maven.Coordinate
		Classification maven.Classification
		PrimaryPath    string
		DescriptorPath string // empty when no descriptor is paired
		Packaging      string
		Repo           Target
		SettingsPath   string // optional credential-config reference
	}
)

// target returns the repository for a classification.
func (r Routing) target(c maven.Classification) Target {
	if c == maven.Snapshot {
		return r.Snapshots
	}
	return r.Releases
}

// BuildTasks resolves one task per selected artifact. Routing is decided
// once per task from the group's classification; the packaging type is
// derived from the primary file's extension.
func BuildTasks(selected []selection.SelectedArtifact, routing Routing, settingsPath string) []Task {
	tasks := make([]Task, 0, len(selected))
	for _, sel := range selected {
		class := sel.Primary.Classification
		t := Task{
			Coordinate:     sel.Primary.Coordinate,
			Classification: class,
			PrimaryPath:    sel.Primary.Path,
			Packaging:      maven.Packaging(sel.Primary.Path),
			Repo:           routing.target(class),
			SettingsPath:   settingsPath,
		}
		if sel.Descriptor != nil {
			t.DescriptorPath = sel.Descriptor.Path
		}
		tasks = append(tasks, t)
	}
	return tasks
}

// FileCount is the number of physical files the task publishes: the primary
// plus the paired descriptor when present. Statistics are file-granular so
// that every scanned file is accounted for exactly once.
func (t Task) FileCount() int {
	if t.DescriptorPath != "" {
		return 2
	}
	return 1
}
