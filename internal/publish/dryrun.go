// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// DryRun is a Publisher that renders each fully-resolved request instead of
// executing it. Every task succeeds; the external publisher is never
// invoked. Writes are serialized so concurrent workers cannot interleave
// records.
type DryRun struct {
	mu  sync.Mutex
	out io.Writer
}

// NewDryRun returns a dry-run publisher writing records to out.
func NewDryRun(out io.Writer) *DryRun {
	return &DryRun{out: out}
}

// Publish renders the task record. It never fails.
func (d *DryRun) Publish(_ context.Context, task Task) error {
	record := Describe(task)
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.out, record)
	return nil
}

// Describe renders a task as a human-readable record: the classification tag
// followed by every resolved request field. Dry-run output and live
// execution are two views over the same Task value, so what is printed here
// is exactly what a live run would publish.
func Describe(task Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", strings.ToUpper(task.Classification.String()), task.Coordinate)
	fmt.Fprintf(&b, "  packaging:  %s\n", task.Packaging)
	fmt.Fprintf(&b, "  file:       %s\n", task.PrimaryPath)
	if task.DescriptorPath != "" {
		fmt.Fprintf(&b, "  pom:        %s\n", task.DescriptorPath)
	}
	fmt.Fprintf(&b, "  target:     %s (id: %s)", task.Repo.URL, task.Repo.ID)
	if task.SettingsPath != "" {
		fmt.Fprintf(&b, "\n  settings:   %s", task.SettingsPath)
	}
	return b.String()
}
