// SPDX-License-Identifier: MPL-2.0

// Package selection reduces the candidate files discovered by a scan to at
// most one publishable unit per coordinate: it groups candidates by their
// logical identity, resolves ties among multiple physical files, and pairs
// each primary artifact with its pom descriptor.
package selection

import (
	"sort"

	"repub-cli/internal/scan"
	"repub-cli/pkg/maven"
)

type (
	// Group is the ordered set of candidate files sharing one coordinate.
	// Order is scan order.
	Group struct {
		Coordinate maven.Coordinate
		Files      []scan.CandidateFile
	}

	// SelectedArtifact is the resolved publish unit for one group: a primary
	// file and, when one matches by base filename, its pom descriptor. A
	// group holding only descriptors promotes its best descriptor to
	// primary.
	SelectedArtifact struct {
		Primary    scan.CandidateFile
		Descriptor *scan.CandidateFile
	}

	// Result is the outcome of selecting over a full candidate set.
	Result struct {
		Selected []SelectedArtifact
		// Skipped is the number of candidates that lost a tie-break or were
		// descriptors left unpaired.
		Skipped int
	}
)

// GroupCandidates partitions candidates by coordinate. Every candidate lands
// in exactly one group; groups preserve scan order, and the group list itself
// is ordered by first encounter.
func GroupCandidates(candidates []scan.CandidateFile) []Group {
	index := make(map[maven.Coordinate]int)
	groups := make([]Group, 0)
	for _, c := range candidates {
		i, ok := index[c.Coordinate]
		if !ok {
			i = len(groups)
			index[c.Coordinate] = i
			groups = append(groups, Group{Coordinate: c.Coordinate})
		}
		groups[i].Files = append(groups[i].Files, c)
	}
	return groups
}

// Select resolves every group to its publish unit. It is deterministic and
// idempotent: the same candidate set always yields the same result.
func Select(groups []Group) Result {
	var res Result
	for _, g := range groups {
		sel, skipped, ok := selectGroup(g)
		res.Skipped += skipped
		if ok {
			res.Selected = append(res.Selected, sel)
		}
	}
	return res
}

// selectGroup applies the role partition, tie-break, and pairing rules to a
// single group. The boolean is false only for an empty group, which cannot
// occur by construction.
func selectGroup(g Group) (SelectedArtifact, int, bool) {
	var primaries, descriptors []scan.CandidateFile
	for _, f := range g.Files {
		if f.Role == scan.RoleDescriptor {
			descriptors = append(descriptors, f)
		} else {
			primaries = append(primaries, f)
		}
	}

	snapshot := g.Coordinate.Classification() == maven.Snapshot

	if len(primaries) == 0 {
		if len(descriptors) == 0 {
			return SelectedArtifact{}, 0, false
		}
		// Descriptor-only group: promote the best descriptor, no pairing.
		best := pickBest(descriptors, snapshot)
		return SelectedArtifact{Primary: best}, len(descriptors) - 1, true
	}

	skipped := 0
	best := pickBest(primaries, snapshot)
	skipped += len(primaries) - 1

	sel := SelectedArtifact{Primary: best}
	wanted := descriptorName(best.Path)
	for i := range descriptors {
		d := descriptors[i]
		if sel.Descriptor == nil && baseName(d.Path) == wanted {
			sel.Descriptor = &d
			continue
		}
		skipped++
	}
	return sel, skipped, true
}

// pickBest returns the winning candidate of one role set.
//
// Snapshot groups commonly hold several physical builds, so they are ranked
// by recency: candidates whose filename carries a timestamped build suffix
// are keyed on date+time+build, and a stamp-derived key always outranks an
// mtime-derived one (stamps record the deploy instant; mtimes can be
// disturbed by copies). Among stampless candidates a later mtime wins.
// Remaining ties fall back to scan order, keeping selection deterministic.
//
// Release groups carry no meaningful temporal order; the first-encountered
// candidate wins.
func pickBest(set []scan.CandidateFile, snapshot bool) scan.CandidateFile {
	if !snapshot {
		best := set[0]
		for _, c := range set[1:] {
			if c.ScanIndex < best.ScanIndex {
				best = c
			}
		}
		return best
	}

	ranked := make([]scan.CandidateFile, len(set))
	copy(ranked, set)
	sort.SliceStable(ranked, func(i, j int) bool {
		return newerThan(ranked[i], ranked[j])
	})
	return ranked[0]
}

// newerThan reports whether a was produced more recently than b under the
// documented total order: stamped before unstamped, then stamp key, then
// mtime, then scan order.
func newerThan(a, b scan.CandidateFile) bool {
	sa, aok := maven.ParseSnapshotStamp(baseName(a.Path))
	sb, bok := maven.ParseSnapshotStamp(baseName(b.Path))
	switch {
	case aok && !bok:
		return true
	case !aok && bok:
		return false
	case aok && bok:
		if sa.Key() != sb.Key() {
			return sa.Key() > sb.Key()
		}
	default:
		if !a.ModTime.Equal(b.ModTime) {
			return a.ModTime.After(b.ModTime)
		}
	}
	return a.ScanIndex < b.ScanIndex
}
