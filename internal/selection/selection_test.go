// SPDX-License-Identifier: MPL-2.0

package selection

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"repub-cli/internal/scan"
	"repub-cli/pkg/maven"
)

// candidate builds a CandidateFile for tests. The coordinate version drives
// the classification, matching how the scanner derives it.
func candidate(t *testing.T, path, version string, role scan.Role, index int, mtime time.Time) scan.CandidateFile {
	t.Helper()
	coord := maven.Coordinate{GroupID: "com.example", ArtifactID: "app", Version: version}
	return scan.CandidateFile{
		Path:           path,
		Ext:            filepath.Ext(path)[1:],
		Coordinate:     coord,
		Classification: coord.Classification(),
		Role:           role,
		ModTime:        mtime,
		ScanIndex:      index,
	}
}

func TestGroupCandidatesIsAPartition(t *testing.T) {
	t.Parallel()

	now := time.Now()
	cands := []scan.CandidateFile{
		candidate(t, "a/1.0.0/app-1.0.0.jar", "1.0.0", scan.RolePrimary, 0, now),
		candidate(t, "a/1.0.0/app-1.0.0.pom", "1.0.0", scan.RoleDescriptor, 1, now),
		candidate(t, "a/2.0.0/app-2.0.0.jar", "2.0.0", scan.RolePrimary, 2, now),
	}

	groups := GroupCandidates(cands)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}

	total := 0
	for _, g := range groups {
		total += len(g.Files)
		for _, f := range g.Files {
			if f.Coordinate != g.Coordinate {
				t.Errorf("file %s grouped under %v", f.Path, g.Coordinate)
			}
		}
	}
	if total != len(cands) {
		t.Errorf("sum of group sizes = %d, want %d", total, len(cands))
	}
}

func TestSelectPairsDescriptorByBaseName(t *testing.T) {
	t.Parallel()

	now := time.Now()
	groups := GroupCandidates([]scan.CandidateFile{
		candidate(t, "a/1.0.0/app-1.0.0.jar", "1.0.0", scan.RolePrimary, 0, now),
		candidate(t, "a/1.0.0/app-1.0.0.pom", "1.0.0", scan.RoleDescriptor, 1, now),
	})

	res := Select(groups)
	if len(res.Selected) != 1 {
		t.Fatalf("got %d selections, want 1", len(res.Selected))
	}
	sel := res.Selected[0]
	if got := baseName(sel.Primary.Path); got != "app-1.0.0.jar" {
		t.Errorf("primary = %s, want app-1.0.0.jar", got)
	}
	if sel.Descriptor == nil {
		t.Fatal("descriptor not attached")
	}
	if got := baseName(sel.Descriptor.Path); got != "app-1.0.0.pom" {
		t.Errorf("descriptor = %s, want app-1.0.0.pom", got)
	}
	if res.Skipped != 0 {
		t.Errorf("skipped = %d, want 0", res.Skipped)
	}
}

func TestSelectPromotesLoneDescriptor(t *testing.T) {
	t.Parallel()

	groups := GroupCandidates([]scan.CandidateFile{
		candidate(t, "a/1.0.1/app-1.0.1.pom", "1.0.1", scan.RoleDescriptor, 0, time.Now()),
	})

	res := Select(groups)
	if len(res.Selected) != 1 {
		t.Fatalf("got %d selections, want 1", len(res.Selected))
	}
	sel := res.Selected[0]
	if got := baseName(sel.Primary.Path); got != "app-1.0.1.pom" {
		t.Errorf("primary = %s, want promoted app-1.0.1.pom", got)
	}
	if sel.Descriptor != nil {
		t.Errorf("promoted descriptor must not carry a separate descriptor")
	}
}

func TestSelectDiscardsMismatchedDescriptor(t *testing.T) {
	t.Parallel()

	now := time.Now()
	groups := GroupCandidates([]scan.CandidateFile{
		candidate(t, "a/1.0.0/app-1.0.0.jar", "1.0.0", scan.RolePrimary, 0, now),
		candidate(t, "a/1.0.0/other-1.0.0.pom", "1.0.0", scan.RoleDescriptor, 1, now),
	})

	res := Select(groups)
	sel := res.Selected[0]
	if sel.Descriptor != nil {
		t.Errorf("mismatched descriptor %s was attached", sel.Descriptor.Path)
	}
	if res.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", res.Skipped)
	}
}

func TestSnapshotTieBreakPrefersHigherBuild(t *testing.T) {
	t.Parallel()

	now := time.Now()
	groups := GroupCandidates([]scan.CandidateFile{
		candidate(t, "a/1.0-SNAPSHOT/app-1.0-20231201.120000-1.jar", "1.0-SNAPSHOT", scan.RolePrimary, 0, now),
		candidate(t, "a/1.0-SNAPSHOT/app-1.0-20231201.120000-2.jar", "1.0-SNAPSHOT", scan.RolePrimary, 1, now),
	})

	res := Select(groups)
	if got := baseName(res.Selected[0].Primary.Path); got != "app-1.0-20231201.120000-2.jar" {
		t.Errorf("selected %s, want build 2", got)
	}
	if res.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", res.Skipped)
	}
}

func TestSnapshotTieBreakStampOutranksMtime(t *testing.T) {
	t.Parallel()

	// The stampless file is more recent on disk, but a stamp-derived key
	// always outranks an mtime-derived one.
	old := time.Date(2023, 12, 1, 12, 0, 0, 0, time.UTC)
	groups := GroupCandidates([]scan.CandidateFile{
		candidate(t, "a/1.0-SNAPSHOT/app-1.0-SNAPSHOT.jar", "1.0-SNAPSHOT", scan.RolePrimary, 0, old.Add(48*time.Hour)),
		candidate(t, "a/1.0-SNAPSHOT/app-1.0-20231201.120000-1.jar", "1.0-SNAPSHOT", scan.RolePrimary, 1, old),
	})

	res := Select(groups)
	if got := baseName(res.Selected[0].Primary.Path); got != "app-1.0-20231201.120000-1.jar" {
		t.Errorf("selected %s, want the stamped build", got)
	}
}

func TestSnapshotTieBreakMtimeFallback(t *testing.T) {
	t.Parallel()

	older := time.Date(2023, 12, 1, 12, 0, 0, 0, time.UTC)
	groups := GroupCandidates([]scan.CandidateFile{
		candidate(t, "a/1.0-SNAPSHOT/app-old.jar", "1.0-SNAPSHOT", scan.RolePrimary, 0, older),
		candidate(t, "a/1.0-SNAPSHOT/app-new.jar", "1.0-SNAPSHOT", scan.RolePrimary, 1, older.Add(time.Hour)),
	})

	res := Select(groups)
	if got := baseName(res.Selected[0].Primary.Path); got != "app-new.jar" {
		t.Errorf("selected %s, want the more recent file", got)
	}
}

func TestReleaseTieBreakFirstEncountered(t *testing.T) {
	t.Parallel()

	now := time.Now()
	groups := GroupCandidates([]scan.CandidateFile{
		candidate(t, "a/1.0.0/app-first.jar", "1.0.0", scan.RolePrimary, 0, now),
		candidate(t, "a/1.0.0/app-second.jar", "1.0.0", scan.RolePrimary, 1, now.Add(time.Hour)),
	})

	res := Select(groups)
	if got := baseName(res.Selected[0].Primary.Path); got != "app-first.jar" {
		t.Errorf("selected %s, want first-encountered", got)
	}
}

func TestSelectIsIdempotent(t *testing.T) {
	t.Parallel()

	now := time.Now()
	cands := []scan.CandidateFile{
		candidate(t, "a/1.0-SNAPSHOT/app-1.0-20231201.100000-1.jar", "1.0-SNAPSHOT", scan.RolePrimary, 0, now),
		candidate(t, "a/1.0-SNAPSHOT/app-1.0-20231201.120000-2.jar", "1.0-SNAPSHOT", scan.RolePrimary, 1, now),
		candidate(t, "a/1.0.0/app-1.0.0.jar", "1.0.0", scan.RolePrimary, 2, now),
		candidate(t, "a/1.0.0/app-1.0.0.pom", "1.0.0", scan.RoleDescriptor, 3, now),
	}

	first := Select(GroupCandidates(cands))
	second := Select(GroupCandidates(cands))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("selection is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestDescriptorName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"repo/com/example/app/1.0.0/app-1.0.0.jar", "app-1.0.0.pom"},
		{"repo/a/b/1.0/b-1.0.war", "b-1.0.pom"},
		{"b-1.0-20231201.120000-2.jar", "b-1.0-20231201.120000-2.pom"},
	}
	for _, tt := range tests {
		if got := descriptorName(tt.path); got != tt.want {
			t.Errorf("descriptorName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
