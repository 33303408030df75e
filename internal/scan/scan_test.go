// SPDX-License-Identifier: MPL-2.0

package scan

import (
	"os"
	"path/filepath"
	"testing"

	"repub-cli/pkg/maven"
)

// writeTree creates empty files under root from relative slash paths.
func writeTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func collect(t *testing.T, s *Scanner) []CandidateFile {
	t.Helper()
	var out []CandidateFile
	if err := s.Run(func(c CandidateFile) { out = append(out, c) }); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	return out
}

func TestRunYieldsCandidatesWithCoordinates(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root,
		"com/example/app/1.0.0/app-1.0.0.jar",
		"com/example/app/1.0.0/app-1.0.0.pom",
	)

	got := collect(t, New(root))
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}

	want := maven.Coordinate{GroupID: "com.example", ArtifactID: "app", Version: "1.0.0"}
	for _, c := range got {
		if c.Coordinate != want {
			t.Errorf("candidate %s has coordinate %+v, want %+v", c.Path, c.Coordinate, want)
		}
		if c.Classification != maven.Release {
			t.Errorf("candidate %s classified %v, want release", c.Path, c.Classification)
		}
	}
}

func TestRunAssignsRoles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root,
		"g/a/1.0/a-1.0.jar",
		"g/a/1.0/a-1.0.war",
		"g/a/1.0/a-1.0.ear",
		"g/a/1.0/a-1.0.pom",
	)

	roles := make(map[string]Role)
	for _, c := range collect(t, New(root)) {
		roles[c.Ext] = c.Role
	}
	for _, ext := range []string{"jar", "war", "ear"} {
		if roles[ext] != RolePrimary {
			t.Errorf("%s role = %v, want primary", ext, roles[ext])
		}
	}
	if roles["pom"] != RoleDescriptor {
		t.Errorf("pom role = %v, want descriptor", roles["pom"])
	}
}

func TestRunExcludesNonArtifacts(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root,
		"g/a/1.0/a-1.0.jar",
		"g/a/1.0/a-1.0.jar.md5",
		"g/a/1.0/a-1.0.jar.sha1",
		"g/a/1.0/a-1.0.jar.sha256",
		"g/a/1.0/a-1.0.jar.sha512",
		"g/a/1.0/a-1.0.jar.asc",
		"g/a/1.0/a-1.0.jar.lastUpdated",
		"g/a/1.0/a-1.0-sources.jar",
		"g/a/1.0/a-1.0-javadoc.jar",
		"g/a/maven-metadata.xml",
		"g/a/maven-metadata.xml.sha1",
		"g/a/1.0/readme.txt",
	)

	s := New(root)
	got := collect(t, s)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1: %+v", len(got), got)
	}
	if base := filepath.Base(got[0].Path); base != "a-1.0.jar" {
		t.Errorf("candidate = %s, want a-1.0.jar", base)
	}
	if s.Skipped() != 11 {
		t.Errorf("skipped = %d, want 11", s.Skipped())
	}
}

func TestRunClassifiesSnapshotDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, "g/a/1.0-SNAPSHOT/a-1.0-20231201.120000-1.jar")

	got := collect(t, New(root))
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].Classification != maven.Snapshot {
		t.Errorf("classification = %v, want snapshot", got[0].Classification)
	}
}

func TestRunRejectsMissingRoot(t *testing.T) {
	t.Parallel()

	s := New(filepath.Join(t.TempDir(), "nope"))
	if err := s.Run(func(CandidateFile) {}); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestRunRejectsFileRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	file := filepath.Join(root, "plain.jar")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := New(file).Run(func(CandidateFile) {}); err == nil {
		t.Error("expected error for non-directory root")
	}
}

func TestScanIndexIsMonotonic(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root,
		"g/a/1.0/a-1.0.jar",
		"g/a/2.0/a-2.0.jar",
		"g/b/1.0/b-1.0.jar",
	)

	prev := -1
	for _, c := range collect(t, New(root)) {
		if c.ScanIndex <= prev {
			t.Errorf("scan index %d not monotonic after %d", c.ScanIndex, prev)
		}
		prev = c.ScanIndex
	}
}
