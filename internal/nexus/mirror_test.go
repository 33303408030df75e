// SPDX-License-Identifier: MPL-2.0

package nexus

import "testing"

func asset(path string) Asset {
	return Asset{Path: path, DownloadURL: "https://nexus.example.com/" + path}
}

func paths(assets []Asset) map[string]bool {
	out := make(map[string]bool, len(assets))
	for _, a := range assets {
		out[a.Path] = true
	}
	return out
}

func TestFilterLatestSnapshotsKeepsNewestBuild(t *testing.T) {
	t.Parallel()

	in := []Asset{
		asset("com/x/lib/1.0-SNAPSHOT/lib-1.0-20230101.100000-1.jar"),
		asset("com/x/lib/1.0-SNAPSHOT/lib-1.0-20230101.100000-1.pom"),
		asset("com/x/lib/1.0-SNAPSHOT/lib-1.0-20230102.090000-2.jar"),
		asset("com/x/lib/1.0-SNAPSHOT/lib-1.0-20230102.090000-2.pom"),
	}

	got := paths(FilterLatestSnapshots(in))
	if len(got) != 2 {
		t.Fatalf("kept %d assets, want 2: %v", len(got), got)
	}
	if !got["com/x/lib/1.0-SNAPSHOT/lib-1.0-20230102.090000-2.jar"] ||
		!got["com/x/lib/1.0-SNAPSHOT/lib-1.0-20230102.090000-2.pom"] {
		t.Errorf("newest build not kept together: %v", got)
	}
}

func TestFilterLatestSnapshotsKeepsReleasesAndStamplessFiles(t *testing.T) {
	t.Parallel()

	in := []Asset{
		asset("com/x/lib/1.0.0/lib-1.0.0.jar"),
		asset("com/x/lib/1.0-SNAPSHOT/maven-metadata.xml"),
		asset("com/x/lib/1.0-SNAPSHOT/lib-1.0-20230101.100000-1.jar"),
	}

	got := paths(FilterLatestSnapshots(in))
	for p := range paths(in) {
		if !got[p] {
			t.Errorf("asset %s dropped, want kept", p)
		}
	}
}

func TestFilterLatestSnapshotsIsPerCoordinate(t *testing.T) {
	t.Parallel()

	in := []Asset{
		asset("com/x/a/1.0-SNAPSHOT/a-1.0-20230101.100000-1.jar"),
		asset("com/x/a/1.0-SNAPSHOT/a-1.0-20230102.100000-2.jar"),
		asset("com/x/b/2.0-SNAPSHOT/b-2.0-20220505.050505-7.jar"),
	}

	got := paths(FilterLatestSnapshots(in))
	if !got["com/x/a/1.0-SNAPSHOT/a-1.0-20230102.100000-2.jar"] {
		t.Error("newest build of a dropped")
	}
	if got["com/x/a/1.0-SNAPSHOT/a-1.0-20230101.100000-1.jar"] {
		t.Error("stale build of a kept")
	}
	if !got["com/x/b/2.0-SNAPSHOT/b-2.0-20220505.050505-7.jar"] {
		t.Error("sole build of b dropped; filtering must be per coordinate")
	}
}

func TestCoordinateKeyNormalizesTimestampedVersionDirs(t *testing.T) {
	t.Parallel()

	a := coordinateKey("com/x/lib/1.0-SNAPSHOT/lib-1.0-20230101.100000-1.jar")
	b := coordinateKey("com/x/lib/1.0-20230102.090000-2/lib-1.0-20230102.090000-2.jar")
	if a != b {
		t.Errorf("keys differ: %q vs %q", a, b)
	}
}
