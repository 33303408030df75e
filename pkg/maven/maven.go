// SPDX-License-Identifier: MPL-2.0

// Package maven defines the coordinate model shared by the scanning,
// selection, and publishing packages: the (group, artifact, version) identity
// derived from a repository tree layout, and the release/snapshot
// classification of a version string.
//
// This package is a leaf dependency: it imports only the standard library.
package maven

import (
	"path/filepath"
	"strings"
)

// SnapshotSuffix is the version suffix that marks a snapshot (pre-release)
// version. The match is exact and case-sensitive.
const SnapshotSuffix = "-SNAPSHOT"

type (
	// Coordinate is the logical identity of an artifact, derived solely from
	// its position in a repository tree (groupPath/artifactId/version/file).
	// It is never read from file content.
	Coordinate struct {
		GroupID    string
		ArtifactID string
		Version    string
	}

	// Classification labels a version string as a release or a snapshot.
	// It is a pure function of the version and is computed once per
	// coordinate, never per file.
	Classification int
)

const (
	// Release is an immutable version routed to the release repository.
	Release Classification = iota
	// Snapshot is a mutable, iterative version routed to the snapshot
	// repository.
	Snapshot
)

// String returns the lowercase classification label used in logs and
// dry-run output.
func (c Classification) String() string {
	if c == Snapshot {
		return "snapshot"
	}
	return "release"
}

// Classify returns Snapshot iff version ends with the literal "-SNAPSHOT"
// marker; every other version, including the empty string, is a Release.
func Classify(version string) Classification {
	if strings.HasSuffix(version, SnapshotSuffix) {
		return Snapshot
	}
	return Release
}

// Classification returns the classification derived from the coordinate's
// version.
func (c Coordinate) Classification() Classification {
	return Classify(c.Version)
}

// String renders the coordinate in the conventional group:artifact:version
// form.
func (c Coordinate) String() string {
	return c.GroupID + ":" + c.ArtifactID + ":" + c.Version
}

// ParseCoordinate derives a coordinate from a file path relative to the scan
// root. The three path segments immediately above the file are interpreted as
// version, artifact, and group path; the group path's separators are replaced
// by dots.
//
// Example: root/com/example/app/1.0.0/app-1.0.0.jar yields
// {com.example, app, 1.0.0}.
//
// No Maven coordinate syntax is validated; a malformed tree yields a
// malformed coordinate. Paths shallower than four segments yield a
// coordinate with empty fields for the missing segments. The function is
// pure and never fails.
func ParseCoordinate(root, path string) Coordinate {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	segs := strings.Split(filepath.ToSlash(rel), "/")

	var coord Coordinate
	if len(segs) >= 2 {
		coord.Version = segs[len(segs)-2]
	}
	if len(segs) >= 3 {
		coord.ArtifactID = segs[len(segs)-3]
	}
	if len(segs) >= 4 {
		coord.GroupID = strings.Join(segs[:len(segs)-3], ".")
	}
	return coord
}
