// SPDX-License-Identifier: MPL-2.0

package maven

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// snapshotStampPattern matches the timestamped build suffix Maven embeds in
// deployed snapshot filenames: <name>-YYYYMMDD.HHMMSS-<build>.<ext>.
var snapshotStampPattern = regexp.MustCompile(`-(\d{8})\.(\d{6})-(\d+)\.`)

// SnapshotStamp is the parsed timestamped-build portion of a deployed
// snapshot filename.
type SnapshotStamp struct {
	Date  string // YYYYMMDD
	Time  string // HHMMSS
	Build int    // build number, starting at 1
}

// Key returns the ordering key for the stamp: concatenated date and time
// digits followed by the zero-padded build number. Later keys compare
// greater under plain string comparison, so "more recently produced" is
// simply the larger key.
func (s SnapshotStamp) Key() string {
	return fmt.Sprintf("%s%s%010d", s.Date, s.Time, s.Build)
}

// String renders the stamp as it appears in filenames.
func (s SnapshotStamp) String() string {
	return fmt.Sprintf("%s.%s-%d", s.Date, s.Time, s.Build)
}

// ParseSnapshotStamp extracts the timestamped build suffix from a deployed
// snapshot filename. The second return value is false when the filename does
// not carry a timestamped build suffix (plain -SNAPSHOT artifacts and all
// release artifacts).
func ParseSnapshotStamp(filename string) (SnapshotStamp, bool) {
	m := snapshotStampPattern.FindStringSubmatch(filename)
	if m == nil {
		return SnapshotStamp{}, false
	}
	build, err := strconv.Atoi(m[3])
	if err != nil {
		// Unreachable for \d+ short of overflow; treat as no stamp.
		return SnapshotStamp{}, false
	}
	return SnapshotStamp{Date: m[1], Time: m[2], Build: build}, true
}

// BaseVersion normalizes a version directory name to its base snapshot
// version: a timestamped deployment version like 1.0-20230101.123456-1
// becomes 1.0-SNAPSHOT, while everything else is returned unchanged.
func BaseVersion(version string) string {
	if strings.Contains(version, SnapshotSuffix) {
		return version
	}
	if m := timestampedVersionPattern.FindStringSubmatch(version); m != nil {
		return m[1] + SnapshotSuffix
	}
	return version
}

// timestampedVersionPattern matches a whole version directory name of the
// form <base>-YYYYMMDD.HHMMSS-<build>.
var timestampedVersionPattern = regexp.MustCompile(`^(.+)-\d{8}\.\d{6}-\d+$`)
