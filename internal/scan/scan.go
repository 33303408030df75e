// SPDX-License-Identifier: MPL-2.0

// Package scan walks a local repository tree and yields the candidate files
// eligible for publishing. Filtering is purely syntactic (filename-based);
// file contents are never opened.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"repub-cli/pkg/maven"
)

// Role distinguishes the main binary of a coordinate from its metadata
// companion.
type Role int

const (
	// RolePrimary is the main binary/package file (jar, war, ear).
	RolePrimary Role = iota
	// RoleDescriptor is the pom metadata companion.
	RoleDescriptor
)

// String returns the role label used in logs.
func (r Role) String() string {
	if r == RoleDescriptor {
		return "descriptor"
	}
	return "primary"
}

// CandidateFile is one discovered artifact file. It is produced once per
// file and read-only thereafter.
type CandidateFile struct {
	Path           string
	Ext            string // extension without the dot
	Coordinate     maven.Coordinate
	Classification maven.Classification
	Role           Role
	ModTime        time.Time
	// ScanIndex is the position in scan order, used as the final
	// deterministic tie-break.
	ScanIndex int
}

// artifactExts is the allow-list of publishable package types.
var artifactExts = map[string]Role{
	"jar": RolePrimary,
	"war": RolePrimary,
	"ear": RolePrimary,
	"pom": RoleDescriptor,
}

// excludedSuffixes are checksum, signature, and repository bookkeeping files
// that sit next to artifacts in a deployed tree.
var excludedSuffixes = []string{
	".md5", ".sha1", ".sha256", ".sha512", ".asc", ".lastUpdated",
}

// metadataPrefix marks generated repository metadata files.
const metadataPrefix = "maven-metadata"

// companionInfixes mark source and documentation companion artifacts, which
// are not republished.
var companionInfixes = []string{"-sources.", "-javadoc."}

// Scanner walks a root directory once and yields candidate files. It is not
// restartable: one Run per scan.
type Scanner struct {
	Root string

	skipped int
	index   int
}

// New returns a scanner over the given root directory.
func New(root string) *Scanner {
	return &Scanner{Root: root}
}

// Skipped returns the number of files rejected by the allow-list or an
// exclusion rule so far.
func (s *Scanner) Skipped() int { return s.skipped }

// Run walks the tree and invokes yield for every candidate file, in
// directory walk order. Files failing the allow-list or matching an
// exclusion rule increment the skipped counter and are not yielded.
// Unreadable subtrees are skipped rather than failing the scan.
func (s *Scanner) Run(yield func(CandidateFile)) error {
	info, err := os.Stat(s.Root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "scan", Path: s.Root, Err: fs.ErrInvalid}
	}

	return filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}

		role, ok := classifyFilename(d.Name())
		if !ok {
			s.skipped++
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			s.skipped++
			return nil
		}

		coord := maven.ParseCoordinate(s.Root, path)
		cf := CandidateFile{
			Path:           path,
			Ext:            strings.TrimPrefix(filepath.Ext(path), "."),
			Coordinate:     coord,
			Classification: coord.Classification(),
			Role:           role,
			ModTime:        fi.ModTime(),
			ScanIndex:      s.index,
		}
		s.index++
		yield(cf)
		return nil
	})
}

// classifyFilename applies the allow-list and the exclusion rules to a bare
// filename. It returns the candidate's role and whether the file is a
// candidate at all.
func classifyFilename(name string) (Role, bool) {
	for _, suf := range excludedSuffixes {
		if strings.HasSuffix(name, suf) {
			return 0, false
		}
	}
	if strings.HasPrefix(name, metadataPrefix) {
		return 0, false
	}
	for _, infix := range companionInfixes {
		if strings.Contains(name, infix) {
			return 0, false
		}
	}

	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	role, ok := artifactExts[ext]
	if !ok {
		return 0, false
	}
	return role, true
}
