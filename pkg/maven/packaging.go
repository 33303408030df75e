// SPDX-License-Identifier: MPL-2.0

package maven

import (
	"path/filepath"
	"strings"
)

// Packaging derives the Maven packaging type from an artifact filename's
// extension ("jar", "war", "ear", "pom"). Unknown extensions fall back to
// "jar", matching mvn's own default.
func Packaging(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	switch ext {
	case "jar", "war", "ear", "pom":
		return ext
	default:
		return "jar"
	}
}
