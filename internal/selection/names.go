// SPDX-License-Identifier: MPL-2.0

package selection

import (
	"path/filepath"
	"strings"
)

// baseName returns the bare filename of a candidate path.
func baseName(path string) string {
	return filepath.Base(path)
}

// descriptorName returns the descriptor filename that pairs with a primary
// artifact: the primary's filename with its extension replaced by .pom.
func descriptorName(primaryPath string) string {
	name := baseName(primaryPath)
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".pom"
}
