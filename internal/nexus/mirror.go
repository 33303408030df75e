// SPDX-License-Identifier: MPL-2.0

package nexus

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"repub-cli/pkg/maven"
)

// fetchExtensions are the asset types mirrored per groupId.
var fetchExtensions = []string{"jar", "pom"}

// MirrorStats summarizes a fetch run.
type MirrorStats struct {
	Found      int // assets matched by the search, before snapshot filtering
	Filtered   int // stale snapshot builds dropped before download
	Downloaded int
	Existing   int // already present locally, not re-downloaded
	Skipped    int // missing on the remote (404)
	Failed     int
}

// Mirror downloads every jar and pom asset of groupID into destDir,
// preserving the repository path layout. For snapshot versions only the
// newest timestamped build of each coordinate is fetched. Files already
// present locally are kept as-is.
func (c *Client) Mirror(ctx context.Context, groupID, destDir string, logger *log.Logger) (MirrorStats, error) {
	if logger == nil {
		logger = log.Default()
	}

	var assets []Asset
	for _, ext := range fetchExtensions {
		found, err := c.SearchAssets(ctx, groupID, ext)
		if err != nil {
			return MirrorStats{}, err
		}
		logger.Info("search complete", "extension", ext, "assets", len(found))
		assets = append(assets, found...)
	}

	stats := MirrorStats{Found: len(assets)}
	kept := FilterLatestSnapshots(assets)
	stats.Filtered = len(assets) - len(kept)
	if stats.Filtered > 0 {
		logger.Info("dropped stale snapshot builds", "count", stats.Filtered)
	}

	for _, asset := range kept {
		destPath := filepath.Join(destDir, filepath.FromSlash(asset.Path))
		if _, err := os.Stat(destPath); err == nil {
			stats.Existing++
			continue
		}

		logger.Debug("downloading", "path", asset.Path)
		switch err := c.Download(ctx, asset, destPath); {
		case err == nil:
			stats.Downloaded++
		case errors.Is(err, ErrNotFound):
			logger.Warn("asset missing on remote", "path", asset.Path)
			stats.Skipped++
		default:
			logger.Error("download failed", "path", asset.Path, "err", err)
			stats.Failed++
		}
	}
	return stats, nil
}

// FilterLatestSnapshots drops all but the newest timestamped build of each
// snapshot coordinate. Assets without a timestamped build suffix (release
// files and plain -SNAPSHOT files) are always kept. The filter is keyed on
// the base snapshot version, so a coordinate's jar, pom, and classifier
// files of the winning build survive together.
func FilterLatestSnapshots(assets []Asset) []Asset {
	latest := make(map[string]string) // coordinate key -> newest stamp key

	for _, a := range assets {
		if !isSnapshotPath(a.Path) {
			continue
		}
		stamp, ok := maven.ParseSnapshotStamp(path.Base(a.Path))
		if !ok {
			continue
		}
		key := coordinateKey(a.Path)
		if stamp.Key() > latest[key] {
			latest[key] = stamp.Key()
		}
	}

	kept := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if !isSnapshotPath(a.Path) {
			kept = append(kept, a)
			continue
		}
		stamp, ok := maven.ParseSnapshotStamp(path.Base(a.Path))
		if !ok || stamp.Key() == latest[coordinateKey(a.Path)] {
			kept = append(kept, a)
		}
	}
	return kept
}

// isSnapshotPath reports whether a repository path belongs to a snapshot
// version, either by its -SNAPSHOT directory or a timestamped filename.
func isSnapshotPath(p string) bool {
	if strings.Contains(p, maven.SnapshotSuffix) {
		return true
	}
	_, ok := maven.ParseSnapshotStamp(path.Base(p))
	return ok
}

// coordinateKey groups a snapshot asset's files under their base version:
// groupPath/artifactId/baseVersion.
func coordinateKey(p string) string {
	dir, _ := path.Split(p)
	dir = strings.TrimRight(dir, "/")
	parent, version := path.Split(dir)
	return strings.TrimRight(parent, "/") + "/" + maven.BaseVersion(version)
}
