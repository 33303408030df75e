// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies a known fatal issue with a dedicated markdown card.
type Id int

const (
	RootNotFoundId Id = iota + 1
	TargetRepositoryMissingId
	InvalidConcurrencyId
	MavenNotFoundId
	ConfigLoadFailedId
)

// Issue is a renderable card for a known fatal failure. Cards are shown when
// a run aborts before scanning begins; routine per-task publish failures go
// through statistics instead.
type Issue struct {
	id    Id
	mdMsg string
}

// ID returns the issue identifier.
func (i *Issue) ID() Id { return i.id }

// Render renders the card's markdown with the given glamour style path
// (empty for the auto style).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.mdMsg, stylePath)
}

// render is swappable in tests.
var render = glamour.Render

var (
	rootNotFoundIssue = &Issue{
		id: RootNotFoundId,
		mdMsg: `
# Scan root not found

The directory passed via ` + "`--root`" + ` does not exist or is not a directory.

## Things you can try
- Point --root at a local repository tree laid out as group/artifact/version
- Fetch one first:
~~~
$ repub fetch --url https://nexus.example.com --group com.example
~~~`,
	}

	targetRepositoryMissingIssue = &Issue{
		id: TargetRepositoryMissingId,
		mdMsg: `
# Target repository missing

Both a release and a snapshot target are required: artifacts are routed by
their version (a ` + "`-SNAPSHOT`" + ` suffix selects the snapshot target).

## Things you can try
- Pass all four flags:
~~~
$ repub publish --release-url URL --release-id ID \
    --snapshot-url URL --snapshot-id ID
~~~
- Or set them once in your config file (repub config show)`,
	}

	invalidConcurrencyIssue = &Issue{
		id: InvalidConcurrencyId,
		mdMsg: `
# Invalid concurrency limit

` + "`--parallel`" + ` must be a positive integer (default 4).`,
	}

	mavenNotFoundIssue = &Issue{
		id: MavenNotFoundId,
		mdMsg: `
# Maven executable not found

Live runs publish through ` + "`mvn deploy:deploy-file`" + `, but no mvn was
found on PATH.

## Things you can try
- Install Maven or add it to PATH
- Use --dry-run to inspect the resolved publish requests without Maven`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration file could not be loaded

The config file exists but failed to parse or validate.

## Things you can try
- Check the file for CUE syntax errors
- Compare against the schema printed by:
~~~
$ repub config show
~~~`,
	}

	catalog = []*Issue{
		rootNotFoundIssue,
		targetRepositoryMissingIssue,
		invalidConcurrencyIssue,
		mavenNotFoundIssue,
		configLoadFailedIssue,
	}
)

// Lookup returns the catalog card for an id, or nil when the id is unknown.
func Lookup(id Id) *Issue {
	i := slices.IndexFunc(catalog, func(is *Issue) bool { return is.id == id })
	if i < 0 {
		return nil
	}
	return catalog[i]
}
