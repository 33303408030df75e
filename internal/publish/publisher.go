// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Publisher executes one resolved publish request against a remote
// repository. Implementations must be safe for concurrent use: the
// orchestrator calls Publish from multiple workers.
type Publisher interface {
	Publish(ctx context.Context, task Task) error
}

// MavenDeploy publishes artifacts by running `mvn deploy:deploy-file` as an
// external process with typed arguments. No shell is involved: arguments are
// passed structurally, so paths and coordinates are never re-parsed by a
// command interpreter.
type MavenDeploy struct {
	// Binary overrides the mvn executable name; defaults to "mvn" resolved
	// on PATH.
	Binary string
}

// NewMavenDeploy returns a publisher that shells out to mvn.
func NewMavenDeploy() *MavenDeploy {
	return &MavenDeploy{}
}

// Available reports whether the mvn executable can be resolved.
func (m *MavenDeploy) Available() bool {
	_, err := exec.LookPath(m.binary())
	return err == nil
}

func (m *MavenDeploy) binary() string {
	if m.Binary != "" {
		return m.Binary
	}
	return "mvn"
}

// Publish runs deploy:deploy-file for the task. A non-zero mvn exit status
// is returned as an error carrying the tail of the captured output.
func (m *MavenDeploy) Publish(ctx context.Context, task Task) error {
	cmd := exec.CommandContext(ctx, m.binary(), m.Args(task)...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("mvn deploy:deploy-file exited %d for %s: %s",
				exitErr.ExitCode(), task.Coordinate, outputTail(out.String(), 12))
		}
		return fmt.Errorf("failed to run mvn for %s: %w", task.Coordinate, err)
	}
	return nil
}

// Args builds the structured mvn argument list for a task. Exposed so the
// dry-run renderer and tests describe exactly what a live run would execute.
func (m *MavenDeploy) Args(task Task) []string {
	args := []string{
		"--batch-mode",
		"deploy:deploy-file",
		"-Durl=" + task.Repo.URL,
		"-DrepositoryId=" + task.Repo.ID,
		"-DgroupId=" + task.Coordinate.GroupID,
		"-DartifactId=" + task.Coordinate.ArtifactID,
		"-Dversion=" + task.Coordinate.Version,
		"-Dpackaging=" + task.Packaging,
		"-Dfile=" + task.PrimaryPath,
	}
	if task.DescriptorPath != "" {
		args = append(args, "-DpomFile="+task.DescriptorPath)
	} else {
		// Without a pom, stop mvn from synthesizing and uploading one that
		// would shadow a descriptor published later.
		args = append(args, "-DgeneratePom="+generatePomFor(task))
	}
	if task.SettingsPath != "" {
		args = append(args, "-s", task.SettingsPath)
	}
	return args
}

// generatePomFor decides the -DgeneratePom value for unpaired tasks. A
// promoted descriptor is itself the pom, so nothing extra is generated;
// an unpaired binary still needs a minimal generated pom to be installable.
func generatePomFor(task Task) string {
	if task.Packaging == "pom" {
		return "false"
	}
	return "true"
}

// outputTail returns the last n lines of captured process output.
func outputTail(out string, n int) string {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
