// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"repub-cli/internal/issue"
	"repub-cli/internal/publish"
)

const (
	// AppName is the application name, used for the config directory.
	AppName = "repub"
	// ConfigFileName is the config file name inside the config directory.
	ConfigFileName = "config.cue"
	// LocalConfigFileName is the config file name looked up in the working
	// directory when the config directory holds none.
	LocalConfigFileName = "repub.cue"

	// maxConfigFileSize bounds config file reads (1 MB).
	maxConfigFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// Sentinel errors for the distinct configuration failures. The CLI maps
// these to issue catalog cards via errors.Is.
var (
	ErrRootMissing   = errors.New("scan root does not exist or is not a directory")
	ErrTargetMissing = errors.New("target repository is not fully configured")
	ErrBadParallel   = errors.New("concurrency limit must be a positive integer")
)

type (
	// Target is one remote repository endpoint.
	Target struct {
		URL string `mapstructure:"url"`
		ID  string `mapstructure:"id"`
	}

	// Fetch configures the source repository for `repub fetch`.
	Fetch struct {
		URL        string `mapstructure:"url"`
		Repository string `mapstructure:"repository"`
		User       string `mapstructure:"user"`
	}

	// Config is the effective run configuration after merging defaults,
	// the config file, and flag overrides.
	Config struct {
		Root      string `mapstructure:"root"`
		Releases  Target `mapstructure:"releases"`
		Snapshots Target `mapstructure:"snapshots"`
		Settings  string `mapstructure:"settings"`
		Parallel  int    `mapstructure:"parallel"`
		Live      bool   `mapstructure:"live"`
		Fetch     Fetch  `mapstructure:"fetch"`
	}
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Parallel: publish.DefaultWorkers,
		Fetch:    Fetch{Repository: "maven-releases"},
	}
}

// ConfigDir returns the repub configuration directory using the platform's
// conventions: %APPDATA% on Windows, ~/Library/Application Support on macOS,
// $XDG_CONFIG_HOME (default ~/.config) elsewhere.
func ConfigDir() (string, error) {
	var dir string
	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, "Library", "Application Support")
	default:
		dir = os.Getenv("XDG_CONFIG_HOME")
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			dir = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(dir, AppName), nil
}

// Load builds the configuration from defaults and, when present, a CUE
// config file. An explicit path is used exclusively; otherwise the config
// directory and then the working directory are consulted. A missing file is
// not an error.
func Load(explicitPath string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("parallel", defaults.Parallel)
	v.SetDefault("live", defaults.Live)
	v.SetDefault("fetch.repository", defaults.Fetch.Repository)

	path, err := resolveConfigPath(explicitPath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := mergeCUEFile(v, path); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check the file for CUE syntax errors").
				WithSuggestion("Compare against the schema shown by 'repub config show'").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// resolveConfigPath picks the config file to read. Returns "" when none
// exists and none was demanded explicitly.
func resolveConfigPath(explicitPath string) (string, error) {
	if explicitPath != "" {
		if !fileExists(explicitPath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(explicitPath).
				WithSuggestion("Verify the file path is correct").
				Wrap(fmt.Errorf("config file not found: %s", explicitPath)).
				BuildError()
		}
		return explicitPath, nil
	}

	if dir, err := ConfigDir(); err == nil {
		p := filepath.Join(dir, ConfigFileName)
		if fileExists(p) {
			return p, nil
		}
	}
	if fileExists(LocalConfigFileName) {
		return LocalConfigFileName, nil
	}
	return "", nil
}

// Validate checks the constraints a run needs before scanning starts. Every
// violation is fatal and wrapped as an ActionableError around one of the
// sentinel errors.
func (c *Config) Validate() error {
	info, err := os.Stat(c.Root)
	if c.Root == "" || err != nil || !info.IsDir() {
		return issue.NewErrorContext().
			WithOperation("validate run configuration").
			WithResource(c.Root).
			WithSuggestion("Pass an existing directory via --root").
			WithSuggestion("Fetch a tree first with 'repub fetch'").
			Wrap(ErrRootMissing).
			BuildError()
	}

	for _, t := range []struct {
		name   string
		target Target
	}{
		{"releases", c.Releases},
		{"snapshots", c.Snapshots},
	} {
		if t.target.URL == "" || t.target.ID == "" {
			return issue.NewErrorContext().
				WithOperation("validate run configuration").
				WithResource(t.name).
				WithSuggestion(fmt.Sprintf("Set --%s-url and --%s-id", t.name, t.name)).
				WithSuggestion("Or configure the target in your config file").
				Wrap(ErrTargetMissing).
				BuildError()
		}
	}

	if c.Parallel <= 0 {
		return issue.NewErrorContext().
			WithOperation("validate run configuration").
			WithResource(fmt.Sprintf("--parallel=%d", c.Parallel)).
			WithSuggestion("Use a positive integer (default 4)").
			Wrap(ErrBadParallel).
			BuildError()
	}
	return nil
}

// Routing converts the configured targets to the publisher's routing pair.
func (c *Config) Routing() publish.Routing {
	return publish.Routing{
		Releases:  publish.Target{URL: c.Releases.URL, ID: c.Releases.ID},
		Snapshots: publish.Target{URL: c.Snapshots.URL, ID: c.Snapshots.ID},
	}
}

// mergeCUEFile parses a CUE file, validates it against the embedded #Config
// schema, and merges its contents into Viper so later flag overrides win.
func mergeCUEFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigFileSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			path, len(data), maxConfigFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}
	return v.MergeConfigMap(configMap)
}

// fileExists reports whether path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
