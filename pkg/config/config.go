// Package config loads the viewer configuration (.sv/config.yaml) and
// discovers OBJ files under the configured scan paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigDirName is the per-project directory holding viewer state.
const ConfigDirName = ".sv"

// Config represents the viewer configuration file (.sv/config.yaml).
type Config struct {
	// Name is the display name shown in the outliner header.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Discovery configures scanning for OBJ files.
	Discovery DiscoveryConfig `yaml:"discovery,omitempty" json:"discovery,omitempty"`

	// Watch enables re-importing when the source file changes (default: true).
	Watch *bool `yaml:"watch,omitempty" json:"watch,omitempty"`

	// ExportDir is where snapshot exports are written (default: .sv/exports).
	ExportDir string `yaml:"export_dir,omitempty" json:"export_dir,omitempty"`
}

// DiscoveryConfig controls the OBJ scan.
type DiscoveryConfig struct {
	// ScanPaths are directories to search; default is the current directory.
	ScanPaths []string `yaml:"scan_paths,omitempty" json:"scan_paths,omitempty"`

	// MaxDepth limits directory traversal depth (default: 3).
	MaxDepth int `yaml:"max_depth,omitempty" json:"max_depth,omitempty"`
}

// WatchEnabled resolves the Watch pointer against its default.
func (c Config) WatchEnabled() bool {
	if c.Watch == nil {
		return true
	}
	return *c.Watch
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Discovery: DiscoveryConfig{ScanPaths: []string{"."}, MaxDepth: 3},
		ExportDir: filepath.Join(ConfigDirName, "exports"),
	}
}

// Path returns the config file path under projectDir.
func Path(projectDir string) string {
	return filepath.Join(projectDir, ConfigDirName, "config.yaml")
}

// Load reads the config file under projectDir. A missing file yields the
// defaults; a malformed file is an error, not a silent fallback.
func Load(projectDir string) (Config, error) {
	data, err := os.ReadFile(Path(projectDir))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if len(cfg.Discovery.ScanPaths) == 0 {
		cfg.Discovery.ScanPaths = []string{"."}
	}
	if cfg.Discovery.MaxDepth <= 0 {
		cfg.Discovery.MaxDepth = 3
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = filepath.Join(ConfigDirName, "exports")
	}
	return cfg, nil
}

// Save writes the config file, creating the .sv directory if needed.
func Save(projectDir string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	path := Path(projectDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DiscoverOBJFiles walks each scan path up to MaxDepth levels deep and
// returns all .obj files found, in walk order. Hidden directories are
// skipped.
func DiscoverOBJFiles(cfg Config, projectDir string) []string {
	var results []string
	seen := make(map[string]bool)

	for _, scanPath := range cfg.Discovery.ScanPaths {
		root := scanPath
		if !filepath.IsAbs(root) {
			root = filepath.Join(projectDir, root)
		}
		root = expandHome(root)

		rootDepth := strings.Count(filepath.Clean(root), string(filepath.Separator))

		_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return filepath.SkipDir
			}

			if d.IsDir() {
				depth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - rootDepth
				if depth > cfg.Discovery.MaxDepth {
					return filepath.SkipDir
				}
				if name := d.Name(); strings.HasPrefix(name, ".") && filepath.Clean(path) != filepath.Clean(root) {
					return filepath.SkipDir
				}
				return nil
			}

			if strings.EqualFold(filepath.Ext(path), ".obj") && !seen[path] {
				seen[path] = true
				results = append(results, path)
			}
			return nil
		})
	}

	return results
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// DetectProjectDir walks up from the working directory looking for an
// existing .sv directory; it falls back to the working directory itself.
func DetectProjectDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	home, _ := os.UserHomeDir()

	probe := dir
	for {
		if info, err := os.Stat(filepath.Join(probe, ConfigDirName)); err == nil && info.IsDir() {
			return probe
		}
		parent := filepath.Dir(probe)
		if parent == probe || (home != "" && probe == home) {
			break
		}
		probe = parent
	}
	return dir
}
