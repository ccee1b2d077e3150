package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMatchesSVPattern(t *testing.T) {
	tests := []struct {
		line    string
		matches bool
	}{
		{".sv", true},
		{".sv/", true},
		{".sv/*", true},
		{".sv/**", true},
		{"/.sv", true},
		{"/.sv/", true},

		{"", false},
		{"#.sv", false},
		{".sv2", false},
		{".svg", false},
		{"sv/", false},
		{".sv-backup", false},
		{"*.sv", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := matchesSVPattern(tt.line)
			if got != tt.matches {
				t.Errorf("matchesSVPattern(%q) = %v, want %v", tt.line, got, tt.matches)
			}
		})
	}
}

func TestIsSVInGitignore(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected bool
	}{
		{name: "empty file", content: "", expected: false},
		{name: "has .sv", content: "node_modules/\n.sv\n*.log\n", expected: true},
		{name: "has .sv/", content: ".sv/\n", expected: true},
		{name: "commented out", content: "# .sv/\n", expected: false},
		{name: "similar but not matching", content: ".sv2/\n.svg\nsv/\n", expected: false},
		{name: "with whitespace", content: "  .sv/  \n", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			gitignorePath := filepath.Join(tmpDir, ".gitignore")

			if err := os.WriteFile(gitignorePath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test file: %v", err)
			}

			got, err := isSVInGitignore(gitignorePath)
			if err != nil {
				t.Fatalf("isSVInGitignore() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("isSVInGitignore() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestEnsureSVInGitignore(t *testing.T) {
	t.Run("creates gitignore if not exists", func(t *testing.T) {
		tmpDir := t.TempDir()

		if err := EnsureSVInGitignore(tmpDir); err != nil {
			t.Fatalf("EnsureSVInGitignore() error = %v", err)
		}

		content, err := os.ReadFile(filepath.Join(tmpDir, ".gitignore"))
		if err != nil {
			t.Fatalf("failed to read .gitignore: %v", err)
		}

		if !strings.Contains(string(content), ".sv/") {
			t.Errorf("expected .sv/ in .gitignore, got:\n%s", content)
		}
	})

	t.Run("adds to existing gitignore", func(t *testing.T) {
		tmpDir := t.TempDir()
		gitignorePath := filepath.Join(tmpDir, ".gitignore")

		if err := os.WriteFile(gitignorePath, []byte("node_modules/\n"), 0644); err != nil {
			t.Fatalf("failed to write .gitignore: %v", err)
		}

		if err := EnsureSVInGitignore(tmpDir); err != nil {
			t.Fatalf("EnsureSVInGitignore() error = %v", err)
		}

		content, err := os.ReadFile(gitignorePath)
		if err != nil {
			t.Fatalf("failed to read .gitignore: %v", err)
		}

		if !strings.Contains(string(content), "node_modules/") {
			t.Error("existing content was lost")
		}
		if !strings.Contains(string(content), ".sv/") {
			t.Errorf("expected .sv/ in .gitignore, got:\n%s", content)
		}
	})

	t.Run("idempotent - doesn't duplicate", func(t *testing.T) {
		tmpDir := t.TempDir()
		gitignorePath := filepath.Join(tmpDir, ".gitignore")

		if err := os.WriteFile(gitignorePath, []byte(".sv/\n"), 0644); err != nil {
			t.Fatalf("failed to write .gitignore: %v", err)
		}

		if err := EnsureSVInGitignore(tmpDir); err != nil {
			t.Fatalf("EnsureSVInGitignore() error = %v", err)
		}

		content, err := os.ReadFile(gitignorePath)
		if err != nil {
			t.Fatalf("failed to read .gitignore: %v", err)
		}

		count := strings.Count(string(content), ".sv/")
		if count != 1 {
			t.Errorf("expected exactly 1 occurrence of .sv/, got %d:\n%s", count, content)
		}
	})

	t.Run("recognizes existing .sv pattern", func(t *testing.T) {
		tmpDir := t.TempDir()
		gitignorePath := filepath.Join(tmpDir, ".gitignore")

		if err := os.WriteFile(gitignorePath, []byte(".sv\n"), 0644); err != nil {
			t.Fatalf("failed to write .gitignore: %v", err)
		}

		if err := EnsureSVInGitignore(tmpDir); err != nil {
			t.Fatalf("EnsureSVInGitignore() error = %v", err)
		}

		content, err := os.ReadFile(gitignorePath)
		if err != nil {
			t.Fatalf("failed to read .gitignore: %v", err)
		}

		if strings.Contains(string(content), "# sv local state") {
			t.Errorf("should not add when .sv already present, got:\n%s", content)
		}
	})
}
