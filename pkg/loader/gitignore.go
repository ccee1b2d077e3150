package loader

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// EnsureSVInGitignore makes sure .sv/ is listed in the project's
// .gitignore so viewer state (config, tree state, session db, exports)
// stays out of version control.
//
// The function is idempotent: it creates .gitignore when missing, adds
// ".sv/" when no covering pattern exists, and leaves the file alone
// otherwise. Existing content and formatting are preserved.
func EnsureSVInGitignore(projectDir string) error {
	if projectDir == "" {
		var err error
		projectDir, err = os.Getwd()
		if err != nil {
			return err
		}
	}

	gitignorePath := filepath.Join(projectDir, ".gitignore")

	covered, err := isSVInGitignore(gitignorePath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if covered {
		return nil
	}

	return appendToGitignore(gitignorePath, ".sv/")
}

// isSVInGitignore reports whether .sv/ is already covered by the file.
func isSVInGitignore(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if matchesSVPattern(line) {
			return true, nil
		}
	}

	return false, scanner.Err()
}

// matchesSVPattern checks if a gitignore line covers the .sv directory.
func matchesSVPattern(line string) bool {
	normalized := strings.TrimPrefix(line, "/")

	patterns := []string{
		".sv",
		".sv/",
		".sv/*",
		".sv/**",
		".sv/**/*",
	}

	for _, pattern := range patterns {
		if normalized == pattern {
			return true
		}
	}

	return false
}

// appendToGitignore appends a pattern, creating the file if needed and
// keeping a clean separator from existing content.
func appendToGitignore(path string, pattern string) error {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	var toWrite string
	if len(content) == 0 {
		toWrite = "# sv local state and exports\n" + pattern + "\n"
	} else {
		if content[len(content)-1] != '\n' {
			toWrite = "\n"
		}
		toWrite += "\n# sv local state and exports\n" + pattern + "\n"
	}

	if _, err := file.WriteString(toWrite); err != nil {
		return err
	}

	return nil
}
