package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const gitignoreContent = `# EcoSort project-local data (auto-generated)
# config.yaml is tracked; logs and generated catalogs are not.
logs/
*.log
generated/
`

// GitignoreContent returns the .gitignore written into project .ecosort
// directories.
func GitignoreContent() string {
	return gitignoreContent
}

// EnsureGitignore writes dir/.gitignore unless one exists. It reports
// whether a file was created and never overwrites.
func EnsureGitignore(dir string) (bool, error) {
	path := filepath.Join(dir, ".gitignore")

	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking .gitignore at %s: %w", path, err)
	}

	if err = os.MkdirAll(dir, 0o750); err != nil {
		return false, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	//nolint:gosec // .gitignore is meant to be world-readable.
	if err = os.WriteFile(path, []byte(gitignoreContent), 0o644); err != nil {
		return false, fmt.Errorf("writing .gitignore at %s: %w", path, err)
	}
	return true, nil
}
