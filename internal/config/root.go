package config

import (
	"os"
	"path/filepath"
)

// FindConfig walks up from the working directory looking for FileName and
// returns the first match, or "" when there is none.
func FindConfig() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findConfigFrom(cwd), nil
}

func findConfigFrom(dir string) string {
	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		// Also accept the repo layout input/artifact_optimizer/optimizer_config.yaml.
		p = filepath.Join(dir, "input", "artifact_optimizer", FileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
