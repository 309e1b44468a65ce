// Package app locates fitz's on-disk state.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	dirName = "fitz"
	dbName  = "fitz.db"
	dirPerm = 0o700
)

// DBPath returns the first non-empty candidate (with a leading ~ expanded),
// else $XDG_CONFIG_HOME/fitz/fitz.db, else the OS user config directory.
func DBPath(candidates ...string) (string, error) {
	for _, p := range candidates {
		if p = strings.TrimSpace(p); p != "" {
			return expandHome(p)
		}
	}
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, dirName, dbName), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, dirName, dbName), nil
}

// PrepareDir creates the directory holding path. It is owner-only since the
// database stores the session token.
func PrepareDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	return nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", p, err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
