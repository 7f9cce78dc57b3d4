package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// EnvHome overrides the dependency cache root (default ~/.mylang).
	EnvHome = "MYLANG_HOME"
	// EnvPath lists extra library roots, separated like PATH.
	EnvPath = "MYLANG_PATH"
)

// DefaultHome resolves the dependency cache root.
func DefaultHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv(EnvHome)); home != "" {
		return filepath.Abs(home)
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(userHome, ".mylang"), nil
}

// SearchPathsFromEnv splits MYLANG_PATH into directories.
func SearchPathsFromEnv() []string {
	return splitPathList(os.Getenv(EnvPath))
}

func splitPathList(value string) []string {
	if value == "" {
		return nil
	}
	raw := strings.Split(value, string(os.PathListSeparator))
	out := make([]string, 0, len(raw))
	for _, part := range raw {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// GitCheckoutDir is where a pinned git dependency lives inside home.
func GitCheckoutDir(home, name, version string) string {
	return filepath.Join(GitCacheDir(home, name), SanitizePathSegment(version))
}

// GitCacheDir holds every checkout of one dependency.
func GitCacheDir(home, name string) string {
	return filepath.Join(home, "pkg", "src", sanitizeSegment(name))
}

// SanitizePathSegment maps a version or revision to a directory name.
func SanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func sanitizeSegment(seg string) string {
	seg = strings.TrimSpace(seg)
	seg = strings.ReplaceAll(seg, "-", "_")
	return seg
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
