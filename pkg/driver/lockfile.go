package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LockfileName is written next to package.yml.
const LockfileName = "package.lock"

// Lockfile is package.lock: the commit every git dependency is pinned to.
type Lockfile struct {
	Path      string           `yaml:"-"`
	Root      string           `yaml:"root"`
	Generated string           `yaml:"generated"`
	Tool      string           `yaml:"tool"`
	Packages  []*LockedPackage `yaml:"packages"`
}

// LockedPackage pins one git dependency. Version names the checkout
// directory under MYLANG_HOME; Commit is the resolved hash.
type LockedPackage struct {
	Name     string `yaml:"name"`
	Version  string `yaml:"version"`
	Source   string `yaml:"source"`
	Commit   string `yaml:"commit"`
	Checksum string `yaml:"checksum"`
}

// NewLockfile starts an empty lockfile for the root package.
func NewLockfile(root, tool string) *Lockfile {
	return &Lockfile{
		Root:      sanitizeSegment(root),
		Generated: time.Now().UTC().Format(time.RFC3339),
		Tool:      strings.TrimSpace(tool),
		Packages:  []*LockedPackage{},
	}
}

// LockfilePath returns the lockfile location for a manifest.
func LockfilePath(manifest *Manifest) string {
	return filepath.Join(manifest.Dir(), LockfileName)
}

// LoadLockfile reads package.lock. A missing file yields the os error
// unchanged so callers can test it with errors.Is(err, fs.ErrNotExist).
func LoadLockfile(path string) (*Lockfile, error) {
	if path == "" {
		return nil, fmt.Errorf("lockfile: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	lock := &Lockfile{}
	if err := decoder.Decode(lock); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", abs, err)
	}
	lock.Path = abs
	lock.normalize()
	return lock, nil
}

// WriteLockfile writes lock to path, or to lock.Path when path is empty.
func WriteLockfile(lock *Lockfile, path string) error {
	if lock == nil {
		return fmt.Errorf("lockfile: nil lockfile")
	}
	if path == "" {
		path = lock.Path
	}
	if path == "" {
		return fmt.Errorf("lockfile: missing path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	if lock.Generated == "" {
		lock.Generated = time.Now().UTC().Format(time.RFC3339)
	}
	lock.Path = abs
	lock.normalize()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(lock); err != nil {
		return fmt.Errorf("lockfile: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("lockfile: marshal %s: %w", abs, err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", abs, err)
	}
	return nil
}

// Find returns the entry for a dependency name. A nil lockfile finds nothing.
func (l *Lockfile) Find(name string) (*LockedPackage, bool) {
	if l == nil {
		return nil, false
	}
	name = sanitizeSegment(name)
	for _, pkg := range l.Packages {
		if pkg.Name == name {
			return pkg, true
		}
	}
	return nil, false
}

// Upsert replaces the entry with the same name or appends pkg.
func (l *Lockfile) Upsert(pkg *LockedPackage) {
	pkg.Name = sanitizeSegment(pkg.Name)
	if existing, ok := l.Find(pkg.Name); ok {
		*existing = *pkg
		return
	}
	l.Packages = append(l.Packages, pkg)
}

// normalize drops empty entries, trims fields and sorts by name so the file
// diffs cleanly.
func (l *Lockfile) normalize() {
	l.Root = sanitizeSegment(l.Root)
	l.Tool = strings.TrimSpace(l.Tool)
	l.Generated = strings.TrimSpace(l.Generated)
	kept := l.Packages[:0]
	for _, pkg := range l.Packages {
		if pkg == nil {
			continue
		}
		pkg.Name = sanitizeSegment(pkg.Name)
		pkg.Version = strings.TrimSpace(pkg.Version)
		pkg.Source = strings.TrimSpace(pkg.Source)
		pkg.Commit = strings.TrimSpace(pkg.Commit)
		pkg.Checksum = strings.TrimSpace(pkg.Checksum)
		kept = append(kept, pkg)
	}
	l.Packages = kept
	sort.SliceStable(l.Packages, func(i, j int) bool {
		return l.Packages[i].Name < l.Packages[j].Name
	})
}
