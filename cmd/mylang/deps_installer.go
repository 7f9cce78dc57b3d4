package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"mylang/interpreter-go/pkg/driver"
)

// dependencyInstaller clones git dependencies into the MYLANG_HOME cache and
// pins them in the lockfile. Path dependencies are walked for their own git
// dependencies but never copied.
type dependencyInstaller struct {
	home       string
	refresh    map[string]bool
	refreshAll bool
}

func newDependencyInstaller(home string) *dependencyInstaller {
	return &dependencyInstaller{home: home}
}

// Install brings every git dependency reachable from manifest into the cache.
// It reports whether lock changed and returns one log line per dependency.
func (d *dependencyInstaller) Install(manifest *driver.Manifest, lock *driver.Lockfile) (bool, []string, error) {
	var logs []string
	visited := map[string]bool{manifest.Dir(): true}
	changed, err := d.install(manifest, lock, visited, &logs)
	return changed, logs, err
}

func (d *dependencyInstaller) install(manifest *driver.Manifest, lock *driver.Lockfile, visited map[string]bool, logs *[]string) (bool, error) {
	changed := false
	names := make([]string, 0, len(manifest.Dependencies))
	for name := range manifest.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := manifest.Dependencies[name]
		var root string
		switch {
		case spec != nil && spec.Path != "":
			root = spec.Path
			if !filepath.IsAbs(root) {
				root = filepath.Join(manifest.Dir(), root)
			}
		case spec.IsGit():
			dir, updated, err := d.installGit(name, spec, lock, logs)
			if err != nil {
				return changed, err
			}
			changed = changed || updated
			root = dir
		default:
			continue
		}
		if visited[root] {
			continue
		}
		visited[root] = true
		nested, err := d.installNested(root, lock, visited, logs)
		if err != nil {
			return changed, fmt.Errorf("dependency %s: %w", name, err)
		}
		changed = changed || nested
	}
	return changed, nil
}

func (d *dependencyInstaller) installNested(root string, lock *driver.Lockfile, visited map[string]bool, logs *[]string) (bool, error) {
	path := filepath.Join(root, driver.ManifestFileName)
	if _, err := os.Stat(path); err != nil {
		return false, nil
	}
	manifest, err := driver.LoadManifest(path)
	if err != nil {
		return false, err
	}
	return d.install(manifest, lock, visited, logs)
}

func (d *dependencyInstaller) installGit(name string, spec *driver.DependencySpec, lock *driver.Lockfile, logs *[]string) (string, bool, error) {
	url := strings.TrimSpace(spec.Git)
	source := "git+" + url
	locked, ok := lock.Find(name)
	if ok && locked.Source == source && !d.refreshAll && !d.refresh[name] {
		dir := driver.GitCheckoutDir(d.home, name, locked.Version)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			*logs = append(*logs, fmt.Sprintf("using %s %s", name, locked.Version))
			return dir, false, nil
		}
		// The lockfile pins a commit that is not in the cache yet.
		spec = &driver.DependencySpec{Git: spec.Git, Rev: locked.Commit}
	}

	version, commit, err := ensureGitCheckout(driver.GitCacheDir(d.home, name), url, spec)
	if err != nil {
		return "", false, fmt.Errorf("dependency %s: %w", name, err)
	}
	dir := driver.GitCheckoutDir(d.home, name, version)
	checksum, err := dirChecksum(dir)
	if err != nil {
		return "", false, fmt.Errorf("dependency %s: %w", name, err)
	}
	pkg := &driver.LockedPackage{
		Name:     name,
		Version:  version,
		Source:   source,
		Commit:   commit,
		Checksum: checksum,
	}
	if ok && locked.Version == pkg.Version && locked.Commit == pkg.Commit && locked.Source == pkg.Source {
		*logs = append(*logs, fmt.Sprintf("using %s %s", name, version))
		return dir, false, nil
	}
	lock.Upsert(pkg)
	*logs = append(*logs, fmt.Sprintf("locked %s %s (%s)", name, version, commit))
	return dir, true, nil
}

// ensureGitCheckout clones url into a temporary directory under baseDir,
// checks out the requested revision and renames the tree into place. It
// returns the pinned version and the resolved commit.
func ensureGitCheckout(baseDir, url string, spec *driver.DependencySpec) (string, string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", err
	}

	revision, descriptor, err := gitRevisionFromSpec(spec)
	if err != nil {
		return "", "", err
	}

	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		existing := filepath.Join(baseDir, driver.SanitizePathSegment(rev))
		if _, err := os.Stat(existing); err == nil {
			return rev, rev, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL:               url,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("resolve revision %s: %w", descriptor, err)
	}

	version := gitPinnedVersion(descriptor, hash.String())
	targetDir := filepath.Join(baseDir, driver.SanitizePathSegment(version))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return version, hash.String(), nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git checkout %s: %w", descriptor, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	return version, hash.String(), nil
}

func gitPinnedVersion(descriptor, commit string) string {
	commit = strings.TrimSpace(commit)
	descriptor = strings.TrimSpace(descriptor)
	if commit == "" {
		return descriptor
	}
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return fmt.Sprintf("%s@%s", descriptor, commit)
}

// gitRevisionFromSpec maps rev, tag or branch to a revision that resolves in
// a fresh clone, where branches exist only as remote-tracking refs.
func gitRevisionFromSpec(spec *driver.DependencySpec) (plumbing.Revision, string, error) {
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		return plumbing.Revision(rev), rev, nil
	}
	if tag := strings.TrimSpace(spec.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), tag, nil
	}
	if branch := strings.TrimSpace(spec.Branch); branch != "" {
		return plumbing.Revision("refs/remotes/origin/" + branch), branch, nil
	}
	return "", "", fmt.Errorf("git dependencies require rev, tag, or branch")
}

func dirChecksum(path string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(path, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if entry.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		h.Write([]byte(filepath.ToSlash(rel)))
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
