package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"mylang/interpreter-go/pkg/ast"
	"mylang/interpreter-go/pkg/parser"
)

// SourceExt is the extension of MyLang source files.
const SourceExt = ".mylang"

// Module is one parsed source file.
type Module struct {
	Package string
	Path    string
	Source  []byte
	AST     *ast.Program
}

// Program contains the entry module and every module it needs, dependency
// sources first and the entry last.
type Program struct {
	Manifest *Manifest
	Root     string
	Entry    *Module
	Modules  []*Module
}

// LoaderOptions configures dependency resolution. Empty fields fall back to
// MYLANG_HOME and MYLANG_PATH.
type LoaderOptions struct {
	Home        string
	SearchPaths []string
}

// Loader turns an entry file plus its manifest dependencies into a Program.
type Loader struct {
	home        string
	searchPaths []string
}

// NewLoader constructs a loader.
func NewLoader(opts LoaderOptions) (*Loader, error) {
	home := opts.Home
	if home == "" {
		var err error
		if home, err = DefaultHome(); err != nil {
			return nil, err
		}
	}
	searchPaths := opts.SearchPaths
	if searchPaths == nil {
		searchPaths = SearchPathsFromEnv()
	}
	return &Loader{home: home, searchPaths: searchPaths}, nil
}

// Home returns the dependency cache root.
func (l *Loader) Home() string {
	return l.home
}

// ParseFile reads and parses one source file.
func ParseFile(path string) (*Module, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	return ParseSource(path, source)
}

// ParseSource parses source text. The text is normalised to NFC first so
// identifiers and string literals compare the same however they were encoded.
func ParseSource(path string, source []byte) (*Module, error) {
	normalized := norm.NFC.Bytes(source)
	program, err := parser.ParseProgram(normalized)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Module{Path: path, Source: normalized, AST: program}, nil
}

// LoadFile loads entry together with the dependencies declared by the
// nearest package.yml, if any.
func (l *Loader) LoadFile(entry string) (*Program, error) {
	abs, err := filepath.Abs(entry)
	if err != nil {
		return nil, fmt.Errorf("loader: resolve %s: %w", entry, err)
	}
	manifestPath, err := FindManifest(filepath.Dir(abs))
	if err != nil {
		return nil, err
	}
	var manifest *Manifest
	if manifestPath != "" {
		if manifest, err = LoadManifest(manifestPath); err != nil {
			return nil, err
		}
	}
	return l.load(abs, manifest)
}

// LoadTarget loads a manifest target's main file and its dependencies.
func (l *Loader) LoadTarget(manifest *Manifest, target *TargetSpec) (*Program, error) {
	if manifest == nil || target == nil {
		return nil, fmt.Errorf("loader: missing manifest or target")
	}
	entry := target.Main
	if !filepath.IsAbs(entry) {
		entry = filepath.Join(manifest.Dir(), entry)
	}
	return l.load(entry, manifest)
}

func (l *Loader) load(entry string, manifest *Manifest) (*Program, error) {
	program := &Program{Manifest: manifest, Root: filepath.Dir(entry)}
	if manifest != nil {
		program.Root = manifest.Dir()
		var lock *Lockfile
		if loaded, err := LoadLockfile(LockfilePath(manifest)); err == nil {
			lock = loaded
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		visited := map[string]bool{program.Root: true}
		mods, err := l.loadDependencies(manifest, lock, visited)
		if err != nil {
			return nil, err
		}
		program.Modules = mods
	}
	mod, err := ParseFile(entry)
	if err != nil {
		return nil, err
	}
	if manifest != nil {
		mod.Package = manifest.Name
	}
	program.Entry = mod
	program.Modules = append(program.Modules, mod)
	return program, nil
}

// loadDependencies loads the library sources of every dependency of
// manifest, depth first so a dependency's own dependencies come before it.
// lock is the root package's lockfile; it pins git dependencies at any depth.
func (l *Loader) loadDependencies(manifest *Manifest, lock *Lockfile, visited map[string]bool) ([]*Module, error) {
	var out []*Module
	for _, name := range sortedKeys(manifest.Dependencies) {
		root, err := l.ResolveDependency(manifest, name, manifest.Dependencies[name], lock)
		if err != nil {
			return nil, err
		}
		if visited[root] {
			continue
		}
		visited[root] = true

		pkgName := sanitizeSegment(name)
		depManifestPath := filepath.Join(root, ManifestFileName)
		if _, err := os.Stat(depManifestPath); err == nil {
			depManifest, err := LoadManifest(depManifestPath)
			if err != nil {
				return nil, fmt.Errorf("dependency %s: %w", name, err)
			}
			nested, err := l.loadDependencies(depManifest, lock, visited)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
			pkgName = depManifest.Name
		}

		files, err := librarySources(root)
		if err != nil {
			return nil, fmt.Errorf("dependency %s: %w", name, err)
		}
		for _, file := range files {
			mod, err := ParseFile(file)
			if err != nil {
				return nil, fmt.Errorf("dependency %s: %w", name, err)
			}
			mod.Package = pkgName
			out = append(out, mod)
		}
	}
	return out, nil
}

// ResolveDependency returns the directory holding a dependency's sources.
// Path dependencies resolve against the manifest directory, git dependencies
// against the checkout recorded in the lockfile, and anything else against the
// search path.
func (l *Loader) ResolveDependency(manifest *Manifest, name string, dep *DependencySpec, lock *Lockfile) (string, error) {
	var root string
	switch {
	case dep != nil && dep.Path != "":
		root = dep.Path
		if !filepath.IsAbs(root) {
			root = filepath.Join(manifest.Dir(), root)
		}
	case dep.IsGit():
		locked, ok := lock.Find(name)
		if !ok {
			return "", fmt.Errorf("dependency %s is not installed (run `mylang deps install`)", name)
		}
		root = GitCheckoutDir(l.home, name, locked.Version)
	default:
		for _, base := range l.searchPaths {
			candidate := filepath.Join(base, name)
			if info, err := os.Stat(candidate); err == nil && info.IsDir() {
				root = candidate
				break
			}
		}
		if root == "" {
			return "", fmt.Errorf("dependency %s not found on %s", name, EnvPath)
		}
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("dependency %s: %s is not a directory", name, root)
	}
	return root, nil
}

// librarySources lists the source files of a dependency: everything under
// src/ when present, otherwise under the root, in path order. Hidden
// directories are skipped.
func librarySources(root string) ([]string, error) {
	base := root
	if info, err := os.Stat(filepath.Join(root, "src")); err == nil && info.IsDir() {
		base = filepath.Join(root, "src")
	}
	var files []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != base && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
