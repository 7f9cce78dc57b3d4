package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the package manifest looked up next to sources.
const ManifestFileName = "package.yml"

// Manifest represents the parsed contents of package.yml.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	Targets      map[string]*TargetSpec
	TargetOrder  []string
	Dependencies map[string]*DependencySpec
	Runtime      RuntimeSpec
}

// TargetSpec describes a runnable target from the manifest.
type TargetSpec struct {
	Name string
	Type TargetType
	Main string
}

// TargetType enumerates supported target kinds.
type TargetType string

const (
	TargetTypeExecutable TargetType = "executable"
	TargetTypeTest       TargetType = "test"
)

// DependencySpec describes where a dependency's sources come from: a git
// repository pinned by rev, tag or branch, or a local path. A dependency with
// neither is looked up on the search path.
type DependencySpec struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
	Path   string
}

// RuntimeSpec holds interpreter defaults that the CLI flags override.
type RuntimeSpec struct {
	Faults string
	Trace  bool
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Dir returns the directory holding the manifest.
func (m *Manifest) Dir() string {
	if m == nil || m.Path == "" {
		return ""
	}
	return filepath.Dir(m.Path)
}

// LoadManifest parses package.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks up from start looking for package.yml. It returns an
// empty path without error when none exists.
func FindManifest(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}
	for dir := abs; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, ManifestFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		if parent := filepath.Dir(dir); parent == dir {
			return "", nil
		}
	}
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	for _, name := range m.TargetOrder {
		target := m.Targets[name]
		switch {
		case target.Type == "":
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q missing type", name))
		case !target.Type.IsValid():
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q has unsupported type %q", name, target.Type))
		}
		if target.Main == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q requires a main entrypoint", name))
		}
	}
	for _, name := range sortedKeys(m.Dependencies) {
		for _, issue := range m.Dependencies[name].validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", name, issue))
		}
	}
	switch m.Runtime.Faults {
	case "", "report", "abort":
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("runtime.faults must be report or abort, got %q", m.Runtime.Faults))
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// IsValid reports whether the target type is recognised.
func (t TargetType) IsValid() bool {
	switch t {
	case TargetTypeExecutable, TargetTypeTest:
		return true
	default:
		return false
	}
}

var ErrNoExecutableTarget = errors.New("manifest: no executable targets defined")

// DefaultExecutableTarget returns the first executable target in manifest order.
func (m *Manifest) DefaultExecutableTarget() (*TargetSpec, error) {
	if m == nil {
		return nil, ErrNoExecutableTarget
	}
	for _, name := range m.TargetOrder {
		if target := m.Targets[name]; target.Type == TargetTypeExecutable {
			return target, nil
		}
	}
	return nil, ErrNoExecutableTarget
}

// FindTarget looks up a target by name, ignoring case.
func (m *Manifest) FindTarget(name string) (*TargetSpec, bool) {
	if m == nil {
		return nil, false
	}
	name = strings.TrimSpace(name)
	if target, ok := m.Targets[name]; ok {
		return target, true
	}
	for _, key := range m.TargetOrder {
		if strings.EqualFold(key, name) {
			return m.Targets[key], true
		}
	}
	return nil, false
}

// TargetsOfType lists targets of the given type in manifest order.
func (m *Manifest) TargetsOfType(kind TargetType) []*TargetSpec {
	if m == nil {
		return nil
	}
	var out []*TargetSpec
	for _, name := range m.TargetOrder {
		if target := m.Targets[name]; target.Type == kind {
			out = append(out, target)
		}
	}
	return out
}

func (d *DependencySpec) validate() []string {
	var errs []string
	if d.Path != "" && d.Git != "" {
		errs = append(errs, "path dependencies cannot also specify git")
	}
	pins := 0
	for _, pin := range []string{d.Rev, d.Tag, d.Branch} {
		if pin != "" {
			pins++
		}
	}
	if d.Git == "" && pins > 0 {
		errs = append(errs, "rev, tag and branch apply only to git dependencies")
	}
	if d.Git != "" && pins == 0 {
		errs = append(errs, "git dependencies require rev, tag, or branch")
	}
	if pins > 1 {
		errs = append(errs, "specify only one of rev, tag, or branch")
	}
	return errs
}

// IsGit reports whether the dependency is fetched from a git repository.
func (d *DependencySpec) IsGit() bool {
	return d != nil && d.Git != ""
}

type manifestFile struct {
	Name         string        `yaml:"name"`
	Version      string        `yaml:"version"`
	Targets      targetMap     `yaml:"targets"`
	Dependencies dependencyMap `yaml:"dependencies"`
	Runtime      runtimeYAML   `yaml:"runtime"`
}

type targetYAML struct {
	Type TargetType `yaml:"type"`
	Main string     `yaml:"main"`
}

type runtimeYAML struct {
	Faults string `yaml:"faults"`
	Trace  bool   `yaml:"trace"`
}

// targetMap keeps manifest order so the first executable target is the
// default.
type targetMap struct {
	items []targetMapEntry
}

type targetMapEntry struct {
	name string
	spec *targetYAML
}

func (tm *targetMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		tm.items = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: targets must be a mapping")
	}
	items := make([]targetMapEntry, 0, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valueNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: targets must not use empty keys")
		}
		entry := new(targetYAML)
		switch valueNode.Kind {
		case yaml.ScalarNode:
			// Shorthand: `app: src/main.mylang` is an executable target.
			entry.Type = TargetTypeExecutable
			entry.Main = valueNode.Value
		default:
			if err := valueNode.Decode(entry); err != nil {
				return fmt.Errorf("manifest: target %q: %w", key, err)
			}
		}
		items = append(items, targetMapEntry{name: key, spec: entry})
	}
	tm.items = items
	return nil
}

type dependencyMap map[string]*DependencySpec

func (dm *dependencyMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		*dm = make(dependencyMap)
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: dependencies must be a mapping")
	}
	result := make(dependencyMap, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: dependency names must be non-empty")
		}
		var dep DependencySpec
		if err := dep.unmarshalYAML(value.Content[i+1]); err != nil {
			return fmt.Errorf("manifest: dependency %q: %w", key, err)
		}
		result[key] = &dep
	}
	*dm = result
	return nil
}

func (d *DependencySpec) unmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*d = DependencySpec{}
			return nil
		}
		// Shorthand: a bare string is a local path.
		*d = DependencySpec{Path: strings.TrimSpace(value.Value)}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Git    string `yaml:"git"`
			Rev    string `yaml:"rev"`
			Tag    string `yaml:"tag"`
			Branch string `yaml:"branch"`
			Path   string `yaml:"path"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		*d = DependencySpec{
			Git:    strings.TrimSpace(raw.Git),
			Rev:    strings.TrimSpace(raw.Rev),
			Tag:    strings.TrimSpace(raw.Tag),
			Branch: strings.TrimSpace(raw.Branch),
			Path:   strings.TrimSpace(raw.Path),
		}
		return nil
	case yaml.AliasNode:
		return d.unmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("expected string or mapping, found %s", value.ShortTag())
	}
}

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:         path,
		Name:         sanitizeSegment(strings.TrimSpace(mf.Name)),
		Version:      strings.TrimSpace(mf.Version),
		Targets:      make(map[string]*TargetSpec, len(mf.Targets.items)),
		TargetOrder:  make([]string, 0, len(mf.Targets.items)),
		Dependencies: make(map[string]*DependencySpec, len(mf.Dependencies)),
		Runtime: RuntimeSpec{
			Faults: strings.TrimSpace(mf.Runtime.Faults),
			Trace:  mf.Runtime.Trace,
		},
	}
	for name, dep := range mf.Dependencies {
		if dep == nil {
			continue
		}
		copy := *dep
		result.Dependencies[name] = &copy
	}
	for _, item := range mf.Targets.items {
		if _, exists := result.Targets[item.name]; exists {
			continue
		}
		result.Targets[item.name] = &TargetSpec{
			Name: item.name,
			Type: TargetType(strings.TrimSpace(string(item.spec.Type))),
			Main: strings.TrimSpace(item.spec.Main),
		}
		result.TargetOrder = append(result.TargetOrder, item.name)
	}
	return result
}
