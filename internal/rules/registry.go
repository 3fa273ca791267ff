package rules

import (
	"fmt"
	"sort"
	"sync"
)

// Factory constructs a rule from the configured defaults.
type Factory func(Defaults) (Rule, error)

// Registry maintains known rule factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// NewStandardRegistry returns a registry holding every rule in StandardOrder.
func NewStandardRegistry() *Registry {
	reg := NewRegistry()
	reg.MustRegister(IDEnsureName, static(EnsureName()))
	reg.MustRegister(IDEnsureType, static(EnsureType()))
	reg.MustRegister(IDEnsureDescription, static(EnsureDescription()))
	reg.MustRegister(IDEnsureKeywords, static(EnsureKeywords()))
	reg.MustRegister(IDSortKeywords, static(SortKeywords()))
	reg.MustRegister(IDSetHomepage, func(d Defaults) (Rule, error) { return SetHomepage(d.Homepage), nil })
	reg.MustRegister(IDSetLicense, func(d Defaults) (Rule, error) { return SetLicense(d.License), nil })
	reg.MustRegister(IDSetAuthors, func(d Defaults) (Rule, error) { return SetAuthors(d.Authors), nil })
	reg.MustRegister(IDSetMinimumStability, func(d Defaults) (Rule, error) {
		return SetMinimumStability(d.MinimumStability), nil
	})
	reg.MustRegister(IDSetPreferStable, static(SetPreferStable()))
	reg.MustRegister(IDEnableSortPackages, static(EnableSortPackages()))
	reg.MustRegister(IDEnsureSupport, func(d Defaults) (Rule, error) { return EnsureSupport(d.IssueURL), nil })
	reg.MustRegister(IDSetPHPRequirement, func(d Defaults) (Rule, error) { return SetPHPRequirement(d.PHPVersion), nil })
	reg.MustRegister(IDSortAutoloadSections, static(SortAutoloadSections()))
	reg.MustRegister(IDSortDependencyPackages, static(SortDependencyPackages()))
	reg.MustRegister(IDArrangeTopLevelKeys, func(d Defaults) (Rule, error) { return ArrangeTopLevelKeys(d.KeyOrder), nil })
	return reg
}

func static(rule Rule) Factory {
	return func(Defaults) (Rule, error) { return rule, nil }
}

// Register installs a rule factory. Returns an error if the ID already exists.
func (r *Registry) Register(id string, factory Factory) error {
	if id == "" {
		return fmt.Errorf("rules: id is required")
	}
	if factory == nil {
		return fmt.Errorf("rules: factory is required for %s", id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[id]; exists {
		return fmt.Errorf("rules: %s already registered", id)
	}
	r.factories[id] = factory
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(id string, factory Factory) {
	if err := r.Register(id, factory); err != nil {
		panic(err)
	}
}

// Resolve constructs a rule by ID.
func (r *Registry) Resolve(id string, defaults Defaults) (Rule, error) {
	r.mu.RLock()
	factory, ok := r.factories[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("rules: unknown id %s", id)
	}
	rule, err := factory(defaults)
	if err != nil {
		return nil, fmt.Errorf("rules: build %s: %w", id, err)
	}
	if rule == nil || rule.ID() != id {
		return nil, fmt.Errorf("rules: factory for %s returned a mismatched rule", id)
	}
	return rule, nil
}

// IDs returns a sorted list of registered rule identifiers.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Sequence resolves StandardOrder into rules. IDs listed in disabled are
// skipped. extra rules run after the ensure-* rules and before
// sort-keywords, so every standard set and sort rule still sees their
// output. arrange-top-level-keys cannot be disabled.
func (r *Registry) Sequence(defaults Defaults, disabled []string, extra ...Rule) ([]Rule, error) {
	if err := defaults.Validate(); err != nil {
		return nil, err
	}
	skip := make(map[string]bool, len(disabled))
	for _, id := range disabled {
		if id == IDArrangeTopLevelKeys {
			return nil, fmt.Errorf("rules: %s cannot be disabled", id)
		}
		if !r.has(id) {
			return nil, fmt.Errorf("rules: cannot disable unknown rule %s", id)
		}
		skip[id] = true
	}
	seq := make([]Rule, 0, len(StandardOrder)+len(extra))
	pending := extra
	for i, id := range StandardOrder {
		if i >= extraSlot && len(pending) > 0 {
			seq = append(seq, pending...)
			pending = nil
		}
		if skip[id] {
			continue
		}
		rule, err := r.Resolve(id, defaults)
		if err != nil {
			return nil, err
		}
		seq = append(seq, rule)
	}
	return seq, nil
}

// extraSlot is the StandardOrder index extra rules are spliced in at.
var extraSlot = indexOf(StandardOrder, IDSortKeywords)

func indexOf(ids []string, target string) int {
	for i, id := range ids {
		if id == target {
			return i
		}
	}
	return len(ids)
}

func (r *Registry) has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[id]
	return ok
}
