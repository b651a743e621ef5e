package patterns

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// All is the sentinel meaning "criterion not supplied".
const All = "All"

// ErrUnknownCategory is returned by Validate for names outside a registry.
var ErrUnknownCategory = errors.New("unknown category")

// Rule is a named, case-insensitive pattern.
type Rule struct {
	Name        string
	Description string
	Color       string
	Pattern     *regexp.Regexp
}

// Match reports whether line satisfies the rule. A zero Rule never matches.
func (r Rule) Match(line string) bool {
	if r.Pattern == nil {
		return false
	}
	return r.Pattern.MatchString(line)
}

// Def describes a rule before compilation.
type Def struct {
	Name        string
	Pattern     string
	Description string
	Color       string
}

// Registry is an ordered, immutable set of rules.
type Registry struct {
	name  string
	rules []Rule
	index map[string]int
}

// New compiles defs into a registry. It panics on duplicate names or invalid
// patterns since registries are built from static tables.
func New(name string, defs []Def) *Registry {
	r := &Registry{
		name:  name,
		rules: make([]Rule, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		key := strings.ToLower(d.Name)
		if _, dup := r.index[key]; dup {
			panic(fmt.Sprintf("patterns: duplicate %s rule %q", name, d.Name))
		}
		r.index[key] = len(r.rules)
		r.rules = append(r.rules, Rule{
			Name:        d.Name,
			Description: d.Description,
			Color:       d.Color,
			Pattern:     regexp.MustCompile("(?i)" + d.Pattern),
		})
	}
	return r
}

// Name returns the registry label ("log type", "severity", ...).
func (r *Registry) Name() string { return r.name }

// Rules returns the rules in registration order.
func (r *Registry) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Names returns the rule names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.rules))
	for i, rule := range r.rules {
		out[i] = rule.Name
	}
	return out
}

// Lookup finds a rule by name, ignoring case.
func (r *Registry) Lookup(name string) (Rule, bool) {
	i, ok := r.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Rule{}, false
	}
	return r.rules[i], true
}

// Matcher returns the rule for name. Unknown names yield a rule that never
// matches.
func (r *Registry) Matcher(name string) Rule {
	rule, _ := r.Lookup(name)
	return rule
}

// First returns the first rule, in registration order, matching line.
func (r *Registry) First(line string) (Rule, bool) {
	for _, rule := range r.rules {
		if rule.Match(line) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Validate rejects names that are neither registered nor the All sentinel.
func (r *Registry) Validate(name string) error {
	if IsAll(name) {
		return nil
	}
	if _, ok := r.Lookup(name); ok {
		return nil
	}
	return fmt.Errorf("%w: %s %q (valid: %s)", ErrUnknownCategory, r.name, name, strings.Join(r.Names(), ", "))
}

// IsAll reports whether name means "no constraint".
func IsAll(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || strings.EqualFold(name, All)
}
