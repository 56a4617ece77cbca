// Package catalog holds the immutable rule tables that drive SMS extraction.
// One RuleGroup exists per institution or channel, plus a generic group that
// every message falls back to. Supporting a new sender means adding a
// GroupSpec; nothing else changes.
package catalog

import (
	"errors"
	"fmt"
	"sync"
)

// Catalog is the process-wide set of rule groups. It is safe for concurrent
// use because nothing mutates it after Build returns.
type Catalog struct {
	groups  []*RuleGroup
	byName  map[string]*RuleGroup
	generic *RuleGroup
}

// Build compiles specs into a Catalog. Exactly one spec must be of
// KindGeneric. Every malformed pattern is reported in the returned error.
func Build(specs []GroupSpec) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]*RuleGroup, len(specs))}
	var errs []error

	for _, spec := range specs {
		g, err := compileGroup(spec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := c.byName[g.name]; dup {
			errs = append(errs, fmt.Errorf("duplicate group name %q", g.name))
			continue
		}
		c.byName[g.name] = g

		if g.kind == KindGeneric {
			if c.generic != nil {
				errs = append(errs, fmt.Errorf("second generic group %q, already have %q", g.name, c.generic.name))
				continue
			}
			c.generic = g
			continue
		}
		c.groups = append(c.groups, g)
	}

	if c.generic == nil && len(errs) == 0 {
		errs = append(errs, errors.New("catalog has no generic group"))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to build rule catalog: %w", errors.Join(errs...))
	}
	return c, nil
}

// Groups returns the institution and channel groups in declaration order,
// without the generic group.
func (c *Catalog) Groups() []*RuleGroup {
	return append([]*RuleGroup(nil), c.groups...)
}

// Generic returns the fallback group.
func (c *Catalog) Generic() *RuleGroup { return c.generic }

// Group looks a group up by name.
func (c *Catalog) Group(name string) (*RuleGroup, bool) {
	g, ok := c.byName[name]
	return g, ok
}

// Len is the number of groups including the generic one.
func (c *Catalog) Len() int { return len(c.byName) }

var builtin = sync.OnceValues(func() (*Catalog, error) {
	return Build(Builtin())
})

// Default returns the catalog built from the built-in groups. It is built
// once per process.
func Default() (*Catalog, error) {
	return builtin()
}

// MustDefault is Default for callers that treat a broken catalog as fatal.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// WithExtra builds a catalog from the built-in groups plus extra. Extra
// groups are added after the built-ins so declaration order stays stable.
func WithExtra(extra ...GroupSpec) (*Catalog, error) {
	specs := Builtin()
	specs = append(specs, extra...)
	return Build(specs)
}
