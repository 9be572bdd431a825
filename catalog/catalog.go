// Package catalog collects mixin definitions from a tree of SCSS files.
package catalog

import (
	"path"
	"strings"
)

// Category of a mixin as seen by the dispatcher.
type Category int

const (
	// Simple mixins are included without arguments.
	Simple Category = iota
	// Parameterized mixins are included with exactly one argument.
	Parameterized
)

func (c Category) String() string {
	switch c {
	case Simple:
		return "simple"
	case Parameterized:
		return "parameterized"
	default:
		return "unknown"
	}
}

// MarshalText makes category readable in YAML dumps.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Origin points to the definition which put name into catalog.
type Origin struct {
	File   string   `yaml:"file"`
	Line   int      `yaml:"line"`
	Params []string `yaml:"params,omitempty"`
}

// Collision records a name defined both with and without parameters.
// Parameterized definition always wins.
type Collision struct {
	Name          string `yaml:"name"`
	Simple        Origin `yaml:"simple"`
	Parameterized Origin `yaml:"parameterized"`
}

// Catalog is the result of a single scan. Simple and Parameterized never
// share a name, Files lists import paths of every file which contributed at
// least one definition.
type Catalog struct {
	Simple        OrderedSet
	Parameterized OrderedSet
	Files         OrderedSet

	origins    map[string]Origin
	collisions []Collision
}

func New() *Catalog {
	return &Catalog{origins: make(map[string]Origin)}
}

// Add puts name into the proper category. Returns false when name was already
// known in this category or lost to a parameterized definition.
func (c *Catalog) Add(name string, cat Category, from Origin) bool {
	if c.origins == nil {
		c.origins = make(map[string]Origin)
	}
	switch cat {
	case Parameterized:
		if c.Simple.Remove(name) {
			c.collisions = append(c.collisions, Collision{Name: name, Simple: c.origins[name], Parameterized: from})
			c.origins[name] = from
		}
		if !c.Parameterized.Add(name) {
			return false
		}
	default:
		if c.Parameterized.Has(name) {
			c.collisions = append(c.collisions, Collision{Name: name, Simple: from, Parameterized: c.origins[name]})
			return false
		}
		if !c.Simple.Add(name) {
			return false
		}
	}
	c.origins[name] = from
	return true
}

// Merge unions other into c preserving first-seen order and parameterized
// precedence.
func (c *Catalog) Merge(other *Catalog) {
	if other == nil {
		return
	}
	for _, name := range other.Simple.items {
		c.Add(name, Simple, other.origins[name])
	}
	for _, name := range other.Parameterized.items {
		c.Add(name, Parameterized, other.origins[name])
	}
	for _, f := range other.Files.items {
		c.Files.Add(f)
	}
	c.collisions = append(c.collisions, other.collisions...)
}

// Lookup returns category and origin of the name.
func (c *Catalog) Lookup(name string) (Category, Origin, bool) {
	switch {
	case c.Simple.Has(name):
		return Simple, c.origins[name], true
	case c.Parameterized.Has(name):
		return Parameterized, c.origins[name], true
	}
	return Simple, Origin{}, false
}

// Collisions returns all names which were defined in both categories.
func (c *Catalog) Collisions() []Collision {
	return c.collisions
}

// Empty is true when there is nothing to dispatch.
func (c *Catalog) Empty() bool {
	return c.Simple.Len() == 0 && c.Parameterized.Len() == 0
}

// ImportPath converts path relative to scan root into form suitable for
// "@use": forward slashes, no extension, partial prefix removed from every
// path segment.
func ImportPath(rel, ext, partial string) string {
	p := strings.TrimSuffix(strings.ReplaceAll(rel, `\`, "/"), ext)
	p = path.Clean(p)
	if len(partial) == 0 {
		return p
	}
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = strings.TrimPrefix(s, partial)
	}
	return strings.Join(segments, "/")
}
