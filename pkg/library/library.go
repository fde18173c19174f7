// Package library holds named flexure profiles grouped by category.
//
// A Library is immutable once built and safe for concurrent use. Profiles
// handed out by Lookup and Find are deep copies.
package library

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chazu/flexure/pkg/profile"
)

var (
	ErrEmptyName = errors.New("library: empty category or profile name")
	ErrDuplicate = errors.New("library: duplicate profile")
)

// Entry is one profile together with where it lives in the library.
type Entry struct {
	Category string
	Name     string
	Profile  profile.Profile
}

// Library is an immutable category -> name -> profile registry.
type Library struct {
	categories map[string]map[string]profile.Profile
}

// Builder accumulates profiles for a Library. The zero value is ready to use.
type Builder struct {
	categories map[string]map[string]profile.Profile
	err        error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddCategory registers category even if it ends up holding no profiles.
func (b *Builder) AddCategory(category string) *Builder {
	if b.err != nil {
		return b
	}
	if category == "" {
		b.err = ErrEmptyName
		return b
	}
	b.category(category)
	return b
}

// Add registers p as category/name. The profile is copied.
func (b *Builder) Add(category, name string, p profile.Profile) *Builder {
	if b.err != nil {
		return b
	}
	if category == "" || name == "" {
		b.err = fmt.Errorf("%w: %q/%q", ErrEmptyName, category, name)
		return b
	}
	c := b.category(category)
	if _, ok := c[name]; ok {
		b.err = fmt.Errorf("%w: %s/%s", ErrDuplicate, category, name)
		return b
	}
	c[name] = p.Clone()
	return b
}

// Err returns the first error recorded by Add or AddCategory.
func (b *Builder) Err() error { return b.err }

// Build returns the Library, or the first error recorded while adding.
func (b *Builder) Build() (*Library, error) {
	if b.err != nil {
		return nil, b.err
	}
	lib := &Library{categories: make(map[string]map[string]profile.Profile, len(b.categories))}
	for cat, names := range b.categories {
		m := make(map[string]profile.Profile, len(names))
		for name, p := range names {
			m[name] = p
		}
		lib.categories[cat] = m
	}
	return lib, nil
}

func (b *Builder) category(name string) map[string]profile.Profile {
	if b.categories == nil {
		b.categories = make(map[string]map[string]profile.Profile)
	}
	c, ok := b.categories[name]
	if !ok {
		c = make(map[string]profile.Profile)
		b.categories[name] = c
	}
	return c
}

// Empty returns a library with no categories.
func Empty() *Library {
	return &Library{categories: map[string]map[string]profile.Profile{}}
}

// Categories returns the category names in sorted order.
func (l *Library) Categories() []string {
	out := make([]string, 0, len(l.categories))
	for c := range l.categories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Names returns the profile names of category in sorted order, or nil if
// the category does not exist.
func (l *Library) Names(category string) []string {
	c, ok := l.categories[category]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(c))
	for n := range c {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Lookup returns a copy of the profile stored as category/name.
func (l *Library) Lookup(category, name string) (profile.Profile, bool) {
	p, ok := l.categories[category][name]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// MustLookup is like Lookup but panics if the profile does not exist.
func (l *Library) MustLookup(category, name string) profile.Profile {
	p, ok := l.Lookup(category, name)
	if !ok {
		panic(fmt.Sprintf("library: no profile %s/%s", category, name))
	}
	return p
}

// Find searches every category, in sorted order, for a profile called name.
func (l *Library) Find(name string) (Entry, bool) {
	for _, cat := range l.Categories() {
		if p, ok := l.categories[cat][name]; ok {
			return Entry{Category: cat, Name: name, Profile: p.Clone()}, true
		}
	}
	return Entry{}, false
}

// Entries returns every profile sorted by category then name.
func (l *Library) Entries() []Entry {
	var out []Entry
	for _, cat := range l.Categories() {
		for _, name := range l.Names(cat) {
			out = append(out, Entry{Category: cat, Name: name, Profile: l.categories[cat][name].Clone()})
		}
	}
	return out
}

// Len returns the total number of profiles.
func (l *Library) Len() int {
	n := 0
	for _, c := range l.categories {
		n += len(c)
	}
	return n
}

// Merge returns a library holding the profiles of base and overlay. Where
// both define category/name, overlay wins.
func Merge(base, overlay *Library) *Library {
	out := &Library{categories: make(map[string]map[string]profile.Profile)}
	for _, src := range []*Library{base, overlay} {
		if src == nil {
			continue
		}
		for cat, names := range src.categories {
			c, ok := out.categories[cat]
			if !ok {
				c = make(map[string]profile.Profile, len(names))
				out.categories[cat] = c
			}
			for name, p := range names {
				c[name] = p
			}
		}
	}
	return out
}
