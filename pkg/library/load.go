package library

import (
	_ "embed"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chazu/flexure/pkg/profile"
	"gopkg.in/yaml.v3"
)

//go:embed flexures.yaml
var builtinYAML string

var (
	defaultOnce sync.Once
	defaultLib  *Library
	defaultErr  error
)

// Default returns the built-in flexure library. It is parsed once; a broken
// embedded table is a programming error and panics.
func Default() *Library {
	defaultOnce.Do(func() {
		defaultLib, defaultErr = Load(strings.NewReader(builtinYAML))
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("library: built-in flexures: %v", defaultErr))
	}
	return defaultLib
}

// file is the YAML layout:
//
//	categories:
//	  Circular:
//	    "1st Flexure": |
//	      [('circle', [((0.0, 0.0, 0.0), 1.0)])]
//	  Square: {}
type file struct {
	Categories map[string]map[string]string `yaml:"categories"`
}

// Load parses a YAML library file. Every profile is decoded with the
// textual profile codec.
func Load(r io.Reader) (*Library, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("library: parse yaml: %w", err)
	}

	b := NewBuilder()
	for cat, names := range f.Categories {
		b.AddCategory(cat)
		for name, text := range names {
			p, err := profile.Decode(text)
			if err != nil {
				return nil, fmt.Errorf("library: %s/%s: %w", cat, name, err)
			}
			b.Add(cat, name, p)
		}
	}
	return b.Build()
}

// Dump writes l in the layout accepted by Load.
func Dump(w io.Writer, l *Library) error {
	f := file{Categories: make(map[string]map[string]string)}
	for _, cat := range l.Categories() {
		m := make(map[string]string)
		for _, name := range l.Names(cat) {
			m[name] = profile.Encode(l.categories[cat][name])
		}
		f.Categories[cat] = m
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("library: write yaml: %w", err)
	}
	return enc.Close()
}
