package memtree

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/treefdw/treefdw/internal/treeio"
)

// fixture is the TOML shape of one in-memory data file:
//
//	[[tables]]
//	name = "hits"
//	collection = false
//	attrs = ["x:int", "y:float"]
//	rows = [[1, 2.5], [3, 4.5]]
type fixture struct {
	Tables []fixtureTable `toml:"tables"`
}

type fixtureTable struct {
	Name       string   `toml:"name"`
	Collection bool     `toml:"collection"`
	Attrs      []string `toml:"attrs"`
	Rows       [][]any  `toml:"rows"`
}

// LoadFile loads every table of one TOML data file into the shard.
func (s *Shard) LoadFile(path string) error {
	var fx fixture
	if _, err := toml.DecodeFile(path, &fx); err != nil {
		return fmt.Errorf("memtree: decoding %s: %w", path, err)
	}

	for _, ft := range fx.Tables {
		cols := make([]Column, 0, len(ft.Attrs))
		for _, decl := range ft.Attrs {
			name, tag, ok := cutAttr(decl)
			if !ok {
				return fmt.Errorf("memtree: %s: table %s: bad attribute %q", path, ft.Name, decl)
			}
			typ := treeio.ParseAttrType(tag)
			if typ == treeio.Invalid {
				return fmt.Errorf("memtree: %s: table %s: unknown type tag %q", path, ft.Name, tag)
			}
			cols = append(cols, Column{Name: name, Type: typ})
		}

		t := NewTable(ft.Name, ft.Collection, cols...)
		for _, values := range ft.Rows {
			if err := t.Append(values...); err != nil {
				return fmt.Errorf("memtree: %s: %w", path, err)
			}
		}
		s.AddTable(t)
	}
	return nil
}

// Open is a treeio.OpenFunc: it builds one shard from a manifest's
// worth of TOML data files.
func Open(files []string) (treeio.Shard, error) {
	s := NewShard()
	for _, path := range files {
		if err := s.LoadFile(path); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// cutAttr splits a "name:type" declaration the same way table options
// are split.
func cutAttr(decl string) (name, tag string, ok bool) {
	name, tag, found := strings.Cut(decl, ":")
	if !found || name == "" || tag == "" {
		return "", "", false
	}
	return name, tag, true
}
