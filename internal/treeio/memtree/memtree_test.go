package memtree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treefdw/treefdw/internal/treeio"
)

func TestShard_NamespaceLookup(t *testing.T) {
	s := NewShard()
	s.AddTable(NewTable("hits", false, Column{Name: "x", Type: treeio.Int32}))
	s.AddTable(NewTable("tracks", true, Column{Name: "pt", Type: treeio.Float64}))

	tbl, err := s.Table("hits", false)
	require.NoError(t, err)
	assert.Equal(t, "hits", tbl.Name())

	// Trees and collections live in separate namespaces.
	_, err = s.Table("hits", true)
	assert.ErrorIs(t, err, treeio.ErrNotFound)

	_, err = s.Table("tracks", true)
	assert.NoError(t, err)

	_, err = s.Table("nope", false)
	assert.ErrorIs(t, err, treeio.ErrNotFound)
}

func TestTable_AppendAndCount(t *testing.T) {
	tbl := NewTable("hits", false,
		Column{Name: "x", Type: treeio.Int32},
		Column{Name: "y", Type: treeio.Float64},
	)
	require.NoError(t, tbl.Append(1, 0.5))
	require.NoError(t, tbl.Append(2, 1.5))

	assert.Equal(t, int64(2), tbl.ApproxRowCount())

	// Arity and type mismatches are rejected.
	assert.Error(t, tbl.Append(1))
	assert.Error(t, tbl.Append("one", 0.5))
}

func TestCursor_Lifecycle(t *testing.T) {
	tbl := NewTable("hits", false,
		Column{Name: "x", Type: treeio.Int32},
		Column{Name: "y", Type: treeio.Float64},
	)
	require.NoError(t, tbl.Append(7, 0.5))
	require.NoError(t, tbl.Append(8, 1.5))

	cur, err := tbl.NewCursor(3)
	require.NoError(t, err)

	require.NoError(t, cur.SetAttr(0, "y", treeio.Float64))
	require.NoError(t, cur.SetAttr(1, "x", treeio.Int32))
	require.NoError(t, cur.SetAttr(2, "hits_id", treeio.TreeID))
	require.NoError(t, cur.Open())

	require.True(t, cur.Advance())
	assert.Equal(t, 0.5, cur.Float(0))
	assert.Equal(t, int32(7), cur.Int(1))
	assert.Equal(t, int64(0), cur.TreeID(2))

	require.True(t, cur.Advance())
	assert.Equal(t, int32(8), cur.Int(1))
	assert.Equal(t, int64(1), cur.TreeID(2))

	assert.False(t, cur.Advance())

	cur.Close()
	assert.False(t, cur.Advance())
}

func TestCursor_RegistrationErrors(t *testing.T) {
	tbl := NewTable("hits", false, Column{Name: "x", Type: treeio.Int32})
	require.NoError(t, tbl.Append(1))

	cur, err := tbl.NewCursor(1)
	require.NoError(t, err)

	// Unknown attribute name.
	assert.Error(t, cur.SetAttr(0, "z", treeio.Int32))

	// Declared type mismatch.
	assert.Error(t, cur.SetAttr(0, "x", treeio.Float64))

	// Opening with an unregistered slot fails.
	assert.Error(t, cur.Open())

	// Names match case-insensitively, as option-declared schemas do.
	assert.NoError(t, cur.SetAttr(0, "X", treeio.Int32))
	assert.NoError(t, cur.Open())
}

func TestCursor_ExplicitIdentifiers(t *testing.T) {
	tbl := NewTable("cells", true, Column{Name: "v", Type: treeio.UInt32})
	require.NoError(t, tbl.AppendRow(42, 7, uint32(9)))

	cur, err := tbl.NewCursor(3)
	require.NoError(t, err)
	require.NoError(t, cur.SetAttr(0, "v", treeio.UInt32))
	require.NoError(t, cur.SetAttr(1, "cells_id", treeio.TreeID))
	require.NoError(t, cur.SetAttr(2, "evt_id", treeio.CollectionID))
	require.NoError(t, cur.Open())

	require.True(t, cur.Advance())
	assert.Equal(t, uint32(9), cur.Uint(0))
	assert.Equal(t, int64(42), cur.TreeID(1))
	assert.Equal(t, int32(7), cur.CollectionID(2))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "part-0.toml")
	fixture := `
[[tables]]
name = "hits"
attrs = ["x:int", "y:float"]
rows = [[1, 0.5], [2, 1.5], [3, 2.5]]

[[tables]]
name = "evt"
collection = true
attrs = ["flag:bool"]
rows = [[true]]
`
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0644))

	sh, err := Open([]string{path})
	require.NoError(t, err)

	tbl, err := sh.Table("hits", false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), tbl.ApproxRowCount())

	cur, err := tbl.NewCursor(2)
	require.NoError(t, err)
	require.NoError(t, cur.SetAttr(0, "x", treeio.Int32))
	require.NoError(t, cur.SetAttr(1, "y", treeio.Float64))
	require.NoError(t, cur.Open())
	require.True(t, cur.Advance())
	assert.Equal(t, int32(1), cur.Int(0))
	assert.Equal(t, 0.5, cur.Float(1))

	_, err = sh.Table("evt", true)
	assert.NoError(t, err)
}

func TestLoadFile_BadDeclarations(t *testing.T) {
	dir := t.TempDir()

	badType := filepath.Join(dir, "bad-type.toml")
	require.NoError(t, os.WriteFile(badType, []byte(
		"[[tables]]\nname = \"t\"\nattrs = [\"x:decimal\"]\nrows = []\n"), 0644))
	_, err := Open([]string{badType})
	assert.ErrorContains(t, err, "unknown type tag")

	badAttr := filepath.Join(dir, "bad-attr.toml")
	require.NoError(t, os.WriteFile(badAttr, []byte(
		"[[tables]]\nname = \"t\"\nattrs = [\"x\"]\nrows = []\n"), 0644))
	_, err = Open([]string{badAttr})
	assert.ErrorContains(t, err, "bad attribute")
}
