package plan

import (
	"github.com/treefdw/treefdw/internal/fdwerr"
	"github.com/treefdw/treefdw/internal/host"
	"github.com/treefdw/treefdw/internal/options"
)

// ProjectionEntry pairs one external attribute with the zero-based
// position it must populate in the host's output tuple.
type ProjectionEntry struct {
	Attr     *options.Attr
	TuplePos int
}

// Project computes the minimal attribute set a scan must fetch: every
// non-dropped host column the query references, matched into the
// declared schema by case-insensitive name. Entries come out in host
// catalog column order; that order is the cursor's fetch order, and
// TuplePos maps each fetched value back to its output slot.
//
// The declared schema must cover every host column name; a referenced
// column with no schema entry is a schema-sync bug, not a reason to
// produce nulls.
func Project(usage *host.ColumnUsage, desc *host.TupleDesc, schema *options.Schema) ([]ProjectionEntry, error) {
	var entries []ProjectionEntry
	for i, attr := range desc.Attrs {
		if attr.Dropped {
			continue
		}
		if !usage.Uses(i) {
			continue
		}
		match := schema.Find(attr.Name)
		if match == nil {
			return nil, fdwerr.Internalf("failed to retrieve attribute %s in tree schema", attr.Name)
		}
		entries = append(entries, ProjectionEntry{Attr: match, TuplePos: i})
	}
	return entries, nil
}
