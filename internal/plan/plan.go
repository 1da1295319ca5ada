// Package plan builds the planning-phase artifacts of a foreign scan:
// the resolved table handle, the projection list, the size and cost
// estimates, and the immutable ScanPlan payload execution starts from.
package plan

import (
	"errors"

	"github.com/treefdw/treefdw/internal/fdwerr"
	"github.com/treefdw/treefdw/internal/treeio"
)

// ScanPlan is the immutable per-query payload produced by planning and
// consumed by every execution of the compiled plan. A rescan derives a
// fresh cursor from it rather than mutating it.
type ScanPlan struct {
	Table      treeio.Table
	Projection []ProjectionEntry
}

// ResolveTable looks up the named tree, or collection of trees, inside
// a shard's reader context.
func ResolveTable(sh treeio.Shard, tree string, isCollection bool) (treeio.Table, error) {
	tbl, err := sh.Table(tree, isCollection)
	if err != nil {
		if errors.Is(err, treeio.ErrNotFound) {
			return nil, fdwerr.Configf("'tree' option refers to an unknown table in treefdw")
		}
		return nil, err
	}
	return tbl, nil
}
