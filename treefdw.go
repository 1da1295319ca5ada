// Package treefdw exposes externally-stored, sharded tree files as
// read-only foreign tables inside a host query engine. The adapter
// resolves a table's options to a shard and schema, projects only the
// columns a query references, estimates relation size and cost for the
// planner, and drives a cursor over the external reader one row per
// host advance.
package treefdw

import (
	"go.uber.org/zap"

	"github.com/treefdw/treefdw/internal/fdwerr"
	"github.com/treefdw/treefdw/internal/host"
	"github.com/treefdw/treefdw/internal/logutil"
	"github.com/treefdw/treefdw/internal/options"
	"github.com/treefdw/treefdw/internal/plan"
	"github.com/treefdw/treefdw/internal/scan"
	"github.com/treefdw/treefdw/internal/shard"
	"github.com/treefdw/treefdw/internal/treeio"
)

// WrapperName is the name the adapter registers under with the host.
const WrapperName = "treefdw"

// Config configures one adapter instance.
type Config struct {
	// ShardsPath is the directory holding shard manifests. Empty defers
	// to the SHARDS_PATH environment variable.
	ShardsPath string
}

// Wrapper is the foreign-table adapter. One instance serves every
// foreign table of its wrapper; per-query state lives in the planner's
// RelOptInfo and in the scans it opens.
type Wrapper struct {
	registry *shard.Registry
}

// New builds an adapter reading shards through open.
func New(cfg Config, open treeio.OpenFunc) *Wrapper {
	return &Wrapper{registry: shard.NewRegistry(cfg.ShardsPath, open)}
}

// Register builds an adapter and registers it with the host under
// WrapperName. Meant to run at module load.
func Register(cfg Config, open treeio.OpenFunc) *Wrapper {
	w := New(cfg, open)
	host.Register(WrapperName, w)
	return w
}

// ValidateOptions checks one foreign object's options at creation time.
func (w *Wrapper) ValidateOptions(opts host.Options, scope host.Scope) error {
	return options.Validate(opts, scope)
}

// planState is the adapter's planning state for one foreign relation,
// carried in RelOptInfo.FdwPrivate between callbacks.
type planState struct {
	opts  *options.TableOptions
	table treeio.Table
	est   plan.SizeEstimate
}

// EstimateSize resolves the relation's options, shard, and table, and
// fills rel.Rows with the post-selectivity row estimate.
func (w *Wrapper) EstimateSize(ctx *host.PlanContext, rel *host.RelOptInfo) error {
	topts, err := options.Resolve(rel.Options.Merged())
	if err != nil {
		return err
	}

	sh, err := w.registry.Resolve(topts.Shard)
	if err != nil {
		return err
	}

	tbl, err := plan.ResolveTable(sh, topts.Tree, topts.IsCollection)
	if err != nil {
		return err
	}

	est := plan.EstimateSize(tbl, rel.ClauseSelectivity, ctx.Cost.BlockSize)
	rel.Rows = est.Rows
	rel.FdwPrivate = &planState{opts: topts, table: tbl, est: est}

	logutil.Debug("foreign relation sized",
		zap.String("relation", rel.Name),
		zap.String("tree", topts.Tree),
		zap.Float64("rows", est.Rows),
		zap.Int64("pages", est.Pages))

	return nil
}

// Paths produces the single possible access path: a full scan in file
// order. There is no native clause evaluation, so every restriction is
// left to the host, and no pathkeys are claimed.
func (w *Wrapper) Paths(ctx *host.PlanContext, rel *host.RelOptInfo) ([]host.Path, error) {
	st, ok := rel.FdwPrivate.(*planState)
	if !ok {
		return nil, fdwerr.Internalf("foreign paths requested before size estimation")
	}

	projection, err := plan.Project(rel.Usage, rel.Desc, st.opts.Schema)
	if err != nil {
		return nil, err
	}

	startup, total := plan.EstimateCosts(ctx.Cost, rel.RestrictCost, st.est)

	return []host.Path{{
		Rows:        rel.Rows,
		StartupCost: startup,
		TotalCost:   total,
		Private:     &plan.ScanPlan{Table: st.table, Projection: projection},
	}}, nil
}

// Plan extracts the immutable scan payload from the chosen path.
func (w *Wrapper) Plan(ctx *host.PlanContext, rel *host.RelOptInfo, best host.Path) (host.ScanPlan, error) {
	sp, ok := best.Private.(*plan.ScanPlan)
	if !ok {
		return nil, fdwerr.Internalf("foreign plan requested for a path treefdw did not build")
	}
	return sp, nil
}

// BeginScan opens one execution of a compiled plan. Concurrent
// executions of the same plan each get their own cursor.
func (w *Wrapper) BeginScan(p host.ScanPlan) (host.Scan, error) {
	sp, ok := p.(*plan.ScanPlan)
	if !ok {
		return nil, fdwerr.Internalf("foreign scan started without a treefdw plan")
	}
	cur, err := scan.Open(sp)
	if err != nil {
		return nil, err
	}
	return &foreignScan{plan: sp, cur: cur}, nil
}

// foreignScan is one executing scan: the shared immutable plan plus the
// cursor owned by this execution.
type foreignScan struct {
	plan *plan.ScanPlan
	cur  *scan.Cursor
}

func (s *foreignScan) Next(slot *host.TupleSlot) (bool, error) {
	return s.cur.Next(slot)
}

// Rescan restarts iteration from the first row by releasing the current
// cursor and deriving a fresh one from the same plan.
func (s *foreignScan) Rescan() error {
	s.cur.Close()
	cur, err := scan.Open(s.plan)
	if err != nil {
		return err
	}
	s.cur = cur
	return nil
}

func (s *foreignScan) Close() error {
	s.cur.Close()
	return nil
}
