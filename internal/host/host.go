// Package host declares the boundary to the embedding query engine:
// the descriptors and planner inputs the engine hands to a foreign-table
// adapter, and the callback interfaces the adapter implements.
package host

import "sync"

// Options is one scope's worth of foreign-object options as key/value
// pairs, exactly as the user declared them.
type Options map[string]string

// Scope identifies which foreign object an option set was attached to.
type Scope int

const (
	ScopeWrapper Scope = iota
	ScopeServer
	ScopeTable
)

func (s Scope) String() string {
	switch s {
	case ScopeWrapper:
		return "wrapper"
	case ScopeServer:
		return "server"
	case ScopeTable:
		return "table"
	}
	return "unknown"
}

// OptionSet is the full option surface of one foreign table: its
// wrapper's, server's, and its own options. Later scopes override
// earlier ones on merge.
type OptionSet struct {
	Wrapper Options
	Server  Options
	Table   Options
}

// Merged flattens the set in wrapper, server, table order.
func (os OptionSet) Merged() Options {
	merged := make(Options, len(os.Wrapper)+len(os.Server)+len(os.Table))
	for k, v := range os.Wrapper {
		merged[k] = v
	}
	for k, v := range os.Server {
		merged[k] = v
	}
	for k, v := range os.Table {
		merged[k] = v
	}
	return merged
}

// Attr is one column of the host-side relation.
type Attr struct {
	Name    string
	Dropped bool
}

// TupleDesc describes the host relation's row shape. Attr order is
// catalog attribute-number order; tuple positions are indexes into it.
type TupleDesc struct {
	Attrs []Attr
}

// Width returns the number of columns, dropped ones included.
func (d *TupleDesc) Width() int {
	return len(d.Attrs)
}

// Cost is an estimated planner cost in the host's abstract cost units.
type Cost float64

// RestrictCost is the host's cost of evaluating a relation's
// restriction clauses.
type RestrictCost struct {
	Startup  Cost
	PerTuple Cost
}

// CostParams are the host cost-model constants relevant to a foreign
// sequential scan.
type CostParams struct {
	BlockSize    int
	SeqPageCost  Cost
	CPUTupleCost Cost
}

// DefaultCostParams mirror the host's stock settings.
func DefaultCostParams() CostParams {
	return CostParams{
		BlockSize:    8192,
		SeqPageCost:  1.0,
		CPUTupleCost: 0.01,
	}
}

// PlanContext is the per-query planner context handed to every planning
// callback.
type PlanContext struct {
	Cost CostParams
}

// RelOptInfo is the planner's working record for one foreign relation.
// The host fills the input fields before the first callback; the
// adapter fills Rows and keeps planning state in FdwPrivate between
// callbacks.
type RelOptInfo struct {
	Name    string
	Desc    *TupleDesc
	Options OptionSet

	// Usage is the set of columns referenced by the query's output
	// list, join conditions, and restriction clauses.
	Usage *ColumnUsage

	// RestrictCost and ClauseSelectivity come from the host's own
	// clause estimator; the adapter treats them as opaque.
	RestrictCost      RestrictCost
	ClauseSelectivity float64

	Rows       float64
	FdwPrivate any
}

// NewRelOptInfo builds a relation record with no clause restrictions.
func NewRelOptInfo(name string, desc *TupleDesc, opts OptionSet) *RelOptInfo {
	return &RelOptInfo{
		Name:              name,
		Desc:              desc,
		Options:           opts,
		Usage:             NewColumnUsage(),
		ClauseSelectivity: 1.0,
	}
}

// Path is one candidate access path for a foreign relation.
type Path struct {
	Rows        float64
	StartupCost Cost
	TotalCost   Cost
	Private     any
}

// ScanPlan is the adapter's immutable per-query plan payload, carried
// opaquely from plan construction to every execution of the plan.
type ScanPlan any

// ForeignTable is the planning-side callback set a foreign-table
// adapter implements. The host invokes EstimateSize, then Paths, then
// Plan during query compilation, and BeginScan once per execution.
type ForeignTable interface {
	EstimateSize(ctx *PlanContext, rel *RelOptInfo) error
	Paths(ctx *PlanContext, rel *RelOptInfo) ([]Path, error)
	Plan(ctx *PlanContext, rel *RelOptInfo, best Path) (ScanPlan, error)
	BeginScan(plan ScanPlan) (Scan, error)
}

// Scan is one execution of a foreign scan. The host pulls rows with
// Next, may restart iteration with Rescan, and always calls Close.
type Scan interface {
	// Next advances to the next row, filling slot and reporting whether
	// a row was produced. After false the slot is left cleared.
	Next(slot *TupleSlot) (bool, error)
	Rescan() error
	Close() error
}

var (
	wrappersMu sync.RWMutex
	wrappers   = make(map[string]ForeignTable)
)

// Register makes a foreign-table adapter available under name. Meant to
// run at module load; re-registering a name replaces the previous
// adapter.
func Register(name string, ft ForeignTable) {
	wrappersMu.Lock()
	defer wrappersMu.Unlock()
	wrappers[name] = ft
}

// Wrapper returns the adapter registered under name.
func Wrapper(name string) (ForeignTable, bool) {
	wrappersMu.RLock()
	defer wrappersMu.RUnlock()
	ft, ok := wrappers[name]
	return ft, ok
}
