package plan

import (
	"math"

	"github.com/treefdw/treefdw/internal/host"
	"github.com/treefdw/treefdw/internal/treeio"
)

// bytesPerRow is the assumed on-disk width of one externalized row,
// used only to derive a page-count proxy for I/O costing. It is a
// deliberate approximation, not a measured size.
const bytesPerRow = 100

// cpuConvertFactor scales per-tuple CPU cost relative to a plain
// sequential scan, accounting for converting externally-typed values
// into host values.
const cpuConvertFactor = 1.5

// SizeEstimate is the relation-size estimate for one foreign scan.
type SizeEstimate struct {
	// Tuples is the reader's approximate total row count, before any
	// clause selectivity.
	Tuples float64
	// Pages is the page-count proxy derived from Tuples, minimum one.
	Pages int64
	// Rows is the post-selectivity row estimate exposed to the planner.
	Rows float64
}

// EstimateSize sizes a foreign table from the reader's approximate row
// count and the host's clause selectivity.
func EstimateSize(tbl treeio.Table, clauseSelectivity float64, blockSize int) SizeEstimate {
	ntuples := float64(tbl.ApproxRowCount())

	fsize := ntuples * bytesPerRow
	pages := int64(math.Ceil(fsize / float64(blockSize)))
	if pages < 1 {
		pages = 1
	}

	return SizeEstimate{
		Tuples: ntuples,
		Pages:  pages,
		Rows:   clampRowEstimate(ntuples * clauseSelectivity),
	}
}

// EstimateCosts prices the scan like a sequential scan of Pages blocks,
// with per-tuple CPU inflated by cpuConvertFactor, plus the host's own
// restriction-clause costs.
func EstimateCosts(cost host.CostParams, restrict host.RestrictCost, est SizeEstimate) (startup, total host.Cost) {
	runCost := cost.SeqPageCost * host.Cost(est.Pages)
	cpuPerTuple := cost.CPUTupleCost*cpuConvertFactor + restrict.PerTuple
	runCost += cpuPerTuple * host.Cost(est.Tuples)

	startup = restrict.Startup
	total = startup + runCost
	return startup, total
}

// clampRowEstimate forces a row estimate to a sane planner value:
// finite, at least one, and rounded to a whole row count.
func clampRowEstimate(nrows float64) float64 {
	if math.IsNaN(nrows) || nrows <= 1 {
		return 1
	}
	if math.IsInf(nrows, 1) {
		return math.MaxInt64
	}
	return math.Round(nrows)
}
