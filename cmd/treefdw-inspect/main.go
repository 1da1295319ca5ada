// treefdw-inspect drives the full foreign-scan path against a shard of
// TOML-backed memtree data files: option validation, shard resolution,
// size and cost estimation, projection, and row iteration.
//
// Example:
//
//	treefdw-inspect -shard 0 -tree hits -attr x:int -attr y:float -columns x
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/treefdw/treefdw"
	"github.com/treefdw/treefdw/internal/config"
	"github.com/treefdw/treefdw/internal/host"
	"github.com/treefdw/treefdw/internal/logutil"
	"github.com/treefdw/treefdw/internal/treeio/memtree"
)

// attrFlags collects repeatable -attr declarations.
type attrFlags []string

func (a *attrFlags) String() string {
	return strings.Join(*a, ",")
}

func (a *attrFlags) Set(v string) error {
	*a = append(*a, v)
	return nil
}

func main() {
	var (
		configPath = flag.String("config", "", "path to a TOML config file")
		shardID    = flag.Int("shard", 0, "shard to inspect")
		tree       = flag.String("tree", "", "tree to scan (required)")
		collection = flag.String("collection", "", "collection enclosing the tree")
		columns    = flag.String("columns", "", "comma-separated columns to project (default: all)")
		limit      = flag.Int("limit", 20, "maximum rows to print, 0 for none")
	)
	var attrs attrFlags
	flag.Var(&attrs, "attr", "attribute declaration as name:type (repeatable)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fatalf("%v", err)
		}
		cfg = loaded
	}
	logutil.Setup(cfg.LogLevel)

	if *tree == "" {
		fatalf("-tree is required")
	}

	// Build the option sets the way a host catalog would store them.
	serverOpts := host.Options{"shard": strconv.Itoa(*shardID)}
	tableOpts := host.Options{
		"tree":   *tree,
		"nattrs": strconv.Itoa(len(attrs)),
	}
	if *collection != "" {
		tableOpts["collection"] = *collection
	}
	for i, decl := range attrs {
		tableOpts[fmt.Sprintf("attr_%d", i+1)] = decl
	}

	w := treefdw.Register(treefdw.Config{ShardsPath: cfg.ShardsPath}, memtree.Open)

	if err := w.ValidateOptions(serverOpts, host.ScopeServer); err != nil {
		fatalf("server options: %v", err)
	}
	if err := w.ValidateOptions(tableOpts, host.ScopeTable); err != nil {
		fatalf("table options: %v", err)
	}

	// The host relation's columns mirror the declared attributes plus
	// the synthetic identifier columns, in that order.
	var hostAttrs []host.Attr
	for _, decl := range attrs {
		name, _, _ := strings.Cut(decl, ":")
		hostAttrs = append(hostAttrs, host.Attr{Name: name})
	}
	hostAttrs = append(hostAttrs, host.Attr{Name: *tree + "_id"})
	if *collection != "" {
		hostAttrs = append(hostAttrs, host.Attr{Name: *collection + "_id"})
	}
	desc := &host.TupleDesc{Attrs: hostAttrs}

	rel := host.NewRelOptInfo(*tree, desc, host.OptionSet{Server: serverOpts, Table: tableOpts})
	if *columns == "" {
		rel.Usage.AddWholeRow()
	} else {
		for _, name := range strings.Split(*columns, ",") {
			pos := columnOrdinal(desc, strings.TrimSpace(name))
			if pos < 0 {
				fatalf("unknown column %q", name)
			}
			rel.Usage.AddColumn(pos)
		}
	}

	ctx := &host.PlanContext{Cost: cfg.CostParams()}

	ft, ok := host.Wrapper(treefdw.WrapperName)
	if !ok {
		fatalf("wrapper %s not registered", treefdw.WrapperName)
	}
	if err := ft.EstimateSize(ctx, rel); err != nil {
		fatalf("estimate: %v", err)
	}
	paths, err := ft.Paths(ctx, rel)
	if err != nil {
		fatalf("paths: %v", err)
	}
	plan, err := ft.Plan(ctx, rel, paths[0])
	if err != nil {
		fatalf("plan: %v", err)
	}

	fmt.Printf("relation %s: rows=%.0f startup_cost=%.2f total_cost=%.2f\n",
		*tree, paths[0].Rows, paths[0].StartupCost, paths[0].TotalCost)

	if *limit == 0 {
		return
	}

	sc, err := ft.BeginScan(plan)
	if err != nil {
		fatalf("begin scan: %v", err)
	}
	defer sc.Close()

	var projected []int
	for i := range desc.Attrs {
		if !desc.Attrs[i].Dropped && rel.Usage.Uses(i) {
			projected = append(projected, i)
		}
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, pos := range projected {
		fmt.Fprintf(tw, "%s\t", desc.Attrs[pos].Name)
	}
	fmt.Fprintln(tw)

	slot := host.NewTupleSlot(desc.Width())
	for n := 0; n < *limit; n++ {
		ok, err := sc.Next(slot)
		if err != nil {
			fatalf("scan: %v", err)
		}
		if !ok {
			break
		}
		for _, pos := range projected {
			if slot.IsNull(pos) {
				fmt.Fprintf(tw, "-\t")
			} else {
				fmt.Fprintf(tw, "%v\t", slot.Get(pos))
			}
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}

func columnOrdinal(desc *host.TupleDesc, name string) int {
	for i := range desc.Attrs {
		if strings.EqualFold(desc.Attrs[i].Name, name) {
			return i
		}
	}
	return -1
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "treefdw-inspect: "+format+"\n", args...)
	os.Exit(1)
}
