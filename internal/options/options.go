// Package options validates foreign-object options and resolves them
// into a foreign table's shard, tree, and attribute schema.
package options

import (
	"sort"
	"strconv"
	"strings"

	"github.com/treefdw/treefdw/internal/fdwerr"
	"github.com/treefdw/treefdw/internal/host"
	"github.com/treefdw/treefdw/internal/shard"
	"github.com/treefdw/treefdw/internal/treeio"
)

// AttrOptionPrefix prefixes the repeatable per-attribute options
// ("attr_<key>" with a "name:type" value).
const AttrOptionPrefix = "attr_"

// TableOptions is the resolved configuration of one foreign table.
type TableOptions struct {
	Shard        int
	Tree         string
	Collection   string
	IsCollection bool
	Schema       *Schema
}

// Validate checks one scope's options at object-creation time: every
// option must be well formed and attached to the scope it belongs to.
// Resolution-only checks (the nattrs cross-check, the shard bound) run
// later, in Resolve.
func Validate(opts host.Options, scope host.Scope) error {
	shardOpt, hasShard := opts["shard"]
	_, hasTree := opts["tree"]
	_, hasCollection := opts["collection"]
	nattrs, hasNattrs := opts["nattrs"]

	if scope == host.ScopeServer && !hasShard {
		return fdwerr.Configf("'shard' option is required as a treefdw server option")
	}
	if scope != host.ScopeServer && hasShard {
		return fdwerr.Configf("'shard' option can only be used as a treefdw server option")
	}
	if hasShard {
		if _, err := parseNonNegative("shard", shardOpt); err != nil {
			return err
		}
	}

	if scope == host.ScopeTable && !hasTree {
		return fdwerr.Configf("'tree' option is required as a treefdw table option")
	}
	if scope != host.ScopeTable && hasTree {
		return fdwerr.Configf("'tree' option can only be used as a treefdw table option")
	}

	if scope != host.ScopeTable && hasCollection {
		return fdwerr.Configf("'collection' option can only be used as a treefdw table option")
	}

	if scope == host.ScopeTable && !hasNattrs {
		return fdwerr.Configf("'nattrs' option is required as a treefdw table option")
	}
	if scope != host.ScopeTable && hasNattrs {
		return fdwerr.Configf("'nattrs' option can only be used as a treefdw table option")
	}
	if hasNattrs {
		if _, err := parseNonNegative("nattrs", nattrs); err != nil {
			return err
		}
	}

	for key, value := range opts {
		if !strings.HasPrefix(key, AttrOptionPrefix) {
			continue
		}
		if scope != host.ScopeTable {
			return fdwerr.Configf("'%s' option can only be used as a treefdw table option", key)
		}
		if _, _, err := parseAttrOption(key, value); err != nil {
			return err
		}
	}

	return nil
}

// Resolve turns a merged option set into the table's shard, tree name,
// schema, and collection mode. The schema is the declared attributes
// extended with the synthetic identifier columns, and its length is
// cross-checked against nattrs.
func Resolve(merged host.Options) (*TableOptions, error) {
	shardID := -1
	nattrs := -1
	var tree, collection string
	isCollection := false

	if v, ok := merged["shard"]; ok {
		n, err := parseNonNegative("shard", v)
		if err != nil {
			return nil, err
		}
		shardID = n
	}
	if v, ok := merged["tree"]; ok {
		tree = v
	}
	if v, ok := merged["collection"]; ok {
		collection = v
		isCollection = true
	}
	if v, ok := merged["nattrs"]; ok {
		n, err := parseNonNegative("nattrs", v)
		if err != nil {
			return nil, err
		}
		nattrs = n
	}

	schema := NewSchema()
	for _, key := range attrOptionKeys(merged) {
		name, typ, err := parseAttrOption(key, merged[key])
		if err != nil {
			return nil, err
		}
		schema.Add(name, typ)
	}

	if tree == "" {
		return nil, fdwerr.Configf("'tree' option is required as a treefdw table option")
	}

	// Synthetic identifier columns go last: the tree identifier always,
	// the collection identifier in collection mode.
	schema.Add(tree+"_id", treeio.TreeID)
	if isCollection {
		schema.Add(collection+"_id", treeio.CollectionID)
	}

	if shardID < 0 || shardID >= shard.MaxShards {
		return nil, fdwerr.Configf("'shard' option refers to an unknown shard in treefdw")
	}
	if nattrs < 0 {
		return nil, fdwerr.Configf("'nattrs' option contains an invalid number of attributes in treefdw")
	}
	want := nattrs + 1
	if isCollection {
		want++
	}
	if schema.Len() != want {
		return nil, fdwerr.Configf("mismatch between 'nattrs' option and attributes specified as options in treefdw")
	}

	return &TableOptions{
		Shard:        shardID,
		Tree:         tree,
		Collection:   collection,
		IsCollection: isCollection,
		Schema:       schema,
	}, nil
}

// attrOptionKeys returns the attr_<key> option names in declaration
// order. The host stores options as a map, so order is reconstructed
// from the key suffixes, numerically when both are numbers.
func attrOptionKeys(opts host.Options) []string {
	var keys []string
	for k := range opts {
		if strings.HasPrefix(k, AttrOptionPrefix) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		a := strings.TrimPrefix(keys[i], AttrOptionPrefix)
		b := strings.TrimPrefix(keys[j], AttrOptionPrefix)
		an, aerr := strconv.Atoi(a)
		bn, berr := strconv.Atoi(b)
		if aerr == nil && berr == nil {
			return an < bn
		}
		return a < b
	})
	return keys
}

// parseAttrOption splits a "name:type" attribute declaration.
func parseAttrOption(key, value string) (string, treeio.AttrType, error) {
	name, tag, found := strings.Cut(value, ":")
	if name == "" {
		return "", treeio.Invalid,
			fdwerr.Configf("invalid attribute name for option %s in treefdw", key)
	}
	if !found || tag == "" {
		return "", treeio.Invalid,
			fdwerr.Configf("invalid attribute type for option %s in treefdw", key)
	}
	typ := treeio.ParseAttrType(tag)
	if typ == treeio.Invalid {
		return "", treeio.Invalid,
			fdwerr.Configf("invalid attribute type for field %s in treefdw", key)
	}
	return name, typ, nil
}

func parseNonNegative(option, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0, fdwerr.Configf("invalid value for option '%s' in treefdw: %q", option, value)
	}
	return n, nil
}
