// Package shard caches one external-reader context per shard for the
// lifetime of the process.
package shard

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"

	"github.com/treefdw/treefdw/internal/fdwerr"
	"github.com/treefdw/treefdw/internal/logutil"
	"github.com/treefdw/treefdw/internal/treeio"
)

// MaxShards bounds the shard identifier space and the registry's
// capacity.
const MaxShards = 100

// EnvShardsPath names the environment variable holding the shards
// directory when no explicit directory is configured.
const EnvShardsPath = "SHARDS_PATH"

// Registry resolves shard identifiers to reader contexts. A shard is
// initialized on first resolution and cached for the process lifetime;
// there is no eviction and no reinitialization.
type Registry struct {
	open treeio.OpenFunc

	mu           deadlock.Mutex
	dir          string
	shards       map[int]treeio.Shard
	readManifest func(path string) ([]string, error)
}

// NewRegistry builds a registry over the given shards directory. An
// empty dir defers to the SHARDS_PATH environment variable at first
// resolution.
func NewRegistry(dir string, open treeio.OpenFunc) *Registry {
	return &Registry{
		open:         open,
		dir:          dir,
		shards:       make(map[int]treeio.Shard),
		readManifest: ReadManifest,
	}
}

// Resolve returns the reader context for shardID, initializing it on
// first use. The lock is held across initialization, so concurrent
// first resolutions of one shard initialize it at most once.
func (r *Registry) Resolve(shardID int) (treeio.Shard, error) {
	if shardID < 0 || shardID >= MaxShards {
		return nil, fdwerr.Configf("'shard' option refers to an unknown shard in treefdw")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if sh, ok := r.shards[shardID]; ok {
		return sh, nil
	}

	if r.dir == "" {
		r.dir = os.Getenv(EnvShardsPath)
		if r.dir == "" {
			return nil, fdwerr.Envf("%s environment variable required for treefdw", EnvShardsPath)
		}
	}

	path := filepath.Join(r.dir, fmt.Sprintf("shard-%d.files", shardID))
	files, err := r.readManifest(path)
	if err != nil {
		return nil, fdwerr.Envf("could not read shard manifest %q: %v", path, err)
	}

	sh, err := r.open(files)
	if err != nil {
		return nil, fdwerr.Internalf("failed to initialize reader for shard %d: %v", shardID, err)
	}

	logutil.Info("shard initialized",
		zap.Int("shard", shardID),
		zap.Int("files", len(files)))

	r.shards[shardID] = sh
	return sh, nil
}
