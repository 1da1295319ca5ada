package fdwerr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindClassification(t *testing.T) {
	cfg := Configf("bad option %q", "shard")
	env := Envf("missing directory")
	internal := Internalf("schema out of sync")

	assert.True(t, IsConfig(cfg))
	assert.False(t, IsEnvironment(cfg))
	assert.False(t, IsInternal(cfg))

	assert.True(t, IsEnvironment(env))
	assert.True(t, IsInternal(internal))

	assert.False(t, IsConfig(fmt.Errorf("plain")))
	assert.False(t, IsConfig(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("resolving table: %w", Configf("unknown table"))
	assert.True(t, IsConfig(err))
	assert.ErrorContains(t, err, "configuration error: unknown table")
}
