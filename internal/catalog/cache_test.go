package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cavidescun/314q34wefasd/pkg/platform/sentinel"
)

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	cache := NewInMemoryCache(time.Minute)
	cache.now = func() time.Time { return now }

	key := cacheKey(LookupProgram, "SISTEMAS", "PRESENCIAL", "D")
	assert.Equal(t, "homologation:catalog:program:SISTEMAS:PRESENCIAL:D", key)

	var codes ProgramCodes
	require.ErrorIs(t, cache.Find(ctx, key, &codes), sentinel.ErrNotFound)

	require.NoError(t, cache.Save(ctx, key, ProgramCodes{ProgramCode: "ISIS", CurriculumCode: "ISIS2D"}))
	require.NoError(t, cache.Find(ctx, key, &codes))
	assert.Equal(t, "ISIS2D", codes.CurriculumCode)

	now = now.Add(time.Minute)
	assert.ErrorIs(t, cache.Find(ctx, key, &codes), sentinel.ErrNotFound, "entries expire after the TTL")
}
