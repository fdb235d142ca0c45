package testdata

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/lendtrack/internal/database"
	"github.com/jask/lendtrack/internal/service"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrations(db, database.DriverSQLite))
	svc := service.NewLendingService(db)

	res, err := Seed(ctx, svc, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	require.Equal(t, len(sampleFriends), res.Friends)
	require.GreaterOrEqual(t, res.Items, len(sampleFriends))

	friends, err := svc.ListFriends(ctx)
	require.NoError(t, err)
	require.Len(t, friends, len(sampleFriends))

	total := 0
	for _, f := range friends {
		items, err := svc.ItemsFor(ctx, f.ID)
		require.NoError(t, err)
		require.NotEmpty(t, items)
		total += len(items)
	}
	require.Equal(t, res.Items, total)

	again, err := Seed(ctx, svc, rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)
	require.Zero(t, again.Friends)
	friends, err = svc.ListFriends(ctx)
	require.NoError(t, err)
	require.Len(t, friends, len(sampleFriends))
}
