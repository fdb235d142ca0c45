package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/lendtrack/internal/database"
	"github.com/jask/lendtrack/internal/domain"
)

func newTestService(t *testing.T) *LendingService {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrations(db, database.DriverSQLite))
	svc := NewLendingService(db)
	svc.Now = func() time.Time { return time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestAddFriend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	f, err := svc.AddFriend(ctx, "  Ada   Lovelace ")
	require.NoError(t, err)
	require.Equal(t, "Ada Lovelace", f.Name)

	_, err = svc.AddFriend(ctx, "Ada Lovelace")
	require.ErrorIs(t, err, domain.ErrDuplicateFriend)

	_, err = svc.AddFriend(ctx, "   ")
	require.ErrorIs(t, err, domain.ErrNameRequired)

	got, err := svc.Friend(ctx, f.ID)
	require.NoError(t, err)
	require.Equal(t, f, got)

	_, err = svc.Friend(ctx, f.ID+100)
	require.ErrorIs(t, err, domain.ErrFriendNotFound)
}

func TestGiveAndTakeBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	bob, err := svc.AddFriend(ctx, "Bob")
	require.NoError(t, err)

	it, err := svc.Give(ctx, bob.ID, " ladder ")
	require.NoError(t, err)
	require.Equal(t, "ladder", it.Name)
	require.Equal(t, bob.ID, it.FriendID)
	require.Equal(t, time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC), it.LentAt)

	items, err := svc.ItemsFor(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	stored, err := svc.Item(ctx, it.ID)
	require.NoError(t, err)
	require.Equal(t, "ladder", stored.Name)

	require.NoError(t, svc.TakeBack(ctx, it.ID))
	require.ErrorIs(t, svc.TakeBack(ctx, it.ID), domain.ErrItemNotFound)

	items, err = svc.ItemsFor(ctx, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)
}

func TestGiveValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	cases := []struct {
		name     string
		friendID int64
		item     string
		want     error
	}{
		{name: "blank item", friendID: 1, item: " ", want: domain.ErrNameRequired},
		{name: "no friend", friendID: 0, item: "saw", want: domain.ErrFriendRequired},
		{name: "unknown friend", friendID: 99, item: "saw", want: domain.ErrFriendNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Give(ctx, tc.friendID, tc.item)
			require.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestItemsForUnknownFriend(t *testing.T) {
	t.Parallel()
	_, err := newTestService(t).ItemsFor(context.Background(), 5)
	require.ErrorIs(t, err, domain.ErrFriendNotFound)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveFriend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	cy, err := svc.AddFriend(ctx, "Cy")
	require.NoError(t, err)
	it, err := svc.Give(ctx, cy.ID, "tent")
	require.NoError(t, err)

	require.ErrorIs(t, svc.RemoveFriend(ctx, cy.ID), domain.ErrFriendHasItems)

	require.NoError(t, svc.TakeBack(ctx, it.ID))
	require.NoError(t, svc.RemoveFriend(ctx, cy.ID))
	require.ErrorIs(t, svc.RemoveFriend(ctx, cy.ID), domain.ErrFriendNotFound)

	friends, err := svc.ListFriends(ctx)
	require.NoError(t, err)
	require.Empty(t, friends)
}

func TestMaintenance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)
	m := &MaintenanceService{DB: svc.DB, Driver: database.DriverSQLite}

	a, err := svc.AddFriend(ctx, "A")
	require.NoError(t, err)
	_, err = svc.AddFriend(ctx, "B")
	require.NoError(t, err)
	_, err = svc.Give(ctx, a.ID, "x")
	require.NoError(t, err)
	_, err = svc.Give(ctx, a.ID, "y")
	require.NoError(t, err)

	st, err := m.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, Stats{Friends: 2, ItemsLent: 2, Borrowers: 1, SchemaVer: 1}, st)

	require.NoError(t, m.Reset(ctx))
	st, err = m.Stats(ctx)
	require.NoError(t, err)
	require.Zero(t, st.Friends)
	require.Zero(t, st.ItemsLent)
}
