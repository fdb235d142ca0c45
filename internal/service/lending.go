package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jask/lendtrack/internal/database"
	"github.com/jask/lendtrack/internal/database/repository"
	"github.com/jask/lendtrack/internal/domain"
)

var _ domain.Lender = (*LendingService)(nil)

// LendingService records friends and the items lent to them.
type LendingService struct {
	DB      *sql.DB
	Friends *repository.FriendRepo
	Items   *repository.ItemRepo

	// Now stamps new items; defaults to database.Now.
	Now func() time.Time
}

// NewLendingService wires repos over db.
func NewLendingService(db *sql.DB) *LendingService {
	return &LendingService{
		DB:      db,
		Friends: repository.NewFriendRepo(db),
		Items:   repository.NewItemRepo(db),
	}
}

func (s *LendingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC().Truncate(time.Second)
	}
	return database.Now()
}

func (s *LendingService) ListFriends(ctx context.Context) ([]domain.Friend, error) {
	friends, err := s.Friends.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return friends, nil
}

func (s *LendingService) Friend(ctx context.Context, id int64) (domain.Friend, error) {
	f, err := s.Friends.Get(ctx, id)
	if err != nil {
		return domain.Friend{}, fmt.Errorf("get friend %d: %w", id, err)
	}
	if f == nil {
		return domain.Friend{}, domain.ErrFriendNotFound
	}
	return *f, nil
}

// AddFriend registers a friend. Names are unique.
func (s *LendingService) AddFriend(ctx context.Context, name string) (domain.Friend, error) {
	name = domain.NormalizeName(name)
	if name == "" {
		return domain.Friend{}, domain.ErrNameRequired
	}
	f, err := s.Friends.Create(ctx, name)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.Friend{}, fmt.Errorf("%w: %s", domain.ErrDuplicateFriend, name)
		}
		return domain.Friend{}, fmt.Errorf("create friend: %w", err)
	}
	return f, nil
}

// RemoveFriend deletes a friend who holds no items.
func (s *LendingService) RemoveFriend(ctx context.Context, id int64) error {
	return database.WithTx(s.DB, func(tx *sql.Tx) error {
		friends := repository.NewFriendRepo(tx)
		items := repository.NewItemRepo(tx)

		f, err := friends.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("get friend %d: %w", id, err)
		}
		if f == nil {
			return domain.ErrFriendNotFound
		}
		n, err := items.CountByFriend(ctx, id)
		if err != nil {
			return fmt.Errorf("count items: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("%w: %s holds %d", domain.ErrFriendHasItems, f.Name, n)
		}
		if _, err := friends.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete friend %d: %w", id, err)
		}
		return nil
	})
}

func (s *LendingService) ItemsFor(ctx context.Context, friendID int64) ([]domain.Item, error) {
	f, err := s.Friends.Get(ctx, friendID)
	if err != nil {
		return nil, fmt.Errorf("get friend %d: %w", friendID, err)
	}
	if f == nil {
		return nil, domain.ErrFriendNotFound
	}
	items, err := s.Items.ListByFriend(ctx, friendID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (s *LendingService) Item(ctx context.Context, id int64) (domain.Item, error) {
	it, err := s.Items.Get(ctx, id)
	if err != nil {
		return domain.Item{}, fmt.Errorf("get item %d: %w", id, err)
	}
	if it == nil {
		return domain.Item{}, domain.ErrItemNotFound
	}
	return *it, nil
}

// Give records that itemName was lent to friendID.
func (s *LendingService) Give(ctx context.Context, friendID int64, itemName string) (domain.Item, error) {
	itemName = domain.NormalizeName(itemName)
	if itemName == "" {
		return domain.Item{}, domain.ErrNameRequired
	}
	if friendID <= 0 {
		return domain.Item{}, domain.ErrFriendRequired
	}

	var out domain.Item
	err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		f, err := repository.NewFriendRepo(tx).Get(ctx, friendID)
		if err != nil {
			return fmt.Errorf("get friend %d: %w", friendID, err)
		}
		if f == nil {
			return domain.ErrFriendNotFound
		}
		out, err = repository.NewItemRepo(tx).Create(ctx, itemName, friendID, s.now())
		if err != nil {
			return fmt.Errorf("create item: %w", err)
		}
		return nil
	})
	return out, err
}

// TakeBack records that an item came back by forgetting it.
func (s *LendingService) TakeBack(ctx context.Context, itemID int64) error {
	deleted, err := s.Items.Delete(ctx, itemID)
	if err != nil {
		return fmt.Errorf("delete item %d: %w", itemID, err)
	}
	if !deleted {
		return domain.ErrItemNotFound
	}
	return nil
}
