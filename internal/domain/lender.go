package domain

import (
	"context"
	"strings"
)

// Lender is the set of lending operations every front end drives. It is
// implemented by the local service (database) and by the HTTP API client.
type Lender interface {
	ListFriends(ctx context.Context) ([]Friend, error)
	AddFriend(ctx context.Context, name string) (Friend, error)
	RemoveFriend(ctx context.Context, id int64) error
	ItemsFor(ctx context.Context, friendID int64) ([]Item, error)
	Give(ctx context.Context, friendID int64, itemName string) (Item, error)
	TakeBack(ctx context.Context, itemID int64) error
}

// FindFriend resolves name against friends. An exact match wins; otherwise a
// single case-insensitive match is accepted. On a miss it returns up to three
// suggestions.
func FindFriend(friends []Friend, name string) (Friend, []string, bool) {
	idx, ok := find(FriendNames(friends), name)
	if !ok {
		return Friend{}, ClosestNames(name, FriendNames(friends), 3), false
	}
	return friends[idx], nil, true
}

// FindItem resolves name against items the same way FindFriend does.
func FindItem(items []Item, name string) (Item, []string, bool) {
	idx, ok := find(ItemNames(items), name)
	if !ok {
		return Item{}, ClosestNames(name, ItemNames(items), 3), false
	}
	return items[idx], nil, true
}

func find(names []string, name string) (int, bool) {
	name = NormalizeName(name)
	if name == "" {
		return -1, false
	}
	for i, n := range names {
		if n == name {
			return i, true
		}
	}
	match := -1
	for i, n := range names {
		if strings.EqualFold(n, name) {
			if match >= 0 {
				return -1, false
			}
			match = i
		}
	}
	return match, match >= 0
}
