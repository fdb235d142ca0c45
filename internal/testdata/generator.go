package testdata

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/jask/lendtrack/internal/domain"
)

var sampleFriends = []string{"Alice", "Bob", "Charlie", "Dana", "Eve"}

var sampleItems = []string{
	"bike pump", "camping stove", "drill", "ladder", "board game",
	"tent", "umbrella", "cookbook", "headphones", "jump leads",
}

// Result reports what Seed created.
type Result struct {
	Friends int
	Items   int
}

// Seed creates sample friends and lends each of them a few items. Friends
// that already exist are reused, so seeding twice only adds items.
func Seed(ctx context.Context, l domain.Lender, r *rand.Rand) (Result, error) {
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	existing, err := l.ListFriends(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list friends: %w", err)
	}

	var res Result
	for _, name := range sampleFriends {
		f, _, ok := domain.FindFriend(existing, name)
		if !ok {
			f, err = l.AddFriend(ctx, name)
			if err != nil {
				return res, fmt.Errorf("add friend %s: %w", name, err)
			}
			res.Friends++
		}

		n := 1 + r.IntN(3)
		for _, i := range r.Perm(len(sampleItems))[:n] {
			if _, err := l.Give(ctx, f.ID, sampleItems[i]); err != nil {
				return res, fmt.Errorf("give %s to %s: %w", sampleItems[i], name, err)
			}
			res.Items++
		}
	}
	return res, nil
}
