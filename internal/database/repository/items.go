package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jask/lendtrack/internal/domain"
)

// ItemRepo handles items currently lent out.
type ItemRepo struct {
	db DBTX
}

func NewItemRepo(db DBTX) *ItemRepo { return &ItemRepo{db: db} }

// Create records that name was lent to friendID at lentAt.
func (r *ItemRepo) Create(ctx context.Context, name string, friendID int64, lentAt time.Time) (domain.Item, error) {
	it := domain.Item{Name: name, FriendID: friendID, LentAt: lentAt}
	err := r.db.QueryRowContext(ctx, `
	INSERT INTO items (name, friend_id, lent_at) VALUES ($1, $2, $3)
	RETURNING id`, name, friendID, lentAt).Scan(&it.ID)
	if err != nil {
		return domain.Item{}, err
	}
	return it, nil
}

// Get returns nil, nil when no item has id.
func (r *ItemRepo) Get(ctx context.Context, id int64) (*domain.Item, error) {
	return scanItem(r.db.QueryRowContext(ctx, `SELECT id, name, friend_id, lent_at FROM items WHERE id = $1`, id))
}

func (r *ItemRepo) ListByFriend(ctx context.Context, friendID int64) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, name, friend_id, lent_at FROM items
	WHERE friend_id = $1
	ORDER BY lent_at, id`, friendID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []domain.Item{}
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.FriendID, &it.LentAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *ItemRepo) CountByFriend(ctx context.Context, friendID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items WHERE friend_id = $1`, friendID).Scan(&n)
	return n, err
}

// Delete removes the item and reports whether a row existed.
func (r *ItemRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanItem(row *sql.Row) (*domain.Item, error) {
	var it domain.Item
	if err := row.Scan(&it.ID, &it.Name, &it.FriendID, &it.LentAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}
