package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jask/lendtrack/internal/domain"
)

// FriendRepo handles friends.
type FriendRepo struct {
	db DBTX
}

func NewFriendRepo(db DBTX) *FriendRepo { return &FriendRepo{db: db} }

// Create inserts a friend called name and returns it with its assigned id.
func (r *FriendRepo) Create(ctx context.Context, name string) (domain.Friend, error) {
	f := domain.Friend{Name: name}
	err := r.db.QueryRowContext(ctx, `INSERT INTO friends (name) VALUES ($1) RETURNING id`, name).Scan(&f.ID)
	if err != nil {
		return domain.Friend{}, err
	}
	return f, nil
}

// Get returns nil, nil when no friend has id.
func (r *FriendRepo) Get(ctx context.Context, id int64) (*domain.Friend, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `SELECT id, name FROM friends WHERE id = $1`, id))
}

func (r *FriendRepo) List(ctx context.Context) ([]domain.Friend, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM friends ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []domain.Friend{}
	for rows.Next() {
		var f domain.Friend
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Delete removes the friend and reports whether a row existed.
func (r *FriendRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM friends WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *FriendRepo) scanOne(row *sql.Row) (*domain.Friend, error) {
	var f domain.Friend
	if err := row.Scan(&f.ID, &f.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}
