package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jask/lendtrack/internal/client"
	"github.com/jask/lendtrack/internal/config"
	"github.com/jask/lendtrack/internal/database"
	"github.com/jask/lendtrack/internal/domain"
	"github.com/jask/lendtrack/internal/secrets"
	"github.com/jask/lendtrack/internal/service"
)

// backend is where lending commands send their work.
type backend struct {
	lender domain.Lender
	db     *sql.DB // nil when remote
	cfg    config.Config
	remote bool
}

func (b *backend) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

// openBackend picks the API client when remote is set, the local database otherwise.
func (o *options) openBackend(remote bool) (*backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if remote {
		return &backend{lender: o.newClient(cfg), cfg: cfg, remote: true}, nil
	}
	db, err := openDB(cfg.Database)
	if err != nil {
		return nil, err
	}
	return &backend{lender: service.NewLendingService(db), db: db, cfg: cfg}, nil
}

func (o *options) baseURL(cfg config.Config) string {
	if u := strings.TrimSpace(o.apiURL); u != "" {
		return u
	}
	return cfg.Client.BaseURL
}

// newClient builds an API client. The token comes from config or env first,
// then from the token store written by "lendtrack login".
func (o *options) newClient(cfg config.Config) *client.Client {
	base := o.baseURL(cfg)
	token := strings.TrimSpace(cfg.Client.Token)
	if token == "" {
		t, err := secrets.FetchToken(base)
		switch {
		case err == nil:
			token = t
		case !errors.Is(err, secrets.ErrNoToken):
			log.Printf("warn: reading stored token failed: %v", err)
		}
	}
	return client.New(base, client.WithTimeout(cfg.Client.Timeout), client.WithToken(token))
}

// openDB opens and migrates the configured database.
func openDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	if cfg.Driver == database.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir db dir: %w", err)
		}
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.RunMigrations(db, cfg.Driver); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// resolveFriend finds the friend called name.
func resolveFriend(ctx context.Context, l domain.Lender, name string) (domain.Friend, error) {
	friends, err := l.ListFriends(ctx)
	if err != nil {
		return domain.Friend{}, err
	}
	f, suggestions, ok := domain.FindFriend(friends, name)
	if !ok {
		return domain.Friend{}, fmt.Errorf("friend %q not found%s", domain.NormalizeName(name), didYouMean(suggestions))
	}
	return f, nil
}

// resolveItem finds the item called name among those lent to f.
func resolveItem(ctx context.Context, l domain.Lender, f domain.Friend, name string) (domain.Item, error) {
	items, err := l.ItemsFor(ctx, f.ID)
	if err != nil {
		return domain.Item{}, err
	}
	it, suggestions, ok := domain.FindItem(items, name)
	if !ok {
		return domain.Item{}, fmt.Errorf("%s has no item %q%s", f.Name, domain.NormalizeName(name), didYouMean(suggestions))
	}
	return it, nil
}
