package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/lendtrack/internal/database"
)

// MaintenanceService houses destructive/ops actions surfaced through the CLI.
type MaintenanceService struct {
	DB     *sql.DB
	Driver string
}

// Reset wipes all user data. It keeps the schema intact so the app can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		for _, t := range []string{"items", "friends"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	if s.Driver == database.DriverSQLite {
		_, _ = s.DB.ExecContext(ctx, "VACUUM")
	}
	return nil
}

// Stats summarises what is currently lent out.
type Stats struct {
	Friends     int  `json:"friends"`
	ItemsLent   int  `json:"itemsLent"`
	Borrowers   int  `json:"borrowers"`
	SchemaVer   uint `json:"schemaVersion"`
	SchemaDirty bool `json:"schemaDirty"`
}

// Stats counts friends, outstanding items and friends holding at least one item.
func (s *MaintenanceService) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	row := s.DB.QueryRowContext(ctx, `
	SELECT
	 (SELECT COUNT(*) FROM friends),
	 (SELECT COUNT(*) FROM items),
	 (SELECT COUNT(DISTINCT friend_id) FROM items)`)
	if err := row.Scan(&st.Friends, &st.ItemsLent, &st.Borrowers); err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	ver, dirty, err := database.SchemaVersion(s.DB, s.Driver)
	if err != nil {
		return Stats{}, fmt.Errorf("schema version: %w", err)
	}
	st.SchemaVer, st.SchemaDirty = ver, dirty
	return st, nil
}
