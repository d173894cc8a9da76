package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
)

// SettingsRepository reads the operator settings singleton. The engine
// re-reads it per operation or batch instead of caching it in-process, so
// admin changes take effect without a restart.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the settings row. The migration seeds it, so a missing row
// is a storage fault, not a normal state.
func (r *SettingsRepository) Get(ctx context.Context) (*entities.Settings, error) {
	query := `
		SELECT id, daily_percent, min_deposit, min_withdraw, withdraw_delay_hours, notice
		FROM settings
		WHERE id = $1
	`
	var settings entities.Settings
	if err := r.db.GetContext(ctx, &settings, query, entities.SettingsID); err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &settings, nil
}
