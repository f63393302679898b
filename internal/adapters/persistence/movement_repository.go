package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/skyquarter/airlift/internal/domain/asset"
	"github.com/skyquarter/airlift/internal/domain/shared"
	"github.com/skyquarter/airlift/internal/domain/warehouse"
)

// MovementRepository persists and queries the warehouse movement ledger
type MovementRepository interface {
	warehouse.MovementRecorder

	// Movements returns a warehouse's ledger, newest first
	Movements(ctx context.Context, warehouseName string, limit int) ([]warehouse.Movement, error)

	// IssuedSince counts units issued by a warehouse since the cutoff
	IssuedSince(ctx context.Context, warehouseName string, since time.Time) (int64, error)
}

// GormMovementRepository is a GORM-based implementation
type GormMovementRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormMovementRepository creates a movement ledger repository.
// If clock is nil, uses RealClock.
func NewGormMovementRepository(db *gorm.DB, clock shared.Clock) *GormMovementRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormMovementRepository{db: db, clock: clock}
}

// RecordMovement implements warehouse.MovementRecorder
func (r *GormMovementRepository) RecordMovement(ctx context.Context, m warehouse.Movement) error {
	at := m.At
	if at.IsZero() {
		at = r.clock.Now()
	}
	model := &MovementModel{
		Warehouse: m.Warehouse,
		Kind:      string(m.Kind),
		Template:  m.Template,
		Attribute: string(m.Attribute),
		Quantity:  m.Quantity,
		Timestamp: at,
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// Movements returns a warehouse's ledger, newest first
func (r *GormMovementRepository) Movements(ctx context.Context, warehouseName string, limit int) ([]warehouse.Movement, error) {
	var models []MovementModel

	query := r.db.WithContext(ctx).
		Where("warehouse = ?", warehouseName).
		Order("timestamp DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	movements := make([]warehouse.Movement, len(models))
	for i, model := range models {
		movements[i] = warehouse.Movement{
			Warehouse: model.Warehouse,
			Kind:      warehouse.MovementKind(model.Kind),
			Template:  model.Template,
			Attribute: asset.Attribute(model.Attribute),
			Quantity:  model.Quantity,
			At:        model.Timestamp,
		}
	}
	return movements, nil
}

// IssuedSince counts units issued by a warehouse since the cutoff
func (r *GormMovementRepository) IssuedSince(ctx context.Context, warehouseName string, since time.Time) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).
		Model(&MovementModel{}).
		Select("SUM(quantity)").
		Where("warehouse = ? AND kind = ? AND timestamp >= ?", warehouseName, string(warehouse.MovementIssue), since).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
