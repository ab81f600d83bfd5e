package repository

import (
	"context"
	"fmt"

	"github.com/nimasrn/ledger/internal/model"
	"github.com/nimasrn/ledger/pkg/db"
)

type MovementRepository struct {
	*db.DB
}

func NewMovementRepository(db *db.DB) *MovementRepository {
	return &MovementRepository{
		db,
	}
}

func (r *MovementRepository) Create(ctx context.Context, movement *model.Movement) (*model.Movement, error) {
	entity := toMovementEntity(movement)
	entity.ID = 0

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, foreignKeyError(movement.ClientID)
		}
		return nil, fmt.Errorf("create movement: %w", err)
	}

	return toMovementModel(entity), nil
}

// ListByClient returns the client's movements, newest date first.
func (r *MovementRepository) ListByClient(ctx context.Context, clientID int64) ([]*model.Movement, error) {
	var entities []*MovementEntity
	err := r.Read(ctx).
		Where("client_id = ?", clientID).
		Order("date DESC, id DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, fmt.Errorf("list movements of client %d: %w", clientID, err)
	}

	return toMovementModels(entities), nil
}

// Update replaces every mutable field. A missing id is not an error.
func (r *MovementRepository) Update(ctx context.Context, movement *model.Movement) error {
	err := r.Write(ctx).
		Model(&MovementEntity{}).
		Where("id = ?", movement.ID).
		Updates(map[string]any{
			"product":     movement.Product,
			"quantity":    movement.Quantity,
			"unit_price":  movement.UnitPrice,
			"amount_paid": movement.AmountPaid,
			"date":        movement.Date,
		}).
		Error
	if err != nil {
		return fmt.Errorf("update movement %d: %w", movement.ID, err)
	}
	return nil
}

// UpdateField sets one allow-listed column. The column name never comes
// from the caller, only from the allow-list.
func (r *MovementRepository) UpdateField(ctx context.Context, id int64, field model.MovementField, value any) error {
	column, ok := field.Column()
	if !ok {
		return model.NewValidationError("field_name", fmt.Sprintf("field %q is not allowed", string(field)))
	}

	err := r.Write(ctx).
		Model(&MovementEntity{}).
		Where("id = ?", id).
		Update(column, value).
		Error
	if err != nil {
		return fmt.Errorf("update movement %d %s: %w", id, column, err)
	}
	return nil
}

func (r *MovementRepository) Delete(ctx context.Context, id int64) error {
	err := r.Write(ctx).
		Where("id = ?", id).
		Delete(&MovementEntity{}).
		Error
	if err != nil {
		return fmt.Errorf("delete movement %d: %w", id, err)
	}
	return nil
}
