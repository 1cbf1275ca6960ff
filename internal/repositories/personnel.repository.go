package repositories

import (
	"context"
	"errors"

	"muster/internal/database"
	"muster/internal/logger"
	. "muster/internal/models"
	"muster/internal/services"

	"gorm.io/gorm"
)

// PersonnelRepository is the row store behind identity resolution and the
// token lifecycle. Lookup methods return (nil, nil) when no row matches,
// so callers can translate absence into their own taxonomy.
type PersonnelRepository interface {
	GetByID(ctx context.Context, id int) (*Personnel, error)
	GetActiveByID(ctx context.Context, id int) (*Personnel, error)
	GetActiveByToken(ctx context.Context, token string) (*Personnel, error)
	GetByToken(ctx context.Context, token string) (*Personnel, error)
	GetAll(ctx context.Context) ([]*Personnel, error)
	Create(ctx context.Context, personnel *Personnel) error
	SetDeviceToken(ctx context.Context, id int, token *string) error
	Delete(ctx context.Context, id int) error
}

type personnelRepository struct {
	db  database.DB
	log logger.Logger
}

func NewPersonnel(db database.DB) PersonnelRepository {
	return &personnelRepository{
		db:  db,
		log: logger.New("personnelRepository"),
	}
}

func (r *personnelRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *personnelRepository) GetByID(ctx context.Context, id int) (*Personnel, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *personnelRepository) GetActiveByID(ctx context.Context, id int) (*Personnel, error) {
	return r.first(ctx, "id = ? AND is_active = ?", id, true)
}

func (r *personnelRepository) GetActiveByToken(ctx context.Context, token string) (*Personnel, error) {
	return r.first(ctx, "device_token = ? AND is_active = ?", token, true)
}

func (r *personnelRepository) GetByToken(ctx context.Context, token string) (*Personnel, error) {
	return r.first(ctx, "device_token = ?", token)
}

func (r *personnelRepository) first(ctx context.Context, query string, args ...any) (*Personnel, error) {
	log := r.log.Function("first")

	var personnel Personnel
	if err := r.getDB(ctx).Where(query, args...).First(&personnel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to query personnel", err, "query", query)
	}

	return &personnel, nil
}

func (r *personnelRepository) GetAll(ctx context.Context) ([]*Personnel, error) {
	log := r.log.Function("GetAll")

	var personnel []*Personnel
	if err := r.getDB(ctx).Order("name").Find(&personnel).Error; err != nil {
		return nil, log.Err("failed to list personnel", err)
	}

	return personnel, nil
}

func (r *personnelRepository) Create(ctx context.Context, personnel *Personnel) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(personnel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateToken
		}
		return log.Err("failed to create personnel", err, "personnel", personnel)
	}

	return nil
}

// SetDeviceToken writes a new token, or clears it when token is nil. The
// store's unique index is the authority on collisions.
func (r *personnelRepository) SetDeviceToken(ctx context.Context, id int, token *string) error {
	log := r.log.Function("SetDeviceToken")

	result := r.getDB(ctx).Model(&Personnel{}).Where("id = ?", id).Update("device_token", token)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateToken
		}
		return log.Err("failed to set device token", result.Error, "id", id)
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes the personnel row. Check-in history is deliberately kept
// for the audit trail.
func (r *personnelRepository) Delete(ctx context.Context, id int) error {
	log := r.log.Function("Delete")

	if err := r.getDB(ctx).Delete(&Personnel{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete personnel", err, "id", id)
	}

	return nil
}
