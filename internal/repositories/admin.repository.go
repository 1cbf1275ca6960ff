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

type AdminRepository interface {
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id int) (*Admin, error)
	GetByUsername(ctx context.Context, username string) (*Admin, error)
	Create(ctx context.Context, admin *Admin) error
	UpdatePasswordHash(ctx context.Context, id int, hash string) error
}

type adminRepository struct {
	db  database.DB
	log logger.Logger
}

func NewAdmin(db database.DB) AdminRepository {
	return &adminRepository{
		db:  db,
		log: logger.New("adminRepository"),
	}
}

func (r *adminRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *adminRepository) Count(ctx context.Context) (int64, error) {
	log := r.log.Function("Count")

	var count int64
	if err := r.getDB(ctx).Model(&Admin{}).Count(&count).Error; err != nil {
		return 0, log.Err("failed to count admins", err)
	}

	return count, nil
}

func (r *adminRepository) GetByID(ctx context.Context, id int) (*Admin, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*Admin, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *adminRepository) first(ctx context.Context, query string, args ...any) (*Admin, error) {
	log := r.log.Function("first")

	var admin Admin
	if err := r.getDB(ctx).Where(query, args...).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to query admin", err, "query", query)
	}

	return &admin, nil
}

func (r *adminRepository) Create(ctx context.Context, admin *Admin) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(admin).Error; err != nil {
		return log.Err("failed to create admin", err, "username", admin.Username)
	}

	return nil
}

func (r *adminRepository) UpdatePasswordHash(ctx context.Context, id int, hash string) error {
	log := r.log.Function("UpdatePasswordHash")

	err := r.getDB(ctx).Model(&Admin{}).Where("id = ?", id).Update("password_hash", hash).Error
	if err != nil {
		return log.Err("failed to update password hash", err, "id", id)
	}

	return nil
}
