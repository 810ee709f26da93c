package admin

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *AdminUser) error
	GetByID(ctx context.Context, id string) (*AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*AdminUser, error)
	Update(ctx context.Context, admin *AdminUser) error
	List(ctx context.Context) ([]AdminUser, error)
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *AdminUser) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*AdminUser, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*AdminUser, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *adminRepository) first(ctx context.Context, query string, arg any) (*AdminUser, error) {
	var admin AdminUser
	err := r.db.WithContext(ctx).Where(query, arg).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) Update(ctx context.Context, admin *AdminUser) error {
	return r.db.WithContext(ctx).Save(admin).Error
}

func (r *adminRepository) List(ctx context.Context) ([]AdminUser, error) {
	var admins []AdminUser
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&admins).Error
	return admins, err
}
