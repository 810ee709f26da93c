package realisation

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, r *Realisation) error
	Update(ctx context.Context, r *Realisation) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Realisation, error)
	GetBySlug(ctx context.Context, slug string) (*Realisation, error)
	SlugExists(ctx context.Context, slug, exceptID string) (bool, error)
	List(ctx context.Context, featuredOnly bool) ([]Realisation, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, re *Realisation) error {
	return r.db.WithContext(ctx).Create(re).Error
}

func (r *repository) Update(ctx context.Context, re *Realisation) error {
	return r.db.WithContext(ctx).Save(re).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Realisation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRealisationNotFound
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Realisation, error) {
	var re Realisation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&re).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRealisationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &re, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Realisation, error) {
	var re Realisation
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&re).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRealisationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &re, nil
}

func (r *repository) SlugExists(ctx context.Context, slug, exceptID string) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&Realisation{}).Where("slug = ?", slug)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

// List returns realisations by display order, oldest first on ties.
func (r *repository) List(ctx context.Context, featuredOnly bool) ([]Realisation, error) {
	q := r.db.WithContext(ctx).Order("display_order ASC").Order("created_at ASC")
	if featuredOnly {
		q = q.Where("featured = ?", true)
	}
	var out []Realisation
	err := q.Find(&out).Error
	return out, err
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Realisation{}).Count(&n).Error
	return n, err
}
