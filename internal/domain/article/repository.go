package article

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ListFilter narrows article listings. Zero values match everything.
type ListFilter struct {
	Category      string
	PublishedOnly bool
}

type Repository interface {
	Create(ctx context.Context, a *Article) error
	Update(ctx context.Context, a *Article) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Article, error)
	GetBySlug(ctx context.Context, slug string) (*Article, error)
	SlugExists(ctx context.Context, slug, exceptID string) (bool, error)
	List(ctx context.Context, f ListFilter) ([]Article, error)
	Count(ctx context.Context, publishedOnly bool) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Article) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) Update(ctx context.Context, a *Article) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Article{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrArticleNotFound
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Article, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Article, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *repository) first(ctx context.Context, query string, arg any) (*Article, error) {
	var a Article
	err := r.db.WithContext(ctx).Where(query, arg).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) SlugExists(ctx context.Context, slug, exceptID string) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&Article{}).Where("slug = ?", slug)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Article, error) {
	q := r.db.WithContext(ctx).Model(&Article{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.PublishedOnly {
		q = q.Where("published = ?", true).Order("published_at DESC")
	}
	var articles []Article
	err := q.Order("created_at DESC").Find(&articles).Error
	return articles, err
}

func (r *repository) Count(ctx context.Context, publishedOnly bool) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&Article{})
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	err := q.Count(&n).Error
	return n, err
}
