package contact

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListFilter narrows admin listings.
type ListFilter struct {
	Status *Status
	Limit  int
	Offset int
}

type Repository interface {
	// Create inserts c unless its submission id is already stored. It reports
	// whether a row was written.
	Create(ctx context.Context, c *Contact) (bool, error)
	GetByID(ctx context.Context, id int64) (*Contact, error)
	GetBySubmissionID(ctx context.Context, submissionID string) (*Contact, error)
	List(ctx context.Context, f ListFilter) ([]Contact, int64, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	// DeleteRepliedBefore removes answered leads created before t.
	DeleteRepliedBefore(ctx context.Context, t time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Contact) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "submission_id"}}, DoNothing: true}).
		Create(c)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Contact, error) {
	var c Contact
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) GetBySubmissionID(ctx context.Context, submissionID string) (*Contact, error) {
	var c Contact
	err := r.db.WithContext(ctx).Where("submission_id = ?", submissionID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Contact, int64, error) {
	q := r.db.WithContext(ctx).Model(&Contact{})
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contacts []Contact
	err := q.Order("created_at DESC").Order("id DESC").
		Limit(f.Limit).Offset(f.Offset).
		Find(&contacts).Error
	return contacts, total, err
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	res := r.db.WithContext(ctx).Model(&Contact{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&Contact{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	var rows []struct {
		Status Status
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&Contact{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[Status]int64{StatusNew: 0, StatusRead: 0, StatusReplied: 0}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *repository) DeleteRepliedBefore(ctx context.Context, t time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", StatusReplied, t).
		Delete(&Contact{})
	return res.RowsAffected, res.Error
}
