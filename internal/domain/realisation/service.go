package realisation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"diezagency/internal/database"
	"diezagency/internal/pkg/slug"
)

type Service struct {
	repo Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Realisation, error) {
	sl, err := s.resolveSlug(ctx, req.Slug, req.Title, "")
	if err != nil {
		return nil, err
	}

	now := s.now()
	re := &Realisation{
		ID:              uuid.NewString(),
		Title:           strings.TrimSpace(req.Title),
		Slug:            sl,
		Description:     strings.TrimSpace(req.Description),
		LongDescription: req.LongDescription,
		ImageURL:        req.ImageURL,
		Tags:            normalizeTags(req.Tags),
		Link:            req.Link,
		Featured:        req.Featured,
		DisplayOrder:    req.DisplayOrder,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, re); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create realisation: %w", err)
	}
	s.log.Info("realisation created", zap.String("id", re.ID), zap.String("slug", re.Slug))
	return re, nil
}

func (s *Service) Update(ctx context.Context, id string, req *UpdateRequest) (*Realisation, error) {
	re, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		re.Title = strings.TrimSpace(*req.Title)
	}
	if req.Slug != nil && *req.Slug != re.Slug {
		sl, err := s.resolveSlug(ctx, *req.Slug, re.Title, re.ID)
		if err != nil {
			return nil, err
		}
		re.Slug = sl
	}
	if req.Description != nil {
		re.Description = strings.TrimSpace(*req.Description)
	}
	if req.LongDescription != nil {
		re.LongDescription = *req.LongDescription
	}
	if req.ImageURL != nil {
		re.ImageURL = *req.ImageURL
	}
	if req.Tags != nil {
		re.Tags = normalizeTags(*req.Tags)
	}
	if req.Link != nil {
		re.Link = *req.Link
	}
	if req.Featured != nil {
		re.Featured = *req.Featured
	}
	if req.DisplayOrder != nil {
		re.DisplayOrder = *req.DisplayOrder
	}
	re.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, re); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("update realisation: %w", err)
	}
	return re, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id string) (*Realisation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*Realisation, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// List returns realisations in display order, optionally featured only.
func (s *Service) List(ctx context.Context, featuredOnly bool) ([]Realisation, error) {
	return s.repo.List(ctx, featuredOnly)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) resolveSlug(ctx context.Context, requested, title, exceptID string) (string, error) {
	sl := requested
	if sl == "" {
		sl = slug.Make(title)
	}
	if sl == "" {
		return "", ErrInvalidSlug
	}
	taken, err := s.repo.SlugExists(ctx, sl, exceptID)
	if err != nil {
		return "", fmt.Errorf("check slug: %w", err)
	}
	if taken {
		return "", ErrSlugTaken
	}
	return sl, nil
}

// normalizeTags trims tags and drops blanks and duplicates, keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
