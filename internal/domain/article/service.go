package article

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"diezagency/internal/database"
	"diezagency/internal/pkg/markdown"
	"diezagency/internal/pkg/slug"
)

type Service struct {
	repo     Repository
	renderer *markdown.Renderer
	log      *zap.Logger
	now      func() time.Time
}

func NewService(repo Repository, renderer *markdown.Renderer, log *zap.Logger) *Service {
	return &Service{repo: repo, renderer: renderer, log: log, now: time.Now}
}

// Create stores a new article. The slug is derived from the title when empty.
func (s *Service) Create(ctx context.Context, req *CreateArticleRequest) (*Article, error) {
	category := req.Category
	if category == "" {
		category = DefaultCategory
	}
	if !ValidCategory(category) {
		return nil, ErrInvalidCategory
	}

	sl, err := s.resolveSlug(ctx, req.Slug, req.Title, "")
	if err != nil {
		return nil, err
	}

	now := s.now()
	a := &Article{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(req.Title),
		Slug:      sl,
		Excerpt:   strings.TrimSpace(req.Excerpt),
		Content:   req.Content,
		CoverURL:  req.CoverURL,
		Category:  category,
		Published: req.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if a.Published {
		a.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, a); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create article: %w", err)
	}
	s.log.Info("article created", zap.String("id", a.ID), zap.String("slug", a.Slug))
	return a, nil
}

// Update applies the non-nil fields of req. Publishing for the first time
// stamps published_at.
func (s *Service) Update(ctx context.Context, id string, req *UpdateArticleRequest) (*Article, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		a.Title = strings.TrimSpace(*req.Title)
	}
	if req.Slug != nil && *req.Slug != a.Slug {
		sl, err := s.resolveSlug(ctx, *req.Slug, a.Title, a.ID)
		if err != nil {
			return nil, err
		}
		a.Slug = sl
	}
	if req.Excerpt != nil {
		a.Excerpt = strings.TrimSpace(*req.Excerpt)
	}
	if req.Content != nil {
		a.Content = *req.Content
	}
	if req.CoverURL != nil {
		a.CoverURL = *req.CoverURL
	}
	if req.Category != nil {
		if !ValidCategory(*req.Category) {
			return nil, ErrInvalidCategory
		}
		a.Category = *req.Category
	}

	now := s.now()
	if req.Published != nil {
		a.Published = *req.Published
		if a.Published && a.PublishedAt == nil {
			a.PublishedAt = &now
		}
	}
	a.UpdatedAt = now

	if err := s.repo.Update(ctx, a); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("update article: %w", err)
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id string) (*Article, error) {
	return s.repo.GetByID(ctx, id)
}

// ListAll returns every article for the admin, drafts included.
func (s *Service) ListAll(ctx context.Context) ([]Article, error) {
	return s.repo.List(ctx, ListFilter{})
}

// ListPublished returns published articles newest first.
func (s *Service) ListPublished(ctx context.Context, category string) ([]Article, error) {
	if category != "" && !ValidCategory(category) {
		return nil, ErrInvalidCategory
	}
	return s.repo.List(ctx, ListFilter{Category: category, PublishedOnly: true})
}

// GetPublished returns a published article with its rendered body. Drafts
// are reported as not found.
func (s *Service) GetPublished(ctx context.Context, slug string) (*View, error) {
	a, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !a.Published {
		return nil, ErrArticleNotFound
	}
	html, err := s.renderer.Render(a.Content)
	if err != nil {
		return nil, err
	}
	return &View{Article: *a, HTML: html}, nil
}

// Preview renders markdown the way a published article would be.
func (s *Service) Preview(content string) (template.HTML, error) {
	return s.renderer.Render(content)
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	total, err := s.repo.Count(ctx, false)
	if err != nil {
		return Stats{}, err
	}
	published, err := s.repo.Count(ctx, true)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Total: total, Published: published}, nil
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
