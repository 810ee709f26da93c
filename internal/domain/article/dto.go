package article

import "html/template"

type CreateArticleRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	Slug      string `json:"slug" validate:"omitempty,max=120,slug"`
	Excerpt   string `json:"excerpt" validate:"max=500"`
	Content   string `json:"content" validate:"required"`
	CoverURL  string `json:"cover_url" validate:"omitempty,max=1024"`
	Category  string `json:"category" validate:"omitempty,max=64"`
	Published bool   `json:"published"`
}

// UpdateArticleRequest patches an article; absent fields are kept.
type UpdateArticleRequest struct {
	Title     *string `json:"title" validate:"omitempty,max=200"`
	Slug      *string `json:"slug" validate:"omitempty,max=120,slug"`
	Excerpt   *string `json:"excerpt" validate:"omitempty,max=500"`
	Content   *string `json:"content"`
	CoverURL  *string `json:"cover_url" validate:"omitempty,max=1024"`
	Category  *string `json:"category" validate:"omitempty,max=64"`
	Published *bool   `json:"published"`
}

type PreviewRequest struct {
	Content string `json:"content"`
}

// View is an article with its rendered body.
type View struct {
	Article
	HTML template.HTML `json:"html"`
}

type ListResponse struct {
	Articles []Article `json:"articles"`
	Total    int       `json:"total"`
}

// Stats counts articles for the dashboard.
type Stats struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
}
