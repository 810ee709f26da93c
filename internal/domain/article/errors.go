package article

import "errors"

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrSlugTaken       = errors.New("slug already in use")
	ErrInvalidSlug     = errors.New("slug cannot be derived from title")
	ErrInvalidCategory = errors.New("unknown category")
)
