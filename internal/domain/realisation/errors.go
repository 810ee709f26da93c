package realisation

import "errors"

var (
	ErrRealisationNotFound = errors.New("realisation not found")
	ErrSlugTaken           = errors.New("slug already in use")
	ErrInvalidSlug         = errors.New("slug cannot be derived from title")
)
