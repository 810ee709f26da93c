package upload

import "errors"

var (
	ErrUploadNotFound  = errors.New("upload not found")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("only images are allowed")
	ErrEmptyFile       = errors.New("file is empty")
	ErrInvalidFolder   = errors.New("folder must be articles or realisations")
	ErrInvalidConfig   = errors.New("invalid storage configuration")
)
