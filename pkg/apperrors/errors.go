package apperrors

import "errors"

var (
	ErrTableNotFound              = errors.New("table not found")
	ErrInvalidCategoryValue       = errors.New("invalid category value")
	ErrIncompleteDimensionMapping = errors.New("incomplete dimension mapping")
	ErrUnmappedCategoryValue      = errors.New("unmapped category value")
	ErrTemplateNotFound           = errors.New("template not found")
	ErrPromptFileNotFound         = errors.New("prompt file not found")
	ErrMalformedModelOutput       = errors.New("malformed model output")
)
