package usecase

import (
	"errors"
	"io/fs"
	"syscall"

	"github.com/fuad00/rtspshot/internal/domain/entity"
)

// Category is the retry class of an attempt error.
type Category string

const (
	CategoryNone        Category = "ok"
	CategoryInvalid     Category = "invalid"
	CategoryRecoverable Category = "recoverable"
	CategoryFatal       Category = "fatal"
)

func Classify(err error) Category {
	switch {
	case err == nil:
		return CategoryNone
	case errors.Is(err, entity.ErrNoVideoTrack), errors.Is(err, entity.ErrUnusableVideo):
		return CategoryInvalid
	case errors.Is(err, entity.ErrOutOfMemory),
		errors.Is(err, entity.ErrPermission),
		errors.Is(err, entity.ErrInvalidData),
		errors.Is(err, entity.ErrNoFrame),
		errors.Is(err, fs.ErrPermission),
		errors.Is(err, syscall.ENOMEM):
		return CategoryRecoverable
	default:
		return CategoryFatal
	}
}
