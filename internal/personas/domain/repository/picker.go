package repository

import (
	"context"

	"gestion-personas/internal/personas/domain/model"
)

// ImagePicker is the device image-selection capability.
// Implementations return an error wrapping errors.ErrPermissionDenied when access
// to the image library is refused, and a cancelled result when nothing was chosen.
type ImagePicker interface {
	Pick(ctx context.Context, opts model.PickOptions) (model.PickResult, error)
}
