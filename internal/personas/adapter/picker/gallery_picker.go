package picker

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gestion-personas/internal/personas/domain/model"
	apperrors "gestion-personas/internal/shared/errors"
	"gestion-personas/internal/shared/logger"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".heic": true,
}

// GalleryPicker selects images from a media directory standing in for the
// device library. The most recently modified image is the selection; an
// empty library is a cancellation.
type GalleryPicker struct {
	dir string
	log logger.Logger
}

// NewGalleryPicker creates a picker over dir
func NewGalleryPicker(dir string, log logger.Logger) *GalleryPicker {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &GalleryPicker{dir: dir, log: log.WithComponent("gallery_picker")}
}

// Pick implements repository.ImagePicker. Crop and quality options are
// recorded for the caller's editor; the picker returns the source image.
func (p *GalleryPicker) Pick(ctx context.Context, opts model.PickOptions) (model.PickResult, error) {
	if err := ctx.Err(); err != nil {
		return model.PickResult{}, err
	}

	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return model.PickResult{}, apperrors.NewPermissionDeniedError("media library is not accessible").
			WithDetail("dir", p.dir).
			WithCause(err)
	}

	var (
		newest  string
		newestM int64
	)
	for _, entry := range entries {
		if entry.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		mod := info.ModTime().UnixNano()
		// ties resolve by name so the choice is stable
		if newest == "" || mod > newestM || (mod == newestM && entry.Name() > newest) {
			newest, newestM = entry.Name(), mod
		}
	}

	if newest == "" {
		p.log.Debug("Media library has no images")
		return model.PickResult{Cancelled: true}, nil
	}

	abs, err := filepath.Abs(filepath.Join(p.dir, newest))
	if err != nil {
		return model.PickResult{}, apperrors.WrapError(err, "failed to resolve image path")
	}

	p.log.WithFields(map[string]interface{}{
		"image":   newest,
		"quality": opts.Quality,
		"aspect":  opts.Aspect,
	}).Debug("Image selected")

	return model.PickResult{URI: fileURI(abs)}, nil
}

func fileURI(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
