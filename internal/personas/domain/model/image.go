package model

// PickPurpose tells the image-selection capability what the image is for
type PickPurpose string

const (
	PickPurposePhoto PickPurpose = "photo"
	PickPurposeFile  PickPurpose = "file"
)

// AspectRatio is a width:height crop ratio
type AspectRatio struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PickOptions configures a single image selection
type PickOptions struct {
	Aspect       AspectRatio `json:"aspect"`
	Quality      float64     `json:"quality"`
	AllowEditing bool        `json:"allowEditing"`
}

// PickResult is either a cancellation or a single opaque URI
type PickResult struct {
	Cancelled bool   `json:"cancelled"`
	URI       string `json:"uri,omitempty"`
}

// OptionsFor returns the selection options used for purpose
func OptionsFor(purpose PickPurpose) PickOptions {
	opts := PickOptions{
		Aspect:       AspectRatio{Width: 1, Height: 1},
		Quality:      0.7,
		AllowEditing: true,
	}
	if purpose == PickPurposePhoto {
		opts.Quality = 0.5
	}
	return opts
}
