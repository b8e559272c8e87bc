// Package nativehandle is a thin Go façade over the underlying
// audio-parsing library, exposed as a capability-sandboxed WASM module
// under wazero. It never parses a container itself — every operation is
// a single call across the WASM boundary, keeping the parsing library a
// black box.
package nativehandle

import "go.audiometa.dev/audiometa/internal/model"

// Facade is the full native-handle contract, implemented by Handle
// against a real WASM runtime and by any test double that needs to
// exercise the layers above it without a compiled parsing library.
type Facade interface {
	IsValid() bool
	Format() model.Format

	Tag() (model.BasicTag, bool)
	SetTag(model.BasicTag) error

	Properties() (model.AudioProperties, bool)

	GetProperties() model.PropertyMap
	SetProperties(model.PropertyMap)
	GetProperty(key string) (string, bool)
	SetProperty(key, value string)

	IsMP4() bool
	GetMP4Item(key string) (string, bool)
	SetMP4Item(key, value string) error
	RemoveMP4Item(key string) error

	GetPictures() []model.Picture
	SetPictures([]model.Picture) error
	AddPicture(model.Picture) error
	RemovePictures() error

	GetRatings() []model.Rating
	SetRatings([]model.Rating) error

	Save() (bool, error)
	Buffer() ([]byte, error)

	Close() error
}
