// Package ops implements the one-shot metadata operations as a set of
// free functions over a HandleOpener, so the same logic serves both the
// in-process path (internal/nativehandle.Opener bound to the engine's
// own Runtime) and each worker-pool executor (which opens its own
// Facade per task, since façade state is never shared).
package ops

import (
	"go.audiometa.dev/audiometa/internal/bytesource"
	"go.audiometa.dev/audiometa/internal/errs"
	"go.audiometa.dev/audiometa/internal/model"
	"go.audiometa.dev/audiometa/internal/nativehandle"
)

// HandleOpener is the capability every Simple Operation needs: turn an
// Input into an open Facade, read-only or writable.
type HandleOpener interface {
	OpenReadOnly(bytesource.Input) (nativehandle.Facade, error)
	OpenWritable(bytesource.Input) (nativehandle.Facade, error)
}

func withReadOnly[T any](o HandleOpener, input bytesource.Input, fn func(nativehandle.Facade) (T, error)) (T, error) {
	var zero T
	h, err := o.OpenReadOnly(input)
	if err != nil {
		return zero, err
	}
	defer h.Close()
	if !h.IsValid() {
		return zero, errs.InvalidFormat("native handle reports invalid after load", 0)
	}
	return fn(h)
}

func withWritable(o HandleOpener, input bytesource.Input, fn func(nativehandle.Facade) error) error {
	h, err := o.OpenWritable(input)
	if err != nil {
		return err
	}
	defer h.Close()
	if !h.IsValid() {
		return errs.InvalidFormat("native handle reports invalid after load", 0)
	}
	return fn(h)
}

// ReadTags reads the BasicTag from input.
func ReadTags(o HandleOpener, input bytesource.Input) (model.BasicTag, error) {
	return withReadOnly(o, input, func(h nativehandle.Facade) (model.BasicTag, error) {
		tag, ok := h.Tag()
		if !ok {
			return model.BasicTag{}, errs.Metadata(errs.MetadataOpRead, "tag", nil)
		}
		return tag, nil
	})
}

// ApplyTags reads input, merges partial onto its existing tag, saves,
// and returns the resulting buffer — never the original bytes (see
// DESIGN.md for the reasoning).
func ApplyTags(o HandleOpener, input bytesource.Input, partial model.PartialTag) ([]byte, error) {
	var buf []byte
	err := withWritable(o, input, func(h nativehandle.Facade) error {
		existing, _ := h.Tag()
		if err := h.SetTag(partial.Merge(existing)); err != nil {
			return err
		}
		ok, err := h.Save()
		if err != nil {
			return err
		}
		if !ok {
			return errs.FileOperation(errs.FileOpSave, "", nil)
		}
		b, err := h.Buffer()
		if err != nil {
			return err
		}
		buf = b
		return nil
	})
	return buf, err
}

// UpdateTags reads path, merges partial onto its existing tag, and
// saves directly back to path. Unlike ApplyTags it requires a path.
func UpdateTags(o HandleOpener, path string, partial model.PartialTag) error {
	input := bytesource.PathInput(path)
	return withWritable(o, input, func(h nativehandle.Facade) error {
		existing, _ := h.Tag()
		if err := h.SetTag(partial.Merge(existing)); err != nil {
			return err
		}
		ok, err := h.Save()
		if err != nil {
			return err
		}
		if !ok {
			return errs.FileOperation(errs.FileOpSave, path, nil)
		}
		return nil
	})
}

// ReadProperties reads input's AudioProperties, raising Metadata.read
// when the native façade reports them absent.
func ReadProperties(o HandleOpener, input bytesource.Input) (model.AudioProperties, error) {
	return withReadOnly(o, input, func(h nativehandle.Facade) (model.AudioProperties, error) {
		props, ok := h.Properties()
		if !ok {
			return model.AudioProperties{}, errs.Metadata(errs.MetadataOpRead, "audioProperties", nil)
		}
		return props, nil
	})
}

// ReadFormat reads input's container format, ok is false if the handle
// is invalid.
func ReadFormat(o HandleOpener, input bytesource.Input) (model.Format, bool, error) {
	h, err := o.OpenReadOnly(input)
	if err != nil {
		return model.FormatOther, false, err
	}
	defer h.Close()
	if !h.IsValid() {
		return model.FormatOther, false, nil
	}
	return h.Format(), true, nil
}

// IsValidAudioFile never raises: it swallows every failure into false.
func IsValidAudioFile(o HandleOpener, input bytesource.Input) bool {
	h, err := o.OpenReadOnly(input)
	if err != nil {
		return false
	}
	defer h.Close()
	return h.IsValid()
}

// ClearTags applies empty strings and zero numerics to every BasicTag
// field and returns the resulting buffer.
func ClearTags(o HandleOpener, input bytesource.Input) ([]byte, error) {
	return ApplyTags(o, input, model.ClearTag())
}

// ReadPictures returns every embedded picture in input.
func ReadPictures(o HandleOpener, input bytesource.Input) ([]model.Picture, error) {
	return withReadOnly(o, input, func(h nativehandle.Facade) ([]model.Picture, error) {
		return h.GetPictures(), nil
	})
}

// ReadPictureMetadata is ReadPictures with Data stripped, for callers
// that only want mime/type/description without loading image bytes.
func ReadPictureMetadata(o HandleOpener, input bytesource.Input) ([]model.Picture, error) {
	pics, err := ReadPictures(o, input)
	if err != nil {
		return nil, err
	}
	out := make([]model.Picture, len(pics))
	for i, p := range pics {
		p.Data = nil
		out[i] = p
	}
	return out, nil
}

// ApplyPictures replaces input's picture sequence and returns the
// resulting buffer.
func ApplyPictures(o HandleOpener, input bytesource.Input, pics []model.Picture) ([]byte, error) {
	var buf []byte
	err := withWritable(o, input, func(h nativehandle.Facade) error {
		if err := h.SetPictures(pics); err != nil {
			return err
		}
		return saveAndBuffer(h, &buf)
	})
	return buf, err
}

// ApplyCoverArt sets a single FrontCover picture, replacing any
// existing pictures, and returns the resulting buffer.
func ApplyCoverArt(o HandleOpener, input bytesource.Input, data []byte, mime string) ([]byte, error) {
	return ApplyPictures(o, input, []model.Picture{{MIMEType: mime, Data: data, Type: model.PictureFrontCover}})
}

// AddPicture appends pic to input's existing pictures and returns the
// resulting buffer.
func AddPicture(o HandleOpener, input bytesource.Input, pic model.Picture) ([]byte, error) {
	var buf []byte
	err := withWritable(o, input, func(h nativehandle.Facade) error {
		if err := h.AddPicture(pic); err != nil {
			return err
		}
		return saveAndBuffer(h, &buf)
	})
	return buf, err
}

// ClearPictures removes every picture from input and returns the
// resulting buffer.
func ClearPictures(o HandleOpener, input bytesource.Input) ([]byte, error) {
	var buf []byte
	err := withWritable(o, input, func(h nativehandle.Facade) error {
		if err := h.RemovePictures(); err != nil {
			return err
		}
		return saveAndBuffer(h, &buf)
	})
	return buf, err
}

// ReadCoverArt returns the bytes of the first front-cover picture, or
// of the first picture if none is typed as front cover. Returns nil,
// nil when there are no pictures at all.
func ReadCoverArt(o HandleOpener, input bytesource.Input) ([]byte, error) {
	return withReadOnly(o, input, func(h nativehandle.Facade) ([]byte, error) {
		pics := h.GetPictures()
		if len(pics) == 0 {
			return nil, nil
		}
		for _, p := range pics {
			if p.Type == model.PictureFrontCover {
				return p.Data, nil
			}
		}
		return pics[0].Data, nil
	})
}

// FindPictureByType returns the first picture of kind, if any.
func FindPictureByType(o HandleOpener, input bytesource.Input, kind model.PictureKind) (model.Picture, bool, error) {
	pics, err := ReadPictures(o, input)
	if err != nil {
		return model.Picture{}, false, err
	}
	for _, p := range pics {
		if p.Type == kind {
			return p, true, nil
		}
	}
	return model.Picture{}, false, nil
}

// ReplacePictureByType replaces the first picture of kind with
// replacement (or appends it if none exists) and returns the resulting
// buffer.
func ReplacePictureByType(o HandleOpener, input bytesource.Input, kind model.PictureKind, replacement model.Picture) ([]byte, error) {
	var buf []byte
	err := withWritable(o, input, func(h nativehandle.Facade) error {
		pics := h.GetPictures()
		replaced := false
		for i, p := range pics {
			if p.Type == kind {
				pics[i] = replacement
				replaced = true
				break
			}
		}
		if !replaced {
			pics = append(pics, replacement)
		}
		if err := h.SetPictures(pics); err != nil {
			return err
		}
		return saveAndBuffer(h, &buf)
	})
	return buf, err
}

func saveAndBuffer(h nativehandle.Facade, out *[]byte) error {
	ok, err := h.Save()
	if err != nil {
		return err
	}
	if !ok {
		return errs.FileOperation(errs.FileOpSave, "", nil)
	}
	b, err := h.Buffer()
	if err != nil {
		return err
	}
	*out = b
	return nil
}
