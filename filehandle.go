package audiometa

import (
	"os"

	"go.audiometa.dev/audiometa/internal/bytesource"
	"go.audiometa.dev/audiometa/internal/errs"
	"go.audiometa.dev/audiometa/internal/nativehandle"
)

// FileHandle is a stateful audio-file object: it caches the native
// handle, exposes a mutable tag view, caches audio properties lazily,
// tracks partial-load state, and enforces disposal. Unlike the one-shot
// Simple Operations, a FileHandle stays open across several calls —
// callers that want to read tags, then properties, then save, without
// reopening the underlying container each time, use this directly.
//
// A FileHandle is not safe for concurrent use; no operation on it is
// reentrant.
type FileHandle struct {
	facade   nativehandle.Facade
	opener   nativehandle.Opener
	original bytesource.Input

	isPartial  bool
	propsCache *Properties
	disposed   bool
}

// openFileHandle constructs a FileHandle over an already-loaded native
// facade. loadResult carries whether the load was partial, needed for
// SaveToFile's promotion path.
func openFileHandle(opener nativehandle.Opener, facade nativehandle.Facade, load bytesource.Result) *FileHandle {
	return &FileHandle{
		facade:    facade,
		opener:    opener,
		original:  load.Original,
		isPartial: load.IsPartial,
	}
}

func (h *FileHandle) checkDisposed(op errs.MetadataOp, field string) error {
	if h.disposed {
		return errs.Metadata(op, field, errs.Initialization("file handle disposed", errs.Context{}))
	}
	return nil
}

// Tag returns the file's current basic tag.
func (h *FileHandle) Tag() (Tag, error) {
	if err := h.checkDisposed(errs.MetadataOpRead, "tag"); err != nil {
		return Tag{}, err
	}
	tag, ok := h.facade.Tag()
	if !ok {
		return Tag{}, errs.Metadata(errs.MetadataOpRead, "tag", nil)
	}
	return tag, nil
}

// SetTag writes tag through to the native handle immediately.
func (h *FileHandle) SetTag(tag Tag) error {
	if err := h.checkDisposed(errs.MetadataOpWrite, "tag"); err != nil {
		return err
	}
	return h.facade.SetTag(tag)
}

// AudioProperties returns the cached properties struct, populating the
// cache on first call. ok is false when the underlying container
// reports no properties.
func (h *FileHandle) AudioProperties() (props Properties, ok bool, err error) {
	if err := h.checkDisposed(errs.MetadataOpRead, "audioProperties"); err != nil {
		return Properties{}, false, err
	}
	if h.propsCache != nil {
		return *h.propsCache, true, nil
	}
	p, ok := h.facade.Properties()
	if !ok {
		return Properties{}, false, nil
	}
	h.propsCache = &p
	return p, true, nil
}

// Format reports the detected container format.
func (h *FileHandle) Format() Format { return h.facade.Format() }

// Save invalidates the properties cache and delegates to the native
// save, refusing when the handle is partial-loaded with an originating
// source (use SaveToFile instead, which re-materializes the full
// source first).
func (h *FileHandle) Save() (bool, error) {
	if err := h.checkDisposed(errs.MetadataOpWrite, "save"); err != nil {
		return false, err
	}
	if h.isPartial {
		return false, errs.Metadata(errs.MetadataOpWrite, "save",
			errs.UnsupportedFormat("partial-loaded handle cannot save in place; use SaveToFile", errs.Context{}))
	}
	h.propsCache = nil
	return h.facade.Save()
}

// GetFileBuffer returns the native buffer: empty when no save has
// occurred and the backing library does not retain the original bytes.
func (h *FileHandle) GetFileBuffer() ([]byte, error) {
	if err := h.checkDisposed(errs.MetadataOpRead, "buffer"); err != nil {
		return nil, err
	}
	return h.facade.Buffer()
}

// SaveToFile persists the handle's current state to path. If the
// handle was partial-loaded, it re-materializes the full source, opens
// a second native handle against it, copies every mutable slot across
// (basic tag, property map, pictures, ratings — MP4 items propagate via
// the property map since they are themselves property-map
// projections), saves that second handle, writes its buffer to path,
// releases it, and marks the receiver as no longer partial. If not
// partial, it saves in place and writes the resulting buffer to path.
func (h *FileHandle) SaveToFile(path string) error {
	if err := h.checkDisposed(errs.MetadataOpWrite, "saveToFile"); err != nil {
		return err
	}

	if !h.isPartial {
		if _, err := h.facade.Save(); err != nil {
			return err
		}
		buf, err := h.facade.Buffer()
		if err != nil {
			return err
		}
		return writeFile(path, buf)
	}

	full, err := bytesource.Load(h.original, bytesource.Options{Partial: false})
	if err != nil {
		return err
	}
	second, err := h.opener.OpenWritable(bytesource.BytesInput(full.Data))
	if err != nil {
		return err
	}
	defer second.Close()
	if !second.IsValid() {
		return errs.InvalidFormat("re-materialized source is not a valid audio file", len(full.Data))
	}

	if err := copyMutableState(h.facade, second); err != nil {
		return err
	}
	if _, err := second.Save(); err != nil {
		return err
	}
	buf, err := second.Buffer()
	if err != nil {
		return err
	}
	if err := writeFile(path, buf); err != nil {
		return err
	}

	h.isPartial = false
	h.propsCache = nil
	return nil
}

// copyMutableState copies every mutable slot from src onto dst: basic
// tag fields, the property map, pictures, and ratings. MP4 items are
// not copied directly — they are themselves property-map projections
// and ride along with GetProperties/SetProperties.
func copyMutableState(src, dst nativehandle.Facade) error {
	if tag, ok := src.Tag(); ok {
		if err := dst.SetTag(tag); err != nil {
			return err
		}
	}
	dst.SetProperties(src.GetProperties())
	if pics := src.GetPictures(); len(pics) > 0 {
		if err := dst.SetPictures(pics); err != nil {
			return err
		}
	}
	if ratings := src.GetRatings(); len(ratings) > 0 {
		if err := dst.SetRatings(ratings); err != nil {
			return err
		}
	}
	return nil
}

// Dispose releases the native handle. It is idempotent and safe to
// call twice; after disposal, any further method on h fails with a
// Metadata error.
func (h *FileHandle) Dispose() error {
	if h.disposed {
		return nil
	}
	h.disposed = true
	return h.facade.Close()
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.FileOperation(errs.FileOpWrite, path, err)
	}
	return nil
}
