package audiometa

import (
	"go.audiometa.dev/audiometa/internal/errs"
	"go.audiometa.dev/audiometa/internal/nativehandle"
	"go.audiometa.dev/audiometa/internal/ops"
)

// defaultOpener is the HandleOpener every package-level Simple Operation
// uses when the caller does not go through an Engine. It is configured
// once via UseDefaultRuntime and left nil otherwise, in which case every
// operation below raises an Environment error — mirroring how the
// teacher's own package-level functions required a compiled WASM binary
// to be embedded before they could do anything.
var defaultOpener *nativehandle.Opener

// UseDefaultRuntime installs rt as the runtime backing every package-
// level Simple Operation (ReadTags, ApplyTags, ...). Call it once at
// program startup with a Runtime built from your own compiled parsing
// library. Programs that want worker-pool or sandbox dispatch, or more
// than one independent runtime, should use Initialize and an Engine
// instead — these package-level functions always run in-process against
// a single shared Runtime.
func UseDefaultRuntime(rt *nativehandle.Runtime) {
	defaultOpener = &nativehandle.Opener{Runtime: rt}
}

func requireDefaultOpener() (*nativehandle.Opener, error) {
	if defaultOpener == nil {
		return nil, errs.Environment("no default runtime installed; call UseDefaultRuntime or use Initialize/Engine instead", errs.Context{RequiredFeature: "Runtime"})
	}
	return defaultOpener, nil
}

// ReadTags reads input's basic tag using the default runtime.
func ReadTags(input Input) (Tag, error) {
	o, err := requireDefaultOpener()
	if err != nil {
		return Tag{}, err
	}
	return ops.ReadTags(o, input)
}

// ApplyTags merges partial onto input's existing tag and returns the
// resulting buffer.
func ApplyTags(input Input, partial PartialTag) ([]byte, error) {
	o, err := requireDefaultOpener()
	if err != nil {
		return nil, err
	}
	return ops.ApplyTags(o, input, partial)
}

// UpdateTags merges partial onto path's existing tag and saves back to
// path directly.
func UpdateTags(path string, partial PartialTag) error {
	o, err := requireDefaultOpener()
	if err != nil {
		return err
	}
	return ops.UpdateTags(o, path, partial)
}

// ReadProperties reads input's audio properties.
func ReadProperties(input Input) (Properties, error) {
	o, err := requireDefaultOpener()
	if err != nil {
		return Properties{}, err
	}
	return ops.ReadProperties(o, input)
}

// ReadFormat reads input's container format. ok is false if input could
// not be opened as a recognized audio file.
func ReadFormat(input Input) (format Format, ok bool, err error) {
	o, err := requireDefaultOpener()
	if err != nil {
		return FormatOther, false, err
	}
	format, ok, err = ops.ReadFormat(o, input)
	return format, ok, err
}

// IsValidAudioFile reports whether input opens as a recognized audio
// file. It never returns an error: any failure, including a missing
// default runtime, reports false.
func IsValidAudioFile(input Input) bool {
	o, err := requireDefaultOpener()
	if err != nil {
		return false
	}
	return ops.IsValidAudioFile(o, input)
}

// ClearTags blanks every BasicTag field on input and returns the
// resulting buffer.
func ClearTags(input Input) ([]byte, error) {
	o, err := requireDefaultOpener()
	if err != nil {
		return nil, err
	}
	return ops.ClearTags(o, input)
}

// ReadPictures returns every embedded picture in input.
func ReadPictures(input Input) ([]Picture, error) {
	o, err := requireDefaultOpener()
	if err != nil {
		return nil, err
	}
	return ops.ReadPictures(o, input)
}

// ReadPictureMetadata is ReadPictures with Data stripped.
func ReadPictureMetadata(input Input) ([]Picture, error) {
	o, err := requireDefaultOpener()
	if err != nil {
		return nil, err
	}
	return ops.ReadPictureMetadata(o, input)
}

// ApplyPictures replaces input's picture sequence and returns the
// resulting buffer.
func ApplyPictures(input Input, pics []Picture) ([]byte, error) {
	o, err := requireDefaultOpener()
	if err != nil {
		return nil, err
	}
	return ops.ApplyPictures(o, input, pics)
}

// ApplyCoverArt sets a single front-cover picture on input, replacing
// any existing pictures, and returns the resulting buffer.
func ApplyCoverArt(input Input, data []byte, mime string) ([]byte, error) {
	o, err := requireDefaultOpener()
	if err != nil {
		return nil, err
	}
	return ops.ApplyCoverArt(o, input, data, mime)
}

// AddPicture appends pic to input's existing pictures and returns the
// resulting buffer.
func AddPicture(input Input, pic Picture) ([]byte, error) {
	o, err := requireDefaultOpener()
	if err != nil {
		return nil, err
	}
	return ops.AddPicture(o, input, pic)
}

// ClearPictures removes every picture from input and returns the
// resulting buffer.
func ClearPictures(input Input) ([]byte, error) {
	o, err := requireDefaultOpener()
	if err != nil {
		return nil, err
	}
	return ops.ClearPictures(o, input)
}

// ReadCoverArt returns the bytes of input's front-cover picture, falling
// back to the first picture if none is typed as front cover.
func ReadCoverArt(input Input) ([]byte, error) {
	o, err := requireDefaultOpener()
	if err != nil {
		return nil, err
	}
	return ops.ReadCoverArt(o, input)
}

// FindPictureByType returns the first picture of kind in input, if any.
func FindPictureByType(input Input, kind PictureKind) (Picture, bool, error) {
	o, err := requireDefaultOpener()
	if err != nil {
		return Picture{}, false, err
	}
	return ops.FindPictureByType(o, input, kind)
}

// ReplacePictureByType replaces the first picture of kind in input with
// replacement (appending it if none exists) and returns the resulting
// buffer.
func ReplacePictureByType(input Input, kind PictureKind, replacement Picture) ([]byte, error) {
	o, err := requireDefaultOpener()
	if err != nil {
		return nil, err
	}
	return ops.ReplacePictureByType(o, input, kind, replacement)
}

// ReadTagsBatch reads the BasicTag of every input under bounded
// concurrency using the default runtime. A per-input failure is
// recorded in the result's Errors instead of aborting the batch, unless
// opts.ContinueOnError is false.
func ReadTagsBatch(inputs []Input, opts BatchOptions) TagBatchResult {
	o, err := requireDefaultOpener()
	if err != nil {
		failures := make([]ops.BatchError, len(inputs))
		for i, in := range inputs {
			failures[i] = ops.BatchError{Input: in, Err: err}
		}
		return TagBatchResult{Errors: failures}
	}
	return ops.ReadTagsBatch(inputs, opts, func(in Input) (Tag, error) {
		return ops.ReadTags(o, in)
	})
}

// ReadPropertiesBatch reads the AudioProperties of every input under
// bounded concurrency using the default runtime.
func ReadPropertiesBatch(inputs []Input, opts BatchOptions) PropertiesBatchResult {
	o, err := requireDefaultOpener()
	if err != nil {
		failures := make([]ops.BatchError, len(inputs))
		for i, in := range inputs {
			failures[i] = ops.BatchError{Input: in, Err: err}
		}
		return PropertiesBatchResult{Errors: failures}
	}
	return ops.ReadPropertiesBatch(inputs, opts, func(in Input) (Properties, error) {
		return ops.ReadProperties(o, in)
	})
}

// ReadMetadataBatch reads both the tag and the properties of every
// input under bounded concurrency using the default runtime.
func ReadMetadataBatch(inputs []Input, opts BatchOptions) MetadataBatchResult {
	o, err := requireDefaultOpener()
	if err != nil {
		failures := make([]ops.BatchError, len(inputs))
		for i, in := range inputs {
			failures[i] = ops.BatchError{Input: in, Err: err}
		}
		return MetadataBatchResult{Errors: failures}
	}
	return ops.ReadMetadataBatch(inputs, opts,
		func(in Input) (Tag, error) { return ops.ReadTags(o, in) },
		func(in Input) (Properties, error) { return ops.ReadProperties(o, in) },
	)
}
