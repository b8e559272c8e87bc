package audiometa

import "go.audiometa.dev/audiometa/internal/model"

// Format is the closed set of container formats the engine recognizes.
type Format = model.Format

const (
	FormatOther = model.FormatOther
	FormatMP3   = model.FormatMP3
	FormatMP4   = model.FormatMP4
	FormatFLAC  = model.FormatFLAC
	FormatOGG   = model.FormatOGG
	FormatWAV   = model.FormatWAV
)

// KnownExtensions returns the lowercase, leading-dot extensions the
// batch scanner filters on by default.
func KnownExtensions() []string { return model.KnownExtensions() }

// Tag is the format-agnostic tag every container exposes. Empty text
// and zero numerics mean "unset".
type Tag = model.BasicTag

// PartialTag mirrors Tag but every field is a pointer, so a caller can
// express "leave Album untouched" versus "set Album to empty". Simple
// operations that write tags take a PartialTag and merge it onto the
// file's existing tag.
type PartialTag = model.PartialTag

// ClearTag returns the PartialTag that, once applied, blanks every
// field: empty strings and zero numerics.
func ClearTag() PartialTag { return model.ClearTag() }

// Properties reports a file's audio characteristics. It is read-only
// and computed once per open handle.
type Properties = model.AudioProperties

// PictureKind is the closed set of ID3v2 APIC picture types; other
// container formats map onto it by best-effort equivalence.
type PictureKind = model.PictureKind

const (
	PictureOther             = model.PictureOther
	PictureFileIcon          = model.PictureFileIcon
	PictureOtherFileIcon     = model.PictureOtherFileIcon
	PictureFrontCover        = model.PictureFrontCover
	PictureBackCover         = model.PictureBackCover
	PictureLeafletPage       = model.PictureLeafletPage
	PictureMedia             = model.PictureMedia
	PictureLeadArtist        = model.PictureLeadArtist
	PictureArtist            = model.PictureArtist
	PictureConductor         = model.PictureConductor
	PictureBand              = model.PictureBand
	PictureComposer          = model.PictureComposer
	PictureLyricist          = model.PictureLyricist
	PictureRecordingLocation = model.PictureRecordingLocation
	PictureDuringRecording   = model.PictureDuringRecording
	PictureDuringPerformance = model.PictureDuringPerformance
	PictureVideoCapture      = model.PictureVideoCapture
	PictureFish              = model.PictureFish
	PictureIllustration      = model.PictureIllustration
	PictureBandLogo          = model.PictureBandLogo
	PicturePublisherLogo     = model.PicturePublisherLogo
)

// Picture is one embedded image attached to a file.
type Picture = model.Picture

// PropertyMap maps an uppercase key (ASCII [A-Z0-9_:]) to an ordered
// sequence of text values. Keys outside Schema pass through verbatim to
// the underlying format. Writing an empty sequence for a key deletes it.
type PropertyMap = model.PropertyMap

// NormalizeKey upper-cases a property key; Schema and the native façade
// both operate on uppercase ASCII keys.
func NormalizeKey(key string) string { return model.NormalizeKey(key) }

// Schema is the closed registry of recognized property keys. Keys not
// present here are still writable/readable — they pass through to the
// underlying format verbatim — but tooling built on Schema only ever
// sees these.
var Schema = model.Schema

// AppleSoundCheckMP4Item is the MP4 free-form atom key Apple Sound
// Check is stored under.
const AppleSoundCheckMP4Item = model.AppleSoundCheckMP4Item

// AppleSoundCheckKey is the generic property-map key used for Apple
// Sound Check on non-MP4 formats.
const AppleSoundCheckKey = model.AppleSoundCheckKey

// ReplayGainKeys lists the four ReplayGain property-map keys, in
// export order.
var ReplayGainKeys = model.ReplayGainKeys

// Rating is a single rater's normalized score for a file, in [0, 1].
type Rating = model.Rating

// PopmToRating converts a raw ID3v2 POPM byte (0-255) to a normalized
// rating, linearly interpolating between the standard breakpoints.
func PopmToRating(popm uint8) float32 { return model.PopmToRating(popm) }

// RatingToPopm converts a normalized rating back to a raw POPM byte.
func RatingToPopm(rating float32) uint8 { return model.RatingToPopm(rating) }

// FiveStarToRating converts a 0-5 (half-star granularity allowed) scale
// to a normalized rating.
func FiveStarToRating(stars float32) float32 { return model.FiveStarToRating(stars) }

// RatingToFiveStar converts a normalized rating back to a 0-5 scale.
func RatingToFiveStar(rating float32) float32 { return model.RatingToFiveStar(rating) }

// TenStarToRating converts a 0-10 scale to a normalized rating.
func TenStarToRating(stars float32) float32 { return model.TenStarToRating(stars) }

// RatingToTenStar converts a normalized rating back to a 0-10 scale.
func RatingToTenStar(rating float32) float32 { return model.RatingToTenStar(rating) }

// PercentToRating converts a 0-100 percentage to a normalized rating.
func PercentToRating(percent float32) float32 { return model.PercentToRating(percent) }

// RatingToPercent converts a normalized rating back to a 0-100 percentage.
func RatingToPercent(rating float32) float32 { return model.RatingToPercent(rating) }
