package model

// Format is the closed set of container formats the engine recognizes.
// The native façade reports a wider native enum (see nativehandle);
// anything outside the five named containers collapses to Other.
type Format uint8

const (
	FormatOther Format = iota
	FormatMP3
	FormatMP4
	FormatFLAC
	FormatOGG
	FormatWAV
)

func (f Format) String() string {
	switch f {
	case FormatMP3:
		return "MP3"
	case FormatMP4:
		return "MP4"
	case FormatFLAC:
		return "FLAC"
	case FormatOGG:
		return "OGG"
	case FormatWAV:
		return "WAV"
	default:
		return "Other"
	}
}

// KnownExtensions returns the lowercase, leading-dot extensions the
// batch scanner filters on by default.
func KnownExtensions() []string {
	return []string{".mp3", ".m4a", ".mp4", ".flac", ".ogg", ".opus", ".wav"}
}
