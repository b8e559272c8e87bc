package model

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upperCaser = cases.Upper(language.Und)

// PropertyMap maps an uppercase key (ASCII [A-Z0-9_:]) to an ordered
// sequence of text values. Keys outside the declared Schema are passed
// through verbatim to the underlying format. Writing an empty sequence
// for a key deletes it.
type PropertyMap map[string][]string

// Clone returns a deep copy of m.
func (m PropertyMap) Clone() PropertyMap {
	out := make(PropertyMap, len(m))
	for k, v := range m {
		cp := make([]string, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

// Get returns the first value for key, or "" if absent.
func (m PropertyMap) Get(key string) string {
	if vs := m[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Set replaces key's value sequence with a single value, or deletes the
// key if value is empty.
func (m PropertyMap) Set(key, value string) {
	if value == "" {
		delete(m, key)
		return
	}
	m[key] = []string{value}
}

// NormalizeKey upper-cases a property key using Unicode case folding
// (language.Und, so no locale-specific casing like Turkish dotless-I
// applies) rather than a byte-wise ASCII upper-case, since a key coming
// from a free-form tag passed through from a non-English container
// should still normalize sanely.
func NormalizeKey(key string) string { return upperCaser.String(key) }

// SupportLevel records, for one schema entry, which container formats
// recognize the key and how it's projected onto each.
type SupportLevel struct {
	// Formats lists the containers that support this key.
	Formats []Format
	// Projection maps a Format to the format-specific name/path used
	// to store the key (an ID3v2 frame id, an MP4 atom name, a Vorbis
	// comment key, ...). Absent entries mean "same as the key itself".
	Projection map[Format]string
}

// Supports reports whether f is among the formats that support this key.
func (s SupportLevel) Supports(f Format) bool {
	for _, sf := range s.Formats {
		if sf == f {
			return true
		}
	}
	return false
}

// ProjectedName returns the format-specific name for this key under f,
// defaulting to the canonical key itself.
func (s SupportLevel) ProjectedName(key string, f Format) string {
	if name, ok := s.Projection[f]; ok {
		return name
	}
	return key
}

var allFormats = []Format{FormatMP3, FormatMP4, FormatFLAC, FormatOGG, FormatWAV}

// Schema is the closed registry of recognized property keys (C4). Keys
// not present here are still writable/readable — they pass through to
// the underlying format verbatim — but tooling built on Schema (e.g.
// validation, UI field lists) only ever sees these.
var Schema = map[string]SupportLevel{
	"MUSICBRAINZ_TRACKID": {
		Formats: allFormats,
		Projection: map[Format]string{
			FormatMP3: "UFID:http://musicbrainz.org",
			FormatMP4: "----:com.apple.iTunes:MusicBrainz Track Id",
		},
	},
	"MUSICBRAINZ_ALBUMID": {
		Formats: allFormats,
		Projection: map[Format]string{
			FormatMP4: "----:com.apple.iTunes:MusicBrainz Album Id",
		},
	},
	"MUSICBRAINZ_ARTISTID": {
		Formats: allFormats,
		Projection: map[Format]string{
			FormatMP4: "----:com.apple.iTunes:MusicBrainz Artist Id",
		},
	},
	"MUSICBRAINZ_ALBUMARTISTID": {
		Formats: allFormats,
		Projection: map[Format]string{
			FormatMP4: "----:com.apple.iTunes:MusicBrainz Album Artist Id",
		},
	},
	"MUSICBRAINZ_RELEASEGROUPID": {
		Formats: allFormats,
		Projection: map[Format]string{
			FormatMP4: "----:com.apple.iTunes:MusicBrainz Release Group Id",
		},
	},
	"ACOUSTID_ID": {
		Formats: allFormats,
		Projection: map[Format]string{
			FormatMP4: "----:com.apple.iTunes:Acoustid Id",
		},
	},
	"ACOUSTID_FINGERPRINT": {
		Formats: allFormats,
		Projection: map[Format]string{
			FormatMP4: "----:com.apple.iTunes:Acoustid Fingerprint",
		},
	},
	"REPLAYGAIN_TRACK_GAIN": {
		Formats: allFormats,
		Projection: map[Format]string{
			FormatMP4: "----:com.apple.iTunes:replaygain_track_gain",
		},
	},
	"REPLAYGAIN_TRACK_PEAK": {
		Formats: allFormats,
		Projection: map[Format]string{
			FormatMP4: "----:com.apple.iTunes:replaygain_track_peak",
		},
	},
	"REPLAYGAIN_ALBUM_GAIN": {
		Formats: allFormats,
		Projection: map[Format]string{
			FormatMP4: "----:com.apple.iTunes:replaygain_album_gain",
		},
	},
	"REPLAYGAIN_ALBUM_PEAK": {
		Formats: allFormats,
		Projection: map[Format]string{
			FormatMP4: "----:com.apple.iTunes:replaygain_album_peak",
		},
	},
}

// AppleSoundCheckMP4Item is the MP4 free-form atom key Apple Sound
// Check is stored under; on MP4 files it bypasses the generic property
// map.
const AppleSoundCheckMP4Item = "iTunNORM"

// AppleSoundCheckKey is the generic property-map key used on non-MP4
// formats.
const AppleSoundCheckKey = "APPLE_SOUND_CHECK"

// ReplayGainKeys lists the four property-map keys the batch scanner's
// "dynamics" record reads, in export order.
var ReplayGainKeys = []string{
	"REPLAYGAIN_TRACK_GAIN",
	"REPLAYGAIN_TRACK_PEAK",
	"REPLAYGAIN_ALBUM_GAIN",
	"REPLAYGAIN_ALBUM_PEAK",
}
