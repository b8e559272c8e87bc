package wire_test

import (
	"testing"

	"go.audiometa.dev/audiometa/internal/model"
	"go.audiometa.dev/audiometa/internal/wire"
)

// TestBasicTagUnicodeRoundTrip checks strings across several scripts —
// emoji, CJK, RTL, combining marks, supplementary plane, mixed scripts —
// survive an encode/decode round trip byte-for-byte, since this codec is
// what carries BasicTag across the sandbox subprocess boundary.
func TestBasicTagUnicodeRoundTrip(t *testing.T) {
	t.Parallel()

	strs := []string{
		"",
		"ASCII title",
		"日本語タイトル",          // CJK
		"Артист",             // Cyrillic
		"专辑",                // CJK
		"😀🎵🎧",              // emoji, supplementary plane
		"العربية",            // RTL
		"ȩ́ combining", // combining marks
		"Brian Eno—David Byrne feat. 中文 and 😀",  // mixed scripts
		"𝔘𝔫𝔦𝔠𝔬𝔡𝔢",          // supplementary plane math alphanumerics
	}

	for _, s := range strs {
		s := s
		t.Run(s, func(t *testing.T) {
			t.Parallel()

			tag := model.BasicTag{Title: s, Artist: s, Album: s, Comment: s, Genre: s, Year: 2026, Track: 7}
			decoded, err := wire.DecodeBasicTag(wire.EncodeBasicTag(tag))
			if err != nil {
				t.Fatalf("DecodeBasicTag: %v", err)
			}
			if decoded != tag {
				t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, tag)
			}
		})
	}
}

func TestPropertyMapRoundTrip(t *testing.T) {
	t.Parallel()

	m := model.PropertyMap{
		"REPLAYGAIN_TRACK_GAIN": {"-6.54 dB"},
		"MUSICBRAINZ_ARTISTID":  {"id-one", "id-two"},
		"COMMENT":               {"日本語コメント"},
	}
	decoded, err := wire.DecodePropertyMap(wire.EncodePropertyMap(m))
	if err != nil {
		t.Fatalf("DecodePropertyMap: %v", err)
	}
	if len(decoded) != len(m) {
		t.Fatalf("got %d keys, want %d", len(decoded), len(m))
	}
	for k, v := range m {
		got, ok := decoded[k]
		if !ok {
			t.Fatalf("missing key %q after round trip", k)
		}
		if len(got) != len(v) {
			t.Fatalf("key %q: got %d values, want %d", k, len(got), len(v))
		}
		for i := range v {
			if got[i] != v[i] {
				t.Fatalf("key %q[%d]: got %q, want %q", k, i, got[i], v[i])
			}
		}
	}
}

func TestAudioPropertiesRoundTrip(t *testing.T) {
	t.Parallel()

	p := model.AudioProperties{
		LengthSeconds: 217,
		BitrateKbps:   320,
		SampleRateHz:  44100,
		Channels:      2,
		BitsPerSample: 16,
		Codec:         "FLAC",
		Container:     "FLAC",
		IsLossless:    true,
	}
	decoded, err := wire.DecodeAudioProperties(wire.EncodeAudioProperties(p))
	if err != nil {
		t.Fatalf("DecodeAudioProperties: %v", err)
	}
	if decoded != p {
		t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, p)
	}
}

func TestDecodeBasicTagTruncated(t *testing.T) {
	t.Parallel()

	if _, err := wire.DecodeBasicTag(nil); err == nil {
		t.Fatal("expected error decoding empty buffer, got nil")
	}
}
