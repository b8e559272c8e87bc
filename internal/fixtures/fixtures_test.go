package fixtures_test

import (
	"bytes"
	"testing"

	"github.com/bogem/id3v2/v2"

	"go.audiometa.dev/audiometa/internal/fixtures"
	"go.audiometa.dev/audiometa/internal/model"
)

// TestFLACUnicodeRoundTrip builds a synthetic FLAC stream carrying a
// Unicode tag and parses it back with mewkiz/flac (a library
// independent of this package's own encoder), checking strings across
// several scripts survive byte-for-byte.
func TestFLACUnicodeRoundTrip(t *testing.T) {
	t.Parallel()

	strs := []string{
		"日本語タイトル",
		"Артист",
		"专辑",
		"😀🎵",
		"العربية",
		"Brian Eno—David Byrne",
	}

	for _, s := range strs {
		s := s
		t.Run(s, func(t *testing.T) {
			t.Parallel()

			want := model.BasicTag{Title: s, Artist: s, Album: s, Genre: s, Comment: s}
			data, err := fixtures.FLAC(fixtures.FLACOptions{Tag: want})
			if err != nil {
				t.Fatalf("FLAC: %v", err)
			}

			got, hasPicture, err := fixtures.VerifyFLAC(data)
			if err != nil {
				t.Fatalf("VerifyFLAC: %v", err)
			}
			if hasPicture {
				t.Fatal("expected no picture block")
			}
			if got != want {
				t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
			}
		})
	}
}

func TestFLACWithPicture(t *testing.T) {
	t.Parallel()

	pic := model.Picture{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}, Type: model.PictureFrontCover}
	data, err := fixtures.FLAC(fixtures.FLACOptions{
		Tag:     model.BasicTag{Title: "Cover test"},
		Picture: &pic,
	})
	if err != nil {
		t.Fatalf("FLAC: %v", err)
	}

	got, hasPicture, err := fixtures.VerifyFLAC(data)
	if err != nil {
		t.Fatalf("VerifyFLAC: %v", err)
	}
	if !hasPicture {
		t.Fatal("expected a picture block to be present")
	}
	if got.Title != "Cover test" {
		t.Fatalf("got title %q, want %q", got.Title, "Cover test")
	}
}

// TestMP3UnicodeRoundTrip builds a synthetic MP3 carrying an ID3v2.4 tag
// and parses it back with bogem/id3v2 directly (the same library this
// package used to write it, but through an independent read path), for
// strings across several scripts.
func TestMP3UnicodeRoundTrip(t *testing.T) {
	t.Parallel()

	strs := []string{
		"日本語タイトル",
		"Артист",
		"专辑",
		"😀🎵",
		"العربية",
	}

	for _, s := range strs {
		s := s
		t.Run(s, func(t *testing.T) {
			t.Parallel()

			data, err := fixtures.MP3(fixtures.MP3Options{
				Tag: model.BasicTag{Title: s, Artist: s, Album: s},
			})
			if err != nil {
				t.Fatalf("MP3: %v", err)
			}

			tag, err := id3v2.ParseReader(bytes.NewReader(data), id3v2.Options{Parse: true})
			if err != nil {
				t.Fatalf("id3v2.ParseReader: %v", err)
			}
			defer tag.Close()

			if got := tag.Title(); got != s {
				t.Fatalf("got title %q, want %q", got, s)
			}
			if got := tag.Artist(); got != s {
				t.Fatalf("got artist %q, want %q", got, s)
			}
			if got := tag.Album(); got != s {
				t.Fatalf("got album %q, want %q", got, s)
			}
		})
	}
}

func TestMP3WithPicture(t *testing.T) {
	t.Parallel()

	pic := model.Picture{MIMEType: "image/jpeg", Data: []byte{0xFF, 0xD8, 0xFF}, Type: model.PictureFrontCover, Description: "cover"}
	data, err := fixtures.MP3(fixtures.MP3Options{
		Tag:     model.BasicTag{Title: "Has cover"},
		Picture: &pic,
	})
	if err != nil {
		t.Fatalf("MP3: %v", err)
	}

	tag, err := id3v2.ParseReader(bytes.NewReader(data), id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("id3v2.ParseReader: %v", err)
	}
	defer tag.Close()

	pics := tag.GetFrames(tag.CommonID("Attached picture"))
	if len(pics) != 1 {
		t.Fatalf("got %d attached pictures, want 1", len(pics))
	}
	frame, ok := pics[0].(id3v2.PictureFrame)
	if !ok {
		t.Fatalf("frame is %T, want id3v2.PictureFrame", pics[0])
	}
	if frame.MimeType != pic.MIMEType {
		t.Fatalf("got mime %q, want %q", frame.MimeType, pic.MIMEType)
	}
	if !bytes.Equal(frame.Picture, pic.Data) {
		t.Fatal("picture bytes do not match")
	}
}
