package fixtures

import (
	"bytes"
	"fmt"

	"github.com/bogem/id3v2/v2"

	"go.audiometa.dev/audiometa/internal/model"
)

// minimalMPEGFrame is one silent 417-byte MPEG-1 Layer III frame at
// 44100 Hz stereo, 128 kbps: just enough for a container-detection pass
// to recognize the file as MP3 once an ID3v2 tag is prefixed to it.
var minimalMPEGFrame = func() []byte {
	frame := make([]byte, 417) // floor(144 * 128000 / 44100), no padding
	frame[0] = 0xFF
	frame[1] = 0xFB // MPEG-1, Layer III, no CRC
	frame[2] = 0x90 // bitrate index 9 (128kbps), sample rate index 0 (44100)
	frame[3] = 0x00 // stereo, no padding, no emphasis
	return frame
}()

// MP3Options configures MP3 fixture synthesis.
type MP3Options struct {
	Tag     model.BasicTag
	Picture *model.Picture
	Frames  int // number of repeated minimalMPEGFrame copies; default 4
}

// MP3 synthesizes a minimal MP3 byte stream carrying an ID3v2.4 tag
// built from opts, grounded on the id3v2.NewEmptyTag/WriteTo pattern
// used for in-memory tagging elsewhere in the corpus.
func MP3(opts MP3Options) ([]byte, error) {
	tag := id3v2.NewEmptyTag()
	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	if opts.Tag.Title != "" {
		tag.SetTitle(opts.Tag.Title)
	}
	if opts.Tag.Artist != "" {
		tag.SetArtist(opts.Tag.Artist)
	}
	if opts.Tag.Album != "" {
		tag.SetAlbum(opts.Tag.Album)
	}
	if opts.Tag.Genre != "" {
		tag.SetGenre(opts.Tag.Genre)
	}
	if opts.Tag.Year != 0 {
		tag.SetYear(fmt.Sprintf("%d", opts.Tag.Year))
	}
	if opts.Tag.Comment != "" {
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    "eng",
			Description: "",
			Text:        opts.Tag.Comment,
		})
	}
	if opts.Tag.Track != 0 {
		tag.AddTextFrame(tag.CommonID("Track number/Position in set"), id3v2.EncodingUTF8, fmt.Sprintf("%d", opts.Tag.Track))
	}
	if opts.Picture != nil {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    opts.Picture.MIMEType,
			PictureType: byte(opts.Picture.Type),
			Description: opts.Picture.Description,
			Picture:     opts.Picture.Data,
		})
	}

	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("fixtures: writing id3v2 tag: %w", err)
	}

	frames := opts.Frames
	if frames <= 0 {
		frames = 4
	}
	for i := 0; i < frames; i++ {
		buf.Write(minimalMPEGFrame)
	}
	return buf.Bytes(), nil
}
