// Package fixtures synthesizes minimal, valid audio byte streams for
// tests that would otherwise need a checked-in sample library. FLAC
// block bodies are hand-encoded rather than built through a
// higher-level metadata library, the same approach the Vorbis-comment
// and picture encoders in navidrums's tagging package take.
package fixtures

import (
	"bytes"
	"encoding/binary"
	"fmt"

	rawflac "github.com/go-flac/go-flac"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/meta"

	"go.audiometa.dev/audiometa/internal/model"
)

// FLACOptions configures FLAC fixture synthesis.
type FLACOptions struct {
	Tag        model.BasicTag
	Picture    *model.Picture
	SampleRate uint32 // default 44100
	Channels   uint8  // default 2
	BitDepth   uint8  // default 16
}

func (o FLACOptions) withDefaults() FLACOptions {
	if o.SampleRate == 0 {
		o.SampleRate = 44100
	}
	if o.Channels == 0 {
		o.Channels = 2
	}
	if o.BitDepth == 0 {
		o.BitDepth = 16
	}
	return o
}

// FLAC synthesizes a minimal valid FLAC stream: magic, a STREAMINFO
// block with no audio frames behind it, a VORBIS_COMMENT block carrying
// opts.Tag, and an optional PICTURE block.
func FLAC(opts FLACOptions) ([]byte, error) {
	opts = opts.withDefaults()

	var buf bytes.Buffer
	buf.WriteString("fLaC")

	streamInfo := encodeStreamInfo(opts.SampleRate, opts.Channels, opts.BitDepth, 0)
	vorbis := encodeVorbisComment(opts.Tag)

	var picture []byte
	if opts.Picture != nil {
		picture = encodePicture(*opts.Picture)
	}

	blocks := []*rawflac.MetaDataBlock{
		{Type: rawflac.StreamInfo, Data: streamInfo},
		{Type: rawflac.VorbisComment, Data: vorbis},
	}
	if picture != nil {
		blocks = append(blocks, &rawflac.MetaDataBlock{Type: rawflac.Picture, Data: picture})
	}

	for i, b := range blocks {
		buf.Write(b.Marshal(i == len(blocks)-1))
	}

	return buf.Bytes(), nil
}

// encodeStreamInfo packs the 34-byte METADATA_BLOCK_STREAMINFO body.
// MD5 is left zeroed, the convention for "not computed" when no audio
// frames follow.
func encodeStreamInfo(sampleRate uint32, channels, bitDepth uint8, totalSamples uint64) []byte {
	out := make([]byte, 34)

	const blockSize = 4096
	binary.BigEndian.PutUint16(out[0:2], blockSize)
	binary.BigEndian.PutUint16(out[2:4], blockSize)
	// minFrameSize/maxFrameSize (24 bits each) stay zero: unknown.

	packed := uint64(sampleRate&0xFFFFF)<<44 |
		uint64((channels-1)&0x7)<<41 |
		uint64((bitDepth-1)&0x1F)<<36 |
		(totalSamples & 0xFFFFFFFFF)
	binary.BigEndian.PutUint64(out[10:18], packed)

	return out
}

// encodeVorbisComment mirrors navidrums's internal/tagging encoder:
// little-endian-length-prefixed vendor string followed by length-prefixed
// "KEY=value" comment entries.
func encodeVorbisComment(tag model.BasicTag) []byte {
	var buf bytes.Buffer
	writeLE32 := func(n uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], n)
		buf.Write(b[:])
	}
	writeEntry := func(entries *[][2]string, key, value string) {
		if value != "" {
			*entries = append(*entries, [2]string{key, value})
		}
	}

	var entries [][2]string
	writeEntry(&entries, "TITLE", tag.Title)
	writeEntry(&entries, "ARTIST", tag.Artist)
	writeEntry(&entries, "ALBUM", tag.Album)
	writeEntry(&entries, "GENRE", tag.Genre)
	writeEntry(&entries, "COMMENT", tag.Comment)
	if tag.Year != 0 {
		writeEntry(&entries, "DATE", fmt.Sprintf("%d", tag.Year))
	}
	if tag.Track != 0 {
		writeEntry(&entries, "TRACKNUMBER", fmt.Sprintf("%d", tag.Track))
	}

	vendor := []byte("audiometa fixtures")
	writeLE32(uint32(len(vendor)))
	buf.Write(vendor)

	writeLE32(uint32(len(entries)))
	for _, kv := range entries {
		entry := []byte(kv[0] + "=" + kv[1])
		writeLE32(uint32(len(entry)))
		buf.Write(entry)
	}
	return buf.Bytes()
}

// encodePicture builds a METADATA_BLOCK_PICTURE body: big-endian 32-bit
// picture type, length-prefixed MIME type and description, zeroed
// width/height/color-depth/indexed-color words, then the length-prefixed
// image data.
func encodePicture(pic model.Picture) []byte {
	var buf bytes.Buffer
	write32 := func(v uint32) {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], v)
		buf.Write(b[:])
	}

	write32(uint32(pic.Type))
	mime := []byte(pic.MIMEType)
	write32(uint32(len(mime)))
	buf.Write(mime)
	desc := []byte(pic.Description)
	write32(uint32(len(desc)))
	buf.Write(desc)
	write32(0) // width
	write32(0) // height
	write32(0) // color depth
	write32(0) // indexed colors
	write32(uint32(len(pic.Data)))
	buf.Write(pic.Data)

	return buf.Bytes()
}

// VerifyFLAC parses b with mewkiz/flac and reports the decoded tag and
// picture presence, used by fixture tests to independently confirm
// what FLAC wrote is what a real parser reads back.
func VerifyFLAC(b []byte) (model.BasicTag, bool, error) {
	stream, err := flac.NewStream(bytes.NewReader(b))
	if err != nil {
		return model.BasicTag{}, false, fmt.Errorf("fixtures: parsing synthesized FLAC: %w", err)
	}

	var tag model.BasicTag
	var hasPicture bool
	for _, block := range stream.MetaBlocks {
		switch block.Header.BlockType {
		case meta.TypeVorbisComment:
			vc := block.Body.(*meta.VorbisComment)
			for _, kv := range vc.Tags {
				switch kv[0] {
				case "TITLE":
					tag.Title = kv[1]
				case "ARTIST":
					tag.Artist = kv[1]
				case "ALBUM":
					tag.Album = kv[1]
				case "GENRE":
					tag.Genre = kv[1]
				case "COMMENT":
					tag.Comment = kv[1]
				}
			}
		case meta.TypePicture:
			hasPicture = true
		}
	}
	return tag, hasPicture, nil
}
