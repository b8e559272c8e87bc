// Package wire implements the compact binary codec (C12) used to carry
// BasicTag, AudioProperties, and PropertyMap values across the one
// boundary in this engine that truly needs serialization: the sandbox
// subprocess's stdin/stdout pipe (internal/sandbox). The worker pool
// (internal/workerpool) is goroutine-based and passes Go values
// directly, so it does not need this codec — see DESIGN.md.
//
// BasicTag encoding is field-tagged (each field prefixed by a stable
// numeric tag; new fields append, and a decoder rejects a tag it does
// not know); AudioProperties and PropertyMap are encoded positionally.
// All encodings are deterministic for identical inputs: strings are
// UTF-8, integers are fixed-width little-endian, and PropertyMap keys
// are sorted before encoding.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"go.audiometa.dev/audiometa/internal/model"
)

// --- primitives ---

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func writeString(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func writeBytes(buf *bytes.Buffer, b []byte) {
	writeUint32(buf, uint32(len(b)))
	buf.Write(b)
}

func readBytes(r *bytes.Reader) ([]byte, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func writeBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func readBool(r *bytes.Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// Field tags for BasicTag. New fields get new tags appended after the
// last one in use; decoders stop at tagEnd.
const (
	tagEnd = iota
	tagTitle
	tagArtist
	tagAlbum
	tagComment
	tagGenre
	tagYear
	tagTrack
)

// EncodeBasicTag serializes t with a trailing tagEnd sentinel.
func EncodeBasicTag(t model.BasicTag) []byte {
	var buf bytes.Buffer
	buf.WriteByte(tagTitle)
	writeString(&buf, t.Title)
	buf.WriteByte(tagArtist)
	writeString(&buf, t.Artist)
	buf.WriteByte(tagAlbum)
	writeString(&buf, t.Album)
	buf.WriteByte(tagComment)
	writeString(&buf, t.Comment)
	buf.WriteByte(tagGenre)
	writeString(&buf, t.Genre)
	buf.WriteByte(tagYear)
	writeUint32(&buf, t.Year)
	buf.WriteByte(tagTrack)
	writeUint32(&buf, t.Track)
	buf.WriteByte(tagEnd)
	return buf.Bytes()
}

// DecodeBasicTag is the inverse of EncodeBasicTag. An unknown tag is
// not skipped: it makes the decode fail with an error, since this codec
// has no generic skip-length for unrecognized fields.
func DecodeBasicTag(b []byte) (model.BasicTag, error) {
	r := bytes.NewReader(b)
	var t model.BasicTag
	for {
		tagByte, err := r.ReadByte()
		if err != nil {
			return t, fmt.Errorf("wire: truncated BasicTag: %w", err)
		}
		switch tagByte {
		case tagEnd:
			return t, nil
		case tagTitle:
			if t.Title, err = readString(r); err != nil {
				return t, err
			}
		case tagArtist:
			if t.Artist, err = readString(r); err != nil {
				return t, err
			}
		case tagAlbum:
			if t.Album, err = readString(r); err != nil {
				return t, err
			}
		case tagComment:
			if t.Comment, err = readString(r); err != nil {
				return t, err
			}
		case tagGenre:
			if t.Genre, err = readString(r); err != nil {
				return t, err
			}
		case tagYear:
			if t.Year, err = readUint32(r); err != nil {
				return t, err
			}
		case tagTrack:
			if t.Track, err = readUint32(r); err != nil {
				return t, err
			}
		default:
			return t, fmt.Errorf("wire: unknown BasicTag field tag %d", tagByte)
		}
	}
}

// EncodePropertyMap serializes m with sorted keys so identical inputs
// always produce identical bytes.
func EncodePropertyMap(m model.PropertyMap) []byte {
	var buf bytes.Buffer
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	writeUint32(&buf, uint32(len(keys)))
	for _, k := range keys {
		writeString(&buf, k)
		values := m[k]
		writeUint32(&buf, uint32(len(values)))
		for _, v := range values {
			writeString(&buf, v)
		}
	}
	return buf.Bytes()
}

// DecodePropertyMap is the inverse of EncodePropertyMap.
func DecodePropertyMap(b []byte) (model.PropertyMap, error) {
	r := bytes.NewReader(b)
	n, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("wire: truncated PropertyMap: %w", err)
	}
	out := make(model.PropertyMap, n)
	for i := uint32(0); i < n; i++ {
		k, err := readString(r)
		if err != nil {
			return nil, err
		}
		vn, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		values := make([]string, vn)
		for j := uint32(0); j < vn; j++ {
			if values[j], err = readString(r); err != nil {
				return nil, err
			}
		}
		out[k] = values
	}
	return out, nil
}

// EncodeAudioProperties serializes p.
func EncodeAudioProperties(p model.AudioProperties) []byte {
	var buf bytes.Buffer
	writeUint32(&buf, p.LengthSeconds)
	writeUint32(&buf, p.BitrateKbps)
	writeUint32(&buf, p.SampleRateHz)
	buf.WriteByte(p.Channels)
	buf.WriteByte(p.BitsPerSample)
	writeString(&buf, p.Codec)
	writeString(&buf, p.Container)
	writeBool(&buf, p.IsLossless)
	return buf.Bytes()
}

// DecodeAudioProperties is the inverse of EncodeAudioProperties.
func DecodeAudioProperties(b []byte) (model.AudioProperties, error) {
	r := bytes.NewReader(b)
	var p model.AudioProperties
	var err error
	if p.LengthSeconds, err = readUint32(r); err != nil {
		return p, err
	}
	if p.BitrateKbps, err = readUint32(r); err != nil {
		return p, err
	}
	if p.SampleRateHz, err = readUint32(r); err != nil {
		return p, err
	}
	if p.Channels, err = r.ReadByte(); err != nil {
		return p, err
	}
	if p.BitsPerSample, err = r.ReadByte(); err != nil {
		return p, err
	}
	if p.Codec, err = readString(r); err != nil {
		return p, err
	}
	if p.Container, err = readString(r); err != nil {
		return p, err
	}
	if p.IsLossless, err = readBool(r); err != nil {
		return p, err
	}
	return p, nil
}
