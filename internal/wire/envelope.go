package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Method is the set of operations the sandbox subprocess (internal/sandbox)
// exposes over the wire.
type Method string

const (
	MethodReadTags       Method = "read_tags"
	MethodWriteTags      Method = "write_tags"
	MethodReadProperties Method = "read_properties"
)

// Request is one call crossing the sandbox's process boundary.
type Request struct {
	ID          string
	Method      Method
	VirtualPath string
	TagBytes    []byte // EncodeBasicTag output, for MethodWriteTags
}

// Response is the sandbox subprocess's answer to a Request.
type Response struct {
	ID          string
	OK          bool
	ErrorKind   string
	ErrorMsg    string
	TagBytes    []byte // EncodeBasicTag output, for MethodReadTags
	PropsBytes  []byte // EncodeAudioProperties output, for MethodReadProperties
}

// EncodeRequest serializes r for transport over a byte stream.
func EncodeRequest(r Request) []byte {
	var buf bytes.Buffer
	writeString(&buf, r.ID)
	writeString(&buf, string(r.Method))
	writeString(&buf, r.VirtualPath)
	writeBytes(&buf, r.TagBytes)
	return buf.Bytes()
}

// DecodeRequest is the inverse of EncodeRequest.
func DecodeRequest(b []byte) (Request, error) {
	r := bytes.NewReader(b)
	var req Request
	var err error
	if req.ID, err = readString(r); err != nil {
		return req, err
	}
	var m string
	if m, err = readString(r); err != nil {
		return req, err
	}
	req.Method = Method(m)
	if req.VirtualPath, err = readString(r); err != nil {
		return req, err
	}
	if req.TagBytes, err = readBytes(r); err != nil {
		return req, err
	}
	return req, nil
}

// EncodeResponse serializes resp for transport over a byte stream.
func EncodeResponse(resp Response) []byte {
	var buf bytes.Buffer
	writeString(&buf, resp.ID)
	writeBool(&buf, resp.OK)
	writeString(&buf, resp.ErrorKind)
	writeString(&buf, resp.ErrorMsg)
	writeBytes(&buf, resp.TagBytes)
	writeBytes(&buf, resp.PropsBytes)
	return buf.Bytes()
}

// DecodeResponse is the inverse of EncodeResponse.
func DecodeResponse(b []byte) (Response, error) {
	r := bytes.NewReader(b)
	var resp Response
	var err error
	if resp.ID, err = readString(r); err != nil {
		return resp, err
	}
	if resp.OK, err = readBool(r); err != nil {
		return resp, err
	}
	if resp.ErrorKind, err = readString(r); err != nil {
		return resp, err
	}
	if resp.ErrorMsg, err = readString(r); err != nil {
		return resp, err
	}
	if resp.TagBytes, err = readBytes(r); err != nil {
		return resp, err
	}
	if resp.PropsBytes, err = readBytes(r); err != nil {
		return resp, err
	}
	return resp, nil
}

// WriteFrame writes a length-prefixed frame to w: a 4-byte little-endian
// length followed by payload. Used on both ends of the sandbox's
// stdin/stdout pipe so messages never need delimiter-escaping.
func WriteFrame(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ReadFrame reads one length-prefixed frame written by WriteFrame.
func ReadFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	const maxFrame = 256 << 20
	if n > maxFrame {
		return nil, fmt.Errorf("wire: frame too large (%d bytes)", n)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}
