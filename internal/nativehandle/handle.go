package nativehandle

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tetratelabs/wazero/api"

	"go.audiometa.dev/audiometa/internal/errs"
	"go.audiometa.dev/audiometa/internal/model"
)

// nativeFormat mirrors the parsing library's own (wider) enum; Format
// collapses it onto the five supported containers.
type nativeFormat uint8

const (
	nativeUnknown nativeFormat = iota
	nativeMPEG
	nativeMP4
	nativeFLAC
	nativeOggVorbis
	nativeOggOpus
	nativeOggFLAC
	nativeOggSpeex
	nativeWAV
)

func (f nativeFormat) toFormat() model.Format {
	switch f {
	case nativeMPEG:
		return model.FormatMP3
	case nativeMP4:
		return model.FormatMP4
	case nativeFLAC:
		return model.FormatFLAC
	case nativeOggVorbis, nativeOggOpus, nativeOggFLAC, nativeOggSpeex:
		return model.FormatOGG
	case nativeWAV:
		return model.FormatWAV
	default:
		return model.FormatOther
	}
}

// Handle is a WASM-backed implementation of Facade. One Handle owns
// exactly one guest module instance; it must never be shared across
// goroutines, since no operation on it is reentrant.
type Handle struct {
	mod      module
	handle   uint32
	format   model.Format
	streamID uint32

	mu sync.Mutex
}

var _ Facade = (*Handle)(nil)

// Open opens path for reading and writing.
func (r *Runtime) Open(path string) (*Handle, error) {
	return r.openFile(path, false)
}

// OpenReadOnly opens path for reading only; the guest module is given a
// read-only directory mount.
func (r *Runtime) OpenReadOnly(path string) (*Handle, error) {
	return r.openFile(path, true)
}

// OpenStream opens an already-materialized byte stream. Used for the
// buffer-input case of the Simple Operations layer and for partial
// loads, where the caller has already sliced header+footer bytes.
func (r *Runtime) OpenStream(rs io.ReadSeeker) (*Handle, error) {
	id := registerStream(rs)
	mod, err := r.newStreamModule()
	if err != nil {
		unregisterStream(id)
		return nil, errs.Initialization("failed to instantiate parsing library module", errs.Context{})
	}

	var result wasmOpenResult
	if err := mod.call("taglib_stream_open", &result, wasmUint32(id)); err != nil {
		mod.close()
		unregisterStream(id)
		return nil, errs.InvalidFormat("stream open call failed", 0)
	}
	if result.handle == 0 {
		mod.close()
		unregisterStream(id)
		return nil, errs.InvalidFormat("unrecognized container", 0)
	}

	return &Handle{mod: mod, handle: result.handle, format: nativeFormat(result.format).toFormat(), streamID: id}, nil
}

func (r *Runtime) openFile(path string, readOnly bool) (*Handle, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errs.FileOperation(errs.FileOpStat, path, err)
	}

	mod, err := r.newModule(filepath.Dir(abs), readOnly)
	if err != nil {
		return nil, errs.Initialization("failed to instantiate parsing library module", errs.Context{})
	}

	var result wasmOpenResult
	if err := mod.call("taglib_file_open", &result, wasmString(wasmPath(abs))); err != nil {
		mod.close()
		return nil, errs.FileOperation(errs.FileOpRead, path, err)
	}
	if result.handle == 0 {
		mod.close()
		return nil, errs.InvalidFormat("unrecognized container", 0)
	}

	return &Handle{mod: mod, handle: result.handle, format: nativeFormat(result.format).toFormat()}, nil
}

// Close releases the guest module and any registered stream. Idempotent.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.handle == 0 {
		return nil
	}
	var out wasmBool
	_ = h.mod.call("taglib_file_close", &out, wasmUint32(h.handle))
	h.handle = 0
	if h.streamID != 0 {
		unregisterStream(h.streamID)
		h.streamID = 0
	}
	h.mod.close()
	return nil
}

func (h *Handle) IsValid() bool {
	var out wasmBool
	if err := h.mod.call("taglib_handle_is_valid", &out, wasmUint32(h.handle)); err != nil {
		return false
	}
	return bool(out)
}

func (h *Handle) Format() model.Format { return h.format }

// wasmBasicTag is the fixed-layout struct the guest returns for
// taglib_handle_tag: five strings plus two u32s, matching the
// BasicTag shape exactly (unlike GetProperties, which returns the
// generic property map).
type wasmBasicTag struct {
	present bool
	title   string
	artist  string
	album   string
	comment string
	genre   string
	year    uint32
	track   uint32
}

func (t *wasmBasicTag) decode(m *module, val uint64) {
	if val == 0 {
		return
	}
	ptr := uint32(val)
	t.present = true
	titlePtr, _ := m.mod.Memory().ReadUint32Le(ptr)
	artistPtr, _ := m.mod.Memory().ReadUint32Le(ptr + 4)
	albumPtr, _ := m.mod.Memory().ReadUint32Le(ptr + 8)
	commentPtr, _ := m.mod.Memory().ReadUint32Le(ptr + 12)
	genrePtr, _ := m.mod.Memory().ReadUint32Le(ptr + 16)
	t.year, _ = m.mod.Memory().ReadUint32Le(ptr + 20)
	t.track, _ = m.mod.Memory().ReadUint32Le(ptr + 24)
	if titlePtr != 0 {
		t.title = readString(m, titlePtr)
	}
	if artistPtr != 0 {
		t.artist = readString(m, artistPtr)
	}
	if albumPtr != 0 {
		t.album = readString(m, albumPtr)
	}
	if commentPtr != 0 {
		t.comment = readString(m, commentPtr)
	}
	if genrePtr != 0 {
		t.genre = readString(m, genrePtr)
	}
}

func (h *Handle) Tag() (model.BasicTag, bool) {
	var raw wasmBasicTag
	if err := h.mod.call("taglib_handle_tag", &raw, wasmUint32(h.handle)); err != nil || !raw.present {
		return model.BasicTag{}, false
	}
	return model.BasicTag{
		Title: raw.title, Artist: raw.artist, Album: raw.album,
		Comment: raw.comment, Genre: raw.genre, Year: raw.year, Track: raw.track,
	}, true
}

func (h *Handle) SetTag(tag model.BasicTag) error {
	var out wasmBool
	err := h.mod.call("taglib_handle_set_tag", &out, wasmUint32(h.handle),
		wasmString(tag.Title), wasmString(tag.Artist), wasmString(tag.Album),
		wasmString(tag.Comment), wasmString(tag.Genre), wasmUint32(tag.Year), wasmUint32(tag.Track))
	if err != nil || !bool(out) {
		return errs.Metadata(errs.MetadataOpWrite, "tag", err)
	}
	return nil
}

type wasmAudioProperties struct {
	present              bool
	lengthInMilliseconds uint32
	channels             uint32
	sampleRate           uint32
	bitrate              uint32
	bitsPerSample        uint32
	codec                string
	lossless             bool
}

func (p *wasmAudioProperties) decode(m *module, val uint64) {
	if val == 0 {
		return
	}
	ptr := uint32(val)
	p.present = true
	p.lengthInMilliseconds, _ = m.mod.Memory().ReadUint32Le(ptr)
	p.channels, _ = m.mod.Memory().ReadUint32Le(ptr + 4)
	p.sampleRate, _ = m.mod.Memory().ReadUint32Le(ptr + 8)
	p.bitrate, _ = m.mod.Memory().ReadUint32Le(ptr + 12)
	p.bitsPerSample, _ = m.mod.Memory().ReadUint32Le(ptr + 16)
	losslessByte, _ := m.mod.Memory().ReadByte(ptr + 20)
	p.lossless = losslessByte != 0
	codecPtr, _ := m.mod.Memory().ReadUint32Le(ptr + 24)
	if codecPtr != 0 {
		p.codec = readString(m, codecPtr)
	}
}

func (h *Handle) Properties() (model.AudioProperties, bool) {
	var raw wasmAudioProperties
	if err := h.mod.call("taglib_handle_properties", &raw, wasmUint32(h.handle)); err != nil || !raw.present {
		return model.AudioProperties{}, false
	}
	return model.AudioProperties{
		LengthSeconds: raw.lengthInMilliseconds / 1000,
		BitrateKbps:   raw.bitrate,
		SampleRateHz:  raw.sampleRate,
		Channels:      uint8(raw.channels),
		BitsPerSample: uint8(raw.bitsPerSample),
		Codec:         raw.codec,
		Container:     h.format.String(),
		IsLossless:    raw.lossless,
	}, true
}

func (h *Handle) GetProperties() model.PropertyMap {
	var raw wasmStrings
	if err := h.mod.call("taglib_handle_tags", &raw, wasmUint32(h.handle)); err != nil || raw == nil {
		return model.PropertyMap{}
	}
	out := model.PropertyMap{}
	for _, row := range raw {
		k, v, ok := strings.Cut(row, "\t")
		if !ok {
			continue
		}
		out[k] = append(out[k], v)
	}
	return out
}

func (h *Handle) SetProperties(pm model.PropertyMap) {
	var raw []string
	for k, vs := range pm {
		raw = append(raw, fmt.Sprintf("%s\t%s", k, strings.Join(vs, "\v")))
	}
	var out wasmBool
	_ = h.mod.call("taglib_handle_set_tags", &out, wasmUint32(h.handle), wasmStrings(raw))
}

func (h *Handle) GetProperty(key string) (string, bool) {
	var out wasmString
	if err := h.mod.call("taglib_handle_get_property", &out, wasmUint32(h.handle), wasmString(key)); err != nil {
		return "", false
	}
	if string(out) == "" {
		return "", false // empty text is surfaced as absent
	}
	return string(out), true
}

func (h *Handle) SetProperty(key, value string) {
	var out wasmBool
	_ = h.mod.call("taglib_handle_set_property", &out, wasmUint32(h.handle), wasmString(key), wasmString(value))
}

func (h *Handle) IsMP4() bool { return h.format == model.FormatMP4 }

func mp4UnsupportedErr(op string) error {
	return errs.UnsupportedFormat(fmt.Sprintf("%s requires an MP4/M4A file", op), errs.Context{
		RequiredFeature: "MP4, M4A",
	})
}

func (h *Handle) GetMP4Item(key string) (string, bool) {
	if !h.IsMP4() {
		return "", false
	}
	var out wasmString
	if err := h.mod.call("taglib_handle_get_mp4_item", &out, wasmUint32(h.handle), wasmString(key)); err != nil || string(out) == "" {
		return "", false
	}
	return string(out), true
}

func (h *Handle) SetMP4Item(key, value string) error {
	if !h.IsMP4() {
		return mp4UnsupportedErr("set_mp4_item")
	}
	var out wasmBool
	if err := h.mod.call("taglib_handle_set_mp4_item", &out, wasmUint32(h.handle), wasmString(key), wasmString(value)); err != nil || !bool(out) {
		return errs.Metadata(errs.MetadataOpWrite, key, err)
	}
	return nil
}

func (h *Handle) RemoveMP4Item(key string) error {
	if !h.IsMP4() {
		return mp4UnsupportedErr("remove_mp4_item")
	}
	var out wasmBool
	if err := h.mod.call("taglib_handle_remove_mp4_item", &out, wasmUint32(h.handle), wasmString(key)); err != nil || !bool(out) {
		return errs.Metadata(errs.MetadataOpWrite, key, err)
	}
	return nil
}

func (h *Handle) GetPictures() []model.Picture {
	n := h.pictureCount()
	out := make([]model.Picture, 0, n)
	for i := 0; i < n; i++ {
		pic, ok := h.pictureAt(i)
		if !ok {
			break
		}
		out = append(out, pic)
	}
	return out
}

func (h *Handle) pictureCount() int {
	var out wasmInt
	if err := h.mod.call("taglib_handle_picture_count", &out, wasmUint32(h.handle)); err != nil {
		return 0
	}
	return int(out)
}

func (h *Handle) pictureAt(index int) (model.Picture, bool) {
	var desc wasmStrings
	if err := h.mod.call("taglib_handle_picture_desc", &desc, wasmUint32(h.handle), wasmInt(index)); err != nil || len(desc) != 3 {
		return model.Picture{}, false
	}
	var kind int
	fmt.Sscanf(desc[0], "%d", &kind)

	var img wasmBytes
	if err := h.mod.call("taglib_handle_image", &img, wasmUint32(h.handle), wasmInt(index)); err != nil {
		return model.Picture{}, false
	}
	return model.Picture{
		Type:        model.PictureKind(kind),
		Description: desc[1],
		MIMEType:    desc[2],
		Data:        []byte(img),
	}, true
}

func (h *Handle) SetPictures(pics []model.Picture) error {
	if err := h.RemovePictures(); err != nil {
		return err
	}
	for _, p := range pics {
		if err := h.AddPicture(p); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handle) AddPicture(p model.Picture) error {
	index := h.pictureCount()
	var out wasmBool
	err := h.mod.call("taglib_handle_write_image", &out, wasmUint32(h.handle),
		wasmBytes(p.Data), wasmUint32(uint32(len(p.Data))), wasmInt(index),
		wasmString(fmt.Sprintf("%d", p.Type)), wasmString(p.Description), wasmString(p.MIMEType))
	if err != nil || !bool(out) {
		return errs.Metadata(errs.MetadataOpWrite, "picture", err)
	}
	return nil
}

func (h *Handle) RemovePictures() error {
	for {
		n := h.pictureCount()
		if n == 0 {
			return nil
		}
		var out wasmBool
		if err := h.mod.call("taglib_handle_write_image", &out, wasmUint32(h.handle),
			wasmBytes(nil), wasmUint32(0), wasmInt(0), wasmString(""), wasmString(""), wasmString("")); err != nil || !bool(out) {
			return errs.Metadata(errs.MetadataOpWrite, "picture", err)
		}
	}
}

func (h *Handle) GetRatings() []model.Rating {
	var raw wasmStrings
	if err := h.mod.call("taglib_handle_ratings", &raw, wasmUint32(h.handle)); err != nil {
		return nil
	}
	out := make([]model.Rating, 0, len(raw))
	for _, row := range raw {
		parts := strings.SplitN(row, "\t", 3)
		if len(parts) < 1 {
			continue
		}
		var r model.Rating
		var v float64
		fmt.Sscanf(parts[0], "%f", &v)
		r.Rating = float32(v)
		if len(parts) > 1 {
			r.Email = parts[1]
		}
		if len(parts) > 2 && parts[2] != "" {
			var c uint32
			fmt.Sscanf(parts[2], "%d", &c)
			r.Counter = c
			r.HasCounter = true
		}
		out = append(out, r)
	}
	return out
}

func (h *Handle) SetRatings(ratings []model.Rating) error {
	rows := make([]string, 0, len(ratings))
	for _, r := range ratings {
		counter := ""
		if r.HasCounter {
			counter = fmt.Sprintf("%d", r.Counter)
		}
		rows = append(rows, fmt.Sprintf("%f\t%s\t%s", r.Rating, r.Email, counter))
	}
	var out wasmBool
	if err := h.mod.call("taglib_handle_set_ratings", &out, wasmUint32(h.handle), wasmStrings(rows)); err != nil || !bool(out) {
		return errs.Metadata(errs.MetadataOpWrite, "ratings", err)
	}
	return nil
}

func (h *Handle) Save() (bool, error) {
	var out wasmBool
	if err := h.mod.call("taglib_handle_save", &out, wasmUint32(h.handle)); err != nil {
		return false, errs.FileOperation(errs.FileOpSave, "", err)
	}
	return bool(out), nil
}

func (h *Handle) Buffer() ([]byte, error) {
	var out wasmBytes
	if err := h.mod.call("taglib_handle_buffer", &out, wasmUint32(h.handle)); err != nil {
		return nil, errs.FileOperation(errs.FileOpRead, "", err)
	}
	return []byte(out), nil
}

// --- stream registry, used by OpenStream for io.ReadSeeker backends ---

var (
	streamMu  sync.RWMutex
	streams   = map[uint32]io.ReadSeeker{}
	nextID    uint32 = 1
)

func registerStream(r io.ReadSeeker) uint32 {
	streamMu.Lock()
	defer streamMu.Unlock()
	id := nextID
	nextID++
	streams[id] = r
	return id
}

func unregisterStream(id uint32) {
	streamMu.Lock()
	defer streamMu.Unlock()
	delete(streams, id)
}

func getStream(id uint32) io.ReadSeeker {
	streamMu.RLock()
	defer streamMu.RUnlock()
	return streams[id]
}

// Host functions exposed to the guest module for stream-backed I/O,
// registered once per Runtime by NewRuntime under the "go_io" host module.

func hostStreamRead(_ context.Context, m api.Module, streamID, bufPtr, length uint32) uint32 {
	r := getStream(streamID)
	if r == nil {
		return 0
	}
	buf := make([]byte, length)
	n, err := r.Read(buf)
	if err != nil && n == 0 {
		return 0
	}
	if n > 0 {
		m.Memory().Write(bufPtr, buf[:n])
	}
	return uint32(n)
}

func hostStreamSeek(_ context.Context, streamID uint32, offset int64, whence int32) int32 {
	r := getStream(streamID)
	if r == nil {
		return -1
	}
	if _, err := r.Seek(offset, int(whence)); err != nil {
		return -1
	}
	return 0
}

func hostStreamTell(_ context.Context, streamID uint32) int64 {
	r := getStream(streamID)
	if r == nil {
		return -1
	}
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return -1
	}
	return pos
}

func hostStreamLength(_ context.Context, streamID uint32) int64 {
	r := getStream(streamID)
	if r == nil {
		return -1
	}
	cur, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return -1
	}
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return -1
	}
	_, _ = r.Seek(cur, io.SeekStart)
	return end
}

type wasmOpenResult struct {
	handle uint32
	format uint8
}

func (r *wasmOpenResult) decode(m *module, val uint64) {
	if val == 0 {
		return
	}
	ptr := uint32(val)
	r.handle, _ = m.mod.Memory().ReadUint32Le(ptr)
	b, _ := m.mod.Memory().ReadByte(ptr + 4)
	r.format = b
}
