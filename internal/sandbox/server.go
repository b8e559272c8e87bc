package sandbox

import (
	"bufio"
	"io"

	"go.audiometa.dev/audiometa/internal/errs"
	"go.audiometa.dev/audiometa/internal/nativehandle"
	"go.audiometa.dev/audiometa/internal/wire"
)

// Server is the subprocess side of the sandbox boundary: it owns a
// Runtime, resolves each request's virtual path against the preopens,
// opens the resolved host file with only that file's directory mounted
// into the guest module, and answers framed requests until its input
// closes. It is the counterpart to
// Client and is driven by cmd/audiometa-sandboxd's main loop.
type Server struct {
	preopens map[string]string
	runtime  *nativehandle.Runtime
}

// NewServer wires preopens to rt. rt should already be constructed with
// the WASM binary the subprocess was told to load.
func NewServer(preopens map[string]string, rt *nativehandle.Runtime) *Server {
	return &Server{preopens: preopens, runtime: rt}
}

// Serve reads length-prefixed requests from r and writes length-prefixed
// responses to w until r returns io.EOF.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	for {
		payload, err := wire.ReadFrame(br)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		req, err := wire.DecodeRequest(payload)
		if err != nil {
			return err
		}
		resp := s.handle(req)
		if err := wire.WriteFrame(w, wire.EncodeResponse(resp)); err != nil {
			return err
		}
	}
}

func (s *Server) handle(req wire.Request) wire.Response {
	hostPath, err := resolve(s.preopens, req.VirtualPath)
	if err != nil {
		return errorResponse(req.ID, err)
	}

	switch req.Method {
	case wire.MethodReadTags:
		h, err := s.runtime.OpenReadOnly(hostPath)
		if err != nil {
			return errorResponse(req.ID, err)
		}
		defer h.Close()
		tag, ok := h.Tag()
		if !ok {
			return errorResponse(req.ID, errs.Metadata(errs.MetadataOpRead, "tag", nil))
		}
		return wire.Response{ID: req.ID, OK: true, TagBytes: wire.EncodeBasicTag(tag)}

	case wire.MethodWriteTags:
		tag, err := wire.DecodeBasicTag(req.TagBytes)
		if err != nil {
			return errorResponse(req.ID, err)
		}
		h, err := s.runtime.Open(hostPath)
		if err != nil {
			return errorResponse(req.ID, err)
		}
		defer h.Close()
		if err := h.SetTag(tag); err != nil {
			return errorResponse(req.ID, err)
		}
		if ok, err := h.Save(); err != nil || !ok {
			return errorResponse(req.ID, errs.FileOperation(errs.FileOpSave, req.VirtualPath, err))
		}
		return wire.Response{ID: req.ID, OK: true}

	case wire.MethodReadProperties:
		h, err := s.runtime.OpenReadOnly(hostPath)
		if err != nil {
			return errorResponse(req.ID, err)
		}
		defer h.Close()
		props, ok := h.Properties()
		if !ok {
			return errorResponse(req.ID, errs.Metadata(errs.MetadataOpRead, "audioProperties", nil))
		}
		return wire.Response{ID: req.ID, OK: true, PropsBytes: wire.EncodeAudioProperties(props)}

	default:
		return errorResponse(req.ID, errs.Sandbox("unknown method", errs.Context{}))
	}
}

func errorResponse(id string, err error) wire.Response {
	kind, _ := errs.KindOf(err)
	return wire.Response{ID: id, OK: false, ErrorKind: kind.String(), ErrorMsg: err.Error()}
}
