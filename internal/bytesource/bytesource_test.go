package bytesource_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.audiometa.dev/audiometa/internal/bytesource"
)

// TestPartialLoadByteIdentity checks that a partial load of a file
// larger than max_header+max_footer returns exactly that many bytes,
// and that the header/footer slices are byte-identical to the
// corresponding regions of the full file.
func TestPartialLoadByteIdentity(t *testing.T) {
	t.Parallel()

	const maxHeader = 1024
	const maxFooter = 256
	const size = maxHeader + maxFooter + 4096 // comfortably over the threshold

	full := make([]byte, size)
	for i := range full {
		full[i] = byte(i)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "big.bin")
	if err := os.WriteFile(path, full, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	result, err := bytesource.Load(bytesource.PathInput(path), bytesource.Options{
		Partial:   true,
		MaxHeader: maxHeader,
		MaxFooter: maxFooter,
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !result.IsPartial {
		t.Fatal("expected IsPartial = true for a file over the partial-load threshold")
	}
	if len(result.Data) != maxHeader+maxFooter {
		t.Fatalf("got %d partial bytes, want %d", len(result.Data), maxHeader+maxFooter)
	}

	wantHeader := full[:maxHeader]
	wantFooter := full[size-maxFooter:]
	if !bytes.Equal(result.Data[:maxHeader], wantHeader) {
		t.Fatal("partial header bytes do not match the full file's header region")
	}
	if !bytes.Equal(result.Data[maxHeader:], wantFooter) {
		t.Fatal("partial footer bytes do not match the full file's footer region")
	}
}

// TestPartialLoadBelowThresholdReadsWhole checks that a file no larger
// than max_header+max_footer is read in full rather than partially,
// since there is nothing to save by splitting it.
func TestPartialLoadBelowThresholdReadsWhole(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte{0xAB}, 100)
	dir := t.TempDir()
	path := filepath.Join(dir, "small.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	result, err := bytesource.Load(bytesource.PathInput(path), bytesource.Options{
		Partial:   true,
		MaxHeader: 1024,
		MaxFooter: 256,
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if result.IsPartial {
		t.Fatal("expected IsPartial = false for a file under the partial-load threshold")
	}
	if !bytes.Equal(result.Data, data) {
		t.Fatal("expected the whole file back when under threshold")
	}
}

func TestLoadBytesInputNeverPartial(t *testing.T) {
	t.Parallel()

	data := []byte("in-memory buffer")
	result, err := bytesource.Load(bytesource.BytesInput(data), bytesource.Options{Partial: true, MaxHeader: 1, MaxFooter: 1})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if result.IsPartial {
		t.Fatal("a KindBytes input should never be reported as partial")
	}
	if !bytes.Equal(result.Data, data) {
		t.Fatal("expected the original bytes back unchanged")
	}
}
