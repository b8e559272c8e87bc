package nativehandle

import (
	"bytes"
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
)

// This file is the WASM call ABI: how Go values cross into and out of
// the parsing library's linear memory. It is the same marshaling shape
// go.senan.xyz/taglib uses (wasmArg/wasmResult, malloc'd strings and
// byte arrays, NUL-terminated pointer arrays) and is a distinct concern
// from the engine<->worker/sandbox wire codec in internal/wire: this
// ABI only ever crosses a single process's WASM boundary.

type wasmArg interface {
	encode(*module) uint64
}

type wasmResult interface {
	decode(*module, uint64)
}

type wasmBool bool

func (b wasmBool) encode(*module) uint64 {
	if b {
		return 1
	}
	return 0
}

func (b *wasmBool) decode(_ *module, val uint64) { *b = val == 1 }

type wasmInt int

func (i wasmInt) encode(*module) uint64      { return uint64(i) }
func (i *wasmInt) decode(_ *module, val uint64) { *i = wasmInt(val) }

type wasmUint8 uint8

func (u wasmUint8) encode(*module) uint64 { return uint64(u) }

type wasmUint32 uint32

func (u wasmUint32) encode(*module) uint64 { return uint64(u) }
func (u *wasmUint32) decode(_ *module, val uint64) { *u = wasmUint32(val) }

type wasmString string

func (s wasmString) encode(m *module) uint64 {
	b := append([]byte(s), 0)
	ptr := m.malloc(uint32(len(b)))
	if !m.mod.Memory().Write(ptr, b) {
		panic("nativehandle: failed to write string into module memory")
	}
	return uint64(ptr)
}

func (s *wasmString) decode(m *module, val uint64) {
	if val != 0 {
		*s = wasmString(readString(m, uint32(val)))
	}
}

type wasmBytes []byte

func (b wasmBytes) encode(m *module) uint64 {
	ptr := m.malloc(uint32(len(b)))
	if !m.mod.Memory().Write(ptr, b) {
		panic("nativehandle: failed to write bytes into module memory")
	}
	return uint64(ptr)
}

func (b *wasmBytes) decode(m *module, val uint64) {
	if val != 0 {
		*b = readBytes(m, uint32(val))
	}
}

type wasmStrings []string

func (s wasmStrings) encode(m *module) uint64 {
	arrayPtr := m.malloc(uint32((len(s) + 1) * 4))
	for i, str := range s {
		b := append([]byte(str), 0)
		ptr := m.malloc(uint32(len(b)))
		if !m.mod.Memory().Write(ptr, b) {
			panic("nativehandle: failed to write string into module memory")
		}
		if !m.mod.Memory().WriteUint32Le(arrayPtr+uint32(i*4), ptr) {
			panic("nativehandle: failed to write pointer into module memory")
		}
	}
	if !m.mod.Memory().WriteUint32Le(arrayPtr+uint32(len(s)*4), 0) {
		panic("nativehandle: failed to write NUL terminator pointer")
	}
	return uint64(arrayPtr)
}

func (s *wasmStrings) decode(m *module, val uint64) {
	if val != 0 {
		*s = readStrings(m, uint32(val))
	}
}

func (m *module) malloc(size uint32) uint32 {
	var ptr wasmUint32
	if err := m.call("malloc", &ptr, wasmUint32(size)); err != nil {
		panic(err)
	}
	if ptr == 0 {
		panic("nativehandle: malloc returned null")
	}
	return uint32(ptr)
}

func (m *module) call(name string, dest wasmResult, args ...wasmArg) error {
	params := make([]uint64, 0, len(args))
	for _, a := range args {
		params = append(params, a.encode(m))
	}
	fn := m.mod.ExportedFunction(name)
	if fn == nil {
		return fmt.Errorf("nativehandle: export %q not found in parsing library module", name)
	}
	results, err := fn.Call(context.Background(), params...)
	if err != nil {
		return fmt.Errorf("nativehandle: call %q: %w", name, err)
	}
	if dest == nil || len(results) == 0 {
		return nil
	}
	dest.decode(m, results[0])
	return nil
}

func readString(m *module, ptr uint32) string {
	size := uint32(64)
	buf, ok := m.mod.Memory().Read(ptr, size)
	if !ok {
		panic("nativehandle: memory read out of range")
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		return string(buf[:i])
	}
	for {
		next, ok := m.mod.Memory().Read(ptr+size, size)
		if !ok {
			panic("nativehandle: memory read out of range")
		}
		if i := bytes.IndexByte(next, 0); i >= 0 {
			return string(append(buf, next[:i]...))
		}
		buf = append(buf, next...)
		size += size
	}
}

func readBytes(m *module, ptr uint32) []byte {
	ret := []byte{}
	size, ok := m.mod.Memory().ReadUint32Le(ptr)
	if !ok {
		panic("nativehandle: memory read out of range")
	}
	if size == 0 {
		return ret
	}
	loc, _ := m.mod.Memory().ReadUint32Le(ptr + 4)
	b, ok := m.mod.Memory().Read(loc, size)
	if !ok {
		panic("nativehandle: memory read out of range")
	}
	ret = make([]byte, size)
	copy(ret, b)
	return ret
}

func readStrings(m *module, ptr uint32) []string {
	strs := []string{}
	for {
		stringPtr, ok := m.mod.Memory().ReadUint32Le(ptr)
		if !ok {
			panic("nativehandle: memory read out of range")
		}
		if stringPtr == 0 {
			break
		}
		strs = append(strs, readString(m, stringPtr))
		ptr += 4
	}
	return strs
}

type module struct {
	mod api.Module
}

func (m *module) close() {
	_ = m.mod.Close(context.Background())
}
