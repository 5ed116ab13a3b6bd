// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wrappers

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/luxfi/ids"
)

var (
	ErrInsufficientLength = errors.New("packer has insufficient length for input")
	ErrBadBool            = errors.New("unexpected value when unpacking bool")
	ErrTextTooLong        = errors.New("text does not fit its field")
	ErrTextHasDelimiter   = errors.New("text contains the field delimiter")
	ErrInvalidText        = errors.New("text is not valid utf-8")
	errNegativeOffset     = errors.New("negative offset")
	errInvalidInput       = errors.New("input does not match expected format")
)

// Packer packs and unpacks byte records. Account records use only fixed width
// fields; transactions additionally use length prefixed byte slices.
//
// The first error encountered is recorded in Errs; every later call is a no-op.
type Packer struct {
	Errs

	// The largest allowed size of expanding the byte array
	MaxSize int
	// The current byte array
	Bytes []byte
	// The offset that is being written to in the byte array
	Offset int
}

// PackByte appends a byte to the byte array
func (p *Packer) PackByte(val byte) {
	p.expand(ByteLen)
	if p.Errored() {
		return
	}

	p.Bytes[p.Offset] = val
	p.Offset++
}

// UnpackByte unpacks a byte from the byte array
func (p *Packer) UnpackByte() byte {
	p.checkSpace(ByteLen)
	if p.Errored() {
		return 0
	}

	val := p.Bytes[p.Offset]
	p.Offset += ByteLen
	return val
}

// PackBool packs a bool into the byte array
func (p *Packer) PackBool(b bool) {
	if b {
		p.PackByte(1)
	} else {
		p.PackByte(0)
	}
}

// UnpackBool unpacks a bool from the byte array
func (p *Packer) UnpackBool() bool {
	b := p.UnpackByte()
	switch b {
	case 0:
		return false
	case 1:
		return true
	default:
		p.Add(ErrBadBool)
		return false
	}
}

// PackShort appends a big endian uint16 to the byte array
func (p *Packer) PackShort(val uint16) {
	p.expand(ShortLen)
	if p.Errored() {
		return
	}

	binary.BigEndian.PutUint16(p.Bytes[p.Offset:], val)
	p.Offset += ShortLen
}

// UnpackShort unpacks a big endian uint16 from the byte array
func (p *Packer) UnpackShort() uint16 {
	p.checkSpace(ShortLen)
	if p.Errored() {
		return 0
	}

	val := binary.BigEndian.Uint16(p.Bytes[p.Offset:])
	p.Offset += ShortLen
	return val
}

// PackBytes appends a byte slice prefixed by its uint16 length
func (p *Packer) PackBytes(bytes []byte) {
	if len(bytes) > math.MaxUint16 {
		p.Add(errInvalidInput)
		return
	}
	p.PackShort(uint16(len(bytes)))
	p.PackFixedBytes(bytes)
}

// UnpackBytes unpacks a byte slice prefixed by its uint16 length
func (p *Packer) UnpackBytes() []byte {
	size := p.UnpackShort()
	return p.UnpackFixedBytes(int(size))
}

// PackFixedBytes appends a byte slice with no length descriptor to the byte array
func (p *Packer) PackFixedBytes(bytes []byte) {
	p.expand(len(bytes))
	if p.Errored() {
		return
	}

	copy(p.Bytes[p.Offset:], bytes)
	p.Offset += len(bytes)
}

// UnpackFixedBytes unpacks a byte slice with no length descriptor from the byte array
func (p *Packer) UnpackFixedBytes(size int) []byte {
	p.checkSpace(size)
	if p.Errored() {
		return nil
	}

	bytes := p.Bytes[p.Offset : p.Offset+size]
	p.Offset += size
	return bytes
}

// PackZeros writes [size] zero bytes. Used for the unused tail of fixed
// capacity arrays so that packing is deterministic regardless of what the
// underlying buffer held before.
func (p *Packer) PackZeros(size int) {
	if size < 0 {
		p.Add(errInvalidInput)
		return
	}
	p.expand(size)
	if p.Errored() {
		return
	}

	clear(p.Bytes[p.Offset : p.Offset+size])
	p.Offset += size
}

// Skip advances the offset by [size] bytes without reading them.
func (p *Packer) Skip(size int) {
	p.checkSpace(size)
	if p.Errored() {
		return
	}
	p.Offset += size
}

// PackID appends a 32 byte identifier
func (p *Packer) PackID(id ids.ID) {
	p.PackFixedBytes(id[:])
}

// UnpackID unpacks a 32 byte identifier
func (p *Packer) UnpackID() ids.ID {
	var id ids.ID
	copy(id[:], p.UnpackFixedBytes(ids.IDLen))
	return id
}

// PackText writes [text] into a field of exactly [size] bytes. The text is
// followed by [delim] and the remainder of the field is zeroed, so at most
// size-1 bytes of text fit.
func (p *Packer) PackText(text string, size int, delim byte) {
	switch {
	case len(text) >= size:
		p.Add(ErrTextTooLong)
		return
	case strings.IndexByte(text, delim) >= 0:
		p.Add(ErrTextHasDelimiter)
		return
	}

	p.PackFixedBytes([]byte(text))
	p.PackByte(delim)
	p.PackZeros(size - len(text) - 1)
}

// UnpackText reads a field of exactly [size] bytes and returns the text before
// the first [delim]. A field with no delimiter, or whose delimiter is its first
// byte, holds the empty string.
func (p *Packer) UnpackText(size int, delim byte) string {
	field := p.UnpackFixedBytes(size)
	if p.Errored() {
		return ""
	}

	end := bytes.IndexByte(field, delim)
	if end <= 0 {
		return ""
	}
	text := field[:end]
	if !utf8.Valid(text) {
		p.Add(ErrInvalidText)
		return ""
	}
	return string(text)
}

// checkSpace requires that there is at least bytes of write space left in the
// byte array. If this is not true, an error is added to the packer.
func (p *Packer) checkSpace(bytes int) {
	switch {
	case p.Offset < 0:
		p.Add(errNegativeOffset)
	case bytes < 0:
		p.Add(errInvalidInput)
	case len(p.Bytes)-p.Offset < bytes:
		p.Add(ErrInsufficientLength)
	}
}

// expand ensures that there is bytes bytes left of space in the byte slice.
// If this is not allowed due to the maximum size, an error is added to the packer.
func (p *Packer) expand(bytes int) {
	neededSize := bytes + p.Offset
	switch {
	case neededSize <= len(p.Bytes):
		return
	case neededSize > p.MaxSize:
		p.Add(ErrInsufficientLength)
		return
	case neededSize <= cap(p.Bytes):
		p.Bytes = p.Bytes[:neededSize]
		return
	default:
		p.Bytes = append(p.Bytes[:cap(p.Bytes)], make([]byte, neededSize-cap(p.Bytes))...)
	}
}
