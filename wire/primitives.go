package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// Writer appends little-endian primitives to a growing buffer.
type Writer struct {
	buf bytes.Buffer
}

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) WriteUint8(v byte) {
	w.buf.WriteByte(v)
}

func (w *Writer) WriteBytes(p []byte) {
	w.buf.Write(p)
}

func (w *Writer) WriteInt32(v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	w.buf.Write(b[:])
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
		return
	}
	w.buf.WriteByte(0)
}

// WriteString writes a uint16 byte length followed by the UTF-8 bytes.
func (w *Writer) WriteString(s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(s))
	}
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(len(s)))
	w.buf.Write(b[:])
	w.buf.WriteString(s)
	return nil
}

func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

func (w *Writer) Len() int {
	return w.buf.Len()
}

// Reader consumes primitives written by Writer.
type Reader struct {
	data []byte
	pos  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining is the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

func (r *Reader) Position() int {
	return r.pos
}

func (r *Reader) next(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrBufferUnderrun, n, r.pos, r.Remaining())
	}
	p := r.data[r.pos : r.pos+n]
	r.pos += n
	return p, nil
}

func (r *Reader) ReadUint8() (byte, error) {
	p, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

// ReadBytes fills dst from the stream.
func (r *Reader) ReadBytes(dst []byte) error {
	p, err := r.next(len(dst))
	if err != nil {
		return err
	}
	copy(dst, p)
	return nil
}

func (r *Reader) ReadInt32() (int32, error) {
	p, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(p)), nil
}

// ReadBool treats any non-zero byte as true.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadUint8()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func (r *Reader) ReadString() (string, error) {
	p, err := r.next(2)
	if err != nil {
		return "", err
	}
	n := int(binary.LittleEndian.Uint16(p))
	s, err := r.next(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(s) {
		return "", fmt.Errorf("%w: invalid UTF-8 at offset %d", ErrMalformed, r.pos-n)
	}
	return string(s), nil
}

// ReadCount reads an int32 element count, rejecting negative values.
func (r *Reader) ReadCount() (int, error) {
	n, err := r.ReadInt32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative count %d", ErrMalformed, n)
	}
	return int(n), nil
}
