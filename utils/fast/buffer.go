// Package fast provides minimal byte buffers for linear serialization.
// There is no bounds checking: reading past the end panics, which the
// codec layer converts into a decode error.
package fast

type Reader struct {
	buf    []byte
	offset int
}

type Writer struct {
	buf []byte
}

func NewReader(bb []byte) *Reader {
	return &Reader{buf: bb}
}

func NewWriter(bb []byte) *Writer {
	return &Writer{buf: bb}
}

func (w *Writer) WriteByte(v byte) {
	w.buf = append(w.buf, v)
}

func (w *Writer) Write(v []byte) {
	w.buf = append(w.buf, v...)
}

func (w *Writer) Bytes() []byte {
	return w.buf
}

// Read consumes the next n bytes. The result aliases the underlying buffer.
func (r *Reader) Read(n int) []byte {
	res := r.buf[r.offset : r.offset+n]
	r.offset += n
	return res
}

func (r *Reader) ReadByte() byte {
	res := r.buf[r.offset]
	r.offset++
	return res
}

// Position returns how many bytes have been consumed.
func (r *Reader) Position() int {
	return r.offset
}

func (r *Reader) Bytes() []byte {
	return r.buf
}

// Empty reports whether the whole buffer has been consumed.
func (r *Reader) Empty() bool {
	return len(r.buf) == r.offset
}
