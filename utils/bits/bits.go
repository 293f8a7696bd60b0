// Package bits implements a sub-byte stream used by the storage codec to
// pack booleans and small size fields densely. Bits are written LSB-first
// within each byte.
package bits

type (
	// Array is the backing byte slice of a bit stream.
	Array struct {
		Bytes []byte
	}

	// Writer appends bits to an Array.
	Writer struct {
		*Array
		bitOffset int // next bit to write within the last byte
	}

	// Reader consumes bits from an Array.
	Reader struct {
		*Array
		byteOffset int
		bitOffset  int
	}
)

func NewWriter(arr *Array) *Writer {
	return &Writer{Array: arr}
}

func NewReader(arr *Array) *Reader {
	return &Reader{Array: arr}
}

func (w *Writer) freeBits() int {
	return 8 - w.bitOffset
}

func (w *Writer) orIntoLastByte(v uint) {
	w.Bytes[len(w.Bytes)-1] |= byte(v << w.bitOffset)
}

func maskTopBits(v uint, bits int) uint {
	return v & (uint(0xff) >> bits)
}

// Write appends the lowest bits of v to the stream.
func (w *Writer) Write(bits int, v uint) {
	if w.bitOffset == 0 {
		w.Bytes = append(w.Bytes, 0)
	}
	free := w.freeBits()
	if bits <= free {
		w.orIntoLastByte(v)
		if bits == free {
			w.bitOffset = 0
		} else {
			w.bitOffset += bits
		}
		return
	}
	// Spans the byte boundary: fill the current byte, continue in the next.
	w.orIntoLastByte(maskTopBits(v, w.bitOffset))
	w.bitOffset = 0
	w.Write(bits-free, v>>free)
}

func (r *Reader) freeBits() int {
	return 8 - r.bitOffset
}

// Read consumes and returns the next bits of the stream.
func (r *Reader) Read(bits int) (v uint) {
	if bits == 0 {
		return 0
	}
	free := r.freeBits()
	if bits <= free {
		clear := 8 - (r.bitOffset + bits)
		v = maskTopBits(uint(r.Bytes[r.byteOffset]), clear) >> r.bitOffset
		if bits == free {
			r.bitOffset = 0
			r.byteOffset++
		} else {
			r.bitOffset += bits
		}
		return
	}
	v = uint(r.Bytes[r.byteOffset]) >> r.bitOffset
	r.bitOffset = 0
	r.byteOffset++
	v |= r.Read(bits-free) << free
	return
}

// View returns the next bits without advancing the cursor.
func (r *Reader) View(bits int) uint {
	cp := *r
	return cp.Read(bits)
}

// NonReadBytes returns the number of bytes not yet fully consumed.
func (r *Reader) NonReadBytes() int {
	return len(r.Bytes) - r.byteOffset
}

// NonReadBits returns the number of bits not yet consumed.
func (r *Reader) NonReadBits() int {
	return r.NonReadBytes()*8 - r.bitOffset
}
