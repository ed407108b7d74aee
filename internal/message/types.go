package message

import (
	"encoding/binary"
	"errors"
)

// ResourceSet is the six-slot wire form of a resource count set.
// Index order: clay, ore, sheep, wheat, wood, unknown.
type ResourceSet [6]int

// SeatLockState is one seat's lock state in a SETSEATLOCK array.
type SeatLockState int

const (
	SeatUnlocked SeatLockState = iota
	SeatLocked
	SeatClearOnReset // vacant bot seat, cleared when the board resets
)

// TradeOffer is the wire form of a player trade offer.
type TradeOffer struct {
	FromSeat int
	ToSeats  []bool // indexed by seat
	Give     ResourceSet
	Get      ResourceSet
}

// ErrTruncated is reported when a decode runs past the end of the payload.
var ErrTruncated = errors.New("message: truncated payload")

// Writer builds an encoded message payload. All multi-byte values are
// little-endian; strings are length-prefixed UTF-8.
type Writer struct {
	buf []byte
}

func NewWriter(tag Tag) *Writer {
	w := &Writer{buf: make([]byte, 0, 64)}
	w.WriteH(uint16(tag))
	return w
}

// WriteC writes 1 byte.
func (w *Writer) WriteC(v byte) {
	w.buf = append(w.buf, v)
}

// WriteH writes 2 bytes little-endian.
func (w *Writer) WriteH(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteD writes an int as 4 bytes little-endian.
func (w *Writer) WriteD(v int) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(int32(v)))
	w.buf = append(w.buf, b[:]...)
}

// WriteL writes an int64 as 8 bytes little-endian.
func (w *Writer) WriteL(v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	w.buf = append(w.buf, b[:]...)
}

// WriteB writes a bool as 1 byte.
func (w *Writer) WriteB(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

// WriteS writes a length-prefixed UTF-8 string (uint16 length).
// Length-prefixing keeps the payload unambiguous regardless of content.
func (w *Writer) WriteS(s string) {
	w.WriteH(uint16(len(s)))
	w.buf = append(w.buf, s...)
}

// WriteDList writes a count-prefixed int list.
func (w *Writer) WriteDList(vs []int) {
	w.WriteH(uint16(len(vs)))
	for _, v := range vs {
		w.WriteD(v)
	}
}

// WriteSList writes a count-prefixed string list.
func (w *Writer) WriteSList(vs []string) {
	w.WriteH(uint16(len(vs)))
	for _, v := range vs {
		w.WriteS(v)
	}
}

// WriteRS writes a resource set as 6 ints.
func (w *Writer) WriteRS(rs ResourceSet) {
	for _, v := range rs {
		w.WriteD(v)
	}
}

// WriteOffer writes a trade offer.
func (w *Writer) WriteOffer(o TradeOffer) {
	w.WriteD(o.FromSeat)
	w.WriteH(uint16(len(o.ToSeats)))
	for _, t := range o.ToSeats {
		w.WriteB(t)
	}
	w.WriteRS(o.Give)
	w.WriteRS(o.Get)
}

// WriteLocks writes a seat-lock array.
func (w *Writer) WriteLocks(locks []SeatLockState) {
	w.WriteH(uint16(len(locks)))
	for _, l := range locks {
		w.WriteC(byte(l))
	}
}

// Bytes returns the encoded payload including the leading tag.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Reader consumes an encoded message payload. Byte 0-1 is always the tag.
// Reads past the end set a sticky error and return zero values, so decode
// methods can read unconditionally and check Err once.
type Reader struct {
	data []byte
	off  int
	err  error
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data, off: 2} // skip tag
}

func (r *Reader) Tag() Tag {
	if len(r.data) < 2 {
		return 0
	}
	return Tag(binary.LittleEndian.Uint16(r.data))
}

func (r *Reader) Err() error { return r.err }

func (r *Reader) fail() {
	if r.err == nil {
		r.err = ErrTruncated
	}
	r.off = len(r.data)
}

func (r *Reader) ReadC() byte {
	if r.off+1 > len(r.data) {
		r.fail()
		return 0
	}
	v := r.data[r.off]
	r.off++
	return v
}

func (r *Reader) ReadH() uint16 {
	if r.off+2 > len(r.data) {
		r.fail()
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

func (r *Reader) ReadD() int {
	if r.off+4 > len(r.data) {
		r.fail()
		return 0
	}
	v := int32(binary.LittleEndian.Uint32(r.data[r.off:]))
	r.off += 4
	return int(v)
}

func (r *Reader) ReadL() int64 {
	if r.off+8 > len(r.data) {
		r.fail()
		return 0
	}
	v := int64(binary.LittleEndian.Uint64(r.data[r.off:]))
	r.off += 8
	return v
}

func (r *Reader) ReadB() bool {
	return r.ReadC() != 0
}

func (r *Reader) ReadS() string {
	n := int(r.ReadH())
	if r.off+n > len(r.data) {
		r.fail()
		return ""
	}
	s := string(r.data[r.off : r.off+n])
	r.off += n
	return s
}

func (r *Reader) ReadDList() []int {
	n := int(r.ReadH())
	if r.err != nil || n > r.Remaining()/4 {
		r.fail()
		return nil
	}
	vs := make([]int, n)
	for i := range vs {
		vs[i] = r.ReadD()
	}
	return vs
}

func (r *Reader) ReadSList() []string {
	n := int(r.ReadH())
	if r.err != nil || n > r.Remaining()/2 {
		r.fail()
		return nil
	}
	vs := make([]string, n)
	for i := range vs {
		vs[i] = r.ReadS()
	}
	return vs
}

func (r *Reader) ReadRS() ResourceSet {
	var rs ResourceSet
	for i := range rs {
		rs[i] = r.ReadD()
	}
	return rs
}

func (r *Reader) ReadOffer() TradeOffer {
	var o TradeOffer
	o.FromSeat = r.ReadD()
	n := int(r.ReadH())
	if r.err != nil || n > r.Remaining() {
		r.fail()
		return o
	}
	o.ToSeats = make([]bool, n)
	for i := range o.ToSeats {
		o.ToSeats[i] = r.ReadB()
	}
	o.Give = r.ReadRS()
	o.Get = r.ReadRS()
	return o
}

func (r *Reader) ReadLocks() []SeatLockState {
	n := int(r.ReadH())
	if r.err != nil || n > r.Remaining() {
		r.fail()
		return nil
	}
	locks := make([]SeatLockState, n)
	for i := range locks {
		locks[i] = SeatLockState(r.ReadC())
	}
	return locks
}

func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}
