package wire

import "fmt"

// BookCodec encodes the host-owned prefix of a rule book.
type BookCodec interface {
	WriteBook(w *Writer, values []byte) error
	ReadBook(r *Reader, values []byte) error
}

// VoteCodec encodes the host-owned part of a vote sheet: the voted bits and
// the votes of every voted selection.
type VoteCodec interface {
	WriteVotes(w *Writer, voted *BitArray, votes []int) error
	ReadVotes(r *Reader, voted *BitArray, votes []int) error
}

// ChoiceMaskCodec encodes the host-owned prefix of a choice mask.
type ChoiceMaskCodec interface {
	WriteMask(w *Writer, bits *BitArray) error
	ReadMask(r *Reader, bits *BitArray) error
}

// HostBookCodec writes one byte per selection.
type HostBookCodec struct{}

func (HostBookCodec) WriteBook(w *Writer, values []byte) error {
	w.WriteBytes(values)
	return nil
}

func (HostBookCodec) ReadBook(r *Reader, values []byte) error {
	return r.ReadBytes(values)
}

// HostVoteCodec writes the packed voted bits, then one byte per voted
// selection holding the choice index plus one.
type HostVoteCodec struct{}

func (HostVoteCodec) WriteVotes(w *Writer, voted *BitArray, votes []int) error {
	w.WriteBytes(voted.Bytes())
	for i, v := range votes {
		if !voted.Get(i) {
			continue
		}
		if v < 0 || v > 254 {
			return fmt.Errorf("%w: vote %d on selection %d", ErrMalformed, v, i)
		}
		w.WriteUint8(byte(v + 1))
	}
	return nil
}

func (HostVoteCodec) ReadVotes(r *Reader, voted *BitArray, votes []int) error {
	if err := r.ReadBytes(voted.Bytes()); err != nil {
		return err
	}
	for i := range votes {
		votes[i] = -1
		if !voted.Get(i) {
			continue
		}
		b, err := r.ReadUint8()
		if err != nil {
			return err
		}
		votes[i] = int(b) - 1
	}
	return nil
}

// HostChoiceMaskCodec writes the packed bits.
type HostChoiceMaskCodec struct{}

func (HostChoiceMaskCodec) WriteMask(w *Writer, bits *BitArray) error {
	w.WriteBytes(bits.Bytes())
	return nil
}

func (HostChoiceMaskCodec) ReadMask(r *Reader, bits *BitArray) error {
	return r.ReadBytes(bits.Bytes())
}
