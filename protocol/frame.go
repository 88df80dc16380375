package protocol

import (
	"bytes"
	"errors"
)

var (
	ErrFrameTooLong = errors.New("frame too long")
	ErrInvalidFrame = errors.New("invalid frame")
	ErrBadCRC       = errors.New("frame CRC mismatch")
)

// Frame is a decoded block.
type Frame struct {
	Seq     uint8
	Payload []byte
}

// EncodeFrame writes a complete frame carrying payload to output.
func EncodeFrame(output OutputBuffer, seq uint8, payload []byte) error {
	n := FrameHeader + len(payload) + FrameTrailer
	if n > FrameMax {
		return ErrFrameTooLong
	}

	start := output.CurPosition()
	output.Output([]byte{byte(n), FrameDest | seq&FrameSeqMask})
	output.Output(payload)

	crc := CRC16(output.DataSince(start))
	output.Output([]byte{byte(crc >> 8), byte(crc), FrameSync})
	return nil
}

// Decoder splits a byte stream into frames. Corrupt input is skipped up to
// the next sync byte.
type Decoder struct {
	fifo   *FifoBuffer
	synced bool
}

// NewDecoder creates a decoder buffering up to four maximum size frames
func NewDecoder() *Decoder {
	return &Decoder{
		fifo:   NewFifoBuffer(4*FrameMax + 1),
		synced: true,
	}
}

// Feed buffers received bytes and returns how many were accepted. Call
// Next until it stops returning frames before feeding more.
func (d *Decoder) Feed(data []byte) int {
	return d.fifo.Write(data)
}

// Next returns the next complete frame. ok is false when more input is
// needed. On a corrupt frame it returns the error and resynchronizes; the
// caller may keep calling Next.
func (d *Decoder) Next() (frame Frame, ok bool, err error) {
	for {
		data := d.fifo.Data()

		if !d.synced {
			i := bytes.IndexByte(data, FrameSync)
			if i < 0 {
				d.fifo.Pop(len(data))
				return Frame{}, false, nil
			}
			d.fifo.Pop(i + 1)
			d.synced = true
			continue
		}

		if len(data) > 0 && data[0] == FrameSync {
			d.fifo.Pop(1)
			continue
		}
		if len(data) < FrameMin {
			return Frame{}, false, nil
		}

		n := int(data[posLen])
		if n < FrameMin || n > FrameMax || data[posSeq]&^FrameSeqMask != FrameDest {
			return Frame{}, false, d.drop(ErrInvalidFrame)
		}
		if len(data) < n {
			return Frame{}, false, nil
		}

		block := data[:n]
		if block[n-1] != FrameSync {
			return Frame{}, false, d.drop(ErrInvalidFrame)
		}
		crc := uint16(block[n-trailerCRCBack])<<8 | uint16(block[n-trailerCRCBack+1])
		if CRC16(block[:n-FrameTrailer]) != crc {
			return Frame{}, false, d.drop(ErrBadCRC)
		}

		frame = Frame{
			Seq:     block[posSeq] & FrameSeqMask,
			Payload: append([]byte(nil), block[FrameHeader:n-FrameTrailer]...),
		}
		d.fifo.Pop(n)
		return frame, true, nil
	}
}

func (d *Decoder) drop(err error) error {
	d.synced = false
	d.fifo.Pop(1)
	return err
}
