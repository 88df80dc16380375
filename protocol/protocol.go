// Package protocol frames timing reports sent from a target to the host.
//
// Frames reuse the Klipper block layout:
//
//	[len][seq][payload ...][crc hi][crc lo][0x7E]
//
// where len counts the whole frame and the CRC covers len, seq and payload.
// Payload fields are VLQ encoded.
package protocol

// Frame layout
const (
	FrameMax       = 64 // Largest frame, header and trailer included
	FrameHeader    = 2  // len, seq
	FrameTrailer   = 3  // crc hi, crc lo, sync
	FrameMin       = FrameHeader + FrameTrailer
	FrameSync      = 0x7E
	FrameSeqMask   = 0x0F
	FrameDest      = 0x10 // High nibble of every seq byte
	posLen         = 0
	posSeq         = 1
	trailerCRCBack = 3 // Offset of crc hi from the end of the frame
)

// Message IDs, first VLQ of every payload
const (
	MsgReport    = 1
	MsgFrequency = 2
)
