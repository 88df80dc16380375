package protocol

import (
	"ticktock/freq"
)

// Report is one elapsed time sample taken by a target.
type Report struct {
	ElapsedMicros uint32 // Low 32 bits of the elapsed time in microseconds
	Ticks         uint32 // Counter steps behind ElapsedMicros
	Wrapped       bool   // Counter wrapped, the other fields are zero
}

const reportFlagWrapped = 1 << 0

// resolutionCodes maps freq resolutions to their wire code
var resolutionCodes = [...]freq.Resolution{
	0: freq.MilliHertz,
	1: freq.Hertz,
	2: freq.KiloHertz,
	3: freq.MegaHertz,
}

// Encode appends the report payload.
func (r Report) Encode(output OutputBuffer) {
	var flags uint32
	if r.Wrapped {
		flags |= reportFlagWrapped
	}
	EncodeVLQUint(output, MsgReport)
	EncodeVLQUint(output, r.ElapsedMicros)
	EncodeVLQUint(output, r.Ticks)
	EncodeVLQUint(output, flags)
}

// EncodeFrequency appends a payload announcing the counter clock.
func EncodeFrequency(output OutputBuffer, f freq.Frequency) {
	code := uint32(0)
	for i, res := range resolutionCodes {
		if res == f.Resolution() {
			code = uint32(i)
		}
	}
	EncodeVLQUint(output, MsgFrequency)
	EncodeVLQUint(output, code)
	EncodeVLQUint(output, f.Numerator())
	EncodeVLQUint(output, f.Denominator())
}

// MessageID reads the message ID and returns the rest of the payload.
func MessageID(payload []byte) (uint32, []byte, error) {
	id, err := DecodeVLQUint(&payload)
	return id, payload, err
}

// DecodeReport decodes the fields following a MsgReport ID.
func DecodeReport(data []byte) (Report, error) {
	var r Report
	var flags uint32
	for _, dst := range []*uint32{&r.ElapsedMicros, &r.Ticks, &flags} {
		v, err := DecodeVLQUint(&data)
		if err != nil {
			return Report{}, err
		}
		*dst = v
	}
	r.Wrapped = flags&reportFlagWrapped != 0
	return r, nil
}

// DecodeFrequency decodes the fields following a MsgFrequency ID.
func DecodeFrequency(data []byte) (freq.Frequency, error) {
	var code, num, den uint32
	for _, dst := range []*uint32{&code, &num, &den} {
		v, err := DecodeVLQUint(&data)
		if err != nil {
			return freq.Frequency{}, err
		}
		*dst = v
	}
	if code >= uint32(len(resolutionCodes)) || num == 0 || den == 0 {
		return freq.Frequency{}, ErrInvalidFrame
	}
	return freq.New(num, resolutionCodes[code]).Div(den), nil
}
