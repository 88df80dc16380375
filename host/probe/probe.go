// Package probe reads elapsed time reports from a target.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"ticktock/freq"
	"ticktock/host/serial"
	"ticktock/protocol"
)

// ErrNoClock is returned for a report that arrives before the target
// announced its counter clock
var ErrNoClock = errors.New("probe: counter clock not announced")

// Sample is one decoded report
type Sample struct {
	Seq     uint8
	Report  protocol.Report
	Clock   freq.Frequency
	Elapsed time.Duration // Ticks at Clock, or ElapsedMicros without a clock
}

// Probe decodes the report stream of one target
type Probe struct {
	port    serial.Port
	decoder *protocol.Decoder
	buf     [protocol.FrameMax]byte

	clock    freq.Frequency
	hasClock bool

	// Counters
	frames  int
	corrupt int
	lastSeq    int
	lost       int
	duplicates int
}

// New creates a probe reading from port
func New(port serial.Port) *Probe {
	return &Probe{
		port:    port,
		decoder: protocol.NewDecoder(),
		lastSeq: -1,
	}
}

// Connect opens the configured serial device
func Connect(cfg *serial.Config) (*Probe, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}
	if err := port.Flush(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to flush serial port: %w", err)
	}
	return New(port), nil
}

// Close closes the port
func (p *Probe) Close() error {
	return p.port.Close()
}

// Clock returns the announced counter clock
func (p *Probe) Clock() (freq.Frequency, bool) {
	return p.clock, p.hasClock
}

// Stats returns the number of good frames, corrupt frames and frames lost
// to sequence gaps
func (p *Probe) Stats() (frames, corrupt, lost int) {
	return p.frames, p.corrupt, p.lost
}

// Duplicates returns the number of frames that repeated the previous
// sequence number
func (p *Probe) Duplicates() int {
	return p.duplicates
}

// Next blocks until a report arrives. Clock announcements are absorbed and
// corrupt frames are skipped. Read timeouts on the port are retried until
// ctx is done; io.EOF from a port that has ended is returned as is.
func (p *Probe) Next(ctx context.Context) (Sample, error) {
	for {
		frame, ok, err := p.decoder.Next()
		if err != nil {
			p.corrupt++
			continue
		}
		if ok {
			s, isReport, err := p.handle(frame)
			if err != nil || isReport {
				return s, err
			}
			continue
		}

		if err := ctx.Err(); err != nil {
			return Sample{}, err
		}
		n, err := p.port.Read(p.buf[:])
		if n > 0 {
			p.decoder.Feed(p.buf[:n])
			continue
		}
		if err != nil {
			return Sample{}, err
		}
	}
}

func (p *Probe) handle(frame protocol.Frame) (Sample, bool, error) {
	p.frames++
	p.trackSeq(frame.Seq)

	id, data, err := protocol.MessageID(frame.Payload)
	if err != nil {
		p.corrupt++
		return Sample{}, false, nil
	}

	switch id {
	case protocol.MsgFrequency:
		f, err := protocol.DecodeFrequency(data)
		if err != nil {
			p.corrupt++
			return Sample{}, false, nil
		}
		p.clock = f
		p.hasClock = true
		return Sample{}, false, nil

	case protocol.MsgReport:
		r, err := protocol.DecodeReport(data)
		if err != nil {
			p.corrupt++
			return Sample{}, false, nil
		}
		s := Sample{Seq: frame.Seq, Report: r, Clock: p.clock}
		if !p.hasClock {
			s.Elapsed = time.Duration(r.ElapsedMicros) * time.Microsecond
			return s, true, ErrNoClock
		}
		s.Elapsed = freq.TicksDuration(uint64(r.Ticks), p.clock.Tick())
		return s, true, nil
	}

	// Unknown messages are ignored
	return Sample{}, false, nil
}

// trackSeq counts sequence gaps as lost frames. A repeated sequence number
// is a duplicate, not a gap of a full sequence cycle.
func (p *Probe) trackSeq(seq uint8) {
	if p.lastSeq == int(seq) {
		p.duplicates++
		return
	}
	if p.lastSeq >= 0 {
		want := uint8(p.lastSeq+1) & protocol.FrameSeqMask
		p.lost += int((seq - want) & protocol.FrameSeqMask)
	}
	p.lastSeq = int(seq)
}

// Run calls fn for every report until ctx is done, the port ends, or fn
// returns an error. A clean end of stream returns nil.
func (p *Probe) Run(ctx context.Context, fn func(Sample) error) error {
	for {
		s, err := p.Next(ctx)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, ErrNoClock):
			// still usable through ElapsedMicros
		case err != nil:
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
	}
}
