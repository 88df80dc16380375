// Package sampler turns a running timer into report frames for the host.
// It allocates nothing per sample, so it can run in a TinyGo main loop.
package sampler

import (
	"time"

	"ticktock/freq"
	"ticktock/protocol"
	"ticktock/timer"
)

// Sampler holds the Instant of one timer and encodes its elapsed time.
// Frames returned by its methods stay valid until the next call.
type Sampler[U timer.Value] struct {
	timer timer.Timer[U]
	inst  *timer.Instant[U]
	clock freq.Frequency
	seq   uint8

	payload protocol.ScratchOutput
	frame   protocol.ScratchOutput
}

// New returns a sampler for t, whose counter ticks at clock.
func New[U timer.Value](t timer.Timer[U], clock freq.Frequency) *Sampler[U] {
	return &Sampler[U]{timer: t, clock: clock}
}

// Start starts the timer. The sampler owns it until Stop.
func (s *Sampler[U]) Start() {
	if s.inst != nil {
		panic("sampler: already started")
	}
	s.inst = s.timer.Start()
}

// Stop stops the timer and returns it.
func (s *Sampler[U]) Stop() timer.Timer[U] {
	if s.inst == nil {
		panic("sampler: not started")
	}
	s.timer = s.inst.Stop()
	s.inst = nil
	return s.timer
}

// Restart begins a new measurement window, typically after a wrap.
func (s *Sampler[U]) Restart() {
	s.Stop()
	s.Start()
}

// Announce returns a frame telling the host the counter clock.
func (s *Sampler[U]) Announce() ([]byte, error) {
	s.payload.Reset()
	protocol.EncodeFrequency(&s.payload, s.clock)
	return s.encode()
}

// Sample reads the elapsed time and returns it with its frame. A wrapped
// counter is reported with the Wrapped flag rather than a duration.
func (s *Sampler[U]) Sample() (protocol.Report, []byte, error) {
	if s.inst == nil {
		panic("sampler: not started")
	}

	var r protocol.Report
	ticks, err := s.inst.ElapsedTicks()
	if err != nil {
		r.Wrapped = true
	} else {
		elapsed := freq.TicksDuration(ticks, s.inst.Tick())
		r.ElapsedMicros = uint32(elapsed / time.Microsecond)
		r.Ticks = uint32(ticks)
	}

	s.payload.Reset()
	r.Encode(&s.payload)
	frame, err := s.encode()
	return r, frame, err
}

func (s *Sampler[U]) encode() ([]byte, error) {
	s.frame.Reset()
	if err := protocol.EncodeFrame(&s.frame, s.seq, s.payload.Result()); err != nil {
		return nil, err
	}
	s.seq = (s.seq + 1) & protocol.FrameSeqMask
	return s.frame.Result(), nil
}
