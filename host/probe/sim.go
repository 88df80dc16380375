package probe

import (
	"io"

	"ticktock/freq"
	"ticktock/host/config"
	"ticktock/sampler"
	"ticktock/timer"
)

// SimPort is a serial.Port backed by an in-process target: a SimCounter
// behind a CounterTimer, sampled the same way the firmware does. Every
// report advances the counter by a fixed tick count.
type SimPort struct {
	counter *timer.SimCounter[uint32]
	sampler *sampler.Sampler[uint32]
	step    uint64

	remaining int // reports left, negative for no limit
	announced bool
	pending   []byte
	closed    bool
}

// NewSimPort builds a simulated target. samples limits the number of
// reports before Read returns io.EOF; 0 means no limit.
func NewSimPort(cfg config.SimConfig, samples int) *SimPort {
	dir := timer.CountDown
	if cfg.CountUp {
		dir = timer.CountUp
	}
	clock := freq.KHz(cfg.ClockKHz)

	counter := timer.NewSimCounter[uint32](dir)
	t := timer.New[uint32](counter, timer.StaticClocks{Core: clock}, timer.Config[uint32]{
		Source:    timer.ClockCore,
		Direction: dir,
		Max:       cfg.Max,
	})

	p := &SimPort{
		counter:   counter,
		sampler:   sampler.New[uint32](t, clock),
		step:      cfg.TicksPerSample,
		remaining: samples,
	}
	if samples == 0 {
		p.remaining = -1
	}
	p.sampler.Start()
	return p
}

// Read returns the bytes of the next frame, producing one when the
// previous frame has been consumed.
func (p *SimPort) Read(b []byte) (int, error) {
	if p.closed {
		return 0, io.ErrClosedPipe
	}
	if len(p.pending) == 0 {
		if err := p.produce(); err != nil {
			return 0, err
		}
	}
	n := copy(b, p.pending)
	p.pending = p.pending[n:]
	return n, nil
}

func (p *SimPort) produce() error {
	if !p.announced {
		frame, err := p.sampler.Announce()
		if err != nil {
			return err
		}
		p.announced = true
		p.pending = append([]byte(nil), frame...)
		return nil
	}

	if p.remaining == 0 {
		return io.EOF
	}
	if p.remaining > 0 {
		p.remaining--
	}

	p.counter.Advance(p.step)
	r, frame, err := p.sampler.Sample()
	if err != nil {
		return err
	}
	p.pending = append([]byte(nil), frame...)
	if r.Wrapped {
		p.sampler.Restart()
	}
	return nil
}

// Write discards host output; the simulated target takes no commands.
func (p *SimPort) Write(b []byte) (int, error) {
	if p.closed {
		return 0, io.ErrClosedPipe
	}
	return len(b), nil
}

func (p *SimPort) Close() error {
	if !p.closed {
		p.closed = true
		p.sampler.Stop()
	}
	return nil
}

// Flush drops a partially read frame
func (p *SimPort) Flush() error {
	p.pending = nil
	return nil
}
