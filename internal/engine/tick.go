// Package engine provides the tick loop and the simulation passes that
// run on it: labor reallocation, production and payroll, and AI decisions.
package engine

import (
	"log/slog"
	"math"
	"sync/atomic"
	"time"
)

// Quarters are the simulation's base tick; four quarters make a day.
const QuartersPerDay = 4

// Engine drives the simulation forward at a fixed logical interval.
// There is no hidden global timer: whoever owns the Engine wires the
// callbacks and calls Run. Speed and the running flag are written from
// other goroutines (the admin API, signal handlers), so both are atomic.
type Engine struct {
	Tick     uint64        // Quarter counter (monotonic, never resets)
	Interval time.Duration // Base quarter interval

	speed   atomic.Uint64 // float64 bits
	running atomic.Bool

	OnQuarter func(tick uint64) // Every quarter
	OnDay     func(tick uint64) // Every QuartersPerDay quarters
}

// NewEngine creates an engine with default settings.
func NewEngine() *Engine {
	e := &Engine{Interval: time.Second}
	e.SetSpeed(1.0)
	return e
}

// Speed returns the current tick-rate multiplier.
func (e *Engine) Speed() float64 {
	return math.Float64frombits(e.speed.Load())
}

// SetSpeed changes the tick-rate multiplier: 1.0 = real-time, 0 = paused.
func (e *Engine) SetSpeed(v float64) {
	e.speed.Store(math.Float64bits(v))
}

// Running reports whether the loop is active.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Run starts the loop. Blocks until Stop is called.
func (e *Engine) Run() {
	e.running.Store(true)
	slog.Info("engine started", "tick", e.Tick, "speed", e.Speed())

	for e.running.Load() {
		speed := e.Speed()
		if speed <= 0 {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()
		e.Step()

		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("engine stopped", "tick", e.Tick)
}

// Stop halts the loop after the current quarter completes.
func (e *Engine) Stop() {
	e.running.Store(false)
}

// Step advances the simulation by one quarter. Exposed so tests and
// batch runs can drive the clock without real time passing.
func (e *Engine) Step() {
	e.Tick++

	if e.OnQuarter != nil {
		e.OnQuarter(e.Tick)
	}
	if e.Tick%QuartersPerDay == 0 && e.OnDay != nil {
		e.OnDay(e.Tick)
	}
}
