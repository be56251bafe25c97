// Package controller implements the sampled hysteresis threshold
// controller: validated tunable parameters, the hysteresis decision, the
// periodic monitoring task and its cooperative stop protocol.
package controller

import (
	"fmt"
	"math"
	"sync"
	"time"

	"threshctl/internal/alarm"
	"threshctl/internal/device"
	"threshctl/internal/errors"
	"threshctl/internal/logger"
)

// TaskState tracks the monitoring task lifecycle.
type TaskState int32

const (
	TaskStopped TaskState = iota
	TaskRunning
	TaskStopRequested
)

func (s TaskState) String() string {
	switch s {
	case TaskStopped:
		return "stopped"
	case TaskRunning:
		return "running"
	case TaskStopRequested:
		return "stop_requested"
	default:
		return "unknown"
	}
}

const (
	stopTimeout      = 5 * time.Second
	stopPollInterval = 100 * time.Millisecond
	cycleReportEvery = 1000
	panicBackoff     = time.Second
)

// Controller owns one device binding, its configuration and runtime state,
// and at most one monitoring task. One mutex guards all shared state; the
// command path and the task never touch a field outside it.
type Controller struct {
	mu     sync.Mutex
	params Params
	state  RuntimeState
	task   TaskState
	done   chan struct{}

	// ioMu serializes device writes against Enable(false), so a disable
	// returns only after any in-flight write has completed.
	ioMu sync.Mutex

	adapter    device.Adapter
	reporter   *alarm.Reporter
	publishers []Publisher
	clock      Clock
	errs       errors.Factory
}

// Option configures a Controller at construction.
type Option func(*Controller)

// WithClock replaces the system clock, used by tests to drive the loop.
func WithClock(clk Clock) Option {
	return func(c *Controller) { c.clock = clk }
}

// WithPublisher registers a host publish surface for runtime snapshots.
func WithPublisher(p Publisher) Option {
	return func(c *Controller) { c.publishers = append(c.publishers, p) }
}

// New creates a controller bound to the given device path, with defaults
// threshold 0 V, hysteresis 0.1 V, 10 Hz. The reporter must not be nil.
func New(adapter device.Adapter, reporter *alarm.Reporter, binding device.Binding, opts ...Option) *Controller {
	c := &Controller{
		params:   DefaultParams(),
		adapter:  adapter,
		reporter: reporter,
		clock:    systemClock{},
		errs:     errors.New(),
	}
	c.params.Binding = binding

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Params returns a copy of the current configuration.
func (c *Controller) Params() Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// Runtime returns a copy of the current runtime state.
func (c *Controller) Runtime() RuntimeState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TaskState returns the monitoring task lifecycle state.
func (c *Controller) TaskState() TaskState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.task
}

// SetThreshold updates the threshold after range validation. A threshold
// whose magnitude is below the current hysteresis is accepted with a
// warning, never rejected.
func (c *Controller) SetThreshold(v float64) error {
	if v < MinThreshold || v > MaxThreshold {
		return c.errs.WithMessage(ErrInvalidThreshold,
			fmt.Sprintf("threshold %g V out of range: use a value in %g..%g V", v, MinThreshold, MaxThreshold))
	}

	c.mu.Lock()
	hysteresis := c.params.Hysteresis
	c.params.Threshold = v
	c.mu.Unlock()

	if math.Abs(v) < hysteresis {
		c.reporter.Report(alarm.LevelWarning, alarm.CategorySoft, "controller.SetThreshold",
			fmt.Sprintf("threshold magnitude %g V below hysteresis %g V", math.Abs(v), hysteresis))
	}

	logger.Debug().Float64("threshold", v).Msg("Threshold updated")
	c.publishChange()

	return nil
}

// SetHysteresis updates the dead-band width after range validation.
func (c *Controller) SetHysteresis(v float64) error {
	if v < MinHysteresis || v > MaxHysteresis {
		return c.errs.WithMessage(ErrInvalidHysteresis,
			fmt.Sprintf("hysteresis %g V out of range: use a value in %g-%g V", v, MinHysteresis, MaxHysteresis))
	}

	c.mu.Lock()
	threshold := c.params.Threshold
	c.params.Hysteresis = v
	c.mu.Unlock()

	if v > math.Abs(threshold) {
		c.reporter.Report(alarm.LevelWarning, alarm.CategorySoft, "controller.SetHysteresis",
			fmt.Sprintf("hysteresis %g V exceeds threshold magnitude %g V", v, math.Abs(threshold)))
	}

	logger.Debug().Float64("hysteresis", v).Msg("Hysteresis updated")
	c.publishChange()

	return nil
}

// SetUpdateRate updates the sampling rate after range validation. The new
// rate takes effect at the next tick boundary; the task is not restarted.
func (c *Controller) SetUpdateRate(hz float64) error {
	if hz < MinUpdateRate || hz > MaxUpdateRate {
		return c.errs.WithMessage(ErrInvalidRate,
			fmt.Sprintf("update rate %g Hz out of range: use a value in %g-%g Hz", hz, MinUpdateRate, MaxUpdateRate))
	}

	c.mu.Lock()
	old := c.params.UpdateRate
	c.params.UpdateRate = hz
	c.mu.Unlock()

	logger.Debug().Float64("old_hz", old).Float64("new_hz", hz).Msg("Update rate changed")
	c.publishChange()

	return nil
}

// RegisterDevice rebinds the controller to a new device path. Permitted
// only while the controller is disabled and the task is stopped.
func (c *Controller) RegisterDevice(port string, addr int) error {
	if !validPortName(port) {
		return c.errs.WithMessage(ErrInvalidBinding,
			fmt.Sprintf("device port name %q is not valid: use 1-63 alphanumeric or underscore characters", port))
	}
	if addr < MinDeviceAddr || addr > MaxDeviceAddr {
		return c.errs.WithMessage(ErrInvalidBinding,
			fmt.Sprintf("device address %d out of range: use a value in %d-%d", addr, MinDeviceAddr, MaxDeviceAddr))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Enabled || c.task != TaskStopped {
		return c.errs.New(ErrRebindWhileRunning)
	}

	c.params.Binding = device.Binding{Port: port, Addr: addr}
	logger.Info().Str("port", port).Int("addr", addr).Msg("Device binding updated")

	return nil
}

// SetOutputState rejects external writes: the output is owned by the
// hysteresis decision and committed only after a confirmed device write.
func (c *Controller) SetOutputState(bool) error {
	return c.errs.WithMessage(ErrReadOnlyField, "output state is read-only")
}

// SetAlarmStatus rejects external writes: the alarm state is owned by the
// reporter path.
func (c *Controller) SetAlarmStatus(alarm.Status) error {
	return c.errs.WithMessage(ErrReadOnlyField, "alarm status is read-only")
}

// Enable drives the lifecycle. Enabling validates the configuration and
// requires a device binding; it starts the monitoring task when stopped
// and is rejected while a stop is pending. Disabling clears the enabled
// flag and leaves the task running passively so the displayed value stays
// live; after it returns no further device writes occur.
func (c *Controller) Enable(enable bool) error {
	if !enable {
		c.mu.Lock()
		c.state.Enabled = false
		c.mu.Unlock()

		// Wait out any in-flight device write before returning.
		c.ioMu.Lock()
		c.ioMu.Unlock() //nolint:staticcheck // barrier, not a critical section

		logger.Info().Msg("Controller disabled")
		c.publishChange()

		return nil
	}

	c.mu.Lock()
	if c.task == TaskStopRequested {
		c.mu.Unlock()
		return c.errs.New(ErrStopPending)
	}
	params := c.params
	c.mu.Unlock()

	if params.Binding.Port == "" {
		return c.errs.WithMessage(ErrNoBinding, "no device binding registered: call RegisterDevice first")
	}

	result := ValidateParams(params)
	if !result.Valid {
		return c.errs.WithMessage(ErrEnableRejected,
			fmt.Sprintf("%s: %s", result.Message, result.Suggestion))
	}
	if result.Level == alarm.LevelWarning {
		c.reporter.Report(alarm.LevelWarning, alarm.CategorySoft, "controller.Enable", result.Message)
	}

	c.mu.Lock()
	if c.task == TaskStopRequested {
		c.mu.Unlock()
		return c.errs.New(ErrStopPending)
	}
	start := c.task == TaskStopped
	if start {
		c.task = TaskRunning
		c.done = make(chan struct{})
	}
	c.state.Enabled = true
	done := c.done
	c.mu.Unlock()

	if start {
		go c.run(done)
		logger.Info().
			Str("port", params.Binding.Port).
			Int("addr", params.Binding.Addr).
			Float64("rate_hz", params.UpdateRate).
			Msg("Monitoring task started")
	} else {
		logger.Info().Msg("Controller enabled")
	}
	c.publishChange()

	return nil
}

// Stop runs the shutdown protocol: request a cooperative exit and wait,
// bounded, for the task to observe the flag at the top of its loop. On
// timeout a warning is logged and ErrStopTimeout returned instead of
// blocking forever.
func (c *Controller) Stop() error {
	c.mu.Lock()
	if c.task == TaskStopped {
		c.mu.Unlock()
		return nil
	}
	c.state.Enabled = false
	c.task = TaskStopRequested
	done := c.done
	c.mu.Unlock()

	deadline := time.Now().Add(stopTimeout)
	for {
		select {
		case <-done:
			logger.Debug().Msg("Monitoring task stopped")
			return nil
		case <-time.After(stopPollInterval):
			if time.Now().After(deadline) {
				logger.Warn().Msg("Monitoring task did not stop in time and may still be running")
				return c.errs.New(ErrStopTimeout)
			}
		}
	}
}

// Reset clears the output state and alarm status. Configuration is left
// untouched and no device write is issued.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.state.OutputState = false
	c.state.CompareResult = false
	c.state.AlarmStatus = alarm.StatusNormal
	c.mu.Unlock()

	logger.Info().Msg("Runtime state reset")
	c.publishChange()
}

// run is the monitoring task loop. One instance per controller; exits when
// a stop has been requested, observed at the top of each iteration.
func (c *Controller) run(done chan struct{}) {
	cycles := 0
	windowStart := c.clock.Now()

	for {
		start := c.clock.Now()

		c.mu.Lock()
		if c.task == TaskStopRequested {
			c.task = TaskStopped
			c.mu.Unlock()
			close(done)
			return
		}
		params := c.params
		enabled := c.state.Enabled
		c.mu.Unlock()

		c.step(params, enabled, start)

		cycles++
		if cycles%cycleReportEvery == 0 {
			now := c.clock.Now()
			if elapsed := now.Sub(windowStart).Seconds(); elapsed > 0 {
				logger.Debug().
					Float64("actual_hz", cycleReportEvery/elapsed).
					Float64("target_hz", params.UpdateRate).
					Msg("Monitoring cycle report")
			}
			windowStart = now
		}

		period := time.Duration(float64(time.Second) / params.UpdateRate)
		elapsed := c.clock.Now().Sub(start)
		if elapsed > period {
			c.reporter.Report(alarm.LevelWarning, alarm.CategorySoft, "controller.run",
				fmt.Sprintf("tick processing took %v, exceeding the %v period", elapsed, period))
			continue
		}
		c.clock.Sleep(period - elapsed)
	}
}

// step executes one tick and contains adapter panics: a panicking adapter
// is a fatal internal fault, so the controller disables itself and keeps
// the task alive passively rather than crashing the process.
func (c *Controller) step(params Params, enabled bool, start time.Time) {
	defer func() {
		if r := recover(); r != nil {
			c.mu.Lock()
			c.state.Enabled = false
			c.state.AlarmStatus = alarm.StatusInvalid
			c.mu.Unlock()
			c.reporter.Report(alarm.LevelFatal, alarm.CategorySoft, "controller.step",
				fmt.Sprintf("panic in monitoring tick: %v", r))
			c.clock.Sleep(panicBackoff)
		}
	}()

	if enabled {
		c.tick(params, start)
	} else {
		c.refresh(start)
	}
	c.publish(start)
}

// tick is one active iteration: read, decide, conditionally write, commit
// only after the device confirmed the write.
func (c *Controller) tick(p Params, now time.Time) {
	value, err := c.adapter.ReadValue()
	if err != nil {
		c.raiseAlarm(alarm.LevelError, alarm.CategoryComm, "controller.tick",
			fmt.Sprintf("read from %s addr %d failed: %v", p.Binding.Port, p.Binding.Addr, err))
		return
	}

	if value < device.MinValue || value > device.MaxValue {
		clamped := math.Max(device.MinValue, math.Min(device.MaxValue, value))
		c.raiseAlarm(alarm.LevelWarning, alarm.CategoryState, "controller.tick",
			fmt.Sprintf("measured value %g V outside %g..%g V, clamped", value, device.MinValue, device.MaxValue))
		value = clamped
	}

	c.mu.Lock()
	previous := c.state.OutputState
	c.state.CurrentValue = value
	c.state.LastUpdate = now
	c.mu.Unlock()

	next := Decide(value, p.Threshold, p.Hysteresis, previous)
	if next == previous {
		c.clearDeviceAlarm()
		return
	}

	c.ioMu.Lock()
	defer c.ioMu.Unlock()

	// A disable that landed after this tick's snapshot must win: never
	// write once Enable(false) has cleared the flag.
	c.mu.Lock()
	stillEnabled := c.state.Enabled
	c.mu.Unlock()
	if !stillEnabled {
		return
	}

	if err := c.adapter.WriteOutput(next); err != nil {
		c.raiseAlarm(alarm.LevelError, alarm.CategoryWrite, "controller.tick",
			fmt.Sprintf("write to %s addr %d failed: %v", p.Binding.Port, p.Binding.Addr, err))
		return
	}

	c.mu.Lock()
	c.state.OutputState = next
	c.state.CompareResult = next
	c.state.AlarmStatus = alarm.StatusNormal
	c.mu.Unlock()

	logger.Debug().Bool("from", previous).Bool("to", next).Msg("Output state changed")
}

// refresh is one passive iteration: keep the displayed value live without
// evaluating the decision or touching the output.
func (c *Controller) refresh(now time.Time) {
	value, err := c.adapter.ReadValue()
	if err != nil {
		logger.Debug().Err(err).Msg("Passive refresh read failed")
		return
	}

	value = math.Max(device.MinValue, math.Min(device.MaxValue, value))

	c.mu.Lock()
	c.state.CurrentValue = value
	c.state.LastUpdate = now
	c.mu.Unlock()
}

func (c *Controller) raiseAlarm(level alarm.Level, category alarm.Category, source, message string) {
	status := alarm.StatusFor(level)

	c.mu.Lock()
	// A warning never downgrades an active major alarm.
	if status > c.state.AlarmStatus {
		c.state.AlarmStatus = status
	}
	c.mu.Unlock()

	c.reporter.Report(level, category, source, message)
}

// clearDeviceAlarm drops the alarm status back to normal after a healthy
// tick, mirroring the retry-forever device error policy.
func (c *Controller) clearDeviceAlarm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.AlarmStatus != alarm.StatusNormal {
		c.state.AlarmStatus = alarm.StatusNormal
	}
}

// publish pushes the current snapshot to every registered publisher.
func (c *Controller) publish(now time.Time) {
	c.mu.Lock()
	snap := Snapshot{
		Timestamp: now,
		Params:    c.params,
		State:     c.state,
	}
	publishers := c.publishers
	c.mu.Unlock()

	snap.Alarms = c.reporter.Statistics()

	for _, p := range publishers {
		if err := p.Publish(snap); err != nil {
			logger.Warn().Err(err).Msg("Snapshot publish failed")
		}
	}
}

// publishChange pushes a snapshot outside the tick cadence after an
// externally driven state change.
func (c *Controller) publishChange() {
	c.publish(c.clock.Now())
}
