package scenario

import (
	"fmt"

	"go.uber.org/zap"
)

// Option configures a Machine or a Run.
type Option func(*options)

type options struct {
	observer        func(Event)
	continueOnError bool
}

// WithObserver registers fn to receive every trace event as it happens.
func WithObserver(fn func(Event)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// ContinueOnError makes Run record failing steps as error events and carry
// on instead of stopping at the first failure.
func ContinueOnError() Option {
	return func(o *options) {
		o.continueOnError = true
	}
}

// Report is the outcome of a scenario run.
type Report struct {
	Name string
	// Trace holds every event, including the destructions performed when
	// the run ended.
	Trace []Event
	// Slots and Raws are snapshots taken after the last step, before the
	// remaining lifetimes ended.
	Slots      []SlotState
	Raws       []SlotState
	Vault      []VaultEntry
	Records    []Record
	Leaked     []uint64
	Violations []uint64
	Errors     []error
}

// OK reports whether every identity was destroyed exactly once and no
// step failed.
func (r *Report) OK() bool {
	return len(r.Leaked) == 0 && len(r.Violations) == 0 && len(r.Errors) == 0
}

// Run executes script on a fresh machine and ends every remaining lifetime
// afterwards. Unless ContinueOnError is set, the first failing step stops
// the run; the partial report is returned together with the error.
func Run(script *Script, opts ...Option) (*Report, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	m := NewMachine(opts...)
	report := &Report{Name: script.Name}

	log := Logger().With(zap.String("script", script.Name))
	log.Debug("run started", zap.Int("steps", len(script.Steps)))

	var runErr error
	for i, step := range script.Steps {
		err := m.Exec(step)
		if err == nil {
			continue
		}
		err = fmt.Errorf("step %d (%s): %w", i+1, step, err)
		log.Debug("step failed", zap.Error(err))
		if !o.continueOnError {
			runErr = err
			break
		}
		report.Errors = append(report.Errors, err)
		m.record(Event{Kind: EventError, Text: err.Error()})
	}

	report.Slots = m.Slots()
	report.Raws = m.Raws()
	report.Vault = m.Vault()

	m.Close()

	ledger := m.Ledger()
	report.Trace = m.Trace()
	report.Records = ledger.Records()
	report.Leaked = ledger.Live()
	report.Violations = ledger.Violations()
	if runErr != nil {
		report.Errors = append(report.Errors, runErr)
	}

	log.Debug("run finished",
		zap.Int("events", len(report.Trace)),
		zap.Int("leaked", len(report.Leaked)),
		zap.Int("violations", len(report.Violations)))

	return report, runErr
}
