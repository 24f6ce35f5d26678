package watcher

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lemony312/FreeRide/internal/hostcfg"
	"github.com/lemony312/FreeRide/internal/observability"
	"github.com/lemony312/FreeRide/internal/rpc"
	"github.com/lemony312/FreeRide/internal/selector"
)

var (
	// ErrRotationExhausted reports the end of the fallback list with
	// wrap-around disabled.
	ErrRotationExhausted = errors.New("fallback list exhausted")
	// ErrNoFallbacks reports a rotation attempt with no fallbacks configured.
	ErrNoFallbacks = errors.New("no fallback models configured")
)

// Rotator advances the active primary model to the next fallback. Every
// transition rereads the host config and rotation state from disk, so the
// machine is restartable from persisted state alone.
type Rotator struct {
	HostConfigPath string
	StatePath      string
	Wrap           bool
	Logger         *zap.Logger
	Metrics        *observability.Metrics

	now func() time.Time
}

// NewRotator builds a rotator over the given file paths.
func NewRotator(hostConfigPath, statePath string, wrap bool, logger *zap.Logger, metrics *observability.Metrics) *Rotator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rotator{
		HostConfigPath: hostConfigPath,
		StatePath:      statePath,
		Wrap:           wrap,
		Logger:         logger,
		Metrics:        metrics,
		now:            time.Now,
	}
}

// Rotate performs the RotationTriggered -> RotationApplied transition: pick
// the fallback after the current index, rewrite the host primary through the
// config merger, append a history record, and persist the updated state.
// Either both files reflect the rotation or an error leaves state untouched.
func (r *Rotator) Rotate(reason string) (rpc.RotateResponse, error) {
	if reason == "" {
		reason = "manual"
	}

	doc, err := hostcfg.Load(r.HostConfigPath)
	if err != nil {
		r.Metrics.RecordRotation("error")
		return rpc.RotateResponse{}, err
	}
	primary, err := hostcfg.Primary(doc)
	if err != nil {
		r.Metrics.RecordRotation("error")
		return rpc.RotateResponse{}, err
	}
	fallbacks, err := hostcfg.Fallbacks(doc)
	if err != nil {
		r.Metrics.RecordRotation("error")
		return rpc.RotateResponse{}, err
	}
	if len(fallbacks) == 0 {
		r.Metrics.RecordRotation("error")
		return rpc.RotateResponse{}, ErrNoFallbacks
	}

	st, reset, err := LoadState(r.StatePath)
	if err != nil {
		r.Metrics.RecordRotation("error")
		return rpc.RotateResponse{}, err
	}
	if reset {
		r.Logger.Warn("rotation state corrupt, reset to fresh state", zap.String("path", r.StatePath))
	}

	next := st.CurrentIndex + 1
	if next >= len(fallbacks) {
		if !r.Wrap {
			r.Metrics.RecordRotation("exhausted")
			return rpc.RotateResponse{}, fmt.Errorf("%w: index %d of %d fallbacks", ErrRotationExhausted, st.CurrentIndex, len(fallbacks))
		}
		next = 0
	}
	target := fallbacks[next]

	st.State = StateRotationTriggered
	r.Logger.Info("rotation triggered",
		zap.String("from", primary), zap.String("to", target), zap.String("reason", reason))

	// The rewrite goes through the same merge contract as a selection:
	// primary changes, the fallback ordering and every unrelated key stay put.
	slate := selector.Slate{Primary: hostcfg.StripHostPrefix(target)}
	for _, fb := range fallbacks {
		slate.Fallbacks = append(slate.Fallbacks, hostcfg.StripHostPrefix(fb))
	}
	merged, err := hostcfg.Merge(doc, slate, nil)
	if err != nil {
		r.Metrics.RecordRotation("error")
		return rpc.RotateResponse{}, err
	}
	if err := hostcfg.WriteFile(r.HostConfigPath, merged); err != nil {
		r.Metrics.RecordRotation("error")
		return rpc.RotateResponse{}, err
	}

	// The applied state persists until the watcher's next tick returns the
	// machine to monitoring.
	now := r.now()
	st.State = StateRotationApplied
	st.CurrentIndex = next
	st.LastCheck = now
	st.History = append(st.History, HistoryRecord{
		Timestamp: now,
		FromModel: primary,
		ToModel:   hostcfg.FormatHostID(hostcfg.StripHostPrefix(target)),
		Reason:    reason,
	})
	if err := SaveState(r.StatePath, st); err != nil {
		r.Metrics.RecordRotation("error")
		return rpc.RotateResponse{}, err
	}

	r.Metrics.RecordRotation("applied")
	return rpc.RotateResponse{
		FromModel:    primary,
		ToModel:      hostcfg.FormatHostID(hostcfg.StripHostPrefix(target)),
		CurrentIndex: next,
	}, nil
}

// Status is a pure read of the persisted rotation state plus the active
// slate; it never mutates either file.
func (r *Rotator) Status() (rpc.StatusResponse, error) {
	st, reset, err := LoadState(r.StatePath)
	if err != nil {
		return rpc.StatusResponse{}, err
	}
	if reset {
		r.Logger.Warn("rotation state corrupt, reporting fresh state", zap.String("path", r.StatePath))
	}

	resp := rpc.StatusResponse{
		State:        string(st.State),
		CurrentIndex: st.CurrentIndex,
		LastCheck:    st.LastCheck,
	}
	for _, h := range st.History {
		resp.History = append(resp.History, rpc.HistoryRecord(h))
	}

	doc, err := hostcfg.Load(r.HostConfigPath)
	if err != nil {
		return resp, nil
	}
	if primary, err := hostcfg.Primary(doc); err == nil {
		resp.Primary = primary
	}
	if fallbacks, err := hostcfg.Fallbacks(doc); err == nil {
		resp.Fallbacks = fallbacks
	}
	return resp, nil
}
