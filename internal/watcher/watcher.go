package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lemony312/FreeRide/internal/observability"
)

// SignalSource reports exhaustion of the active model. The detection
// mechanism itself belongs to an external collaborator; the watcher only
// consumes the signal.
type SignalSource interface {
	Check(ctx context.Context) (reason string, triggered bool, err error)
}

// FileSignal triggers on the presence of a marker file. The file's first
// line, when non-empty, names the rotation reason; the file is consumed.
type FileSignal struct {
	Path string
}

// Check implements SignalSource.
func (f *FileSignal) Check(ctx context.Context) (string, bool, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read signal file: %w", err)
	}
	if err := os.Remove(f.Path); err != nil {
		return "", false, fmt.Errorf("consume signal file: %w", err)
	}

	reason := "rate_limited"
	line, _, _ := strings.Cut(strings.TrimSpace(string(data)), "\n")
	if line = strings.TrimSpace(line); line != "" {
		reason = line
	}
	return reason, true, nil
}

// Watcher runs the monitoring loop: each iteration is independent and
// stateless aside from the persisted RotationState, so a crash and restart
// resume correctly from disk.
type Watcher struct {
	Rotator  *Rotator
	Source   SignalSource
	Interval time.Duration
	Logger   *zap.Logger
	Metrics  *observability.Metrics
}

// Run transitions Idle -> Monitoring and polls the signal source until the
// context is cancelled. There is no terminal state; rotation exhaustion is
// reported and monitoring continues.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.tick(ctx, true); err != nil {
		return err
	}

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.tick(ctx, false); err != nil {
				return err
			}
		}
	}
}

// tick performs one Monitoring iteration.
func (w *Watcher) tick(ctx context.Context, starting bool) error {
	st, reset, err := LoadState(w.Rotator.StatePath)
	if err != nil {
		return err
	}
	if reset {
		w.Logger.Warn("rotation state corrupt, reset to fresh state",
			zap.String("path", w.Rotator.StatePath))
	}
	if starting && st.State == StateIdle {
		w.Logger.Info("watcher entering monitoring state",
			zap.Int("current_index", st.CurrentIndex))
	}

	st.State = StateMonitoring
	st.LastCheck = time.Now()
	if err := SaveState(w.Rotator.StatePath, st); err != nil {
		return err
	}
	w.Metrics.RecordCheck(st.CurrentIndex)

	reason, triggered, err := w.Source.Check(ctx)
	if err != nil {
		w.Logger.Warn("signal check failed", zap.Error(err))
		return nil
	}
	if !triggered {
		return nil
	}

	res, err := w.Rotator.Rotate(reason)
	switch {
	case errors.Is(err, ErrRotationExhausted):
		w.Logger.Warn("rotation exhausted, keeping current model", zap.Error(err))
	case errors.Is(err, ErrNoFallbacks):
		w.Logger.Warn("no fallbacks configured, nothing to rotate to")
	case err != nil:
		w.Logger.Error("rotation failed", zap.Error(err))
	default:
		w.Logger.Info("rotation applied",
			zap.String("from", res.FromModel),
			zap.String("to", res.ToModel),
			zap.Int("current_index", res.CurrentIndex),
			zap.String("reason", reason))
	}
	return nil
}
