package dispatch

import (
	"context"
	"path/filepath"

	"phantomsync/internal/logger"
	"phantomsync/internal/model"
	"phantomsync/internal/resolver"
	"phantomsync/internal/uploader"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Uploader interface {
	UploadScript(ctx context.Context, target resolver.Target) uploader.Outcome
	UploadMetadata(ctx context.Context, target resolver.Target) uploader.Outcome
}

// Recorder persists outcomes. It is optional.
type Recorder interface {
	Record(eventID string, out uploader.Outcome) error
}

type Dispatcher struct {
	state    *State
	uploader Uploader
	recorder Recorder
	stats    *Stats
}

func New(state *State, up Uploader, rec Recorder) *Dispatcher {
	return &Dispatcher{
		state:    state,
		uploader: up,
		recorder: rec,
		stats:    NewStats(),
	}
}

func (d *Dispatcher) State() *State {
	return d.state
}

func (d *Dispatcher) Status() model.StatusSnapshot {
	return d.stats.Snapshot(d.state.Current())
}

// Dispatch uploads path to every account mapping it. It reports whether any
// mapping matched, regardless of whether the uploads succeeded.
func (d *Dispatcher) Dispatch(ctx context.Context, path string) bool {
	_, found := d.dispatch(ctx, uuid.NewString(), path)
	return found
}

func (d *Dispatcher) dispatch(ctx context.Context, eventID, path string) ([]uploader.Outcome, bool) {
	v := d.state.Current()
	targets := resolver.Resolve(v.Config, path)

	logger.Log.Debug("resolved",
		zap.String("event", eventID),
		zap.String("path", path),
		zap.Uint64("config_version", v.N),
		zap.Int("targets", len(targets)))

	if len(targets) == 0 {
		d.stats.RecordNotFound()
		logger.Log.Info(path + ": Not found in configuration")
		return nil, false
	}

	outcomes := make([]uploader.Outcome, 0, len(targets))
	for _, t := range targets {
		var out uploader.Outcome
		if resolver.IsSidecar(t.RealPath) {
			out = d.uploader.UploadMetadata(ctx, t)
		} else {
			out = d.uploader.UploadScript(ctx, t)
		}

		d.report(eventID, out)
		outcomes = append(outcomes, out)
	}

	return outcomes, true
}

func (d *Dispatcher) report(eventID string, out uploader.Outcome) {
	d.stats.RecordOutcome(out)

	if out.OK() {
		logger.Log.Info(out.String())
	} else {
		logger.Log.Error(out.String())
	}

	if d.recorder == nil {
		return
	}

	if err := d.recorder.Record(eventID, out); err != nil {
		logger.Log.Warn("failed to save history",
			zap.String("event", eventID),
			zap.Error(err))
	}
}

// Run consumes events until inCh closes or ctx is done. Events are handled
// one at a time. A change to the configuration file reloads it instead of
// being dispatched.
func (d *Dispatcher) Run(ctx context.Context, inCh <-chan model.FileEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-inCh:
			if !ok {
				return
			}
			d.Handle(ctx, event)
		}
	}
}

func (d *Dispatcher) Handle(ctx context.Context, event model.FileEvent) {
	if !event.IsUpdate() {
		return
	}

	if d.isConfigFile(event.Path) {
		v, err := d.state.Reload()
		if err != nil {
			logger.Log.Error(event.Path+": Configuration reload failed, keeping previous version",
				zap.Error(err))
			return
		}

		logger.Log.Info(event.Path+": Configuration reloaded",
			zap.Uint64("version", v.N))
		return
	}

	id := event.ID
	if id == "" {
		id = uuid.NewString()
	}
	d.dispatch(ctx, id, event.Path)
}

func (d *Dispatcher) isConfigFile(path string) bool {
	cfgPath := d.state.Current().Config.Path
	if filepath.Clean(path) == cfgPath {
		return true
	}

	resolved, err := filepath.EvalSymlinks(path)
	return err == nil && resolved == cfgPath
}
