package checkpoint

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"grnexport/internal/grnerr"
	"grnexport/internal/inference"
	"grnexport/internal/model"
)

// Outcome reports how inference went. Err is nil on success. After a
// failure Checkpoint names the recovery file, or CheckpointErr says why it
// could not be written.
type Outcome struct {
	Err           *grnerr.InferenceError
	Checkpoint    string
	CheckpointErr error
}

// Failed reports whether inference returned an error.
func (o Outcome) Failed() bool { return o.Err != nil }

// Guard runs the inference engine and checkpoints the model if it fails.
// It never decides whether the run continues.
type Guard struct {
	Fs    afero.Fs
	Path  string
	RunID string
	Log   *zap.SugaredLogger
	Now   func() time.Time
}

// Run invokes eng on m. On failure, including a panic, it saves m as-is to
// Path and returns the failure with the checkpoint result. It never aborts
// the run itself.
func (g *Guard) Run(ctx context.Context, eng inference.Engine, m *model.Model, p inference.Params) Outcome {
	err := infer(ctx, eng, m, p)
	if err == nil {
		g.Log.Infow("inference done", "tables", m.Summary())
		return Outcome{}
	}

	out := Outcome{Err: &grnerr.InferenceError{Err: err}}
	g.Log.Errorw("inference failed", "error", err, "tables", m.Summary())

	f := File{RunID: g.RunID, Cause: err.Error(), Written: g.now(), Model: m}
	if serr := Save(g.Fs, g.Path, f); serr != nil {
		g.Log.Errorw("checkpoint not written", "path", g.Path, "error", serr)
		out.CheckpointErr = serr
		return out
	}
	g.Log.Warnw("model checkpointed", "path", g.Path)
	out.Checkpoint = g.Path
	return out
}

func (g *Guard) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now().UTC()
}

// infer turns an engine panic into an ordinary failure.
func infer(ctx context.Context, eng inference.Engine, m *model.Model, p inference.Params) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine panic: %v", r)
		}
	}()
	return eng.Infer(ctx, m, p)
}
