package inference

import (
	"context"
	"errors"
	"path/filepath"

	"grnexport/internal/engineexec"
	"grnexport/internal/grnerr"
	"grnexport/internal/jsonutil"
	"grnexport/internal/model"
	"grnexport/internal/tables"
)

// request is what the engine program reads from --request.
type request struct {
	Sources model.Sources `json:"sources"`
	Params  Params        `json:"params"`
	OutDir  string        `json:"out_dir"`
}

// Command runs the engine program's "infer" verb. The program receives a
// JSON request and leaves one TSV per table in the request's out_dir.
type Command struct {
	Runner *engineexec.Runner
}

func (c *Command) Infer(ctx context.Context, m *model.Model, p Params) error {
	dir, err := c.Runner.Prepare("infer")
	if err != nil {
		return err
	}
	outDir := filepath.Join(dir, "tables")
	if err := c.Runner.Fs.MkdirAll(outDir, 0o755); err != nil {
		return &grnerr.IOError{Op: "mkdir", Path: outDir, Err: err}
	}
	reqPath := filepath.Join(dir, "request.json")
	if err := jsonutil.WriteFile(c.Runner.Fs, reqPath, request{Sources: m.Sources, Params: p, OutDir: outDir}); err != nil {
		return &grnerr.IOError{Op: "write", Path: reqPath, Err: err}
	}

	runErr := c.Runner.Run(ctx, "infer", "--request", reqPath)
	// Collect whatever the engine left behind, even after a failure, so the
	// checkpoint holds the partial state.
	readErr := tables.ReadDir(c.Runner.Fs, outDir, m)
	if runErr != nil {
		return errors.Join(runErr, readErr)
	}
	return readErr
}
