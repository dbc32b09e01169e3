package presenter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/soocke/ctr-meter/domain/acquisition"
	"github.com/soocke/ctr-meter/domain/results"
	"github.com/soocke/ctr-meter/ui/plots"
)

// ExportOptions names the output files and the summary figure layout.
type ExportOptions struct {
	Input    string
	Suffix   string
	BinWidth float64
	Plot     plots.Options
}

// Exported lists what was written.
type Exported struct {
	NPY, JSON, PNG string
	Figure         []byte
}

// Export writes the .npy array, the JSON sidecar and the summary figure next
// to the input file. The array and sidecar are kept even when the figure fails.
func Export(opts ExportOptions, recs []acquisition.Record) (Exported, error) {
	out := Exported{
		NPY:  results.OutputPath(opts.Input, opts.Suffix, ".npy"),
		JSON: results.OutputPath(opts.Input, opts.Suffix, ".json"),
		PNG:  results.OutputPath(opts.Input, opts.Suffix, ".png"),
	}
	if err := results.SaveNPY(out.NPY, recs); err != nil {
		return Exported{}, err
	}
	if err := results.SaveJSON(out.JSON, opts.Input, recs); err != nil {
		return Exported{}, err
	}
	fig, err := plots.Summary(recs, opts.BinWidth, opts.Plot)
	if err != nil {
		out.PNG = ""
		return out, fmt.Errorf("summary figure: %w", err)
	}
	if err := os.WriteFile(out.PNG, fig, 0o644); err != nil {
		out.PNG = ""
		return out, fmt.Errorf("write figure: %w", err)
	}
	out.Figure = fig
	return out, nil
}

// ResultView reports the outcome of a run.
type ResultView interface {
	ShowMessage(text string)
	ShowSummary(png []byte)
}

// ResultPresenter saves and displays the outcome of a finished run.
type ResultPresenter struct {
	opts   ExportOptions
	view   ResultView
	logger *slog.Logger
}

func NewResultPresenter(opts ExportOptions, view ResultView, logger *slog.Logger) *ResultPresenter {
	return &ResultPresenter{opts: opts, view: view, logger: logger}
}

// SetOptions replaces the export options; the run presenter's build step
// calls it so edits made in the config panel reach the output paths.
func (p *ResultPresenter) SetOptions(opts ExportOptions) {
	if p != nil {
		p.opts = opts
	}
}

// Finish handles the result of RunPresenter. A failed or cancelled run saves nothing.
func (p *ResultPresenter) Finish(recs []acquisition.Record, err error) {
	if p == nil || p.view == nil {
		return
	}
	switch {
	case errors.Is(err, context.Canceled):
		p.log(slog.LevelInfo, "acquisition cancelled")
		return
	case err != nil:
		p.log(slog.LevelError, "acquisition failed", "error", err)
		p.view.ShowMessage("Run failed: " + err.Error())
		return
	case len(recs) == 0:
		p.log(slog.LevelWarn, "no records collected")
		p.view.ShowMessage("Finished: no records collected")
		return
	}
	out, err := Export(p.opts, recs)
	if out.NPY == "" {
		p.log(slog.LevelError, "save failed", "error", err)
		p.view.ShowMessage("Save failed: " + err.Error())
		return
	}
	p.log(slog.LevelInfo, "results saved", "npy", out.NPY, "json", out.JSON, "png", out.PNG, "records", len(recs))
	if err != nil {
		p.log(slog.LevelWarn, "summary figure skipped", "error", err)
		p.view.ShowMessage(fmt.Sprintf("Saved %d records to %s (no figure)", len(recs), out.NPY))
		return
	}
	p.view.ShowMessage(fmt.Sprintf("Saved %d records to %s", len(recs), out.NPY))
	p.view.ShowSummary(out.Figure)
}

func (p *ResultPresenter) log(level slog.Level, msg string, args ...any) {
	if p.logger != nil {
		p.logger.Log(context.Background(), level, msg, args...)
	}
}
