package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/user/dataplot_go/internal/analysis"
	"github.com/user/dataplot_go/internal/display"
	"github.com/user/dataplot_go/internal/parser"
	"github.com/user/dataplot_go/internal/report"
)

// Config is one invocation of the pipeline.
type Config struct {
	Input   string
	Output  string
	PDF     string // empty skips the PDF report
	Parse   parser.Options
	Show    bool // open the saved chart in the default viewer
	ASCII   bool // always print a terminal preview
	Colored bool
}

// DefaultConfig is the no-argument run: data.txt in, visualization.png out.
func DefaultConfig() Config {
	return Config{
		Input:  "data.txt",
		Output: report.OutputFile,
		Parse:  parser.DefaultOptions(),
	}
}

// App runs the load, render and display pipeline.
type App struct {
	log    *logrus.Logger
	viewer *display.Viewer
	stdout io.Writer
	isTTY  bool
}

// NewApp creates an App writing previews to stdout.
func NewApp(log *logrus.Logger) *App {
	return &App{
		log:    log,
		viewer: display.NewViewer(),
		stdout: os.Stdout,
		isTTY:  isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
}

// Run executes the pipeline once. The chart is saved before any display
// attempt, and display problems are only logged.
func (a *App) Run(cfg Config) error {
	a.log.WithFields(logrus.Fields{
		"input":   cfg.Input,
		"variant": cfg.Parse.Variant,
		"policy":  cfg.Parse.Policy(),
	}).Info("Loading data")

	ds, err := parser.Load(cfg.Input, cfg.Parse)
	if err != nil {
		return fmt.Errorf("error loading data: %w", err)
	}
	a.log.WithFields(logrus.Fields{"rows": ds.Len(), "series": len(ds.Series)}).Info("Loaded data")

	summaries, err := analysis.Summarize(ds)
	if err != nil {
		return fmt.Errorf("error summarizing data: %w", err)
	}
	for _, sum := range summaries {
		a.log.WithFields(logrus.Fields{
			"series":  sum.Label,
			"valid":   sum.Valid(),
			"missing": sum.Missing,
			"min":     sum.Min,
			"max":     sum.Max,
			"final":   sum.Final,
		}).Debug("Series summary")
	}

	chart, err := report.Render(ds, cfg.Output)
	if err != nil {
		return fmt.Errorf("error generating chart: %w", err)
	}
	a.log.WithField("output", cfg.Output).Info("Chart saved")

	if cfg.PDF != "" {
		if err := report.BuildPDFReport(cfg.PDF, cfg.Input, ds, summaries, chart); err != nil {
			return fmt.Errorf("error generating PDF report: %w", err)
		}
		a.log.WithField("output", cfg.PDF).Info("PDF report saved")
	}

	a.present(cfg, ds)
	return nil
}

// present handles the optional display step.
func (a *App) present(cfg Config, ds *parser.Dataset) {
	preview := cfg.ASCII
	if cfg.Show {
		if err := a.viewer.Show(cfg.Output); err != nil {
			if errors.Is(err, display.ErrNoDisplay) {
				a.log.WithError(err).Debug("Skipping interactive display")
				preview = preview || a.isTTY
			} else {
				a.log.WithError(err).Warn("Could not display chart")
			}
		}
	}
	if !preview {
		return
	}
	if err := display.Preview(a.stdout, ds, report.TitleFor(ds.Variant), cfg.Colored && a.isTTY); err != nil {
		a.log.WithError(err).Debug("Skipping terminal preview")
	}
}
