package config

import (
	"log/slog"
	"path/filepath"
)

// Paths contains every artefact path of a run.
// This is the single source of truth for output locations.
type Paths struct {
	OutputDir      string
	WorkbookFile   string
	PDFFile        string
	SummaryFile    string
	AggregatesFile string
}

// NewPaths resolves artefact paths under outputDir
func NewPaths(outputDir string) *Paths {
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	return &Paths{
		OutputDir:      outputDir,
		WorkbookFile:   filepath.Join(outputDir, WorkbookFileName),
		PDFFile:        filepath.Join(outputDir, PDFFileName),
		SummaryFile:    filepath.Join(outputDir, SummaryFileName),
		AggregatesFile: filepath.Join(outputDir, AggregatesFileName),
	}
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Resolved report paths",
		slog.String("output_dir", p.OutputDir),
		slog.String("workbook", p.WorkbookFile),
		slog.String("pdf", p.PDFFile),
		slog.String("summary", p.SummaryFile),
		slog.String("aggregates", p.AggregatesFile))
}
