package domain

import (
	"time"

	"github.com/google/uuid"
)

// ConversionRun is a completed conversion recorded in the run history.
type ConversionRun struct {
	ID         string
	InputPath  string
	OutputPath string
	Stats      RunStatistics
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewConversionRun creates a run with a fresh ID.
func NewConversionRun(inputPath, outputPath string, stats RunStatistics, startedAt, finishedAt time.Time) *ConversionRun {
	return &ConversionRun{
		ID:         uuid.New().String(),
		InputPath:  inputPath,
		OutputPath: outputPath,
		Stats:      stats,
		StartedAt:  startedAt.UTC(),
		FinishedAt: finishedAt.UTC(),
	}
}

// Duration returns how long the run took.
func (r *ConversionRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
