// Package convert turns an experiments CSV into a JSON array and measures
// how much of a model context window the result would occupy.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/emiliopalmerini/expconv/internal/domain"
	"github.com/emiliopalmerini/expconv/internal/experiment"
	"github.com/emiliopalmerini/expconv/internal/tokens"
)

// Options configures a conversion run.
type Options struct {
	InputPath     string
	OutputPath    string
	ContextBudget int
}

// Batch is the in-memory result of parsing: records in input order with the
// token estimate of each one.
type Batch struct {
	Records      []experiment.Record
	RecordTokens []int
	TotalTokens  int
}

// Result describes a completed conversion.
type Result struct {
	Batch
	Stats      domain.RunStatistics
	InputPath  string
	OutputPath string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Run returns the result as a history entry.
func (r *Result) Run() *domain.ConversionRun {
	return domain.NewConversionRun(r.InputPath, r.OutputPath, r.Stats, r.StartedAt, r.FinishedAt)
}

// Converter performs one conversion per call to Convert.
type Converter struct {
	opts   Options
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Converter. A zero ContextBudget uses domain.DefaultContextBudget.
func New(opts Options, logger *slog.Logger) *Converter {
	if opts.ContextBudget == 0 {
		opts.ContextBudget = domain.DefaultContextBudget
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Converter{opts: opts, logger: logger, now: time.Now}
}

// Convert reads the input CSV, maps and measures every row, writes the JSON
// array to the output path and computes run statistics.
//
// The output file is only created after every row has been mapped, so a
// missing column or malformed row leaves any existing output untouched.
func (c *Converter) Convert(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := c.now()

	if _, err := os.Stat(c.opts.InputPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &InputNotFoundError{Path: c.opts.InputPath}
		}
		return nil, &ConversionError{Stage: StageRead, Path: c.opts.InputPath, Cause: err}
	}

	batch, err := c.readInput()
	if err != nil {
		return nil, err
	}
	c.logger.Debug("parsed input",
		"path", c.opts.InputPath,
		"records", len(batch.Records),
		"tokens", batch.TotalTokens,
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	size, err := c.writeOutput(batch.Records)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("wrote output", "path", c.opts.OutputPath, "bytes", size)

	return &Result{
		Batch:      *batch,
		Stats:      domain.ComputeStatistics(len(batch.Records), batch.TotalTokens, size, c.opts.ContextBudget),
		InputPath:  c.opts.InputPath,
		OutputPath: c.opts.OutputPath,
		StartedAt:  started,
		FinishedAt: c.now(),
	}, nil
}

func (c *Converter) readInput() (*Batch, error) {
	f, err := os.Open(c.opts.InputPath)
	if err != nil {
		return nil, &ConversionError{Stage: StageRead, Path: c.opts.InputPath, Cause: err}
	}
	defer func() { _ = f.Close() }()

	batch, err := Collect(f)
	if err != nil {
		if errors.Is(err, experiment.ErrMissingField) || errors.Is(err, ErrConversion) {
			return nil, err
		}
		return nil, &ConversionError{Stage: StageParse, Path: c.opts.InputPath, Cause: err}
	}
	return batch, nil
}

// writeOutput writes the records and returns the size of the file on disk.
func (c *Converter) writeOutput(records []experiment.Record) (int64, error) {
	data, err := MarshalRecords(records)
	if err != nil {
		return 0, &ConversionError{Stage: StageEncode, Path: c.opts.OutputPath, Cause: err}
	}

	f, err := os.Create(c.opts.OutputPath)
	if err != nil {
		return 0, &ConversionError{Stage: StageWrite, Path: c.opts.OutputPath, Cause: err}
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return 0, &ConversionError{Stage: StageWrite, Path: c.opts.OutputPath, Cause: err}
	}
	if err := f.Close(); err != nil {
		return 0, &ConversionError{Stage: StageWrite, Path: c.opts.OutputPath, Cause: err}
	}

	info, err := os.Stat(c.opts.OutputPath)
	if err != nil {
		return 0, &ConversionError{Stage: StageStat, Path: c.opts.OutputPath, Cause: err}
	}
	return info.Size(), nil
}

// Collect maps every CSV row read from r and estimates its tokens. It stops
// at the first failing row.
func Collect(r io.Reader) (*Batch, error) {
	reader := experiment.NewReader(r)
	batch := &Batch{
		Records:      make([]experiment.Record, 0),
		RecordTokens: make([]int, 0),
	}

	for {
		row, ordinal, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return batch, nil
		}
		if err != nil {
			return nil, err
		}

		rec, err := experiment.MapRow(row, ordinal)
		if err != nil {
			return nil, err
		}

		n, err := tokens.EstimateValue(rec)
		if err != nil {
			return nil, &ConversionError{Stage: StageEncode, Cause: fmt.Errorf("row %d: %w", ordinal, err)}
		}

		batch.Records = append(batch.Records, rec)
		batch.RecordTokens = append(batch.RecordTokens, n)
		batch.TotalTokens += n
	}
}
