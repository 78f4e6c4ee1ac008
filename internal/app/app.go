// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/HaPhanBaoMinh/kusage/internal/domain"
	"github.com/HaPhanBaoMinh/kusage/internal/report"
	"github.com/HaPhanBaoMinh/kusage/internal/usage"
)

// App wires fetch -> aggregate -> print for a single run.
type App struct {
	source  domain.MetricsSource
	agg     *usage.Aggregator
	printer report.Printer
	log     *zap.Logger
}

func New(source domain.MetricsSource, printer report.Printer, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		source:  source,
		agg:     usage.NewAggregator(log.Named("usage")),
		printer: printer,
		log:     log,
	}
}

// Run fetches metrics for mode and writes the report to out.
//
// A failed metrics command is reported on out and is not an error; the
// report is skipped. Malformed numbers in the table are returned.
func (a *App) Run(ctx context.Context, mode domain.Mode, out io.Writer) error {
	raw, err := a.source.TopPods(ctx, mode)
	if err != nil {
		if handled := a.fetchFailed(out, err); handled {
			return nil
		}
		return fmt.Errorf("fetch pod metrics: %w", err)
	}

	sum, err := a.agg.Aggregate(raw, mode)
	if err != nil {
		return fmt.Errorf("aggregate pod metrics: %w", err)
	}

	a.log.Info("usage computed",
		zap.Stringer("mode", mode),
		zap.Int("namespaces", sum.Namespaces.Len()),
	)
	return a.printer.Print(out, sum)
}

func (a *App) fetchFailed(out io.Writer, err error) bool {
	var cmdErr *domain.CommandExecutionError
	switch {
	case errors.As(err, &cmdErr):
		a.log.Warn("metrics command failed", zap.Strings("argv", cmdErr.Command), zap.Int("exit_code", cmdErr.ExitCode))
		writeFetchFailure(out, cmdErr.Stderr)
		return true
	case errors.Is(err, domain.ErrEmptyOutput):
		a.log.Warn("metrics command returned no rows")
		writeFetchFailure(out, "")
		return true
	}
	return false
}
