// Package usage turns `kubectl top pods` tables into per-namespace totals.
package usage

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/HaPhanBaoMinh/kusage/internal/domain"
)

// ErrNonNumeric marks a CPU or memory cell whose numeric part is not an integer.
var ErrNonNumeric = errors.New("non-numeric resource value")

// NumberError describes the cell that could not be parsed.
type NumberError struct {
	Line   int // 1-based, header included
	Column string
	Value  string
	Err    error
}

func (e *NumberError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s value %q: %v", e.Line, e.Column, e.Value, e.Err)
	}
	return fmt.Sprintf("%s value %q: %v", e.Column, e.Value, e.Err)
}

func (e *NumberError) Unwrap() error { return e.Err }

var fieldSep = regexp.MustCompile(`\s{2,}`)

// Row is one pod line reduced to the columns we care about.
type Row struct {
	Namespace string
	CPU       string
	Memory    string
}

// ParseRow maps table fields to a Row. It is the only place that knows the
// column layout of `kubectl top pods`; ok is false for short rows.
func ParseRow(fields []string, mode domain.Mode) (Row, bool) {
	if len(fields) < mode.MinFields() {
		return Row{}, false
	}
	if mode.AllNamespaces {
		// NAMESPACE  NAME  CPU(cores)  MEMORY(bytes)
		return Row{Namespace: fields[0], CPU: fields[2], Memory: fields[3]}, true
	}
	// NAME  CPU(cores)  MEMORY(bytes)
	return Row{Namespace: domain.DefaultNamespace, CPU: fields[1], Memory: fields[2]}, true
}

// ParseCPU converts "250m" or "2" (whole cores) to millicores.
func ParseCPU(s string) (int64, error) {
	if num, ok := strings.CutSuffix(s, "m"); ok {
		return atoi("cpu", s, num)
	}
	cores, err := atoi("cpu", s, s)
	if err != nil {
		return 0, err
	}
	return cores * 1000, nil
}

// ParseMemory converts "128Mi" or "2Gi" to MiB. Any other unit yields 0.
func ParseMemory(s string) (int64, error) {
	if num, ok := strings.CutSuffix(s, "Mi"); ok {
		return atoi("memory", s, num)
	}
	if num, ok := strings.CutSuffix(s, "Gi"); ok {
		gi, err := atoi("memory", s, num)
		if err != nil {
			return 0, err
		}
		return gi * 1024, nil
	}
	return 0, nil
}

func atoi(column, raw, num string) (int64, error) {
	v, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return 0, &NumberError{Column: column, Value: raw, Err: ErrNonNumeric}
	}
	return v, nil
}

// Aggregator sums a metrics table. The logger may be nil.
type Aggregator struct {
	Logger *zap.Logger
}

func NewAggregator(logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{Logger: logger}
}

// Aggregate parses raw and returns usage per namespace plus cluster totals.
// Short rows are skipped; a malformed number aborts the whole pass.
func (a *Aggregator) Aggregate(raw string, mode domain.Mode) (*domain.Summary, error) {
	log := a.Logger
	if log == nil {
		log = zap.NewNop()
	}

	sum := &domain.Summary{}
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	if len(lines) <= 1 {
		return sum, nil
	}

	for i, line := range lines[1:] {
		lineNo := i + 2
		fields := fieldSep.Split(strings.TrimSpace(line), -1)
		row, ok := ParseRow(fields, mode)
		if !ok {
			log.Debug("skipping short row", zap.Int("line", lineNo), zap.Int("fields", len(fields)))
			continue
		}

		u, err := parseUsage(row)
		if err != nil {
			var ne *NumberError
			if errors.As(err, &ne) {
				ne.Line = lineNo
			}
			return nil, err
		}

		sum.Namespaces.GetOrCreate(row.Namespace).Add(u)
		sum.Totals.Add(u)
	}

	log.Debug("aggregated pod usage",
		zap.Int("namespaces", sum.Namespaces.Len()),
		zap.Int64("cpu_millicores", sum.Totals.CPUMillicores),
		zap.Int64("memory_mib", sum.Totals.MemoryMebibytes),
	)
	return sum, nil
}

func parseUsage(r Row) (domain.Usage, error) {
	cpu, err := ParseCPU(r.CPU)
	if err != nil {
		return domain.Usage{}, err
	}
	mem, err := ParseMemory(r.Memory)
	if err != nil {
		return domain.Usage{}, err
	}
	return domain.Usage{CPUMillicores: cpu, MemoryMebibytes: mem}, nil
}
