// Package fit drives the full streaming regression: it walks a data
// directory of yearly survey archives, decodes and filters respondent
// records, feeds accepted observations to the least-squares accumulator,
// and produces the final fit summary.
package fit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/surveystream/brfssfit/internal/archive"
	"github.com/surveystream/brfssfit/internal/decode"
	"github.com/surveystream/brfssfit/internal/layout"
	"github.com/surveystream/brfssfit/internal/ols"
)

// The model is health ~ b0 + b1·income + b2·education + b3·bmi.
const nPredictors = 4

// Options controls a regression run.
type Options struct {
	// MinYear skips archives whose embedded year code maps to an earlier
	// survey year. The built-in layouts start at 2011.
	MinYear int
	// ReportEvery emits an intermediate coefficient estimate after this many
	// accepted observations. 0 disables intermediate reports.
	ReportEvery int
	// Quiet suppresses per-file progress and skip warnings.
	Quiet bool
}

// DefaultOptions returns the standard run configuration.
func DefaultOptions() Options {
	return Options{MinYear: 2011, ReportEvery: 10000}
}

// Observation is one decoded respondent record, pre-validation.
type Observation struct {
	Education int
	Income    int
	BMI       float64
	Health    int
}

// Valid reports whether an observation passes the acceptance predicate:
// substantive education and income codes, a plausible BMI, and a present
// health rating.
func (o Observation) Valid() bool {
	return o.Education < decode.EducationMissing &&
		o.Income < decode.IncomeMissing &&
		o.BMI > 0 && o.BMI < 99 &&
		o.Health != decode.HealthMissing
}

// Summary is the result of a completed run.
type Summary struct {
	RunID          string
	N              int
	Coefficients   []float64 // intercept, income, education, bmi
	ResidualVar    float64
	AdjustedR2     float64
	FilesProcessed int
	FilesSkipped   int
	RecordsSkipped int
	Rejected       int
}

// Table renders the final report: a tab-separated header row followed by
// the observation count, the coefficients, and adjusted R², all statistics
// rounded to three decimals.
func (s *Summary) Table() string {
	var b strings.Builder
	b.WriteString("n\tb0\tinc\tedu\tbmi\tr^2_adj\n")
	fmt.Fprintf(&b, "%d", s.N)
	for _, c := range s.Coefficients {
		fmt.Fprintf(&b, "\t%.3f", c)
	}
	fmt.Fprintf(&b, "\t%.3f\n", s.AdjustedR2)
	return b.String()
}

// Run scans dir for survey archives and fits the model over every accepted
// record, writing intermediate coefficient reports to out. An unreadable
// directory or an inestimable final fit is fatal; everything below that
// (unparseable filenames, bad archives, malformed records) is counted and
// skipped.
func Run(dir string, opt Options, out io.Writer) (*Summary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	acc := ols.New(nPredictors)
	sum := &Summary{RunID: uuid.NewString()}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		code, err := layout.YearFromFilename(name)
		if err != nil {
			sum.FilesSkipped++
			warnf(out, opt, "skipping %s: %v", name, err)
			continue
		}
		if layout.Year(code) < opt.MinYear {
			sum.FilesSkipped++
			continue
		}
		lay, ok := layout.Lookup(code)
		if !ok {
			sum.FilesSkipped++
			warnf(out, opt, "skipping %s: no layout for year code %02d", name, code)
			continue
		}
		if !opt.Quiet {
			fmt.Fprintf(out, "Processing %s (survey year %d)...\n", name, layout.Year(code))
		}
		if err := runFile(filepath.Join(dir, name), lay, layout.GenerationFor(code), opt, acc, sum, out); err != nil {
			sum.FilesSkipped++
			warnf(out, opt, "skipping %s: %v", name, err)
			continue
		}
		sum.FilesProcessed++
	}

	if acc.N() == 0 {
		return nil, fmt.Errorf("no valid observations in %s", dir)
	}
	b := acc.Estimate()
	sum.N = acc.N()
	sum.Coefficients = make([]float64, nPredictors)
	for i := 0; i < nPredictors; i++ {
		sum.Coefficients[i] = b.AtVec(i)
	}
	if sum.ResidualVar, err = acc.ResidualVariance(b); err != nil {
		return nil, fmt.Errorf("finalize fit: %w", err)
	}
	if sum.AdjustedR2, err = acc.AdjustedRSquared(b); err != nil {
		return nil, fmt.Errorf("finalize fit: %w", err)
	}
	return sum, nil
}

// runFile streams one archive into the accumulator. The archive handle is
// scoped to this call and released even when record processing fails.
func runFile(path string, lay layout.Entry, gen layout.Generation, opt Options, acc *ols.Accumulator, sum *Summary, out io.Writer) error {
	recs, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer recs.Close()

	for recs.Next() {
		obs, err := decodeRecord(recs.Record(), lay, gen)
		if err != nil {
			sum.RecordsSkipped++
			continue
		}
		if !obs.Valid() {
			sum.Rejected++
			continue
		}
		x := []float64{1, float64(obs.Income), float64(obs.Education), obs.BMI}
		acc.Accumulate(x, float64(obs.Health))
		if opt.ReportEvery > 0 && acc.N()%opt.ReportEvery == 0 {
			reportEstimate(out, acc)
		}
	}
	return recs.Err()
}

var errTruncated = errors.New("record shorter than field span")

// decodeRecord cuts and decodes the four fields of interest. A record too
// short for any field, or with an unparseable field, is a decode failure.
func decodeRecord(record string, lay layout.Entry, gen layout.Generation) (Observation, error) {
	var obs Observation

	raw, ok := layout.CutAt(record, lay.Education)
	if !ok {
		return obs, &decode.Error{Field: "education", Err: errTruncated}
	}
	education, err := decode.Education(raw)
	if err != nil {
		return obs, err
	}
	obs.Education = education

	raw, ok = lay.Income.Cut(record)
	if !ok {
		return obs, &decode.Error{Field: "income", Err: errTruncated}
	}
	income, err := decode.Income(raw)
	if err != nil {
		return obs, err
	}
	obs.Income = income

	raw, ok = lay.BMI.Cut(record)
	if !ok {
		return obs, &decode.Error{Field: "bmi", Err: errTruncated}
	}
	bmi, err := decode.BMI(raw, gen)
	if err != nil {
		return obs, err
	}
	obs.BMI = bmi

	raw, ok = layout.CutAt(record, lay.GenHealth)
	if !ok {
		return obs, &decode.Error{Field: "genhlth", Err: errTruncated}
	}
	health, err := decode.Health(raw)
	if err != nil {
		return obs, err
	}
	obs.Health = health

	return obs, nil
}

// reportEstimate emits the current coefficients as one tab-separated line.
func reportEstimate(out io.Writer, acc *ols.Accumulator) {
	b := acc.Estimate()
	parts := make([]string, acc.Dim())
	for i := range parts {
		parts[i] = fmt.Sprintf("%v", b.AtVec(i))
	}
	fmt.Fprintln(out, strings.Join(parts, "\t"))
}

func warnf(out io.Writer, opt Options, format string, args ...any) {
	if opt.Quiet {
		return
	}
	fmt.Fprintf(out, "⚠ "+format+"\n", args...)
}
