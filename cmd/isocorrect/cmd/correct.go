package cmd

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/spf13/cobra"

	compoundmodel "github.com/ChrisMcGann/isocorrect/pkg/compound"
	"github.com/ChrisMcGann/isocorrect/pkg/correct"
	"github.com/ChrisMcGann/isocorrect/pkg/isotope"
	measurementmodel "github.com/ChrisMcGann/isocorrect/pkg/measurement"
	"github.com/ChrisMcGann/isocorrect/pkg/probability"
	abundancereader "github.com/ChrisMcGann/isocorrect/pkg/reader/abundance"
	compoundreader "github.com/ChrisMcGann/isocorrect/pkg/reader/compound"
	measurementreader "github.com/ChrisMcGann/isocorrect/pkg/reader/measurement"
	sqlitewriter "github.com/ChrisMcGann/isocorrect/pkg/writer/sqlite"
)

// job is one (compound, experiment column) correction unit, the grain at
// which cmd/isocorrect parallelizes across independent compounds.
type job struct {
	index      int
	compound   *compoundmodel.Compound
	experiment int
	vector     *measurementmodel.Vector
	expected   []float64
}

type jobResult struct {
	job *job
	res *correct.Result
	err error
}

func runCorrect(cmd *cobra.Command, args []string) error {
	table, err := loadAbundanceTable(abundanceFile)
	if err != nil {
		return err
	}

	var purity *isotope.Purity
	if purityFile != "" {
		f, err := openFile(purityFile)
		if err != nil {
			return err
		}
		purity, err = abundancereader.ParsePurity(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to parse purity table: %w", err)
		}
	}

	compounds, err := loadCompounds(compoundsFile)
	if err != nil {
		return err
	}

	measurements, err := loadMeasurements(measurementsFile)
	if err != nil {
		return err
	}

	var expected map[string][]*measurementmodel.Vector
	if expectedFile != "" {
		expected, err = loadMeasurements(expectedFile)
		if err != nil {
			return fmt.Errorf("failed to load expected vectors: %w", err)
		}
	}

	var jobs []*job
	for _, c := range compounds {
		vectors, ok := measurements[c.Name]
		if !ok {
			fmt.Fprintf(os.Stderr, "warning: compound %q has no measurement rows, skipping\n", c.Name)
			continue
		}
		for col, v := range vectors {
			j := &job{index: len(jobs), compound: c, experiment: col, vector: v}
			if exp, ok := expected[c.Name]; ok && col < len(exp) {
				j.expected = exp[col].Values()
			}
			jobs = append(jobs, j)
		}
	}

	results := runJobs(jobs, table, purity, threads)

	var sink *sqlitewriter.Writer
	compoundIDs := make(map[string]int)
	if outputFile != "" {
		sink, err = sqlitewriter.NewWriter(outputFile)
		if err != nil {
			return err
		}
		defer sink.Close()
	}

	failures := 0
	for _, r := range results {
		c := r.job.compound
		if r.err != nil {
			fmt.Fprintf(os.Stderr, "error: compound %q experiment %d: %v\n", c.Name, r.job.experiment, r.err)
			failures++
			continue
		}
		printResult(c.Name, r.job.experiment, r.res)

		if sink != nil {
			id, ok := compoundIDs[c.Name]
			if !ok {
				id, err = sink.WriteCompound(sqlitewriter.CompoundMeta{
					Name:                 c.Name,
					TracerElement:        c.Precursor.Tracer.Element,
					TracerIsotope:        c.Precursor.Tracer.Isotope,
					PrecursorTracerCount: c.Precursor.Tracer.Count,
					FragmentTracerCount:  c.Fragment.Tracer.Count,
				}, r.res.IsIsotopologue)
				if err != nil {
					return err
				}
				compoundIDs[c.Name] = id
			}
			if err := sink.WriteResult(id, r.job.experiment, r.res); err != nil {
				return err
			}
		}
	}

	if showStats {
		reportStats()
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d corrections failed", failures, len(jobs))
	}
	return nil
}

// runJobs dispatches jobs across a bounded goroutine pool, one worker slot
// per buffered-channel token: correction calls across distinct compounds
// share nothing but the mutex-guarded binomial cache, so they parallelize
// safely while pkg/correct itself stays single-threaded and synchronous.
func runJobs(jobs []*job, table *isotope.Table, purity *isotope.Purity, workers int) []jobResult {
	if workers < 1 {
		workers = 1
	}
	results := make([]jobResult, len(jobs))
	cache := probability.NewCache()

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for _, j := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(j *job) {
			defer wg.Done()
			defer func() { <-sem }()
			opts := correct.Options{Expected: j.expected}
			if natAbTracer {
				opts.Enumerate.NatAbundanceOnTracer = true
			}
			if purity != nil {
				opts.Enumerate.Purity = purity
			}
			res, err := correct.Correct(j.compound, table, j.vector, opts, cache)
			results[j.index] = jobResult{job: j, res: res, err: err}
		}(j)
	}
	wg.Wait()
	return results
}

func loadAbundanceTable(path string) (*isotope.Table, error) {
	if path == "" {
		return isotope.DefaultTable(), nil
	}
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	table, err := abundancereader.ParseTable(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse natural-abundance table: %w", err)
	}
	return table, nil
}

func loadCompounds(path string) ([]*compoundmodel.Compound, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := compoundreader.NewReader(f)
	var out []*compoundmodel.Compound
	for r.Next() {
		out = append(out, r.Compound())
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse compound file: %w", err)
	}
	return out, nil
}

func loadMeasurements(path string) (map[string][]*measurementmodel.Vector, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := measurementreader.NewReader(f)
	out := make(map[string][]*measurementmodel.Vector)
	for r.Next() {
		name := r.CompoundName()
		vectors := make([]*measurementmodel.Vector, r.Columns())
		for col := range vectors {
			v, err := r.Vector(col)
			if err != nil {
				return nil, fmt.Errorf("compound %q: %w", name, err)
			}
			vectors[col] = v
		}
		out[name] = vectors
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse measurement file: %w", err)
	}
	return out, nil
}

func printResult(name string, experiment int, res *correct.Result) {
	fmt.Printf("Compound: %s (experiment %d)\n", name, experiment)
	fmt.Printf("  Corrected:  %s\n", formatVector(res.Raw))
	fmt.Printf("  Normalized: %s\n", formatVector(res.Normalized))
	if res.IsIsotopologue {
		fmt.Printf("  Mean enrichment: %.4f\n", res.MeanEnrichment)
	}
	if len(res.Warnings) == 0 {
		fmt.Printf("  Warnings: none\n")
	} else {
		for _, w := range res.Warnings {
			fmt.Printf("  Warning: %s\n", w.Message)
		}
	}
}

func formatVector(v []float64) string {
	s := "["
	for i, x := range v {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%.4f", x)
	}
	return s + "]"
}

func reportStats() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	fmt.Printf("\nMemory stats: alloc=%dKB totalAlloc=%dKB sys=%dKB numGC=%d\n",
		m.Alloc/1024, m.TotalAlloc/1024, m.Sys/1024, m.NumGC)
}
