// Command xspecgram computes a multitaper cross-spectrogram and prints a
// per-pair coherence summary.
//
// Usage:
//
//	xspecgram [flags] [input.csv]
//
// The input CSV holds one column per channel; a non-numeric first row is
// treated as a header and cells that fail to parse become missing samples.
// Without an input file a two-channel synthetic demo signal is analyzed.
//
// Examples:
//
//	xspecgram -dt 0.01 -twin 2 data.csv
//	xspecgram -dt 0.001 -twin 0.5 -olap 0.75 -fmin 10 -fmax 200 data.csv
//	xspecgram -mode eigen -kspec 7
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"sync/atomic"
	"text/tabwriter"

	"github.com/montanaflynn/stats"

	"github.com/cwbudde/algo-mtspec/cross"
	"github.com/cwbudde/algo-mtspec/spectrogram"
)

func main() {
	var (
		dt      = flag.Float64("dt", 1.0, "sampling interval in seconds")
		twin    = flag.Float64("twin", 10.0, "window duration in seconds")
		olap    = flag.Float64("olap", 0.5, "window overlap fraction [0, 0.99]")
		nw      = flag.Float64("nw", 3.5, "time-bandwidth product")
		kspec   = flag.Int("kspec", 5, "number of tapers")
		fmin    = flag.Float64("fmin", 0, "lower band edge in Hz")
		fmax    = flag.Float64("fmax", -1, "upper band edge in Hz (<= 0: Nyquist)")
		mode    = flag.String("mode", "adaptive", "weighting: adaptive, eigen, or uniform")
		wl      = flag.Float64("wl", 0, "transfer-function water level")
		workers = flag.Int("workers", 0, "concurrent window estimations (0: all CPUs)")
		verbose = flag.Bool("v", false, "print progress while computing")
	)

	flag.Parse()

	weighting, err := parseWeighting(*mode)
	if err != nil {
		fatal(err)
	}

	var channels [][]float64
	if flag.NArg() > 0 {
		channels, err = readCSV(flag.Arg(0))
		if err != nil {
			fatal(err)
		}
	} else {
		channels = demoChannels(*dt)
	}

	opts := []spectrogram.Option{
		spectrogram.WithOverlap(*olap),
		spectrogram.WithTimeBandwidth(*nw),
		spectrogram.WithTaperCount(*kspec),
		spectrogram.WithBand(*fmin, *fmax),
		spectrogram.WithWeighting(weighting),
		spectrogram.WithWaterLevel(*wl),
		spectrogram.WithWorkers(*workers),
	}

	if *verbose {
		var done atomic.Int64
		opts = append(opts, spectrogram.WithProgress(func(e spectrogram.ProgressEvent) {
			n := done.Add(1)
			if n%10 == 0 {
				fmt.Fprintf(os.Stderr, "windows %d of %d\n", n, int64(e.PairCount)*int64(e.WindowCount))
			}
		}))
	}

	cube, err := spectrogram.Compute(context.Background(), channels, *dt, *twin, opts...)
	if err != nil {
		fatal(err)
	}

	printSummary(cube, *dt, *twin, *olap)
}

func parseWeighting(mode string) (cross.Weighting, error) {
	switch mode {
	case "adaptive":
		return cross.WeightAdaptive, nil
	case "eigen":
		return cross.WeightEigen, nil
	case "uniform":
		return cross.WeightUniform, nil
	}
	return 0, fmt.Errorf("unknown weighting mode %q", mode)
}

// readCSV loads one channel per column. Cells that fail to parse become NaN
// and flow into the missing-data policy.
func readCSV(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	// Drop a header row if its first cell is not numeric.
	if _, err := strconv.ParseFloat(records[0][0], 64); err != nil {
		records = records[1:]
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}

	ncols := len(records[0])
	channels := make([][]float64, ncols)
	for c := range channels {
		channels[c] = make([]float64, len(records))
	}

	for i, row := range records {
		for c := 0; c < ncols; c++ {
			v := math.NaN()
			if c < len(row) {
				if parsed, err := strconv.ParseFloat(row[c], 64); err == nil {
					v = parsed
				}
			}
			channels[c][i] = v
		}
	}

	return channels, nil
}

// demoChannels builds a two-channel signal sharing a tone at one tenth of the
// Nyquist frequency.
func demoChannels(dt float64) [][]float64 {
	const n = 4096

	tone := 0.05 / dt

	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		tm := float64(i) * dt
		x[i] = math.Sin(2 * math.Pi * tone * tm)
		y[i] = math.Sin(2*math.Pi*tone*tm + 0.7)
	}

	return [][]float64{x, y}
}

func printSummary(cube *spectrogram.Cube, dt, twin, olap float64) {
	fmt.Printf("channel pairs: %d\n", cube.NumPairs())
	fmt.Printf("windows: %d (%.1fs, %.0f%% overlap)\n", cube.NumWindows(), twin, olap*100)
	fmt.Printf("band: %.3f-%.3f Hz (%d bins)\n\n",
		cube.Freq[0], cube.Freq[len(cube.Freq)-1], len(cube.Freq))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "pair\twindows\tskipped\tmean cohe\tmedian cohe\tmax cohe")

	for p, pair := range cube.Pairs {
		var (
			values  []float64
			skipped int
		)

		for win := 0; win < cube.NumWindows(); win++ {
			if !cube.HasEstimate(win, p) {
				skipped++
				continue
			}
			for f := range cube.Freq {
				values = append(values, cube.Cohe[f][win][p])
			}
		}

		mean, _ := stats.Mean(values)
		median, _ := stats.Median(values)
		max, _ := stats.Max(values)

		fmt.Fprintf(w, "(%d,%d)\t%d\t%d\t%.3f\t%.3f\t%.3f\n",
			pair[0], pair[1], cube.NumWindows()-skipped, skipped, mean, median, max)
	}

	w.Flush()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "xspecgram:", err)
	os.Exit(1)
}
