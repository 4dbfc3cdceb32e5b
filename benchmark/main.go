package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"
)

var (
	endpoint = flag.String("endpoint", "http://localhost:8080/regression", "regression endpoint")
	repeats  = flag.Int("n", 5, "requests per scenario")
	seed     = flag.Uint64("seed", 42, "seed for synthetic data")

	scenarios = []Scenario{
		{Name: "2d line, 10 samples", Plot: "2d", Samples: 10, Features: 1},
		{Name: "2d line, 10k samples", Plot: "2d", Samples: 10_000, Features: 1},
		{Name: "actual vs predicted, 1k x 8", Plot: "2d", Samples: 1_000, Features: 8},
		{Name: "3d surface, 100 samples", Plot: "3d", Samples: 100, Features: 2},
		{Name: "3d surface, 10k samples", Plot: "3d", Samples: 10_000, Features: 2},
	}
)

func main() {
	flag.Parse()
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(*seed, *seed))

	var results []BenchResult
	for _, sc := range scenarios {
		req := synthetic(rng, sc)
		for range *repeats {
			res := benchmarkRequest(ctx, sc.Name, req)
			if res.Err != nil {
				log.Println("ERR:", res.Scenario, res.Err)
			} else {
				log.Printf("OK %s %v", res.Scenario, res.Duration)
			}
			results = append(results, res)
		}
	}

	printMarkdown(results)
}

// synthetic draws X uniformly from [0, 10) and y = sum(j*x_j) + 3 + noise.
func synthetic(rng *rand.Rand, sc Scenario) RegressionRequest {
	req := RegressionRequest{
		X:    make([][]float64, sc.Samples),
		Y:    make([]float64, sc.Samples),
		Plot: sc.Plot,
	}
	for i := range req.X {
		row := make([]float64, sc.Features)
		y := 3.0
		for j := range row {
			row[j] = rng.Float64() * 10
			y += float64(j+1) * row[j]
		}
		req.X[i] = row
		req.Y[i] = y + rng.NormFloat64()
	}
	return req
}

func benchmarkRequest(ctx context.Context, name string, req RegressionRequest) BenchResult {
	start := time.Now()

	body, err := json.Marshal(req)
	if err != nil {
		return BenchResult{Scenario: name, Err: fmt.Errorf("marshal req: %w", err)}
	}

	size, err := send(ctx, body)
	return BenchResult{
		Scenario: name,
		Duration: time.Since(start),
		Err:      err,
		Size:     size,
	}
}

func send(ctx context.Context, body []byte) (int64, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, *endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out RegressionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return 0, err
	}
	if out.HTML == "" && out.ImageBase64 == "" {
		return 0, fmt.Errorf("empty figure in response")
	}
	return int64(len(raw)), nil
}

func aggregate(results []BenchResult) map[string]Agg {
	m := map[string]Agg{}
	for _, r := range results {
		a := m[r.Scenario]
		if r.Err != nil {
			a.Failed++
			m[r.Scenario] = a
			continue
		}
		a.Count++
		a.TotalBytes += r.Size
		a.Total += r.Duration
		m[r.Scenario] = a
	}
	return m
}

func printMarkdown(results []BenchResult) {
	fmt.Print("\n## Benchmark Results\n\n")
	fmt.Println("| Scenario | Requests | Failed | Avg Time | Total Time | Avg Response Size |")
	fmt.Println("|----------|----------|--------|----------|------------|-------------------|")

	agg := aggregate(results)

	var (
		totalCount    int
		totalFailed   int
		totalDuration time.Duration
		totalBytes    int64
	)

	for _, sc := range scenarios {
		a, ok := agg[sc.Name]
		if !ok {
			continue
		}
		totalFailed += a.Failed
		if a.Count == 0 {
			fmt.Printf("| %s | 0 | %d | - | - | - |\n", sc.Name, a.Failed)
			continue
		}
		avg := a.Total / time.Duration(a.Count)
		avgSize := a.TotalBytes / int64(a.Count)
		fmt.Printf("| %s | %d | %d | %v | %v | %s |\n",
			sc.Name,
			a.Count,
			a.Failed,
			avg.Round(time.Millisecond),
			a.Total.Round(time.Millisecond),
			humanBytes(avgSize),
		)
		totalCount += a.Count
		totalDuration += a.Total
		totalBytes += a.TotalBytes
	}

	if totalCount > 0 {
		mean := totalDuration / time.Duration(totalCount)
		avgSize := totalBytes / int64(totalCount)
		fmt.Printf("| **ALL** | %d | %d | %v | %v | %s |\n",
			totalCount,
			totalFailed,
			mean.Round(time.Millisecond),
			totalDuration.Round(time.Millisecond),
			humanBytes(avgSize),
		)
	}
}

func humanBytes(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case size >= GB:
		return fmt.Sprintf("%.2f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.2f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.2f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d B", size)
	}
}
