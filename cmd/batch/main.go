// Horario batch solver: runs a pool of independent tabu.Engine instances
// concurrently, one per input Problem file. Concurrency exists only
// between engines — each Engine itself remains single-threaded.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/paiban/horario/internal/config"
	"github.com/paiban/horario/internal/validation"
	"github.com/paiban/horario/pkg/logger"
	"github.com/paiban/horario/pkg/model"
	"github.com/paiban/horario/pkg/tabu"
)

type job struct {
	index int
	path  string
}

type outcome struct {
	Index   int                `json:"index"`
	Path    string             `json:"path"`
	RunID   string             `json:"run_id"`
	State   string             `json:"state"`
	Hard    int                `json:"hard_conflicts"`
	Soft    float64            `json:"soft_penalty"`
	Quality float64            `json:"quality"`
	Err     string             `json:"error,omitempty"`
	Events  []model.Event      `json:"events,omitempty"`
}

func main() {
	inputDir := flag.String("input", "", "directory of *.json Problem files")
	workers := flag.Int("workers", 0, "concurrent engines (default: config BATCH_WORKERS)")
	flag.Parse()

	if *inputDir == "" {
		fmt.Fprintln(os.Stderr, "usage: batch -input <dir> [-workers N]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(logger.Config{Level: cfg.Log.Level, Format: "console"})

	n := *workers
	if n <= 0 {
		n = cfg.Batch.Workers
	}
	if n <= 0 {
		n = 4
	}

	files, err := filepath.Glob(filepath.Join(*inputDir, "*.json"))
	if err != nil || len(files) == 0 {
		fmt.Fprintf(os.Stderr, "no problem files found in %s: %v\n", *inputDir, err)
		os.Exit(1)
	}

	jobs := make(chan job, len(files))
	results := make([]outcome, len(files))

	var wg sync.WaitGroup
	for w := 0; w < n; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.index] = runOne(cfg.Engine, j)
			}
		}()
	}

	for i, path := range files {
		jobs <- job{index: i, path: path}
	}
	close(jobs)
	wg.Wait()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(results)
}

func runOne(engineCfg config.EngineConfig, j job) outcome {
	out := outcome{Index: j.index, Path: j.path}

	raw, err := os.ReadFile(j.path)
	if err != nil {
		out.Err = err.Error()
		return out
	}

	var req validation.SolveRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		out.Err = err.Error()
		return out
	}
	if err := validation.New().ValidateSolveRequest(&req); err != nil {
		out.Err = err.Error()
		return out
	}

	problem := req.ToProblem()
	out.RunID = problem.RunID.String()

	engine := tabu.NewEngine(engineCfg.ToTabuConfig(), logger.NewEngineLogger())
	if err := engine.InitProblem(problem); err != nil {
		out.Err = err.Error()
		return out
	}
	sol, result, err := engine.Optimize(context.Background())
	engine.Close()
	if err != nil {
		out.Err = err.Error()
		return out
	}

	out.State = engine.State().String()
	out.Hard = result.HardConflicts
	out.Soft = result.SoftPenalty
	out.Quality = result.Quality
	out.Events = sol.Events
	return out
}
