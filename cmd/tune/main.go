// Package main provides CMA-ES tuning of the temporal activation
// parameters so the phosphene step response matches a target curve.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/lucent-sim/phosphene/config"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	targetPath := flag.String("target", "", "Target step-response CSV (frame,activation); empty = current config response")
	onFrames := flag.Int("on-frames", 60, "Frames of full stimulation")
	offFrames := flag.Int("off-frames", 60, "Frames of zero stimulation after the step")
	maxEvals := flag.Int("max-evals", 500, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Load base config
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()

	// Target curve: from CSV, or the current config's own response as a
	// sanity baseline.
	var target []float64
	if *targetPath != "" {
		var err error
		target, err = LoadTargetCurve(*targetPath)
		if err != nil {
			log.Fatalf("failed to load target curve: %v", err)
		}
	} else {
		target = StepResponse(params.ExtractFromConfig(baseCfg), *onFrames, *offFrames)
		fmt.Println("No target given; fitting against current config response")
	}

	evaluator := NewFitnessEvaluator(params, target, *onFrames, *offFrames)

	dim := params.Dim()
	initX := params.Normalize(params.ExtractFromConfig(baseCfg))

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			return evaluator.Evaluate(raw)
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	// Open log file
	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	header := []string{"eval", "mse", "rmse"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	logWriter.Write(header)

	evalCount := 0
	var bestFitness float64 = 1e9
	var bestParams []float64
	startTime := time.Now()

	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		raw := params.Denormalize(x)
		clamped := params.Clamp(raw)
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = make([]float64, len(clamped))
			copy(bestParams, clamped)
		}

		// Log clamped values to CSV (these are the values actually used)
		row := []string{
			strconv.Itoa(evalCount),
			fmt.Sprintf("%.8f", fitness),
			fmt.Sprintf("%.6f", evaluator.LastRMSE()),
		}
		for _, v := range clamped {
			row = append(row, fmt.Sprintf("%.6f", v))
		}
		logWriter.Write(row)
		logWriter.Flush()

		if evalCount%50 == 0 {
			elapsed := time.Since(startTime).Round(time.Millisecond)
			fmt.Printf("Eval %d/%d: rmse=%.5f (best mse=%.2e) | elapsed: %s\n",
				evalCount, *maxEvals, evaluator.LastRMSE(), bestFitness, elapsed)
		}

		return fitness
	}

	fmt.Printf("Starting CMA-ES tuning with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Step response: %d frames on, %d frames off\n", *onFrames, *offFrames)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	if bestParams == nil {
		bestParams = params.Denormalize(result.X)
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n",
		evalCount, time.Since(startTime).Round(time.Millisecond))
	fmt.Printf("Best MSE: %.2e\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Name, bestParams[i])
	}

	// Save best config
	bestCfg, _ := config.Load(*configPath)
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
