//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package main runs a chatbot evaluation: it loads the configured
// dataset, answers every item with the configured chatbot backend,
// scores the answers, and writes one CSV row per evaluated item.
package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"trpc.group/trpc-go/trpc-eval-go/config"
	"trpc.group/trpc-go/trpc-eval-go/evaluation"
	"trpc.group/trpc-go/trpc-eval-go/log"
)

var (
	configPath  = flag.String("c", "", "path to the YAML configuration file")
	datasetPath = flag.String("d", "", "dataset file, overrides dataset_path from the configuration")
	resultDir   = flag.String("o", "", "output directory, overrides results.directory")
	resultFile  = flag.String("f", "", "output filename, overrides results.filename")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}
	if *datasetPath != "" {
		cfg.DatasetPath = *datasetPath
	}
	if *resultDir != "" {
		cfg.Results.Directory = *resultDir
	}
	if *resultFile != "" {
		cfg.Results.Filename = *resultFile
	}
	log.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine, err := evaluation.New(cfg)
	if err != nil {
		log.Fatalf("create evaluation engine: %v", err)
	}
	summary, err := engine.Run(ctx)
	if closeErr := engine.Close(); closeErr != nil {
		log.Errorf("close evaluation engine: %v", closeErr)
	}
	if err != nil {
		log.Fatalf("run evaluation: %v", err)
	}
	log.Infof("evaluation %s finished: total=%d evaluated=%d skipped=%d failed=%d, results in %s",
		summary.RunID, summary.Total, summary.Evaluated, summary.Skipped, summary.Failed,
		cfg.Results.Directory)
}
