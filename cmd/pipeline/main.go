package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/Pyrem/talentbase/internal/airtable"
	"github.com/Pyrem/talentbase/internal/compression"
	"github.com/Pyrem/talentbase/internal/config"
	"github.com/Pyrem/talentbase/internal/llm"
	"github.com/Pyrem/talentbase/internal/pipeline"
	"github.com/Pyrem/talentbase/internal/shortlist"
	"github.com/Pyrem/talentbase/pkg/logger"
)

func main() {
	applicantID := flag.String("applicant-id", "", "record id of a single applicant to run end to end")
	all := flag.Bool("all", false, "run the pipeline for every applicant")
	forceLLM := flag.Bool("force-llm", false, "re-evaluate applicants that already have an LLM Summary")
	flag.Parse()

	logger.Setup()
	slog.SetDefault(slog.Default().With("run_id", uuid.NewString()))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	client, err := llm.New(cfg)
	if err != nil {
		slog.Error("cannot build llm client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	store := airtable.New(cfg)
	p := pipeline.New(
		compression.New(store),
		shortlist.New(store, shortlist.PolicyFromConfig(cfg)),
		llm.NewEvaluator(store, client),
	)
	ctx := context.Background()

	switch {
	case *applicantID != "":
		if err := p.Run(ctx, *applicantID, *forceLLM); err != nil {
			slog.Error("pipeline failed", "applicant_id", *applicantID, "error", err)
			os.Exit(1)
		}
		fmt.Printf("Pipeline finished for %s\n", *applicantID)
	case *all:
		p.RunAll(ctx, *forceLLM)
		fmt.Println("Pipeline finished for all applicants")
	default:
		fmt.Println("Specify --applicant-id <record id> or --all")
		flag.Usage()
	}
}
