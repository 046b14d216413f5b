package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/Pyrem/talentbase/internal/airtable"
	"github.com/Pyrem/talentbase/internal/config"
	"github.com/Pyrem/talentbase/internal/llm"
	"github.com/Pyrem/talentbase/pkg/logger"
)

func main() {
	applicantID := flag.String("applicant-id", "", "record id of a single applicant to evaluate")
	all := flag.Bool("all", false, "evaluate every applicant")
	force := flag.Bool("force", false, "re-evaluate applicants that already have an LLM Summary")
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

	evaluator := llm.NewEvaluator(airtable.New(cfg), client)
	ctx := context.Background()

	switch {
	case *applicantID != "":
		if err := evaluator.Enrich(ctx, *applicantID, *force); err != nil {
			slog.Error("llm evaluation failed", "applicant_id", *applicantID, "error", err)
			os.Exit(1)
		}
		fmt.Printf("LLM evaluation finished for %s\n", *applicantID)
	case *all:
		evaluated, skipped, failed := evaluator.EnrichAll(ctx, *force)
		fmt.Printf("Evaluated %d applicants, %d skipped, %d failed\n", evaluated, skipped, failed)
	default:
		fmt.Println("Specify --applicant-id <record id> or --all")
		flag.Usage()
	}
}
