package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/Pyrem/talentbase/internal/airtable"
	"github.com/Pyrem/talentbase/internal/config"
	"github.com/Pyrem/talentbase/internal/shortlist"
	"github.com/Pyrem/talentbase/pkg/logger"
)

func main() {
	applicantID := flag.String("applicant-id", "", "record id of a single applicant to evaluate")
	all := flag.Bool("all", false, "evaluate every applicant")
	flag.Parse()

	logger.Setup()
	slog.SetDefault(slog.Default().With("run_id", uuid.NewString()))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	evaluator := shortlist.New(airtable.New(cfg), shortlist.PolicyFromConfig(cfg))

	switch {
	case *applicantID != "":
		shortlisted, err := evaluator.Process(*applicantID)
		if err != nil {
			slog.Error("shortlist evaluation failed", "applicant_id", *applicantID, "error", err)
			os.Exit(1)
		}
		if shortlisted {
			fmt.Printf("Applicant %s shortlisted\n", *applicantID)
		} else {
			fmt.Printf("Applicant %s not shortlisted\n", *applicantID)
		}
	case *all:
		processed, shortlisted := evaluator.ProcessAll()
		fmt.Printf("Processed %d applicants, %d shortlisted\n", processed, shortlisted)
	default:
		fmt.Println("Specify --applicant-id <record id> or --all")
		flag.Usage()
	}
}
