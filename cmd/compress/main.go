package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/Pyrem/talentbase/internal/airtable"
	"github.com/Pyrem/talentbase/internal/compression"
	"github.com/Pyrem/talentbase/internal/config"
	"github.com/Pyrem/talentbase/pkg/logger"
)

func main() {
	applicantID := flag.String("applicant-id", "", "record id of a single applicant to compress")
	all := flag.Bool("all", false, "compress every applicant")
	flag.Parse()

	logger.Setup()
	slog.SetDefault(slog.Default().With("run_id", uuid.NewString()))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	compressor := compression.New(airtable.New(cfg))

	switch {
	case *applicantID != "":
		if err := compressor.Compress(*applicantID); err != nil {
			slog.Error("compression failed", "applicant_id", *applicantID, "error", err)
			os.Exit(1)
		}
		fmt.Printf("Compressed JSON written for %s\n", *applicantID)
	case *all:
		succeeded, failed := compressor.CompressAll()
		fmt.Printf("Compressed %d applicants, %d failed\n", succeeded, failed)
	default:
		fmt.Println("Specify --applicant-id <record id> or --all")
		flag.Usage()
	}
}
