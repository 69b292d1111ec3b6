// Package main provides a tool to seed the record store from local JSON files.
//
// It reads content records from a directory of JSON files (single objects or
// arrays) and writes them into the badger record store the server reads from
// when no remote source is configured.
//
// Usage:
//
//	go run ./cmd/seed --store ~/Folio/store --dir ./content
//	go run ./cmd/seed --store ~/Folio/store --dir ./content --replace
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/foliolab/folio-server/internal/domain"
	"github.com/foliolab/folio-server/internal/id"
	"github.com/foliolab/folio-server/internal/logger"
	"github.com/foliolab/folio-server/internal/source"
	"github.com/foliolab/folio-server/internal/store"
)

var (
	storePath = flag.String("store", "", "Badger record store directory (required)")
	dirPath   = flag.String("dir", "", "Directory of JSON content records (required)")
	replace   = flag.Bool("replace", false, "Delete existing records before seeding")
)

func main() {
	flag.Parse()

	if *storePath == "" || *dirPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	log := logger.New(logger.Config{})
	ctx := context.Background()

	records, err := source.NewDir(*dirPath, log).Fetch(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read content dir: %v\n", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "no records found; nothing to seed")
		os.Exit(1)
	}

	s, err := store.New(*storePath, log.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	if *replace {
		existing, err := s.Records.List(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "list existing records: %v\n", err)
			os.Exit(1)
		}
		for _, rec := range existing {
			if err := s.Records.Delete(ctx, rec.ID); err != nil {
				fmt.Fprintf(os.Stderr, "delete record %s: %v\n", rec.ID, err)
				os.Exit(1)
			}
		}
		log.Info("Cleared existing records", "count", len(existing))
	}

	seeded, err := seedRecords(ctx, s, records, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed records: %v\n", err)
		os.Exit(1)
	}

	log.Info("Seed complete", "records", seeded, "store", *storePath)
}

// seedRecords writes each record into the store, minting a nanoid for
// records that arrive without one.
func seedRecords(ctx context.Context, s *store.Store, records []domain.ContentRecord, log *logger.Logger) (int, error) {
	seeded := 0
	for _, rec := range records {
		if rec.ID == "" {
			generated, err := id.Generate(id.PrefixRecord)
			if err != nil {
				return seeded, fmt.Errorf("generate record id: %w", err)
			}
			rec.ID = generated
			log.Info("Minted id for record without one", "id", rec.ID, "title", rec.Title)
		}
		if err := s.Records.Put(ctx, rec.ID, &rec); err != nil {
			return seeded, fmt.Errorf("store record %s: %w", rec.ID, err)
		}
		seeded++
	}
	return seeded, nil
}
