// Package main bootstraps bin and item master data from CSV exports.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"bintrack/internal/domain/catalogs/bin"
	"bintrack/internal/domain/catalogs/item"
	"bintrack/internal/infrastructure/config"
	"bintrack/internal/infrastructure/storage/postgres"
	"bintrack/internal/infrastructure/storage/postgres/catalog_repo"
	"bintrack/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: true})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.PoolConfigFrom(cfg.Database))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	binRepo := catalog_repo.NewBinRepo(txManager)
	itemRepo := catalog_repo.NewItemRepo(txManager)

	binCodes, err := readCodes(cfg.Import.BinCSV)
	if err != nil {
		log.Fatalw("failed to read bin CSV", "path", cfg.Import.BinCSV, "error", err)
	}

	var binsAdded int
	err = txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, code := range binCodes {
			if err := binRepo.Create(ctx, bin.New(code)); err != nil {
				return err
			}
			binsAdded++
		}
		return nil
	})
	if err != nil {
		log.Fatalw("failed to seed bins", "error", err)
	}

	itemCodes, err := readCodes(cfg.Import.ItemCSV)
	if err != nil {
		log.Fatalw("failed to read item CSV", "path", cfg.Import.ItemCSV, "error", err)
	}

	var itemsAdded int
	err = txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, code := range itemCodes {
			if err := itemRepo.Create(ctx, item.New(code)); err != nil {
				return err
			}
			itemsAdded++
		}
		return nil
	})
	if err != nil {
		log.Fatalw("failed to seed items", "error", err)
	}

	binCount, _ := binRepo.Count(ctx)
	itemCount, _ := itemRepo.Count(ctx)
	log.Infow("seed complete",
		"bins_imported", binsAdded,
		"items_imported", itemsAdded,
		"bins_total", binCount,
		"items_total", itemCount,
	)
}

// readCodes loads the first column of a CSV file, skipping a header row,
// blanks and duplicates. Files that are not valid UTF-8 are retried as GBK,
// the encoding the warehouse label exports arrive in.
func readCodes(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if !utf8.Valid(raw) {
		decoded, _, err := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), raw)
		if err != nil {
			return nil, fmt.Errorf("decode GBK: %w", err)
		}
		raw = decoded
	}

	reader := csv.NewReader(strings.NewReader(string(raw)))
	reader.FieldsPerRecord = -1

	seen := make(map[string]bool)
	var codes []string
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if first {
			first = false
			continue
		}
		if len(record) == 0 {
			continue
		}
		code := strings.TrimSpace(record[0])
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes, nil
}
