package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
)

// seedMedications loads medications from a CSV with the columns:
// name,dosage,form,pack_size,daily_dose,quantity,restock_ease
func seedMedications(c *cli.Context) error {
	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open medications file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 7 {
		return fmt.Errorf("unexpected header, want 7 columns, got %d", len(header))
	}

	query := `
		INSERT INTO medications (
			name, dosage, form, pack_size, daily_dose, quantity,
			last_verified_at, restock_ease, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW(), $7, NOW(), NOW())
	`

	stmt, err := dbFrom(c).PrepareContext(c.Context, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	var line, inserted int
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}
		line++

		packSize, err1 := strconv.Atoi(strings.TrimSpace(record[3]))
		dailyDose, err2 := strconv.Atoi(strings.TrimSpace(record[4]))
		quantity, err3 := strconv.Atoi(strings.TrimSpace(record[5]))
		restockEase, err4 := strconv.Atoi(strings.TrimSpace(record[6]))
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			log.Printf("skipping line %d: non-numeric quantity fields", line)
			continue
		}

		_, err = stmt.ExecContext(c.Context,
			strings.TrimSpace(record[0]),
			strings.TrimSpace(record[1]),
			strings.ToLower(strings.TrimSpace(record[2])),
			packSize, dailyDose, quantity, restockEase,
		)
		if err != nil {
			return fmt.Errorf("failed to insert line %d: %w", line, err)
		}
		inserted++
	}

	log.Printf("imported %d medications (%d lines read)", inserted, line)
	return nil
}
