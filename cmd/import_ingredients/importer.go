package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
)

type ingredientRow struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func readFile(path string) ([]ingredientRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(f)
	case ".json":
		return readJSON(f)
	}
	return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
}

// readCSV expects name,measurement_unit records. A header row is skipped.
func readCSV(r io.Reader) ([]ingredientRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var rows []ingredientRow
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && strings.EqualFold(record[0], "name") {
			continue
		}
		row, err := cleanRow(ingredientRow{Name: record[0], MeasurementUnit: record[1]})
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readJSON(r io.Reader) ([]ingredientRow, error) {
	var raw []ingredientRow
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}
	rows := make([]ingredientRow, 0, len(raw))
	for i, item := range raw {
		row, err := cleanRow(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cleanRow(row ingredientRow) (ingredientRow, error) {
	row.Name = strings.TrimSpace(row.Name)
	row.MeasurementUnit = strings.TrimSpace(row.MeasurementUnit)
	if row.Name == "" || row.MeasurementUnit == "" {
		return row, errors.New("name and measurement_unit are required")
	}
	if len([]rune(row.Name)) > 200 || len([]rune(row.MeasurementUnit)) > 50 {
		return row, fmt.Errorf("%q is too long", row.Name)
	}
	return row, nil
}

// importIngredients inserts rows in a single transaction, skipping pairs that
// already exist, and returns how many were created.
func importIngredients(db *gorm.DB, rows []ingredientRow) (int64, error) {
	var imported int64
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			result := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}, {Name: "measurement_unit"}},
				DoNothing: true,
			}).Create(&models.Ingredient{Name: row.Name, MeasurementUnit: row.MeasurementUnit})
			if result.Error != nil {
				return fmt.Errorf("insert %q: %w", row.Name, result.Error)
			}
			imported += result.RowsAffected
		}
		return nil
	})
	return imported, err
}
