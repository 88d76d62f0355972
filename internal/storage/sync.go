package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/HJewkes/voltra-playground-sub000/internal/utils"
)

var columnName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ExportTOML writes every table to a single TOML file, one array of rows per
// table. NULL columns are left out.
func (s *Storage) ExportTOML(outputPath string) error {
	dump := make(map[string]any, len(tables))

	for _, table := range tables {
		rows, err := s.db.Queryx("SELECT * FROM " + table)
		if err != nil {
			return fmt.Errorf("querying table %s: %w", table, err)
		}

		var tableData []any
		for rows.Next() {
			row := make(map[string]any)
			if err := rows.MapScan(row); err != nil {
				rows.Close()
				return fmt.Errorf("scanning row in table %s: %w", table, err)
			}
			for col, val := range row {
				if b, ok := val.([]byte); ok {
					row[col] = string(b)
				}
			}
			tableData = append(tableData, row)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("iterating table %s: %w", table, err)
		}
		rows.Close()

		if len(tableData) > 0 {
			dump[table] = tableData
		}
	}
	utils.DropNulls(dump)

	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(dump); err != nil {
		return fmt.Errorf("encoding TOML: %w", err)
	}

	outputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	return nil
}

// ImportTOML replaces the content of every table found in a dump written by
// ExportTOML.
func (s *Storage) ImportTOML(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("Reading file %s: %w", filePath, err)
	}

	var dump map[string][]map[string]any
	if _, err := toml.Decode(string(data), &dump); err != nil {
		return fmt.Errorf("Decoding TOML: %w", err)
	}
	for table := range dump {
		if !slices.Contains(tables, table) {
			return fmt.Errorf("unknown table %q in dump", table)
		}
	}

	ctx := context.Background()
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Children are cleared before parents and filled after them.
	for i := len(tables) - 1; i >= 0; i-- {
		table := tables[i]
		if _, ok := dump[table]; !ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("Clearing table %s: %w", table, err)
		}
	}

	for _, table := range tables {
		for _, row := range dump[table] {
			columns := make([]string, 0, len(row))
			for col := range row {
				if !columnName.MatchString(col) {
					return fmt.Errorf("invalid column %q in table %s", col, table)
				}
				columns = append(columns, col)
			}
			slices.Sort(columns)

			values := make([]any, len(columns))
			for i, col := range columns {
				values[i] = row[col]
			}
			placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
			query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), placeholders)
			if _, err := tx.ExecContext(ctx, query, values...); err != nil {
				return fmt.Errorf("Inserting into table %s: %w", table, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Committing transaction: %w", err)
	}
	return nil
}
