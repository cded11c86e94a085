package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/calebmor/drivecat/internal/domain"
)

// Fieldnames is the fixed, ordered column schema of a persisted catalog
var Fieldnames = []string{
	"id",
	"name",
	"size_bytes",
	"duration_milliseconds",
	"path",
	"link",
	"created_at",
	"mime_type",
}

// Load reads a catalog CSV file and returns its records keyed by
// identifier. The file must carry an "id" column; any other columns
// may appear in any order (catalogs are safe to hand-edit as long as
// the identifier column is preserved). A missing or malformed header
// fails with domain.ErrCatalogSchema.
func Load(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Hand-edited catalogs may have ragged rows
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s has no header row", domain.ErrCatalogSchema, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	if _, ok := columns["id"]; !ok {
		return nil, fmt.Errorf("%w: %s is missing the id column", domain.ErrCatalogSchema, path)
	}

	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	result := make(Catalog)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog row: %w", err)
		}

		record := domain.FileRecord{
			ID:        field(row, "id"),
			Name:      field(row, "name"),
			SizeBytes: field(row, "size_bytes"),
			Duration:  field(row, "duration_milliseconds"),
			Path:      field(row, "path"),
			Link:      field(row, "link"),
			CreatedAt: field(row, "created_at"),
			MimeType:  field(row, "mime_type"),
		}
		if record.ID == "" {
			continue
		}
		result[record.ID] = record
	}

	return result, nil
}

// Save writes the catalog to path with the fixed eight-column schema,
// sorted by identifier. The file is written to a temp path and renamed
// so a failed save never clobbers an existing catalog.
func Save(path string, records Catalog) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create catalog file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(Fieldnames); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write catalog header: %w", err)
	}

	for _, id := range records.SortedIDs() {
		record := records[id]
		row := []string{
			record.ID,
			record.Name,
			record.SizeBytes,
			record.Duration,
			record.Path,
			record.Link,
			record.CreatedAt,
			record.MimeType,
		}
		if err := writer.Write(row); err != nil {
			f.Close()
			os.Remove(tempPath)
			return fmt.Errorf("failed to write catalog row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to flush catalog: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close catalog file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename catalog file: %w", err)
	}

	return nil
}
