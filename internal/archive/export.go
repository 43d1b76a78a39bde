// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// Export formats.
const (
	ExportYAML = "yaml"
	ExportJSON = "json"
)

const exportLimit = 100000

// Export writes every saved lookup, oldest first and with its publications,
// to w in the given format.
func (s *Store) Export(ctx context.Context, w io.Writer, format string) error {
	records, err := s.exportRecords(ctx)
	if err != nil {
		return err
	}

	switch format {
	case ExportYAML, "":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	case ExportJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
	default:
		return fmt.Errorf("unknown export format %q (want yaml or json)", format)
	}
	return nil
}

func (s *Store) exportRecords(ctx context.Context) ([]Record, error) {
	entries, err := s.List(ctx, "", exportLimit)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	records := make([]Record, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		pubs, err := s.publications(ctx, entries[i].ID)
		if err != nil {
			return nil, fmt.Errorf("querying for export: %w", err)
		}
		records = append(records, Record{Entry: entries[i], Publications: pubs})
	}
	return records, nil
}
