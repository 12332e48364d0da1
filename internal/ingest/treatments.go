// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/Weirwood-Admin/cancer-matching-engine/pkg/types"
)

// TreatmentSink receives seeded treatments; the catalog store satisfies it.
type TreatmentSink interface {
	UpsertTreatment(ctx context.Context, treatment *types.Treatment) error
}

// treatmentFile is the YAML seed file layout: a top-level treatments list.
type treatmentFile struct {
	Treatments []types.Treatment `yaml:"treatments"`
}

// LoadTreatments reads a YAML treatment seed file.
func LoadTreatments(path string) ([]types.Treatment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading treatment file: %w", err)
	}

	var file treatmentFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing treatment file %s: %w", path, err)
	}
	if len(file.Treatments) == 0 {
		return nil, fmt.Errorf("no treatments found in %s", path)
	}
	return file.Treatments, nil
}

// SeedTreatments upserts treatments into the sink. Records without a
// generic name are counted as failed and skipped.
func SeedTreatments(ctx context.Context, sink TreatmentSink, treatments []types.Treatment, w io.Writer) (stored, failed int) {
	for i := range treatments {
		t := &treatments[i]
		if t.GenericName == "" {
			fmt.Fprintf(w, "warning: skipping treatment %d: missing generic name\n", i)
			failed++
			continue
		}
		if err := sink.UpsertTreatment(ctx, t); err != nil {
			fmt.Fprintf(w, "warning: storing %s failed: %v\n", t.GenericName, err)
			failed++
			continue
		}
		stored++
	}
	fmt.Fprintf(w, "treatments stored: %d, failed: %d\n", stored, failed)
	return stored, failed
}
