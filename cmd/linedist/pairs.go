package main

import (
	"github.com/cockroachdb/errors"

	"github.com/woozymasta/georef/internal/lines"
	"github.com/woozymasta/georef/internal/planar"
	"github.com/woozymasta/georef/internal/processor"
)

// buildPairs pairs every line with the reference line, resampling both
// when interval is positive. The reference is the line named ref, or the
// first line when ref is empty. It is not measured against itself.
func buildPairs(features []lines.Feature, ref string, interval float64, df planar.DistanceFunc) ([]processor.Pair, error) {
	if len(features) < 2 {
		return nil, errors.Newf("need a reference and at least one line, got %d lines", len(features))
	}

	refIndex := 0
	if ref != "" {
		refIndex = -1
		for i, f := range features {
			if f.Name == ref {
				refIndex = i
				break
			}
		}
		if refIndex < 0 {
			return nil, errors.Newf("reference line %q not found", ref)
		}
	}

	reference := features[refIndex].Line
	if interval > 0 {
		reference = lines.Resample(reference, interval, df)
	}

	pairs := make([]processor.Pair, 0, len(features)-1)
	for i, f := range features {
		if i == refIndex {
			continue
		}
		line := f.Line
		if interval > 0 {
			line = lines.Resample(line, interval, df)
		}
		pairs = append(pairs, processor.Pair{
			Properties: f.Properties,
			Name:       f.Name,
			Reference:  reference,
			Line:       line,
		})
	}
	return pairs, nil
}
