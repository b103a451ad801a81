package transport

import (
	"fmt"

	"github.com/san-kum/pixmorph/internal/grid"
)

// Validate checks a finished record set against the source grid. All four
// checks run; every violation is reported in a *ValidationError.
//
// Complexity: O(N).
func Validate(records []PixelRecord, src *grid.Grid) error {
	var violations []Violation
	n := src.Len()

	if len(records) != n {
		violations = append(violations, Violation{
			Check:  CheckCount,
			Detail: fmt.Sprintf("got %d records, want %d", len(records), n),
		})
	}

	if v, ok := checkCoverage(CheckSourceCoverage, records, src, PixelRecord.Source); !ok {
		violations = append(violations, v)
	}
	if v, ok := checkCoverage(CheckDestCoverage, records, src, PixelRecord.Dest); !ok {
		violations = append(violations, v)
	}

	mismatched := 0
	first := -1
	for i, r := range records {
		if !src.InBounds(r.SourceX, r.SourceY) || src.At(r.SourceX, r.SourceY) != r.Color {
			mismatched++
			if first < 0 {
				first = i
			}
		}
	}
	if mismatched > 0 {
		r := records[first]
		violations = append(violations, Violation{
			Check: CheckColor,
			Detail: fmt.Sprintf("%d records differ from the source, first at (%d,%d): carries %s, source has %s",
				mismatched, r.SourceX, r.SourceY, r.Color, src.At(r.SourceX, r.SourceY)),
		})
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// checkCoverage verifies that coord maps the records one-to-one onto the
// full coordinate grid.
func checkCoverage(check string, records []PixelRecord, g *grid.Grid, coord func(PixelRecord) grid.Point) (Violation, bool) {
	seen := make([]bool, g.Len())
	distinct, dups, outside := 0, 0, 0
	for _, r := range records {
		p := coord(r)
		if !g.InBounds(p.X, p.Y) {
			outside++
			continue
		}
		i := p.Y*g.Width + p.X
		if seen[i] {
			dups++
			continue
		}
		seen[i] = true
		distinct++
	}
	if dups == 0 && outside == 0 && distinct == g.Len() {
		return Violation{}, true
	}
	return Violation{
		Check: check,
		Detail: fmt.Sprintf("%d distinct of %d cells, %d duplicates, %d outside the grid",
			distinct, g.Len(), dups, outside),
	}, false
}
