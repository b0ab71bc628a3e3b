package engine

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// ============================================================================
// CLEANING ENGINE — Type Inference + Sentinel Normalization
// ============================================================================
// Decides whether a column is "meaningfully numeric" and normalizes
// missing-value sentinels. Stateless: every decision is recomputed per call,
// and conversion always runs on a working copy of the caller's dataset.
//
// The predicate (IsNumericConvertible) and the conversion (CleanNumeric) are
// deliberately separate: callers probe first, then convert.
// ============================================================================

// ConvertThreshold is the minimum parse success rate over a sampled column
// for it to count as numeric-convertible.
const ConvertThreshold = 0.8

// sampleLimit bounds how many non-missing cells the predicate inspects.
const sampleLimit = 100

// isSentinel reports whether a string conventionally means "missing".
func isSentinel(s string) bool {
	switch strings.ToLower(s) {
	case "", "na", "n/a", "null", "none":
		return true
	}
	return false
}

// parseNumber parses a finite numeric literal. ParseFloat also accepts
// "NaN"/"Inf" spellings, which cannot live in a serializable figure, so
// non-finite results are rejected and clean to missing.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsNumericConvertible reports whether the column can be meaningfully
// converted to numeric. Columns that are already numeric short-circuit true.
// Otherwise the first sampleLimit non-missing cells are probed: sentinels are
// treated as missing, the rest are parsed, and the column qualifies iff the
// parse success rate over the remaining sample is at least threshold. An
// all-missing sample never qualifies.
func IsNumericConvertible(col *Column, threshold float64) bool {
	if col.Numeric() {
		return true
	}

	sampled, parsed := 0, 0
	taken := 0
	for _, cell := range col.Cells {
		if cell.IsMissing() {
			continue
		}
		if taken >= sampleLimit {
			break
		}
		taken++

		switch cell.Kind {
		case KindNumber, KindBool:
			sampled++
			parsed++
		case KindString:
			if isSentinel(cell.Str) {
				continue // sentinel counts as missing, not as a failure
			}
			sampled++
			if _, ok := parseNumber(cell.Str); ok {
				parsed++
			}
		}
	}

	if sampled == 0 {
		return false
	}
	return float64(parsed)/float64(sampled) >= threshold
}

// CleanNumeric converts every cell to a number or missing. Sentinels become
// missing; strings that fail to parse become missing rather than erroring.
// Applying it to an already-clean column is a no-op.
func CleanNumeric(col *Column) Column {
	cells := make([]Cell, len(col.Cells))
	for i, cell := range col.Cells {
		switch cell.Kind {
		case KindNumber:
			cells[i] = cell
		case KindBool:
			if cell.Bool {
				cells[i] = NumberCell(1)
			} else {
				cells[i] = NumberCell(0)
			}
		case KindString:
			if isSentinel(cell.Str) {
				cells[i] = MissingCell()
			} else if f, ok := parseNumber(cell.Str); ok {
				cells[i] = NumberCell(f)
			} else {
				cells[i] = MissingCell()
			}
		default:
			cells[i] = MissingCell()
		}
	}
	return Column{Name: col.Name, Cells: cells}
}

// coerceString renders every non-missing cell as a string cell.
func coerceString(col *Column) Column {
	cells := make([]Cell, len(col.Cells))
	for i, cell := range col.Cells {
		if cell.IsMissing() {
			cells[i] = cell
		} else {
			cells[i] = StringCell(cell.Label())
		}
	}
	return Column{Name: col.Name, Cells: cells}
}

// ============================================================================
// ROLE-DRIVEN APPLICATION
// ============================================================================

// numericRoles are roles semantically expected to carry numbers.
var numericRoles = map[string]bool{
	"x": true, "y": true, "z": true, "size": true,
	"values": true, "value": true, "r": true, "theta": true,
	"open": true, "high": true, "low": true, "close": true,
}

// categoricalRoles are roles coerced to string representation.
var categoricalRoles = map[string]bool{
	"color": true, "facet_row": true, "facet_col": true, "hover_name": true,
	"symbol": true, "line_dash": true, "pattern_shape": true, "names": true,
}

// applyRoleCleaning converts mapped columns in place on the working dataset:
// numeric roles are probed and converted when convertible, categorical roles
// are coerced to strings. The y axis of a bar chart keeps categorical data
// as-is so label axes survive. Unrecognized roles pass through unmodified.
func applyRoleCleaning(work *Dataset, kind string, mapping RoleMapping, log *slog.Logger) {
	for role, name := range mapping {
		col, ok := work.Column(name)
		if !ok {
			continue
		}

		switch {
		case numericRoles[role]:
			if !col.Numeric() && IsNumericConvertible(col, ConvertThreshold) {
				log.Debug("converting column to numeric", "column", name, "role", role)
				work.SetColumn(CleanNumeric(col))
			} else if role == "y" && kind == "bar" && !col.Numeric() {
				work.SetColumn(coerceString(col))
			}
		case categoricalRoles[role]:
			if !col.Numeric() {
				work.SetColumn(coerceString(col))
			}
		}
	}
}
