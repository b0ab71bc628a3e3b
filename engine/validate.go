package engine

import (
	"fmt"
	"sort"
)

// ============================================================================
// MAPPING VALIDATOR — Structural Feasibility Checks
// ============================================================================
// Pure inspection: no side effects, no figure construction, never panics.
// Errors make the mapping infeasible; warnings flag data-quality issues the
// cleaning engine will paper over. The validator consults only the
// convertibility predicate — never the conversion outcome.
// ============================================================================

// requiredRoles lists the hard role requirements per chart kind.
var requiredRoles = map[string][]string{
	"surface":     {"x", "y", "z"},
	"candlestick": {"x", "open", "high", "low", "close"},
	"sankey":      {"source", "target", "value"},
	"indicator":   {"value"},
	"waterfall":   {"x", "y"},
	"treemap":     {"values"},
	"sunburst":    {"values"},
}

// missingWarnThreshold is the missing-value percentage above which a mapped
// column draws a warning.
const missingWarnThreshold = 50.0

// Validate checks that a role mapping is structurally satisfiable against a
// dataset for the given chart kind.
func Validate(kind string, mapping RoleMapping, ds *Dataset) ValidationResult {
	var errs, warns []string

	// role-sorted iteration keeps the result stable across calls
	roles := make([]string, 0, len(mapping))
	for role := range mapping {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	// (a) every mapped column must exist
	for _, role := range roles {
		if name := mapping[role]; name != "" && !ds.Has(name) {
			errs = append(errs, fmt.Sprintf("column %q not found in data", name))
		}
	}

	// (b) data-quality warnings on mapped columns that do exist
	for _, role := range roles {
		name := mapping[role]
		col, ok := ds.Column(name)
		if !ok || col.Len() == 0 {
			continue
		}

		missingPct := float64(col.MissingCount()) / float64(col.Len()) * 100
		if missingPct > missingWarnThreshold {
			warns = append(warns, fmt.Sprintf("column %q has %.1f%% missing values", name, missingPct))
		}

		if !col.Numeric() {
			if n := sentinelCount(col); n > 0 {
				warns = append(warns, fmt.Sprintf("column %q has %d sentinel values that will be treated as missing", name, n))
			}
		}
	}

	// (c) per-kind structural requirements
	for _, role := range requiredRoles[kind] {
		if mapping[role] == "" {
			errs = append(errs, fmt.Sprintf("%s chart requires %q mapping", kind, role))
		}
	}

	switch kind {
	case "treemap", "sunburst":
		if mapping["names"] == "" {
			warns = append(warns, fmt.Sprintf("%s chart works better with a \"names\" mapping (labels will be auto-generated)", kind))
		}
	case "scatter_matrix", "parallel_coordinates":
		if !hasNumericColumn(ds) {
			errs = append(errs, fmt.Sprintf("%s requires at least one numeric column", kind))
		}
	case "parallel_categories":
		if !hasCategoricalColumn(ds) {
			errs = append(errs, "parallel_categories requires at least one categorical column")
		}
	}

	return ValidationResult{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warns,
	}
}

// sentinelCount counts string cells holding a recognized missing sentinel.
func sentinelCount(col *Column) int {
	n := 0
	for _, cell := range col.Cells {
		if cell.Kind == KindString && isSentinel(cell.Str) {
			n++
		}
	}
	return n
}

// hasNumericColumn reports whether any column is numeric-convertible.
func hasNumericColumn(ds *Dataset) bool {
	for _, name := range ds.ColumnNames() {
		col, _ := ds.Column(name)
		if IsNumericConvertible(col, ConvertThreshold) {
			return true
		}
	}
	return false
}

// hasCategoricalColumn reports whether any column holds non-numeric data.
func hasCategoricalColumn(ds *Dataset) bool {
	for _, name := range ds.ColumnNames() {
		col, _ := ds.Column(name)
		if col.Categorical() {
			return true
		}
	}
	return false
}
