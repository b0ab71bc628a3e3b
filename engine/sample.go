package engine

import "encoding/json"

// SampleData returns a small deterministic column-oriented dataset suitable
// for exercising the given chart kind. Kinds without a dedicated fixture get
// a generic x/y/category dataset.
func SampleData(kind string) string {
	raw, err := json.Marshal(sampleDataset(kind))
	if err != nil {
		// the fixtures below are static and always marshal
		panic(err)
	}
	return string(raw)
}

func sampleDataset(kind string) *Dataset {
	switch kind {
	case "surface":
		return mustDataset(
			numbersColumn("x", rep3(1, 1, 2, 2, 3, 3, 4, 4)...),
			numbersColumn("y", rep3(1, 2, 1, 2, 1, 2, 1, 2)...),
			numbersColumn("z", rep3(10, 15, 12, 18, 14, 20, 16, 22)...),
		)
	case "candlestick":
		return mustDataset(
			stringsColumn("date", "2023-01-01", "2023-01-02", "2023-01-03", "2023-01-04", "2023-01-05"),
			numbersColumn("open", 100, 102, 101, 103, 105),
			numbersColumn("high", 105, 107, 106, 108, 110),
			numbersColumn("low", 99, 100, 99, 101, 103),
			numbersColumn("close", 102, 101, 103, 105, 107),
		)
	case "sankey":
		return mustDataset(
			stringsColumn("source", "A", "A", "B", "B", "C"),
			stringsColumn("target", "B", "C", "C", "D", "D"),
			numbersColumn("value", 10, 5, 8, 3, 7),
		)
	case "treemap", "sunburst":
		return mustDataset(
			stringsColumn("names", "A", "B", "C", "D", "E"),
			numbersColumn("values", 10, 15, 12, 8, 20),
		)
	case "indicator":
		return mustDataset(
			numbersColumn("metric", 85),
			numbersColumn("target", 100),
		)
	default:
		return mustDataset(
			numbersColumn("x", 1, 2, 3, 4, 5),
			numbersColumn("y", 10, 15, 13, 17, 20),
			stringsColumn("category", "A", "B", "A", "B", "A"),
		)
	}
}

func numbersColumn(name string, vals ...float64) Column {
	cells := make([]Cell, len(vals))
	for i, v := range vals {
		cells[i] = NumberCell(v)
	}
	return Column{Name: name, Cells: cells}
}

func stringsColumn(name string, vals ...string) Column {
	cells := make([]Cell, len(vals))
	for i, v := range vals {
		cells[i] = StringCell(v)
	}
	return Column{Name: name, Cells: cells}
}

// rep3 tiles the values three times, matching the duplicate density the
// surface pivot averages over.
func rep3(vals ...float64) []float64 {
	out := make([]float64, 0, len(vals)*3)
	for i := 0; i < 3; i++ {
		out = append(out, vals...)
	}
	return out
}

func mustDataset(cols ...Column) *Dataset {
	ds, err := NewDataset(cols)
	if err != nil {
		panic(err)
	}
	return ds
}
