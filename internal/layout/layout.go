package layout

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
)

// Generation identifies a group of survey years sharing the same
// fixed-width encoding rules for the BMI field.
type Generation int

const (
	GenUnknown Generation = iota
	// Gen2000 encodes BMI with one implied decimal ("0185" -> 18.5), sentinel "999".
	Gen2000
	// Gen2001 encodes BMI with four implied decimals, sentinel "999999".
	Gen2001
	// Gen2002 covers 2002-2010: two implied decimals, sentinel "9999".
	Gen2002
	// Gen2011 covers 2011 onward: two implied decimals, all-blank sentinel.
	Gen2011
)

func (g Generation) String() string {
	switch g {
	case Gen2000:
		return "2000"
	case Gen2001:
		return "2001"
	case Gen2002:
		return "2002-2010"
	case Gen2011:
		return "2011+"
	default:
		return "unknown"
	}
}

// GenerationFor maps a two-digit survey-year code to its encoding generation.
func GenerationFor(yearCode int) Generation {
	switch {
	case yearCode == 0:
		return Gen2000
	case yearCode == 1:
		return Gen2001
	case yearCode >= 2 && yearCode <= 10:
		return Gen2002
	case yearCode > 10:
		return Gen2011
	default:
		return GenUnknown
	}
}

// ColumnSpan is a run of character columns in a fixed-width record.
// Both bounds are 1-based and inclusive.
type ColumnSpan struct {
	Start int
	End   int
}

// Entry locates the fields of interest within one survey year's records.
// Single-column fields carry just the 1-based column number.
type Entry struct {
	GenHealth int
	BMI       ColumnSpan
	Income    ColumnSpan
	Education int
}

// table holds the built-in layouts, keyed by two-digit year code.
var table = map[int]Entry{
	11: {GenHealth: 73, BMI: ColumnSpan{1533, 1536}, Income: ColumnSpan{124, 125}, Education: 122},
	12: {GenHealth: 73, BMI: ColumnSpan{1644, 1647}, Income: ColumnSpan{116, 117}, Education: 114},
	13: {GenHealth: 80, BMI: ColumnSpan{2192, 2195}, Income: ColumnSpan{152, 153}, Education: 150},
	14: {GenHealth: 80, BMI: ColumnSpan{2247, 2250}, Income: ColumnSpan{152, 153}, Education: 150},
}

// Lookup returns the layout for a two-digit year code, if one is known.
func Lookup(yearCode int) (Entry, bool) {
	e, ok := table[yearCode]
	return e, ok
}

// YearCodes lists the year codes with a known layout, ascending.
func YearCodes() []int {
	codes := make([]int, 0, len(table))
	for c := range table {
		codes = append(codes, c)
	}
	sort.Ints(codes)
	return codes
}

// Year expands a two-digit year code to a full survey year.
func Year(yearCode int) int { return 2000 + yearCode }

// yearCodePos is the byte offset of the two-digit year code within an
// archive basename, e.g. "CDBRFS11.ZIP"[6:8] == "11".
const yearCodePos = 6

// YearFromFilename extracts the two-digit year code embedded in an archive
// filename. The code occupies two fixed bytes of the basename.
func YearFromFilename(name string) (int, error) {
	base := filepath.Base(name)
	if len(base) < yearCodePos+2 {
		return 0, fmt.Errorf("filename %q too short for a year code", base)
	}
	code, err := strconv.Atoi(base[yearCodePos : yearCodePos+2])
	if err != nil {
		return 0, fmt.Errorf("filename %q has no year code at offset %d", base, yearCodePos)
	}
	return code, nil
}

// Cut extracts the span's columns from a record. The second return is false
// when the record is too short to contain the span.
func (c ColumnSpan) Cut(record string) (string, bool) {
	if c.Start < 1 || c.End < c.Start || len(record) < c.End {
		return "", false
	}
	return record[c.Start-1 : c.End], true
}

// CutAt extracts the single column col (1-based) from a record.
func CutAt(record string, col int) (string, bool) {
	if col < 1 || len(record) < col {
		return "", false
	}
	return record[col-1 : col], true
}
