package layout

import "testing"

func TestLookup(t *testing.T) {
	e, ok := Lookup(13)
	if !ok {
		t.Fatalf("expected layout for year code 13")
	}
	if e.GenHealth != 80 || e.Education != 150 {
		t.Fatalf("unexpected 2013 layout: %+v", e)
	}
	if e.BMI.Start != 2192 || e.BMI.End != 2195 {
		t.Fatalf("unexpected 2013 bmi span: %+v", e.BMI)
	}
	if _, ok := Lookup(5); ok {
		t.Fatalf("expected no layout for year code 5")
	}
}

func TestYearCodes(t *testing.T) {
	codes := YearCodes()
	want := []int{11, 12, 13, 14}
	if len(codes) != len(want) {
		t.Fatalf("got %v, want %v", codes, want)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("got %v, want %v", codes, want)
		}
	}
}

func TestGenerationFor(t *testing.T) {
	cases := []struct {
		code int
		want Generation
	}{
		{0, Gen2000},
		{1, Gen2001},
		{2, Gen2002},
		{10, Gen2002},
		{11, Gen2011},
		{14, Gen2011},
		{99, Gen2011},
		{-1, GenUnknown},
	}
	for _, c := range cases {
		if got := GenerationFor(c.code); got != c.want {
			t.Errorf("GenerationFor(%d) = %s, want %s", c.code, got, c.want)
		}
	}
}

func TestYearFromFilename(t *testing.T) {
	code, err := YearFromFilename("CDBRFS13.ZIP")
	if err != nil {
		t.Fatalf("year from filename: %v", err)
	}
	if code != 13 {
		t.Fatalf("got code %d, want 13", code)
	}
	// Directory components must not shift the code position.
	code, err = YearFromFilename("/data/surveys/CDBRFS11.ZIP")
	if err != nil {
		t.Fatalf("year from path: %v", err)
	}
	if code != 11 {
		t.Fatalf("got code %d, want 11", code)
	}
	if _, err := YearFromFilename("short"); err == nil {
		t.Fatalf("expected error for short filename")
	}
	if _, err := YearFromFilename("CDBRFSXX.ZIP"); err == nil {
		t.Fatalf("expected error for non-numeric year code")
	}
}

func TestCut(t *testing.T) {
	rec := "abcdefghij"
	if got, ok := (ColumnSpan{3, 5}).Cut(rec); !ok || got != "cde" {
		t.Fatalf("Cut(3,5) = %q, %v", got, ok)
	}
	if _, ok := (ColumnSpan{8, 11}).Cut(rec); ok {
		t.Fatalf("expected Cut past end of record to fail")
	}
	if got, ok := CutAt(rec, 1); !ok || got != "a" {
		t.Fatalf("CutAt(1) = %q, %v", got, ok)
	}
	if _, ok := CutAt(rec, 11); ok {
		t.Fatalf("expected CutAt past end of record to fail")
	}
}
