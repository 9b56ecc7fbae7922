package domain

import "testing"

func TestParseQuality(t *testing.T) {
	cases := []struct {
		in   string
		want Quality
	}{
		{"low", QualityLow},
		{"LOW", QualityLow},
		{"niedrig", QualityLow},
		{"medium", QualityMedium},
		{"Mittel", QualityMedium},
		{"high", QualityHigh},
		{"hoch", QualityHigh},
		{"", QualityHigh},
	}
	for _, c := range cases {
		got, err := ParseQuality(c.in)
		if err != nil {
			t.Fatalf("ParseQuality(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseQuality(%q) = %v, want %v", c.in, got, c.want)
		}
	}

	if _, err := ParseQuality("ultra"); !IsKind(err, KindInvalidConfig) {
		t.Fatalf("expected invalid_config error, got %v", err)
	}
}

func TestQualityCycle(t *testing.T) {
	if QualityLow.Next() != QualityMedium || QualityHigh.Next() != QualityLow {
		t.Fatalf("unexpected Next cycle")
	}
	if QualityLow.Prev() != QualityHigh || QualityMedium.Prev() != QualityLow {
		t.Fatalf("unexpected Prev cycle")
	}
}

func TestQualityText(t *testing.T) {
	b, _ := QualityMedium.MarshalText()
	if string(b) != "medium" {
		t.Fatalf("unexpected text %q", b)
	}

	var q Quality
	if err := q.UnmarshalText([]byte("low")); err != nil {
		t.Fatal(err)
	}
	if q != QualityLow {
		t.Fatalf("expected low, got %v", q)
	}
	if err := q.UnmarshalText([]byte("nope")); err == nil {
		t.Fatalf("expected error")
	}
}
