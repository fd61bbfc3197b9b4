package records

import (
	"math"
	"testing"
	"time"
)

func TestIsMissing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want bool
	}{
		{nil, true},
		{math.NaN(), true},
		{time.Time{}, true},
		{"", false},
		{0.0, false},
		{time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		if got := IsMissing(tt.in); got != tt.want {
			t.Errorf("IsMissing(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"both missing", nil, math.NaN(), true},
		{"missing vs value", nil, "", false},
		{"same text", "Acme", "Acme", true},
		{"text vs number", "1", 1.0, false},
		{"same number", 48000.0, 48000.0, true},
		{"same instant other zone", ts, ts.In(time.FixedZone("CET", 3600)), true},
		{"different instant", ts, ts.Add(time.Second), false},
	}
	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: Equal = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestClone(t *testing.T) {
	t.Parallel()

	r := Record{"job_title": "Dev"}
	c := r.Clone()
	c["job_title"] = "QA"
	if r["job_title"] != "Dev" {
		t.Fatalf("Clone shares storage with its source")
	}
}
