package telemetry

import (
	"math"
	"testing"
)

func TestParseMaterial(t *testing.T) {
	tests := []struct {
		in   string
		want Material
	}{
		{"rock", Rock},
		{"Metal", Metal},
		{" crystal ", Crystal},
		{"obsidian", Rock},
		{"", Rock},
	}
	for _, tt := range tests {
		if got := ParseMaterial(tt.in); got != tt.want {
			t.Fatalf("ParseMaterial(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	s := Snapshot{Heat: 140, Depth: -3, Material: Material(9)}.Normalize()
	if s.Heat != 100 || s.Depth != 0 || s.Material != Rock {
		t.Fatalf("Normalize() = %+v", s)
	}
	if s := (Snapshot{Heat: -1}).Normalize(); s.Heat != 0 {
		t.Fatalf("Heat = %v, want 0", s.Heat)
	}
}

func TestNormalizeNonFinite(t *testing.T) {
	tests := []struct {
		heat, depth         float64
		wantHeat, wantDepth float64
	}{
		{math.NaN(), math.NaN(), 0, 0},
		{math.Inf(1), math.Inf(1), 0, MaxDepth},
		{math.Inf(-1), math.Inf(-1), 0, 0},
		{55, 1200, 55, 1200},
	}
	for _, tt := range tests {
		s := Snapshot{Heat: tt.heat, Depth: tt.depth}.Normalize()
		if s.Heat != tt.wantHeat || s.Depth != tt.wantDepth {
			t.Fatalf("Normalize(%v, %v) = (%v, %v), want (%v, %v)", tt.heat, tt.depth, s.Heat, s.Depth, tt.wantHeat, tt.wantDepth)
		}
	}
}
