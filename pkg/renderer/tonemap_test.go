package renderer

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestToneMapZero(t *testing.T) {
	if got := ToneMap(0, 1); got != 0 {
		t.Errorf("ToneMap(0) = %d, want 0", got)
	}
	if got := ToneMap(-3, 1); got != 0 {
		t.Errorf("ToneMap(-3) = %d, want 0", got)
	}
}

func TestToneMapNonFinite(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		want uint8
	}{
		{"nan", math.NaN(), 0},
		{"positive infinity", math.Inf(1), 255},
		{"negative infinity", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToneMap(tt.x, 1); got != tt.want {
				t.Errorf("ToneMap(%v) = %d, want %d", tt.x, got, tt.want)
			}
		})
	}
}

func TestToneMapMonotonic(t *testing.T) {
	prev := ToneMap(0, 1)
	for x := 0.0; x <= 100; x += 0.01 {
		v := ToneMap(x, 1)
		if v < prev {
			t.Fatalf("ToneMap decreased at %v: %d < %d", x, v, prev)
		}
		prev = v
	}
	if prev != 255 {
		t.Errorf("ToneMap(100) = %d, want 255", prev)
	}
}

func TestToneMapExposure(t *testing.T) {
	// Exposure is applied before the curve
	if ToneMap(0.5, 2) != ToneMap(1, 1) {
		t.Errorf("exposure 2 at 0.5 should equal exposure 1 at 1")
	}
}

func TestToneMapKnownValues(t *testing.T) {
	tests := []struct {
		x    float64
		want uint8
	}{
		{0.18, 140}, // ACES(0.18)=0.2669
		{1.0, 231},  // ACES(1)=0.8038
	}

	for _, tt := range tests {
		if got := ToneMap(tt.x, 1); got != tt.want {
			t.Errorf("ToneMap(%v) = %d, want %d", tt.x, got, tt.want)
		}
	}
}

func TestWritePPM(t *testing.T) {
	var buf bytes.Buffer
	rgb := []byte{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 10, 20, 30,
	}
	if err := WritePPM(&buf, 2, 2, rgb); err != nil {
		t.Fatalf("WritePPM: %v", err)
	}

	want := "P3\n2 2\n255\n255 0 0 0 255 0 \n0 0 255 10 20 30 \n"
	if buf.String() != want {
		t.Errorf("unexpected PPM output:\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestWritePPMErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePPM(&buf, 0, 2, nil); !errors.Is(err, ErrInvalidResolution) {
		t.Errorf("expected ErrInvalidResolution, got %v", err)
	}
	if err := WritePPM(&buf, 2, 2, []byte{1, 2, 3}); err == nil || !strings.Contains(err.Error(), "buffer") {
		t.Errorf("expected short buffer error, got %v", err)
	}
}
