package viewer

import (
	"math"
	"testing"

	"github.com/df07/go-mesh-pathtracer/pkg/renderer"
)

func holding(controls ...Control) func(Control) bool {
	return func(c Control) bool {
		for _, h := range controls {
			if h == c {
				return true
			}
		}
		return false
	}
}

func TestStepCamera(t *testing.T) {
	start := renderer.DefaultCameraParams()

	tests := []struct {
		name  string
		held  []Control
		check func(p renderer.CameraParams) bool
	}{
		{"nothing held", nil, func(p renderer.CameraParams) bool { return p == start }},
		{"yaw left", []Control{YawLeft}, func(p renderer.CameraParams) bool { return p.Yaw == start.Yaw-RotateStep }},
		{"yaw right", []Control{YawRight}, func(p renderer.CameraParams) bool { return p.Yaw == start.Yaw+RotateStep }},
		{"opposing yaw cancels", []Control{YawLeft, YawRight}, func(p renderer.CameraParams) bool { return p.Yaw == start.Yaw }},
		{"pitch up", []Control{PitchUp}, func(p renderer.CameraParams) bool { return p.Pitch == start.Pitch+RotateStep }},
		{"zoom in", []Control{ZoomIn}, func(p renderer.CameraParams) bool { return p.Zoom > start.Zoom }},
		{"zoom out", []Control{ZoomOut}, func(p renderer.CameraParams) bool { return p.Zoom < start.Zoom }},
		{"pan right and up", []Control{PanRight, PanUp}, func(p renderer.CameraParams) bool { return p.PanX > 0 && p.PanY > 0 }},
		{"pan left and down", []Control{PanLeft, PanDown}, func(p renderer.CameraParams) bool { return p.PanX < 0 && p.PanY < 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StepCamera(start, holding(tt.held...))
			if !tt.check(got) {
				t.Errorf("Unexpected params %+v", got)
			}
		})
	}
}

func TestStepCamera_Clamps(t *testing.T) {
	p := renderer.CameraParams{Pitch: renderer.MaxPitch - 0.5, Zoom: MaxZoom}
	p = StepCamera(p, holding(PitchUp, ZoomIn))
	if p.Pitch != renderer.MaxPitch {
		t.Errorf("Expected pitch clamped to %v, got %v", renderer.MaxPitch, p.Pitch)
	}
	if p.Zoom != MaxZoom {
		t.Errorf("Expected zoom clamped to %v, got %v", MaxZoom, p.Zoom)
	}

	p = renderer.CameraParams{Pitch: -renderer.MaxPitch, Zoom: MinZoom}
	p = StepCamera(p, holding(PitchDown, ZoomOut))
	if p.Pitch != -renderer.MaxPitch || p.Zoom != MinZoom {
		t.Errorf("Expected lower clamps, got %+v", p)
	}
}

func TestStepCamera_PanScalesWithZoom(t *testing.T) {
	near := StepCamera(renderer.CameraParams{Zoom: 4}, holding(PanRight))
	far := StepCamera(renderer.CameraParams{Zoom: 1}, holding(PanRight))
	if math.Abs(near.PanX*4-far.PanX) > 1e-12 {
		t.Errorf("Expected pan at zoom 4 to be a quarter of zoom 1, got %v and %v", near.PanX, far.PanX)
	}
}

func TestExpandRGB(t *testing.T) {
	rgb := []byte{1, 2, 3, 4, 5, 6}
	dst := make([]byte, 8)
	ExpandRGB(dst, rgb)

	want := []byte{1, 2, 3, 255, 4, 5, 6, 255}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, dst)
		}
	}

	// A short destination is filled as far as it goes
	short := make([]byte, 4)
	ExpandRGB(short, rgb)
	if short[0] != 1 || short[3] != 255 {
		t.Errorf("Expected first pixel only, got %v", short)
	}
}
