package viewer

import "github.com/df07/go-mesh-pathtracer/pkg/renderer"

// Control is a held camera input
type Control int

const (
	YawLeft Control = iota
	YawRight
	PitchUp
	PitchDown
	ZoomIn
	ZoomOut
	PanLeft
	PanRight
	PanUp
	PanDown
)

// Per-update camera step sizes
const (
	RotateStep = 2.0  // degrees
	ZoomFactor = 1.03 // multiplicative
	PanStep    = 0.05 // scene units
	MinZoom    = 0.1
	MaxZoom    = 20.0
)

// StepCamera applies one update's worth of held controls. The returned
// params equal the input when nothing is held, so accumulation continues.
func StepCamera(params renderer.CameraParams, held func(Control) bool) renderer.CameraParams {
	if held(YawLeft) {
		params.Yaw -= RotateStep
	}
	if held(YawRight) {
		params.Yaw += RotateStep
	}
	if held(PitchUp) {
		params.Pitch = min(params.Pitch+RotateStep, renderer.MaxPitch)
	}
	if held(PitchDown) {
		params.Pitch = max(params.Pitch-RotateStep, -renderer.MaxPitch)
	}
	if held(ZoomIn) {
		params.Zoom = min(params.Zoom*ZoomFactor, MaxZoom)
	}
	if held(ZoomOut) {
		params.Zoom = max(params.Zoom/ZoomFactor, MinZoom)
	}

	// Pan distance shrinks as the view zooms in
	pan := PanStep / max(params.Zoom, MinZoom)
	if held(PanLeft) {
		params.PanX -= pan
	}
	if held(PanRight) {
		params.PanX += pan
	}
	if held(PanUp) {
		params.PanY += pan
	}
	if held(PanDown) {
		params.PanY -= pan
	}
	return params
}
