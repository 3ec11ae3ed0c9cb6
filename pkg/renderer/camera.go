package renderer

import (
	"math"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

const (
	// FieldOfView is the vertical field of view in degrees
	FieldOfView = 45.0

	// BaseDistance is the orbit distance at zoom 1
	BaseDistance = 5.0

	// MaxPitch keeps the orbit away from the poles, in degrees
	MaxPitch = 89.0

	minZoom = 0.01
)

// CameraParams is the interactive camera state supplied every frame. Yaw
// and pitch are in degrees. Pan shifts the orbit target in the view plane.
type CameraParams struct {
	Yaw   float64
	Pitch float64
	Zoom  float64
	PanX  float64
	PanY  float64
}

// DefaultCameraParams returns a three-quarter view of the origin
func DefaultCameraParams() CameraParams {
	return CameraParams{
		Yaw:   30,
		Pitch: 20,
		Zoom:  1,
	}
}

// Camera generates primary rays for an orbiting pinhole camera
type Camera struct {
	params        CameraParams
	origin        core.Vec3
	forward       core.Vec3
	right         core.Vec3
	up            core.Vec3
	width, height int
	tanHalfFov    float64
	aspect        float64
}

// NewCamera builds the view basis for an image of width x height pixels
func NewCamera(params CameraParams, width, height int) *Camera {
	pitch := math.Max(-MaxPitch, math.Min(MaxPitch, params.Pitch)) * math.Pi / 180.0
	yaw := params.Yaw * math.Pi / 180.0
	zoom := math.Max(params.Zoom, minZoom)

	// Direction from the target to the eye
	back := core.NewVec3(math.Cos(pitch)*math.Sin(yaw), math.Sin(pitch), math.Cos(pitch)*math.Cos(yaw))
	forward := back.Negate()
	right := forward.Cross(core.NewVec3(0, 1, 0)).Normalize()
	up := right.Cross(forward)

	target := right.Multiply(params.PanX).Add(up.Multiply(params.PanY))
	origin := target.Add(back.Multiply(BaseDistance / zoom))

	return &Camera{
		params:     params,
		origin:     origin,
		forward:    forward,
		right:      right,
		up:         up,
		width:      width,
		height:     height,
		tanHalfFov: math.Tan(FieldOfView * math.Pi / 360.0),
		aspect:     float64(width) / float64(height),
	}
}

// Params returns the parameters the camera was built from
func (c *Camera) Params() CameraParams {
	return c.params
}

// Origin returns the eye position
func (c *Camera) Origin() core.Vec3 {
	return c.origin
}

// GetRay returns the unit-direction ray through the continuous pixel
// position (x, y), with y growing downward. Pixel centers sit at
// half-integer coordinates.
func (c *Camera) GetRay(x, y float64) core.Ray {
	sx := (2.0*x/float64(c.width) - 1.0) * c.aspect * c.tanHalfFov
	sy := (1.0 - 2.0*y/float64(c.height)) * c.tanHalfFov

	direction := c.forward.
		Add(c.right.Multiply(sx)).
		Add(c.up.Multiply(sy)).
		Normalize()

	return core.NewRay(c.origin, direction)
}
