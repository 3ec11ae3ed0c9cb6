package server

import (
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-mesh-pathtracer/pkg/renderer"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for surface inspection
type InspectResponse struct {
	Hit        bool                   `json:"hit"`
	Kind       string                 `json:"kind"`     // "mesh", "ground" or "light"
	Material   string                 `json:"material"` // material tag name
	Point      [3]float64             `json:"point"`
	Normal     [3]float64             `json:"normal"`
	Distance   float64                `json:"distance"`
	FrontFace  bool                   `json:"frontFace"`
	Properties map[string]interface{} `json:"properties"`
}

// inspectPixel casts the primary ray through the center of a pixel and
// returns the nearest hit together with the ray direction
func inspectPixel(sc *scene.Scene, params renderer.CameraParams, width, height, pixelX, pixelY int) (scene.Hit, [3]float64) {
	camera := renderer.NewCamera(params, width, height)
	ray := camera.GetRay(float64(pixelX)+0.5, float64(pixelY)+0.5)
	return sc.Intersect(ray, math.Inf(1)), [3]float64{ray.Direction.X, ray.Direction.Y, ray.Direction.Z}
}

// describeHit converts a scene hit into the response form
func describeHit(sc *scene.Scene, hit scene.Hit, direction [3]float64) InspectResponse {
	if hit.Kind == scene.Miss {
		return InspectResponse{Hit: false, Kind: hit.Kind.String()}
	}

	properties := make(map[string]interface{})
	switch hit.Kind {
	case scene.MeshHit:
		tri := sc.Triangles[hit.Triangle]
		properties["triangle"] = hit.Triangle
		properties["vertices"] = [3]int{tri[0], tri[1], tri[2]}
		properties["barycentric"] = [2]float64{hit.U, hit.V}
		if texID := sc.TextureIDs[hit.Triangle]; texID != scene.NoTexture {
			properties["texture"] = texID
			properties["hasUVs"] = sc.HasUVs[hit.Triangle]
		}
	case scene.LightHit:
		properties["emission"] = sc.Light.Emission
		properties["radius"] = sc.Light.Radius
	case scene.GroundHit:
		properties["groundY"] = sc.Ground.Y
	}

	if hit.Kind != scene.LightHit {
		albedo := sc.Albedo(hit)
		properties["albedo"] = [3]float64{albedo.X, albedo.Y, albedo.Z}
	}

	n := hit.Normal
	return InspectResponse{
		Hit:        true,
		Kind:       hit.Kind.String(),
		Material:   sc.Tag(hit).String(),
		Point:      [3]float64{hit.Point.X, hit.Point.Y, hit.Point.Z},
		Normal:     [3]float64{n.X, n.Y, n.Z},
		Distance:   hit.T,
		FrontFace:  n.X*direction[0]+n.Y*direction[1]+n.Z*direction[2] < 0,
		Properties: properties,
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeJSONError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	sc, err := s.createScene(req.Scene)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	hit, direction := inspectPixel(sc, req.Camera, req.Width, req.Height, pixelX, pixelY)
	writeJSON(w, http.StatusOK, describeHit(sc, hit, direction))
}
