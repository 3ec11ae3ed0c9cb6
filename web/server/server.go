package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/df07/go-mesh-pathtracer/pkg/integrator"
	"github.com/df07/go-mesh-pathtracer/pkg/log"
	"github.com/df07/go-mesh-pathtracer/pkg/renderer"
	"github.com/df07/go-mesh-pathtracer/pkg/scene"
)

// MeshSceneName selects the mesh scene supplied with SetMeshScene
const MeshSceneName = "mesh"

// Server handles web requests for the progressive path tracer
type Server struct {
	port      int
	staticDir string
	logger    log.Logger
	mesh      *scene.Scene
}

// NewServer creates a new web server. staticDir may be empty to serve the API only.
func NewServer(port int, staticDir string, logger log.Logger) *Server {
	return &Server{port: port, staticDir: staticDir, logger: logger}
}

// SetMeshScene makes a loaded mesh scene available under MeshSceneName. The
// scene is shared read-only by every request.
func (s *Server) SetMeshScene(sc *scene.Scene) {
	s.mesh = sc
}

// RenderRequest represents a render or inspect request from the client
type RenderRequest struct {
	Scene    string                `json:"scene"`
	Width    int                   `json:"width"`
	Height   int                   `json:"height"`
	Frames   int                   `json:"frames"`
	Camera   renderer.CameraParams `json:"camera"`
	Exposure float64               `json:"exposure"`
	MaxDepth int                   `json:"maxDepth"`
	RRDepth  int                   `json:"rrDepth"`
}

// Handler returns the API routes, plus static files when configured
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	}

	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start serves until the listener fails
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Noticef("starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SceneEntry is one element of the /api/scenes response
type SceneEntry struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}

// handleScenes lists the scenes a request may name
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	var entries []SceneEntry
	if s.mesh != nil {
		entries = append(entries, SceneEntry{
			Name:        MeshSceneName,
			DisplayName: "Loaded Mesh",
			Description: fmt.Sprintf("%d triangles loaded at startup", s.mesh.TriangleCount()),
		})
	}
	for _, info := range scene.ListBuiltinScenes() {
		entries = append(entries, SceneEntry{Name: info.Name, DisplayName: info.DisplayName, Description: info.Description})
	}
	writeJSON(w, http.StatusOK, entries)
}

// createScene returns the mesh scene or builds a built-in one
func (s *Server) createScene(name string) (*scene.Scene, error) {
	if strings.EqualFold(name, MeshSceneName) {
		if s.mesh == nil {
			return nil, fmt.Errorf("no mesh loaded: %w", scene.ErrUnknownScene)
		}
		return s.mesh, nil
	}
	return scene.NewBuiltinScene(name)
}

// parseCommonSceneParams parses the parameters shared by render and inspect
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()

	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = "default"
	}

	defaults := renderer.DefaultCameraParams()
	var err error
	if req.Width, err = parseIntParam(query, "width", 400, 16, 2000); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(query, "height", 300, 16, 2000); err != nil {
		return err
	}
	if req.Camera.Yaw, err = parseFloatParam(query, "yaw", defaults.Yaw, -3600, 3600); err != nil {
		return err
	}
	if req.Camera.Pitch, err = parseFloatParam(query, "pitch", defaults.Pitch, -renderer.MaxPitch, renderer.MaxPitch); err != nil {
		return err
	}
	if req.Camera.Zoom, err = parseFloatParam(query, "zoom", defaults.Zoom, 0.1, 20); err != nil {
		return err
	}
	if req.Camera.PanX, err = parseFloatParam(query, "panX", 0, -100, 100); err != nil {
		return err
	}
	if req.Camera.PanY, err = parseFloatParam(query, "panY", 0, -100, 100); err != nil {
		return err
	}
	return nil
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		return nil, err
	}

	query := r.URL.Query()
	defaults := integrator.DefaultConfig()
	var err error
	if req.Frames, err = parseIntParam(query, "frames", 32, 1, 10000); err != nil {
		return nil, err
	}
	if req.Exposure, err = parseFloatParam(query, "exposure", 1.0, 0.01, 100); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", defaults.MaxDepth, 1, 64); err != nil {
		return nil, err
	}
	if req.RRDepth, err = parseIntParam(query, "rrDepth", defaults.RouletteDepth, 0, 64); err != nil {
		return nil, err
	}

	if req.Width*req.Height > 800*600 && req.Frames > 100 {
		s.logger.Warning("large image with many frames may render slowly")
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
