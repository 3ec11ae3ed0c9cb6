package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"time"

	"github.com/df07/go-mesh-pathtracer/pkg/renderer"
)

// FrameUpdate is sent via SSE after every progressive frame
type FrameUpdate struct {
	Frame         int     `json:"frame"`
	TotalFrames   int     `json:"totalFrames"`
	ImageData     string  `json:"imageData"` // Base64 encoded PNG
	Stride        int     `json:"stride"`
	PixelsSampled int     `json:"pixelsSampled"`
	RaysPerSecond float64 `json:"raysPerSecond"`
	FrameMs       int64   `json:"frameMs"`
	ElapsedMs     int64   `json:"elapsedMs"`
	Triangles     int     `json:"triangles"`
	IsComplete    bool    `json:"isComplete"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "frame", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// handleRender streams progressive frames to the client via SSE. Events are
// produced by a render goroutine and written only by the handler goroutine.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sseEventChan := make(chan SSEEvent, 100)
	go s.produceRenderEvents(ctx, r, sseEventChan)

	s.writeSSEEvents(ctx, w, sseEventChan)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents writes events until the channel is closed or the client leaves
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		case <-ctx.Done():
			return
		}
	}
}

// produceRenderEvents runs one render and closes sseEventChan when done
func (s *Server) produceRenderEvents(ctx context.Context, r *http.Request, sseEventChan chan<- SSEEvent) {
	defer close(sseEventChan)

	emit := func(eventType, data string) bool {
		select {
		case sseEventChan <- SSEEvent{Type: eventType, Data: data}:
			return true
		case <-ctx.Done():
			return false
		}
	}

	req, err := s.parseRenderRequest(r)
	if err != nil {
		emit("error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	consoleChan := make(chan ConsoleMessage, 50)
	webLogger := NewWebLogger(fmt.Sprintf("render-%d", time.Now().UnixNano()), s.logger, consoleChan)

	sc, err := s.createScene(req.Scene)
	if err != nil {
		emit("error", err.Error())
		return
	}

	config := renderer.DefaultProgressiveConfig()
	config.Exposure = req.Exposure
	config.Integrator.MaxDepth = req.MaxDepth
	config.Integrator.RouletteDepth = req.RRDepth

	p, err := renderer.NewProgressive(sc, req.Width, req.Height, config, webLogger)
	if err != nil {
		emit("error", err.Error())
		return
	}

	renderCtx, cancelRender := context.WithCancel(ctx)
	startTime := time.Now()
	frameChan, errChan := p.RenderProgressive(renderCtx, req.Camera, req.Frames)

	// The render goroutine must finish before the worker pool stops
	defer func() {
		cancelRender()
		for range frameChan {
		}
		p.Close()
	}()

	for done := false; !done; {
		select {
		case result, ok := <-frameChan:
			if !ok {
				done = true
				continue
			}
			data, err := s.frameUpdateJSON(result, req, sc.TriangleCount(), startTime)
			if err != nil {
				emit("error", fmt.Sprintf("Failed to encode frame: %v", err))
				return
			}
			if !emit("frame", data) {
				return
			}
		case msg := <-consoleChan:
			if data, err := json.Marshal(msg); err == nil {
				// Console output is best effort
				select {
				case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
				default:
				}
			}
		}
	}

	if err := <-errChan; err != nil {
		emit("error", fmt.Sprintf("Rendering stopped: %v", err))
		return
	}
	emit("complete", "Rendering completed")
}

// frameUpdateJSON encodes one frame result for the client
func (s *Server) frameUpdateJSON(result renderer.FrameResult, req *RenderRequest, triangles int, startTime time.Time) (string, error) {
	imageData, err := imageToBase64PNG(result.Image)
	if err != nil {
		return "", err
	}

	update := FrameUpdate{
		Frame:         result.Frame,
		TotalFrames:   req.Frames,
		ImageData:     imageData,
		Stride:        result.Stats.Stride,
		PixelsSampled: result.Stats.PixelsSampled,
		RaysPerSecond: result.Stats.RaysPerSecond(),
		FrameMs:       result.Stats.Duration.Milliseconds(),
		ElapsedMs:     time.Since(startTime).Milliseconds(),
		Triangles:     triangles,
		IsComplete:    result.IsLast,
	}

	data, err := json.Marshal(update)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
