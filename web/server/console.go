package server

import (
	"fmt"
	"time"

	"github.com/df07/go-mesh-pathtracer/pkg/log"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "notice", "warning", "error"
}

// WebLogger implements log.Logger by copying messages to a console channel
// in addition to the server log
type WebLogger struct {
	renderID    string
	base        log.Logger
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a new web logger for a specific render. base may be nil.
func NewWebLogger(renderID string, base log.Logger, consoleChan chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{
		renderID:    renderID,
		base:        base,
		consoleChan: consoleChan,
	}
}

// send never blocks; messages are dropped when the channel is full
func (wl *WebLogger) send(level, message string) {
	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		Message:   message,
		Timestamp: time.Now(),
		Level:     level,
	}:
	default:
	}
}

func (wl *WebLogger) Debug(v ...interface{}) {
	wl.Debugf("%s", fmt.Sprint(v...))
}

func (wl *WebLogger) Debugf(format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	if wl.base != nil {
		wl.base.Debugf("[%s] %s", wl.renderID, message)
	}
	wl.send("debug", message)
}

func (wl *WebLogger) Info(v ...interface{}) {
	wl.Infof("%s", fmt.Sprint(v...))
}

func (wl *WebLogger) Infof(format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	if wl.base != nil {
		wl.base.Infof("[%s] %s", wl.renderID, message)
	}
	wl.send("info", message)
}

func (wl *WebLogger) Notice(v ...interface{}) {
	wl.Noticef("%s", fmt.Sprint(v...))
}

func (wl *WebLogger) Noticef(format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	if wl.base != nil {
		wl.base.Noticef("[%s] %s", wl.renderID, message)
	}
	wl.send("notice", message)
}

func (wl *WebLogger) Warning(v ...interface{}) {
	wl.Warningf("%s", fmt.Sprint(v...))
}

func (wl *WebLogger) Warningf(format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	if wl.base != nil {
		wl.base.Warningf("[%s] %s", wl.renderID, message)
	}
	wl.send("warning", message)
}

func (wl *WebLogger) Error(v ...interface{}) {
	wl.Errorf("%s", fmt.Sprint(v...))
}

func (wl *WebLogger) Errorf(format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	if wl.base != nil {
		wl.base.Errorf("[%s] %s", wl.renderID, message)
	}
	wl.send("error", message)
}
