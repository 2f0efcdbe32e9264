package logging

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(true, "loud"); err == nil {
		t.Fatal("expected invalid level to fail")
	}

	logger, err := New(false, "debug")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if !logger.Core().Enabled(zap.DebugLevel) {
		t.Fatal("expected debug level to be enabled")
	}
}

func TestRequestLoggerAssignsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))

	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = RequestID(c)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	header := w.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(header); err != nil {
		t.Fatalf("expected uuid request id, got %q", header)
	}
	if seen != header {
		t.Fatalf("handler saw %q, response carried %q", seen, header)
	}

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one access log entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["status"]; got != int64(http.StatusNoContent) {
		t.Fatalf("unexpected logged status %v", got)
	}
}

func TestRequestLoggerKeepsValidIncomingID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestLogger(nil))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != incoming {
		t.Fatalf("expected incoming id %q to be kept, got %q", incoming, got)
	}
}
