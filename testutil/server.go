package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// HeaderRequestID is echoed back on every response.
const HeaderRequestID = "X-Request-Id"

// RecordedRequest is a request received by the Server.
type RecordedRequest struct {
	Method    string
	Path      string
	RawQuery  string
	Query     url.Values
	Header    http.Header
	Body      []byte
	RequestID string
}

// Server is a fake JSON service backed by httptest.Server.
type Server struct {
	engine *gin.Engine
	ts     *httptest.Server

	mu       sync.RWMutex
	requests []RecordedRequest
}

// NewServer starts a Server and closes it when the test ends.
func NewServer(tb testing.TB) *Server {
	tb.Helper()
	s := &Server{engine: gin.New()}
	s.engine.Use(gin.Recovery(), s.record())
	s.ts = httptest.NewServer(s.engine)
	tb.Cleanup(s.Close)
	return s
}

// URL returns the server's base URL (e.g. "http://127.0.0.1:PORT").
func (s *Server) URL() string {
	return s.ts.URL
}

// Engine returns the gin engine for registering custom routes.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handle registers a handler for method and path.
func (s *Server) Handle(method, path string, handler gin.HandlerFunc) {
	s.engine.Handle(method, path, handler)
}

// Reply registers a route that answers with status and body encoded as JSON.
// A nil body sends no content.
func (s *Server) Reply(method, path string, status int, body any) {
	s.Handle(method, path, func(c *gin.Context) {
		if body == nil {
			c.Status(status)
			return
		}
		c.JSON(status, body)
	})
}

// ReplyRaw registers a route that answers with status and a raw body.
func (s *Server) ReplyRaw(method, path string, status int, contentType string, body []byte) {
	s.Handle(method, path, func(c *gin.Context) {
		c.Data(status, contentType, body)
	})
}

// Fail registers a route that answers with status and a responseStatus envelope.
func (s *Server) Fail(method, path string, status int, envelope Envelope) {
	s.Reply(method, path, status, envelope.Body())
}

// Echo registers a route that answers 200 with the request's method, query
// and decoded JSON body.
func (s *Server) Echo(method, path string) {
	s.Handle(method, path, func(c *gin.Context) {
		reply := gin.H{"method": c.Request.Method}
		query := gin.H{}
		for k := range c.Request.URL.Query() {
			query[k] = c.Query(k)
		}
		reply["query"] = query
		if raw, ok := c.Get(bodyKey); ok && len(raw.([]byte)) > 0 {
			var body any
			if err := json.Unmarshal(raw.([]byte), &body); err == nil {
				reply["body"] = body
			}
		}
		c.JSON(http.StatusOK, reply)
	})
}

// Requests returns a copy of the recorded requests.
func (s *Server) Requests() []RecordedRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request.
func (s *Server) LastRequest() (RecordedRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Reset forgets the recorded requests. Registered routes are kept.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// Close shuts the server down.
func (s *Server) Close() {
	s.ts.Close()
}

const bodyKey = "testutil.body"

func (s *Server) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(HeaderRequestID, id)

		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}
		c.Set(bodyKey, body)

		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			RawQuery:  c.Request.URL.RawQuery,
			Query:     c.Request.URL.Query(),
			Header:    c.Request.Header.Clone(),
			Body:      body,
			RequestID: id,
		})
		s.mu.Unlock()

		c.Next()
	}
}
