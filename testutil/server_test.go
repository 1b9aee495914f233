package testutil

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestServer_ReplyAndRecord(t *testing.T) {
	srv := NewServer(t)
	srv.Reply(http.MethodGet, "/hello", http.StatusOK, gin.H{"result": "Hello, World!"})

	resp, err := http.Get(srv.URL() + "/hello?name=World")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Hello, World!") {
		t.Errorf("unexpected response %d %s", resp.StatusCode, body)
	}
	if resp.Header.Get(HeaderRequestID) == "" {
		t.Error("expected request id header")
	}

	last, ok := srv.LastRequest()
	if !ok {
		t.Fatal("expected a recorded request")
	}
	if last.Method != http.MethodGet || last.Path != "/hello" || last.Query.Get("name") != "World" {
		t.Errorf("unexpected recorded request %+v", last)
	}

	srv.Reset()
	if len(srv.Requests()) != 0 {
		t.Error("expected no requests after reset")
	}
}

func TestServer_Fail(t *testing.T) {
	srv := NewServer(t)
	srv.Fail(http.MethodPost, "/users", http.StatusBadRequest, Envelope{
		ErrorCode: "ValidationError",
		Message:   "Name is required",
		Errors:    []FieldError{{ErrorCode: "NotEmpty", FieldName: "Name", Message: "required"}},
	})

	resp, err := http.Post(srv.URL()+"/users", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	for _, want := range []string{`"responseStatus"`, `"errorCode":"ValidationError"`, `"fieldName":"Name"`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("body %s missing %s", body, want)
		}
	}

	last, _ := srv.LastRequest()
	if string(last.Body) != `{}` {
		t.Errorf("expected recorded body {}, got %q", last.Body)
	}
}

func TestServer_Echo(t *testing.T) {
	srv := NewServer(t)
	srv.Echo(http.MethodPut, "/items")

	req, _ := http.NewRequest(http.MethodPut, srv.URL()+"/items?x=1", strings.NewReader(`{"id":7}`))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{`"method":"PUT"`, `"x":"1"`, `"id":7`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("body %s missing %s", body, want)
		}
	}
}

func TestEnvelope_BodyOmitsEmpty(t *testing.T) {
	rs := Envelope{Message: "boom"}.Body()["responseStatus"].(gin.H)
	if _, ok := rs["errorCode"]; ok {
		t.Error("empty error code should be omitted")
	}
	if rs["message"] != "boom" {
		t.Errorf("unexpected message %v", rs["message"])
	}
}
