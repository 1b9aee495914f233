package httpclient

import (
	"testing"
	"time"

	"github.com/kbukum/jsonrest/resilience"
	"github.com/kbukum/jsonrest/validation"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{Retry: &resilience.RetryConfig{MaxAttempts: 2}}
	cfg.ApplyDefaults()
	if cfg.ConnectTimeout != 60*time.Second {
		t.Errorf("expected 60s connect timeout, got %v", cfg.ConnectTimeout)
	}
	if cfg.MaxIdleConnsPerHost != 10 {
		t.Errorf("expected 10 idle conns, got %d", cfg.MaxIdleConnsPerHost)
	}
	if cfg.Retry.RetryIf == nil {
		t.Error("expected transport retry predicate")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		field   string
		wantErr bool
	}{
		{"defaults", Config{}, "", false},
		{"cert without key", Config{TLS: &TLSConfig{CertFile: "client.crt"}}, "tls.key_file", true},
		{"jitter out of range", Config{Retry: &resilience.RetryConfig{Jitter: 2}}, "retry.jitter", true},
		{"negative timeout", Config{ConnectTimeout: -time.Second}, "connect_timeout", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			fields := validation.FieldErrors(err)
			if len(fields) != 1 || fields[0].Field != tt.field {
				t.Errorf("expected field %q, got %+v", tt.field, fields)
			}
		})
	}
}

func TestTLSConfig_Build(t *testing.T) {
	var nilCfg *TLSConfig
	if c, err := nilCfg.Build(); c != nil || err != nil {
		t.Errorf("nil config should build to nil, got %v, %v", c, err)
	}

	c, err := (&TLSConfig{ServerName: "api.internal"}).Build()
	if err != nil {
		t.Fatal(err)
	}
	if c.ServerName != "api.internal" || c.MinVersion == 0 {
		t.Errorf("unexpected tls config %+v", c)
	}

	if _, err := (&TLSConfig{CAFile: "/does/not/exist.pem"}).Build(); err == nil {
		t.Error("expected error for missing CA file")
	}
}

func TestResponse_StatusText(t *testing.T) {
	tests := []struct {
		resp Response
		want string
	}{
		{Response{StatusCode: 400, Status: "400 Bad Request"}, "Bad Request"},
		{Response{StatusCode: 400, Status: "400 Name Missing"}, "Name Missing"},
		{Response{StatusCode: 404, Status: ""}, "Not Found"},
		{Response{StatusCode: 500, Status: "500"}, "Internal Server Error"},
	}
	for _, tt := range tests {
		if got := tt.resp.StatusText(); got != tt.want {
			t.Errorf("StatusText(%q) = %q, want %q", tt.resp.Status, got, tt.want)
		}
	}
}
