package rest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestInspectToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	iat := exp.Add(-2 * time.Hour)
	token := signToken(t, jwt.MapClaims{
		"sub": "ann",
		"iss": "https://auth.example.com",
		"aud": "jsonrest",
		"iat": iat.Unix(),
		"exp": exp.Unix(),
	})

	for _, raw := range []string{token, "Bearer " + token} {
		info, err := InspectToken(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if info.Subject != "ann" || info.Issuer != "https://auth.example.com" {
			t.Errorf("unexpected claims %+v", info)
		}
		if len(info.Audience) != 1 || info.Audience[0] != "jsonrest" {
			t.Errorf("unexpected audience %v", info.Audience)
		}
		if !info.ExpiresAt.Equal(exp) || !info.IssuedAt.Equal(iat) {
			t.Errorf("unexpected times iat=%v exp=%v", info.IssuedAt, info.ExpiresAt)
		}
		if info.Expired(time.Now()) {
			t.Error("token should not be expired yet")
		}
		if !info.Expired(exp.Add(time.Minute)) {
			t.Error("token should be expired after exp")
		}
	}
}

func TestInspectToken_Opaque(t *testing.T) {
	if _, err := InspectToken("not-a-jwt"); err == nil {
		t.Error("expected error for opaque token")
	}
	if _, ok := TokenExpiry("not-a-jwt"); ok {
		t.Error("opaque tokens have no expiry")
	}
}

func TestTokenExpiry(t *testing.T) {
	noExp := signToken(t, jwt.MapClaims{"sub": "ann"})
	if _, ok := TokenExpiry(noExp); ok {
		t.Error("token without exp should report no expiry")
	}
	info, err := InspectToken(noExp)
	if err != nil {
		t.Fatal(err)
	}
	if info.Expired(time.Now()) {
		t.Error("token without exp never expires")
	}

	exp := time.Now().Add(-time.Minute).Truncate(time.Second)
	got, ok := TokenExpiry(signToken(t, jwt.MapClaims{"exp": exp.Unix()}))
	if !ok || !got.Equal(exp) {
		t.Errorf("unexpected expiry %v, %v", got, ok)
	}
}
