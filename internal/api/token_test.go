package api

import (
	"context"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/siops/insights-cli/internal/config"
)

func tokenServiceFor(t *testing.T, server *httptest.Server) *TokenService {
	t.Helper()
	endpoints := config.Endpoints{
		BaseURL:            server.URL,
		TokenPath:          "/restapi/v1/tenants/{tenant}/token",
		StorageSystemsPath: "/restapi/v1/tenants/{tenant}/storage-systems",
	}
	return NewTokenService(newTestClient(t), endpoints)
}

var testCreds = &config.Credentials{APIKey: "key-1", TenantID: "tenant-1"}

// TestObtainTokenSuccess verifies a well-formed response yields the
// token and expiration exactly, and that the request carries the
// x-api-key header to the tenant-scoped path.
func TestObtainTokenSuccess(t *testing.T) {
	var gotPath, gotKey, gotContentType string
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"result":{"token":"TOK-123","expiration":1700000000000}}`))
	}))
	defer server.Close()

	token, err := tokenServiceFor(t, server).ObtainToken(context.Background(), testCreds)
	if err != nil {
		t.Fatalf("ObtainToken() error = %v", err)
	}

	if token.Value != "TOK-123" {
		t.Errorf("token = %q, want TOK-123", token.Value)
	}
	if token.ExpirationMS != 1700000000000 {
		t.Errorf("expiration = %d, want 1700000000000", token.ExpirationMS)
	}
	if gotPath != "/restapi/v1/tenants/tenant-1/token" {
		t.Errorf("path = %q, want the tenant-scoped token path", gotPath)
	}
	if gotKey != "key-1" {
		t.Errorf("x-api-key = %q, want key-1", gotKey)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
}

// TestObtainTokenMalformedResponses verifies every shape violation
// fails with MalformedResponseError instead of defaulting.
func TestObtainTokenMalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing result", body: `{"status":"ok"}`},
		{name: "result not an object", body: `{"result":"TOK"}`},
		{name: "missing token", body: `{"result":{"expiration":1700000000000}}`},
		{name: "missing expiration", body: `{"result":{"token":"TOK"}}`},
		{name: "non-numeric expiration", body: `{"result":{"token":"TOK","expiration":"abc"}}`},
		{name: "expiration is object", body: `{"result":{"token":"TOK","expiration":{}}}`},
		{name: "token wrong type", body: `{"result":{"token":42,"expiration":1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := tokenServiceFor(t, server).ObtainToken(context.Background(), testCreds)

			var malformed *MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Fatalf("error = %v, want *MalformedResponseError", err)
			}
			if malformed.Context != "token" {
				t.Errorf("Context = %q, want token", malformed.Context)
			}
			if malformed.Raw != tt.body {
				t.Errorf("Raw = %q, want the response verbatim", malformed.Raw)
			}
		})
	}
}

// TestObtainTokenCoercesExpiration verifies integer-like expirations
// (numeric string, integral float) coerce instead of failing.
func TestObtainTokenCoercesExpiration(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int64
	}{
		{name: "numeric string", body: `{"result":{"token":"T","expiration":"1700000000000"}}`, want: 1700000000000},
		{name: "integral float", body: `{"result":{"token":"T","expiration":1.7e12}}`, want: 1700000000000},
		{name: "zero", body: `{"result":{"token":"T","expiration":0}}`, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			token, err := tokenServiceFor(t, server).ObtainToken(context.Background(), testCreds)
			if err != nil {
				t.Fatalf("ObtainToken() error = %v", err)
			}
			if token.ExpirationMS != tt.want {
				t.Errorf("expiration = %d, want %d", token.ExpirationMS, tt.want)
			}
		})
	}
}

// TestObtainTokenPropagatesStatusError verifies HTTP failures pass
// through as HTTPStatusError, not MalformedResponseError.
func TestObtainTokenPropagatesStatusError(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusUnauthorized)
		w.Write([]byte("bad key"))
	}))
	defer server.Close()

	_, err := tokenServiceFor(t, server).ObtainToken(context.Background(), testCreds)
	if !IsHTTPStatus(err, nethttp.StatusUnauthorized) {
		t.Errorf("error = %v, want an HTTPStatusError with status 401", err)
	}
}
