package connection

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewHTTPClient_BaseURL(t *testing.T) {
	tests := []struct {
		server string
		want   string
	}{
		{"localhost:7600", "http://localhost:7600"},
		{"http://localhost:7600", "http://localhost:7600"},
		{"https://nav.example.com", "https://nav.example.com"},
	}

	for _, tt := range tests {
		client := NewHTTPClient(tt.server, "")
		if client.BaseURL() != tt.want {
			t.Errorf("BaseURL(%q) = %q, want %q", tt.server, client.BaseURL(), tt.want)
		}
	}
}

func TestHTTPClient_Headers(t *testing.T) {
	var gotAuth, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		json.NewEncoder(w).Encode(map[string]any{"code": "OK"})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "nkat_secret")
	resp, err := client.Get(context.Background(), "/state")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()

	if gotAuth != "Bearer nkat_secret" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if !strings.HasPrefix(gotAgent, "navkeep-cli/") {
		t.Errorf("User-Agent = %q", gotAgent)
	}
}

func TestHTTPClient_NoTokenNoAuthHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"code": "OK"})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "")
	resp, err := client.Get(context.Background(), "/health")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()

	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestHTTPClient_PostSendsJSON(t *testing.T) {
	var gotContentType string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{"code": "OK"})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "")
	resp, err := client.Post(context.Background(), "/events/route", map[string]string{"route": "settings"})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	resp.Body.Close()

	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotBody["route"] != "settings" {
		t.Errorf("body route = %q, want settings", gotBody["route"])
	}
}

func TestParseResponse_UnwrapsData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"code":    "OK",
			"message": "Success",
			"data":    map[string]any{"current_route": "profile"},
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "")
	resp, err := client.Get(context.Background(), "/state")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	var target struct {
		CurrentRoute string `json:"current_route"`
	}
	if err := ParseResponse(resp, &target); err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if target.CurrentRoute != "profile" {
		t.Errorf("current_route = %q, want profile", target.CurrentRoute)
	}
}

func TestParseResponse_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"code":    "NK-AUTH-4010",
			"message": "authorization required",
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "")
	resp, err := client.Get(context.Background(), "/admin/v1/export")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	err = ParseResponse(resp, nil)
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "NK-AUTH-4010") {
		t.Errorf("error = %v, want code NK-AUTH-4010", err)
	}
}

func TestParseResponse_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway"))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "")
	resp, err := client.Get(context.Background(), "/state")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	err = ParseResponse(resp, nil)
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Errorf("error = %v, want status 502 mention", err)
	}
}
