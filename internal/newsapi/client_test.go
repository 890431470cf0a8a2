package newsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/news-crud-lab/internal/config"
)

func testConfig(baseURL string) config.NewsConfig {
	return config.NewsConfig{
		BaseURL:        baseURL,
		APIKey:         "secret-key",
		Country:        "us",
		Limit:          5,
		Timeout:        2 * time.Second,
		RateLimitRPS:   100,
		RateLimitBurst: 10,
	}
}

func TestTopHeadlines_Success(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"country": r.URL.Query().Get("country"),
			"apiKey":  r.URL.Query().Get("apiKey"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","articles":[
			{"title":"One","description":"d1","author":"A"},
			{"title":"Two","content":"c2","urlToImage":"http://img/2"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL + "/v2/top-headlines"))
	articles, err := client.TopHeadlines(context.Background())
	if err != nil {
		t.Fatalf("TopHeadlines failed: %v", err)
	}

	if len(articles) != 2 {
		t.Fatalf("Expected 2 articles, got %d", len(articles))
	}
	if *articles[0].Title != "One" || *articles[0].Description != "d1" {
		t.Errorf("Unexpected first article: %+v", articles[0])
	}
	if articles[1].Description != nil {
		t.Errorf("Expected nil description for second article")
	}
	if gotQuery["country"] != "us" {
		t.Errorf("Expected country=us, got %q", gotQuery["country"])
	}
	if gotQuery["apiKey"] != "secret-key" {
		t.Errorf("Expected apiKey to be forwarded, got %q", gotQuery["apiKey"])
	}
}

func TestTopHeadlines_KeepsExistingQuery(t *testing.T) {
	var rawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.Write([]byte(`{"articles":[]}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL + "/v2/top-headlines?pageSize=20"))
	if _, err := client.TopHeadlines(context.Background()); err != nil {
		t.Fatalf("TopHeadlines failed: %v", err)
	}
	if got := rawQuery; got == "" || !strings.Contains(got, "pageSize=20") || !strings.Contains(got, "country=us") {
		t.Errorf("Expected merged query, got %q", got)
	}
}

func TestTopHeadlines_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantErr    error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"status":"error"}`, wantStatus: 401},
		{name: "server error", status: http.StatusInternalServerError, body: ``, wantStatus: 500},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantErr: ErrMalformedResponse},
		{name: "missing articles", status: http.StatusOK, body: `{"status":"ok"}`, wantErr: ErrMalformedResponse},
		{name: "null articles", status: http.StatusOK, body: `{"articles":null}`, wantErr: ErrMalformedResponse},
		{name: "articles not a list", status: http.StatusOK, body: `{"articles":"nope"}`, wantErr: ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(testConfig(server.URL))
			articles, err := client.TopHeadlines(context.Background())
			if err == nil {
				t.Fatalf("Expected error, got %d articles", len(articles))
			}

			if tt.wantStatus != 0 {
				var statusErr *StatusError
				if !errors.As(err, &statusErr) {
					t.Fatalf("Expected StatusError, got %v", err)
				}
				if statusErr.StatusCode != tt.wantStatus {
					t.Errorf("Expected status %d, got %d", tt.wantStatus, statusErr.StatusCode)
				}
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTopHeadlines_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(testConfig(url))
	if _, err := client.TopHeadlines(context.Background()); err == nil {
		t.Fatal("Expected transport error for closed server")
	}
}

func TestTopHeadlines_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"articles":[]}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(testConfig(server.URL))
	if _, err := client.TopHeadlines(ctx); err == nil {
		t.Fatal("Expected error for canceled context")
	}
}

func TestTopHeadlines_HTTPClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
		w.Write([]byte(`{"articles":[]}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL)).WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond})
	if _, err := client.TopHeadlines(context.Background()); err == nil {
		t.Fatal("Expected timeout error from slow server")
	}
}
