package gcs

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func testClient(transport roundTripFunc) *Client {
	return &Client{
		defaultBucket: "bucket",
		tokens: &tokenCache{fetch: func(context.Context) (string, time.Time, error) {
			return "token", time.Now().Add(time.Hour), nil
		}},
		httpClient: &http.Client{Transport: transport},
	}
}

func TestUploadSuccess(t *testing.T) {
	t.Parallel()

	client := testClient(func(req *http.Request) *http.Response {
		if req.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", req.Method)
		}
		if req.Header.Get("Authorization") != "Bearer token" {
			t.Fatalf("unexpected auth %s", req.Header.Get("Authorization"))
		}
		if req.Header.Get("Content-Type") != "image/png" {
			t.Fatalf("unexpected content type %s", req.Header.Get("Content-Type"))
		}
		if !strings.Contains(req.URL.String(), "uploadType=media") {
			t.Fatalf("unexpected upload url %s", req.URL)
		}
		body, _ := io.ReadAll(req.Body)
		if string(body) != "png-bytes" {
			t.Fatalf("unexpected body %q", body)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"name":"products/p1.png"}`)),
			Header:     http.Header{},
		}
	})

	publicURL, err := client.BucketHandle("").Upload(context.Background(), "products/p1.png", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if publicURL != "https://storage.googleapis.com/bucket/products/p1.png" {
		t.Fatalf("unexpected public url %s", publicURL)
	}
}

func TestUploadFailureIncludesBody(t *testing.T) {
	t.Parallel()

	client := testClient(func(req *http.Request) *http.Response {
		return &http.Response{
			StatusCode: http.StatusForbidden,
			Status:     "403 Forbidden",
			Body:       io.NopCloser(strings.NewReader("insufficient permissions")),
			Header:     http.Header{},
		}
	})

	_, err := client.BucketHandle("").Upload(context.Background(), "products/p1.png", "image/png", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "insufficient permissions") {
		t.Fatalf("error missing response detail: %v", err)
	}
}

func TestUploadRequiresObjectName(t *testing.T) {
	t.Parallel()

	client := testClient(func(*http.Request) *http.Response {
		t.Fatal("no request expected")
		return nil
	})
	if _, err := client.BucketHandle("").Upload(context.Background(), "  ", "image/png", strings.NewReader("x")); err == nil {
		t.Fatal("expected error for empty object name")
	}
}

func TestDeleteTreatsNotFoundAsSuccess(t *testing.T) {
	t.Parallel()

	client := testClient(func(req *http.Request) *http.Response {
		if req.Method != http.MethodDelete {
			t.Fatalf("expected DELETE, got %s", req.Method)
		}
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader("")),
			Header:     http.Header{},
		}
	})

	if err := client.BucketHandle("").Delete(context.Background(), "products/gone.png"); err != nil {
		t.Fatalf("Delete not found should succeed: %v", err)
	}
}

func TestTokenCacheReusesUntilExpiry(t *testing.T) {
	t.Parallel()

	fetches := 0
	cache := &tokenCache{fetch: func(context.Context) (string, time.Time, error) {
		fetches++
		return "token", time.Now().Add(time.Hour), nil
	}}

	for i := 0; i < 3; i++ {
		if _, err := cache.get(context.Background()); err != nil {
			t.Fatalf("get: %v", err)
		}
	}
	if fetches != 1 {
		t.Fatalf("expected one fetch, got %d", fetches)
	}
}
