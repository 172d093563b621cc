package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const uploadEndpoint = "https://storage.googleapis.com/upload/storage/v1/b/%s/o?uploadType=media&name=%s"

// Upload writes the object via the JSON API media endpoint and returns its
// public URL. The caller owns size and content-type enforcement.
func (b *Bucket) Upload(ctx context.Context, objectName, contentType string, body io.Reader) (string, error) {
	if b == nil || b.client == nil {
		return "", errors.New("gcs bucket not initialized")
	}
	if strings.TrimSpace(objectName) == "" {
		return "", errors.New("object name is required")
	}

	token, err := b.client.tokens.get(ctx)
	if err != nil {
		return "", err
	}

	u := fmt.Sprintf(uploadEndpoint, url.PathEscape(b.name), url.QueryEscape(objectName))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := b.client.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if len(detail) > 0 {
			return "", fmt.Errorf("gcs upload failed: %s: %s", resp.Status, strings.TrimSpace(string(detail)))
		}
		return "", fmt.Errorf("gcs upload failed: %s", resp.Status)
	}

	return b.ObjectURL(objectName), nil
}

// Delete removes the object. A 404 is treated as success so retries stay
// idempotent.
func (b *Bucket) Delete(ctx context.Context, objectName string) error {
	if b == nil || b.client == nil {
		return errors.New("gcs bucket not initialized")
	}
	if strings.TrimSpace(objectName) == "" {
		return errors.New("object name is required")
	}

	token, err := b.client.tokens.get(ctx)
	if err != nil {
		return err
	}

	u := fmt.Sprintf(
		"https://storage.googleapis.com/storage/v1/b/%s/o/%s",
		url.PathEscape(b.name),
		url.PathEscape(objectName),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := b.client.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("gcs delete failed: %s", resp.Status)
	}
	return nil
}

// ObjectURL returns the canonical public URL for an object in this bucket.
func (b *Bucket) ObjectURL(objectName string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.name, objectName)
}
