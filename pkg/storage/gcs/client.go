// Package gcs talks to Google Cloud Storage over the JSON API with plain
// net/http. Credentials come from an inline service-account key, a key file,
// or the GCE metadata server, in that order of preference.
package gcs

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmreyes-dev/partstream-backend/pkg/config"
	"github.com/dmreyes-dev/partstream-backend/pkg/logger"
)

const (
	oauthTokenURL    = "https://oauth2.googleapis.com/token"
	storageScope     = "https://www.googleapis.com/auth/devstorage.read_write"
	metadataTokenURL = "http://metadata.google.internal/computeMetadata/v1/instance/service-accounts/default/token"
	pingTimeout      = 5 * time.Second
)

// Client authenticates and issues storage API calls. Bucket handles borrow
// its HTTP client and token cache.
type Client struct {
	httpClient    *http.Client
	defaultBucket string
	tokens        *tokenCache
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// NewClient builds a storage client and verifies bucket access before
// returning it, so a bad key or bucket name fails at boot rather than on the
// first upload.
func NewClient(ctx context.Context, cfg config.GCSConfig, logg *logger.Logger) (*Client, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("gcs bucket name is required")
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}

	tokens, err := buildTokenCache(httpClient, cfg)
	if err != nil {
		return nil, err
	}

	client := &Client{
		httpClient:    httpClient,
		defaultBucket: cfg.BucketName,
		tokens:        tokens,
	}
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("gcs health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "bucket", cfg.BucketName), "gcs client initialized")
	}
	return client, nil
}

func buildTokenCache(httpClient *http.Client, cfg config.GCSConfig) (*tokenCache, error) {
	switch {
	case cfg.CredentialsJSON != "":
		return serviceAccountTokens(httpClient, cfg.CredentialsJSON)
	case cfg.ApplicationCredentials != "":
		raw, err := os.ReadFile(cfg.ApplicationCredentials)
		if err != nil {
			return nil, fmt.Errorf("reading credentials file: %w", err)
		}
		return serviceAccountTokens(httpClient, string(raw))
	default:
		return metadataTokens(httpClient), nil
	}
}

// BucketHandle returns a handle on the named bucket, or the default bucket
// when name is empty.
func (c *Client) BucketHandle(name string) *Bucket {
	if c == nil {
		return nil
	}
	if name == "" {
		name = c.defaultBucket
	}
	return &Bucket{name: name, client: c}
}

func (c *Client) DefaultBucket() string {
	if c == nil {
		return ""
	}
	return c.defaultBucket
}

func (c *Client) Close() error {
	return nil
}

// Ping lists at most one object in the default bucket, which exercises both
// the credentials and the bucket ACL.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.tokens == nil {
		return errors.New("gcs client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	token, err := c.tokens.get(ctx)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("https://storage.googleapis.com/storage/v1/b/%s/o?maxResults=1",
		url.PathEscape(c.defaultBucket))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gcs bucket check failed: %s", responseError(resp))
	}
	return nil
}

// responseError summarizes a failed API response, including a bounded slice
// of the body when one is present.
func responseError(resp *http.Response) string {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if len(detail) > 0 {
		return resp.Status + ": " + strings.TrimSpace(string(detail))
	}
	return resp.Status
}

// Bucket is a named handle; all object operations hang off it.
type Bucket struct {
	name   string
	client *Client
}

func (b *Bucket) Name() string {
	return b.name
}

// tokenCache serializes token fetches and reuses an access token until a
// minute before its expiry.
type tokenCache struct {
	mu     sync.Mutex
	token  string
	expiry time.Time
	fetch  func(context.Context) (string, time.Time, error)
}

func (t *tokenCache) get(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && time.Until(t.expiry) > time.Minute {
		return t.token, nil
	}

	token, expiry, err := t.fetch(ctx)
	if err != nil {
		return "", err
	}
	t.token = token
	t.expiry = expiry
	return token, nil
}

func serviceAccountTokens(httpClient *http.Client, rawJSON string) (*tokenCache, error) {
	var creds struct {
		ClientEmail string `json:"client_email"`
		PrivateKey  string `json:"private_key"`
		TokenURI    string `json:"token_uri"`
	}
	if err := json.Unmarshal([]byte(rawJSON), &creds); err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}
	if creds.ClientEmail == "" || creds.PrivateKey == "" {
		return nil, errors.New("invalid service account credentials")
	}
	if creds.TokenURI == "" {
		creds.TokenURI = oauthTokenURL
	}

	key, err := parsePrivateKey(creds.PrivateKey)
	if err != nil {
		return nil, err
	}

	return &tokenCache{
		fetch: func(ctx context.Context) (string, time.Time, error) {
			assertion, err := signedAssertion(creds.ClientEmail, creds.TokenURI, key)
			if err != nil {
				return "", time.Time{}, err
			}
			form := url.Values{
				"grant_type": {"urn:ietf:params:oauth:grant-type:jwt-bearer"},
				"assertion":  {assertion},
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, creds.TokenURI,
				strings.NewReader(form.Encode()))
			if err != nil {
				return "", time.Time{}, err
			}
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			return requestToken(httpClient, req)
		},
	}, nil
}

func metadataTokens(httpClient *http.Client) *tokenCache {
	return &tokenCache{
		fetch: func(ctx context.Context) (string, time.Time, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadataTokenURL, nil)
			if err != nil {
				return "", time.Time{}, err
			}
			req.Header.Set("Metadata-Flavor", "Google")
			return requestToken(httpClient, req)
		},
	}
}

func requestToken(httpClient *http.Client, req *http.Request) (string, time.Time, error) {
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", time.Time{}, fmt.Errorf("token request returned %s", resp.Status)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", time.Time{}, err
	}
	return payload.AccessToken, time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second), nil
}

// signedAssertion builds the RS256 JWT that the OAuth token endpoint swaps
// for an access token.
func signedAssertion(email, audience string, key *rsa.PrivateKey) (string, error) {
	now := time.Now()
	claims, err := json.Marshal(map[string]any{
		"iss":   email,
		"scope": storageScope,
		"aud":   audience,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	})
	if err != nil {
		return "", err
	}

	unsigned := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`)) +
		"." + base64.RawURLEncoding.EncodeToString(claims)

	digest := sha256.Sum256([]byte(unsigned))
	signature, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		return "", err
	}
	return unsigned + "." + base64.RawURLEncoding.EncodeToString(signature), nil
}

func parsePrivateKey(pemData string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, errors.New("invalid private key")
	}
	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		if rsaKey, ok := key.(*rsa.PrivateKey); ok {
			return rsaKey, nil
		}
	}
	rsaKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, errors.New("unsupported private key format")
	}
	return rsaKey, nil
}
