// SPDX-License-Identifier: MPL-2.0

// Package nexus is a minimal client for the Nexus Repository Manager REST
// API: asset search with continuation-token pagination and asset download
// with retry. It backs the `repub fetch` command, which mirrors a groupId
// from a remote repository into the local tree that `repub publish` scans.
package nexus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// maxJSONResponseBytes bounds search API response reads (10 MB).
	maxJSONResponseBytes = 10 << 20

	// downloadRetries is the number of attempts per asset download.
	downloadRetries = 3

	// retryDelay spaces the download attempts.
	retryDelay = 2 * time.Second
)

// ErrNotFound is returned when the remote reports 404 for an asset; such
// assets are skipped rather than retried.
var ErrNotFound = errors.New("asset not found")

type (
	// Asset is one remote file, as reported by the search API.
	Asset struct {
		Path        string
		DownloadURL string
	}

	// searchResponse is the JSON wire format of the asset search endpoint.
	searchResponse struct {
		Items             []searchItem `json:"items"`
		ContinuationToken string       `json:"continuationToken"`
	}

	// searchItem is the JSON wire format of one search result.
	searchItem struct {
		Path        string `json:"path"`
		DownloadURL string `json:"downloadUrl"`
	}

	// Client talks to one Nexus instance.
	Client struct {
		httpClient *http.Client
		baseURL    string
		repository string
		username   string
		password   string
		userAgent  string
		sleep      func(time.Duration)
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// WithHTTPClient sets a custom HTTP client, useful for tests.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(n *Client) { n.httpClient = c }
}

// WithRepository sets the repository searched, e.g. "maven-releases".
func WithRepository(repo string) ClientOption {
	return func(n *Client) { n.repository = repo }
}

// WithBasicAuth sets the credentials sent with every request.
func WithBasicAuth(user, password string) ClientOption {
	return func(n *Client) {
		n.username = user
		n.password = password
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(n *Client) { n.userAgent = ua }
}

// withSleep replaces the inter-retry delay, for tests.
func withSleep(fn func(time.Duration)) ClientOption {
	return func(n *Client) { n.sleep = fn }
}

// NewClient creates a client for the Nexus instance at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		repository: "maven-releases",
		userAgent:  "repub/dev",
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchAssets lists every asset of the given extension under a groupId,
// following continuation tokens until the result set is exhausted. The
// group matches as a prefix, so com.example also returns com.example.sub;
// results are filtered to paths under the group's directory prefix.
func (c *Client) SearchAssets(ctx context.Context, groupID, extension string) ([]Asset, error) {
	pathPrefix := strings.ReplaceAll(groupID, ".", "/")

	var all []Asset
	token := ""
	for {
		page, next, err := c.searchPage(ctx, groupID, extension, token)
		if err != nil {
			return nil, err
		}
		for _, item := range page {
			itemPath := strings.TrimPrefix(item.Path, "/")
			if strings.HasPrefix(itemPath, pathPrefix+"/") || strings.HasPrefix(itemPath, pathPrefix) {
				all = append(all, Asset{Path: itemPath, DownloadURL: item.DownloadURL})
			}
		}
		if next == "" {
			return all, nil
		}
		token = next
	}
}

// searchPage fetches one page of search results.
func (c *Client) searchPage(ctx context.Context, groupID, extension, token string) ([]searchItem, string, error) {
	params := url.Values{}
	params.Set("repository", c.repository)
	params.Set("group", groupID+"*")
	params.Set("maven.extension", extension)
	if token != "" {
		params.Set("continuationToken", token)
	}
	searchURL := c.baseURL + "/service/rest/v1/search/assets?" + params.Encode()

	resp, err := c.doRequest(ctx, searchURL)
	if err != nil {
		return nil, "", fmt.Errorf("searching %s assets: %w", extension, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("searching %s assets: unexpected status %d", extension, resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONResponseBytes)).Decode(&sr); err != nil {
		return nil, "", fmt.Errorf("searching %s assets: decoding response: %w", extension, err)
	}
	return sr.Items, sr.ContinuationToken, nil
}

// Download fetches an asset into destPath, creating parent directories.
// Transient failures are retried up to downloadRetries times; a 404 returns
// ErrNotFound immediately since the asset will not appear on retry.
func (c *Client) Download(ctx context.Context, asset Asset, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(destPath), err)
	}

	var lastErr error
	for attempt := 0; attempt < downloadRetries; attempt++ {
		if attempt > 0 {
			c.sleep(retryDelay)
		}
		err := c.downloadOnce(ctx, asset.DownloadURL, destPath)
		if err == nil || errors.Is(err, ErrNotFound) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("downloading %s: %w", asset.Path, lastErr)
}

// downloadOnce performs a single download attempt, writing through a temp
// file so an interrupted transfer never leaves a partial artifact behind.
func (c *Client) downloadOnce(ctx context.Context, downloadURL, destPath string) error {
	resp, err := c.doRequest(ctx, downloadURL)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".repub-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), destPath)
}

// doRequest issues a GET with the client's auth and User-Agent headers.
func (c *Client) doRequest(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	return c.httpClient.Do(req)
}
