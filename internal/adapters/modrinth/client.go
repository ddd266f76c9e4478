// Package modrinth implements the catalog port against the Modrinth HTTP API.
package modrinth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.trai.ch/modsync/internal/build"
	"go.trai.ch/modsync/internal/core/domain"
	"go.trai.ch/modsync/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultBaseURL is the public Modrinth API.
	DefaultBaseURL = "https://api.modrinth.com"

	// EnvBaseURL overrides the API base URL.
	EnvBaseURL = "MODSYNC_API_URL"
	// EnvToken holds an optional API token sent with every API request.
	EnvToken = "MODSYNC_API_TOKEN"

	httpClientTimeout = 30 * time.Second
	// Bounds the whole download, body read included.
	downloadTimeout = 10 * time.Minute
)

var _ ports.Catalog = (*Client)(nil)

// Client implements ports.Catalog using the Modrinth v2 and v3 APIs.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	downloader *http.Client
	logger     ports.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API host.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithToken sets the Authorization header sent to the API.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the HTTP client used for API calls and downloads.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
		c.downloader = hc
	}
}

// NewClient creates a new catalog client.
func NewClient(logger ports.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		userAgent:  "modsync/" + build.Version,
		httpClient: &http.Client{Timeout: httpClientTimeout},
		downloader: &http.Client{Timeout: downloadTimeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Releases lists the releases of a project, newest first as published.
// Entries missing required fields are skipped with a warning.
func (c *Client) Releases(ctx context.Context, id domain.Identity) ([]domain.Release, error) {
	var raw []json.RawMessage
	path := "/v2/project/" + url.PathEscape(id.String()) + "/version"
	if err := c.getJSON(ctx, path, &raw); err != nil {
		return nil, zerr.With(err, "project", id.String())
	}

	releases := make([]domain.Release, 0, len(raw))
	for i, entry := range raw {
		r, err := decodeRelease(entry)
		if err != nil {
			c.logger.Warn(fmt.Sprintf("skipping release %d of %s: %v", i, id, err))
			continue
		}
		releases = append(releases, r)
	}
	return releases, nil
}

// CollectionMembers lists the project ids of a collection.
func (c *Client) CollectionMembers(ctx context.Context, collection string) ([]domain.Identity, error) {
	var dto collectionDTO
	if err := c.getJSON(ctx, "/v3/collection/"+url.PathEscape(collection), &dto); err != nil {
		return nil, zerr.With(err, "collection", collection)
	}
	if dto.Projects == nil {
		return nil, zerr.With(domain.ErrMalformedCatalogEntry, "collection", collection)
	}

	members := make([]domain.Identity, 0, len(*dto.Projects))
	for _, p := range *dto.Projects {
		if p != "" {
			members = append(members, domain.Identity(p))
		}
	}
	return members, nil
}

// NewestVersion returns the first stable game version listed by the catalog.
func (c *Client) NewestVersion(ctx context.Context) (string, error) {
	var tags []gameVersionDTO
	if err := c.getJSON(ctx, "/v2/tag/game_version", &tags); err != nil {
		return "", err
	}
	for _, t := range tags {
		if t.VersionType == versionTypeRelease && t.Version != "" {
			return t.Version, nil
		}
	}
	return "", zerr.Wrap(domain.ErrMalformedCatalogEntry, "no release game version listed")
}

// ProjectTitle returns the display title of a project.
func (c *Client) ProjectTitle(ctx context.Context, id domain.Identity) (string, error) {
	var dto projectDTO
	if err := c.getJSON(ctx, "/v2/project/"+url.PathEscape(id.String()), &dto); err != nil {
		return "", zerr.With(err, "project", id.String())
	}
	return dto.Title, nil
}

// FetchFile streams the body of rawURL into dest.
func (c *Client) FetchFile(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return zerr.Wrap(err, domain.ErrTransferFailed.Error())
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.downloader.Do(req)
	if err != nil {
		return zerr.Wrap(err, domain.ErrTransferFailed.Error())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return zerr.With(domain.ErrTransferFailed, "status_code", resp.StatusCode)
	}

	//nolint:gosec // Destination is built from the managed directory and a catalog filename
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.FilePerm)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create file"), "path", dest)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		return zerr.Wrap(err, domain.ErrTransferFailed.Error())
	}
	if err := f.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close file"), "path", dest)
	}
	return nil
}

// getJSON performs an API GET and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return zerr.Wrap(err, domain.ErrCatalogUnavailable.Error())
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zerr.Wrap(err, domain.ErrCatalogUnavailable.Error())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return zerr.With(domain.ErrProjectNotFound, "path", path)
	}
	if resp.StatusCode != http.StatusOK {
		apiErr := zerr.With(domain.ErrCatalogUnavailable, "status_code", resp.StatusCode)
		return zerr.With(apiErr, "path", path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zerr.Wrap(err, domain.ErrCatalogUnavailable.Error())
	}
	if err := json.Unmarshal(body, v); err != nil {
		return zerr.Wrap(err, domain.ErrCatalogParseFailed.Error())
	}
	return nil
}

// decodeRelease converts one raw version entry, rejecting entries that lack
// platforms, target versions or usable files.
func decodeRelease(raw json.RawMessage) (domain.Release, error) {
	var dto versionDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return domain.Release{}, zerr.Wrap(err, domain.ErrMalformedCatalogEntry.Error())
	}

	if dto.GameVersions == nil || dto.Loaders == nil || dto.Files == nil {
		return domain.Release{}, zerr.With(domain.ErrMalformedCatalogEntry, "release", dto.ID)
	}

	files := make([]domain.FileDescriptor, 0, len(*dto.Files))
	for _, f := range *dto.Files {
		fd := domain.FileDescriptor{
			URL:      f.URL,
			Filename: f.Filename,
			Primary:  f.Primary,
			SHA512:   f.Hashes.SHA512,
			Size:     f.Size,
		}
		if fd.Valid() {
			files = append(files, fd)
		}
	}

	r := domain.Release{
		ID:             dto.ID,
		Name:           dto.Name,
		VersionNumber:  dto.VersionNumber,
		Platforms:      *dto.Loaders,
		TargetVersions: *dto.GameVersions,
		Files:          files,
	}
	if !r.Valid() {
		return domain.Release{}, zerr.With(domain.ErrMalformedCatalogEntry, "release", dto.ID)
	}
	return r, nil
}
