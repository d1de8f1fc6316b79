// Package ckan implements the catalog port against a CKAN v3 action API,
// the protocol behind datos.gob.mx and most national open-data portals.
package ckan

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"comparador/domain/catalog"
	"comparador/domain/table"
	"comparador/internal"
	"comparador/internal/config"
	"comparador/internal/errors"
	"comparador/internal/loader"

	"github.com/tidwall/gjson"
)

// Client talks to one CKAN instance. Metadata calls and bulk downloads get
// separate http clients because their timeouts differ by an order of
// magnitude (10s vs 60s by default).
type Client struct {
	baseURL       string
	rowsCap       int
	maxDownloadMB float64
	meta          *http.Client
	bulk          *http.Client
	log           *internal.Logger
}

// NewClient creates a catalog client from configuration
func NewClient(cfg config.CatalogConfig, log *internal.Logger) *Client {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		rowsCap:       cfg.SearchRowsCap,
		maxDownloadMB: cfg.MaxDownloadMB,
		meta:          &http.Client{Timeout: cfg.MetadataTimeout},
		bulk:          &http.Client{Timeout: cfg.DownloadTimeout},
		log:           log,
	}
}

// Organizations lists the active institutions publishing in the catalog
func (c *Client) Organizations(ctx context.Context) ([]string, error) {
	body, err := c.getJSON(ctx, c.actionURL("organization_list", nil))
	if err != nil {
		return nil, errors.CatalogUnavailable("organization_list", err)
	}

	var orgs []string
	for _, item := range gjson.GetBytes(body, "result").Array() {
		if s := item.String(); s != "" {
			orgs = append(orgs, s)
		}
	}
	return orgs, nil
}

// Datasets lists the packages published by one institution, up to the
// configured rows cap. CKAN paginates beyond it; this client does not.
func (c *Client) Datasets(ctx context.Context, orgID string) ([]catalog.Dataset, error) {
	if orgID == "" {
		return nil, errors.InvalidInput("organization id is required")
	}
	q := url.Values{
		"fq":   {"organization:" + orgID},
		"rows": {strconv.Itoa(c.rowsCap)},
	}
	body, err := c.getJSON(ctx, c.actionURL("package_search", q))
	if err != nil {
		return nil, errors.CatalogUnavailable("package_search", err)
	}

	var datasets []catalog.Dataset
	for _, pkg := range gjson.GetBytes(body, "result.packages").Array() {
		datasets = append(datasets, catalog.Dataset{
			ID:    pkg.Get("id").String(),
			Name:  pkg.Get("name").String(),
			Title: pkg.Get("title").String(),
		})
	}
	return datasets, nil
}

// Resources lists the downloadable files of one dataset
func (c *Client) Resources(ctx context.Context, datasetID string) ([]catalog.Resource, error) {
	if datasetID == "" {
		return nil, errors.InvalidInput("dataset id is required")
	}
	q := url.Values{"id": {datasetID}}
	body, err := c.getJSON(ctx, c.actionURL("package_show", q))
	if err != nil {
		return nil, errors.CatalogUnavailable("package_show", err)
	}

	var resources []catalog.Resource
	for _, res := range gjson.GetBytes(body, "result.resources").Array() {
		resources = append(resources, catalog.Resource{
			ID:     res.Get("id").String(),
			Name:   res.Get("name").String(),
			Format: res.Get("format").String(),
			Size:   res.Get("size").Int(),
			URL:    res.Get("url").String(),
		})
	}
	return resources, nil
}

// ResourceSize resolves a resource's byte size: the catalog-reported value
// when present, otherwise the Content-Length of a HEAD request against the
// backing file. 0 means unknown, which is not an error.
func (c *Client) ResourceSize(ctx context.Context, resourceID string) (int64, error) {
	res, err := c.showResource(ctx, resourceID)
	if err != nil {
		return 0, err
	}
	if res.Size > 0 {
		return res.Size, nil
	}
	if res.URL == "" {
		return 0, nil
	}
	return c.headContentLength(ctx, res.URL), nil
}

// Download fetches a resource's backing file and parses it into a table.
// Resources over the configured size limit are refused with a coded error
// carrying the external URL, so the UI can offer a link instead.
func (c *Client) Download(ctx context.Context, resourceID string) (*table.Table, error) {
	res, err := c.showResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if res.URL == "" {
		return nil, errors.NotFound("resource download URL")
	}
	if res.Size == 0 {
		res.Size = c.headContentLength(ctx, res.URL)
	}
	if res.TooLargeToLoad(c.maxDownloadMB) {
		return nil, errors.ResourceTooLarge(res.DisplayName(), res.SizeMB(), res.URL)
	}

	c.log.Info("downloading resource %s from %s", resourceID, res.URL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, res.URL, nil)
	if err != nil {
		return nil, errors.CatalogUnavailable("resource download", err)
	}
	resp, err := c.bulk.Do(req)
	if err != nil {
		return nil, errors.CatalogUnavailable("resource download", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.CatalogUnavailable("resource download",
			fmt.Errorf("status %d from %s", resp.StatusCode, res.URL))
	}

	return loader.Read(downloadName(res), resp.Body)
}

// showResource fetches one resource's metadata
func (c *Client) showResource(ctx context.Context, resourceID string) (catalog.Resource, error) {
	if resourceID == "" {
		return catalog.Resource{}, errors.InvalidInput("resource id is required")
	}
	q := url.Values{"id": {resourceID}}
	body, err := c.getJSON(ctx, c.actionURL("resource_show", q))
	if err != nil {
		return catalog.Resource{}, errors.CatalogUnavailable("resource_show", err)
	}

	result := gjson.GetBytes(body, "result")
	if !result.Exists() {
		return catalog.Resource{}, errors.MalformedResponse("resource_show")
	}
	return catalog.Resource{
		ID:     result.Get("id").String(),
		Name:   result.Get("name").String(),
		Format: result.Get("format").String(),
		Size:   result.Get("size").Int(),
		URL:    result.Get("url").String(),
	}, nil
}

// headContentLength returns the Content-Length of the URL, 0 when the
// request fails or the header is absent. Redirects are followed.
func (c *Client) headContentLength(ctx context.Context, rawURL string) int64 {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return 0
	}
	resp, err := c.meta.Do(req)
	if err != nil {
		c.log.Debug("HEAD %s failed: %v", rawURL, err)
		return 0
	}
	defer resp.Body.Close()

	if n, err := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64); err == nil && n > 0 {
		return n
	}
	return 0
}

func (c *Client) actionURL(action string, q url.Values) string {
	u := fmt.Sprintf("%s/api/3/action/%s", c.baseURL, action)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) getJSON(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.meta.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d from %s", resp.StatusCode, u)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON from %s", u)
	}
	return body, nil
}

// downloadName picks a file name for the loader so format dispatch works:
// the URL's base name when it has an extension, otherwise one derived from
// the catalog's format tag.
func downloadName(res catalog.Resource) string {
	if u, err := url.Parse(res.URL); err == nil {
		base := path.Base(u.Path)
		if base != "" && base != "." && base != "/" && path.Ext(base) != "" {
			return base
		}
	}
	format := strings.ToLower(strings.TrimSpace(res.Format))
	if format == "" {
		format = "csv"
	}
	return fmt.Sprintf("recurso_%s.%s", res.ID, format)
}
