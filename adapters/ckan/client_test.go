package ckan

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"comparador/domain/catalog"
	"comparador/domain/table"
	"comparador/internal"
	"comparador/internal/config"
	"comparador/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.CatalogConfig{
		BaseURL:         srv.URL,
		MetadataTimeout: 5 * time.Second,
		DownloadTimeout: 5 * time.Second,
		SearchRowsCap:   1000,
		MaxDownloadMB:   200,
	}
	return NewClient(cfg, internal.NewLogger(internal.LogLevelError)), srv
}

func TestOrganizations(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/3/action/organization_list", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": true, "result": ["conagua", "inegi", "salud"]}`)
	})
	client, _ := testClient(t, mux)

	orgs, err := client.Organizations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"conagua", "inegi", "salud"}, orgs)
}

func TestOrganizationsTransportFailure(t *testing.T) {
	client, srv := testClient(t, http.NewServeMux())
	srv.Close()

	orgs, err := client.Organizations(context.Background())
	assert.Error(t, err)
	assert.Equal(t, errors.CodeCatalogUnavailable, errors.GetCode(err))
	assert.Empty(t, orgs)
}

func TestOrganizationsMalformedPayload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/3/action/organization_list", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>not json</html>`)
	})
	client, _ := testClient(t, mux)

	_, err := client.Organizations(context.Background())
	assert.Error(t, err)
}

func TestDatasetsSendsOrgFilterAndCap(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/3/action/package_search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "organization:inegi", r.URL.Query().Get("fq"))
		assert.Equal(t, "1000", r.URL.Query().Get("rows"))
		fmt.Fprint(w, `{"result": {"packages": [
			{"id": "d1", "name": "censo", "title": "Censo 2020"},
			{"id": "d2", "name": "enoe", "title": ""}
		]}}`)
	})
	client, _ := testClient(t, mux)

	datasets, err := client.Datasets(context.Background(), "inegi")
	require.NoError(t, err)
	require.Len(t, datasets, 2)
	assert.Equal(t, "Censo 2020", datasets[0].DisplayTitle())
	assert.Equal(t, "enoe", datasets[1].DisplayTitle())
}

func TestDatasetsRequiresOrg(t *testing.T) {
	client, _ := testClient(t, http.NewServeMux())
	_, err := client.Datasets(context.Background(), "")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestResources(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/3/action/package_show", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "d1", r.URL.Query().Get("id"))
		fmt.Fprint(w, `{"result": {"resources": [
			{"id": "r1", "name": "datos 2020", "format": "CSV", "size": 1048576, "url": "https://files.example/d.csv"},
			{"id": "r2", "name": "", "format": "XLSX", "size": null, "url": ""}
		]}}`)
	})
	client, _ := testClient(t, mux)

	resources, err := client.Resources(context.Background(), "d1")
	require.NoError(t, err)
	require.Len(t, resources, 2)
	assert.Equal(t, "1.00 MB", resources[0].HumanSize())
	assert.Equal(t, catalog.SizeUnknownLabel, resources[1].HumanSize())
	assert.Equal(t, "Recurso sin nombre", resources[1].DisplayName())
}

func TestResourceSizePrefersCatalogValue(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/3/action/resource_show", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result": {"id": "r1", "size": 2048, "url": "https://files.example/x.csv"}}`)
	})
	client, _ := testClient(t, mux)

	size, err := client.ResourceSize(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, int64(2048), size)
}

func TestResourceSizeFallsBackToHead(t *testing.T) {
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/api/3/action/resource_show", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"result": {"id": "r1", "size": null, "url": "%s/files/x.csv"}}`, srv.URL)
	})
	mux.HandleFunc("/files/x.csv", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.Header().Set("Content-Length", "4096")
	})
	client, s := testClient(t, mux)
	srv = s

	size, err := client.ResourceSize(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, int64(4096), size)
}

func TestResourceSizeUnknownIsNotAnError(t *testing.T) {
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/api/3/action/resource_show", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"result": {"id": "r1", "size": null, "url": "%s/files/x.csv"}}`, srv.URL)
	})
	mux.HandleFunc("/files/x.csv", func(w http.ResponseWriter, r *http.Request) {
		// No Content-Length on purpose: chunked HEAD response.
		w.WriteHeader(http.StatusOK)
	})
	client, s := testClient(t, mux)
	srv = s

	size, err := client.ResourceSize(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), size)
	assert.Equal(t, catalog.SizeUnknownLabel, catalog.HumanSize(size))
}

func TestDownloadParsesCSV(t *testing.T) {
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/api/3/action/resource_show", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"result": {"id": "r1", "name": "casos", "format": "CSV", "size": 64, "url": "%s/files/casos.csv"}}`, srv.URL)
	})
	mux.HandleFunc("/files/casos.csv", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "estado,casos\nYucatán,10\nOaxaca,20\n")
	})
	client, s := testClient(t, mux)
	srv = s

	tab, err := client.Download(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "casos.csv", tab.Source)
	assert.Equal(t, 2, tab.NumRows())

	casos, ok := tab.Column("casos")
	require.True(t, ok)
	assert.Equal(t, table.KindNumeric, casos.Kind)
}

func TestDownloadRefusesOversizedResource(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/3/action/resource_show", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result": {"id": "r1", "name": "gigante", "format": "CSV", "size": 524288000, "url": "https://files.example/gigante.csv"}}`)
	})
	client, _ := testClient(t, mux)

	_, err := client.Download(context.Background(), "r1")
	require.Error(t, err)
	assert.Equal(t, errors.CodeResourceTooLarge, errors.GetCode(err))
	assert.Contains(t, err.Error(), "https://files.example/gigante.csv")
}

func TestDownloadNameFallsBackToFormat(t *testing.T) {
	res := catalog.Resource{ID: "abc", Format: "XLSX", URL: "https://files.example/download"}
	assert.Equal(t, "recurso_abc.xlsx", downloadName(res))

	res = catalog.Resource{ID: "abc", URL: "https://files.example/datos.csv"}
	assert.Equal(t, "datos.csv", downloadName(res))
}
