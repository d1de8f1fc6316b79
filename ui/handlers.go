package ui

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"

	"comparador/domain/table"
	"comparador/internal/loader"
	"comparador/internal/render"
	"comparador/internal/summary"
)

// handleIndex renders the whole flow on one page: local upload, catalog
// browsing for the selected institution, and the comparison once both
// datasets are present. Catalog fetches happen lazily and their failures
// degrade to a warning plus an empty list.
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := &pageData{MaxMB: a.cfg.Catalog.MaxDownloadMB}
	data.Notice, data.Warning = a.session.TakeMessages()

	local := a.session.Local()
	remote := a.session.Remote()
	data.HasLocal = local != nil
	data.HasRemote = remote != nil

	// Step 2 only opens after a local file is loaded, like the original flow.
	if data.HasLocal {
		a.loadCatalogState(r, data)
	}

	data.Local = newPaneView("Local", "local", local)
	data.Remote = newPaneView("PNDA", "pnda", remote)

	a.renderTemplate(w, "index.html", data)
}

// loadCatalogState fills the institution, dataset and resource lists from
// the session caches, fetching whatever the query selects and is not cached.
func (a *App) loadCatalogState(r *http.Request, data *pageData) {
	ctx := r.Context()

	if insts := a.session.Institutions(); len(insts) > 0 {
		data.Institutions = insts
	} else {
		orgs, err := a.catalog.Organizations(ctx)
		if err != nil {
			a.log.Warn("no se pudieron obtener instituciones: %v", err)
			data.Warning = fmt.Sprintf("No se pudieron obtener instituciones: %v", err)
		}
		a.session.SetInstitutions(orgs)
		data.Institutions = orgs
	}

	org := r.URL.Query().Get("org")
	if org == "" {
		return
	}
	data.SelectedOrg = org

	cachedOrg, datasets := a.session.Datasets()
	if cachedOrg != org {
		var err error
		datasets, err = a.catalog.Datasets(ctx, org)
		if err != nil {
			a.log.Warn("no se pudieron obtener datasets de %s: %v", org, err)
			data.Warning = fmt.Sprintf("No se pudieron obtener datasets: %v", err)
		}
		a.session.SetDatasets(org, datasets)
	}

	expanded := r.URL.Query().Get("dataset")
	for _, ds := range datasets {
		view := datasetView{
			ID:       ds.ID,
			Slug:     loader.Identifier(ds.DisplayTitle()),
			Title:    ds.DisplayTitle(),
			Expanded: ds.ID == expanded,
		}
		if view.Expanded {
			resources, ok := a.session.Resources(ds.ID)
			if !ok {
				var err error
				resources, err = a.catalog.Resources(ctx, ds.ID)
				if err != nil {
					a.log.Warn("no se pudieron obtener recursos de %s: %v", ds.ID, err)
					data.Warning = fmt.Sprintf("No se pudieron obtener recursos: %v", err)
				}
				a.session.SetResources(ds.ID, resources)
			}
			for _, res := range resources {
				view.Resources = append(view.Resources, newResourceView(res, a.cfg.Catalog.MaxDownloadMB))
			}
			view.NoFiles = len(view.Resources) == 0
		}
		data.Datasets = append(data.Datasets, view)
	}
}

// handleLocalUpload parses the uploaded file into the session's local slot
func (a *App) handleLocalUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := a.cfg.Loader.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		a.session.SetWarning(fmt.Sprintf("No se pudo leer el archivo: %v", err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	file, header, err := r.FormFile("archivo")
	if err != nil {
		a.session.SetWarning("No se seleccionó ningún archivo.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	defer file.Close()

	tab, err := loader.Read(header.Filename, file)
	if err != nil {
		a.log.Warn("local file %s rejected: %v", header.Filename, err)
		a.session.SetWarning(fmt.Sprintf("No se pudo leer el archivo: %v", err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	a.session.SetLocal(tab)
	a.session.SetNotice("Archivo local cargado correctamente.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLoadResource downloads one catalog resource into the remote slot
func (a *App) handleLoadResource(w http.ResponseWriter, r *http.Request) {
	resourceID := chi.URLParam(r, "id")

	back := "/"
	if q := backQuery(r); q != "" {
		back = "/?" + q
	}

	tab, err := a.catalog.Download(r.Context(), resourceID)
	if err != nil {
		a.log.Warn("resource %s failed to load: %v", resourceID, err)
		a.session.SetWarning(fmt.Sprintf("Error al descargar o leer el recurso: %v", err))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	a.session.SetRemote(tab)
	a.session.SetNotice(fmt.Sprintf("Recurso '%s' cargado correctamente.", tab.Source))
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// backQuery preserves the browsing position across the load redirect
func backQuery(r *http.Request) string {
	q := url.Values{}
	if org := r.FormValue("org"); org != "" {
		q.Set("org", org)
	}
	if ds := r.FormValue("dataset"); ds != "" {
		q.Set("dataset", ds)
	}
	return q.Encode()
}

// handleExport writes the plain-text report for whatever is loaded
func (a *App) handleExport(w http.ResponseWriter, r *http.Request) {
	local, remote := a.session.Local(), a.session.Remote()
	if local == nil && remote == nil {
		http.Error(w, "No hay datos cargados.", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if remote != nil {
		fmt.Fprintln(w, render.ComparisonText("PNDA", remote, summary.Aggregate(remote), summary.Classify(remote)))
	}
	if local != nil {
		fmt.Fprintln(w, render.ComparisonText("Local", local, summary.Aggregate(local), summary.Classify(local)))
	}
}

// handleCategoryChart serves a bar chart of a text column's top values
func (a *App) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	tab, col, ok := a.chartTarget(w, r)
	if !ok {
		return
	}
	if err := render.CategoryChart(w, tab, col, 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

// handleHistogramChart serves a histogram of a numeric column
func (a *App) handleHistogramChart(w http.ResponseWriter, r *http.Request) {
	tab, col, ok := a.chartTarget(w, r)
	if !ok {
		return
	}
	if err := render.HistogramChart(w, tab, col); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

// chartTarget resolves the fuente/col query into one of the loaded tables
func (a *App) chartTarget(w http.ResponseWriter, r *http.Request) (*table.Table, string, bool) {
	col := r.URL.Query().Get("col")

	var tab *table.Table
	switch r.URL.Query().Get("fuente") {
	case "local":
		tab = a.session.Local()
	case "pnda":
		tab = a.session.Remote()
	}
	if tab == nil || col == "" {
		http.Error(w, "No hay datos cargados.", http.StatusNotFound)
		return nil, "", false
	}
	return tab, col, true
}

// handleHelp renders the embedded markdown help page
func (a *App) handleHelp(w http.ResponseWriter, r *http.Request) {
	src, err := embeddedFiles.ReadFile("help/ayuda.md")
	if err != nil {
		http.Error(w, "ayuda no disponible", http.StatusInternalServerError)
		return
	}
	body := template.HTML(markdown.ToHTML(src, nil, nil))
	a.renderTemplate(w, "ayuda.html", map[string]interface{}{"Body": body})
}
