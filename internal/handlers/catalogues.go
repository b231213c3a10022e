package handlers

import "net/http"

// Catalogues serves the reference code sets so clients can populate
// dropdowns and pre-check their sheets before converting.
func (h *Handlers) CataloguesList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.JSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "use GET"})
		return
	}

	h.JSON(w, http.StatusOK, map[string]any{
		"natures_affaire": h.Catalogues.Natures(),
		"tribunaux":       h.Catalogues.Tribunals(),
		"codes_dossier":   h.Catalogues.Dossiers(),
	})
}
