package http

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/zunw/ecommerce/pkg/httputil"
)

// nameParam returns the decoded path parameter. chi matches on r.URL.RawPath
// when it is set and on the already decoded r.URL.Path otherwise, so only
// the first case still carries escapes.
func nameParam(w http.ResponseWriter, r *http.Request, param string) (string, bool) {
	raw := chi.URLParam(r, param)
	if r.URL.RawPath == "" {
		return raw, true
	}
	name, err := url.PathUnescape(raw)
	if err != nil {
		httputil.WriteErrorCode(w, r, http.StatusBadRequest, "INVALID_PARAMETER", "invalid "+param+": "+raw)
		return "", false
	}
	return name, true
}
