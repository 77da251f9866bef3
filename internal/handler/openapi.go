package handler

import (
	"net/http"

	"github.com/dispatchday/route-roster/spec"
)

// serveOpenAPI handles GET /openapi.yaml, serving the embedded API document
// so the running binary always documents itself.
func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec.OpenAPI)
}
