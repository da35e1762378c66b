package handler

import (
	"net/http"

	"github.com/voyagecms/backend/spec"
)

// scalarPage is a minimal Scalar API reference shell pointed at the
// embedded spec. No build step: the UI script comes from the CDN.
const scalarPage = `<!doctype html>
<html>
<head>
  <title>Voyage CMS API</title>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
</head>
<body>
  <script id="api-reference" data-url="/openapi.yaml"></script>
  <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>`

// OpenAPISpec handles GET /openapi.yaml: the embedded API specification.
func (s *Server) OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}

// Docs handles GET /docs: an interactive reference UI for the spec.
func (s *Server) Docs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(scalarPage))
}
