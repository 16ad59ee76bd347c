package handlers

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/bz888/gunther/internal/api/server/client"
	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

//go:embed openapi/gunther.v1.yaml
var openAPIYAML []byte

// OpenAPIPath is where the rendered document is served; the docs page loads it from there.
const OpenAPIPath = "/api/openapi.json"

var openAPIJSON = sync.OnceValues(func() ([]byte, error) {
	return renderOpenAPI(openAPIYAML)
})

func renderOpenAPI(doc []byte) ([]byte, error) {
	var spec map[string]any
	if err := yaml.Unmarshal(doc, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}
	return json.Marshal(spec)
}

// OpenAPI serves the API description as JSON.
func (h *Handler) OpenAPI(c *gin.Context) {
	doc, err := openAPIJSON()
	if err != nil {
		h.chatLog.WithError(err).Error("OpenAPI document unavailable")
		c.JSON(http.StatusInternalServerError, client.ErrorResponse{Detail: MsgUnknown})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
}

// SwaggerUI serves an interactive docs page. Assets come from a CDN.
func (h *Handler) SwaggerUI(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width,initial-scale=1" />
    <title>Gunther API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.onload = function() {
        SwaggerUIBundle({
          url: '`+OpenAPIPath+`',
          dom_id: '#swagger-ui',
          presets: [SwaggerUIBundle.presets.apis],
          layout: 'BaseLayout'
        });
      };
    </script>
  </body>
</html>`)
}
