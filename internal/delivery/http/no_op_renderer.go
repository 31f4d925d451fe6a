package http

import (
	"net/http"

	"github.com/gin-gonic/gin/render"
)

// NoOpRenderer is an HTML renderer that writes nothing, for tests that only check status codes.
type NoOpRenderer struct{}

func NewNoOpRenderer() *NoOpRenderer {
	return &NoOpRenderer{}
}

// Instance returns a gin.Render instance that does nothing.
func (r *NoOpRenderer) Instance(string, interface{}) render.Render {
	return &noOpRender{}
}

type noOpRender struct{}

func (r *noOpRender) Render(http.ResponseWriter) error {
	return nil
}

func (r *noOpRender) WriteContentType(http.ResponseWriter) {}
