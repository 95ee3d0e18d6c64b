package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/schedcheck/internal/policy"
)

// PolicyView is the public summary of the active policy.
type PolicyView struct {
	Extensions       []string         `json:"extensions"`
	SizeLimits       map[string]int64 `json:"sizeLimits"`
	AllowedMIMETypes []string         `json:"allowedMimeTypes"`

	// Universities lists system names in detection priority order.
	Universities []string `json:"universities"`
}

// PolicyHandler serves the active policy so upload clients can check files
// before sending them.
type PolicyHandler struct {
	view PolicyView
}

// NewPolicyHandler creates a PolicyHandler for p.
func NewPolicyHandler(p *policy.Policy) *PolicyHandler {
	view := PolicyView{
		Extensions:       p.SupportedExtensions,
		SizeLimits:       make(map[string]int64, len(p.SupportedExtensions)),
		AllowedMIMETypes: p.AllowedMIMETypes,
		Universities:     make([]string, 0, len(p.Universities)),
	}
	for format, limit := range p.SizeLimits {
		view.SizeLimits[string(format)] = limit
	}
	for _, u := range p.Universities {
		view.Universities = append(view.Universities, u.Name)
	}
	return &PolicyHandler{view: view}
}

// Handle processes GET /policy requests.
func (h *PolicyHandler) Handle(c *gin.Context) {
	c.JSON(http.StatusOK, h.view)
}
