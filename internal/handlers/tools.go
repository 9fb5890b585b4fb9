package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bobmcallan/contentgeo-mcp/internal/common"
	"github.com/bobmcallan/contentgeo-mcp/internal/tools"
)

// ToolsHandler exposes the registry over plain HTTP: a listing and a
// query-string dispatcher.
type ToolsHandler struct {
	dispatcher *tools.Dispatcher
	logger     *common.Logger
}

// NewToolsHandler creates a handler serving d's registry.
func NewToolsHandler(d *tools.Dispatcher, logger *common.Logger) *ToolsHandler {
	return &ToolsHandler{dispatcher: d, logger: logger}
}

type paramInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

type toolInfo struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Params      []paramInfo `json:"params"`
}

// List handles GET /api/tools.
func (h *ToolsHandler) List(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	registered := h.dispatcher.Registry().Tools()
	out := make([]toolInfo, 0, len(registered))
	for _, t := range registered {
		info := toolInfo{Name: t.Name, Description: t.Description, Params: []paramInfo{}}
		for _, p := range t.Params {
			pi := paramInfo{
				Name:        p.Name,
				Type:        string(p.Type),
				Required:    p.Required,
				Description: p.Description,
			}
			if p.HasDefault {
				pi.Default = p.Default
			}
			info.Params = append(info.Params, pi)
		}
		out = append(out, info)
	}

	WriteJSON(w, http.StatusOK, map[string]any{"tools": out})
}

// Dispatch handles GET /{tool} and GET /api/tools/{tool}. Query parameters
// become tool arguments; the first value of a repeated key wins. HEAD is
// refused because every call reaches the upstream.
func (h *ToolsHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	name := mux.Vars(r)["tool"]
	resp := h.dispatcher.Dispatch(r.Context(), name, r.URL.Query())

	data, err := resp.Bytes()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	WriteRawJSON(w, StatusFor(resp), data)
}

// StatusFor maps a dispatch outcome to an HTTP status. Only an unknown tool
// and a recovered handler fault leave the 200 range; every other failure is
// reported in the body.
func StatusFor(resp tools.Response) int {
	switch resp.Kind() {
	case tools.KindUnknownTool:
		return http.StatusNotFound
	case tools.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}
