package app

import (
	"net/http"

	"github.com/klokku/calgrid/internal/config"
	"github.com/klokku/calgrid/internal/rest"
	"github.com/klokku/calgrid/pkg/color"
	"github.com/klokku/calgrid/pkg/event"
)

type SettingsHandler struct {
	cfg config.Application
}

type SettingsDTO struct {
	OffsetMinutes    int              `json:"offsetMinutes"`
	MobileBreakpoint int              `json:"mobileBreakpoint"`
	Categories       []event.Category `json:"categories"`
	Palette          []string         `json:"palette"`
}

func NewSettingsHandler(cfg config.Application) *SettingsHandler {
	return &SettingsHandler{cfg: cfg}
}

// GetSettings godoc
// @Summary Display settings, categories and color palette
// @Tags Settings
// @Produce json
// @Success 200 {object} SettingsDTO
// @Router /api/settings [get]
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, SettingsDTO{
		OffsetMinutes:    h.cfg.Display.OffsetMinutes,
		MobileBreakpoint: h.cfg.Display.MobileBreakpoint,
		Categories:       event.Categories,
		Palette:          color.Palette,
	})
}
