package state

import (
	"errors"
	"io"
	"net/http"

	"github.com/klokku/calgrid/internal/rest"
	"github.com/klokku/calgrid/internal/utils"
	log "github.com/sirupsen/logrus"
)

const maxActionSize = 1 << 20

type Handler struct {
	store *Store
	clock utils.Clock
}

type SnapshotDTO struct {
	State   State  `json:"state"`
	Version uint64 `json:"version"`
}

func NewHandler(store *Store, clock utils.Clock) *Handler {
	return &Handler{store: store, clock: clock}
}

// GetState godoc
// @Summary Current application state
// @Tags State
// @Produce json
// @Success 200 {object} SnapshotDTO
// @Router /api/state [get]
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	s, version := h.store.Snapshot()
	rest.WriteJSON(w, http.StatusOK, SnapshotDTO{State: s, Version: version})
}

// Dispatch godoc
// @Summary Dispatch an action
// @Description Applies {"type": ..., "payload": ...} to the store and returns the next state
// @Tags State
// @Accept json
// @Produce json
// @Param action body object{type=string,payload=object} true "Action"
// @Success 200 {object} SnapshotDTO
// @Failure 400 {object} rest.ErrorResponse "Unknown action or invalid payload"
// @Router /api/state/dispatch [post]
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxActionSize))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	action, err := DecodeAction(body, utils.Today(h.clock))
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownAction):
			rest.WriteError(w, http.StatusBadRequest, "Unknown action", err.Error())
		default:
			rest.WriteError(w, http.StatusBadRequest, "Invalid action payload", err.Error())
		}
		return
	}

	next, version, err := h.store.Dispatch(r.Context(), action)
	if err != nil {
		log.Errorf("dispatch of %s failed: %v", action.Type(), err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	log.Tracef("dispatched %s, version %d", action.Type(), version)
	rest.WriteJSON(w, http.StatusOK, SnapshotDTO{State: next, Version: version})
}
