package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mailmemories/mail-memories/internal/api/respond"
	"github.com/mailmemories/mail-memories/internal/services"
)

// MemoriesHandler serves the memory-retrieval pipeline over HTTP.
type MemoriesHandler struct {
	svc *services.MemoryService
}

func NewMemoriesHandler(svc *services.MemoryService) *MemoriesHandler {
	return &MemoriesHandler{svc: svc}
}

// GetToday handles GET /api/users/{userId}/memories/today.
//
// The response is always 200 with the tagged MemoriesResult body; the
// presentation layer branches on the status field (ok, needs-connection,
// error). The user id comes from the session layer in front of this service
// and is trusted as given.
func (h *MemoriesHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		respond.WriteBadRequest(w, "userId required")
		return
	}

	result := h.svc.GetMemoriesForToday(r.Context(), userID)
	respond.WriteJSON(w, http.StatusOK, result)
}
