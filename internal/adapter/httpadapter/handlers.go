package httpadapter

import (
	"encoding/json"
	"net/http"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/hazard-verify-service/internal/domain"
)

const maxRequestBytes = 1 << 20

// verifyRequest mirrors the verification endpoint body. Description is a
// pointer so an absent key can be told apart from an empty one.
type verifyRequest struct {
	Description *string `json:"description"`
	Type        string  `json:"type"`
	Location    string  `json:"location"`
	Pincode     string  `json:"pincode"`
}

type aggregatesResponse struct {
	Aggregates    []domain.AggregateEntry `json:"aggregates"`
	HistoryStatus domain.HistoryStatus    `json:"historyStatus"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Debug("rejecting malformed verify request", "error", err)
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body"})
		return
	}
	if req.Description == nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "Description is required"})
		return
	}

	result := s.verifier.Verify(r.Context(), domain.Report{
		Type:        req.Type,
		Description: *req.Description,
		Location:    req.Location,
		Pincode:     req.Pincode,
	})
	sharedobs.WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleAggregates(w http.ResponseWriter, r *http.Request) {
	entries, status := s.verifier.Aggregates(r.Context())
	sharedobs.WriteJSON(w, http.StatusOK, aggregatesResponse{Aggregates: entries, HistoryStatus: status})
}
