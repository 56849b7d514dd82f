package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hiperzap/waba-platform/internal/waba_service/app"
	"github.com/hiperzap/waba-platform/internal/waba_service/domain"
)

// BusinessManagerHandler handles HTTP requests for the account directory:
// onboarding Business Managers and reading the mirrored hierarchy.
type BusinessManagerHandler struct {
	businessManagers domain.BusinessManagerRepository
	wabas            domain.WABARepository
	phoneNumbers     domain.PhoneNumberRepository
	reconciler       app.Reconciler
	logger           *slog.Logger
	validate         *validator.Validate
}

func NewBusinessManagerHandler(
	businessManagers domain.BusinessManagerRepository,
	wabas domain.WABARepository,
	phoneNumbers domain.PhoneNumberRepository,
	reconciler app.Reconciler,
	logger *slog.Logger,
	validate *validator.Validate,
) *BusinessManagerHandler {
	return &BusinessManagerHandler{
		businessManagers: businessManagers,
		wabas:            wabas,
		phoneNumbers:     phoneNumbers,
		reconciler:       reconciler,
		logger:           logger,
		validate:         validate,
	}
}

// Helper to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			slog.Default().Error("Failed to write JSON response", "error", err)
		}
	}
}

// Helper to respond with an error
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// RegisterRoutes sets up the routing for the directory operations.
func (h *BusinessManagerHandler) RegisterRoutes(r chi.Router) {
	r.Post("/business-managers", h.OnboardBusinessManager)
	r.Get("/business-managers", h.ListBusinessManagers)
	r.Get("/business-managers/{businessManagerID}", h.GetBusinessManager)
	r.Post("/business-managers/{businessManagerID}/sync", h.SyncBusinessManager)
	r.Get("/business-managers/{businessManagerID}/wabas", h.ListWABAs)
	r.Get("/wabas/{wabaID}/phone-numbers", h.ListPhoneNumbers)
}

// OnboardBusinessManager registers a new Business Manager from an access
// token. The remote identity stays empty until the first sync pass fills it.
func (h *BusinessManagerHandler) OnboardBusinessManager(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reqDTO OnboardBusinessManagerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	bm, err := domain.NewBusinessManager(reqDTO.AccessToken)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.businessManagers.Create(ctx, bm); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			respondWithError(w, http.StatusConflict, "Business manager already exists")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to create business manager", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to create business manager")
		return
	}

	respondWithJSON(w, http.StatusCreated, toBusinessManagerDTO(bm))
}

func (h *BusinessManagerHandler) ListBusinessManagers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	managers, err := h.businessManagers.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list business managers", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to list business managers")
		return
	}

	dtos := make([]BusinessManagerResponseDTO, 0, len(managers))
	for _, bm := range managers {
		dtos = append(dtos, toBusinessManagerDTO(bm))
	}
	respondWithJSON(w, http.StatusOK, dtos)
}

func (h *BusinessManagerHandler) GetBusinessManager(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r, "businessManagerID")
	if !ok {
		return
	}

	bm, err := h.businessManagers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Business manager not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to get business manager", "business_manager_id", id, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to get business manager")
		return
	}

	respondWithJSON(w, http.StatusOK, toBusinessManagerDTO(bm))
}

// SyncBusinessManager runs one reconciliation pass synchronously. The result
// carries the outcome; a failed pass responds 422 so the caller can read the
// collected errors without treating the service itself as broken.
func (h *BusinessManagerHandler) SyncBusinessManager(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r, "businessManagerID")
	if !ok {
		return
	}

	result := h.reconciler.Reconcile(ctx, id)
	if !result.Succeeded {
		respondWithJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *BusinessManagerHandler) ListWABAs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r, "businessManagerID")
	if !ok {
		return
	}

	if _, err := h.businessManagers.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Business manager not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to get business manager", "business_manager_id", id, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to list WABAs")
		return
	}

	wabas, err := h.wabas.ListByBusinessManagerID(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list WABAs", "business_manager_id", id, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to list WABAs")
		return
	}

	dtos := make([]WABAResponseDTO, 0, len(wabas))
	for _, waba := range wabas {
		dtos = append(dtos, toWABADTO(waba))
	}
	respondWithJSON(w, http.StatusOK, dtos)
}

func (h *BusinessManagerHandler) ListPhoneNumbers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseID(w, r, "wabaID")
	if !ok {
		return
	}

	if _, err := h.wabas.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "WABA not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to get WABA", "waba_id", id, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to list phone numbers")
		return
	}

	numbers, err := h.phoneNumbers.ListByWABAID(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list phone numbers", "waba_id", id, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to list phone numbers")
		return
	}

	dtos := make([]PhoneNumberResponseDTO, 0, len(numbers))
	for _, pn := range numbers {
		dtos = append(dtos, toPhoneNumberDTO(pn))
	}
	respondWithJSON(w, http.StatusOK, dtos)
}

func (h *BusinessManagerHandler) parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid "+param+" format")
		return uuid.Nil, false
	}
	return id, true
}
