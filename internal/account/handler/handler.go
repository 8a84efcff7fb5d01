// Package handler exposes the capability protocol over HTTP. It stays thin:
// decode, validate identifiers, delegate to the service, translate errors.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"custodia/internal/account/models"
	"custodia/internal/identity"
	"custodia/pkg/domain"

	dErrors "custodia/pkg/domain-errors"
)

// Service is the call contract consumed by the HTTP layer.
//
//go:generate mockgen -destination=mocks/service_mock.go -package=mocks custodia/internal/account/handler Service
type Service interface {
	Initialize(ctx context.Context, installer domain.IdentityID) (domain.IdentityID, error)
	CreateSharedAccount(ctx context.Context, creator domain.IdentityID, seed []byte) (domain.IdentityID, error)
	AddClaimer(ctx context.Context, admin, target, claimer domain.IdentityID) error
	RemoveClaimer(ctx context.Context, admin, target, claimer domain.IdentityID) error
	ClaimCapability(ctx context.Context, claimer, target domain.IdentityID) error
	AcquireAuthority(ctx context.Context, acquirer, target domain.IdentityID) (*identity.Proof, error)
	ListClaimers(ctx context.Context, target domain.IdentityID) ([]domain.IdentityID, error)
	Counters(ctx context.Context) (models.Counters, error)
}

type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register mounts the protocol routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/registry", h.handleInitialize)
	r.Get("/v1/registry/counters", h.handleCounters)

	r.Post("/v1/accounts", h.handleCreateAccount)
	r.Get("/v1/accounts/{accountID}/claimers", h.handleListClaimers)
	r.Post("/v1/accounts/{accountID}/claimers", h.handleAddClaimer)
	r.Post("/v1/accounts/{accountID}/claimers/remove", h.handleRemoveClaimer)
	r.Post("/v1/accounts/{accountID}/claim", h.handleClaim)
	r.Post("/v1/accounts/{accountID}/redeem", h.handleRedeem)
}

func (h *Handler) handleInitialize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req initializeRequest
	if err := decode(r, &req); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	installer, err := domain.ParseIdentityID(req.Installer)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	moduleID, err := h.service.Initialize(ctx, installer)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, initializeResponse{ModuleIdentity: moduleID.String()})
}

func (h *Handler) handleCounters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counters, err := h.service.Counters(ctx)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, counters)
}

func (h *Handler) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createAccountRequest
	if err := decode(r, &req); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	creator, err := domain.ParseIdentityID(req.Creator)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	target, err := h.service.CreateSharedAccount(ctx, creator, []byte(req.Seed))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createAccountResponse{AccountID: target.String()})
}

func (h *Handler) handleListClaimers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	target, err := domain.ParseIdentityID(chi.URLParam(r, "accountID"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	claimers, err := h.service.ListClaimers(ctx, target)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	resp := listClaimersResponse{Claimers: make([]string, 0, len(claimers))}
	for _, claimer := range claimers {
		resp.Claimers = append(resp.Claimers, claimer.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleAddClaimer(w http.ResponseWriter, r *http.Request) {
	h.mutateAllowList(w, r, h.service.AddClaimer)
}

func (h *Handler) handleRemoveClaimer(w http.ResponseWriter, r *http.Request) {
	h.mutateAllowList(w, r, h.service.RemoveClaimer)
}

func (h *Handler) mutateAllowList(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, admin, target, claimer domain.IdentityID) error) {
	ctx := r.Context()

	target, err := domain.ParseIdentityID(chi.URLParam(r, "accountID"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	var req allowListRequest
	if err := decode(r, &req); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	admin, err := domain.ParseIdentityID(req.Admin)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	claimer, err := domain.ParseIdentityID(req.Claimer)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	if err := op(ctx, admin, target, claimer); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	target, err := domain.ParseIdentityID(chi.URLParam(r, "accountID"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	var req claimRequest
	if err := decode(r, &req); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	claimer, err := domain.ParseIdentityID(req.Claimer)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	if err := h.service.ClaimCapability(ctx, claimer, target); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRedeem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	target, err := domain.ParseIdentityID(chi.URLParam(r, "accountID"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	var req redeemRequest
	if err := decode(r, &req); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	acquirer, err := domain.ParseIdentityID(req.Acquirer)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	proof, err := h.service.AcquireAuthority(ctx, acquirer, target)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, redeemResponse{
		Proof:     proof.Token,
		Target:    proof.Target.String(),
		Acquirer:  proof.Acquirer.String(),
		ExpiresAt: proof.ExpiresAt,
	})
}

func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError translates protocol and coded errors into a consistent JSON
// error envelope.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	code := toCode(err)
	status := dErrors.ToHTTPStatus(code)
	if status >= http.StatusInternalServerError && h.logger != nil {
		h.logger.ErrorContext(ctx, "request failed", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error:   string(code),
		Message: err.Error(),
	})
}

func toCode(err error) dErrors.Code {
	switch {
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrNotListed),
		errors.Is(err, models.ErrNoCapability):
		return dErrors.CodeNotFound
	case errors.Is(err, models.ErrNotAdmin):
		return dErrors.CodeForbidden
	case errors.Is(err, models.ErrAlreadyInitialized),
		errors.Is(err, models.ErrAlreadyExists),
		errors.Is(err, models.ErrAlreadyListed),
		errors.Is(err, models.ErrAlreadyHoldingCapability),
		errors.Is(err, models.ErrWrongTarget):
		return dErrors.CodeConflict
	default:
		return dErrors.CodeOf(err)
	}
}
