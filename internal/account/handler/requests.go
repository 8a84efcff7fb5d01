package handler

import "time"

type initializeRequest struct {
	Installer string `json:"installer"`
}

type initializeResponse struct {
	ModuleIdentity string `json:"module_identity"`
}

type createAccountRequest struct {
	Creator string `json:"creator"`
	// Seed is an opaque byte string; together with the creator it
	// deterministically names the new account.
	Seed string `json:"seed"`
}

type createAccountResponse struct {
	AccountID string `json:"account_id"`
}

type allowListRequest struct {
	Admin   string `json:"admin"`
	Claimer string `json:"claimer"`
}

type listClaimersResponse struct {
	Claimers []string `json:"claimers"`
}

type claimRequest struct {
	Claimer string `json:"claimer"`
}

type redeemRequest struct {
	Acquirer string `json:"acquirer"`
}

type redeemResponse struct {
	Proof     string    `json:"proof"`
	Target    string    `json:"target"`
	Acquirer  string    `json:"acquirer"`
	ExpiresAt time.Time `json:"expires_at"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
