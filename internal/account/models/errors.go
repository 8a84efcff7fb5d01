package models

import "errors"

// Protocol errors. Every guard violation aborts the whole unit of work with
// no side effect; all of these are terminal, caller-visible failures.
var (
	// ErrAlreadyInitialized: a Registry record already exists.
	ErrAlreadyInitialized = errors.New("registry already initialized")

	// ErrAlreadyExists: the derived identity is already occupied by a
	// shared account (same creator and seed as an earlier creation).
	ErrAlreadyExists = errors.New("shared account already exists")

	// ErrNotFound: the target identity holds no shared-account records.
	ErrNotFound = errors.New("shared account not found")

	// ErrNotAdmin: the caller is not the account's administrator.
	ErrNotAdmin = errors.New("caller is not the account administrator")

	// ErrAlreadyListed: the claimer is already on the allow-list.
	ErrAlreadyListed = errors.New("claimer is already allow-listed")

	// ErrNotListed: the claimer is not on the allow-list.
	ErrNotListed = errors.New("claimer is not allow-listed")

	// ErrAlreadyHoldingCapability: the claimer holds a live capability for
	// some shared account; only one may be outstanding per principal.
	ErrAlreadyHoldingCapability = errors.New("claimer already holds a capability")

	// ErrNoCapability: the acquirer holds no capability to redeem.
	ErrNoCapability = errors.New("no capability held")

	// ErrWrongTarget: the held capability was claimed for a different
	// shared account.
	ErrWrongTarget = errors.New("capability targets a different account")
)
