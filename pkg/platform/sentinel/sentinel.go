package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Store implementations return
// these (optionally wrapped) so the service layer can translate them into
// protocol errors without knowing which backend produced them.
//
//   - ErrNotFound: no record of the requested type at that identity
//   - ErrConflict: a record of that type already occupies the slot
//   - ErrReadOnly: mutation attempted inside a read-only transaction
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrReadOnly = errors.New("read-only transaction")
)
