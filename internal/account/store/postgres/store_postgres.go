// Package postgres implements the identity store on PostgreSQL. Each unit of
// work maps to one serializable SQL transaction; the shared-account and
// management records share a row since they are co-located 1:1.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"custodia/internal/account/models"
	"custodia/internal/account/store"
	"custodia/pkg/domain"
	"custodia/pkg/platform/sentinel"
)

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the protocol tables. The registry table enforces the
// singleton invariant with a constant unique column.
func (s *Store) Migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS registry (
	identity UUID PRIMARY KEY,
	authority_source BYTEA NOT NULL,
	accounts_created BIGINT NOT NULL DEFAULT 0,
	claimers_added BIGINT NOT NULL DEFAULT 0,
	claimers_removed BIGINT NOT NULL DEFAULT 0,
	capabilities_claimed BIGINT NOT NULL DEFAULT 0,
	authority_redeemed BIGINT NOT NULL DEFAULT 0,
	singleton BOOLEAN NOT NULL DEFAULT TRUE UNIQUE CHECK (singleton)
);
CREATE TABLE IF NOT EXISTS shared_accounts (
	identity UUID PRIMARY KEY,
	authority_source BYTEA NOT NULL,
	admin UUID NOT NULL,
	unclaimed UUID[] NOT NULL DEFAULT '{}'
);
CREATE TABLE IF NOT EXISTS capabilities (
	holder UUID PRIMARY KEY,
	target UUID NOT NULL
);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate identity store: %w", err)
	}
	return nil
}

func (s *Store) View(ctx context.Context, fn func(store.Tx) error) error {
	return s.run(ctx, fn, true)
}

func (s *Store) Update(ctx context.Context, fn func(store.Tx) error) error {
	return s.run(ctx, fn, false)
}

func (s *Store) run(ctx context.Context, fn func(store.Tx) error, readOnly bool) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
		ReadOnly:  readOnly,
	})
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}

	pgtx := &pgTx{ctx: ctx, tx: tx, writable: !readOnly}
	if err := fn(pgtx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit unit of work: %w", err)
	}
	return nil
}

type pgTx struct {
	ctx      context.Context
	tx       *sql.Tx
	writable bool
}

var _ store.Tx = (*pgTx)(nil)

func (t *pgTx) GetRegistry() (domain.IdentityID, *models.Registry, error) {
	row := t.tx.QueryRowContext(t.ctx, `
		SELECT identity, authority_source,
		       accounts_created, claimers_added, claimers_removed,
		       capabilities_claimed, authority_redeemed
		FROM registry`)

	var id uuid.UUID
	registry := &models.Registry{}
	err := row.Scan(&id, &registry.AuthoritySource,
		&registry.Counters.AccountsCreated, &registry.Counters.ClaimersAdded,
		&registry.Counters.ClaimersRemoved, &registry.Counters.Claimed,
		&registry.Counters.Redeemed)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.IdentityID{}, nil, sentinel.ErrNotFound
	}
	if err != nil {
		return domain.IdentityID{}, nil, fmt.Errorf("get registry: %w", err)
	}
	return domain.IdentityID(id), registry, nil
}

func (t *pgTx) CreateRegistry(id domain.IdentityID, registry *models.Registry) error {
	if !t.writable {
		return sentinel.ErrReadOnly
	}
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO registry (identity, authority_source)
		VALUES ($1, $2)`,
		uuid.UUID(id), registry.AuthoritySource)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("create registry: %w", err)
	}
	return nil
}

func (t *pgTx) SetRegistry(id domain.IdentityID, registry *models.Registry) error {
	if !t.writable {
		return sentinel.ErrReadOnly
	}
	result, err := t.tx.ExecContext(t.ctx, `
		UPDATE registry
		SET authority_source = $2,
		    accounts_created = $3, claimers_added = $4, claimers_removed = $5,
		    capabilities_claimed = $6, authority_redeemed = $7
		WHERE identity = $1`,
		uuid.UUID(id), registry.AuthoritySource,
		registry.Counters.AccountsCreated, registry.Counters.ClaimersAdded,
		registry.Counters.ClaimersRemoved, registry.Counters.Claimed,
		registry.Counters.Redeemed)
	if err != nil {
		return fmt.Errorf("set registry: %w", err)
	}
	return requireRowAffected(result)
}

func (t *pgTx) CreateAccount(id domain.IdentityID, account *models.SharedAccount, management *models.Management) error {
	if !t.writable {
		return sentinel.ErrReadOnly
	}
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO shared_accounts (identity, authority_source, admin, unclaimed)
		VALUES ($1, $2, $3, $4)`,
		uuid.UUID(id), account.AuthoritySource, uuid.UUID(management.Admin),
		pq.Array(identityStrings(management.Unclaimed)))
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("create shared account: %w", err)
	}
	return nil
}

func (t *pgTx) GetAccount(id domain.IdentityID) (*models.SharedAccount, error) {
	row := t.tx.QueryRowContext(t.ctx, `
		SELECT authority_source FROM shared_accounts WHERE identity = $1`+t.lockClause(),
		uuid.UUID(id))

	account := &models.SharedAccount{}
	err := row.Scan(&account.AuthoritySource)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get shared account: %w", err)
	}
	return account, nil
}

func (t *pgTx) GetManagement(id domain.IdentityID) (*models.Management, error) {
	row := t.tx.QueryRowContext(t.ctx, `
		SELECT admin, unclaimed FROM shared_accounts WHERE identity = $1`+t.lockClause(),
		uuid.UUID(id))

	var admin uuid.UUID
	var unclaimed pq.StringArray
	err := row.Scan(&admin, &unclaimed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get management: %w", err)
	}

	management := &models.Management{Admin: domain.IdentityID(admin)}
	for _, raw := range unclaimed {
		claimer, err := domain.ParseIdentityID(raw)
		if err != nil {
			return nil, fmt.Errorf("get management: %w", err)
		}
		management.Unclaimed = append(management.Unclaimed, claimer)
	}
	return management, nil
}

func (t *pgTx) SetManagement(id domain.IdentityID, management *models.Management) error {
	if !t.writable {
		return sentinel.ErrReadOnly
	}
	result, err := t.tx.ExecContext(t.ctx, `
		UPDATE shared_accounts SET admin = $2, unclaimed = $3 WHERE identity = $1`,
		uuid.UUID(id), uuid.UUID(management.Admin),
		pq.Array(identityStrings(management.Unclaimed)))
	if err != nil {
		return fmt.Errorf("set management: %w", err)
	}
	return requireRowAffected(result)
}

func (t *pgTx) GetCapability(holder domain.IdentityID) (*models.Capability, error) {
	row := t.tx.QueryRowContext(t.ctx, `
		SELECT target FROM capabilities WHERE holder = $1`+t.lockClause(),
		uuid.UUID(holder))

	var target uuid.UUID
	err := row.Scan(&target)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get capability: %w", err)
	}
	return &models.Capability{Target: domain.IdentityID(target)}, nil
}

func (t *pgTx) CreateCapability(holder domain.IdentityID, capability *models.Capability) error {
	if !t.writable {
		return sentinel.ErrReadOnly
	}
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO capabilities (holder, target) VALUES ($1, $2)`,
		uuid.UUID(holder), uuid.UUID(capability.Target))
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("create capability: %w", err)
	}
	return nil
}

func (t *pgTx) DeleteCapability(holder domain.IdentityID) error {
	if !t.writable {
		return sentinel.ErrReadOnly
	}
	result, err := t.tx.ExecContext(t.ctx, `
		DELETE FROM capabilities WHERE holder = $1`,
		uuid.UUID(holder))
	if err != nil {
		return fmt.Errorf("delete capability: %w", err)
	}
	return requireRowAffected(result)
}

// lockClause adds FOR UPDATE inside writable transactions so racing units of
// work serialize on the rows they read before mutating.
func (t *pgTx) lockClause() string {
	if t.writable {
		return " FOR UPDATE"
	}
	return ""
}

func identityStrings(ids []domain.IdentityID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func requireRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
