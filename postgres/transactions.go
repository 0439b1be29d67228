package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// cloneWithTx returns a shallow copy of Postgres with tx as the DB Client.
// This internal helper method creates a new Postgres instance that shares most
// properties with the original but uses the provided handle (a transaction or
// a checked-out connection) as its database Client. It enables scope-bound
// operations while maintaining the observer and logger of the Postgres wrapper.
//
// The clone records the pool-owning client so connection scopes opened through
// it keep their identity (see scope.go).
func (p *Postgres) cloneWithTx(tx *gorm.DB) *Postgres {
	// This clone is only intended for scope-bound CRUD/query operations.
	// Do not share lifecycle channels with the parent to avoid accidental shutdown
	// if a consumer calls GracefulShutdown() on the tx client.
	pg := &Postgres{
		cfg:      p.cfg,
		observer: p.observer,
		logger:   p.logger,
		owner:    p.poolOwner(),
	}
	pg.client.Store(tx)
	return pg
}

// Transaction executes the given function within a database transaction.
// It creates a transaction-specific Postgres instance and passes it as Client interface.
// If the function returns an error, the transaction is rolled back; otherwise, it's committed.
//
// This method provides a clean way to execute multiple database operations as a single
// atomic unit, with automatic handling of commit/rollback based on the execution result.
// Unlike WithTransaction, it does not bind the transaction to a context: only
// operations made through the tx argument participate.
//
// Returns a GORM error if the transaction fails or the error returned by the callback function.
//
// Example usage:
//
//	err := pg.Transaction(ctx, func(tx Client) error {
//		if err := tx.Create(ctx, user); err != nil {
//			return err
//		}
//		return tx.Create(ctx, userProfile)
//	})
func (p *Postgres) Transaction(ctx context.Context, fn func(tx Client) error) error {
	dbConn := p.dbFor(ctx)
	if dbConn == nil {
		return ErrPoolNotInitialized
	}

	start := time.Now()
	// Snapshot the current connection; do not hold any package-level locks for the whole
	// transaction, which can be long-running.
	db := dbConn.WithContext(ctx)
	err := db.Transaction(func(txDB *gorm.DB) error {
		pgWithTx := p.cloneWithTx(txDB)
		return fn(pgWithTx) // Pass as Client interface
	})
	p.observeOperation("transaction", "", "", time.Since(start), err, 0, nil)
	return err
}
