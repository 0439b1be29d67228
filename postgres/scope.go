package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// scopeKey is the context key under which an active connection scope travels.
// Scopes live in the request context, never in package state, so concurrent
// requests cannot observe each other's handles.
type scopeKey struct{}

// connScope records the connection handle bound to a context by WithConnection
// or WithTransaction.
//
// owner identifies the pool-owning client that checked the handle out; a scope
// opened by one client is invisible to scopes of another client sharing the
// same context. current is the handle-bound clone nested calls reuse: inside a
// transaction it points at the transaction client, so reused handles always
// carry the innermost state.
type connScope struct {
	owner   *Postgres
	current *Postgres
}

// scopeFrom extracts the connection scope from ctx, or nil when the context
// carries none.
func scopeFrom(ctx context.Context) *connScope {
	s, _ := ctx.Value(scopeKey{}).(*connScope)
	return s
}

// poolOwner resolves the pool-owning client: clones created for a checked-out
// connection or transaction point back at the client that owns the pool, so
// scope identity survives arbitrary nesting.
func (p *Postgres) poolOwner() *Postgres {
	if p.owner != nil {
		return p.owner
	}
	return p
}

// dbFor returns the *gorm.DB the given context should operate on: the scoped
// handle when ctx carries a scope opened by this client, otherwise the shared
// pool. Returns nil before InitPool.
func (p *Postgres) dbFor(ctx context.Context) *gorm.DB {
	if s := scopeFrom(ctx); s != nil && s.owner == p.poolOwner() {
		return s.current.DB()
	}
	return p.DB()
}

// WithConnection runs fn on one dedicated connection checked out from the pool.
//
// The connection is bound to the context passed to fn; every operation made
// through that context (CRUD methods, Query, nested WithConnection or
// WithTransaction calls) runs on the same handle. When ctx already carries a
// handle checked out by this client, fn runs on it directly and the pool is
// not touched, so nesting is free: exactly one checkout and one release per
// outermost scope, regardless of depth. The release happens when the outermost
// fn returns, on every exit path including panic.
//
// Example:
//
//	err := pg.WithConnection(ctx, func(ctx context.Context, conn postgres.Client) error {
//	    if err := conn.Create(ctx, &user); err != nil {
//	        return err
//	    }
//	    // Reuses the same connection, no second checkout.
//	    return pg.WithConnection(ctx, func(ctx context.Context, conn postgres.Client) error {
//	        return conn.First(ctx, &profile, "user_id = ?", user.ID)
//	    })
//	})
func (p *Postgres) WithConnection(ctx context.Context, fn func(ctx context.Context, conn Client) error) error {
	if s := scopeFrom(ctx); s != nil && s.owner == p.poolOwner() {
		return fn(ctx, s.current)
	}

	dbConn := p.DB()
	if dbConn == nil {
		return ErrPoolNotInitialized
	}

	start := time.Now()
	err := dbConn.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		scoped := p.cloneWithTx(conn)
		scopedCtx := context.WithValue(ctx, scopeKey{}, &connScope{
			owner:   p.poolOwner(),
			current: scoped,
		})
		return fn(scopedCtx, scoped)
	})
	p.observeOperation("with_connection", "", "", time.Since(start), err, 0, nil)
	return err
}

// WithTransaction runs fn inside a database transaction on a context-scoped
// connection.
//
// It composes WithConnection with begin/commit/rollback: the transaction
// commits when fn returns nil and rolls back when fn returns an error or
// panics; fn's error is returned unchanged. The context passed to fn carries
// the transaction handle, so operations made through it participate in the
// transaction. A nested WithTransaction call reuses the handle and nests via a
// savepoint instead of re-acquiring a connection: an inner rollback unwinds to
// the savepoint while the outer transaction decides the final outcome.
//
// Example:
//
//	err := pg.WithTransaction(ctx, func(ctx context.Context, tx postgres.Client) error {
//	    if err := tx.Create(ctx, &order); err != nil {
//	        return err
//	    }
//	    return tx.Create(ctx, &orderItems)
//	})
func (p *Postgres) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Client) error) error {
	return p.WithConnection(ctx, func(ctx context.Context, conn Client) error {
		start := time.Now()
		err := conn.DB().Transaction(func(txDB *gorm.DB) error {
			scoped := p.cloneWithTx(txDB)
			txCtx := context.WithValue(ctx, scopeKey{}, &connScope{
				owner:   p.poolOwner(),
				current: scoped,
			})
			return fn(txCtx, scoped)
		})
		p.observeOperation("with_transaction", "", "", time.Since(start), err, 0, nil)
		return err
	})
}
