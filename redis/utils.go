package redis

import (
	goredis "github.com/redis/go-redis/v9"
)

// conn returns the current connection bundle, or nil when the pool has not
// been opened with InitPool or was closed with Close. All operations snapshot
// it once through this accessor so a concurrent Close can't split one
// operation across two pools.
func (r *Redis) conn() *redisConn {
	return r.client.Load()
}

// Conn returns the underlying go-redis client for the data database.
// This method provides direct access to the driver while maintaining thread
// safety through an atomic load.
// It returns nil when the connection pool has not been opened with InitPool
// or was closed with Close.
//
// Use this method when you need commands not covered by the wrapper methods
// (pipelines, pub/sub, scripting). Note that direct usage bypasses the
// observer hooks, so use it with care.
func (r *Redis) Conn() *goredis.Client {
	conn := r.conn()
	if conn == nil {
		return nil
	}
	return conn.data
}

// Locks returns the distributed lock manager backed by this client.
// The manager is created with the client and keeps its identity across pool
// open/close cycles; acquiring through it before InitPool fails with
// ErrPoolNotInitialized.
func (r *Redis) Locks() *LockManager {
	return r.locks
}
