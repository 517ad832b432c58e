package store

import "context"

/**
 * Store is the byte-oriented persistence surface for process snapshots and
 * run records. Values live under a prefix + key pair so one process ID can
 * carry several record kinds side by side.
 */
type Store interface {
	Get(ctx context.Context, prefix, key string) ([]byte, error)
	Set(ctx context.Context, prefix, key string, value []byte) error
	/**
	 * Remove a prefix and key
	 * remove an unexists prefix + key would NOT return error
	 */
	Remove(ctx context.Context, prefix, key string) error

	List(ctx context.Context, prefix string, iterator func(key string) bool) error
}
