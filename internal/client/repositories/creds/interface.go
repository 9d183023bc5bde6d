// Package creds persists the client's session credentials (bearer token,
// display username) in the local database. It is the single place the rest
// of the client reads or writes them, so the backing store can be swapped
// for an in-memory fake in tests.
package creds

import "context"

type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
