package ports

import "context"

// TokenStore persists the access/refresh pair. Implementations are
// best-effort: Access and Refresh return "" on any storage failure, and Save
// and Clear never need to succeed for the caller to proceed. Access and
// refresh are always written and cleared together; a partial pair reads back
// as absent.
type TokenStore interface {
	Save(ctx context.Context, access, refresh string) error
	Access(ctx context.Context) string
	Refresh(ctx context.Context) string
	Clear(ctx context.Context) error
}
