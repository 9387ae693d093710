package ports

import (
	"context"
	"time"

	"github.com/mkossman/noted-cli/internal/domain"
)

// API is the remote notes service. The server owns all entry IDs and
// timestamps; every list read is a full reload.
type API interface {
	Login(ctx context.Context, username, password string) (token string, err error)
	RequestCode(ctx context.Context, pin string) (expiresIn time.Duration, err error)
	VerifyCode(ctx context.Context, code string) (token string, err error)

	ListEntries(ctx context.Context, kind domain.ListKind) ([]domain.Entry, error)
	CreateEntry(ctx context.Context, kind domain.ListKind, text string) (domain.Entry, error)
	UpdateEntry(ctx context.Context, kind domain.ListKind, id domain.EntryID, text string) error
	DeleteEntry(ctx context.Context, kind domain.ListKind, id domain.EntryID) error
}
