package client

import (
	"context"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
)

// Client is the contract of the remote users directory. The directory is
// stateless between requests: it does not remember updates or deletions.
type Client interface {
	FetchPage(ctx context.Context, page int) (*models.Page, error)
	UpdateUser(ctx context.Context, id int, fields models.UserFields) error
	DeleteUser(ctx context.Context, id int) error
	Login(ctx context.Context, email, password string) (string, error)
}
