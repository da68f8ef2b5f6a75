package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/userdesk/internal/client/client"
	"github.com/dmitrijs2005/userdesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/userdesk/internal/common"
	"github.com/dmitrijs2005/userdesk/internal/logging"
)

// AuthService keeps the session with the remote directory.
//
// Contract:
//   - Login: authenticate remotely and persist the returned token.
//   - Logout: forget the token and clear the overlay; local edits and
//     deletions do not outlive the session.
//   - IsLoggedIn: whether a token is stored.
type AuthService interface {
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	IsLoggedIn(ctx context.Context) (bool, error)
}

type authService struct {
	client  client.Client
	db      *sql.DB
	overlay OverlayStore
	log     logging.Logger
}

func NewAuthService(c client.Client, db *sql.DB, overlay OverlayStore, log logging.Logger) AuthService {
	return &authService{client: c, db: db, overlay: overlay, log: log}
}

func (a *authService) getMetadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(a.db)
}

func (a *authService) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return common.ErrorUnauthorized
	}

	token, err := a.client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	if err := a.getMetadataRepo().Set(ctx, common.SessionTokenKey, []byte(token)); err != nil {
		return fmt.Errorf("token saving error: %w", err)
	}
	a.log.Info(ctx, "logged in", "email", email)
	return nil
}

// Logout removes the token together with the overlay entries in one
// transaction, so a failed logout leaves the session intact.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.overlay.Clear(ctx, common.SessionTokenKey); err != nil {
		return fmt.Errorf("logout error: %w", err)
	}
	a.log.Info(ctx, "logged out")
	return nil
}

func (a *authService) IsLoggedIn(ctx context.Context) (bool, error) {
	token, err := a.getMetadataRepo().Get(ctx, common.SessionTokenKey)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return len(token) > 0, nil
}
