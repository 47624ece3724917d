package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/oakmontlabs/accounts/internal/accounts/domain"
	"github.com/oakmontlabs/accounts/internal/accounts/store"
	"github.com/oakmontlabs/accounts/pkg/cryptox"
	"github.com/oakmontlabs/accounts/pkg/idx"
	"github.com/oakmontlabs/accounts/pkg/jwtx"
	"github.com/oakmontlabs/accounts/pkg/slogx"
)

// StrategyLocal is the only supported authentication strategy: an email and
// password pair verified against the local users table.
const StrategyLocal = "local"

var (
	ErrInvalidCredentials  = errors.New("invalid_credentials")
	ErrUnsupportedStrategy = errors.New("unsupported_strategy")
)

type AuthService struct {
	KeyManager *jwtx.KeyManager
	Store      store.Store
	Issuer     string
	AccessTTL  time.Duration
}

// Authenticate verifies an email/password pair and issues a signed access
// token. Unknown email and wrong password both return
// ErrInvalidCredentials so the response never reveals whether an address is
// registered.
func (s *AuthService) Authenticate(
	ctx context.Context,
	strategy, email, password string,
) (string, domain.User, error) {
	l := slogx.FromContext(ctx)

	if strategy != StrategyLocal {
		return "", domain.User{}, ErrUnsupportedStrategy
	}

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", domain.User{}, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("authentication failed: unknown email")
			return "", domain.User{}, ErrInvalidCredentials
		}
		return "", domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Info("authentication failed: bad password", slog.String("user_id", user.ID))
			return "", domain.User{}, ErrInvalidCredentials
		}
		return "", domain.User{}, err
	}

	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	sessionID := idx.New().String()
	claims := jwtx.NewAccessClaims(user.ID, sessionID, user.Email, ttl, s.Issuer, time.Now())

	signer := s.KeyManager.GetSigner()
	if signer == nil {
		return "", domain.User{}, errors.New("no signing key available")
	}

	token, err := signer.Sign(claims)
	if err != nil {
		return "", domain.User{}, err
	}

	l.Info("user authenticated",
		slog.String("user_id", user.ID),
		slog.String("sid", sessionID),
	)
	return token, user, nil
}
