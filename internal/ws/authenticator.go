package ws

import (
	"context"

	"github.com/thereayou/agora/internal/models"
	"github.com/thereayou/agora/pkg/auth"
)

// TokenVerifier — чистая проверка bearer-токена.
type TokenVerifier interface {
	Verify(accessToken string) (*auth.Claims, error)
}

// IdentityResolver сопоставляет subject токена с живым пользователем.
type IdentityResolver interface {
	Resolve(subject string) (*models.Identity, error)
}

// Blacklist — отозванные токены.
type Blacklist interface {
	Contains(ctx context.Context, token string) (bool, error)
}

// ConnectionAuthenticator обслуживает переход соединения
// UNAUTHENTICATED → AUTHENTICATED по connect-фрейму. Любой отказ
// фатален для соединения: повторной попытки на этом уровне нет.
type ConnectionAuthenticator struct {
	verifier  TokenVerifier
	resolver  IdentityResolver
	blacklist Blacklist
}

func NewConnectionAuthenticator(verifier TokenVerifier, resolver IdentityResolver, blacklist Blacklist) *ConnectionAuthenticator {
	return &ConnectionAuthenticator{
		verifier:  verifier,
		resolver:  resolver,
		blacklist: blacklist,
	}
}

// Authenticate проверяет connect-фрейм и возвращает личность соединения.
func (a *ConnectionAuthenticator) Authenticate(ctx context.Context, frame *Frame) (*models.Identity, error) {
	header := frame.Headers[AuthorizationHeader]
	if header == "" {
		return nil, ErrMissingBearerToken
	}

	token, err := auth.ExtractBearer(header)
	if err != nil {
		return nil, ErrMissingBearerToken
	}

	if a.blacklist != nil {
		revoked, err := a.blacklist.Contains(ctx, token)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, auth.ErrInvalidToken
		}
	}

	claims, err := a.verifier.Verify(token)
	if err != nil {
		return nil, err
	}

	// Токен валиден, но аккаунт мог быть деактивирован
	return a.resolver.Resolve(claims.Subject)
}
