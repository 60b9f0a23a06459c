package service

import (
	"testing"

	"nido/internal/auth"
	"nido/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) authService() *AuthService {
	return NewAuthService(auth.NewManager(&e.cfg.JWT), e.users)
}

func TestRegisterLoginRefresh(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService()

	u, pair, err := svc.Register("María Castro", "maria@nido.com.co", "3001234567", "secreto-largo")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, u.Role)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	_, _, err = svc.Login("maria@nido.com.co", "secreto-largo")
	require.NoError(t, err)

	refreshed, next, err := svc.Refresh(pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, u.ID, refreshed.ID)
	assert.NotEmpty(t, next.Access)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService()

	_, _, err := svc.Register("María", "maria@nido.com.co", "", "secreto-largo")
	require.NoError(t, err)
	_, _, err = svc.Register("Otra María", "maria@nido.com.co", "", "otro-secreto")
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService()

	_, _, err := svc.Register("María", "maria@nido.com.co", "", "secreto-largo")
	require.NoError(t, err)
	_, _, err = svc.Login("maria@nido.com.co", "equivocado")
	assert.ErrorIs(t, err, ErrInvalidCreds)
	_, _, err = svc.Login("nadie@nido.com.co", "secreto-largo")
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

// A refresh token from another signer, or for a deleted user, never yields a
// new pair.
func TestRefreshRejectsInvalidToken(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService()

	_, _, err := svc.Refresh("not.a.token")
	assert.ErrorIs(t, err, ErrBadRefresh)

	forged := env.cfg.JWT
	forged.RefreshSecret = "attacker-secret"
	pair, err := auth.NewManager(&forged).IssuePair(1, "maria@nido.com.co", domain.RoleOwner)
	require.NoError(t, err)
	_, _, err = svc.Refresh(pair.Refresh)
	assert.ErrorIs(t, err, ErrBadRefresh)

	// Valid signature but no such user.
	pair, err = auth.NewManager(&env.cfg.JWT).IssuePair(999, "ghost@nido.com.co", domain.RoleOwner)
	require.NoError(t, err)
	_, _, err = svc.Refresh(pair.Refresh)
	assert.ErrorIs(t, err, ErrBadRefresh)
}
