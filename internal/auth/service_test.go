package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_LoginLogout(t *testing.T) {
	s := NewService(DefaultTTL)

	token, err := s.Login(time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.True(t, s.IsLogged(token))
	assert.False(t, s.IsLogged("bogus-token"))
	assert.Equal(t, 1, s.SessionsCount())

	assert.True(t, s.Logout(token))
	assert.False(t, s.IsLogged(token))
	assert.False(t, s.Logout(token))
	assert.Zero(t, s.SessionsCount())
}

func TestService_ExpiredSession(t *testing.T) {
	s := NewService(time.Minute)

	token, err := s.Login(time.Now().Add(-2 * time.Minute))
	require.NoError(t, err)

	assert.False(t, s.IsLogged(token))

	s.ScanAndClean()
	assert.Zero(t, s.SessionsCount())
}

func TestService_ScanAndCleanKeepsFreshSessions(t *testing.T) {
	s := NewService(time.Hour)

	fresh, err := s.Login(time.Now())
	require.NoError(t, err)
	_, err = s.Login(time.Now().Add(-2 * time.Hour))
	require.NoError(t, err)

	s.ScanAndClean()
	assert.Equal(t, 1, s.SessionsCount())
	assert.True(t, s.IsLogged(fresh))
}

func TestService_InjectedTokenGenerator(t *testing.T) {
	s := NewService(DefaultTTL)
	s.RandStringFunc = func(int) (string, error) {
		return "fixed-token", nil
	}

	token, err := s.Login(time.Now())
	require.NoError(t, err)
	assert.Equal(t, "fixed-token", token)
}
