// ABOUTME: Tests for the identity session and the local provider.
// ABOUTME: Uses a temp state file and a scripted provider.
package identity

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/carelog/internal/models"
)

type scriptedProvider struct {
	ident     *models.Identity
	signInErr error
	outErr    error
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) SignIn(ctx context.Context) (*models.Identity, error) {
	if p.signInErr != nil {
		return nil, p.signInErr
	}
	c := *p.ident
	return &c, nil
}

func (p *scriptedProvider) SignOut(ctx context.Context) error { return p.outErr }

func openSession(t *testing.T, p Provider) (*Session, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	s, err := Open(path, p, nil)
	require.NoError(t, err)
	return s, path
}

func TestOnIdentityChangedFiresImmediately(t *testing.T) {
	s, _ := openSession(t, &scriptedProvider{})

	var got []*models.Identity
	calls := 0
	s.OnIdentityChanged(func(id *models.Identity) {
		calls++
		got = append(got, id)
	})

	require.Equal(t, 1, calls)
	assert.Nil(t, got[0])
}

func TestSignInSignOutNotifies(t *testing.T) {
	p := &scriptedProvider{ident: &models.Identity{UID: "u1", DisplayName: "Ann"}}
	s, _ := openSession(t, p)

	var seen []string
	s.OnIdentityChanged(func(id *models.Identity) {
		if id == nil {
			seen = append(seen, "<nil>")
			return
		}
		seen = append(seen, id.UID)
	})

	ident, err := s.SignIn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", ident.UID)
	assert.Equal(t, "scripted", s.Provider())

	require.NoError(t, s.SignOut(context.Background()))
	assert.Equal(t, []string{"<nil>", "u1", "<nil>"}, seen)
	assert.Nil(t, s.Current())
}

func TestSessionPersists(t *testing.T) {
	p := &scriptedProvider{ident: &models.Identity{UID: "u1", DisplayName: "Ann"}}
	s, path := openSession(t, p)
	_, err := s.SignIn(context.Background())
	require.NoError(t, err)

	reopened, err := Open(path, p, nil)
	require.NoError(t, err)
	cur, err := reopened.Require()
	require.NoError(t, err)
	assert.Equal(t, "Ann", cur.DisplayName)
}

func TestRequireSignedOut(t *testing.T) {
	s, _ := openSession(t, &scriptedProvider{})
	_, err := s.Require()
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestSignInFailureLeavesStateAlone(t *testing.T) {
	boom := errors.New("provider down")
	s, _ := openSession(t, &scriptedProvider{signInErr: boom})

	calls := 0
	s.OnIdentityChanged(func(*models.Identity) { calls++ })

	_, err := s.SignIn(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.Nil(t, s.Current())
}

func TestSignOutFailureKeepsIdentity(t *testing.T) {
	boom := errors.New("revoke failed")
	p := &scriptedProvider{ident: &models.Identity{UID: "u1"}, outErr: boom}
	s, _ := openSession(t, p)
	_, err := s.SignIn(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, s.SignOut(context.Background()), boom)
	assert.NotNil(t, s.Current())
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	p := &scriptedProvider{ident: &models.Identity{UID: "u1"}}
	s, _ := openSession(t, p)

	calls := 0
	cancel := s.OnIdentityChanged(func(*models.Identity) { calls++ })
	cancel()

	_, err := s.SignIn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRefreshPicksUpOtherProcess(t *testing.T) {
	p := &scriptedProvider{ident: &models.Identity{UID: "u1"}}
	watcher, path := openSession(t, p)

	var last *models.Identity
	watcher.OnIdentityChanged(func(id *models.Identity) { last = id })

	changed, err := watcher.Refresh()
	require.NoError(t, err)
	assert.False(t, changed)

	other, err := Open(path, p, nil)
	require.NoError(t, err)
	_, err = other.SignIn(context.Background())
	require.NoError(t, err)

	changed, err = watcher.Refresh()
	require.NoError(t, err)
	assert.True(t, changed)
	require.NotNil(t, last)
	assert.Equal(t, "u1", last.UID)

	require.NoError(t, other.SignOut(context.Background()))
	changed, err = watcher.Refresh()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Nil(t, last)
}

func TestLocalProviderStableUID(t *testing.T) {
	a, err := LocalProvider{Profile: "Ann"}.SignIn(context.Background())
	require.NoError(t, err)
	b, err := LocalProvider{Profile: "ann"}.SignIn(context.Background())
	require.NoError(t, err)
	c, err := LocalProvider{Profile: "Bob"}.SignIn(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.UID, b.UID)
	assert.NotEqual(t, a.UID, c.UID)
	assert.Equal(t, "Ann", a.DisplayName)
}

func TestLocalProviderDefaultsToUser(t *testing.T) {
	t.Setenv("USER", "carol")
	id, err := LocalProvider{}.SignIn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "carol", id.DisplayName)
	assert.Equal(t, ProfileUID("carol"), id.UID)
}
