// ABOUTME: Identity providers: a named local profile and a Charm account.
// ABOUTME: Providers only resolve who the user is; the Session tracks sign-in state.
package identity

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/charm/client"
	"github.com/google/uuid"

	"github.com/harperreed/carelog/internal/models"
)

// Provider signs a user in and out.
type Provider interface {
	Name() string
	SignIn(ctx context.Context) (*models.Identity, error)
	SignOut(ctx context.Context) error
}

// profileNamespace scopes local profile UIDs so they never collide with other UUIDs.
var profileNamespace = uuid.MustParse("7c4f2f0e-3a51-4d64-9a55-6b1f3f0cb2a1")

// LocalProvider signs in as a named profile on this machine.
// The same name always maps to the same UID.
type LocalProvider struct {
	Profile string
}

// Name returns "local".
func (p LocalProvider) Name() string { return "local" }

// SignIn resolves the profile to a stable identity.
func (p LocalProvider) SignIn(ctx context.Context) (*models.Identity, error) {
	name := strings.TrimSpace(p.Profile)
	if name == "" {
		name = defaultProfile()
	}
	if name == "" {
		return nil, fmt.Errorf("profile name is required")
	}
	return &models.Identity{
		UID:         ProfileUID(name),
		DisplayName: name,
	}, nil
}

// SignOut has nothing to revoke for a local profile.
func (p LocalProvider) SignOut(ctx context.Context) error { return nil }

// ProfileUID returns the stable UID for a local profile name.
func ProfileUID(name string) string {
	return uuid.NewSHA1(profileNamespace, []byte(strings.ToLower(name))).String()
}

func defaultProfile() string {
	for _, key := range []string{"USER", "USERNAME", "LOGNAME"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// CharmProvider signs in with the Charm account linked to this machine's SSH keys.
type CharmProvider struct{}

// Name returns "charm".
func (CharmProvider) Name() string { return "charm" }

// SignIn looks up the Charm account ID and display name.
func (CharmProvider) SignIn(ctx context.Context) (*models.Identity, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return nil, fmt.Errorf("create charm client: %w", err)
	}

	id, err := cc.ID()
	if err != nil {
		return nil, fmt.Errorf("get charm id: %w", err)
	}

	name := id
	if u, err := cc.Bio(); err == nil && u != nil && u.Name != "" {
		name = u.Name
	}
	return &models.Identity{UID: id, DisplayName: name}, nil
}

// SignOut leaves the Charm keys in place; unlinking is done with the charm CLI.
func (CharmProvider) SignOut(ctx context.Context) error { return nil }
