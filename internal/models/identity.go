// ABOUTME: Identity model for the signed-in user.
// ABOUTME: The UID scopes every record to a private namespace.
package models

// Identity is the signed-in user.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
}

// Same reports whether two possibly-nil identities refer to the same user.
func (i *Identity) Same(other *Identity) bool {
	if i == nil || other == nil {
		return i == nil && other == nil
	}
	return i.UID == other.UID
}
