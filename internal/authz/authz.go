// Package authz holds the ownership policy shared by every client-owned resource.
package authz

import (
	"github.com/beautyai/beautyai-api/internal/httperr"
	"github.com/beautyai/beautyai-api/internal/models"
)

type Access int

const (
	// Read covers viewing a client's resources and talking in their chat.
	Read Access = iota
	// Manage covers writes only the cosmetologist may perform.
	Manage
)

var ErrForbidden = httperr.ErrForbidden("not_enough_permissions", "Not enough permissions")

// Authorize decides whether caller may access resources owned by client.
// The client must already be loaded; existence is the caller's concern.
func Authorize(caller *models.User, client *models.Client, access Access) error {
	switch caller.Role {
	case models.RoleSuperadmin:
		return nil
	case models.RoleAdmin:
		if client.AssignedTo(caller.ID) {
			return nil
		}
	case models.RoleClient:
		if access == Read && client.UserID == caller.ID {
			return nil
		}
	}
	return ErrForbidden
}

// IsCounterpartClient reports whether caller is the client side of the thread.
func IsCounterpartClient(caller *models.User, client *models.Client) bool {
	return caller.Role == models.RoleClient && client.UserID == caller.ID
}
