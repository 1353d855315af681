package permission

import (
	"fmt"

	"github.com/ticketsync/ticketsync/internal/shared/authorization"
)

// Resources guarded by the enforcer.
const (
	ResourceTicket       = "ticket"
	ResourceNotification = "notification"
	ResourceDelivery     = "webhook_delivery"
	ResourceRealtime     = "realtime"
)

// Actions.
const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionReply  = "reply"
	ActionAll    = "*"
)

// DefaultPolicies is the role matrix installed on first start. Ownership of
// individual tickets is checked by the use cases, not here.
func DefaultPolicies() [][]string {
	user := authorization.RoleUser.String()
	admin := authorization.RoleAdmin.String()
	return [][]string{
		{user, ResourceTicket, ActionCreate},
		{user, ResourceTicket, ActionRead},
		{user, ResourceTicket, ActionUpdate},
		{user, ResourceTicket, ActionDelete},
		{user, ResourceTicket, ActionReply},
		{user, ResourceNotification, ActionRead},
		{user, ResourceNotification, ActionUpdate},
		{user, ResourceRealtime, ActionRead},

		{admin, ResourceDelivery, ActionAll},
	}
}

// DefaultInheritance: operators can do what users can, admins what operators can.
func DefaultInheritance() [][2]string {
	return [][2]string{
		{authorization.RoleOperator.String(), authorization.RoleUser.String()},
		{authorization.RoleAdmin.String(), authorization.RoleOperator.String()},
	}
}

// SeedDefaults installs the default matrix. Existing rules are left alone.
func (e *Enforcer) SeedDefaults() error {
	for _, p := range DefaultPolicies() {
		if err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return fmt.Errorf("failed to seed policy [%s, %s, %s]: %w", p[0], p[1], p[2], err)
		}
	}
	for _, g := range DefaultInheritance() {
		if err := e.AddRoleInheritance(g[0], g[1]); err != nil {
			return fmt.Errorf("failed to seed inheritance %s -> %s: %w", g[0], g[1], err)
		}
	}
	e.logger.Infow("default permission policies ensured",
		"policies", len(DefaultPolicies()),
		"inheritance", len(DefaultInheritance()),
	)
	return nil
}
