package authorization

import (
	"github.com/gin-gonic/gin"

	"github.com/ticketsync/ticketsync/internal/shared/constants"
)

// CanAccessTicket allows operators everywhere and users on their own tickets.
func CanAccessTicket(userID uint, userRole UserRole, creatorID uint, operatorID *uint) bool {
	if userRole.IsOperator() {
		return true
	}
	if userID == creatorID {
		return true
	}
	return operatorID != nil && *operatorID == userID
}

// CurrentUser returns the caller placed on the context by the auth middleware.
func CurrentUser(c *gin.Context) (uint, UserRole, bool) {
	userID := c.GetUint(constants.ContextKeyUserID)
	if userID == 0 {
		return 0, "", false
	}
	return userID, ParseUserRole(c.GetString(constants.ContextKeyUserRole)), true
}
