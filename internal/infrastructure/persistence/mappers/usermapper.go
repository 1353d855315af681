package mappers

import (
	"github.com/ticketsync/ticketsync/internal/domain/user"
	"github.com/ticketsync/ticketsync/internal/infrastructure/persistence/models"
	"github.com/ticketsync/ticketsync/internal/shared/authorization"
)

func UserToModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		ID:          u.ID(),
		Email:       u.Email(),
		DisplayName: u.DisplayName(),
		Role:        u.Role().String(),
	}
}

func UserToDomain(model *models.UserModel) *user.User {
	if model == nil {
		return nil
	}
	return user.ReconstructUser(model.ID, model.Email, model.DisplayName, authorization.ParseUserRole(model.Role))
}

func UsersToDomain(list []*models.UserModel) []*user.User {
	out := make([]*user.User, 0, len(list))
	for _, m := range list {
		out = append(out, UserToDomain(m))
	}
	return out
}
