package mappers

import (
	"github.com/ticketsync/ticketsync/internal/domain/platform"
	"github.com/ticketsync/ticketsync/internal/infrastructure/persistence/models"
)

func PlatformToModel(p *platform.Platform) *models.PlatformModel {
	return &models.PlatformModel{
		ID:            p.ID(),
		Name:          p.Name(),
		RepositoryURL: p.RepositoryURL(),
	}
}

func PlatformToDomain(model *models.PlatformModel) *platform.Platform {
	if model == nil {
		return nil
	}
	return platform.ReconstructPlatform(model.ID, model.Name, model.RepositoryURL)
}
