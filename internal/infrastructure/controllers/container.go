package controllers

import (
	"github.com/rios0rios0/repoclass/internal/domain/entities"
	"go.uber.org/dig"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	constructors := []any{
		NewSetupController,
		NewUpdateController,
		NewMigrateController,
		NewCloneController,
		NewOpenIssuesController,
		NewCloseIssuesController,
		NewListIssuesController,
		NewControllers,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	setupController *SetupController,
	updateController *UpdateController,
	migrateController *MigrateController,
	cloneController *CloneController,
	openIssuesController *OpenIssuesController,
	closeIssuesController *CloseIssuesController,
	listIssuesController *ListIssuesController,
) *[]entities.Controller {
	return &[]entities.Controller{
		setupController,
		updateController,
		migrateController,
		cloneController,
		openIssuesController,
		closeIssuesController,
		listIssuesController,
	}
}
