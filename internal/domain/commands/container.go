package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	constructors := []any{
		NewSetupCommand,
		NewUpdateCommand,
		NewMigrateCommand,
		NewCloneCommand,
		NewOpenIssuesCommand,
		NewCloseIssuesCommand,
		NewListIssuesCommand,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Bind interfaces to implementations
	bindings := []any{
		func(impl *SetupCommand) Setup { return impl },
		func(impl *UpdateCommand) Update { return impl },
		func(impl *MigrateCommand) Migrate { return impl },
		func(impl *CloneCommand) Clone { return impl },
		func(impl *OpenIssuesCommand) OpenIssues { return impl },
		func(impl *CloseIssuesCommand) CloseIssues { return impl },
		func(impl *ListIssuesCommand) ListIssues { return impl },
	}
	for _, binding := range bindings {
		if err := container.Provide(binding); err != nil {
			return err
		}
	}

	return nil
}
