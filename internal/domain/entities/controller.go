package entities

import (
	"github.com/spf13/cobra"
)

// ControllerBind holds the Cobra metadata a controller exposes.
type ControllerBind struct {
	Use   string
	Short string
	Long  string
}

// Controller is a CLI subcommand handler. Execute returns an error so the
// process can exit non-zero when any batch item failed.
type Controller interface {
	GetBind() ControllerBind
	Execute(cmd *cobra.Command, args []string) error
}
