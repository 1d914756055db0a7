package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

type ValidateCmd struct {
	payloadPath string
	load        Loader
}

func NewValidateCmd(load Loader) *cobra.Command {
	vc := &ValidateCmd{load: load}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a payload can be rendered",
		RunE:  vc.run,
	}

	cmd.Flags().StringVar(&vc.payloadPath, "payload", "", "Path to the payload JSON file, - for stdin")
	_ = cmd.MarkFlagRequired("payload")

	return cmd
}

func (vc *ValidateCmd) run(cmd *cobra.Command, _ []string) error {
	payload, err := readInput(cmd, vc.payloadPath)
	if err != nil {
		return err
	}
	rt, err := vc.load(cmd)
	if err != nil {
		return err
	}
	if err := rt.Service.Validate(payload); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: payload is valid\n", vc.payloadPath)
	return nil
}
