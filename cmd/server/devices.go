package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"waterwatch.io/commissioning-service/pkg/common"
	"waterwatch.io/commissioning-service/pkg/fleet"
	"waterwatch.io/commissioning-service/pkg/models"
)

func newDevicesCommand() *cobra.Command {
	devices := &cobra.Command{
		Use:   "devices",
		Short: "Operate on devices directly against the database",
	}
	devices.AddCommand(newTransitionCommand())
	return devices
}

// newTransitionCommand is the operator path for bulk moves such as
// decommissioning a batch after a recall.
func newTransitionCommand() *cobra.Command {
	var to, actor, reason string

	cmd := &cobra.Command{
		Use:   "transition --to <state> <device-id>...",
		Short: "Move devices to a lifecycle state, each independently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := fleet.ParseLifecycleState(to)
			if err != nil {
				return err
			}

			cfg, err := common.LoadConfig()
			if err != nil {
				return err
			}

			fleetCore := fleet.Fleet{Db: *openDB(cfg)}
			fleetCore.WithServices(fleet.ServiceOpts{Lifecycle: fleetCore.GetILifecycle()})

			results := fleetCore.Lifecycle.BulkTransition(cmd.Context(), args, target, models.TransitionMetadata{
				Actor:  actor,
				Reason: reason,
			})

			failed := 0
			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(out, "%s\tFAILED\t%s\n", r.DeviceID, r.Error)
					continue
				}
				fmt.Fprintf(out, "%s\t%s -> %s\n", r.DeviceID, r.Outcome.Previous, r.Outcome.Current)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d devices not moved", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "target lifecycle state")
	cmd.Flags().StringVar(&actor, "actor", "cli", "actor recorded in the audit trail")
	cmd.Flags().StringVar(&reason, "reason", "", "reason recorded in the audit trail")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
