package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"waterwatch.io/commissioning-service/pkg/common"
	"waterwatch.io/commissioning-service/pkg/fleet"
)

func newTemplatesCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Print the device types and the tests each one runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = strings.TrimSpace(os.Getenv(common.EnvKeyTemplatesPath))
			}

			templates, err := fleet.LoadTemplates(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rule := templates.PhotoRule()
			fmt.Fprintf(out, "photos: at least %d", rule.MinCount)
			if len(rule.RequiredCategories) > 0 {
				fmt.Fprintf(out, ", categories %s", strings.Join(rule.RequiredCategories, ", "))
			}
			fmt.Fprintln(out)

			for _, deviceType := range templates.DeviceTypes() {
				fmt.Fprintf(out, "%s (%s): %s\n",
					deviceType,
					templates.ChecklistTypeFor(deviceType),
					strings.Join(templates.TestIDsFor(deviceType), ", "),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "templates file, defaults to the embedded templates")

	return cmd
}
