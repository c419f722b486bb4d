package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meetlog/meetlog-capture/internal/capture"
)

func NewDevicesCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List available capture devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := capture.ListInputDevices()
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				fmt.Println("No capture devices found")
				return nil
			}
			for _, d := range devices {
				marker := " "
				if d.IsDefault {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, d.Name)
			}
			return nil
		},
	}
}
