package cmd

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/roffe/canshark"
	"github.com/spf13/cobra"
	"go.bug.st/serial/enumerator"
)

var adaptersCmd = &cobra.Command{
	Use:   "adapters",
	Short: "List available adapters",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, a := range canshark.ListAdapters() {
			fmt.Fprintln(cmd.OutOrStdout(), a.String())
		}
	},
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := enumerator.GetDetailedPortsList()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, port := range ports {
			fmt.Fprintf(out, "port: %s\n", port.Name)
			if port.IsUSB {
				fmt.Fprintf(out, "   USB ID      %s:%s\n", port.VID, port.PID)
				fmt.Fprintf(out, "   USB serial  %s\n", port.SerialNumber)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(adaptersCmd)
	rootCmd.AddCommand(portsCmd)
}

func pickPort() (string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", err
	}
	if len(ports) == 0 {
		return "", errors.New("no serial ports found")
	}
	var items []string
	for _, p := range ports {
		items = append(items, p.Name)
	}
	prompt := promptui.Select{
		Label:    "Select port",
		HideHelp: true,
		Items:    items,
	}
	_, result, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return result, nil
}
