package main

import (
	"fmt"
	"os"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"
)

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Run the Telegram gateway",
	Long: `Run the lampbot gateway: long-poll Telegram and answer lamp commands.

It can run in foreground mode or be installed as a system service.

Examples:
  # Run in foreground (default)
  lampbot gateway

  # Install as system service (requires sudo/admin privileges)
  sudo lampbot gateway install

  # Control the service
  sudo lampbot gateway start
  sudo lampbot gateway stop
  sudo lampbot gateway restart
  sudo lampbot gateway status

  # Uninstall the service
  sudo lampbot gateway uninstall`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Starting lampbot gateway in foreground mode...")
		fmt.Println("To install as a system service, use: lampbot gateway install")
		fmt.Println()

		runGatewayForeground()
	},
}

var gatewayRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run gateway in foreground or as service",
	Long:  `Run the gateway. When installed as a service, this is called automatically.`,
	Run:   runGatewayRun,
}

var gatewayStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check gateway service status",
	Run: func(cmd *cobra.Command, args []string) {
		if err := StatusService(); err != nil {
			fmt.Fprintf(os.Stderr, "Error checking service status: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	gatewayCmd.AddCommand(gatewayRunCmd)
	gatewayCmd.AddCommand(gatewayStatusCmd)

	for _, action := range service.ControlAction {
		gatewayCmd.AddCommand(controlCommand(action))
	}
}

// controlCommand builds the install/uninstall/start/stop/restart command.
func controlCommand(action string) *cobra.Command {
	return &cobra.Command{
		Use:   action,
		Short: fmt.Sprintf("%s the gateway service", capitalize(action)),
		Long: fmt.Sprintf(`%s the lampbot gateway system service
(systemd on Linux, launchd on macOS, Windows Service Manager).
Requires administrator/root privileges.`, capitalize(action)),
		Run: func(cmd *cobra.Command, args []string) {
			if err := ControlService(action); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				fmt.Fprintln(os.Stderr, "\nNote: Managing system services requires administrator privileges.")
				fmt.Fprintln(os.Stderr, "Please run with sudo (Linux/macOS) or as Administrator (Windows).")
				os.Exit(1)
			}
		},
	}
}

// runGatewayRun runs the gateway under the service manager when started by
// one, and in the foreground otherwise.
func runGatewayRun(cmd *cobra.Command, args []string) {
	if !service.Interactive() {
		if err := RunService(); err != nil {
			fmt.Fprintf(os.Stderr, "Error running service: %v\n", err)
			os.Exit(1)
		}
		return
	}
	runGatewayForeground()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
