package cli

import (
	"fmt"
	"strconv"

	"github.com/mobile-next/spectrogesture/daemon"
	"github.com/mobile-next/spectrogesture/server"
	"github.com/mobile-next/spectrogesture/utils"
	"github.com/spf13/cobra"
)

const defaultServerAddress = "localhost:12000"

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Server management commands",
	Long:  `Commands for managing the spectrogesture JSON-RPC server.`,
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the spectrogesture server",
	Long:  `Starts the JSON-RPC server (HTTP on /rpc, WebSocket on /ws).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr := cmd.Flag("listen").Value.String()
		if listenAddr == "" {
			listenAddr = defaultServerAddress
		}

		// GetBool/GetString cannot fail for defined flags
		enableCORS, _ := cmd.Flags().GetBool("cors")
		isDaemon, _ := cmd.Flags().GetBool("daemon")
		useAuth, _ := cmd.Flags().GetBool("auth")

		// the daemon child re-runs this command and does its own checks
		if !daemon.IsChild() {
			if err := utils.CheckListenAddr(listenAddress(listenAddr)); err != nil {
				return err
			}
		}

		token := ""
		if useAuth {
			var err error
			token, err = serverToken(false)
			if err != nil {
				return err
			}
		}

		if isDaemon && !daemon.IsChild() {
			logFile, err := daemon.LogPath()
			if err != nil {
				utils.Verbose("No log file for daemon: %v", err)
			}

			if _, err := daemon.Daemonize(logFile); err != nil {
				return fmt.Errorf("failed to start daemon: %w", err)
			}

			fmt.Printf("Server daemon spawned, attempting to listen on %s\n", listenAddr)
			if logFile != "" {
				fmt.Printf("Logging to %s\n", logFile)
			}
			return nil
		}

		return server.StartServer(listenAddr, enableCORS, token)
	},
}

var serverKillCmd = &cobra.Command{
	Use:   "kill",
	Short: "Stop the daemonized spectrogesture server",
	Long:  `Connects to the server and sends a shutdown command via JSON-RPC.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// GetString cannot fail for defined flags
		addr, _ := cmd.Flags().GetString("listen")
		if addr == "" {
			addr = defaultServerAddress
		}

		token, err := storedToken()
		if err != nil {
			utils.Verbose("Could not read server token: %v", err)
		}

		if err := daemon.KillServer(addr, token); err != nil {
			return err
		}

		fmt.Printf("Server shutdown command sent successfully\n")
		return nil
	},
}

// listenAddress expands a bare port to host:port so it can be probed.
func listenAddress(addr string) string {
	if _, err := strconv.Atoi(addr); err == nil {
		return ":" + addr
	}
	return addr
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// add server subcommands
	serverCmd.AddCommand(serverStartCmd)
	serverCmd.AddCommand(serverKillCmd)

	// server start flags
	serverStartCmd.Flags().String("listen", "", "Address to listen on (e.g., 'localhost:12000' or '0.0.0.0:13000')")
	serverStartCmd.Flags().Bool("cors", false, "Enable CORS support")
	serverStartCmd.Flags().BoolP("daemon", "d", false, "Run server in daemon mode (background)")
	serverStartCmd.Flags().Bool("auth", false, "Require the bearer token shown by 'auth token'")

	// server kill flags
	serverKillCmd.Flags().String("listen", "", fmt.Sprintf("Address of server to kill (default: %s)", defaultServerAddress))
}
