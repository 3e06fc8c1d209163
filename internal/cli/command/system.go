package command

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/navkeep-go/internal/cli/connection"
	"github.com/yndnr/navkeep-go/internal/cli/output"
	"github.com/yndnr/navkeep-go/internal/infra/buildinfo"
)

// SystemCommand returns the system subcommand group.
func SystemCommand() *cli.Command {
	return &cli.Command{
		Name:    "system",
		Aliases: []string{"sys"},
		Usage:   "System management commands",
		Subcommands: []*cli.Command{
			{
				Name:   "health",
				Usage:  "Check server health",
				Action: systemHealth,
			},
			{
				Name:   "ready",
				Usage:  "Check server readiness and lifecycle phase",
				Action: systemReady,
			},
			{
				Name:   "ping",
				Usage:  "Ping the host bridge socket",
				Action: systemPing,
			},
			{
				Name:   "version",
				Usage:  "Show CLI and server versions",
				Action: systemVersion,
			},
		},
	}
}

func systemHealth(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/health")
	if err != nil {
		PrintError("Health check failed: %v", err)
		return fmt.Errorf("server unhealthy")
	}

	var result struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON:
		formatter := &output.JSONFormatter{}
		return formatter.Format(os.Stdout, result)
	default:
		if result.Status == "healthy" {
			fmt.Printf("✓ Server is healthy\n")
			fmt.Printf("  Target: %s\n", client.BaseURL())
		} else {
			fmt.Printf("✗ Server is unhealthy: %s\n", result.Status)
		}
		return nil
	}
}

func systemReady(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/ready")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Status string `json:"status"`
		Phase  string `json:"phase"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON:
		formatter := &output.JSONFormatter{}
		return formatter.Format(os.Stdout, result)
	default:
		if result.Status == "ready" {
			fmt.Printf("✓ Server is ready (phase: %s)\n", result.Phase)
		} else {
			fmt.Printf("✗ Server is not ready: %s\n", result.Status)
		}
		return nil
	}
}

func systemPing(c *cli.Context) error {
	flags := ParseGlobalFlags(c)

	client := connection.NewSocketClient(flags.Socket)
	defer client.Close()

	start := time.Now()
	reply, err := client.Execute("PING")
	if err != nil {
		return fmt.Errorf("bridge unreachable: %w", err)
	}
	if !strings.EqualFold(reply, "PONG") {
		return fmt.Errorf("unexpected bridge reply: %q", reply)
	}

	fmt.Printf("PONG from %s (%.1fms)\n", flags.Socket, float64(time.Since(start).Microseconds())/1000)
	return nil
}

func systemVersion(c *cli.Context) error {
	fmt.Printf("navkeep-cli %s\n", buildinfo.String())

	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/health")
	if err != nil {
		fmt.Printf("server: unreachable\n")
		return nil
	}

	var result struct {
		Version string `json:"version"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		fmt.Printf("server: unreachable\n")
		return nil
	}

	fmt.Printf("server: %s\n", result.Version)
	return nil
}
