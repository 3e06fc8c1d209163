package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	cliconfig "github.com/yndnr/navkeep-go/internal/cli/config"
	"github.com/yndnr/navkeep-go/internal/infra/confloader"
	serverconfig "github.com/yndnr/navkeep-go/internal/server/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration inspection and validation",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the local CLI configuration",
				Action: configShow,
			},
			{
				Name:      "validate",
				Usage:     "Validate a server configuration file",
				ArgsUsage: "FILE",
				Action:    configValidate,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	configPath := cliconfig.DefaultConfigPath()

	fmt.Printf("CLI Configuration\n")
	fmt.Printf("=================\n\n")
	fmt.Printf("Config file: %s\n\n", configPath)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		defaults := cliconfig.Default()
		fmt.Printf("(No configuration file found)\n")
		fmt.Printf("\nDefault settings:\n")
		fmt.Printf("  Server:   %s\n", defaults.DefaultServer)
		fmt.Printf("  Output:   %s\n", defaults.DefaultOutput)
		fmt.Printf("  Socket:   %s\n", defaults.SocketPath)
		return nil
	}

	cfg, err := cliconfig.Load(configPath)
	if err != nil {
		return err
	}

	fmt.Printf("Server:   %s\n", cfg.DefaultServer)
	fmt.Printf("Output:   %s\n", cfg.DefaultOutput)
	fmt.Printf("Socket:   %s\n", cfg.SocketPath)
	if cfg.Token != "" {
		fmt.Printf("Token:    (set)\n")
	}
	return nil
}

func configValidate(c *cli.Context) error {
	filePath := c.Args().First()
	if filePath == "" {
		return fmt.Errorf("configuration file path required")
	}

	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	cfg := serverconfig.Default()
	loader := confloader.NewLoader(confloader.WithConfigFile(filePath))
	if err := loader.Load(cfg); err != nil {
		fmt.Printf("✗ Configuration is not loadable:\n  %v\n", err)
		return fmt.Errorf("validation failed")
	}

	if err := serverconfig.Verify(cfg); err != nil {
		fmt.Printf("✗ Configuration validation failed:\n  %v\n", err)
		return fmt.Errorf("validation failed")
	}

	fmt.Printf("✓ Configuration file is valid: %s\n", filePath)
	return nil
}
