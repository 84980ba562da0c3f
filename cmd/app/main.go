package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/quire/internal"
	pkgconfig "github.com/starford/quire/pkg/config"
)

const defaultConfigPath = "config/config.yaml"

var version = "dev"

// loadConfig reads the config file over the defaults. The file may be
// absent only when the path was not given explicitly.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if cmd.IsSet("config") {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		return cfg, nil
	}
	if _, err := pkgconfig.LoadIfExists(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// action adapts an internal entry point to a cli action.
func action(name string, fn func(context.Context, ...internal.Option) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		opts := []internal.Option{
			internal.WithConfig(cfg),
			internal.WithVersion(version),
		}
		if err := fn(ctx, opts...); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("sample") {
		return action("sample", internal.CreateSample)(ctx, cmd)
	}
	return action("build", internal.Run)(ctx, cmd)
}

func main() {
	cmd := &cli.Command{
		Name:    "quire",
		Usage:   "Static blog builder: Markdown posts in, HTML pages and a JSON posts index out",
		Version: version,
		Action:  run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: defaultConfigPath,
				Value:       defaultConfigPath,
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.BoolFlag{
				Name:  "sample",
				Usage: "Write a sample post into the posts directory and exit without building",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "watch",
				Usage:  "Build, then rebuild whenever a post or the template changes",
				Action: action("watch", internal.Watch),
			},
			{
				Name:   "serve",
				Usage:  "Build and serve the site with a preview API, live build events and rebuild on change",
				Action: action("serve", internal.Serve),
			},
			{
				Name:   "mcp",
				Usage:  "Build and serve MCP tools over stdio",
				Action: action("mcp", internal.ServeMCP),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
