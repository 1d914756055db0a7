package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/vehicle-atlas/pkg/runtime/bootstrap"
	"github.com/de-tools/vehicle-atlas/pkg/server"
	"github.com/de-tools/vehicle-atlas/pkg/services/config"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Vehicle Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the vehicle-atlas.yaml file (default is ./vehicle-atlas.yaml)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logger := zerolog.New(os.Stdout).Level(cfg.LogLevel()).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	rt, err := bootstrap.New(ctx, cfg, bootstrap.Renderers())
	if err != nil {
		return fmt.Errorf("failed to initialise report service: %w", err)
	}

	logger.Info().Msgf("Renderer ready with formats: %v", rt.Service.Formats())
	logger.Info().Msgf("Found the following packages: %v", rt.Packages.Names())
	if rt.Store != nil {
		logger.Info().Str("backend", cfg.Artifacts.Backend).Msg("artifact publishing enabled")
	}

	api := server.NewWebAPI(server.Config{
		Addr:            cfg.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Reports:   rt.Service,
			Artifacts: rt.Store,
			Logger:    logger,
		},
	})
	return api.Start()
}
