package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/angelofallars/statmaster/app"
	"github.com/angelofallars/statmaster/internal/config"
	"github.com/angelofallars/statmaster/internal/report"
	"github.com/angelofallars/statmaster/internal/service"
	"github.com/angelofallars/statmaster/pkg/pdftext"
)

var (
	serveHost string
	servePort uint
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the StatMaster web app",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Bind address (overrides STATMASTER_HOST)")
	serveCmd.Flags().UintVar(&servePort, "port", 0, "Port to listen on (overrides STATMASTER_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// A .env file is optional; without one the environment and the
	// defaults decide everything.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	svcAnalyze := service.NewAnalyzer(pdftext.New(), report.NewPDFRenderer(), logger)

	a := app.New(logger, cfg, svcAnalyze)
	if serveHost != "" {
		a = a.WithHost(serveHost)
	}
	if servePort != 0 {
		a = a.WithPort(servePort)
	}

	return a.Serve()
}
