// Package cmd implements the shipment-tracker command line.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shipment-tracker/internal/app"
	"shipment-tracker/internal/core/config"
	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/features/shipments/domain"
	"shipment-tracker/internal/features/shipments/service"

	"github.com/spf13/cobra"
)

// ShipmentLister lists an account's shipments.
type ShipmentLister interface {
	GetShipments(ctx context.Context, creds domain.Credentials) ([]domain.ShipmentRecord, error)
}

// CustomsLooker resolves customs status for a batch of codes.
type CustomsLooker interface {
	LookupAll(ctx context.Context, codes []string) []service.LookupReport
}

// Services is what the commands use from the wired application.
type Services struct {
	Shipments ShipmentLister
	Lookups   CustomsLooker
	Close     func(ctx context.Context) error
}

// CommandFactory builds the command tree around an injectable service loader.
type CommandFactory struct {
	LoadServices func(ctx context.Context) (*Services, error)
}

var defaultCommandFactory = CommandFactory{
	LoadServices: loadServices,
}

// CreateRootCommand returns the root command with every subcommand attached.
func (f CommandFactory) CreateRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "shipment-tracker",
		Short:         "List forwarding portal shipments and their customs status",
		Long:          `shipment-tracker logs into the forwarding portal, lists an account's shipments and resolves the customs status of parcels in transit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(f.CreateShipmentsCommand(), f.CreateLookupCommand())
	return root
}

// withServices loads the services, runs fn and always releases them.
func (f CommandFactory) withServices(ctx context.Context, fn func(s *Services) error) (err error) {
	s, err := f.LoadServices(ctx)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if cerr := s.Close(closeCtx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

func loadServices(ctx context.Context) (*Services, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	a, err := app.Build(cfg)
	if err != nil {
		return nil, err
	}
	return &Services{
		Shipments: a.Shipments,
		Lookups:   a.Lookups,
		Close: func(ctx context.Context) error {
			defer logger.Sync()
			return a.Close(ctx)
		},
	}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Execute runs the CLI, cancelling the command on SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := defaultCommandFactory.CreateRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
