package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/vtree-dev/vtree/internal/config"
	"github.com/vtree-dev/vtree/pkg/metrics"
	"github.com/vtree-dev/vtree/pkg/snapshot"
	"github.com/vtree-dev/vtree/pkg/tracing"
	"github.com/vtree-dev/vtree/pkg/transport"
)

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP/WebSocket diff transport",
		Long: `serve starts an HTTP server exposing POST /diff and GET /ws,
backed by the snapshot store and instrumentation configured in vtree.json.

Examples:
  vtree serve
  vtree serve --port=9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Override the configured transport port")

	return cmd
}

func runServe(port int) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Transport.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.Default().With("component", "vtree")

	store, err := buildStore(cfg)
	if err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		metrics.Init(metrics.WithNamespace(cfg.Metrics.Namespace))
	}
	tracer := tracing.New(
		tracing.WithTracerName(cfg.Tracing.ServiceName),
		tracing.WithDiffFunc(metrics.InstrumentedDiff),
	)

	srv := transport.New(transport.Config{
		Store:  store,
		Tracer: tracer,
		Logger: logger,
	})

	httpServer := &http.Server{
		Addr:              cfg.Address(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	info("Listening on %s", cfg.Address())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		success("Shutting down...")
		return httpServer.Shutdown(shutdownCtx)
	}
}

func buildStore(cfg *config.Config) (snapshot.Store, error) {
	switch cfg.Snapshot.Backend {
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.Snapshot.Region))
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		client := s3.NewFromConfig(awsCfg)
		return snapshot.NewS3Store(client, cfg.Snapshot.Bucket, cfg.Snapshot.Prefix), nil
	default:
		return snapshot.NewMemoryStore(), nil
	}
}
