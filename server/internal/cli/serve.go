package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/fairwaylab/golfcoach/server/internal/auth"
	"github.com/fairwaylab/golfcoach/server/internal/config"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// logLevel is shared by the default logger so config reloads can change it.
var logLevel = new(slog.LevelVar)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, WebSocket hub and gRPC health service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, v.GetString("config"), v.GetString("ui_dir"))
		},
	}
	cmd.Flags().String("config", "", "path to config file (env GOLFCOACH_CONFIG)")
	cmd.Flags().String("ui-dir", "", "serve static UI files from this directory, e.g. ui/dist; overrides server.ui_dir")
	_ = v.BindPFlag("config", cmd.Flags().Lookup("config"))
	_ = v.BindPFlag("ui_dir", cmd.Flags().Lookup("ui-dir"))
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func serve(ctx context.Context, configPath, uiDir string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	sc := cfg.Server
	if uiDir == "" {
		uiDir = sc.UIDir
	}

	logLevel.Set(parseLevel(sc.Log.Level))
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("golfcoach-server starting", "version", version, "config", configPath)
	slog.Info("config loaded",
		"http_port", sc.HTTPPort,
		"grpc_port", sc.GRPCPort,
		"auth_mode", sc.Auth.Mode,
		"storage", sc.Storage.Backend,
		"repository", sc.Repository.Backend,
		"timezone", sc.Timezone,
		"locale", sc.Locale,
	)

	a, err := build(ctx, sc)
	if err != nil {
		return err
	}
	defer a.close()

	var lis net.Listener
	if sc.GRPCPort > 0 {
		lis, err = net.Listen("tcp", fmt.Sprintf(":%d", sc.GRPCPort))
		if err != nil {
			return fmt.Errorf("grpc: listen on %d: %w", sc.GRPCPort, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { a.store.Run(gctx); return nil })
	g.Go(func() error { a.hub.Run(gctx); return nil })

	if configPath != "" {
		g.Go(func() error {
			err := config.Watch(gctx, configPath, func(c *config.Config) { a.reload(c.Server) })
			if err != nil {
				slog.Warn("config: watch disabled", "err", err)
			}
			return nil
		})
	}

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", sc.HTTPPort),
		Handler:           a.handler(uiDir),
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		slog.Info("HTTP server listening", "port", sc.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http: %w", err)
		}
		return nil
	})

	var grpcSrv *grpc.Server
	var hs *health.Server
	if lis != nil {
		header, key := sc.Auth.EffectiveHeader(), sc.Auth.Key()
		grpcSrv = grpc.NewServer(
			grpc.UnaryInterceptor(auth.APIKeyInterceptor(sc.Auth.Mode, header, key)),
			grpc.StreamInterceptor(auth.APIKeyStreamInterceptor(sc.Auth.Mode, header, key)),
		)
		hs = health.NewServer()
		hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		healthpb.RegisterHealthServer(grpcSrv, hs)

		g.Go(func() error {
			slog.Info("gRPC health service listening", "port", sc.GRPCPort)
			if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("grpc: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("golfcoach-server shutting down")
		if hs != nil {
			hs.Shutdown()
		}
		if grpcSrv != nil {
			grpcSrv.GracefulStop()
		}
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(sctx)
	})

	return g.Wait()
}
