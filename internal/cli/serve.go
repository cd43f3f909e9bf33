package cli

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/xtding233/ba-companion/internal/banner"
	"github.com/xtding233/ba-companion/internal/gamedata"
	"github.com/xtding233/ba-companion/internal/rpc"
	"github.com/xtding233/ba-companion/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators over HTTP and gRPC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("http"); cmd.Flags().Changed("http") {
				a.cfg.HTTPAddr = addr
			}
			if addr, _ := cmd.Flags().GetString("grpc"); cmd.Flags().Changed("grpc") {
				a.cfg.GRPCAddr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().String("http", ":8080", "HTTP listen address (default from config)")
	cmd.Flags().String("grpc", ":9090", "gRPC listen address, empty to disable (default from config)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	log := a.log
	cfg := a.cfg

	// fail fast on broken data files
	if _, err := a.calculator(); err != nil {
		return err
	}
	if cfg.Data.Dir != "" && cfg.Data.WatchInterval > 0 {
		w := gamedata.WatchLoader(a.loader, cfg.Data.WatchInterval, func(path string) {
			if _, err := a.loader.Calculator(); err != nil {
				log.Error().Err(err).Str("file", path).Msg("Game data reload failed")
				return
			}
			log.Info().Str("file", path).Msg("Game data reloaded")
		})
		w.Start()
		defer w.Stop()
	}

	feed, err := newFeed(cfg.Feed, log)
	if err != nil {
		return err
	}
	var (
		httpBanners server.BannerSource
		rpcBanners  rpc.BannerSource
	)
	if feed != nil {
		snap := banner.NewSnapshot(feed, log)
		if err := snap.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("Initial banner fetch failed, will retry on schedule")
		}
		c := cron.New()
		if _, err := snap.Schedule(c, cfg.Feed.Refresh); err != nil {
			return err
		}
		c.Start()
		defer c.Stop()
		httpBanners, rpcBanners = snap, snap
	}

	pace := a.pace()
	httpSrv := server.New(server.Config{Addr: cfg.HTTPAddr}, server.NewHandler(a.loader, httpBanners, pace, log), log)

	var (
		grpcSrv *grpc.Server
		lis     net.Listener
	)
	if cfg.GRPCAddr != "" {
		lis, err = net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return err
		}
		grpcSrv = rpc.NewServer(rpc.NewService(a.loader, rpcBanners, pace, log), log)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(httpSrv.Start)
	if grpcSrv != nil {
		g.Go(func() error {
			log.Info().Str("addr", cfg.GRPCAddr).Msg("Starting gRPC server")
			if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if grpcSrv != nil {
			grpcSrv.GracefulStop()
		}
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
