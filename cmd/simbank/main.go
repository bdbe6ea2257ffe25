package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/simbank/bank"
	"github.com/kbukum/simbank/config"
	"github.com/kbukum/simbank/logger"
	"github.com/kbukum/simbank/oauth"
	"github.com/kbukum/simbank/observability"
	"github.com/kbukum/simbank/redis"
	"github.com/kbukum/simbank/server"
	"github.com/kbukum/simbank/session"
	"github.com/kbukum/simbank/simswap"
	"github.com/kbukum/simbank/version"
	"github.com/kbukum/simbank/web"
)

const gracefulTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.Config{})
		logger.Fatal("Failed to load configuration", logger.ErrorFields("startup", err))
	}

	logger.Init(cfg.Logging)
	log := logger.GetGlobalLogger()
	log.Info("Starting simbank", logger.Fields(
		"version", version.Short(),
		"environment", cfg.Environment,
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("Service failed", logger.ErrorFields("run", err))
	}
	log.Info("Shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	var metrics *observability.Metrics
	if cfg.Telemetry.Enabled {
		tp, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName:    cfg.Name,
			ServiceVersion: version.Get().Version,
			Environment:    cfg.Environment,
			Endpoint:       cfg.Telemetry.Endpoint,
			Insecure:       cfg.Telemetry.Insecure,
			SampleRate:     cfg.Telemetry.SampleRate,
		})
		if err != nil {
			return err
		}
		defer shutdownWithTimeout(tp.Shutdown, log, "tracer")

		mp, err := observability.InitMeter(ctx, &observability.MeterConfig{
			ServiceName:    cfg.Name,
			ServiceVersion: version.Get().Version,
			Environment:    cfg.Environment,
			Endpoint:       cfg.Telemetry.Endpoint,
			Insecure:       cfg.Telemetry.Insecure,
			Interval:       cfg.Telemetry.Interval,
		})
		if err != nil {
			return err
		}
		defer shutdownWithTimeout(mp.Shutdown, log, "meter")

		metrics, err = observability.NewMetrics(observability.Meter(cfg.Name))
		if err != nil {
			return err
		}
	}

	redisClient, err := redis.New(cfg.Redis, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	flow, err := oauth.NewFlow(cfg.OAuth, oauth.NewRedisTransactionStore(redisClient, ""), log)
	if err != nil {
		return err
	}

	sessions, err := session.NewManager(session.NewRedisStore(redisClient, "", cfg.Session.TTL), cfg.Session, log)
	if err != nil {
		return err
	}

	swapClient, err := simswap.New(cfg.SimSwap, log)
	if err != nil {
		return err
	}

	bankSvc, err := bank.NewService(cfg.Bank, swapClient, log)
	if err != nil {
		return err
	}

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()

	opts := []web.Option{web.WithHealthChecker(redisClient)}
	if metrics != nil {
		opts = append(opts, web.WithMetrics(metrics))
	}
	web.NewHandlers(flow, sessions, bankSvc, log, opts...).Register(srv.GinEngine())

	if err := srv.Start(ctx); err != nil {
		return err
	}
	log.Info("Listening", logger.Fields("addr", srv.Addr()))

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

func shutdownWithTimeout(fn func(context.Context) error, log *logger.Logger, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Warn("Shutdown error", logger.Fields("component", name, "error", err.Error()))
	}
}
