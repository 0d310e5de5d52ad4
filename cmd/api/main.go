package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/app"
	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/clock"
	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/config"
	gatewaykafka "github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/gateway/kafka"
	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/idempotency"
	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/logging"
	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/storage/postgres"
	transporthttp "github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/transport/http"
	"github.com/bjoern621/VibeSoftwareEngineering-sub001/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logging.New()
	cfg := config.Load(log)

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Error("connect to db failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Error("db ping failed", "err", err)
		os.Exit(1)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Error("apply migrations failed", "err", err)
		os.Exit(1)
	}

	clk := clock.NewSystem()

	seats := app.NewSeatStateMachine(postgres.NewSeatRepository(pool), clk)
	ledger := app.NewReservationLedger(postgres.NewReservationRepository(pool), seats, clk,
		app.WithHoldTTL(cfg.HoldTTL))
	catalog := app.NewCatalogService(postgres.NewCatalogRepository(pool), clk)

	var gateway app.PaymentGateway
	var producer *gatewaykafka.ChargeProducer
	if len(cfg.KafkaBrokers) > 0 {
		producer = gatewaykafka.NewChargeProducer(log, cfg.KafkaBrokers, cfg.ChargeTopic)
		defer producer.Close()
		gateway = producer
	} else {
		log.Warn("KAFKA_BROKERS not set, charges are logged only")
		gateway = logGateway{log: log}
	}

	saga := app.NewOrderPaymentSaga(postgres.NewOrderRepository(pool), ledger, seats, gateway, clk, log)

	reclaimer := app.NewExpiryReclaimer(ledger, seats, clk, log,
		app.WithBatchSize(cfg.ReclaimBatchSize),
		app.WithInterval(cfg.ReclaimInterval))

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := reclaimer.Run(runCtx); err != nil {
			log.Error("reclaimer stopped", "err", err)
		}
	}()

	if len(cfg.KafkaBrokers) > 0 {
		var idem gatewaykafka.Deduper
		if cfg.RedisAddr != "" {
			rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
			defer rdb.Close()
			idem = idempotency.NewStore(rdb, 24*time.Hour)
		}
		consumer := gatewaykafka.NewOutcomeConsumer(log, cfg.KafkaBrokers, cfg.OutcomeTopic, cfg.OutcomeGroup, saga, idem)
		go func() {
			if err := consumer.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("outcome consumer stopped", "err", err)
			}
		}()
	}

	handler := transporthttp.NewRouter(transporthttp.Services{
		Holds:     ledger,
		Purchases: saga,
		Payments:  saga,
		Catalog:   catalog,
		Logger:    log,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	log.Info("api listening", "port", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "err", err)
		}
	case <-runCtx.Done():
		log.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server shutdown error", "err", err)
	}
	log.Info("server stopped")
}

// logGateway stands in for the payment gateway when no broker is configured.
type logGateway struct {
	log *slog.Logger
}

func (g logGateway) Charge(_ context.Context, req app.ChargeRequest) error {
	g.log.Info("charge requested (no broker)", "order_id", req.OrderID, "amount_cents", req.AmountCents)
	return nil
}
