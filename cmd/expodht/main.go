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

	"github.com/prometheus/client_golang/prometheus"

	"github.com/crazybolillo/expodht/internal/api"
	"github.com/crazybolillo/expodht/internal/config"
	"github.com/crazybolillo/expodht/internal/logging"
	"github.com/crazybolillo/expodht/internal/metrics"
	"github.com/crazybolillo/expodht/internal/pulse"
	"github.com/crazybolillo/expodht/internal/sampler"
	"github.com/crazybolillo/expodht/internal/telemetry"
)

func main() {
	lg, err := logging.New()
	if err != nil {
		panic(err)
	}
	defer lg.Close()
	log := lg.Logger

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("config loaded",
		slog.String("bind", cfg.ListenAddr()),
		slog.Int("gpioPin", cfg.GPIOPin),
		slog.Duration("interval", cfg.Interval),
		slog.Bool("dummyMode", cfg.DummyMode),
	)

	var source pulse.Source
	if cfg.DummyMode {
		source = pulse.NewDummy()
		log.Info("running in dummy mode, metrics are synthetic",
			slog.Duration("interval", cfg.Interval))
	} else {
		pin, err := pulse.OpenPin(cfg.GPIOPin, log)
		if err != nil {
			log.Error("cannot acquire gpio pin", slog.Int("pin", cfg.GPIOPin), slog.Any("err", err))
			os.Exit(1)
		}
		source = pin
		log.Info("sensor attached", slog.Int("gpioPin", cfg.GPIOPin))
	}

	store := metrics.NewStore()
	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics.NewCollector(store))

	var publishers []telemetry.Publisher
	if cfg.MQTTBroker != "" {
		pub, err := telemetry.NewMQTT(cfg.MQTTBroker, cfg.SensorID, cfg.MQTTTopic)
		if err != nil {
			log.Error("mqtt setup failed", slog.Any("err", err))
			os.Exit(1)
		}
		publishers = append(publishers, pub)
		log.Info("forwarding readings to mqtt", slog.String("broker", cfg.MQTTBroker), slog.String("topic", cfg.MQTTTopic))
	}
	if len(cfg.KafkaBrokers) > 0 {
		publishers = append(publishers, telemetry.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic))
		log.Info("forwarding readings to kafka", slog.Any("brokers", cfg.KafkaBrokers), slog.String("topic", cfg.KafkaTopic))
	}
	defer func() {
		for _, p := range publishers {
			if err := p.Close(); err != nil {
				log.Warn("publisher close failed", slog.Any("err", err))
			}
		}
	}()

	smp := sampler.New(sampler.Config{
		SensorID:       cfg.SensorID,
		BitThresholdUS: cfg.BitThresholdUS,
	}, source, store, publishers, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go smp.Run(ctx, cfg.Interval)

	srv := api.NewServer(cfg.ListenAddr(), log, reg)
	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Start()
	}()
	log.Info("listening", slog.String("addr", cfg.ListenAddr()))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", slog.Any("err", err))
			os.Exit(1)
		}
	case <-stop:
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.Any("err", err))
	}
	log.Info("expodht stopped")
}
