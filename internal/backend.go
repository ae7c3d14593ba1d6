package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/lane2go/lane2go/internal/actuation"
	"github.com/lane2go/lane2go/internal/api"
	"github.com/lane2go/lane2go/internal/configuration"
	"github.com/lane2go/lane2go/internal/controller"
	"github.com/lane2go/lane2go/internal/debug"
	"github.com/lane2go/lane2go/internal/perception"
	"github.com/lane2go/lane2go/internal/persistence"
	"github.com/lane2go/lane2go/internal/precision"
	"github.com/lane2go/lane2go/internal/statistics"
	"github.com/lane2go/lane2go/internal/steering"
	"github.com/lane2go/lane2go/internal/transport"
	"github.com/lane2go/lane2go/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

func RunDaemon() {
	if err := runDaemon(configuration.CurrentConfig); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ui.Info("Done.")
	os.Exit(0)
}

func runDaemon(config configuration.Configuration) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient, err := transport.NewRedisClient(ctx, config.Redis)
	if err != nil {
		return err
	}
	defer func(client *redis.Client) {
		_ = client.Close()
	}(redisClient)

	sink, closeSink, err := createSink(ctx, config, redisClient)
	if err != nil {
		return err
	}
	defer closeSink()

	law, err := steering.NewSteeringLaw[precision.Float](config.Steering)
	if err != nil {
		return err
	}

	bridge := perception.NewBridge()
	detector := perception.NewRowScanDetector(config.Detector)
	publisher := actuation.NewQueuedPublisher(sink, config.Topic.QueueSize)

	var pers persistence.Persistence
	var recorder *persistence.Recorder[precision.Float]
	var renderer *debug.Renderer[precision.Float]
	var listeners []controller.CycleListener[precision.Float]
	if config.Recorder.Enabled {
		pers = persistence.NewPersistence(config.DbPath)
		if err := pers.Init(); err != nil {
			return err
		}
		recorder = persistence.NewRecorder[precision.Float](pers)
		listeners = append(listeners, recorder)
	}
	if config.Debug {
		renderer = debug.NewRenderer[precision.Float](detector, config.DebugFrameOut, config.DebugPlotInterval)
		listeners = append(listeners, renderer)
	}

	loop := controller.NewControlLoop[precision.Float](config, controller.Dependencies[precision.Float]{
		Frames:    bridge,
		Detector:  detector,
		Law:       law,
		Publisher: publisher,
		Listeners: listeners,
	})

	var g run.Group
	{
		if config.Statistics.Enabled {
			statistics.Register(statistics.NewLoopCollector[precision.Float](loop))
			statistics.Register(statistics.NewTransportCollector(publisher, bridge))
			if recorder != nil {
				statistics.Register(statistics.NewRecorderCollector(recorder))
			}

			// === Prometheus Exporter
			port := config.Statistics.Port
			if port <= 0 || port >= 65535 {
				port = 9000
			}
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			server := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

			g.Add(func() error {
				ui.Info("Serving metrics on %s/metrics", server.Addr)
				err := server.ListenAndServe()
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("statistics server: %w", err)
			}, func(err error) {
				ui.Info("Stopping statistics server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer timeoutCancel()
				if err := server.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping statistics server: %v", err)
				}
			})
		}
	}
	{
		if config.Api.Enabled {
			// === REST status API
			rest := api.CreateRestService[precision.Float](loop, pers)
			addr := fmt.Sprintf("%s:%d", config.Api.Host, config.Api.Port)

			g.Add(func() error {
				ui.Info("Serving REST API on %s", addr)
				err := rest.Start(addr)
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("rest api: %w", err)
			}, func(err error) {
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer timeoutCancel()
				if err := rest.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping REST API: %v", err)
				}
			})
		}
	}
	{
		// === camera frames
		subscriber := transport.NewFrameSubscriber(redisClient, config.Topic.Subscribe, bridge.OnFrame)
		g.Add(func() error {
			err := subscriber.Run(ctx)
			ui.Info("Frame subscriber stopped.")
			return err
		}, func(err error) {
			cancel()
		})
	}
	{
		// === actuation
		g.Add(func() error {
			err := publisher.Run(ctx)
			ui.Info("Command publisher stopped.")
			return err
		}, func(err error) {
			cancel()
		})
	}
	{
		if recorder != nil {
			g.Add(func() error {
				return recorder.Run(ctx)
			}, func(err error) {
				cancel()
			})
		}
		if renderer != nil {
			g.Add(func() error {
				return renderer.Run(ctx)
			}, func(err error) {
				cancel()
			})
		}
	}
	{
		// === control loop
		g.Add(func() error {
			err := loop.Run(ctx)
			ui.Info("Control loop stopped.")
			return err
		}, func(err error) {
			if err != nil {
				ui.Warning("Stopping control loop: %v", err)
			}
			cancel()
		})
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case s := <-sig:
				ui.Info("Received %s signal, exiting...", s)
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	return g.Run()
}

// createSink creates the actuation channel selected by the configuration,
// the returned close function must be called once the sink is no longer used.
func createSink(ctx context.Context, config configuration.Configuration, client *redis.Client) (actuation.Sink, func(), error) {
	switch config.Transport.Publisher {
	case configuration.PublisherRedis:
		return transport.NewRedisSink(client, config.Topic.Publish), func() {}, nil
	case configuration.PublisherCan:
		sink, err := transport.NewCanSink(ctx, config.Can.Interface, config.Can.CommandId)
		if err != nil {
			return nil, nil, err
		}
		return sink, func() {
			_ = sink.Close()
		}, nil
	case configuration.PublisherLog:
		return actuation.LogSink{}, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unsupported publisher: %s", config.Transport.Publisher)
}
