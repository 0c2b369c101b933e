package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abraxas-365/wacloud/eventx"
	"github.com/Abraxas-365/wacloud/whatsappx"
	"github.com/Abraxas-365/wacloud/whatsappx/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	addr     string
	path     string
	queueURL string
	markRead bool
}

func newServeCmd(a *app) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the webhook endpoint and /metrics",
		Long: `Serve answers the subscription challenge on GET and verifies, decodes and
dispatches webhook notifications on POST. Received events are logged and,
with --sqs-queue, forwarded to an Amazon SQS queue.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.addr == "" {
				opts.addr = a.cfg.Get("server.addr").AsStringDefault(":8080")
			}
			if opts.path == "" {
				opts.path = a.cfg.Get("server.path").AsStringDefault("/webhook")
			}
			if opts.queueURL == "" {
				opts.queueURL = a.cfg.Get("sqs.queue").AsString()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a, opts)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default server.addr)")
	cmd.Flags().StringVar(&opts.path, "path", "", "webhook path (default server.path)")
	cmd.Flags().StringVar(&opts.queueURL, "sqs-queue", "", "forward events to this SQS queue URL")
	cmd.Flags().BoolVar(&opts.markRead, "mark-read", false, "mark every received message as read")
	return cmd
}

func serve(ctx context.Context, a *app, opts *serveOptions) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client := a.client(whatsappx.NewMetrics(reg))
	registerLogging(client, opts.markRead)

	if opts.queueURL != "" {
		pub, err := eventx.NewSQSPublisherFromEnv(ctx, opts.queueURL)
		if err != nil {
			return err
		}
		client.Forward(pub)
		log.Info("forwarding events to %s", opts.queueURL)
	}

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           newRouter(client, reg, opts.path),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info("listening on %s, webhook at %s", opts.addr, opts.path)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newRouter(client *whatsappx.Client, gatherer prometheus.Gatherer, path string) *mux.Router {
	router := mux.NewRouter()
	middleware.RegisterMux(router, path, client)
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)
	return router
}

func registerLogging(client *whatsappx.Client, markRead bool) {
	client.
		OnMessage(func(ctx context.Context, ev *whatsappx.MessageEvent) (any, error) {
			log.Info("%s", ev)
			if markRead {
				ev.Offload(ctx, func(ctx context.Context) error {
					return ev.MarkAsRead(ctx, false)
				})
			}
			return nil, nil
		}).
		OnStatus(func(ctx context.Context, ev *whatsappx.StatusEvent) (any, error) {
			if ev.Error != nil {
				log.Warn("message %s to %s is %s: %s", ev.ID, ev.Phone, ev.Status, ev.Error.Title)
				return nil, nil
			}
			log.Info("message %s to %s is %s", ev.ID, ev.Phone, ev.Status)
			return nil, nil
		}).
		OnCall(func(ctx context.Context, ev *whatsappx.CallEvent) (any, error) {
			log.Info("call %s from %s (%s): %s", ev.Call.ID, ev.From, ev.Name, ev.Call.Event)
			return nil, nil
		})
}
