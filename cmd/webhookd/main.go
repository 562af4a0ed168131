package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/paybound/stripekit"
)

func run(log *zap.Logger, configPath string) error {
	config, err := stripekit.LoadConfig(configPath)

	if err != nil {
		return err
	}

	verifier, err := config.Verifier()

	if err != nil {
		return err
	}

	hook := stripekit.NewHookHandler(verifier, stripekit.NewMemStore(), func(err error) {
		log.Error("webhook rejected", zap.Error(err))
	})

	hook.Handle("payment_intent.succeeded", func(ev *stripekit.Event, w http.ResponseWriter, r *http.Request) {
		pi := ev.Data.Object.(*stripekit.PaymentIntent)

		log.Info("payment succeeded",
			zap.String("payment_intent", pi.ID),
			zap.Int64("amount", pi.Amount),
			zap.String("currency", string(pi.Currency)),
		)
		w.WriteHeader(http.StatusOK)
	})

	hook.Handle("invoice.payment_failed", func(ev *stripekit.Event, w http.ResponseWriter, r *http.Request) {
		in := ev.Data.Object.(*stripekit.Invoice)

		log.Warn("invoice payment failed",
			zap.Stringp("invoice", in.ID),
			zap.Int64("amount_due", in.AmountDue),
		)
		w.WriteHeader(http.StatusOK)
	})

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.POST("/webhook", echo.WrapHandler(http.HandlerFunc(hook.HandlerFunc)))

	go func() {
		if err := e.Start(config.Webhook.Addr); err != nil && err != http.ErrServerClosed {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	log.Info("listening for webhooks", zap.String("addr", config.Webhook.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return e.Shutdown(ctx)
}

func main() {
	configPath := flag.String("config", "webhookd.yaml", "path to the config file")
	flag.Parse()

	log := stripekit.NewLogger()
	defer log.Sync()

	if err := run(log, *configPath); err != nil {
		log.Fatal("webhookd failed", zap.Error(err))
	}
}
