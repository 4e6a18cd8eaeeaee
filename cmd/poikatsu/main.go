// Package main запускает консольный дашборд программы лояльности.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/m-okumura/poikatsu-dashboard/internal/apiclient"
	"github.com/m-okumura/poikatsu-dashboard/internal/config"
	"github.com/m-okumura/poikatsu-dashboard/internal/session"
	"github.com/m-okumura/poikatsu-dashboard/internal/tokenstore"
	"github.com/m-okumura/poikatsu-dashboard/internal/view"
)

// routePrinter печатает переходы между экранами после входа и выхода.
type routePrinter struct{}

func (routePrinter) Goto(route string) {
	fmt.Fprintf(os.Stdout, "-> %s\n", route)
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, rest, err := config.Parse(os.Args[1:])
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	tokenFile := cfg.TokenFile
	if tokenFile == "" {
		tokenFile, err = tokenstore.DefaultPath()
		if err != nil {
			sugar.Fatalw("token path error", "error", err.Error())
		}
	}

	api := apiclient.New(cfg.APIBaseURL, tokenstore.NewFileStore(tokenFile))
	sess := session.New(api, routePrinter{})
	views := view.New(api, sess, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sess.Init(ctx)

	if err := dispatch(ctx, sess, views, rest); err != nil {
		os.Exit(1)
	}
}
