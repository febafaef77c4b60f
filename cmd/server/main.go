package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/storefront-client/internal/config"
	"github.com/jrsteele09/storefront-client/internal/logging"
	"github.com/jrsteele09/storefront-client/server"
	"github.com/jrsteele09/storefront-client/token"
	refreshrepofake "github.com/jrsteele09/storefront-client/token/refresh/repofake"
	fakeuserrepo "github.com/jrsteele09/storefront-client/users/repofake"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const maxRestarts = 3

func main() {
	c := config.New()
	log := logging.New(c.GetLogLevel(), c.GetLogFormat(), os.Stdout)

	for attempt := 1; ; attempt++ {
		err := run(c, log)
		if err == nil {
			break
		}
		log.Error().Err(err).Int("attempt", attempt).Msg("error running server")
		if attempt >= maxRestarts {
			os.Exit(1)
		}
		time.Sleep(1 * time.Second)
	}
	log.Info().Msg("server stopped")
}

func run(c config.Config, log zerolog.Logger) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	displayAppname(c.GetAppName())

	// The reference storefront keeps its users and refresh tokens in memory
	repos := server.Repos{
		Users:         fakeuserrepo.NewFakeUserRepo(),
		RefreshTokens: refreshrepofake.NewFakeRefreshTokenRepo(),
	}
	if addr := c.GetDenylistRedisAddr(); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr, DB: c.GetDenylistRedisDB()})
		defer rdb.Close()
		repos.Denylist = token.NewRedisDenylist(rdb, "", time.Now)
		log.Info().Str("addr", addr).Msg("revoked tokens shared through redis")
	}

	handler, err := server.New(c, repos, server.WithLogger(log))
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: c.GetPort(), Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listenAndServe(srv, log)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

func listenAndServe(srv *http.Server, log zerolog.Logger) error {
	log.Info().Str("addr", srv.Addr).Msg("server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
