// Command shopctl talks to a storefront API with a persisted session. Requests
// that hit an expired access token are refreshed and retried transparently.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/jrsteele09/storefront-client/authclient"
	"github.com/jrsteele09/storefront-client/internal/config"
	"github.com/jrsteele09/storefront-client/internal/logging"
	"github.com/jrsteele09/storefront-client/sessions"
	"github.com/jrsteele09/storefront-client/sessions/filerepo"
	"github.com/jrsteele09/storefront-client/sessions/redisrepo"
	fakesessionrepo "github.com/jrsteele09/storefront-client/sessions/repofakes"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const usage = `usage: shopctl <command> [flags]

commands:
  login  -email <email> -password <password>
  logout
  whoami
  get    <path>
  burst  [-n <count>] <path>
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.New()
	log := logging.New(cfg.GetLogLevel(), cfg.GetLogFormat(), os.Stderr)

	if err := run(ctx, cfg, log, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		log.Error().Err(err).Str("command", os.Args[1]).Msg("command failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger, command string, args []string, out io.Writer) error {
	repo, closeRepo, err := newSessionRepo(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeRepo(); err != nil {
			log.Warn().Err(err).Msg("failed to close session backend")
		}
	}()
	store := sessions.NewStore(repo, cfg.GetSessionKey(), sessions.WithLogger(log))
	if _, err := store.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("could not restore session, starting signed out")
	}

	client, err := newClient(ctx, cfg, log, store)
	if err != nil {
		return err
	}

	switch command {
	case "login":
		return login(ctx, client, args, out)
	case "logout":
		return client.Logout(ctx)
	case "whoami":
		return whoami(client, out)
	case "get":
		return get(ctx, client, args, out)
	case "burst":
		return burst(ctx, client, args, out)
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

// newSessionRepo builds the configured backend and a func releasing its connections.
func newSessionRepo(cfg config.SessionConfig) (sessions.Repo, func() error, error) {
	noop := func() error { return nil }

	switch cfg.GetSessionBackend() {
	case config.SessionBackendFile:
		repo, err := filerepo.New(cfg.GetSessionDir())
		if err != nil {
			return nil, nil, err
		}
		return repo, noop, nil
	case config.SessionBackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
		})
		return redisrepo.New(rdb, "", cfg.GetSessionTTL()), rdb.Close, nil
	case config.SessionBackendMemory:
		return fakesessionrepo.NewFakeSessionRepo(), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.GetSessionBackend())
	}
}

func newClient(ctx context.Context, cfg config.Config, log zerolog.Logger, store *sessions.Store) (*authclient.Client, error) {
	httpClient := &http.Client{Timeout: cfg.GetRequestTimeout()}

	options := []authclient.ClientOption{
		authclient.WithHTTPClient(httpClient),
		authclient.WithLogger(log),
		authclient.WithRateLimit(cfg.GetRateLimit(), cfg.GetRateBurst()),
		authclient.WithPaths(cfg.GetLoginPath(), cfg.GetRefreshPath(), cfg.GetLogoutPath()),
	}

	if issuer := cfg.GetOIDCIssuer(); issuer != "" {
		refresher, err := authclient.NewOIDCRefresher(ctx, issuer, cfg.GetOIDCClientID(), cfg.GetOIDCClientSecret(), httpClient)
		if err != nil {
			return nil, fmt.Errorf("oidc refresher: %w", err)
		}
		log.Debug().Str("token_url", refresher.TokenURL()).Msg("refreshing through identity provider")
		options = append(options, authclient.WithRefresher(refresher))
	}

	return authclient.New(cfg.GetBaseURL(), store, options...), nil
}

func login(ctx context.Context, client *authclient.Client, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("login needs -email and -password")
	}

	session, err := client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "signed in as %s <%s>\n", session.DisplayName, session.Email)
	return nil
}

func whoami(client *authclient.Client, out io.Writer) error {
	session, ok := client.Session()
	if !ok {
		return authclient.ErrNoSession
	}
	fmt.Fprintf(out, "%s <%s> id=%s admin=%t seller=%t\n",
		session.DisplayName, session.Email, session.UserID, session.IsAdmin, session.IsSeller)
	return nil
}

func get(ctx context.Context, client *authclient.Client, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errors.New("get needs exactly one path")
	}

	resp, err := client.Do(ctx, authclient.NewRequest(http.MethodGet, args[0], nil))
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if json.Indent(&pretty, resp.Body, "", "  ") != nil {
		_, err = out.Write(resp.Body)
		return err
	}
	pretty.WriteByte('\n')
	_, err = pretty.WriteTo(out)
	return err
}

// burst fires n concurrent GETs at path, which exercises a shared refresh when the
// access token has expired.
func burst(ctx context.Context, client *authclient.Client, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("burst", flag.ContinueOnError)
	n := fs.Int("n", 5, "number of concurrent requests")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 || *n < 1 {
		return errors.New("burst needs a positive -n and exactly one path")
	}
	path := fs.Arg(0)

	var succeeded, failed atomic.Int64
	var g errgroup.Group
	for range *n {
		g.Go(func() error {
			if _, err := client.Do(ctx, authclient.NewRequest(http.MethodGet, path, nil)); err != nil {
				failed.Add(1)
				return err
			}
			succeeded.Add(1)
			return nil
		})
	}
	err := g.Wait()

	fmt.Fprintf(out, "%d succeeded, %d failed\n", succeeded.Load(), failed.Load())
	return err
}
