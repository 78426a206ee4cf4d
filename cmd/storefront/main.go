package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/azcart/storefront-client/api"
	"github.com/azcart/storefront-client/internal/config"
	"github.com/azcart/storefront-client/routeguard"
	"github.com/azcart/storefront-client/session"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", presentError(err))
		os.Exit(1)
	}
}

func run(args []string) error {
	app := &cli.App{
		Name:  "storefront",
		Usage: "AZCART storefront client",
		Commands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			registerCommand(),
			whoamiCommand(),
			homeCommand(),
			cartCommand(),
			ordersCommand(),
			deleteAccountCommand(),
		},
		Action: func(cCtx *cli.Context) error {
			displayAppName("AZCART")
			return cli.ShowAppHelp(cCtx)
		},
	}
	return app.Run(args)
}

// env bundles the wired-up client stack every command needs.
type env struct {
	cfg    config.Config
	log    zerolog.Logger
	store  *session.Store
	client *api.Client
	guard  *routeguard.Guard
}

func newEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logLevel := zerolog.WarnLevel
	if cfg.Env == "DEV" {
		logLevel = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(logLevel).With().Timestamp().Logger()

	store := session.New(session.NewFileRepo(cfg.SessionFile), log)

	client, err := api.New(cfg.BaseURL, store,
		api.WithLogger(log),
		api.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		api.WithOnEvict(func() {
			fmt.Fprintln(os.Stderr, "Session expired - please sign in again with 'storefront login'.")
		}),
	)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:    cfg,
		log:    log,
		store:  store,
		client: client,
		guard:  routeguard.New(store),
	}, nil
}

// requireView runs the route guard for the command's view and reports the
// redirect the storefront UI would perform instead of rendering it.
func (e *env) requireView(required routeguard.Requirement) error {
	decision := e.guard.Evaluate(required)
	if decision.Outcome == routeguard.Admit {
		return nil
	}
	if decision.Target == routeguard.RouteLogin {
		return fmt.Errorf("not signed in (would redirect to %s)", decision.Target)
	}
	return fmt.Errorf("wrong role for this view (would redirect to %s)", decision.Target)
}

// presentError maps the client error taxonomy onto the storefront's
// user-facing messages.
func presentError(err error) string {
	switch {
	case api.IsNotReachable(err):
		return "Server not reachable"
	case api.IsServerFault(err):
		return "Something went wrong, please try again"
	default:
		return err.Error()
	}
}

func displayAppName(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
