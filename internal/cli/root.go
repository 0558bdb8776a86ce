// Package cli is shopctl: a terminal client for the storefront and
// back-office API built on the same client session, hooks and auth
// contexts a browser front end would use.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shopfront/internal/client/api"
	"shopfront/internal/client/authctx"
	"shopfront/internal/client/hooks"
	"shopfront/internal/client/httpclient"
	"shopfront/internal/client/session"
	"shopfront/internal/log"
)

const defaultAPIURL = "http://localhost:8080/api/v1"

// app is the per-invocation client graph.
type app struct {
	store    *session.Store
	api      *api.API
	hooks    *hooks.Hooks
	admin    *authctx.AdminAuth
	customer *authctx.CustomerAuth
	nav      *terminalNavigator
	log      zerolog.Logger
	out      io.Writer
}

func newApp(v *viper.Viper, route string, out, errOut io.Writer) (*app, error) {
	logger := log.NewWriter(errOut, v.GetString("log_level"))

	path := v.GetString("session")
	if path == "" {
		var err error
		if path, err = session.DefaultPath(); err != nil {
			return nil, fmt.Errorf("resolve session path: %w", err)
		}
	}
	store, err := session.Open(path, logger)
	if err != nil {
		return nil, err
	}

	client, err := httpclient.New(v.GetString("api_url"), store,
		httpclient.WithLogger(logger),
		httpclient.WithHTTPClient(&http.Client{Timeout: v.GetDuration("timeout")}),
	)
	if err != nil {
		return nil, err
	}

	a := api.New(client)
	nav := &terminalNavigator{path: route, errOut: errOut}
	admin := authctx.NewAdminAuth(store, a.Auth, logger)
	admin.Watch()
	authctx.NewRouteGuard(store, nav, logger)

	return &app{
		store:    store,
		api:      a,
		hooks:    hooks.New(a, hooks.NewCache(logger), logger),
		admin:    admin,
		customer: authctx.NewCustomerAuth(store),
		nav:      nav,
		log:      logger,
		out:      out,
	}, nil
}

// requireAdmin resolves the stored session the way the admin area does on
// load.
func (a *app) requireAdmin(ctx context.Context) error {
	if a.admin.Init(ctx) != authctx.StateAuthenticated {
		return fmt.Errorf("admin or manager session required, run: shopctl login --admin")
	}
	return nil
}

// requireCustomer applies the account-area guard to the command's path.
func (a *app) requireCustomer() error {
	if a.customer.RequireCustomer(a.nav.path) == authctx.LoginPath {
		return fmt.Errorf("not logged in, run: shopctl login")
	}
	return nil
}

// NewRootCommand builds the shopctl command tree. Settings come from flags
// first, then SHOPFRONT_* environment variables.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("shopfront")
	v.AutomaticEnv()
	v.SetDefault("api_url", defaultAPIURL)
	v.SetDefault("timeout", 15*time.Second)
	v.SetDefault("log_level", "warn")

	var current *app
	root := &cobra.Command{
		Use:           "shopctl",
		Short:         "Storefront and back-office client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(v, commandPath(cmd), cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			current = a
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("api-url", defaultAPIURL, "API base URL (env SHOPFRONT_API_URL)")
	flags.String("session", "", "session file (default: XDG data dir)")
	flags.Duration("timeout", 15*time.Second, "request timeout")
	flags.String("log-level", "warn", "debug, info, warn or error")
	_ = v.BindPFlag("api_url", flags.Lookup("api-url"))
	_ = v.BindPFlag("session", flags.Lookup("session"))
	_ = v.BindPFlag("timeout", flags.Lookup("timeout"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))

	get := func() *app { return current }
	root.AddCommand(
		newLoginCommand(get),
		newLogoutCommand(get),
		newWhoamiCommand(get),
		newCategoriesCommand(get),
		newProductsCommand(get),
		newReviewsCommand(get),
		newCartCommand(get),
		newOrdersCommand(get),
		newAccountCommand(get),
		newDashboardCommand(get),
		newCustomersCommand(get),
		newPurchaseOrdersCommand(get),
	)
	settleRedirects(root, get)
	return root
}

// settleRedirects wraps every runnable command so a login redirect raised
// while it ran fails the invocation.
func settleRedirects(cmd *cobra.Command, get func() *app) {
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			err := run(cmd, args)
			if a := get(); a != nil {
				return a.nav.settle(err)
			}
			return err
		}
	}
	for _, sub := range cmd.Commands() {
		settleRedirects(sub, get)
	}
}
