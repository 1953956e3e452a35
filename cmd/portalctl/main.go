package main

import (
	"context"
	"fmt"
	"os"

	"booking/portal/internal/config"
	"booking/portal/internal/configcache"
	"booking/portal/internal/payment"
	"booking/portal/internal/telemetry"

	"github.com/spf13/cobra"
)

var Version = "dev"

type app struct {
	cfg     config.Config
	lookup  *configcache.Lookup
	token   string
	gateway string
}

func main() {
	a := &app{cfg: config.Load()}

	rootCmd := &cobra.Command{
		Use:     "portalctl",
		Short:   "Operate the booking portal's payment and config integrations",
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			client := telemetry.HTTPClient(a.cfg.HTTPTimeout)
			a.lookup = configcache.NewLookup(
				configcache.New(configcache.NewMemoryStore(), configcache.WithTTL(a.cfg.ConfigCacheTTL)),
				configcache.NewHTTPFetcher(a.cfg.BackendBaseURL, client),
			)
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.cfg.BackendBaseURL, "backend", a.cfg.BackendBaseURL, "Owned backend base URL")
	rootCmd.PersistentFlags().StringVar(&a.token, "token", os.Getenv("PORTAL_TOKEN"), "Session token for the backend path")
	rootCmd.PersistentFlags().StringVar(&a.gateway, "gateway-key", a.cfg.GatewayKey, "Gateway key for the direct path")

	rootCmd.AddCommand(paymentCmd(a))
	rootCmd.AddCommand(configCmd(a))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) adapter() *payment.Adapter {
	token := a.token
	return payment.New(payment.Config{
		GatewayBaseURL: a.cfg.GatewayBaseURL,
		BackendBaseURL: a.cfg.BackendBaseURL,
		Provider:       a.cfg.PaymentProvider,
		TestMode:       a.cfg.GatewayTestMode,
		Keys: payment.FirstKey(
			payment.StaticKey(a.gateway),
			payment.KeyFunc(func(ctx context.Context) (string, bool) {
				return a.lookup.GetValue(ctx, a.cfg.GatewayKeyService)
			}),
		),
		Tokens: func(context.Context) string { return token },
		Client: telemetry.HTTPClient(a.cfg.HTTPTimeout),
	})
}
