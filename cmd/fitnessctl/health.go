package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/fitnesstracker/internal/misc"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func newHealthCmd() *cobra.Command {
	var addr string
	var timeout time.Duration

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check the health endpoint of a running instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{
				Transport: otelhttp.NewTransport(http.DefaultTransport),
				Timeout:   timeout,
			}
			defer client.CloseIdleConnections()

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, strings.TrimRight(addr, "/")+"/health", nil)
			if err != nil {
				return err
			}

			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("health check %s: %w", addr, err)
			}
			defer resp.Body.Close()

			var health misc.HealthResponse
			if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
				return fmt.Errorf("decode health response (status %d): %w", resp.StatusCode, err)
			}

			out := cmd.OutOrStdout()
			if resp.StatusCode != http.StatusOK || health.Status != misc.StatusHealthy {
				color.New(color.FgRed).Fprintf(out, "✗ %s is %s\n", health.Service, health.Status)
				if len(health.Failed) > 0 {
					fmt.Fprintf(out, "  failed: %s\n", strings.Join(health.Failed, ", "))
				}
				return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
			}

			color.New(color.FgGreen).Fprintf(out, "✓ %s is %s\n", health.Service, health.Status)
			return nil
		},
	}

	healthCmd.Flags().StringVar(&addr, "addr", "http://localhost:8000", "base URL of the instance")
	healthCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "request timeout")
	return healthCmd
}
