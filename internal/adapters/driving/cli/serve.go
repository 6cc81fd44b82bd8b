package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/calbridge/internal/connectors/google"
	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook notification receiver",
	Long: `Run an HTTP server that receives calendar push notifications.

The server validates each delivery against the configured channel
token (webhook.token) and logs the events that changed. Point the
webhook.endpoint URL at this server, directly or through a tunnel.

Examples:
  calbridge serve
  calbridge serve --addr :9000`,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if webhookProvider == nil {
		return errors.New("google provider not configured; set google.client_id and google.client_secret")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/", handleNotification)

	server := &http.Server{
		Addr:         serveAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	cmd.Printf("Webhook receiver listening on %s\n", serveAddr)
	cmd.Println("Press Ctrl+C to stop.")

	select {
	case err := <-errChan:
		return fmt.Errorf("webhook receiver failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down receiver: %w", err)
	}

	cmd.Println("Webhook receiver stopped.")
	return nil
}

// handleNotification processes one push notification delivery.
func handleNotification(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	notification, err := google.ParseNotificationHeaders(r.Header)
	if err != nil {
		logger.Debug("rejected notification: %v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	events, err := webhookProvider.ProcessNotification(r.Context(), *notification, watchToken())
	if err != nil {
		if errors.Is(err, domain.ErrAuthentication) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		logger.Warn("failed to process notification: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)

	if notification.ResourceState == domain.ResourceStateSync {
		logger.Info("channel %s confirmed", notification.ChannelID)
		return
	}

	logger.Info("channel %s reported %s: %d changed events",
		notification.ChannelID, notification.ResourceState, len(events))
	for i := range events {
		title := ""
		if events[i].Title != nil {
			title = *events[i].Title
		}
		logger.Info("  %s  %s", events[i].ID, title)
	}
}

// watchToken returns the configured channel token, or nil when unset.
func watchToken() *string {
	if configStore == nil {
		return nil
	}
	token := configStore.GetString(keyWebhookToken)
	if token == "" {
		return nil
	}
	return &token
}
