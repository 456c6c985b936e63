package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"factorindex/cmd"
	"factorindex/internal/app"
	"factorindex/internal/logger"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API with the job worker and scheduler",
	Long: `Serve the HTTP API, start the background job worker and the cron
schedules from the config. SIGINT or SIGTERM drains in-flight requests and
waits for the running job before exiting.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	deps, err := loadDependencies()
	if err != nil {
		return err
	}
	defer cmd.CloseDependencies(deps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logger.FromContext(ctx)

	apiHandler := deps.ApiHandler
	apiHandler.JobQueue.Start(ctx)

	scheduler, err := app.NewScheduler(ctx, deps.Config.Schedule, apiHandler.JobQueue, apiHandler.Pipeline)
	if err != nil {
		return err
	}
	scheduler.Start()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", deps.Config.Port),
		Handler: apiHandler.NewEngine(),
	}
	serverErr := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Infof("shutting down")
	case err := <-serverErr:
		if err != nil {
			stop()
			scheduler.Stop()
			apiHandler.JobQueue.Wait()
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnf("failed to shut down cleanly: %v", err)
	}
	scheduler.Stop()
	apiHandler.JobQueue.Wait()
	return nil
}
