package serve

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pitwall/pitwall/log"
	"github.com/pitwall/pitwall/pkg/cmd/util"
	"github.com/pitwall/pitwall/pkg/config"
	"github.com/pitwall/pitwall/pkg/provider/store"
	"github.com/pitwall/pitwall/pkg/service"
	"github.com/pitwall/pitwall/pkg/web"
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "starts the dashboard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer()
		},
	}
	cmd.Flags().StringVarP(&config.HTTPAddr,
		"addr",
		"a",
		"localhost:8095",
		"dashboard server listen address")
	cmd.Flags().StringVar(&config.ChartTheme,
		"theme",
		"dark",
		"echarts theme for the dashboard charts")
	return cmd
}

func startServer() error {
	logger := util.SetupLogger()

	st, err := store.New(config.SessionDB,
		store.WithLogger(logger.Named("store")))
	if err != nil {
		log.Error("could not open session store", log.ErrorField(err))
		return err
	}
	defer st.Close()

	svc := service.New(st, service.WithLogger(logger.Named("service")))
	srv := web.NewServer(st, svc,
		web.WithTheme(config.ChartTheme),
		web.WithLogger(logger.Named("web")))

	server := &http.Server{
		Addr:              config.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting dashboard server", log.String("addr", config.HTTPAddr))
		errChan <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case v := <-sigChan:
		log.Debug("Got signal", log.Any("signal", v))
	case err := <-errChan:
		log.Error("server could not be started", log.ErrorField(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Warn("server shutdown incomplete", log.ErrorField(err))
	}
	log.Info("Server terminated")
	return nil
}
