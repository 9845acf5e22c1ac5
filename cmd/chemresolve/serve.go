// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/carbonlab/chemresolve/internal/api"
	"github.com/carbonlab/chemresolve/internal/resolve"
	"github.com/carbonlab/chemresolve/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the resolution engine and catalog over HTTP",
	Long: `Serve exposes resolution (POST /resolve), catalog search and
retrieval (GET /compounds, GET /compounds/{id}), and Prometheus metrics
(GET /metrics) for the contribution form.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8642)")
	serveCmd.Flags().Duration("timeout", 0, "HTTP request timeout for upstream calls (default 30s)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	timeout, _ := cmd.Flags().GetDuration("timeout")
	pubchem, cas := buildSources(timeout)

	db, pc, casSearcher := api.InstrumentSources(store, pubchem, cas)
	resolver := resolve.NewResolver(db, pc, casSearcher, resolveConfigFromViper(), log)
	svc := api.NewService(resolver, store, log)

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = viper.GetString("server.addr")
	}
	if addr == "" {
		addr = types.ServerConfig{}.WithDefaults().Addr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           svc,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

func resolveConfigFromViper() types.ResolveConfig {
	return types.ResolveConfig{
		MaxSynonymQueryLen: viper.GetInt("resolve.max_synonym_query_len"),
		MaxNameQueryLen:    viper.GetInt("resolve.max_name_query_len"),
		DebounceInterval:   viper.GetDuration("resolve.debounce_interval"),
	}.WithDefaults()
}
