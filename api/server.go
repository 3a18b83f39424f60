// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/rpc/v2"
	"github.com/rs/zerolog/log"
)

// NewHandler serves the bridge service as JSON-RPC 2.0 on /rpc.
func NewHandler(service *Service) (http.Handler, error) {
	server := rpc.NewServer()
	c := newCodec()
	server.RegisterCodec(c, "application/json")
	server.RegisterCodec(c, "application/json;charset=UTF-8")
	if err := server.RegisterService(service, Name); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/rpc", server)
	return mux, nil
}

// Serve listens on port until ctx is cancelled.
func Serve(ctx context.Context, port uint16, handler http.Handler) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Msgf("Started rpc endpoint on port %d", port)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
