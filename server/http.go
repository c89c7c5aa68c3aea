/*
 * NanoMint
 *
 * Copyright NanoMint Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	LivenessPath = "/live"
	MetricsPath  = "/metrics"
	APIPath      = "/api/"

	// RequestIDHeader tags every API response for log correlation.
	RequestIDHeader = "X-Request-Id"
)

type HTTPHeader struct {
	Key   string
	Value string
}

// HTTPServer serves the API plus the liveness and metrics endpoints on a
// single port.
type HTTPServer struct {
	logger     zerolog.Logger
	host       string
	port       int
	httpServer *http.Server
	listener   net.Listener
}

func NewHTTPServer(
	logger zerolog.Logger,
	api *APIServer,
	liveness *LivenessTicker,
	host string,
	port int,
	headers []HTTPHeader,
) *HTTPServer {
	m := http.NewServeMux()

	m.Handle(MetricsPath, promhttp.Handler())
	m.Handle(LivenessPath, liveness.Handler())
	m.Handle(APIPath, wrappedHandler(api, headers))

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: m,
	}

	return &HTTPServer{
		logger:     logger,
		host:       host,
		port:       port,
		httpServer: httpServer,
	}
}

// Listen binds the port without serving. After it returns without error
// the server can be treated as ready.
func (h *HTTPServer) Listen() error {
	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", h.host, h.port))
	if err != nil {
		return err
	}

	h.listener = lis
	return nil
}

func (h *HTTPServer) Start() error {
	if h.listener == nil {
		if err := h.Listen(); err != nil {
			return err
		}
	}

	h.logger.Info().
		Int("port", h.port).
		Msgf("✅  Started API server on port %d", h.port)

	err := h.httpServer.Serve(h.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func (h *HTTPServer) Stop() {
	_ = h.httpServer.Shutdown(context.Background())
}

func wrappedHandler(next http.Handler, headers []HTTPHeader) http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		setResponseHeaders(&res, headers)
		res.Header().Set(RequestIDHeader, uuid.NewString())

		if (*req).Method == "OPTIONS" {
			return
		}

		next.ServeHTTP(res, req)
	}
}

func setResponseHeaders(w *http.ResponseWriter, headers []HTTPHeader) {
	for _, header := range headers {
		(*w).Header().Set(header.Key, header.Value)
	}
}
