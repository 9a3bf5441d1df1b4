/*
 * Copyright (c) 2025, Meridian Identity Project.
 *
 * The Meridian Identity Project licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package main is the entry point for starting the Meridian identity server.
package main

import (
	"crypto/tls"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/meridianid/meridian/internal/cert"
	"github.com/meridianid/meridian/internal/oauth/jwt"
	"github.com/meridianid/meridian/internal/system/config"
	"github.com/meridianid/meridian/internal/system/log"
)

func main() {
	logger := log.GetLogger()

	meridianHome := getMeridianHome(logger)

	cfg := initConfigurations(logger, meridianHome)
	if cfg == nil {
		logger.Fatal("Failed to initialize configurations")
	}

	router := newRouter()

	if cfg.Server.HTTPOnly {
		logger.Info("TLS is not enabled, starting server without TLS")
		startHTTPServer(logger, cfg, router)
	} else {
		startTLSServer(logger, cfg, router, meridianHome)
	}
}

// getMeridianHome retrieves and returns the Meridian home directory.
func getMeridianHome(logger *log.Logger) string {
	projectHomeFlag := flag.String("meridianHome", "", "Path to Meridian home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		logger.Info("Using meridianHome from command line argument",
			log.String("meridianHome", *projectHomeFlag))
		return *projectHomeFlag
	}

	dir, err := os.Getwd()
	if err != nil {
		logger.Fatal("Failed to get current working directory", log.Error(err))
	}
	return dir
}

// initConfigurations loads the configuration and initializes the runtime and
// the JWT signing key.
func initConfigurations(logger *log.Logger, meridianHome string) *config.Config {
	configFilePath := path.Join(meridianHome, "repository/conf/deployment.yaml")
	cfg, err := config.LoadConfig(configFilePath)
	if err != nil {
		logger.Fatal("Failed to load configurations", log.Error(err))
	}

	if err := config.InitializeMeridianRuntime(meridianHome, cfg); err != nil {
		logger.Fatal("Failed to initialize meridian runtime", log.Error(err))
	}

	// Load the server's private key for signing JWTs.
	jwtService := jwt.GetJWTService()
	if err := jwtService.Init(); err != nil {
		logger.Fatal("Failed to load private key", log.Error(err))
	}

	return cfg
}

// startTLSServer starts the HTTPS server with TLS configuration.
func startTLSServer(logger *log.Logger, cfg *config.Config, handler http.Handler, meridianHome string) {
	server, serverAddr := createHTTPServer(logger, cfg, handler)

	sysCertSvc := cert.NewSystemCertificateService()
	tlsConfig, err := sysCertSvc.GetTLSConfig(cfg, meridianHome)
	if err != nil {
		logger.Fatal("Failed to load TLS configuration", log.Error(err))
	}

	ln, err := tls.Listen("tcp", serverAddr, tlsConfig)
	if err != nil {
		logger.Fatal("Failed to start TLS listener", log.Error(err))
	}

	logger.Info("Meridian identity server started (HTTPS)...", log.String("address", serverAddr))

	if err := server.Serve(ln); err != nil {
		logger.Fatal("Failed to serve requests", log.Error(err))
	}
}

// startHTTPServer starts the HTTP server without TLS.
func startHTTPServer(logger *log.Logger, cfg *config.Config, handler http.Handler) {
	server, serverAddr := createHTTPServer(logger, cfg, handler)

	logger.Info("Meridian identity server started (HTTP)...", log.String("address", serverAddr))

	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("Failed to serve HTTP requests", log.Error(err))
	}
}

// createHTTPServer creates and configures an HTTP server with common settings.
func createHTTPServer(logger *log.Logger, cfg *config.Config, handler http.Handler) (*http.Server, string) {
	wrappedHandler := log.AccessLogHandler(logger, handler)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Hostname, cfg.Server.Port)

	server := &http.Server{
		Addr:              serverAddr,
		Handler:           wrappedHandler,
		ReadHeaderTimeout: 10 * time.Second, // Mitigate Slowloris attacks
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return server, serverAddr
}
