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

package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	jwkshandler "github.com/meridianid/meridian/internal/oauth/jwks/handler"
	"github.com/meridianid/meridian/internal/oauth/oauth2/authz"
	"github.com/meridianid/meridian/internal/oauth/oauth2/constants"
	"github.com/meridianid/meridian/internal/oauth/oauth2/token"
)

// newRouter wires the OAuth2 endpoints onto a chi router.
func newRouter() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	authorizeHandler := authz.NewAuthorizeHandler()
	tokenHandler := token.NewTokenHandler()
	jwksHandler := jwkshandler.NewJWKSHandler()

	router.Get(constants.OAuth2AuthorizationEndpoint, authorizeHandler.HandleAuthorizeRequest)
	router.Post(constants.OAuth2AuthorizationEndpoint, authorizeHandler.HandleAuthorizeRequest)
	router.Post(constants.OAuth2TokenEndpoint, tokenHandler.HandleTokenRequest)
	router.Get(constants.OAuth2JWKSEndpoint, jwksHandler.HandleJWKSRequest)

	router.Get("/health/liveness", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "UP"})
	})

	return router
}
