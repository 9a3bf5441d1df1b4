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

// Package handler provides the HTTP handler for serving the JSON Web Key Set.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/meridianid/meridian/internal/oauth/jwks"
	"github.com/meridianid/meridian/internal/system/error/serviceerror"
	"github.com/meridianid/meridian/internal/system/log"
	"github.com/meridianid/meridian/internal/system/utils"
)

// JWKSHandler handles requests for the JSON Web Key Set.
type JWKSHandler struct {
	jwksService jwks.JWKSServiceInterface
}

// NewJWKSHandler creates a new instance of JWKSHandler.
func NewJWKSHandler() *JWKSHandler {
	return &JWKSHandler{
		jwksService: jwks.NewJWKSService(),
	}
}

// HandleJWKSRequest handles the HTTP request to retrieve the JSON Web Key Set.
func (h *JWKSHandler) HandleJWKSRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "JWKSHandler"))

	keySet, svcErr := h.jwksService.GetJWKS()
	if svcErr != nil {
		status := http.StatusInternalServerError
		if svcErr.Type == serviceerror.ClientErrorType {
			status = http.StatusBadRequest
		}
		utils.WriteJSONError(w, svcErr.Error, svcErr.ErrorDescription, status, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(keySet); err != nil {
		logger.Error("Error encoding JWKS response", log.Error(err))
	}
}
