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

// Package token provides the handler for managing OAuth 2.0 token requests.
package token

import (
	"crypto/x509"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/meridianid/meridian/internal/oauth/oauth2/clientauth"
	"github.com/meridianid/meridian/internal/oauth/oauth2/constants"
	"github.com/meridianid/meridian/internal/oauth/oauth2/granthandlers"
	"github.com/meridianid/meridian/internal/oauth/oauth2/model"
	"github.com/meridianid/meridian/internal/system/log"
	"github.com/meridianid/meridian/internal/system/utils"
)

// TokenHandler handles OAuth 2.0 token requests. It authenticates the client
// with the method registered on the client record and delegates to the grant
// handler selected by the grant_type parameter.
type TokenHandler struct {
	ClientAuthenticator clientauth.ClientAuthenticatorInterface
}

// NewTokenHandler creates a new instance of TokenHandler.
func NewTokenHandler() *TokenHandler {
	return &TokenHandler{
		ClientAuthenticator: clientauth.NewClientAuthenticator(),
	}
}

// HandleTokenRequest handles the token request for OAuth 2.0.
func (th *TokenHandler) HandleTokenRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "TokenHandler"))

	if err := r.ParseForm(); err != nil {
		utils.WriteJSONError(w, constants.ErrorInvalidRequest,
			"Failed to parse request body", http.StatusBadRequest, nil)
		return
	}

	grantType := r.FormValue(constants.RequestParamGrantType)
	if grantType == "" {
		utils.WriteJSONError(w, constants.ErrorInvalidRequest,
			"Missing grant_type parameter", http.StatusBadRequest, nil)
		return
	}

	grantHandler := granthandlers.GetGrantHandler(constants.GrantType(grantType))
	if grantHandler == nil {
		utils.WriteJSONError(w, constants.ErrorUnsupportedGrantType,
			"Unsupported grant type", http.StatusBadRequest, nil)
		return
	}

	instruction, errMessage := buildAuthenticateInstruction(r)
	if errMessage != "" {
		responseHeaders := []map[string]string{
			{"WWW-Authenticate": "Basic"},
		}
		utils.WriteJSONError(w, constants.ErrorInvalidClient, errMessage,
			http.StatusUnauthorized, responseHeaders)
		return
	}

	oauthApp, authMessage := th.ClientAuthenticator.AuthenticateClient(instruction)
	if oauthApp == nil {
		logger.Debug("Client authentication failed", log.String("reason", authMessage))
		utils.WriteJSONError(w, constants.ErrorInvalidClient, authMessage,
			http.StatusUnauthorized, nil)
		return
	}

	tokenRequest := &model.TokenRequest{
		GrantType:    grantType,
		ClientID:     oauthApp.ClientID,
		ClientSecret: instruction.ClientSecretFromBody,
		Scope:        r.FormValue(constants.RequestParamScope),
		Code:         r.FormValue(constants.RequestParamCode),
		RedirectURI:  r.FormValue(constants.RequestParamRedirectURI),
		CodeVerifier: r.FormValue(constants.RequestParamCodeVerifier),
	}

	if errResponse := grantHandler.ValidateGrant(tokenRequest, oauthApp); errResponse != nil {
		utils.WriteJSONError(w, errResponse.Error, errResponse.ErrorDescription,
			http.StatusBadRequest, nil)
		return
	}

	tokenResponse, errResponse := grantHandler.HandleGrant(tokenRequest, oauthApp)
	if errResponse != nil {
		status := http.StatusBadRequest
		if errResponse.Error == constants.ErrorServerError {
			status = http.StatusInternalServerError
		}
		utils.WriteJSONError(w, errResponse.Error, errResponse.ErrorDescription, status, nil)
		return
	}

	writeTokenResponse(w, tokenResponse, logger)
}

// buildAuthenticateInstruction bundles the credential material present on the
// request. The second return value carries a message when the Authorization
// header is malformed.
func buildAuthenticateInstruction(r *http.Request) (*model.AuthenticateInstruction, string) {
	instruction := &model.AuthenticateInstruction{
		ClientIDFromBody:     r.FormValue(constants.RequestParamClientID),
		ClientSecretFromBody: r.FormValue(constants.RequestParamClientSecret),
		ClientAssertion:      r.FormValue(constants.RequestParamClientAssertion),
		ClientAssertionType:  r.FormValue(constants.RequestParamClientAssertionType),
		TLSCertificate:       peerCertificate(r),
	}

	if r.Header.Get("Authorization") != "" {
		clientID, clientSecret, err := utils.ExtractBasicAuthCredentials(r)
		if err != nil {
			return nil, "Invalid client credentials"
		}
		instruction.ClientIDFromBasicAuth = clientID
		instruction.ClientSecretFromBasicAuth = clientSecret
	}

	return instruction, ""
}

// peerCertificate returns the leaf certificate of the mutual TLS session, if any.
func peerCertificate(r *http.Request) *x509.Certificate {
	if r.TLS != nil && len(r.TLS.PeerCertificates) > 0 {
		return r.TLS.PeerCertificates[0]
	}
	return nil
}

func writeTokenResponse(w http.ResponseWriter, tokenResponse *model.TokenResponseDTO, logger *log.Logger) {
	response := model.TokenResponse{
		AccessToken: tokenResponse.AccessToken.Token,
		TokenType:   tokenResponse.AccessToken.TokenType,
		ExpiresIn:   tokenResponse.AccessToken.ExpiresIn,
		IDToken:     tokenResponse.IDToken.Token,
		Scope:       strings.Join(tokenResponse.AccessToken.Scopes, " "),
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("Failed to write token response", log.Error(err))
	}
}
