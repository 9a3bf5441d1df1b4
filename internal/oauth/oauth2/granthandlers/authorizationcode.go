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

package granthandlers

import (
	"strings"
	"time"

	appmodel "github.com/meridianid/meridian/internal/application/model"
	"github.com/meridianid/meridian/internal/oauth/jwt"
	authzconstants "github.com/meridianid/meridian/internal/oauth/oauth2/authz/constants"
	authzmodel "github.com/meridianid/meridian/internal/oauth/oauth2/authz/model"
	"github.com/meridianid/meridian/internal/oauth/oauth2/authz/store"
	"github.com/meridianid/meridian/internal/oauth/oauth2/constants"
	"github.com/meridianid/meridian/internal/oauth/oauth2/model"
	"github.com/meridianid/meridian/internal/oauth/oauth2/pkce"
	"github.com/meridianid/meridian/internal/system/event"
)

// authorizationCodeGrantHandler handles the authorization code grant type.
type authorizationCodeGrantHandler struct {
	JWTService     jwt.JWTServiceInterface
	AuthZStore     store.AuthorizationCodeStoreInterface
	EventPublisher event.PublisherInterface
}

// newAuthorizationCodeGrantHandler creates a new instance of authorizationCodeGrantHandler.
func newAuthorizationCodeGrantHandler() GrantHandlerInterface {
	return &authorizationCodeGrantHandler{
		JWTService:     jwt.GetJWTService(),
		AuthZStore:     store.NewAuthorizationCodeStore(),
		EventPublisher: event.GetPublisher(),
	}
}

// ValidateGrant validates the authorization code grant request.
func (h *authorizationCodeGrantHandler) ValidateGrant(tokenRequest *model.TokenRequest,
	oauthApp *appmodel.OAuthApplication) *model.ErrorResponse {
	if tokenRequest.GrantType == "" {
		return &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "Missing grant type",
		}
	}
	if constants.GrantType(tokenRequest.GrantType) != constants.GrantTypeAuthorizationCode {
		return &model.ErrorResponse{
			Error:            constants.ErrorUnsupportedGrantType,
			ErrorDescription: "Unsupported grant type",
		}
	}

	allowed := false
	for _, grantType := range oauthApp.EffectiveGrantTypes() {
		if grantType == constants.GrantTypeAuthorizationCode {
			allowed = true
			break
		}
	}
	if !allowed {
		return &model.ErrorResponse{
			Error:            constants.ErrorUnauthorizedClient,
			ErrorDescription: "Authorization code grant type is not allowed for the client",
		}
	}

	if tokenRequest.Code == "" {
		return &model.ErrorResponse{
			Error:            constants.ErrorInvalidGrant,
			ErrorDescription: "Authorization code is required",
		}
	}
	if tokenRequest.ClientID == "" {
		return &model.ErrorResponse{
			Error:            constants.ErrorInvalidClient,
			ErrorDescription: "Client Id is required",
		}
	}

	return nil
}

// HandleGrant processes the authorization code grant request and generates a token response.
// The code is single use: it is deactivated before any token is minted.
func (h *authorizationCodeGrantHandler) HandleGrant(tokenRequest *model.TokenRequest,
	oauthApp *appmodel.OAuthApplication) (*model.TokenResponseDTO, *model.ErrorResponse) {
	authCode, err := h.AuthZStore.GetAuthorizationCode(tokenRequest.ClientID, tokenRequest.Code)
	if err != nil || authCode.Code == "" {
		return nil, &model.ErrorResponse{
			Error:            constants.ErrorInvalidGrant,
			ErrorDescription: "Invalid authorization code",
		}
	}

	if errResponse := validateAuthorizationCode(tokenRequest, authCode); errResponse != nil {
		return nil, errResponse
	}

	// Invalidate the authorization code before minting tokens.
	if err := h.AuthZStore.DeactivateAuthorizationCode(authCode); err != nil {
		return nil, &model.ErrorResponse{
			Error:            constants.ErrorServerError,
			ErrorDescription: "Failed to invalidate authorization code",
		}
	}

	authorizedScopesStr := strings.TrimSpace(authCode.Scopes)
	authorizedScopes := []string{}
	if authorizedScopesStr != "" {
		authorizedScopes = strings.Split(authorizedScopesStr, " ")
	}

	accessTokenClaims := map[string]interface{}{}
	if authorizedScopesStr != "" {
		accessTokenClaims["scope"] = authorizedScopesStr
	}
	validityPeriod := jwt.GetJWTTokenValidityPeriod()
	accessToken, issuedAt, err := h.JWTService.GenerateJWT(authCode.AuthorizedUserID,
		authCode.ClientID, validityPeriod, accessTokenClaims)
	if err != nil {
		return nil, &model.ErrorResponse{
			Error:            constants.ErrorServerError,
			ErrorDescription: "Failed to generate token",
		}
	}

	tokenResponse := &model.TokenResponseDTO{
		AccessToken: model.TokenDTO{
			Token:     accessToken,
			TokenType: constants.TokenTypeBearer,
			IssuedAt:  issuedAt,
			ExpiresIn: validityPeriod,
			Scopes:    authorizedScopes,
			ClientID:  tokenRequest.ClientID,
			Subject:   authCode.AuthorizedUserID,
		},
	}

	// Mint an ID token when the code was issued for an OpenID Connect request.
	if containsScope(authorizedScopes, constants.OpenIDScope) {
		idTokenClaims := map[string]interface{}{}
		if authCode.Nonce != "" {
			idTokenClaims["nonce"] = authCode.Nonce
		}
		idTokenValidity := jwt.GetIDTokenValidityPeriod()
		idToken, idTokenIssuedAt, err := h.JWTService.GenerateJWT(authCode.AuthorizedUserID,
			authCode.ClientID, idTokenValidity, idTokenClaims)
		if err != nil {
			return nil, &model.ErrorResponse{
				Error:            constants.ErrorServerError,
				ErrorDescription: "Failed to generate id_token",
			}
		}
		tokenResponse.IDToken = model.TokenDTO{
			Token:     idToken,
			TokenType: constants.TokenTypeBearer,
			IssuedAt:  idTokenIssuedAt,
			ExpiresIn: idTokenValidity,
			ClientID:  tokenRequest.ClientID,
			Subject:   authCode.AuthorizedUserID,
		}
	}

	h.EventPublisher.Publish(event.Event{
		ID:       authCode.CodeID,
		Type:     event.TypeAccessTokenIssued,
		ClientID: tokenRequest.ClientID,
		Subject:  authCode.AuthorizedUserID,
		Details:  map[string]any{"scope": authorizedScopesStr, "grant_type": tokenRequest.GrantType},
	})

	return tokenResponse, nil
}

// validateAuthorizationCode validates the authorization code against the token request.
func validateAuthorizationCode(tokenRequest *model.TokenRequest,
	authCode authzmodel.AuthorizationCode) *model.ErrorResponse {
	if tokenRequest.ClientID != authCode.ClientID {
		return &model.ErrorResponse{
			Error:            constants.ErrorInvalidClient,
			ErrorDescription: "Invalid client Id",
		}
	}

	// redirect_uri must match the one bound at authorization when present.
	if authCode.RedirectURI != "" && tokenRequest.RedirectURI != authCode.RedirectURI {
		return &model.ErrorResponse{
			Error:            constants.ErrorInvalidGrant,
			ErrorDescription: "Invalid redirect URI",
		}
	}

	if authCode.State != authzconstants.AuthCodeStateActive {
		return &model.ErrorResponse{
			Error:            constants.ErrorInvalidGrant,
			ErrorDescription: "Inactive authorization code",
		}
	}

	if authCode.ExpiryTime.Before(time.Now()) {
		return &model.ErrorResponse{
			Error:            constants.ErrorInvalidGrant,
			ErrorDescription: "Expired authorization code",
		}
	}

	// PKCE is enforced when a challenge was bound to the code.
	if authCode.CodeChallenge != "" {
		if err := pkce.ValidatePKCE(authCode.CodeChallenge, authCode.CodeChallengeMethod,
			tokenRequest.CodeVerifier); err != nil {
			return &model.ErrorResponse{
				Error:            constants.ErrorInvalidGrant,
				ErrorDescription: "PKCE validation failed",
			}
		}
	}

	return nil
}

func containsScope(scopes []string, target string) bool {
	for _, scope := range scopes {
		if scope == target {
			return true
		}
	}
	return false
}
