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

package authz

import (
	"strings"
	"time"

	appmodel "github.com/meridianid/meridian/internal/application/model"
	consentservice "github.com/meridianid/meridian/internal/oauth/consent/service"
	"github.com/meridianid/meridian/internal/oauth/jwt"
	authzconstants "github.com/meridianid/meridian/internal/oauth/oauth2/authz/constants"
	authzmodel "github.com/meridianid/meridian/internal/oauth/oauth2/authz/model"
	"github.com/meridianid/meridian/internal/oauth/oauth2/authz/store"
	"github.com/meridianid/meridian/internal/oauth/oauth2/constants"
	oauth2model "github.com/meridianid/meridian/internal/oauth/oauth2/model"
	"github.com/meridianid/meridian/internal/oauth/oauth2/tokenstore"
	oauth2utils "github.com/meridianid/meridian/internal/oauth/oauth2/utils"
	"github.com/meridianid/meridian/internal/system/config"
	"github.com/meridianid/meridian/internal/system/event"
	"github.com/meridianid/meridian/internal/system/log"
	"github.com/meridianid/meridian/internal/system/utils"
)

const defaultAuthCodeValidity = 600 // seconds

// AuthorizationResponseGeneratorInterface defines the interface for assembling
// the redirect parameters of an approved authorization request.
type AuthorizationResponseGeneratorInterface interface {
	GenerateAuthorizationResponse(result *oauth2model.ActionResult,
		params *oauth2model.AuthorizationParameter, principal *oauth2model.AuthenticatedUser,
		oauthApp *appmodel.OAuthApplication) *oauth2model.AuthorizationError
}

// AuthorizationResponseGenerator implements the AuthorizationResponseGeneratorInterface.
// It mints the artifacts each requested response type calls for and attaches
// them to the action result as ordered redirect parameters.
type AuthorizationResponseGenerator struct {
	JWTService        jwt.JWTServiceInterface
	AuthzCodeStore    store.AuthorizationCodeStoreInterface
	GrantedTokenStore tokenstore.GrantedTokenStoreInterface
	ConsentService    consentservice.ConsentServiceInterface
	EventPublisher    event.PublisherInterface
}

// NewAuthorizationResponseGenerator creates a new instance of AuthorizationResponseGenerator.
func NewAuthorizationResponseGenerator() AuthorizationResponseGeneratorInterface {
	return &AuthorizationResponseGenerator{
		JWTService:        jwt.GetJWTService(),
		AuthzCodeStore:    store.NewAuthorizationCodeStore(),
		GrantedTokenStore: tokenstore.NewGrantedTokenStore(),
		ConsentService:    consentservice.NewConsentService(),
		EventPublisher:    event.GetPublisher(),
	}
}

// GenerateAuthorizationResponse mints the requested artifacts and appends them
// to the result's redirect parameters. Artifacts are persisted independently
// as soon as minted; a later failure does not roll back earlier ones.
func (rg *AuthorizationResponseGenerator) GenerateAuthorizationResponse(result *oauth2model.ActionResult,
	params *oauth2model.AuthorizationParameter, principal *oauth2model.AuthenticatedUser,
	oauthApp *appmodel.OAuthApplication) *oauth2model.AuthorizationError {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AuthorizationResponseGenerator"))

	flow, err := oauth2utils.ResolveAuthorizationFlow(params.ResponseTypes)
	if err != nil {
		return oauth2model.NewAuthorizationError(constants.ErrorInvalidRequest,
			err.Error(), params.State)
	}

	var idTokenPayload string
	if params.HasResponseType(constants.ResponseTypeIDToken) {
		idToken, authzErr := rg.generateIDToken(params, principal, oauthApp)
		if authzErr != nil {
			return authzErr
		}
		idTokenPayload = idToken
		result.Redirect.AddParameter(constants.RequestParamIDToken, idToken)
	}

	if params.HasResponseType(constants.ResponseTypeToken) {
		accessToken, authzErr := rg.resolveAccessToken(params, principal, oauthApp)
		if authzErr != nil {
			return authzErr
		}
		result.Redirect.AddParameter(constants.RequestParamAccessToken, accessToken)
		result.Redirect.AddParameter(constants.RequestParamTokenType, constants.TokenTypeBearer)
	}

	if params.HasResponseType(constants.ResponseTypeCode) {
		code, authzErr := rg.issueAuthorizationCode(params, principal, idTokenPayload)
		if authzErr != nil {
			return authzErr
		}
		result.Redirect.AddParameter(constants.RequestParamCode, code)
	}

	if params.State != "" {
		result.Redirect.AddParameter(constants.RequestParamState, params.State)
	}

	// Response mode defaulting only applies to callback redirects.
	if result.Type == oauth2model.ActionResultRedirectToCallbackURL {
		result.Redirect.ResponseMode = oauth2utils.EffectiveResponseMode(params.ResponseMode, flow)
	}

	logger.Debug("Authorization response generated",
		log.String(log.LoggerKeyClientID, params.ClientID), log.String("flow", string(flow)))
	return nil
}

// generateIDToken mints the ID token for the request, encrypting it when the
// client registered JWE preferences.
func (rg *AuthorizationResponseGenerator) generateIDToken(params *oauth2model.AuthorizationParameter,
	principal *oauth2model.AuthenticatedUser, oauthApp *appmodel.OAuthApplication) (
	string, *oauth2model.AuthorizationError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AuthorizationResponseGenerator"))

	claims := map[string]interface{}{}
	if params.Nonce != "" {
		claims["nonce"] = params.Nonce
	}
	if !principal.AuthTime.IsZero() {
		claims["auth_time"] = principal.AuthTime.Unix()
	}
	for claim, request := range requestedIDTokenClaims(params.Claims) {
		if value, ok := principal.Attributes[claim]; ok {
			claims[claim] = value
		} else if request != nil && request.Value != "" {
			claims[claim] = request.Value
		}
	}

	idToken, _, err := rg.JWTService.GenerateJWT(principal.Subject, params.ClientID,
		jwt.GetIDTokenValidityPeriod(), claims)
	if err != nil {
		logger.Error("Failed to generate ID token", log.Error(err))
		return "", oauth2model.NewAuthorizationError(constants.ErrorServerError,
			"Failed to generate the id_token", params.State)
	}

	if oauthApp.IDTokenEncryptedResponseAlg != "" {
		encrypted, err := rg.encryptIDToken(idToken, oauthApp)
		if err != nil {
			logger.Error("Failed to encrypt ID token", log.Error(err))
			return "", oauth2model.NewAuthorizationError(constants.ErrorServerError,
				"Failed to encrypt the id_token", params.State)
		}
		idToken = encrypted
	}

	return idToken, nil
}

// encryptIDToken wraps the signed ID token in a JWE using the client's
// registered public key, falling back to a key derived from the shared secret.
func (rg *AuthorizationResponseGenerator) encryptIDToken(idToken string,
	oauthApp *appmodel.OAuthApplication) (string, error) {
	if oauthApp.PublicKeyPEM != "" {
		publicKey, err := jwt.ParseRSAPublicKeyPEM(oauthApp.PublicKeyPEM)
		if err != nil {
			return "", err
		}
		return rg.JWTService.EncryptJWE(idToken, publicKey)
	}
	return rg.JWTService.EncryptJWE(idToken, jwt.SymmetricKeyFromSecret(oauthApp.SharedSecret()))
}

// resolveAccessToken reuses a live granted token for the same client, subject
// and scope set, minting and persisting a new one otherwise.
func (rg *AuthorizationResponseGenerator) resolveAccessToken(params *oauth2model.AuthorizationParameter,
	principal *oauth2model.AuthenticatedUser, oauthApp *appmodel.OAuthApplication) (
	string, *oauth2model.AuthorizationError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AuthorizationResponseGenerator"))

	fingerprint := tokenstore.ComputeFingerprint(params.ClientID, principal.Subject, params.Scopes)
	granted, err := rg.GrantedTokenStore.GetGrantedTokenByFingerprint(fingerprint)
	if err == nil && granted != nil && !granted.IsExpired() {
		return granted.AccessToken, nil
	}

	validityPeriod := jwt.GetJWTTokenValidityPeriod()
	accessToken, issuedAt, err := rg.JWTService.GenerateJWT(principal.Subject, params.ClientID,
		validityPeriod, map[string]interface{}{"scope": strings.Join(params.Scopes, " ")})
	if err != nil {
		logger.Error("Failed to generate access token", log.Error(err))
		return "", oauth2model.NewAuthorizationError(constants.ErrorServerError,
			"Failed to generate the access token", params.State)
	}

	tokenID := utils.GenerateUUID()
	insertErr := rg.GrantedTokenStore.InsertGrantedToken(tokenstore.GrantedToken{
		TokenID:     tokenID,
		ClientID:    params.ClientID,
		Subject:     principal.Subject,
		Scopes:      params.Scopes,
		Fingerprint: fingerprint,
		AccessToken: accessToken,
		IssuedAt:    time.Unix(issuedAt, 0),
		ExpiresIn:   validityPeriod,
	})
	if insertErr != nil {
		logger.Error("Failed to persist granted token", log.Error(insertErr))
		return "", oauth2model.NewAuthorizationError(constants.ErrorServerError,
			"Failed to persist the access token", params.State)
	}

	rg.EventPublisher.Publish(event.Event{
		ID:       tokenID,
		Type:     event.TypeAccessTokenIssued,
		ClientID: params.ClientID,
		Subject:  principal.Subject,
		Details:  map[string]any{"scope": strings.Join(params.Scopes, " ")},
	})

	return accessToken, nil
}

// issueAuthorizationCode mints and persists an authorization code. Consent is
// a precondition of code issuance.
func (rg *AuthorizationResponseGenerator) issueAuthorizationCode(params *oauth2model.AuthorizationParameter,
	principal *oauth2model.AuthenticatedUser, idTokenPayload string) (
	string, *oauth2model.AuthorizationError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AuthorizationResponseGenerator"))

	consented, err := rg.ConsentService.HasConfirmedConsent(principal.Subject,
		params.ClientID, params.Scopes)
	if err != nil {
		logger.Error("Failed to look up consent", log.Error(err))
		return "", oauth2model.NewAuthorizationError(constants.ErrorServerError,
			"Failed to resolve consent state", params.State)
	}
	if !consented {
		return "", oauth2model.NewAuthorizationError(constants.ErrorInteractionRequired,
			"The user needs to give his consent", params.State)
	}

	validityPeriod := config.GetMeridianRuntime().Config.OAuth.AuthorizationCode.ValidityPeriod
	if validityPeriod == 0 {
		validityPeriod = defaultAuthCodeValidity
	}
	now := time.Now()

	authzCode := authzmodel.AuthorizationCode{
		CodeID:              utils.GenerateUUID(),
		Code:                utils.GenerateUUID(),
		ClientID:            params.ClientID,
		RedirectURI:         params.RedirectURI,
		AuthorizedUserID:    principal.Subject,
		Nonce:               params.Nonce,
		CodeChallenge:       params.CodeChallenge,
		CodeChallengeMethod: params.CodeChallengeMethod,
		TimeCreated:         now,
		ExpiryTime:          now.Add(time.Duration(validityPeriod) * time.Second),
		Scopes:              strings.Join(params.Scopes, " "),
		State:               authzconstants.AuthCodeStateActive,
	}

	if err := rg.AuthzCodeStore.InsertAuthorizationCode(authzCode); err != nil {
		logger.Error("Failed to persist authorization code", log.Error(err))
		return "", oauth2model.NewAuthorizationError(constants.ErrorServerError,
			"Failed to persist the authorization code", params.State)
	}

	details := map[string]any{"scope": authzCode.Scopes}
	if idTokenPayload != "" {
		details["id_token_issued"] = true
	}
	rg.EventPublisher.Publish(event.Event{
		ID:       authzCode.CodeID,
		Type:     event.TypeAuthorizationCodeIssued,
		ClientID: params.ClientID,
		Subject:  principal.Subject,
		Details:  details,
	})

	return authzCode.Code, nil
}

// requestedIDTokenClaims returns the id_token claim requests, or nil.
func requestedIDTokenClaims(claims *oauth2model.ClaimsParameter) map[string]*oauth2model.ClaimRequest {
	if claims == nil {
		return nil
	}
	return claims.IDToken
}
