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
	appmodel "github.com/meridianid/meridian/internal/application/model"
	appprovider "github.com/meridianid/meridian/internal/application/provider"
	"github.com/meridianid/meridian/internal/oauth/oauth2/constants"
	oauth2model "github.com/meridianid/meridian/internal/oauth/oauth2/model"
	"github.com/meridianid/meridian/internal/system/log"
)

// AuthorizationValidatorInterface defines the interface for validating OAuth2 authorization requests.
type AuthorizationValidatorInterface interface {
	ValidateClientExist(clientID, state string) (*appmodel.OAuthApplication, *oauth2model.AuthorizationError)
	ValidateRedirectURI(oauthApp *appmodel.OAuthApplication, requestedURI string) bool
	ValidateGrantTypes(oauthApp *appmodel.OAuthApplication, required ...constants.GrantType) bool
	ValidateResponseTypes(oauthApp *appmodel.OAuthApplication, requested []constants.ResponseType) bool
	ValidateAuthorizationRequest(params *oauth2model.AuthorizationParameter,
		oauthApp *appmodel.OAuthApplication) *oauth2model.AuthorizationError
}

// AuthorizationValidator implements the AuthorizationValidatorInterface.
type AuthorizationValidator struct {
	AppProvider appprovider.ApplicationProviderInterface
}

// NewAuthorizationValidator creates a new instance of AuthorizationValidator.
func NewAuthorizationValidator() AuthorizationValidatorInterface {
	return &AuthorizationValidator{
		AppProvider: appprovider.NewApplicationProvider(),
	}
}

// ValidateClientExist resolves the OAuth application registered for the client id.
func (av *AuthorizationValidator) ValidateClientExist(clientID, state string) (
	*appmodel.OAuthApplication, *oauth2model.AuthorizationError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AuthorizationValidator"))

	if clientID == "" {
		return nil, oauth2model.NewAuthorizationError(constants.ErrorInvalidRequest,
			"Missing client_id parameter", state)
	}

	appService := av.AppProvider.GetApplicationService()
	oauthApp, err := appService.GetOAuthApplication(clientID)
	if err != nil {
		logger.Error("Failed to retrieve OAuth application", log.Error(err),
			log.String(log.LoggerKeyClientID, clientID))
		return nil, oauth2model.NewAuthorizationError(constants.ErrorServerError,
			"Failed to resolve the client", state)
	}
	if oauthApp == nil {
		return nil, oauth2model.NewAuthorizationError(constants.ErrorInvalidRequest,
			"Invalid client_id parameter", state)
	}
	return oauthApp, nil
}

// ValidateRedirectURI matches the requested redirect URI against the client's
// registered URIs. The match is an exact, case-sensitive string comparison;
// an absent requested URI never matches.
func (av *AuthorizationValidator) ValidateRedirectURI(oauthApp *appmodel.OAuthApplication,
	requestedURI string) bool {
	if requestedURI == "" || len(oauthApp.RedirectURIs) == 0 {
		return false
	}

	for _, registered := range oauthApp.RedirectURIs {
		if registered == requestedURI {
			return true
		}
	}
	return false
}

// ValidateGrantTypes checks that every required grant type is registered for
// the client, using the defaulted view of the client's grant types.
func (av *AuthorizationValidator) ValidateGrantTypes(oauthApp *appmodel.OAuthApplication,
	required ...constants.GrantType) bool {
	registered := oauthApp.EffectiveGrantTypes()
	for _, grantType := range required {
		if !containsGrantType(registered, grantType) {
			return false
		}
	}
	return true
}

// ValidateResponseTypes checks that every requested response type is
// registered for the client, using the defaulted view of the client's
// response types.
func (av *AuthorizationValidator) ValidateResponseTypes(oauthApp *appmodel.OAuthApplication,
	requested []constants.ResponseType) bool {
	registered := oauthApp.EffectiveResponseTypes()
	for _, responseType := range requested {
		if !containsResponseType(registered, responseType) {
			return false
		}
	}
	return true
}

// ValidateAuthorizationRequest runs the protocol-level checks that gate every
// authorization flow: redirect URI resolution, scope authorization, the
// mandatory openid scope, and response type support.
func (av *AuthorizationValidator) ValidateAuthorizationRequest(params *oauth2model.AuthorizationParameter,
	oauthApp *appmodel.OAuthApplication) *oauth2model.AuthorizationError {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AuthorizationValidator"))

	if params.RedirectURI == "" {
		return oauth2model.NewAuthorizationError(constants.ErrorInvalidRequest,
			"Missing redirect_uri parameter", params.State)
	}
	if !av.ValidateRedirectURI(oauthApp, params.RedirectURI) {
		logger.Debug("Redirect URI validation failed",
			log.String(log.LoggerKeyClientID, params.ClientID))
		return oauth2model.NewAuthorizationError(constants.ErrorInvalidRequest,
			"Invalid redirect_uri parameter", params.State)
	}

	if len(params.Scopes) == 0 {
		return oauth2model.NewAuthorizationError(constants.ErrorInvalidRequest,
			"Missing scope parameter", params.State)
	}
	for _, scope := range params.Scopes {
		if !oauthApp.IsAllowedScope(scope) {
			return oauth2model.NewAuthorizationError(constants.ErrorInvalidScope,
				"Scope is not authorized for the client: "+scope, params.State)
		}
	}
	if !params.HasOpenIDScope() {
		return oauth2model.NewAuthorizationError(constants.ErrorInvalidScope,
			"Scope must include openid", params.State)
	}

	if len(params.ResponseTypes) == 0 {
		return oauth2model.NewAuthorizationError(constants.ErrorInvalidRequest,
			"Missing response_type parameter", params.State)
	}
	if !av.ValidateResponseTypes(oauthApp, params.ResponseTypes) {
		return oauth2model.NewAuthorizationError(constants.ErrorInvalidRequest,
			"Response type is not supported by the client", params.State)
	}

	return nil
}

func containsGrantType(grantTypes []constants.GrantType, target constants.GrantType) bool {
	for _, grantType := range grantTypes {
		if grantType == target {
			return true
		}
	}
	return false
}

func containsResponseType(responseTypes []constants.ResponseType, target constants.ResponseType) bool {
	for _, responseType := range responseTypes {
		if responseType == target {
			return true
		}
	}
	return false
}
