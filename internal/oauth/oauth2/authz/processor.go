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
	"time"

	appmodel "github.com/meridianid/meridian/internal/application/model"
	consentservice "github.com/meridianid/meridian/internal/oauth/consent/service"
	"github.com/meridianid/meridian/internal/oauth/jwt"
	"github.com/meridianid/meridian/internal/oauth/oauth2/constants"
	oauth2model "github.com/meridianid/meridian/internal/oauth/oauth2/model"
	"github.com/meridianid/meridian/internal/system/config"
	"github.com/meridianid/meridian/internal/system/log"
)

// AuthorizationProcessorInterface defines the interface for the authorization
// request state machine.
type AuthorizationProcessorInterface interface {
	ProcessAuthorizationRequest(params *oauth2model.AuthorizationParameter,
		principal *oauth2model.AuthenticatedUser, oauthApp *appmodel.OAuthApplication) (
		*oauth2model.ActionResult, *oauth2model.AuthorizationError)
}

// AuthorizationProcessor implements the AuthorizationProcessorInterface. It
// resolves the effective prompts of a request, gates on authentication and
// consent state, and decides between interactive redirects and the client
// callback.
type AuthorizationProcessor struct {
	Validator      AuthorizationValidatorInterface
	ConsentService consentservice.ConsentServiceInterface
	JWTService     jwt.JWTServiceInterface
}

// NewAuthorizationProcessor creates a new instance of AuthorizationProcessor.
func NewAuthorizationProcessor() AuthorizationProcessorInterface {
	return &AuthorizationProcessor{
		Validator:      NewAuthorizationValidator(),
		ConsentService: consentservice.NewConsentService(),
		JWTService:     jwt.GetJWTService(),
	}
}

// ProcessAuthorizationRequest evaluates an authorization request against the
// authentication and consent state of the end user and returns the action the
// caller must take next.
func (ap *AuthorizationProcessor) ProcessAuthorizationRequest(params *oauth2model.AuthorizationParameter,
	principal *oauth2model.AuthenticatedUser, oauthApp *appmodel.OAuthApplication) (
	*oauth2model.ActionResult, *oauth2model.AuthorizationError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AuthorizationProcessor"))

	endUserIsAuthenticated := principal != nil && principal.IsAuthenticated

	hasConfirmedConsent := false
	if endUserIsAuthenticated {
		consented, err := ap.ConsentService.HasConfirmedConsent(principal.Subject,
			params.ClientID, params.Scopes)
		if err != nil {
			logger.Error("Failed to look up consent", log.Error(err),
				log.String(log.LoggerKeyClientID, params.ClientID))
			return nil, oauth2model.NewAuthorizationError(constants.ErrorServerError,
				"Failed to resolve consent state", params.State)
		}
		hasConfirmedConsent = consented
	}

	// Resolve the effective prompts. An absent or empty prompt derives the
	// implicit prompt from the authentication and consent state.
	prompts := params.Prompts
	if len(prompts) == 0 {
		switch {
		case !endUserIsAuthenticated:
			prompts = []constants.Prompt{constants.PromptLogin}
		case !hasConfirmedConsent:
			prompts = []constants.Prompt{constants.PromptConsent}
		default:
			prompts = []constants.Prompt{constants.PromptNone}
		}
	}

	if authzErr := ap.Validator.ValidateAuthorizationRequest(params, oauthApp); authzErr != nil {
		return nil, authzErr
	}

	// Session freshness takes precedence over prompt dispatch. A stale
	// session forces re-authentication even when prompt=none was requested.
	if endUserIsAuthenticated && params.MaxAge != nil && !principal.AuthTime.IsZero() {
		age := int64(time.Since(principal.AuthTime) / time.Second)
		if age > *params.MaxAge {
			logger.Debug("Session exceeded max_age, forcing re-authentication",
				log.String(log.LoggerKeyClientID, params.ClientID))
			return oauth2model.NewRedirectResult(constants.ActionAuthenticateIndex), nil
		}
	}

	result, authzErr := ap.dispatchOnPrompts(prompts, endUserIsAuthenticated, hasConfirmedConsent, params)
	if authzErr != nil {
		return nil, authzErr
	}

	// A callback decision under prompt=none must honor the id_token_hint.
	if result.Type == oauth2model.ActionResultRedirectToCallbackURL && params.IDTokenHint != "" &&
		containsPrompt(prompts, constants.PromptNone) {
		if authzErr := ap.validateIDTokenHint(params, principal, oauthApp); authzErr != nil {
			return nil, authzErr
		}
	}

	return result, nil
}

// dispatchOnPrompts applies the prompt precedence order: none wins over login,
// login over consent. An unhandled prompt set is a protocol error.
func (ap *AuthorizationProcessor) dispatchOnPrompts(prompts []constants.Prompt,
	endUserIsAuthenticated, hasConfirmedConsent bool, params *oauth2model.AuthorizationParameter) (
	*oauth2model.ActionResult, *oauth2model.AuthorizationError) {
	switch {
	case containsPrompt(prompts, constants.PromptNone):
		if !endUserIsAuthenticated {
			return nil, oauth2model.NewAuthorizationError(constants.ErrorLoginRequired,
				"The user needs to be authenticated", params.State)
		}
		if !hasConfirmedConsent {
			return nil, oauth2model.NewAuthorizationError(constants.ErrorInteractionRequired,
				"The user needs to give his consent", params.State)
		}
		return oauth2model.NewCallbackResult(), nil
	case containsPrompt(prompts, constants.PromptLogin):
		// prompt=login forces re-authentication even for a live session.
		return oauth2model.NewRedirectResult(constants.ActionAuthenticateIndex), nil
	case containsPrompt(prompts, constants.PromptConsent):
		if !endUserIsAuthenticated {
			return oauth2model.NewRedirectResult(constants.ActionAuthenticateIndex), nil
		}
		return oauth2model.NewRedirectResult(constants.ActionConsentIndex), nil
	default:
		return nil, oauth2model.NewAuthorizationError(constants.ErrorInvalidRequest,
			"The prompt parameter is not supported", params.State)
	}
}

// validateIDTokenHint decrypts and verifies the id_token_hint and checks that
// it was issued by this server to the currently authenticated user.
func (ap *AuthorizationProcessor) validateIDTokenHint(params *oauth2model.AuthorizationParameter,
	principal *oauth2model.AuthenticatedUser, oauthApp *appmodel.OAuthApplication) *oauth2model.AuthorizationError {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AuthorizationProcessor"))

	hint := params.IDTokenHint
	if jwt.IsJWE(hint) {
		sharedSecret := oauthApp.SharedSecret()
		if sharedSecret == "" {
			return oauth2model.NewAuthorizationError(constants.ErrorInvalidRequest,
				"The id_token_hint cannot be decrypted", params.State)
		}
		decrypted, err := ap.JWTService.DecryptJWE(hint, jwt.SymmetricKeyFromSecret(sharedSecret))
		if err != nil {
			logger.Debug("Failed to decrypt id_token_hint", log.Error(err))
			return oauth2model.NewAuthorizationError(constants.ErrorInvalidRequest,
				"The id_token_hint cannot be decrypted", params.State)
		}
		hint = decrypted
	}

	if !jwt.IsJWS(hint) {
		return oauth2model.NewAuthorizationError(constants.ErrorInvalidRequest,
			"The id_token_hint is not a valid token", params.State)
	}

	claims, err := ap.JWTService.VerifyJWT(hint, ap.JWTService.GetPublicKey())
	if err != nil {
		logger.Debug("Failed to verify id_token_hint", log.Error(err))
		return oauth2model.NewAuthorizationError(constants.ErrorInvalidRequest,
			"The id_token_hint is not a valid token", params.State)
	}

	issuer := config.GetMeridianRuntime().Config.OAuth.JWT.Issuer
	if !audienceContains(claims["aud"], issuer) {
		return oauth2model.NewAuthorizationError(constants.ErrorInvalidRequest,
			"The id_token_hint was not issued by this server", params.State)
	}

	hintSubject, _ := claims["sub"].(string)
	currentSubject := ""
	if principal != nil {
		currentSubject = principal.Subject
	}
	if hintSubject != currentSubject {
		return oauth2model.NewAuthorizationError(constants.ErrorInvalidRequest,
			"The id_token_hint does not match the authenticated user", params.State)
	}

	return nil
}

func containsPrompt(prompts []constants.Prompt, target constants.Prompt) bool {
	for _, prompt := range prompts {
		if prompt == target {
			return true
		}
	}
	return false
}

// audienceContains handles the aud claim being either a string or an array.
func audienceContains(aud interface{}, target string) bool {
	switch v := aud.(type) {
	case string:
		return v == target
	case []interface{}:
		for _, entry := range v {
			if s, ok := entry.(string); ok && s == target {
				return true
			}
		}
	case []string:
		for _, entry := range v {
			if entry == target {
				return true
			}
		}
	}
	return false
}
