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
	"fmt"
	"html"
	"net/http"

	"github.com/meridianid/meridian/internal/oauth/oauth2/constants"
	oauth2model "github.com/meridianid/meridian/internal/oauth/oauth2/model"
	oauth2utils "github.com/meridianid/meridian/internal/oauth/oauth2/utils"
	sessionmodel "github.com/meridianid/meridian/internal/oauth/session/model"
	sessionstore "github.com/meridianid/meridian/internal/oauth/session/store"
	"github.com/meridianid/meridian/internal/system/config"
	"github.com/meridianid/meridian/internal/system/log"
	"github.com/meridianid/meridian/internal/system/utils"
)

// AuthorizeHandler handles the OAuth2 authorization endpoint. It binds the
// request parameters, resolves the end-user session and maps the pipeline's
// action results onto HTTP redirects.
type AuthorizeHandler struct {
	FlowExecutor AuthorizationFlowExecutorInterface
	SessionStore sessionstore.SessionDataStoreInterface
}

// NewAuthorizeHandler creates a new instance of AuthorizeHandler.
func NewAuthorizeHandler() *AuthorizeHandler {
	return &AuthorizeHandler{
		FlowExecutor: NewAuthorizationFlowExecutor(),
		SessionStore: sessionstore.GetSessionDataStore(),
	}
}

// HandleAuthorizeRequest handles the OAuth2 authorization request.
func (ah *AuthorizeHandler) HandleAuthorizeRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AuthorizeHandler"))

	if err := r.ParseForm(); err != nil {
		utils.WriteJSONError(w, constants.ErrorInvalidRequest,
			"Invalid authorization request", http.StatusBadRequest, nil)
		return
	}

	params, authzErr := bindAuthorizationParameter(r)
	if authzErr != nil {
		ah.writeAuthorizationError(w, r, params, authzErr)
		return
	}

	// A sessionDataKey returning from the login or consent page resumes the
	// stored request with its resolved user.
	principal := ah.resolvePrincipal(r, params)

	result, authzErr := ah.FlowExecutor.Authorize(params, principal)
	if authzErr != nil {
		ah.writeAuthorizationError(w, r, params, authzErr)
		return
	}

	switch result.Type {
	case oauth2model.ActionResultRedirectToAction:
		ah.redirectToAction(w, r, params, principal, result)
	case oauth2model.ActionResultRedirectToCallbackURL:
		ah.redirectToCallback(w, r, params, result)
	default:
		logger.Error("Unknown action result type", log.String("type", string(result.Type)))
		utils.WriteJSONError(w, constants.ErrorServerError,
			"Failed to process the authorization request", http.StatusInternalServerError, nil)
	}
}

// bindAuthorizationParameter normalizes the request's query parameters.
func bindAuthorizationParameter(r *http.Request) (*oauth2model.AuthorizationParameter,
	*oauth2model.AuthorizationError) {
	query := r.Form
	state := query.Get(constants.RequestParamState)

	maxAge, err := oauth2utils.ParseMaxAge(query.Get(constants.RequestParamMaxAge))
	if err != nil {
		return &oauth2model.AuthorizationParameter{State: state},
			oauth2model.NewAuthorizationError(constants.ErrorInvalidRequest, err.Error(), state)
	}

	return &oauth2model.AuthorizationParameter{
		ClientID:            query.Get(constants.RequestParamClientID),
		RedirectURI:         query.Get(constants.RequestParamRedirectURI),
		Scopes:              oauth2utils.ParseScopes(query.Get(constants.RequestParamScope)),
		ResponseTypes:       oauth2utils.ParseResponseTypes(query.Get(constants.RequestParamResponseType)),
		ResponseMode:        oauth2utils.ParseResponseMode(query.Get(constants.RequestParamResponseMode)),
		State:               state,
		Nonce:               query.Get(constants.RequestParamNonce),
		Display:             query.Get(constants.RequestParamDisplay),
		Prompts:             oauth2utils.ParsePrompts(query.Get(constants.RequestParamPrompt)),
		MaxAge:              maxAge,
		IDTokenHint:         query.Get(constants.RequestParamIDTokenHint),
		Claims:              oauth2utils.ParseClaims(query.Get(constants.RequestParamClaims)),
		CodeChallenge:       query.Get(constants.RequestParamCodeChallenge),
		CodeChallengeMethod: query.Get(constants.RequestParamCodeChallengeMethod),
	}, nil
}

// resolvePrincipal loads the authenticated user bound to the sessionDataKey,
// if the request carries one. The session entry is one shot.
func (ah *AuthorizeHandler) resolvePrincipal(r *http.Request,
	params *oauth2model.AuthorizationParameter) *oauth2model.AuthenticatedUser {
	sessionDataKey := r.Form.Get(constants.RequestParamSessionDataKey)
	if sessionDataKey == "" {
		return nil
	}

	sessionData, found := ah.SessionStore.ConsumeSession(sessionDataKey)
	if !found {
		return nil
	}

	// Restore parameters the interactive round trip may have dropped.
	if params.ClientID == "" {
		*params = sessionData.OAuthParameters
	}

	principal := sessionData.AuthenticatedUser
	if !principal.IsAuthenticated {
		return nil
	}
	return &principal
}

// redirectToAction stores the request context and sends the user agent to the
// login or consent page.
func (ah *AuthorizeHandler) redirectToAction(w http.ResponseWriter, r *http.Request,
	params *oauth2model.AuthorizationParameter, principal *oauth2model.AuthenticatedUser,
	result *oauth2model.ActionResult) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AuthorizeHandler"))

	oauthConfig := config.GetMeridianRuntime().Config.OAuth
	var pageURL string
	switch result.Redirect.Action {
	case constants.ActionAuthenticateIndex:
		pageURL = oauthConfig.LoginPageURL
	case constants.ActionConsentIndex:
		pageURL = oauthConfig.ConsentPageURL
	default:
		utils.WriteJSONError(w, constants.ErrorServerError,
			"Unsupported redirect action", http.StatusInternalServerError, nil)
		return
	}

	sessionData := sessionmodel.SessionData{OAuthParameters: *params}
	if principal != nil {
		sessionData.AuthenticatedUser = *principal
	}
	sessionDataKey := utils.GenerateUUID()
	ah.SessionStore.AddSession(sessionDataKey, sessionData)

	redirectURI, err := utils.GetURIWithQueryParams(pageURL, map[string]string{
		constants.RequestParamSessionDataKey: sessionDataKey,
	})
	if err != nil {
		logger.Error("Failed to construct redirect URI", log.Error(err))
		utils.WriteJSONError(w, constants.ErrorServerError,
			"Failed to redirect to the interactive page", http.StatusInternalServerError, nil)
		return
	}

	http.Redirect(w, r, redirectURI, http.StatusFound)
}

// redirectToCallback sends the authorization response to the client's
// redirect URI using the resolved response mode.
func (ah *AuthorizeHandler) redirectToCallback(w http.ResponseWriter, r *http.Request,
	params *oauth2model.AuthorizationParameter, result *oauth2model.ActionResult) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AuthorizeHandler"))

	if result.Redirect.ResponseMode == constants.ResponseModeFormPost {
		writeFormPostPage(w, params.RedirectURI, result.Redirect.Parameters)
		return
	}

	redirectURI, err := oauth2utils.BuildRedirectURI(params.RedirectURI,
		result.Redirect.ResponseMode, result.Redirect.Parameters)
	if err != nil {
		logger.Error("Failed to construct callback redirect URI", log.Error(err))
		utils.WriteJSONError(w, constants.ErrorServerError,
			"Failed to redirect to the callback URI", http.StatusInternalServerError, nil)
		return
	}

	http.Redirect(w, r, redirectURI, http.StatusFound)
}

// writeAuthorizationError reports a protocol error back to the client via its
// redirect URI when one was validated, falling back to a JSON response.
func (ah *AuthorizeHandler) writeAuthorizationError(w http.ResponseWriter, r *http.Request,
	params *oauth2model.AuthorizationParameter, authzErr *oauth2model.AuthorizationError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AuthorizeHandler"))

	// Only errors raised after redirect URI validation may be delivered to
	// the callback; an unvalidated URI would be an open redirect.
	if params != nil && params.RedirectURI != "" && authzErr.Code != constants.ErrorInvalidClient &&
		redirectURIIsRegistered(params) {
		queryParams := map[string]string{
			constants.RequestParamError:            authzErr.Code,
			constants.RequestParamErrorDescription: authzErr.Description,
		}
		if authzErr.State != "" {
			queryParams[constants.RequestParamState] = authzErr.State
		}
		redirectURI, err := utils.GetURIWithQueryParams(params.RedirectURI, queryParams)
		if err == nil {
			http.Redirect(w, r, redirectURI, http.StatusFound)
			return
		}
		logger.Error("Failed to construct error redirect URI", log.Error(err))
	}

	utils.WriteJSONError(w, authzErr.Code, authzErr.Description, http.StatusBadRequest, nil)
}

// redirectURIIsRegistered re-checks the redirect URI against the client record.
func redirectURIIsRegistered(params *oauth2model.AuthorizationParameter) bool {
	validator := NewAuthorizationValidator()
	oauthApp, authzErr := validator.ValidateClientExist(params.ClientID, params.State)
	if authzErr != nil {
		return false
	}
	return validator.ValidateRedirectURI(oauthApp, params.RedirectURI)
}

// writeFormPostPage renders the auto-submitting form used by the form_post
// response mode.
func writeFormPostPage(w http.ResponseWriter, redirectURI string,
	parameters []oauth2model.Parameter) {
	w.Header().Set("Content-Type", "text/html;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")

	fmt.Fprintf(w, "<html><head><title>Submit this form</title></head>"+
		"<body onload=\"javascript:document.forms[0].submit()\">"+
		"<form method=\"post\" action=\"%s\">", html.EscapeString(redirectURI))
	for _, parameter := range parameters {
		fmt.Fprintf(w, "<input type=\"hidden\" name=\"%s\" value=\"%s\"/>",
			html.EscapeString(parameter.Key), html.EscapeString(parameter.Value))
	}
	fmt.Fprint(w, "</form></body></html>")
}
