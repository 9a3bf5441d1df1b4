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

// Package constants defines constants used across the OAuth2 module.
package constants

// OAuth2 request parameters.
const (
	RequestParamGrantType           = "grant_type"
	RequestParamClientID            = "client_id"
	RequestParamClientSecret        = "client_secret"
	RequestParamRedirectURI         = "redirect_uri"
	RequestParamScope               = "scope"
	RequestParamCode                = "code"
	RequestParamCodeVerifier        = "code_verifier"
	RequestParamCodeChallenge       = "code_challenge"
	RequestParamCodeChallengeMethod = "code_challenge_method"
	RequestParamResponseType        = "response_type"
	RequestParamResponseMode        = "response_mode"
	RequestParamState               = "state"
	RequestParamNonce               = "nonce"
	RequestParamDisplay             = "display"
	RequestParamPrompt              = "prompt"
	RequestParamMaxAge              = "max_age"
	RequestParamIDTokenHint         = "id_token_hint"
	RequestParamClaims              = "claims"
	RequestParamAccessToken         = "access_token" // #nosec G101
	RequestParamTokenType           = "token_type"
	RequestParamIDToken             = "id_token"
	RequestParamError               = "error"
	RequestParamErrorDescription    = "error_description"
	RequestParamClientAssertion     = "client_assertion"
	RequestParamClientAssertionType = "client_assertion_type"
	RequestParamSessionDataKey      = "sessionDataKey"
)

// OAuth2 endpoints.
const (
	OAuth2TokenEndpoint         = "/oauth2/token" // #nosec G101
	OAuth2AuthorizationEndpoint = "/oauth2/authorize"
	OAuth2JWKSEndpoint          = "/oauth2/jwks"
)

// GrantType defines the OAuth2 grant types.
type GrantType string

// OAuth2 grant types.
const (
	GrantTypeAuthorizationCode GrantType = "authorization_code"
	GrantTypeImplicit          GrantType = "implicit"
	GrantTypeRefreshToken      GrantType = "refresh_token"
	GrantTypeClientCredentials GrantType = "client_credentials"
)

// ResponseType defines the OAuth2/OIDC response types.
type ResponseType string

// OAuth2/OIDC response types.
const (
	ResponseTypeCode    ResponseType = "code"
	ResponseTypeToken   ResponseType = "token"
	ResponseTypeIDToken ResponseType = "id_token"
)

// ResponseMode defines the encoding of redirect parameters.
type ResponseMode string

// OAuth2/OIDC response modes.
const (
	ResponseModeNone     ResponseMode = ""
	ResponseModeQuery    ResponseMode = "query"
	ResponseModeFragment ResponseMode = "fragment"
	ResponseModeFormPost ResponseMode = "form_post"
)

// Prompt defines the OIDC prompt parameter values.
type Prompt string

// OIDC prompt values.
const (
	PromptNone          Prompt = "none"
	PromptLogin         Prompt = "login"
	PromptConsent       Prompt = "consent"
	PromptSelectAccount Prompt = "select_account"
)

// AuthorizationFlow identifies the flow selected from the requested response types.
type AuthorizationFlow string

// Authorization flows.
const (
	FlowAuthorizationCode AuthorizationFlow = "authorization_code"
	FlowImplicit          AuthorizationFlow = "implicit"
	FlowHybrid            AuthorizationFlow = "hybrid"
)

// RedirectAction identifies the interactive endpoint an ActionResult points at.
type RedirectAction string

// Redirect actions.
const (
	ActionAuthenticateIndex RedirectAction = "AuthenticateIndex"
	ActionConsentIndex      RedirectAction = "ConsentIndex"
	ActionFormIndex         RedirectAction = "FormIndex"
)

// TokenEndpointAuthMethod defines the client authentication methods at the token endpoint.
type TokenEndpointAuthMethod string

// Token endpoint client authentication methods.
const (
	AuthMethodClientSecretBasic TokenEndpointAuthMethod = "client_secret_basic"
	AuthMethodClientSecretPost  TokenEndpointAuthMethod = "client_secret_post"
	AuthMethodClientSecretJWT   TokenEndpointAuthMethod = "client_secret_jwt"
	AuthMethodPrivateKeyJWT     TokenEndpointAuthMethod = "private_key_jwt"
	AuthMethodTLSClientAuth     TokenEndpointAuthMethod = "tls_client_auth"
)

// ClientAssertionTypeJWTBearer is the client assertion type for JWT bearer assertions.
const ClientAssertionTypeJWTBearer = "urn:ietf:params:oauth:client-assertion-type:jwt-bearer"

// OpenIDScope is the scope that marks a request as an OpenID Connect request.
const OpenIDScope = "openid"

// OAuth2 token types.
const (
	TokenTypeBearer = "Bearer"
)

// OAuth2 error codes.
const (
	ErrorInvalidRequest          = "invalid_request"
	ErrorInvalidClient           = "invalid_client"
	ErrorInvalidGrant            = "invalid_grant"
	ErrorUnauthorizedClient      = "unauthorized_client"
	ErrorUnsupportedGrantType    = "unsupported_grant_type"
	ErrorInvalidScope            = "invalid_scope"
	ErrorServerError             = "server_error"
	ErrorUnsupportedResponseType = "unsupported_response_type"
	ErrorAccessDenied            = "access_denied"
	ErrorLoginRequired           = "login_required"
	ErrorInteractionRequired     = "interaction_required"
)
