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

// Package model defines the data structures used in the OAuth2 module.
package model

import (
	"crypto/x509"
	"time"

	"github.com/meridianid/meridian/internal/oauth/oauth2/constants"
)

// AuthorizationParameter carries the parsed query parameters of an
// authorization request. Multi-valued parameters are already split and
// unknown enum tokens dropped by the parsing utilities.
type AuthorizationParameter struct {
	ClientID            string
	RedirectURI         string
	Scopes              []string
	ResponseTypes       []constants.ResponseType
	ResponseMode        constants.ResponseMode
	State               string
	Nonce               string
	Display             string
	Prompts             []constants.Prompt
	MaxAge              *int64
	IDTokenHint         string
	Claims              *ClaimsParameter
	CodeChallenge       string
	CodeChallengeMethod string
}

// HasOpenIDScope reports whether the request asks for an OpenID Connect flow.
func (p *AuthorizationParameter) HasOpenIDScope() bool {
	for _, scope := range p.Scopes {
		if scope == constants.OpenIDScope {
			return true
		}
	}
	return false
}

// HasResponseType reports whether the requested response types include rt.
func (p *AuthorizationParameter) HasResponseType(rt constants.ResponseType) bool {
	for _, responseType := range p.ResponseTypes {
		if responseType == rt {
			return true
		}
	}
	return false
}

// HasPrompt reports whether the requested prompts include pr.
func (p *AuthorizationParameter) HasPrompt(pr constants.Prompt) bool {
	for _, prompt := range p.Prompts {
		if prompt == pr {
			return true
		}
	}
	return false
}

// ClaimsParameter is the parsed OIDC claims request parameter.
type ClaimsParameter struct {
	UserInfo map[string]*ClaimRequest `json:"userinfo,omitempty"`
	IDToken  map[string]*ClaimRequest `json:"id_token,omitempty"`
}

// ClaimRequest describes an individual claim request entry.
type ClaimRequest struct {
	Essential bool     `json:"essential,omitempty"`
	Value     string   `json:"value,omitempty"`
	Values    []string `json:"values,omitempty"`
}

// AuthenticatedUser represents the resolved end-user session behind an
// authorization request.
type AuthenticatedUser struct {
	IsAuthenticated bool
	Subject         string
	AuthTime        time.Time
	Attributes      map[string]interface{}
}

// Parameter is a single redirect parameter. Parameters are kept as an
// ordered slice so that generated redirects are deterministic.
type Parameter struct {
	Key   string
	Value string
}

// RedirectInstruction tells the HTTP layer where to send the user agent
// and how to encode the parameters.
type RedirectInstruction struct {
	Action       constants.RedirectAction
	ResponseMode constants.ResponseMode
	Parameters   []Parameter
}

// AddParameter appends a redirect parameter, preserving insertion order.
func (ri *RedirectInstruction) AddParameter(key, value string) {
	ri.Parameters = append(ri.Parameters, Parameter{Key: key, Value: value})
}

// ActionResultType distinguishes the two outcomes of the authorization
// state machine.
type ActionResultType string

// Action result types.
const (
	ActionResultRedirectToCallbackURL ActionResultType = "REDIRECT_TO_CALLBACK_URL"
	ActionResultRedirectToAction      ActionResultType = "REDIRECT_TO_ACTION"
)

// ActionResult is the successful outcome of an authorization operation.
type ActionResult struct {
	Type     ActionResultType
	Redirect RedirectInstruction
}

// NewCallbackResult builds an ActionResult redirecting to the client callback.
func NewCallbackResult() *ActionResult {
	return &ActionResult{Type: ActionResultRedirectToCallbackURL}
}

// NewRedirectResult builds an ActionResult pointing at the given interactive action.
func NewRedirectResult(action constants.RedirectAction) *ActionResult {
	return &ActionResult{
		Type:     ActionResultRedirectToAction,
		Redirect: RedirectInstruction{Action: action},
	}
}

// AuthorizationError is the protocol-level failure outcome of an
// authorization operation. It carries the state so that error redirects
// can echo it back to the client.
type AuthorizationError struct {
	Code        string
	Description string
	State       string
}

// Error implements the error interface.
func (e *AuthorizationError) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return e.Code + ": " + e.Description
}

// NewAuthorizationError builds an AuthorizationError for the request state.
func NewAuthorizationError(code, description, state string) *AuthorizationError {
	return &AuthorizationError{Code: code, Description: description, State: state}
}

// AuthenticateInstruction bundles the client credential material extracted
// from a token request for the client authentication dispatcher.
type AuthenticateInstruction struct {
	ClientIDFromBasicAuth     string
	ClientSecretFromBasicAuth string
	ClientIDFromBody          string
	ClientSecretFromBody      string
	ClientAssertion           string
	ClientAssertionType       string
	TLSCertificate            *x509.Certificate
}

// ErrorResponse represents an OAuth2 error response body.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}
