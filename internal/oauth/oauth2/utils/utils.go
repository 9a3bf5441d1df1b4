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

// Package utils provides utility functions for OAuth2 request parsing and
// redirect construction.
package utils

import (
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/meridianid/meridian/internal/oauth/oauth2/constants"
	"github.com/meridianid/meridian/internal/oauth/oauth2/model"
)

// ParseScopes splits a space-delimited scope string, dropping empty tokens.
func ParseScopes(value string) []string {
	return strings.Fields(value)
}

// ParseResponseTypes parses the response_type parameter. Unknown tokens are
// dropped silently; validation of the surviving set happens separately.
func ParseResponseTypes(value string) []constants.ResponseType {
	var responseTypes []constants.ResponseType
	for _, token := range strings.Fields(value) {
		switch constants.ResponseType(token) {
		case constants.ResponseTypeCode, constants.ResponseTypeToken, constants.ResponseTypeIDToken:
			responseTypes = append(responseTypes, constants.ResponseType(token))
		}
	}
	return responseTypes
}

// ParsePrompts parses the prompt parameter. Unknown tokens are dropped silently.
func ParsePrompts(value string) []constants.Prompt {
	var prompts []constants.Prompt
	for _, token := range strings.Fields(value) {
		switch constants.Prompt(token) {
		case constants.PromptNone, constants.PromptLogin, constants.PromptConsent,
			constants.PromptSelectAccount:
			prompts = append(prompts, constants.Prompt(token))
		}
	}
	return prompts
}

// ParseResponseMode parses the response_mode parameter. Unknown values are
// treated as absent so that flow-based defaulting applies.
func ParseResponseMode(value string) constants.ResponseMode {
	switch constants.ResponseMode(value) {
	case constants.ResponseModeQuery, constants.ResponseModeFragment, constants.ResponseModeFormPost:
		return constants.ResponseMode(value)
	default:
		return constants.ResponseModeNone
	}
}

// ParseMaxAge parses the max_age parameter. An absent value yields nil; a
// non-integer or negative value is a protocol error.
func ParseMaxAge(value string) (*int64, error) {
	if value == "" {
		return nil, nil
	}
	maxAge, err := strconv.ParseInt(value, 10, 64)
	if err != nil || maxAge < 0 {
		return nil, errors.New("max_age must be a non-negative integer")
	}
	return &maxAge, nil
}

// ParseClaims parses the OIDC claims request parameter. A malformed value is
// treated as absent.
func ParseClaims(value string) *model.ClaimsParameter {
	if value == "" {
		return nil
	}
	var claims model.ClaimsParameter
	if err := json.Unmarshal([]byte(value), &claims); err != nil {
		return nil
	}
	return &claims
}

// ResolveAuthorizationFlow maps the requested response types to the
// authorization flow that will serve them.
func ResolveAuthorizationFlow(responseTypes []constants.ResponseType) (constants.AuthorizationFlow, error) {
	if len(responseTypes) == 0 {
		return "", errors.New("response_type is missing")
	}

	hasCode := false
	hasTokenOrIDToken := false
	for _, responseType := range responseTypes {
		switch responseType {
		case constants.ResponseTypeCode:
			hasCode = true
		case constants.ResponseTypeToken, constants.ResponseTypeIDToken:
			hasTokenOrIDToken = true
		}
	}

	switch {
	case hasCode && hasTokenOrIDToken:
		return constants.FlowHybrid, nil
	case hasCode:
		return constants.FlowAuthorizationCode, nil
	default:
		return constants.FlowImplicit, nil
	}
}

// EffectiveResponseMode returns the response mode to use for a callback
// redirect. The fragment encoding is the default for the implicit and hybrid
// flows, the query encoding for the authorization code flow.
func EffectiveResponseMode(requested constants.ResponseMode,
	flow constants.AuthorizationFlow) constants.ResponseMode {
	if requested != constants.ResponseModeNone {
		return requested
	}
	if flow == constants.FlowImplicit || flow == constants.FlowHybrid {
		return constants.ResponseModeFragment
	}
	return constants.ResponseModeQuery
}

// BuildRedirectURI appends the redirect parameters to the callback URI using
// the given response mode. Parameters keep their insertion order. The
// form_post mode has no URI encoding; callers render the auto-submit form
// instead.
func BuildRedirectURI(baseURI string, mode constants.ResponseMode,
	parameters []model.Parameter) (string, error) {
	parsedURL, err := url.Parse(baseURI)
	if err != nil {
		return "", errors.New("invalid redirect URI: " + baseURI)
	}

	encoded := encodeParameters(parameters)
	switch mode {
	case constants.ResponseModeFragment:
		parsedURL.Fragment = ""
		parsedURL.RawFragment = ""
		result := parsedURL.String()
		if encoded != "" {
			result += "#" + encoded
		}
		return result, nil
	case constants.ResponseModeQuery, constants.ResponseModeNone:
		if encoded != "" {
			if parsedURL.RawQuery != "" {
				parsedURL.RawQuery += "&" + encoded
			} else {
				parsedURL.RawQuery = encoded
			}
		}
		return parsedURL.String(), nil
	default:
		return "", errors.New("unsupported response mode: " + string(mode))
	}
}

func encodeParameters(parameters []model.Parameter) string {
	var builder strings.Builder
	for i, parameter := range parameters {
		if i > 0 {
			builder.WriteByte('&')
		}
		builder.WriteString(url.QueryEscape(parameter.Key))
		builder.WriteByte('=')
		builder.WriteString(url.QueryEscape(parameter.Value))
	}
	return builder.String()
}
