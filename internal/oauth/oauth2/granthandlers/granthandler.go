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

// Package granthandlers provides an interface and implementations for handling OAuth 2.0 grant types.
package granthandlers

import (
	appmodel "github.com/meridianid/meridian/internal/application/model"
	"github.com/meridianid/meridian/internal/oauth/oauth2/constants"
	"github.com/meridianid/meridian/internal/oauth/oauth2/model"
)

// GrantHandlerInterface defines the interface for handling OAuth 2.0 grants.
type GrantHandlerInterface interface {
	ValidateGrant(tokenRequest *model.TokenRequest, oauthApp *appmodel.OAuthApplication) *model.ErrorResponse
	HandleGrant(tokenRequest *model.TokenRequest, oauthApp *appmodel.OAuthApplication) (
		*model.TokenResponseDTO, *model.ErrorResponse)
}

// GetGrantHandler returns the grant handler registered for the grant type.
func GetGrantHandler(grantType constants.GrantType) GrantHandlerInterface {
	switch grantType {
	case constants.GrantTypeAuthorizationCode:
		return newAuthorizationCodeGrantHandler()
	default:
		return nil
	}
}
