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

// Package model defines the data structures for auth session management.
package model

import (
	oauth2model "github.com/meridianid/meridian/internal/oauth/oauth2/model"
)

// SessionData holds the authorization request context across the redirect
// round trips to the login and consent pages.
type SessionData struct {
	OAuthParameters   oauth2model.AuthorizationParameter
	AuthenticatedUser oauth2model.AuthenticatedUser
}
