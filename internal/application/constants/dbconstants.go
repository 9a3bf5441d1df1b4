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

// Package constants defines constants used by the application module.
package constants

import (
	"errors"

	dbmodel "github.com/meridianid/meridian/internal/system/database/model"
)

// ErrOAuthApplicationNotFound is returned when no application matches the client id.
var ErrOAuthApplicationNotFound = errors.New("oauth application not found")

// QueryGetOAuthApplicationByClientID retrieves the registered metadata of an OAuth application.
var QueryGetOAuthApplicationByClientID = dbmodel.DBQuery{
	ID: "APQ-OAUTH_APP-01",
	Query: "SELECT client_id, redirect_uris, grant_types, response_types, allowed_scopes, " +
		"token_endpoint_auth_method, id_token_signed_response_alg, id_token_encrypted_response_alg, " +
		"id_token_encrypted_response_enc, request_object_signing_alg, public_key_pem " +
		"FROM IDN_OAUTH_APP WHERE client_id = $1",
}

// QueryGetOAuthApplicationSecrets retrieves the typed secrets of an OAuth application.
var QueryGetOAuthApplicationSecrets = dbmodel.DBQuery{
	ID:    "APQ-OAUTH_APP-02",
	Query: "SELECT secret_type, secret_value FROM IDN_OAUTH_APP_SECRET WHERE client_id = $1",
}
