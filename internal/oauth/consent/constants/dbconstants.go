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

// Package constants defines constants related to user consent persistence.
package constants

import (
	"errors"

	dbmodel "github.com/meridianid/meridian/internal/system/database/model"
)

// ErrConsentNotFound is returned when no confirmed consent exists for the user and client.
var ErrConsentNotFound = errors.New("consent not found")

// QueryGetConfirmedConsent is the query to retrieve the confirmed consent for a user and client.
var QueryGetConfirmedConsent = dbmodel.DBQuery{
	ID: "CNQ-00001",
	Query: "SELECT CONSENT_ID, SCOPE, TIME_GRANTED FROM IDN_OAUTH2_CONSENT WHERE " +
		"AUTHZ_USER = $1 AND CONSUMER_KEY = $2",
}

// QueryInsertConsent is the query to record a confirmed consent grant.
var QueryInsertConsent = dbmodel.DBQuery{
	ID: "CNQ-00002",
	Query: "INSERT INTO IDN_OAUTH2_CONSENT (CONSENT_ID, AUTHZ_USER, CONSUMER_KEY, SCOPE, " +
		"TIME_GRANTED) VALUES ($1, $2, $3, $4, $5)",
}
