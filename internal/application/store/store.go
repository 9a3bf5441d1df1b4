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

// Package store provides persistence for OAuth application metadata.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/meridianid/meridian/internal/application/constants"
	"github.com/meridianid/meridian/internal/application/model"
	oauth2const "github.com/meridianid/meridian/internal/oauth/oauth2/constants"
	dbclient "github.com/meridianid/meridian/internal/system/database/client"
	"github.com/meridianid/meridian/internal/system/database/provider"
	"github.com/meridianid/meridian/internal/system/log"
)

const loggerComponentName = "OAuthApplicationStore"

// OAuthApplicationStoreInterface defines the interface for reading OAuth application metadata.
type OAuthApplicationStoreInterface interface {
	GetOAuthApplicationByClientID(clientID string) (*model.OAuthApplication, error)
}

// OAuthApplicationStore implements the OAuthApplicationStoreInterface.
type OAuthApplicationStore struct {
	DBProvider provider.DBProviderInterface
}

// NewOAuthApplicationStore creates a new instance of OAuthApplicationStore.
func NewOAuthApplicationStore() OAuthApplicationStoreInterface {
	return &OAuthApplicationStore{
		DBProvider: provider.GetDBProvider(),
	}
}

// GetOAuthApplicationByClientID retrieves the registered OAuth application for the client id.
func (s *OAuthApplicationStore) GetOAuthApplicationByClientID(clientID string) (*model.OAuthApplication, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := s.DBProvider.GetDBClient("identity")
	if err != nil {
		logger.Error("Failed to get database client", log.Error(err))
		return nil, err
	}

	row, err := dbClient.QueryRow(constants.QueryGetOAuthApplicationByClientID, clientID)
	if errors.Is(err, dbclient.ErrNoRows) {
		return nil, constants.ErrOAuthApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error while retrieving oauth application: %w", err)
	}

	app := &model.OAuthApplication{
		ClientID:                    stringColumn(row, "client_id"),
		RedirectURIs:                splitList(stringColumn(row, "redirect_uris")),
		AllowedScopes:               splitList(stringColumn(row, "allowed_scopes")),
		TokenEndpointAuthMethod:     oauth2const.TokenEndpointAuthMethod(stringColumn(row, "token_endpoint_auth_method")),
		IDTokenSignedResponseAlg:    stringColumn(row, "id_token_signed_response_alg"),
		IDTokenEncryptedResponseAlg: stringColumn(row, "id_token_encrypted_response_alg"),
		IDTokenEncryptedResponseEnc: stringColumn(row, "id_token_encrypted_response_enc"),
		RequestObjectSigningAlg:     stringColumn(row, "request_object_signing_alg"),
		PublicKeyPEM:                stringColumn(row, "public_key_pem"),
	}

	for _, grantType := range splitList(stringColumn(row, "grant_types")) {
		app.GrantTypes = append(app.GrantTypes, oauth2const.GrantType(grantType))
	}
	for _, responseType := range splitList(stringColumn(row, "response_types")) {
		app.ResponseTypes = append(app.ResponseTypes, oauth2const.ResponseType(responseType))
	}

	// Retrieve the typed secrets for the application.
	secretResults, err := dbClient.Query(constants.QueryGetOAuthApplicationSecrets, clientID)
	if err != nil {
		return nil, fmt.Errorf("error while retrieving oauth application secrets: %w", err)
	}
	for _, secretRow := range secretResults {
		app.Secrets = append(app.Secrets, model.ClientSecret{
			Type:  model.SecretType(stringColumn(secretRow, "secret_type")),
			Value: stringColumn(secretRow, "secret_value"),
		})
	}

	return app, nil
}

// stringColumn reads a column as a string, tolerating NULL values.
func stringColumn(row map[string]interface{}, column string) string {
	if value, ok := row[column].(string); ok {
		return value
	}
	return ""
}

// splitList splits a space-delimited column value into a slice.
func splitList(value string) []string {
	return strings.Fields(value)
}
