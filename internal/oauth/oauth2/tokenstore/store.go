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

package tokenstore

import (
	"errors"
	"fmt"
	"strings"
	"time"

	dbclient "github.com/meridianid/meridian/internal/system/database/client"
	dbmodel "github.com/meridianid/meridian/internal/system/database/model"
	"github.com/meridianid/meridian/internal/system/database/provider"
	"github.com/meridianid/meridian/internal/system/log"
)

const loggerComponentName = "GrantedTokenStore"

// ErrGrantedTokenNotFound is returned when no granted token matches the fingerprint.
var ErrGrantedTokenNotFound = errors.New("granted token not found")

// queryGetGrantedTokenByFingerprint retrieves a granted token by its reuse fingerprint.
var queryGetGrantedTokenByFingerprint = dbmodel.DBQuery{
	ID: "GTQ-00001",
	Query: "SELECT TOKEN_ID, CONSUMER_KEY, AUTHZ_USER, SCOPE, ACCESS_TOKEN, ISSUED_AT, " +
		"EXPIRES_IN FROM IDN_OAUTH2_GRANTED_TOKEN WHERE FINGERPRINT = $1",
}

// queryInsertGrantedToken persists a newly issued access token grant.
var queryInsertGrantedToken = dbmodel.DBQuery{
	ID: "GTQ-00002",
	Query: "INSERT INTO IDN_OAUTH2_GRANTED_TOKEN (TOKEN_ID, CONSUMER_KEY, AUTHZ_USER, SCOPE, " +
		"FINGERPRINT, ACCESS_TOKEN, ISSUED_AT, EXPIRES_IN) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
}

// queryDeleteGrantedToken removes a granted token record.
var queryDeleteGrantedToken = dbmodel.DBQuery{
	ID:    "GTQ-00003",
	Query: "DELETE FROM IDN_OAUTH2_GRANTED_TOKEN WHERE TOKEN_ID = $1",
}

// GrantedTokenStoreInterface defines the interface for managing granted access tokens.
type GrantedTokenStoreInterface interface {
	GetGrantedTokenByFingerprint(fingerprint string) (*GrantedToken, error)
	InsertGrantedToken(token GrantedToken) error
	DeleteGrantedToken(tokenID string) error
}

// GrantedTokenStore implements the GrantedTokenStoreInterface.
type GrantedTokenStore struct {
	DBProvider provider.DBProviderInterface
}

// NewGrantedTokenStore creates a new instance of GrantedTokenStore.
func NewGrantedTokenStore() GrantedTokenStoreInterface {
	return &GrantedTokenStore{
		DBProvider: provider.NewDBProvider(),
	}
}

// GetGrantedTokenByFingerprint retrieves a granted token by its reuse fingerprint.
func (gts *GrantedTokenStore) GetGrantedTokenByFingerprint(fingerprint string) (*GrantedToken, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := gts.DBProvider.GetDBClient("runtime")
	if err != nil {
		logger.Error("Failed to get database client", log.Error(err))
		return nil, err
	}
	defer func() {
		if closeErr := dbClient.Close(); closeErr != nil {
			logger.Error("Failed to close database client", log.Error(closeErr))
			err = fmt.Errorf("failed to close database client: %w", closeErr)
		}
	}()

	row, err := dbClient.QueryRow(queryGetGrantedTokenByFingerprint, fingerprint)
	if errors.Is(err, dbclient.ErrNoRows) {
		return nil, ErrGrantedTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error while retrieving granted token: %w", err)
	}

	tokenID, _ := row["token_id"].(string)
	clientID, _ := row["consumer_key"].(string)
	subject, _ := row["authz_user"].(string)
	scope, _ := row["scope"].(string)
	accessToken, _ := row["access_token"].(string)

	issuedAt := time.Time{}
	if issued, ok := row["issued_at"].(time.Time); ok {
		issuedAt = issued
	}

	var expiresIn int64
	switch v := row["expires_in"].(type) {
	case int64:
		expiresIn = v
	case int:
		expiresIn = int64(v)
	}

	return &GrantedToken{
		TokenID:     tokenID,
		ClientID:    clientID,
		Subject:     subject,
		Scopes:      strings.Fields(scope),
		Fingerprint: fingerprint,
		AccessToken: accessToken,
		IssuedAt:    issuedAt,
		ExpiresIn:   expiresIn,
	}, nil
}

// InsertGrantedToken persists a newly issued access token grant.
func (gts *GrantedTokenStore) InsertGrantedToken(token GrantedToken) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := gts.DBProvider.GetDBClient("runtime")
	if err != nil {
		logger.Error("Failed to get database client", log.Error(err))
		return err
	}
	defer func() {
		if closeErr := dbClient.Close(); closeErr != nil {
			logger.Error("Failed to close database client", log.Error(closeErr))
			err = fmt.Errorf("failed to close database client: %w", closeErr)
		}
	}()

	_, err = dbClient.Execute(queryInsertGrantedToken, token.TokenID, token.ClientID,
		token.Subject, strings.Join(token.Scopes, " "), token.Fingerprint, token.AccessToken,
		token.IssuedAt, token.ExpiresIn)
	if err != nil {
		return fmt.Errorf("error while inserting granted token: %w", err)
	}
	return nil
}

// DeleteGrantedToken removes a granted token record.
func (gts *GrantedTokenStore) DeleteGrantedToken(tokenID string) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := gts.DBProvider.GetDBClient("runtime")
	if err != nil {
		logger.Error("Failed to get database client", log.Error(err))
		return err
	}
	defer func() {
		if closeErr := dbClient.Close(); closeErr != nil {
			logger.Error("Failed to close database client", log.Error(closeErr))
			err = fmt.Errorf("failed to close database client: %w", closeErr)
		}
	}()

	_, err = dbClient.Execute(queryDeleteGrantedToken, tokenID)
	return err
}
