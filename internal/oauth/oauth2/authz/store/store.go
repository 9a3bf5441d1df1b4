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

// Package store provides functionality for handling authorization code persistence and retrieval.
package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meridianid/meridian/internal/oauth/oauth2/authz/constants"
	"github.com/meridianid/meridian/internal/oauth/oauth2/authz/model"
	dbclient "github.com/meridianid/meridian/internal/system/database/client"
	"github.com/meridianid/meridian/internal/system/database/provider"
	"github.com/meridianid/meridian/internal/system/log"
)

const loggerComponentName = "AuthorizationCodeStore"

// AuthorizationCodeStoreInterface defines the interface for managing authorization codes.
type AuthorizationCodeStoreInterface interface {
	InsertAuthorizationCode(authzCode model.AuthorizationCode) error
	GetAuthorizationCode(clientID, authCode string) (model.AuthorizationCode, error)
	DeactivateAuthorizationCode(authzCode model.AuthorizationCode) error
	RevokeAuthorizationCode(authzCode model.AuthorizationCode) error
	ExpireAuthorizationCode(authzCode model.AuthorizationCode) error
}

// AuthorizationCodeStore implements the AuthorizationCodeStoreInterface for managing authorization codes.
type AuthorizationCodeStore struct {
	DBProvider provider.DBProviderInterface
}

// NewAuthorizationCodeStore creates a new instance of AuthorizationCodeStore.
func NewAuthorizationCodeStore() AuthorizationCodeStoreInterface {
	return &AuthorizationCodeStore{
		DBProvider: provider.NewDBProvider(),
	}
}

// InsertAuthorizationCode inserts a new authorization code into the database.
func (acs *AuthorizationCodeStore) InsertAuthorizationCode(authzCode model.AuthorizationCode) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := acs.DBProvider.GetDBClient("runtime")
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

	tx, err := dbClient.BeginTx()
	if err != nil {
		logger.Error("Failed to begin transaction", log.Error(err))
		return errors.New("failed to begin transaction: " + err.Error())
	}

	// Insert authorization code.
	_, err = tx.Exec(constants.QueryInsertAuthorizationCode.Query, authzCode.CodeID, authzCode.Code,
		authzCode.ClientID, authzCode.RedirectURI, authzCode.AuthorizedUserID, authzCode.Nonce,
		authzCode.CodeChallenge, authzCode.CodeChallengeMethod, authzCode.TimeCreated,
		authzCode.ExpiryTime, authzCode.State)
	if err != nil {
		logger.Error("Failed to insert authorization code", log.Error(err))
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			logger.Error("Failed to rollback transaction", log.Error(rollbackErr))
			err = errors.Join(err, errors.New("failed to rollback transaction: "+rollbackErr.Error()))
		}
		return errors.New("failed to insert authorization code: " + err.Error())
	}

	// Insert auth code scopes.
	_, err = tx.Exec(constants.QueryInsertAuthorizationCodeScopes.Query, authzCode.CodeID,
		authzCode.Scopes)
	if err != nil {
		logger.Error("Failed to insert authorization code scopes", log.Error(err))
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			logger.Error("Failed to rollback transaction", log.Error(rollbackErr))
			err = errors.Join(err, errors.New("failed to rollback transaction: "+rollbackErr.Error()))
		}
		return errors.New("failed to insert authorization code scopes: " + err.Error())
	}

	// Commit the transaction.
	if err = tx.Commit(); err != nil {
		logger.Error("Failed to commit transaction", log.Error(err))
		return errors.New("failed to commit transaction: " + err.Error())
	}

	return nil
}

// GetAuthorizationCode retrieves an authorization code by client id and authorization code.
func (acs *AuthorizationCodeStore) GetAuthorizationCode(clientID, authCode string) (model.AuthorizationCode, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := acs.DBProvider.GetDBClient("runtime")
	if err != nil {
		logger.Error("Failed to get database client", log.Error(err))
		return model.AuthorizationCode{}, err
	}
	defer func() {
		if closeErr := dbClient.Close(); closeErr != nil {
			logger.Error("Failed to close database client", log.Error(closeErr))
			err = fmt.Errorf("failed to close database client: %w", closeErr)
		}
	}()

	row, err := dbClient.QueryRow(constants.QueryGetAuthorizationCode, clientID, authCode)
	if errors.Is(err, dbclient.ErrNoRows) {
		return model.AuthorizationCode{}, constants.ErrAuthorizationCodeNotFound
	}
	if err != nil {
		return model.AuthorizationCode{}, fmt.Errorf("error while retrieving authorization code: %w", err)
	}

	codeID := stringColumn(row, "code_id")
	if codeID == "" {
		return model.AuthorizationCode{}, constants.ErrAuthorizationCodeNotFound
	}

	timeCreated, err := parseTimeField(row["time_created"], "time_created", logger)
	if err != nil {
		return model.AuthorizationCode{}, err
	}

	expiryTime, err := parseTimeField(row["expiry_time"], "expiry_time", logger)
	if err != nil {
		return model.AuthorizationCode{}, err
	}

	// Retrieve authorized scopes for the authorization code.
	scopeResults, err := dbClient.Query(constants.QueryGetAuthorizationCodeScopes, codeID)
	if err != nil {
		return model.AuthorizationCode{}, fmt.Errorf("error while retrieving authorized scopes: %w", err)
	}
	scopes := ""
	if len(scopeResults) > 0 {
		scopes = stringColumn(scopeResults[0], "scope")
	}

	return model.AuthorizationCode{
		CodeID:              codeID,
		Code:                stringColumn(row, "authorization_code"),
		ClientID:            clientID,
		RedirectURI:         stringColumn(row, "callback_url"),
		AuthorizedUserID:    stringColumn(row, "authz_user"),
		Nonce:               stringColumn(row, "nonce"),
		CodeChallenge:       stringColumn(row, "code_challenge"),
		CodeChallengeMethod: stringColumn(row, "code_challenge_method"),
		TimeCreated:         timeCreated,
		ExpiryTime:          expiryTime,
		Scopes:              scopes,
		State:               stringColumn(row, "state"),
	}, nil
}

// DeactivateAuthorizationCode deactivates an authorization code.
func (acs *AuthorizationCodeStore) DeactivateAuthorizationCode(authzCode model.AuthorizationCode) error {
	return acs.updateAuthorizationCodeState(authzCode, constants.AuthCodeStateInactive)
}

// RevokeAuthorizationCode revokes an authorization code.
func (acs *AuthorizationCodeStore) RevokeAuthorizationCode(authzCode model.AuthorizationCode) error {
	return acs.updateAuthorizationCodeState(authzCode, constants.AuthCodeStateRevoked)
}

// ExpireAuthorizationCode expires an authorization code.
func (acs *AuthorizationCodeStore) ExpireAuthorizationCode(authzCode model.AuthorizationCode) error {
	return acs.updateAuthorizationCodeState(authzCode, constants.AuthCodeStateExpired)
}

// updateAuthorizationCodeState updates the state of an authorization code.
func (acs *AuthorizationCodeStore) updateAuthorizationCodeState(authzCode model.AuthorizationCode,
	newState string) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := acs.DBProvider.GetDBClient("runtime")
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

	_, err = dbClient.Execute(constants.QueryUpdateAuthorizationCodeState, newState, authzCode.CodeID)
	return err
}

// stringColumn returns the named column as a string, tolerating NULLs.
func stringColumn(row map[string]interface{}, column string) string {
	if value, ok := row[column].(string); ok {
		return value
	}
	return ""
}

// Helper function to parse a time field from the database.
func parseTimeField(field interface{}, fieldName string, logger *log.Logger) (time.Time, error) {
	const customTimeFormat = "2006-01-02 15:04:05.999999999"

	switch v := field.(type) {
	case string:
		trimmedTime := trimTimeString(v)
		parsedTime, err := time.Parse(customTimeFormat, trimmedTime)
		if err != nil {
			logger.Error("Error parsing time field", log.String("field", fieldName), log.Error(err))
			return time.Time{}, fmt.Errorf("error parsing %s: %w", fieldName, err)
		}
		return parsedTime, nil
	case time.Time:
		return v, nil
	default:
		logger.Error("Unexpected type for time field", log.String("field", fieldName), log.Any("value", v))
		return time.Time{}, fmt.Errorf("unexpected type for %s", fieldName)
	}
}

// Helper function to trim a time string.
func trimTimeString(timeStr string) string {
	// Split the string into parts by spaces and retain only the first two parts.
	parts := strings.SplitN(timeStr, " ", 3)
	if len(parts) >= 2 {
		return parts[0] + " " + parts[1]
	}
	return timeStr
}
