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

// Package store provides functionality for handling consent persistence and retrieval.
package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meridianid/meridian/internal/oauth/consent/constants"
	"github.com/meridianid/meridian/internal/oauth/consent/model"
	dbclient "github.com/meridianid/meridian/internal/system/database/client"
	"github.com/meridianid/meridian/internal/system/database/provider"
	"github.com/meridianid/meridian/internal/system/log"
	"github.com/meridianid/meridian/internal/system/utils"
)

const loggerComponentName = "ConsentStore"

// ConsentStoreInterface defines the interface for managing consent records.
type ConsentStoreInterface interface {
	GetConfirmedConsent(subject, clientID string) (*model.Consent, error)
	InsertConsent(consent model.Consent) error
}

// ConsentStore implements the ConsentStoreInterface.
type ConsentStore struct {
	DBProvider provider.DBProviderInterface
}

// NewConsentStore creates a new instance of ConsentStore.
func NewConsentStore() ConsentStoreInterface {
	return &ConsentStore{
		DBProvider: provider.NewDBProvider(),
	}
}

// GetConfirmedConsent retrieves the confirmed consent for the user and client.
// Returns ErrConsentNotFound when no consent record exists.
func (cs *ConsentStore) GetConfirmedConsent(subject, clientID string) (*model.Consent, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := cs.DBProvider.GetDBClient("runtime")
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

	row, err := dbClient.QueryRow(constants.QueryGetConfirmedConsent, subject, clientID)
	if errors.Is(err, dbclient.ErrNoRows) {
		return nil, constants.ErrConsentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error while retrieving consent: %w", err)
	}

	consentID, _ := row["consent_id"].(string)
	scope, _ := row["scope"].(string)

	timeGranted := time.Time{}
	if granted, ok := row["time_granted"].(time.Time); ok {
		timeGranted = granted
	}

	return &model.Consent{
		ConsentID:   consentID,
		Subject:     subject,
		ClientID:    clientID,
		Scopes:      strings.Fields(scope),
		TimeGranted: timeGranted,
	}, nil
}

// InsertConsent records a confirmed consent grant.
func (cs *ConsentStore) InsertConsent(consent model.Consent) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := cs.DBProvider.GetDBClient("runtime")
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

	consentID := consent.ConsentID
	if consentID == "" {
		consentID = utils.GenerateUUID()
	}
	timeGranted := consent.TimeGranted
	if timeGranted.IsZero() {
		timeGranted = time.Now()
	}

	_, err = dbClient.Execute(constants.QueryInsertConsent, consentID, consent.Subject,
		consent.ClientID, strings.Join(consent.Scopes, " "), timeGranted)
	if err != nil {
		return fmt.Errorf("error while inserting consent: %w", err)
	}
	return nil
}
