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

// Package service provides the consent service for authorization decisions.
package service

import (
	"errors"

	"github.com/meridianid/meridian/internal/oauth/consent/constants"
	"github.com/meridianid/meridian/internal/oauth/consent/model"
	"github.com/meridianid/meridian/internal/oauth/consent/store"
)

// ConsentServiceInterface defines the interface for consent decisions.
type ConsentServiceInterface interface {
	HasConfirmedConsent(subject, clientID string, requestedScopes []string) (bool, error)
	GrantConsent(subject, clientID string, scopes []string) error
}

// ConsentService implements the ConsentServiceInterface.
type ConsentService struct {
	consentStore store.ConsentStoreInterface
}

// NewConsentService creates a new instance of ConsentService.
func NewConsentService() ConsentServiceInterface {
	return &ConsentService{
		consentStore: store.NewConsentStore(),
	}
}

// HasConfirmedConsent reports whether the user holds a confirmed consent for
// the client that covers every requested scope. A missing record yields
// (false, nil); only infrastructure failures surface as errors.
func (cs *ConsentService) HasConfirmedConsent(subject, clientID string,
	requestedScopes []string) (bool, error) {
	if subject == "" || clientID == "" {
		return false, nil
	}

	consent, err := cs.consentStore.GetConfirmedConsent(subject, clientID)
	if err != nil {
		if errors.Is(err, constants.ErrConsentNotFound) {
			return false, nil
		}
		return false, err
	}
	return consent.Covers(requestedScopes), nil
}

// GrantConsent records a confirmed consent grant for the user and client.
func (cs *ConsentService) GrantConsent(subject, clientID string, scopes []string) error {
	return cs.consentStore.InsertConsent(model.Consent{
		Subject:  subject,
		ClientID: clientID,
		Scopes:   scopes,
	})
}
