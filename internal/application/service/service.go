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

// Package service provides the application service for OAuth application metadata.
package service

import (
	"errors"

	"github.com/meridianid/meridian/internal/application/constants"
	"github.com/meridianid/meridian/internal/application/model"
	"github.com/meridianid/meridian/internal/application/store"
)

// ApplicationServiceInterface defines the interface for resolving OAuth applications.
type ApplicationServiceInterface interface {
	GetOAuthApplication(clientID string) (*model.OAuthApplication, error)
}

// ApplicationService implements the ApplicationServiceInterface.
type ApplicationService struct {
	appStore store.OAuthApplicationStoreInterface
}

// NewApplicationService creates a new instance of ApplicationService.
func NewApplicationService() ApplicationServiceInterface {
	return &ApplicationService{
		appStore: store.NewOAuthApplicationStore(),
	}
}

// GetOAuthApplication resolves the OAuth application registered for the client id.
// A missing application yields (nil, nil) so that callers can emit protocol-level
// invalid_client errors; any other error is an infrastructure failure.
func (as *ApplicationService) GetOAuthApplication(clientID string) (*model.OAuthApplication, error) {
	if clientID == "" {
		return nil, nil
	}

	app, err := as.appStore.GetOAuthApplicationByClientID(clientID)
	if err != nil {
		if errors.Is(err, constants.ErrOAuthApplicationNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return app, nil
}
