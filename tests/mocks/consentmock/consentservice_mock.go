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

// Package consentmock provides a mock implementation of the consent service for testing.
package consentmock

import (
	"github.com/stretchr/testify/mock"
)

// ConsentServiceInterfaceMock is a mock implementation of the ConsentServiceInterface.
type ConsentServiceInterfaceMock struct {
	mock.Mock
}

// HasConfirmedConsent mocks the HasConfirmedConsent method.
func (m *ConsentServiceInterfaceMock) HasConfirmedConsent(subject, clientID string,
	requestedScopes []string) (bool, error) {
	args := m.Called(subject, clientID, requestedScopes)
	return args.Bool(0), args.Error(1)
}

// GrantConsent mocks the GrantConsent method.
func (m *ConsentServiceInterfaceMock) GrantConsent(subject, clientID string, scopes []string) error {
	args := m.Called(subject, clientID, scopes)
	return args.Error(0)
}
