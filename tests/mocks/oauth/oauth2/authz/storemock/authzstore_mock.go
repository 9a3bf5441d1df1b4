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

// Package storemock provides a mock implementation of the authorization code store for testing.
package storemock

import (
	"github.com/stretchr/testify/mock"

	"github.com/meridianid/meridian/internal/oauth/oauth2/authz/model"
)

// AuthorizationCodeStoreInterfaceMock is a mock implementation of the AuthorizationCodeStoreInterface.
type AuthorizationCodeStoreInterfaceMock struct {
	mock.Mock
}

// InsertAuthorizationCode mocks the InsertAuthorizationCode method.
func (m *AuthorizationCodeStoreInterfaceMock) InsertAuthorizationCode(
	authzCode model.AuthorizationCode) error {
	args := m.Called(authzCode)
	return args.Error(0)
}

// GetAuthorizationCode mocks the GetAuthorizationCode method.
func (m *AuthorizationCodeStoreInterfaceMock) GetAuthorizationCode(clientID, authCode string) (
	model.AuthorizationCode, error) {
	args := m.Called(clientID, authCode)
	return args.Get(0).(model.AuthorizationCode), args.Error(1)
}

// DeactivateAuthorizationCode mocks the DeactivateAuthorizationCode method.
func (m *AuthorizationCodeStoreInterfaceMock) DeactivateAuthorizationCode(
	authzCode model.AuthorizationCode) error {
	args := m.Called(authzCode)
	return args.Error(0)
}

// RevokeAuthorizationCode mocks the RevokeAuthorizationCode method.
func (m *AuthorizationCodeStoreInterfaceMock) RevokeAuthorizationCode(
	authzCode model.AuthorizationCode) error {
	args := m.Called(authzCode)
	return args.Error(0)
}

// ExpireAuthorizationCode mocks the ExpireAuthorizationCode method.
func (m *AuthorizationCodeStoreInterfaceMock) ExpireAuthorizationCode(
	authzCode model.AuthorizationCode) error {
	args := m.Called(authzCode)
	return args.Error(0)
}
