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

// Package tokenstoremock provides a mock implementation of the granted token store for testing.
package tokenstoremock

import (
	"github.com/stretchr/testify/mock"

	"github.com/meridianid/meridian/internal/oauth/oauth2/tokenstore"
)

// GrantedTokenStoreInterfaceMock is a mock implementation of the GrantedTokenStoreInterface.
type GrantedTokenStoreInterfaceMock struct {
	mock.Mock
}

// GetGrantedTokenByFingerprint mocks the GetGrantedTokenByFingerprint method.
func (m *GrantedTokenStoreInterfaceMock) GetGrantedTokenByFingerprint(fingerprint string) (
	*tokenstore.GrantedToken, error) {
	args := m.Called(fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenstore.GrantedToken), args.Error(1)
}

// InsertGrantedToken mocks the InsertGrantedToken method.
func (m *GrantedTokenStoreInterfaceMock) InsertGrantedToken(token tokenstore.GrantedToken) error {
	args := m.Called(token)
	return args.Error(0)
}

// DeleteGrantedToken mocks the DeleteGrantedToken method.
func (m *GrantedTokenStoreInterfaceMock) DeleteGrantedToken(tokenID string) error {
	args := m.Called(tokenID)
	return args.Error(0)
}
