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

// Package jwtmock provides a mock implementation of the JWT service for testing.
package jwtmock

import (
	"crypto/rsa"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
)

// JWTServiceInterfaceMock is a mock implementation of the JWTServiceInterface.
type JWTServiceInterfaceMock struct {
	mock.Mock
}

// Init mocks the Init method.
func (m *JWTServiceInterfaceMock) Init() error {
	args := m.Called()
	return args.Error(0)
}

// GetPublicKey mocks the GetPublicKey method.
func (m *JWTServiceInterfaceMock) GetPublicKey() *rsa.PublicKey {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*rsa.PublicKey)
}

// GenerateJWT mocks the GenerateJWT method.
func (m *JWTServiceInterfaceMock) GenerateJWT(sub, aud string, validityPeriod int64,
	claims map[string]interface{}) (string, int64, error) {
	args := m.Called(sub, aud, validityPeriod, claims)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

// VerifyJWT mocks the VerifyJWT method.
func (m *JWTServiceInterfaceMock) VerifyJWT(token string, key interface{}) (jwt.MapClaims, error) {
	args := m.Called(token, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(jwt.MapClaims), args.Error(1)
}

// EncryptJWE mocks the EncryptJWE method.
func (m *JWTServiceInterfaceMock) EncryptJWE(payload string, key interface{}) (string, error) {
	args := m.Called(payload, key)
	return args.String(0), args.Error(1)
}

// DecryptJWE mocks the DecryptJWE method.
func (m *JWTServiceInterfaceMock) DecryptJWE(token string, key interface{}) (string, error) {
	args := m.Called(token, key)
	return args.String(0), args.Error(1)
}
