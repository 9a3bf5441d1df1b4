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

// Package applicationmock provides mock implementations of the application
// service interfaces for testing.
package applicationmock

import (
	"github.com/stretchr/testify/mock"

	"github.com/meridianid/meridian/internal/application/model"
	"github.com/meridianid/meridian/internal/application/service"
)

// ApplicationServiceInterfaceMock is a mock implementation of the ApplicationServiceInterface.
type ApplicationServiceInterfaceMock struct {
	mock.Mock
}

// GetOAuthApplication mocks the GetOAuthApplication method.
func (m *ApplicationServiceInterfaceMock) GetOAuthApplication(clientID string) (
	*model.OAuthApplication, error) {
	args := m.Called(clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OAuthApplication), args.Error(1)
}

// ApplicationProviderInterfaceMock is a mock implementation of the ApplicationProviderInterface.
type ApplicationProviderInterfaceMock struct {
	mock.Mock
}

// GetApplicationService mocks the GetApplicationService method.
func (m *ApplicationProviderInterfaceMock) GetApplicationService() service.ApplicationServiceInterface {
	args := m.Called()
	return args.Get(0).(service.ApplicationServiceInterface)
}
