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

package authz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	appmodel "github.com/meridianid/meridian/internal/application/model"
	"github.com/meridianid/meridian/internal/oauth/oauth2/constants"
	oauth2model "github.com/meridianid/meridian/internal/oauth/oauth2/model"
	"github.com/meridianid/meridian/internal/system/event"
	"github.com/meridianid/meridian/tests/mocks/applicationmock"
	"github.com/meridianid/meridian/tests/mocks/eventmock"
)

type authorizationProcessorMock struct {
	mock.Mock
}

func (m *authorizationProcessorMock) ProcessAuthorizationRequest(
	params *oauth2model.AuthorizationParameter, principal *oauth2model.AuthenticatedUser,
	oauthApp *appmodel.OAuthApplication) (*oauth2model.ActionResult, *oauth2model.AuthorizationError) {
	args := m.Called(params, principal, oauthApp)
	var result *oauth2model.ActionResult
	if args.Get(0) != nil {
		result = args.Get(0).(*oauth2model.ActionResult)
	}
	var authzErr *oauth2model.AuthorizationError
	if args.Get(1) != nil {
		authzErr = args.Get(1).(*oauth2model.AuthorizationError)
	}
	return result, authzErr
}

type authorizationResponseGeneratorMock struct {
	mock.Mock
}

func (m *authorizationResponseGeneratorMock) GenerateAuthorizationResponse(
	result *oauth2model.ActionResult, params *oauth2model.AuthorizationParameter,
	principal *oauth2model.AuthenticatedUser,
	oauthApp *appmodel.OAuthApplication) *oauth2model.AuthorizationError {
	args := m.Called(result, params, principal, oauthApp)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*oauth2model.AuthorizationError)
}

type AuthorizationFlowExecutorTestSuite struct {
	suite.Suite
	appServiceMock  *applicationmock.ApplicationServiceInterfaceMock
	appProviderMock *applicationmock.ApplicationProviderInterfaceMock
	processorMock   *authorizationProcessorMock
	generatorMock   *authorizationResponseGeneratorMock
	publisherMock   *eventmock.PublisherInterfaceMock
	executor        *AuthorizationFlowExecutor
}

func TestAuthorizationFlowExecutorSuite(t *testing.T) {
	suite.Run(t, new(AuthorizationFlowExecutorTestSuite))
}

func (suite *AuthorizationFlowExecutorTestSuite) SetupTest() {
	suite.appServiceMock = new(applicationmock.ApplicationServiceInterfaceMock)
	suite.appProviderMock = new(applicationmock.ApplicationProviderInterfaceMock)
	suite.appProviderMock.On("GetApplicationService").Return(suite.appServiceMock)
	suite.processorMock = new(authorizationProcessorMock)
	suite.generatorMock = new(authorizationResponseGeneratorMock)
	suite.publisherMock = new(eventmock.PublisherInterfaceMock)
	suite.executor = &AuthorizationFlowExecutor{
		Validator:         &AuthorizationValidator{AppProvider: suite.appProviderMock},
		Processor:         suite.processorMock,
		ResponseGenerator: suite.generatorMock,
		EventPublisher:    suite.publisherMock,
	}
}

func (suite *AuthorizationFlowExecutorTestSuite) registerOAuthApplication(
	grantTypes ...constants.GrantType) *appmodel.OAuthApplication {
	oauthApp := &appmodel.OAuthApplication{
		ClientID:      "client123",
		RedirectURIs:  []string{"https://client.example.com/cb"},
		GrantTypes:    grantTypes,
		AllowedScopes: []string{"openid"},
	}
	suite.appServiceMock.On("GetOAuthApplication", "client123").Return(oauthApp, nil)
	return oauthApp
}

func (suite *AuthorizationFlowExecutorTestSuite) testAuthorizationParameter(
	responseTypes ...constants.ResponseType) *oauth2model.AuthorizationParameter {
	return &oauth2model.AuthorizationParameter{
		ClientID:      "client123",
		RedirectURI:   "https://client.example.com/cb",
		Scopes:        []string{"openid"},
		ResponseTypes: responseTypes,
		State:         "state1",
	}
}

func (suite *AuthorizationFlowExecutorTestSuite) authenticatedPrincipal() *oauth2model.AuthenticatedUser {
	return &oauth2model.AuthenticatedUser{
		IsAuthenticated: true,
		Subject:         "user42",
		AuthTime:        time.Now(),
	}
}

func (suite *AuthorizationFlowExecutorTestSuite) TestCodeFlowHappyPath() {
	oauthApp := suite.registerOAuthApplication(constants.GrantTypeAuthorizationCode)
	params := suite.testAuthorizationParameter(constants.ResponseTypeCode)
	principal := suite.authenticatedPrincipal()

	suite.processorMock.On("ProcessAuthorizationRequest", params, principal, oauthApp).
		Return(oauth2model.NewCallbackResult(), nil)
	suite.generatorMock.On("GenerateAuthorizationResponse",
		mock.AnythingOfType("*model.ActionResult"), params, principal, oauthApp).Return(nil)

	result, authzErr := suite.executor.Authorize(params, principal)
	suite.Nil(authzErr)
	suite.Require().NotNil(result)
	suite.Equal(oauth2model.ActionResultRedirectToCallbackURL, result.Type)

	suite.Len(suite.publisherMock.EventsOfType(event.TypeStartAuthorization), 1)
	suite.Len(suite.publisherMock.EventsOfType(event.TypeEndAuthorization), 1)
}

func (suite *AuthorizationFlowExecutorTestSuite) TestUnknownClientFailsBeforeProcessing() {
	suite.appServiceMock.On("GetOAuthApplication", "client123").Return(nil, nil)
	params := suite.testAuthorizationParameter(constants.ResponseTypeCode)

	result, authzErr := suite.executor.Authorize(params, nil)
	suite.Nil(result)
	suite.Require().NotNil(authzErr)
	suite.Equal(constants.ErrorInvalidRequest, authzErr.Code)
	suite.processorMock.AssertNotCalled(suite.T(), "ProcessAuthorizationRequest",
		mock.Anything, mock.Anything, mock.Anything)

	endEvents := suite.publisherMock.EventsOfType(event.TypeEndAuthorization)
	suite.Require().Len(endEvents, 1)
	suite.Equal(constants.ErrorInvalidRequest, endEvents[0].Details["error"])
}

func (suite *AuthorizationFlowExecutorTestSuite) TestMissingResponseTypeFails() {
	suite.registerOAuthApplication(constants.GrantTypeAuthorizationCode)
	params := suite.testAuthorizationParameter()

	result, authzErr := suite.executor.Authorize(params, nil)
	suite.Nil(result)
	suite.Require().NotNil(authzErr)
	suite.Equal(constants.ErrorInvalidRequest, authzErr.Code)
}

func (suite *AuthorizationFlowExecutorTestSuite) TestImplicitFlowRequiresNonce() {
	suite.registerOAuthApplication(constants.GrantTypeImplicit)
	params := suite.testAuthorizationParameter(constants.ResponseTypeIDToken)

	result, authzErr := suite.executor.Authorize(params, suite.authenticatedPrincipal())
	suite.Nil(result)
	suite.Require().NotNil(authzErr)
	suite.Equal(constants.ErrorInvalidRequest, authzErr.Code)
	suite.Equal("Missing nonce parameter", authzErr.Description)
	suite.processorMock.AssertNotCalled(suite.T(), "ProcessAuthorizationRequest",
		mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthorizationFlowExecutorTestSuite) TestHybridFlowRequiresNonce() {
	suite.registerOAuthApplication(constants.GrantTypeAuthorizationCode, constants.GrantTypeImplicit)
	params := suite.testAuthorizationParameter(constants.ResponseTypeCode, constants.ResponseTypeIDToken)

	result, authzErr := suite.executor.Authorize(params, suite.authenticatedPrincipal())
	suite.Nil(result)
	suite.Require().NotNil(authzErr)
	suite.Equal("Missing nonce parameter", authzErr.Description)
}

func (suite *AuthorizationFlowExecutorTestSuite) TestGrantTypeCheckedAfterProcessing() {
	oauthApp := suite.registerOAuthApplication(constants.GrantTypeAuthorizationCode)
	params := suite.testAuthorizationParameter(constants.ResponseTypeIDToken)
	params.Nonce = "nonce1"
	principal := suite.authenticatedPrincipal()

	suite.processorMock.On("ProcessAuthorizationRequest", params, principal, oauthApp).
		Return(oauth2model.NewCallbackResult(), nil)

	result, authzErr := suite.executor.Authorize(params, principal)
	suite.Nil(result)
	suite.Require().NotNil(authzErr)
	suite.Equal(constants.ErrorUnauthorizedClient, authzErr.Code)
	suite.Equal("The client is not authorized to use the requested grant type", authzErr.Description)
	suite.processorMock.AssertCalled(suite.T(), "ProcessAuthorizationRequest", params, principal, oauthApp)
}

func (suite *AuthorizationFlowExecutorTestSuite) TestCallbackRequiresAuthenticatedPrincipal() {
	oauthApp := suite.registerOAuthApplication(constants.GrantTypeAuthorizationCode)
	params := suite.testAuthorizationParameter(constants.ResponseTypeCode)

	suite.processorMock.On("ProcessAuthorizationRequest", params, (*oauth2model.AuthenticatedUser)(nil),
		oauthApp).Return(oauth2model.NewCallbackResult(), nil)

	result, authzErr := suite.executor.Authorize(params, nil)
	suite.Nil(result)
	suite.Require().NotNil(authzErr)
	suite.Equal(constants.ErrorInvalidRequest, authzErr.Code)
	suite.Equal("The resource owner needs to be authenticated", authzErr.Description)
	suite.generatorMock.AssertNotCalled(suite.T(), "GenerateAuthorizationResponse",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthorizationFlowExecutorTestSuite) TestActionRedirectSkipsResponseGeneration() {
	oauthApp := suite.registerOAuthApplication(constants.GrantTypeAuthorizationCode)
	params := suite.testAuthorizationParameter(constants.ResponseTypeCode)

	suite.processorMock.On("ProcessAuthorizationRequest", params, (*oauth2model.AuthenticatedUser)(nil),
		oauthApp).Return(oauth2model.NewRedirectResult(constants.ActionAuthenticateIndex), nil)

	result, authzErr := suite.executor.Authorize(params, nil)
	suite.Nil(authzErr)
	suite.Require().NotNil(result)
	suite.Equal(oauth2model.ActionResultRedirectToAction, result.Type)
	suite.Equal(constants.ActionAuthenticateIndex, result.Redirect.Action)
	suite.generatorMock.AssertNotCalled(suite.T(), "GenerateAuthorizationResponse",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthorizationFlowExecutorTestSuite) TestStartAndEndEventsShareID() {
	oauthApp := suite.registerOAuthApplication(constants.GrantTypeAuthorizationCode)
	params := suite.testAuthorizationParameter(constants.ResponseTypeCode)
	principal := suite.authenticatedPrincipal()

	suite.processorMock.On("ProcessAuthorizationRequest", params, principal, oauthApp).
		Return(oauth2model.NewCallbackResult(), nil)
	suite.generatorMock.On("GenerateAuthorizationResponse",
		mock.AnythingOfType("*model.ActionResult"), params, principal, oauthApp).Return(nil)

	_, authzErr := suite.executor.Authorize(params, principal)
	suite.Nil(authzErr)

	startEvents := suite.publisherMock.EventsOfType(event.TypeStartAuthorization)
	endEvents := suite.publisherMock.EventsOfType(event.TypeEndAuthorization)
	suite.Require().Len(startEvents, 1)
	suite.Require().Len(endEvents, 1)
	suite.Equal(startEvents[0].ID, endEvents[0].ID)
	suite.NotEmpty(startEvents[0].ID)
}
