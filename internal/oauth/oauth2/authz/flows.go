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

// Package authz implements the OAuth2/OIDC authorization request pipeline:
// request validation, prompt and consent resolution, flow dispatch and
// authorization response assembly.
package authz

import (
	appmodel "github.com/meridianid/meridian/internal/application/model"
	"github.com/meridianid/meridian/internal/oauth/oauth2/constants"
	oauth2model "github.com/meridianid/meridian/internal/oauth/oauth2/model"
	oauth2utils "github.com/meridianid/meridian/internal/oauth/oauth2/utils"
	"github.com/meridianid/meridian/internal/system/event"
	"github.com/meridianid/meridian/internal/system/log"
	"github.com/meridianid/meridian/internal/system/utils"
)

// AuthorizationFlowExecutorInterface is the entry point the HTTP layer uses to
// run an authorization request through the pipeline.
type AuthorizationFlowExecutorInterface interface {
	Authorize(params *oauth2model.AuthorizationParameter,
		principal *oauth2model.AuthenticatedUser) (*oauth2model.ActionResult, *oauth2model.AuthorizationError)
}

// AuthorizationFlowExecutor implements the AuthorizationFlowExecutorInterface.
// It resolves the client, selects the flow from the requested response types
// and runs the matching flow operation.
type AuthorizationFlowExecutor struct {
	Validator         AuthorizationValidatorInterface
	Processor         AuthorizationProcessorInterface
	ResponseGenerator AuthorizationResponseGeneratorInterface
	EventPublisher    event.PublisherInterface
}

// NewAuthorizationFlowExecutor creates a new instance of AuthorizationFlowExecutor.
func NewAuthorizationFlowExecutor() AuthorizationFlowExecutorInterface {
	return &AuthorizationFlowExecutor{
		Validator:         NewAuthorizationValidator(),
		Processor:         NewAuthorizationProcessor(),
		ResponseGenerator: NewAuthorizationResponseGenerator(),
		EventPublisher:    event.GetPublisher(),
	}
}

// Authorize resolves the client and dispatches the request to the flow
// operation selected by the requested response types.
func (fe *AuthorizationFlowExecutor) Authorize(params *oauth2model.AuthorizationParameter,
	principal *oauth2model.AuthenticatedUser) (*oauth2model.ActionResult, *oauth2model.AuthorizationError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AuthorizationFlowExecutor"))

	eventID := utils.GenerateUUID()
	fe.EventPublisher.Publish(event.Event{
		ID:       eventID,
		Type:     event.TypeStartAuthorization,
		ClientID: params.ClientID,
	})

	result, authzErr := fe.authorize(params, principal)

	endEvent := event.Event{
		ID:       eventID,
		Type:     event.TypeEndAuthorization,
		ClientID: params.ClientID,
	}
	if authzErr != nil {
		endEvent.Details = map[string]any{"error": authzErr.Code}
		logger.Debug("Authorization request failed",
			log.String(log.LoggerKeyClientID, params.ClientID), log.String("error", authzErr.Code))
	}
	fe.EventPublisher.Publish(endEvent)

	return result, authzErr
}

func (fe *AuthorizationFlowExecutor) authorize(params *oauth2model.AuthorizationParameter,
	principal *oauth2model.AuthenticatedUser) (*oauth2model.ActionResult, *oauth2model.AuthorizationError) {
	oauthApp, authzErr := fe.Validator.ValidateClientExist(params.ClientID, params.State)
	if authzErr != nil {
		return nil, authzErr
	}

	flow, err := oauth2utils.ResolveAuthorizationFlow(params.ResponseTypes)
	if err != nil {
		return nil, oauth2model.NewAuthorizationError(constants.ErrorInvalidRequest,
			err.Error(), params.State)
	}

	switch flow {
	case constants.FlowAuthorizationCode:
		return fe.executeFlow(params, principal, oauthApp, false,
			constants.GrantTypeAuthorizationCode)
	case constants.FlowImplicit:
		return fe.executeFlow(params, principal, oauthApp, true,
			constants.GrantTypeImplicit)
	case constants.FlowHybrid:
		return fe.executeFlow(params, principal, oauthApp, true,
			constants.GrantTypeAuthorizationCode, constants.GrantTypeImplicit)
	default:
		return nil, oauth2model.NewAuthorizationError(constants.ErrorUnsupportedResponseType,
			"Unsupported response type combination", params.State)
	}
}

// executeFlow runs one flow operation. The grant type check runs after request
// processing so that scope and redirect validation produce consistent errors
// regardless of grant eligibility.
func (fe *AuthorizationFlowExecutor) executeFlow(params *oauth2model.AuthorizationParameter,
	principal *oauth2model.AuthenticatedUser, oauthApp *appmodel.OAuthApplication,
	nonceRequired bool, requiredGrants ...constants.GrantType) (
	*oauth2model.ActionResult, *oauth2model.AuthorizationError) {
	if nonceRequired && params.Nonce == "" {
		return nil, oauth2model.NewAuthorizationError(constants.ErrorInvalidRequest,
			"Missing nonce parameter", params.State)
	}

	result, authzErr := fe.Processor.ProcessAuthorizationRequest(params, principal, oauthApp)
	if authzErr != nil {
		return nil, authzErr
	}

	if !fe.Validator.ValidateGrantTypes(oauthApp, requiredGrants...) {
		return nil, oauth2model.NewAuthorizationError(constants.ErrorUnauthorizedClient,
			"The client is not authorized to use the requested grant type", params.State)
	}

	if result.Type == oauth2model.ActionResultRedirectToCallbackURL {
		if principal == nil || !principal.IsAuthenticated {
			return nil, oauth2model.NewAuthorizationError(constants.ErrorInvalidRequest,
				"The resource owner needs to be authenticated", params.State)
		}
		if authzErr := fe.ResponseGenerator.GenerateAuthorizationResponse(result, params,
			principal, oauthApp); authzErr != nil {
			return nil, authzErr
		}
	}

	return result, nil
}
