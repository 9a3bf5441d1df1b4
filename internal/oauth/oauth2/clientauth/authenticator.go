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

// Package clientauth implements the token endpoint client authentication
// dispatcher covering the five registered authentication methods.
package clientauth

import (
	"crypto/subtle"

	appmodel "github.com/meridianid/meridian/internal/application/model"
	appprovider "github.com/meridianid/meridian/internal/application/provider"
	appservice "github.com/meridianid/meridian/internal/application/service"
	"github.com/meridianid/meridian/internal/cert"
	"github.com/meridianid/meridian/internal/oauth/jwt"
	"github.com/meridianid/meridian/internal/oauth/oauth2/constants"
	oauth2model "github.com/meridianid/meridian/internal/oauth/oauth2/model"
	"github.com/meridianid/meridian/internal/system/config"
	"github.com/meridianid/meridian/internal/system/event"
	"github.com/meridianid/meridian/internal/system/log"
	"github.com/meridianid/meridian/internal/system/utils"
)

const loggerComponentName = "ClientAuthenticator"

// ClientAuthenticatorInterface defines the entry point for authenticating a
// client at the token endpoint.
type ClientAuthenticatorInterface interface {
	AuthenticateClient(instruction *oauth2model.AuthenticateInstruction) (
		*appmodel.OAuthApplication, string)
}

// ClientAuthenticator implements the ClientAuthenticatorInterface. The
// authentication method is a property of the resolved client record, never
// negotiated from the request.
type ClientAuthenticator struct {
	AppService     appservice.ApplicationServiceInterface
	JWTService     jwt.JWTServiceInterface
	EventPublisher event.PublisherInterface
}

// NewClientAuthenticator creates a new instance of ClientAuthenticator.
func NewClientAuthenticator() ClientAuthenticatorInterface {
	return &ClientAuthenticator{
		AppService:     appprovider.NewApplicationProvider().GetApplicationService(),
		JWTService:     jwt.GetJWTService(),
		EventPublisher: event.GetPublisher(),
	}
}

// AuthenticateClient resolves the client from the credential material and runs
// the authentication strategy the client is registered for. On failure it
// returns a nil client and a method-specific message.
func (ca *ClientAuthenticator) AuthenticateClient(instruction *oauth2model.AuthenticateInstruction) (
	*appmodel.OAuthApplication, string) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	clientID := ca.extractClientID(instruction)
	if clientID == "" {
		return nil, "the client cannot be identified"
	}

	eventID := utils.GenerateUUID()
	ca.EventPublisher.Publish(event.Event{
		ID:       eventID,
		Type:     event.TypeStartClientAuthentication,
		ClientID: clientID,
	})

	oauthApp, message := ca.authenticateResolvedClient(clientID, instruction)

	endEvent := event.Event{
		ID:       eventID,
		Type:     event.TypeEndClientAuthentication,
		ClientID: clientID,
	}
	if oauthApp == nil {
		endEvent.Details = map[string]any{"error": message}
		logger.Debug("Client authentication failed",
			log.String(log.LoggerKeyClientID, clientID), log.String("reason", message))
	}
	ca.EventPublisher.Publish(endEvent)

	return oauthApp, message
}

func (ca *ClientAuthenticator) authenticateResolvedClient(clientID string,
	instruction *oauth2model.AuthenticateInstruction) (*appmodel.OAuthApplication, string) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	oauthApp, err := ca.AppService.GetOAuthApplication(clientID)
	if err != nil {
		logger.Error("Failed to retrieve OAuth application", log.Error(err),
			log.String(log.LoggerKeyClientID, clientID))
		return nil, "the client cannot be resolved"
	}
	if oauthApp == nil {
		return nil, "the client doesn't exist"
	}

	switch oauthApp.TokenEndpointAuthMethod {
	case constants.AuthMethodClientSecretBasic:
		return ca.authenticateWithSecret(oauthApp, instruction.ClientSecretFromBasicAuth,
			"the client cannot be authenticated with secret basic")
	case constants.AuthMethodClientSecretPost:
		return ca.authenticateWithSecret(oauthApp, instruction.ClientSecretFromBody,
			"the client cannot be authenticated with secret post")
	case constants.AuthMethodClientSecretJWT:
		return ca.authenticateWithSecretJWT(oauthApp, instruction)
	case constants.AuthMethodPrivateKeyJWT:
		return ca.authenticateWithPrivateKeyJWT(instruction)
	case constants.AuthMethodTLSClientAuth:
		return ca.authenticateWithTLS(oauthApp, instruction)
	default:
		return nil, "the client authentication method is not supported"
	}
}

// extractClientID tries the credential sources in order: JWT assertion issuer,
// HTTP Basic credentials, then the request body. An encrypted assertion cannot
// expose its issuer, so a JWE defers to the later sources.
func (ca *ClientAuthenticator) extractClientID(instruction *oauth2model.AuthenticateInstruction) string {
	if instruction.ClientAssertion != "" &&
		instruction.ClientAssertionType == constants.ClientAssertionTypeJWTBearer &&
		jwt.IsJWS(instruction.ClientAssertion) {
		if claims, err := jwt.DecodeUnverifiedClaims(instruction.ClientAssertion); err == nil {
			if issuer, ok := claims["iss"].(string); ok && issuer != "" {
				return issuer
			}
		}
	}
	if instruction.ClientIDFromBasicAuth != "" {
		return instruction.ClientIDFromBasicAuth
	}
	return instruction.ClientIDFromBody
}

// authenticateWithSecret compares the provided secret against the stored
// shared secret.
func (ca *ClientAuthenticator) authenticateWithSecret(oauthApp *appmodel.OAuthApplication,
	providedSecret, failureMessage string) (*appmodel.OAuthApplication, string) {
	storedSecret := oauthApp.SharedSecret()
	if storedSecret == "" || providedSecret == "" ||
		subtle.ConstantTimeCompare([]byte(storedSecret), []byte(providedSecret)) != 1 {
		return nil, failureMessage
	}
	return oauthApp, ""
}

// authenticateWithSecretJWT validates an encrypted client assertion. The
// assertion must be a JWE wrapping a JWS; both layers are keyed off the
// client's shared secret.
func (ca *ClientAuthenticator) authenticateWithSecretJWT(oauthApp *appmodel.OAuthApplication,
	instruction *oauth2model.AuthenticateInstruction) (*appmodel.OAuthApplication, string) {
	const failureMessage = "the client cannot be authenticated with client_secret_jwt"
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if instruction.ClientAssertion == "" ||
		instruction.ClientAssertionType != constants.ClientAssertionTypeJWTBearer {
		return nil, failureMessage
	}
	if !jwt.IsJWE(instruction.ClientAssertion) {
		return nil, failureMessage
	}

	sharedSecret := oauthApp.SharedSecret()
	if sharedSecret == "" {
		return nil, failureMessage
	}

	decrypted, err := ca.JWTService.DecryptJWE(instruction.ClientAssertion,
		jwt.SymmetricKeyFromSecret(sharedSecret))
	if err != nil {
		logger.Debug("Failed to decrypt client assertion", log.Error(err))
		return nil, failureMessage
	}
	if !jwt.IsJWS(decrypted) {
		return nil, failureMessage
	}

	claims, err := ca.JWTService.VerifyJWT(decrypted, []byte(sharedSecret))
	if err != nil {
		logger.Debug("Failed to verify client assertion", log.Error(err))
		return nil, failureMessage
	}
	if !validateAssertionClaims(claims, oauthApp.ClientID) {
		return nil, failureMessage
	}
	return oauthApp, ""
}

// authenticateWithPrivateKeyJWT validates a signed client assertion. The
// issuer claim identifies the client, which is re-resolved independently of
// the earlier candidate extraction.
func (ca *ClientAuthenticator) authenticateWithPrivateKeyJWT(
	instruction *oauth2model.AuthenticateInstruction) (*appmodel.OAuthApplication, string) {
	const failureMessage = "the client cannot be authenticated with private_key_jwt"
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if instruction.ClientAssertion == "" ||
		instruction.ClientAssertionType != constants.ClientAssertionTypeJWTBearer {
		return nil, failureMessage
	}
	if !jwt.IsJWS(instruction.ClientAssertion) {
		return nil, failureMessage
	}

	unverified, err := jwt.DecodeUnverifiedClaims(instruction.ClientAssertion)
	if err != nil {
		return nil, failureMessage
	}
	issuer, _ := unverified["iss"].(string)
	if issuer == "" {
		return nil, failureMessage
	}

	oauthApp, err := ca.AppService.GetOAuthApplication(issuer)
	if err != nil || oauthApp == nil {
		return nil, failureMessage
	}
	if oauthApp.PublicKeyPEM == "" {
		return nil, failureMessage
	}

	publicKey, err := jwt.ParseRSAPublicKeyPEM(oauthApp.PublicKeyPEM)
	if err != nil {
		logger.Debug("Failed to parse client public key", log.Error(err))
		return nil, failureMessage
	}

	claims, err := ca.JWTService.VerifyJWT(instruction.ClientAssertion, publicKey)
	if err != nil {
		logger.Debug("Failed to verify client assertion", log.Error(err))
		return nil, failureMessage
	}
	if !validateAssertionClaims(claims, oauthApp.ClientID) {
		return nil, failureMessage
	}
	return oauthApp, ""
}

// authenticateWithTLS compares the presented certificate's thumbprint and
// subject name against the values registered on the client record.
func (ca *ClientAuthenticator) authenticateWithTLS(oauthApp *appmodel.OAuthApplication,
	instruction *oauth2model.AuthenticateInstruction) (*appmodel.OAuthApplication, string) {
	const failureMessage = "the client cannot be authenticated with tls client auth"

	certificate := instruction.TLSCertificate
	if certificate == nil {
		return nil, failureMessage
	}

	registeredThumbprint := oauthApp.X509Thumbprint()
	registeredSubject := oauthApp.X509SubjectName()
	if registeredThumbprint == "" || registeredSubject == "" {
		return nil, failureMessage
	}

	if cert.Thumbprint(certificate) != registeredThumbprint ||
		cert.SubjectName(certificate) != registeredSubject {
		return nil, failureMessage
	}
	return oauthApp, ""
}

// validateAssertionClaims applies the shared JWS payload validation: the
// issuer and subject must both equal the client id, and the audience must
// include this server's issuer. Expiry is enforced during verification.
func validateAssertionClaims(claims map[string]interface{}, clientID string) bool {
	issuer, _ := claims["iss"].(string)
	subject, _ := claims["sub"].(string)
	if issuer != clientID || subject != clientID {
		return false
	}

	serverIssuer := config.GetMeridianRuntime().Config.OAuth.JWT.Issuer
	switch aud := claims["aud"].(type) {
	case string:
		return aud == serverIssuer
	case []interface{}:
		for _, entry := range aud {
			if s, ok := entry.(string); ok && s == serverIssuer {
				return true
			}
		}
	}
	return false
}
