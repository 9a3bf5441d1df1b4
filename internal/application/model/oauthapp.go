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

// Package model defines the data structures for OAuth applications.
package model

import (
	"github.com/meridianid/meridian/internal/oauth/oauth2/constants"
)

// SecretType defines the type of a registered client secret.
type SecretType string

// Client secret types.
const (
	SecretTypeSharedSecret   SecretType = "shared_secret"
	SecretTypeX509Thumbprint SecretType = "x509_thumbprint"
	SecretTypeX509Name       SecretType = "x509_name"
)

// ClientSecret represents a single typed client secret.
type ClientSecret struct {
	Type  SecretType
	Value string
}

// OAuthApplication represents the registered metadata of an OAuth client.
// Instances are read-only within the authorization core; registration owns mutation.
type OAuthApplication struct {
	ClientID                    string
	Secrets                     []ClientSecret
	RedirectURIs                []string
	GrantTypes                  []constants.GrantType
	ResponseTypes               []constants.ResponseType
	AllowedScopes               []string
	TokenEndpointAuthMethod     constants.TokenEndpointAuthMethod
	IDTokenSignedResponseAlg    string
	IDTokenEncryptedResponseAlg string
	IDTokenEncryptedResponseEnc string
	RequestObjectSigningAlg     string
	PublicKeyPEM                string
}

// SharedSecret returns the shared secret registered for the client, or empty.
func (o *OAuthApplication) SharedSecret() string {
	return o.secretValue(SecretTypeSharedSecret)
}

// X509Thumbprint returns the registered certificate thumbprint, or empty.
func (o *OAuthApplication) X509Thumbprint() string {
	return o.secretValue(SecretTypeX509Thumbprint)
}

// X509SubjectName returns the registered certificate subject name, or empty.
func (o *OAuthApplication) X509SubjectName() string {
	return o.secretValue(SecretTypeX509Name)
}

func (o *OAuthApplication) secretValue(secretType SecretType) string {
	for _, secret := range o.Secrets {
		if secret.Type == secretType {
			return secret.Value
		}
	}
	return ""
}

// EffectiveGrantTypes returns the client's grant types, defaulting to
// authorization_code when none are registered. The aggregate is never mutated.
func (o *OAuthApplication) EffectiveGrantTypes() []constants.GrantType {
	if len(o.GrantTypes) == 0 {
		return []constants.GrantType{constants.GrantTypeAuthorizationCode}
	}
	return o.GrantTypes
}

// EffectiveResponseTypes returns the client's response types, defaulting to
// code when none are registered. The aggregate is never mutated.
func (o *OAuthApplication) EffectiveResponseTypes() []constants.ResponseType {
	if len(o.ResponseTypes) == 0 {
		return []constants.ResponseType{constants.ResponseTypeCode}
	}
	return o.ResponseTypes
}

// IsAllowedScope checks if the provided scope is authorized for the client.
func (o *OAuthApplication) IsAllowedScope(scope string) bool {
	for _, allowed := range o.AllowedScopes {
		if scope == allowed {
			return true
		}
	}
	return false
}
