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

// Package jwks provides the implementation for serving the server's JSON Web Key Set.
package jwks

import (
	"crypto/x509"
	"errors"

	jose "github.com/go-jose/go-jose/v4"

	"github.com/meridianid/meridian/internal/cert"
	"github.com/meridianid/meridian/internal/oauth/jwt"
	"github.com/meridianid/meridian/internal/system/config"
	"github.com/meridianid/meridian/internal/system/error/serviceerror"
)

// JWKSServiceInterface defines the interface for the JWKS service.
type JWKSServiceInterface interface {
	GetJWKS() (*jose.JSONWebKeySet, *serviceerror.ServiceError)
}

// JWKSService implements the JWKSServiceInterface.
type JWKSService struct {
	SystemCertService cert.SystemCertificateServiceInterface
	JWTService        jwt.JWTServiceInterface
}

// NewJWKSService creates a new instance of JWKSService.
func NewJWKSService() JWKSServiceInterface {
	return &JWKSService{
		SystemCertService: cert.NewSystemCertificateService(),
		JWTService:        jwt.GetJWTService(),
	}
}

// GetJWKS returns the key set clients use to verify tokens issued by this server.
func (s *JWKSService) GetJWKS() (*jose.JSONWebKeySet, *serviceerror.ServiceError) {
	publicKey := s.JWTService.GetPublicKey()
	if publicKey == nil {
		return nil, &serviceerror.ServiceError{
			Code:             "JWKS-1001",
			Type:             serviceerror.ServerErrorType,
			Error:            "Signing key unavailable",
			ErrorDescription: "The server signing key has not been initialized",
		}
	}

	kid, err := s.SystemCertService.GetCertificateKid()
	if err != nil {
		return nil, &serviceerror.ServiceError{
			Code:             "JWKS-1002",
			Type:             serviceerror.ServerErrorType,
			Error:            "Failed to derive key id",
			ErrorDescription: err.Error(),
		}
	}

	key := jose.JSONWebKey{
		Key:       publicKey,
		KeyID:     kid,
		Use:       "sig",
		Algorithm: "RS256",
	}

	if certificate, certErr := s.serverCertificate(); certErr == nil && certificate != nil {
		key.Certificates = []*x509.Certificate{certificate}
	}

	return &jose.JSONWebKeySet{Keys: []jose.JSONWebKey{key}}, nil
}

// serverCertificate loads the server's TLS leaf certificate for the x5c entry.
func (s *JWKSService) serverCertificate() (*x509.Certificate, error) {
	meridianRuntime := config.GetMeridianRuntime()
	tlsConfig, err := s.SystemCertService.GetTLSConfig(&meridianRuntime.Config, meridianRuntime.MeridianHome)
	if err != nil {
		return nil, err
	}
	if len(tlsConfig.Certificates) == 0 || len(tlsConfig.Certificates[0].Certificate) == 0 {
		return nil, errors.New("no certificate configured")
	}
	return x509.ParseCertificate(tlsConfig.Certificates[0].Certificate[0])
}
