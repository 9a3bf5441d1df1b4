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

package jwks

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/meridianid/meridian/internal/system/config"
	"github.com/meridianid/meridian/internal/system/error/serviceerror"
	"github.com/meridianid/meridian/tests/mocks/jwtmock"
)

type systemCertServiceStub struct {
	kid       string
	kidErr    error
	tlsConfig *tls.Config
	tlsErr    error
}

func (s *systemCertServiceStub) GetTLSConfig(cfg *config.Config, currentDirectory string) (
	*tls.Config, error) {
	if s.tlsErr != nil {
		return nil, s.tlsErr
	}
	if s.tlsConfig != nil {
		return s.tlsConfig, nil
	}
	return &tls.Config{MinVersion: tls.VersionTLS12}, nil
}

func (s *systemCertServiceStub) GetCertificateKid() (string, error) {
	return s.kid, s.kidErr
}

type JWKSServiceTestSuite struct {
	suite.Suite
	publicKey *rsa.PublicKey
	jwtMock   *jwtmock.JWTServiceInterfaceMock
	service   *JWKSService
}

func TestJWKSServiceSuite(t *testing.T) {
	suite.Run(t, new(JWKSServiceTestSuite))
}

func (suite *JWKSServiceTestSuite) SetupSuite() {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	suite.Require().NoError(err)
	suite.publicKey = &privateKey.PublicKey
}

func (suite *JWKSServiceTestSuite) SetupTest() {
	err := config.InitializeMeridianRuntime("test", &config.Config{})
	suite.Require().NoError(err)

	suite.jwtMock = new(jwtmock.JWTServiceInterfaceMock)
	suite.service = &JWKSService{
		SystemCertService: &systemCertServiceStub{kid: "test-kid"},
		JWTService:        suite.jwtMock,
	}
}

func (suite *JWKSServiceTestSuite) TestGetJWKS() {
	suite.jwtMock.On("GetPublicKey").Return(suite.publicKey)

	keySet, svcErr := suite.service.GetJWKS()
	suite.Require().Nil(svcErr)
	suite.Require().Len(keySet.Keys, 1)

	key := keySet.Keys[0]
	suite.Equal("test-kid", key.KeyID)
	suite.Equal("sig", key.Use)
	suite.Equal("RS256", key.Algorithm)
	suite.Equal(suite.publicKey, key.Key)
	// No server certificate is configured in tests, so no x5c entry.
	suite.Empty(key.Certificates)
}

func (suite *JWKSServiceTestSuite) TestGetJWKSWithoutSigningKey() {
	suite.jwtMock.On("GetPublicKey").Return(nil)

	keySet, svcErr := suite.service.GetJWKS()
	suite.Nil(keySet)
	suite.Require().NotNil(svcErr)
	suite.Equal("JWKS-1001", svcErr.Code)
	suite.Equal(serviceerror.ServerErrorType, svcErr.Type)
}

func (suite *JWKSServiceTestSuite) TestGetJWKSKidDerivationFailure() {
	suite.jwtMock.On("GetPublicKey").Return(suite.publicKey)
	suite.service.SystemCertService = &systemCertServiceStub{
		kidErr: errors.New("certificate unavailable"),
	}

	keySet, svcErr := suite.service.GetJWKS()
	suite.Nil(keySet)
	suite.Require().NotNil(svcErr)
	suite.Equal("JWKS-1002", svcErr.Code)
}

func (suite *JWKSServiceTestSuite) TestGetJWKSToleratesTLSConfigFailure() {
	suite.jwtMock.On("GetPublicKey").Return(suite.publicKey)
	suite.service.SystemCertService = &systemCertServiceStub{
		kid:    "test-kid",
		tlsErr: errors.New("no tls material"),
	}

	keySet, svcErr := suite.service.GetJWKS()
	suite.Require().Nil(svcErr)
	suite.Require().Len(keySet.Keys, 1)
	suite.Empty(keySet.Keys[0].Certificates)
}
