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

package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/meridianid/meridian/internal/system/config"
)

type systemCertServiceStub struct{}

func (s *systemCertServiceStub) GetTLSConfig(cfg *config.Config, currentDirectory string) (
	*tls.Config, error) {
	return nil, nil
}

func (s *systemCertServiceStub) GetCertificateKid() (string, error) {
	return "test-kid", nil
}

type JWTServiceTestSuite struct {
	suite.Suite
	privateKey *rsa.PrivateKey
	service    *JWTService
}

func TestJWTServiceSuite(t *testing.T) {
	suite.Run(t, new(JWTServiceTestSuite))
}

func (suite *JWTServiceTestSuite) SetupSuite() {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	suite.Require().NoError(err)
	suite.privateKey = privateKey
}

func (suite *JWTServiceTestSuite) SetupTest() {
	testConfig := &config.Config{
		OAuth: config.OAuthConfig{
			JWT: config.JWTConfig{
				Issuer:         "https://meridian.example.com",
				ValidityPeriod: 3600,
			},
		},
	}
	err := config.InitializeMeridianRuntime("test", testConfig)
	suite.Require().NoError(err)

	suite.service = &JWTService{
		privateKey:               suite.privateKey,
		SystemCertificateService: &systemCertServiceStub{},
	}
}

func (suite *JWTServiceTestSuite) TestGenerateAndVerifyJWT() {
	token, issuedAt, err := suite.service.GenerateJWT("user42", "client123", 3600,
		map[string]interface{}{"nonce": "nonce1"})
	suite.Require().NoError(err)
	suite.NotZero(issuedAt)
	suite.True(IsJWS(token))

	claims, err := suite.service.VerifyJWT(token, suite.service.GetPublicKey())
	suite.Require().NoError(err)
	suite.Equal("user42", claims["sub"])
	suite.Equal("client123", claims["aud"])
	suite.Equal("https://meridian.example.com", claims["iss"])
	suite.Equal("nonce1", claims["nonce"])
	suite.NotEmpty(claims["jti"])
}

func (suite *JWTServiceTestSuite) TestGenerateJWTSetsKidHeader() {
	token, _, err := suite.service.GenerateJWT("user42", "client123", 3600, nil)
	suite.Require().NoError(err)

	header, err := DecodeJWTHeader(token)
	suite.Require().NoError(err)
	suite.Equal("test-kid", header["kid"])
	suite.Equal("RS256", header["alg"])
}

func (suite *JWTServiceTestSuite) TestVerifyJWTRejectsTamperedToken() {
	token, _, err := suite.service.GenerateJWT("user42", "client123", 3600, nil)
	suite.Require().NoError(err)

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	_, err = suite.service.VerifyJWT(tampered, suite.service.GetPublicKey())
	suite.Error(err)
}

func (suite *JWTServiceTestSuite) TestVerifyJWTRejectsWrongKey() {
	token, _, err := suite.service.GenerateJWT("user42", "client123", 3600, nil)
	suite.Require().NoError(err)

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	suite.Require().NoError(err)

	_, err = suite.service.VerifyJWT(token, &otherKey.PublicKey)
	suite.Error(err)
}

func (suite *JWTServiceTestSuite) TestVerifyJWTRejectsExpiredToken() {
	token, _, err := suite.service.GenerateJWT("user42", "client123", -10, nil)
	suite.Require().NoError(err)

	_, err = suite.service.VerifyJWT(token, suite.service.GetPublicKey())
	suite.Error(err)
}

func (suite *JWTServiceTestSuite) TestGenerateJWTWithoutPrivateKey() {
	service := &JWTService{SystemCertificateService: &systemCertServiceStub{}}
	_, _, err := service.GenerateJWT("user42", "client123", 3600, nil)
	suite.Error(err)
	suite.Nil(service.GetPublicKey())
}

func (suite *JWTServiceTestSuite) TestEncryptDecryptJWESymmetric() {
	key := SymmetricKeyFromSecret("topsecret")

	encrypted, err := suite.service.EncryptJWE("signed.jws.payload", key)
	suite.Require().NoError(err)
	suite.True(IsJWE(encrypted))

	decrypted, err := suite.service.DecryptJWE(encrypted, key)
	suite.Require().NoError(err)
	suite.Equal("signed.jws.payload", decrypted)
}

func (suite *JWTServiceTestSuite) TestEncryptDecryptJWEWithRSAKey() {
	encrypted, err := suite.service.EncryptJWE("signed.jws.payload", suite.service.GetPublicKey())
	suite.Require().NoError(err)
	suite.True(IsJWE(encrypted))

	decrypted, err := suite.service.DecryptJWE(encrypted, suite.privateKey)
	suite.Require().NoError(err)
	suite.Equal("signed.jws.payload", decrypted)
}

func (suite *JWTServiceTestSuite) TestDecryptJWEWithWrongKey() {
	encrypted, err := suite.service.EncryptJWE("signed.jws.payload", SymmetricKeyFromSecret("topsecret"))
	suite.Require().NoError(err)

	_, err = suite.service.DecryptJWE(encrypted, SymmetricKeyFromSecret("othersecret"))
	suite.Error(err)
}

func (suite *JWTServiceTestSuite) TestEncryptJWEUnsupportedKeyType() {
	_, err := suite.service.EncryptJWE("payload", 42)
	suite.Error(err)
}
