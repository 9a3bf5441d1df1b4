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

package pkce

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type PKCETestSuite struct {
	suite.Suite
}

func TestPKCESuite(t *testing.T) {
	suite.Run(t, new(PKCETestSuite))
}

func (suite *PKCETestSuite) TestValidatePKCEWithS256() {
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	hash := sha256.Sum256([]byte(verifier))
	challenge := base64.RawURLEncoding.EncodeToString(hash[:])

	suite.NoError(ValidatePKCE(challenge, CodeChallengeMethodS256, verifier))
}

func (suite *PKCETestSuite) TestValidatePKCEWithS256Mismatch() {
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	err := ValidatePKCE("E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", CodeChallengeMethodS256, verifier)
	suite.ErrorIs(err, ErrPKCEValidationFailed)
}

func (suite *PKCETestSuite) TestValidatePKCEWithPlain() {
	verifier := strings.Repeat("a", 43)
	suite.NoError(ValidatePKCE(verifier, CodeChallengeMethodPlain, verifier))
}

func (suite *PKCETestSuite) TestValidatePKCEDefaultsToPlain() {
	verifier := strings.Repeat("b", 43)
	suite.NoError(ValidatePKCE(verifier, "", verifier))
}

func (suite *PKCETestSuite) TestValidatePKCEWithUnknownMethod() {
	verifier := strings.Repeat("c", 43)
	err := ValidatePKCE(verifier, "S512", verifier)
	suite.ErrorIs(err, ErrInvalidChallengeMethod)
}

func (suite *PKCETestSuite) TestValidatePKCEWithEmptyChallenge() {
	err := ValidatePKCE("", CodeChallengeMethodPlain, strings.Repeat("a", 43))
	suite.ErrorIs(err, ErrInvalidCodeChallenge)
}

func (suite *PKCETestSuite) TestValidatePKCEVerifierTooShort() {
	err := ValidatePKCE("challenge", CodeChallengeMethodPlain, strings.Repeat("a", 42))
	suite.ErrorIs(err, ErrInvalidCodeVerifier)
}

func (suite *PKCETestSuite) TestValidatePKCEVerifierTooLong() {
	err := ValidatePKCE("challenge", CodeChallengeMethodPlain, strings.Repeat("a", 129))
	suite.ErrorIs(err, ErrInvalidCodeVerifier)
}

func (suite *PKCETestSuite) TestValidatePKCEVerifierWithInvalidCharacters() {
	verifier := strings.Repeat("a", 42) + "!"
	err := ValidatePKCE("challenge", CodeChallengeMethodPlain, verifier)
	suite.ErrorIs(err, ErrInvalidCodeVerifier)
}
