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

// Package pkce provides PKCE (Proof Key for Code Exchange) validation utilities.
package pkce

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
)

// PKCE code challenge methods.
const (
	CodeChallengeMethodPlain = "plain"
	CodeChallengeMethodS256  = "S256"
)

// PKCE validation errors.
var (
	ErrInvalidCodeVerifier    = errors.New("invalid code verifier")
	ErrInvalidCodeChallenge   = errors.New("invalid code challenge")
	ErrInvalidChallengeMethod = errors.New("invalid code challenge method")
	ErrPKCEValidationFailed   = errors.New("PKCE validation failed")
)

// ValidatePKCE validates the code verifier against the stored code challenge.
// An empty method defaults to plain per RFC 7636.
func ValidatePKCE(codeChallenge, codeChallengeMethod, codeVerifier string) error {
	if codeChallengeMethod == "" {
		codeChallengeMethod = CodeChallengeMethodPlain
	}
	if err := validateCodeVerifier(codeVerifier); err != nil {
		return err
	}
	if codeChallenge == "" {
		return ErrInvalidCodeChallenge
	}

	var derived string
	switch codeChallengeMethod {
	case CodeChallengeMethodPlain:
		derived = codeVerifier
	case CodeChallengeMethodS256:
		hash := sha256.Sum256([]byte(codeVerifier))
		derived = base64.RawURLEncoding.EncodeToString(hash[:])
	default:
		return ErrInvalidChallengeMethod
	}

	if subtle.ConstantTimeCompare([]byte(derived), []byte(codeChallenge)) != 1 {
		return ErrPKCEValidationFailed
	}
	return nil
}

// validateCodeVerifier checks the verifier format per RFC 7636 section 4.1.
func validateCodeVerifier(codeVerifier string) error {
	if len(codeVerifier) < 43 || len(codeVerifier) > 128 {
		return ErrInvalidCodeVerifier
	}
	for _, c := range codeVerifier {
		if !isUnreserved(c) {
			return ErrInvalidCodeVerifier
		}
	}
	return nil
}

func isUnreserved(c rune) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.' || c == '~'
}
