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
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsJWS(t *testing.T) {
	assert.True(t, IsJWS("header.payload.signature"))
	assert.False(t, IsJWS("header.payload"))
	assert.False(t, IsJWS("h.e.a.d.er"))
	assert.False(t, IsJWS(""))
}

func TestIsJWE(t *testing.T) {
	assert.True(t, IsJWE("h.e.a.d.er"))
	assert.False(t, IsJWE("header.payload.signature"))
	assert.False(t, IsJWE(""))
}

func TestDecodeJWTHeader(t *testing.T) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","kid":"key-1"}`))
	decoded, err := DecodeJWTHeader(header + ".payload.signature")
	require.NoError(t, err)
	assert.Equal(t, "RS256", decoded["alg"])
	assert.Equal(t, "key-1", decoded["kid"])

	_, err = DecodeJWTHeader("nodots")
	assert.Error(t, err)

	_, err = DecodeJWTHeader("!!!.payload.signature")
	assert.Error(t, err)
}

func TestDecodeUnverifiedClaims(t *testing.T) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"iss":"client123","sub":"client123"}`))
	claims, err := DecodeUnverifiedClaims(header + "." + payload + ".signature")
	require.NoError(t, err)
	assert.Equal(t, "client123", claims["iss"])
	assert.Equal(t, "client123", claims["sub"])

	_, err = DecodeUnverifiedClaims("not-a-token")
	assert.Error(t, err)
}

func TestParseRSAPublicKeyPEM(t *testing.T) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pkixDER, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	require.NoError(t, err)
	pkixPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pkixDER})

	parsed, err := ParseRSAPublicKeyPEM(string(pkixPEM))
	require.NoError(t, err)
	assert.True(t, privateKey.PublicKey.Equal(parsed))

	pkcs1PEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PUBLIC KEY",
		Bytes: x509.MarshalPKCS1PublicKey(&privateKey.PublicKey),
	})
	parsed, err = ParseRSAPublicKeyPEM(string(pkcs1PEM))
	require.NoError(t, err)
	assert.True(t, privateKey.PublicKey.Equal(parsed))

	_, err = ParseRSAPublicKeyPEM("not pem data")
	assert.Error(t, err)

	ecPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: []byte{0x01}})
	_, err = ParseRSAPublicKeyPEM(string(ecPEM))
	assert.Error(t, err)
}

func TestSymmetricKeyFromSecret(t *testing.T) {
	key := SymmetricKeyFromSecret("topsecret")
	assert.Len(t, key, 32)
	assert.Equal(t, key, SymmetricKeyFromSecret("topsecret"))
	assert.NotEqual(t, key, SymmetricKeyFromSecret("othersecret"))
}
