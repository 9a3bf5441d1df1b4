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

// Package jwt provides the token signing, verification, encryption and
// decryption primitives used across the OAuth2 module.
package jwt

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"

	"github.com/meridianid/meridian/internal/cert"
	"github.com/meridianid/meridian/internal/system/config"
	"github.com/meridianid/meridian/internal/system/utils"
)

const defaultTokenValidity = 3600 // default validity period of 1 hour

var (
	instance *JWTService
	once     sync.Once
)

// JWTServiceInterface defines the interface for JWT operations.
type JWTServiceInterface interface {
	Init() error
	GetPublicKey() *rsa.PublicKey
	GenerateJWT(sub, aud string, validityPeriod int64, claims map[string]interface{}) (string, int64, error)
	VerifyJWT(token string, key interface{}) (jwt.MapClaims, error)
	EncryptJWE(payload string, key interface{}) (string, error)
	DecryptJWE(token string, key interface{}) (string, error)
}

// JWTService implements the JWTServiceInterface backed by the server's RSA signing key.
type JWTService struct {
	privateKey               *rsa.PrivateKey
	SystemCertificateService cert.SystemCertificateServiceInterface
}

// GetJWTService returns a singleton instance of JWTService.
func GetJWTService() JWTServiceInterface {
	once.Do(func() {
		instance = &JWTService{
			SystemCertificateService: cert.NewSystemCertificateService(),
		}
	})
	return instance
}

// Init loads the private key from the configured file path.
func (js *JWTService) Init() error {
	meridianRuntime := config.GetMeridianRuntime()
	keyFilePath := path.Join(meridianRuntime.MeridianHome, meridianRuntime.Config.Security.KeyFile)
	keyFilePath = filepath.Clean(keyFilePath)

	// Check if the key file exists.
	if _, err := os.Stat(keyFilePath); os.IsNotExist(err) {
		return errors.New("key file not found at " + keyFilePath)
	}

	// Read the key file.
	keyData, err := os.ReadFile(keyFilePath)
	if err != nil {
		return err
	}

	// Decode the PEM block.
	block, _ := pem.Decode(keyData)
	if block == nil {
		return errors.New("failed to decode PEM block containing private key")
	}

	// Handle PKCS1 and PKCS8 private keys.
	if block.Type == "RSA PRIVATE KEY" {
		js.privateKey, err = x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return err
		}
	} else if block.Type == "PRIVATE KEY" {
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return err
		}
		var ok bool
		js.privateKey, ok = key.(*rsa.PrivateKey)
		if !ok {
			return errors.New("not an RSA private key")
		}
	} else {
		return errors.New("unsupported private key type: " + block.Type)
	}

	return nil
}

// GetPublicKey returns the RSA public key corresponding to the server's private key.
func (js *JWTService) GetPublicKey() *rsa.PublicKey {
	if js.privateKey == nil {
		return nil
	}
	return &js.privateKey.PublicKey
}

// GenerateJWT generates a standard JWT signed with the server's private key.
// It returns the compact JWS, the issued-at unix time, and an error if any.
func (js *JWTService) GenerateJWT(sub, aud string, validityPeriod int64,
	claims map[string]interface{}) (string, int64, error) {
	if js.privateKey == nil {
		return "", 0, errors.New("private key not loaded")
	}

	meridianRuntime := config.GetMeridianRuntime()

	// Get the certificate kid (Key ID) for the JWT header.
	kid, err := js.SystemCertificateService.GetCertificateKid()
	if err != nil {
		return "", 0, err
	}

	// Calculate the expiration time based on the validity period.
	if validityPeriod == 0 {
		validityPeriod = defaultTokenValidity
	}
	iat := time.Now()
	exp := iat.Add(time.Duration(validityPeriod) * time.Second)

	payload := jwt.MapClaims{
		"sub": sub,
		"iss": meridianRuntime.Config.OAuth.JWT.Issuer,
		"aud": aud,
		"exp": exp.Unix(),
		"iat": iat.Unix(),
		"nbf": iat.Unix(),
		"jti": utils.GenerateUUID(),
	}

	// Add custom claims if provided.
	for key, value := range claims {
		payload[key] = value
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, payload)
	token.Header["kid"] = kid

	signed, err := token.SignedString(js.privateKey)
	if err != nil {
		return "", 0, err
	}

	return signed, iat.Unix(), nil
}

// VerifyJWT verifies the signature of a compact JWS and returns its claims.
// The key may be an *rsa.PublicKey for the RS family or a []byte secret for
// the HS family; the algorithm must be one of the allowed signing algorithms.
func (js *JWTService) VerifyJWT(token string, key interface{}) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := signingMethods[t.Method.Alg()]; !ok {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		switch t.Method.(type) {
		case *jwt.SigningMethodHMAC:
			secret, ok := key.([]byte)
			if !ok {
				return nil, errors.New("symmetric algorithm requires a byte secret")
			}
			return secret, nil
		default:
			return key, nil
		}
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token signature")
	}
	return claims, nil
}

// EncryptJWE encrypts the given payload into a compact JWE. The key may be an
// *rsa.PublicKey (RSA-OAEP) or a []byte symmetric key (A256KW).
func (js *JWTService) EncryptJWE(payload string, key interface{}) (string, error) {
	recipient := jose.Recipient{Key: key}
	switch key.(type) {
	case *rsa.PublicKey:
		recipient.Algorithm = jose.RSA_OAEP_256
	case []byte:
		recipient.Algorithm = jose.A256KW
	default:
		return "", errors.New("unsupported encryption key type")
	}

	encrypter, err := jose.NewEncrypter(jose.A256GCM, recipient, nil)
	if err != nil {
		return "", err
	}

	object, err := encrypter.Encrypt([]byte(payload))
	if err != nil {
		return "", err
	}

	return object.CompactSerialize()
}

// DecryptJWE decrypts a compact JWE and returns the plaintext payload. The key
// may be an *rsa.PrivateKey or a []byte symmetric key.
func (js *JWTService) DecryptJWE(token string, key interface{}) (string, error) {
	object, err := jose.ParseEncrypted(token, keyEncryptionAlgorithms, contentEncryptionAlgorithms)
	if err != nil {
		return "", err
	}

	plaintext, err := object.Decrypt(key)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
