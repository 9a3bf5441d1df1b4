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

// Package tokenstore provides persistence for granted access tokens and
// fingerprint based token reuse.
package tokenstore

import (
	"crypto/sha256"
	"encoding/base64"
	"sort"
	"strings"
	"time"
)

// GrantedToken represents a persisted access token grant.
type GrantedToken struct {
	TokenID     string
	ClientID    string
	Subject     string
	Scopes      []string
	Fingerprint string
	AccessToken string
	IssuedAt    time.Time
	ExpiresIn   int64
}

// IsExpired reports whether the granted token has passed its lifetime.
func (gt *GrantedToken) IsExpired() bool {
	return time.Now().After(gt.IssuedAt.Add(time.Duration(gt.ExpiresIn) * time.Second))
}

// ComputeFingerprint derives the reuse fingerprint for a token grant. Scope
// order does not affect the result.
func ComputeFingerprint(clientID, subject string, scopes []string) string {
	sorted := make([]string, len(scopes))
	copy(sorted, scopes)
	sort.Strings(sorted)

	sum := sha256.Sum256([]byte(clientID + "\x00" + subject + "\x00" + strings.Join(sorted, " ")))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
