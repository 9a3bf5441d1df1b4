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

// Package model defines the data structures for user consent records.
package model

import "time"

// Consent represents a confirmed consent grant by a user for a client.
type Consent struct {
	ConsentID   string
	Subject     string
	ClientID    string
	Scopes      []string
	TimeGranted time.Time
}

// Covers reports whether the consent grant covers every requested scope.
func (c *Consent) Covers(requestedScopes []string) bool {
	granted := make(map[string]struct{}, len(c.Scopes))
	for _, scope := range c.Scopes {
		granted[scope] = struct{}{}
	}
	for _, scope := range requestedScopes {
		if _, ok := granted[scope]; !ok {
			return false
		}
	}
	return true
}
