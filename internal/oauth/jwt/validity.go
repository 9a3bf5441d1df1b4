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

import "github.com/meridianid/meridian/internal/system/config"

// GetJWTTokenValidityPeriod returns the configured access token validity period in seconds.
func GetJWTTokenValidityPeriod() int64 {
	validityPeriod := config.GetMeridianRuntime().Config.OAuth.JWT.ValidityPeriod
	if validityPeriod == 0 {
		return defaultTokenValidity
	}
	return validityPeriod
}

// GetIDTokenValidityPeriod returns the configured ID token validity period in seconds.
func GetIDTokenValidityPeriod() int64 {
	validityPeriod := config.GetMeridianRuntime().Config.OAuth.IDToken.ValidityPeriod
	if validityPeriod == 0 {
		return defaultTokenValidity
	}
	return validityPeriod
}
