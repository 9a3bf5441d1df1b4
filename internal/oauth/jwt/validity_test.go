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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianid/meridian/internal/system/config"
)

func TestValidityPeriodsFromConfig(t *testing.T) {
	config.ResetMeridianRuntime()
	t.Cleanup(config.ResetMeridianRuntime)

	require.NoError(t, config.InitializeMeridianRuntime("test", &config.Config{
		OAuth: config.OAuthConfig{
			JWT:     config.JWTConfig{ValidityPeriod: 7200},
			IDToken: config.IDTokenConfig{ValidityPeriod: 1800},
		},
	}))

	assert.Equal(t, int64(7200), GetJWTTokenValidityPeriod())
	assert.Equal(t, int64(1800), GetIDTokenValidityPeriod())
}

func TestValidityPeriodsDefaultWhenUnset(t *testing.T) {
	config.ResetMeridianRuntime()
	t.Cleanup(config.ResetMeridianRuntime)

	require.NoError(t, config.InitializeMeridianRuntime("test", &config.Config{}))

	assert.Equal(t, int64(defaultTokenValidity), GetJWTTokenValidityPeriod())
	assert.Equal(t, int64(defaultTokenValidity), GetIDTokenValidityPeriod())
}
