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

package config

import "sync"

// MeridianRuntime holds the runtime configuration for the Meridian server.
type MeridianRuntime struct {
	MeridianHome string `yaml:"meridian_home"`
	Config       Config `yaml:"config"`
}

var (
	runtimeConfig *MeridianRuntime
	once          sync.Once
)

// InitializeMeridianRuntime initializes the MeridianRuntime configuration.
func InitializeMeridianRuntime(meridianHome string, config *Config) error {
	once.Do(func() {
		runtimeConfig = &MeridianRuntime{
			MeridianHome: meridianHome,
			Config:       *config,
		}
	})

	return nil
}

// IsInitialized reports whether the MeridianRuntime has been initialized.
func IsInitialized() bool {
	return runtimeConfig != nil
}

// GetMeridianRuntime returns the MeridianRuntime configuration.
func GetMeridianRuntime() *MeridianRuntime {
	if runtimeConfig == nil {
		panic("MeridianRuntime is not initialized")
	}
	return runtimeConfig
}

// ResetMeridianRuntime resets the MeridianRuntime.
// This should only be used in tests to reset the singleton state.
func ResetMeridianRuntime() {
	runtimeConfig = nil
	once = sync.Once{}
}
