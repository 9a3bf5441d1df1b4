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

package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/meridianid/meridian/internal/system/config"
)

func TestPublishNeverBlocks(t *testing.T) {
	publisher := NewPublisher(1)
	defer publisher.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			publisher.Publish(Event{ID: "event123", Type: TypeStartAuthorization})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publishing blocked on a full buffer")
	}
}

func TestCloseFlushesAndIsIdempotent(t *testing.T) {
	publisher := NewPublisher(8)
	publisher.Publish(Event{ID: "event123", Type: TypeEndAuthorization, ClientID: "client123"})

	publisher.Close()
	publisher.Close()
}

func TestNewPublisherDefaultsBufferSize(t *testing.T) {
	publisher := NewPublisher(0)
	defer publisher.Close()
	assert.Equal(t, defaultBufferSize, cap(publisher.events))
}

func TestGetPublisherReturnsSingleton(t *testing.T) {
	first := GetPublisher()
	second := GetPublisher()
	assert.Same(t, first, second)
}

func TestConfiguredPublisherReadsBufferSize(t *testing.T) {
	config.ResetMeridianRuntime()
	t.Cleanup(config.ResetMeridianRuntime)
	err := config.InitializeMeridianRuntime("/tmp/meridian", &config.Config{
		Event: config.EventConfig{BufferSize: 7},
	})
	assert.NoError(t, err)

	publisher := newConfiguredPublisher()
	defer publisher.Close()
	assert.Equal(t, 7, cap(publisher.events))
}

func TestConfiguredPublisherDefaultsWithoutRuntime(t *testing.T) {
	config.ResetMeridianRuntime()
	t.Cleanup(config.ResetMeridianRuntime)

	publisher := newConfiguredPublisher()
	defer publisher.Close()
	assert.Equal(t, defaultBufferSize, cap(publisher.events))
}
