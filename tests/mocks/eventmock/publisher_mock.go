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

// Package eventmock provides a mock implementation of the audit event publisher for testing.
package eventmock

import (
	"sync"

	"github.com/meridianid/meridian/internal/system/event"
)

// PublisherInterfaceMock records published events for assertions. Publish is
// safe for concurrent use.
type PublisherInterfaceMock struct {
	mu     sync.Mutex
	Events []event.Event
}

// Publish records the event.
func (m *PublisherInterfaceMock) Publish(evt event.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, evt)
}

// Close is a no-op.
func (m *PublisherInterfaceMock) Close() {}

// EventsOfType returns the recorded events matching the given type.
func (m *PublisherInterfaceMock) EventsOfType(eventType string) []event.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []event.Event
	for _, evt := range m.Events {
		if evt.Type == eventType {
			matched = append(matched, evt)
		}
	}
	return matched
}
