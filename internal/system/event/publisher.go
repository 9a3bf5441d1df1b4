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

// Package event provides a fire-and-forget audit event sink. Publishing never
// blocks request processing; events are dropped when the buffer is full.
package event

import (
	"sync"
	"time"

	"github.com/meridianid/meridian/internal/system/config"
	"github.com/meridianid/meridian/internal/system/log"
)

const defaultBufferSize = 256

// Audit event types. Start/End pairs share an event id so that consumers can
// correlate the two notifications.
const (
	TypeStartAuthorization        = "start_authorization"
	TypeEndAuthorization          = "end_authorization"
	TypeAccessTokenIssued         = "access_token_issued" // #nosec G101
	TypeAuthorizationCodeIssued   = "authorization_code_issued"
	TypeStartClientAuthentication = "start_client_authentication"
	TypeEndClientAuthentication   = "end_client_authentication"
)

// Event represents a single audit event.
type Event struct {
	ID        string
	Type      string
	ClientID  string
	Subject   string
	Details   map[string]any
	Timestamp time.Time
}

// PublisherInterface defines the interface for publishing audit events.
type PublisherInterface interface {
	Publish(event Event)
	Close()
}

// Publisher drains audit events to the structured log on a background goroutine.
type Publisher struct {
	events    chan Event
	closeOnce sync.Once
	done      chan struct{}
}

var (
	instance *Publisher
	once     sync.Once
)

// GetPublisher returns the singleton audit event publisher.
func GetPublisher() PublisherInterface {
	once.Do(func() {
		instance = newConfiguredPublisher()
	})
	return instance
}

// newConfiguredPublisher sizes the buffer from the deployment descriptor when
// the runtime is available, falling back to the default otherwise.
func newConfiguredPublisher() *Publisher {
	bufferSize := defaultBufferSize
	if config.IsInitialized() {
		bufferSize = config.GetMeridianRuntime().Config.Event.BufferSize
	}
	return NewPublisher(bufferSize)
}

// NewPublisher creates a publisher with the given buffer size and starts its
// drain goroutine.
func NewPublisher(bufferSize int) *Publisher {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	p := &Publisher{
		events: make(chan Event, bufferSize),
		done:   make(chan struct{}),
	}
	go p.drain()
	return p
}

// Publish enqueues an audit event. The call never blocks; when the buffer is
// full the event is dropped and counted as a warning.
func (p *Publisher) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.events <- event:
	default:
		log.GetLogger().Warn("Audit event buffer full, dropping event",
			log.String("eventType", event.Type), log.String("eventId", event.ID))
	}
}

// Close stops the drain goroutine after flushing buffered events.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		close(p.events)
		<-p.done
	})
}

func (p *Publisher) drain() {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AuditEventPublisher"))
	for event := range p.events {
		logger.Info("audit",
			log.String("eventId", event.ID),
			log.String("eventType", event.Type),
			log.String("clientId", event.ClientID),
			log.String("subject", log.MaskString(event.Subject)),
			log.Any("details", event.Details),
			log.Any("timestamp", event.Timestamp),
		)
	}
	close(p.done)
}
