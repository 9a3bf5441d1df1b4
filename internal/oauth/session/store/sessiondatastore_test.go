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

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	oauth2model "github.com/meridianid/meridian/internal/oauth/oauth2/model"
	"github.com/meridianid/meridian/internal/oauth/session/model"
)

type SessionDataStoreTestSuite struct {
	suite.Suite
	store *SessionDataStore
}

func TestSessionDataStoreSuite(t *testing.T) {
	suite.Run(t, new(SessionDataStoreTestSuite))
}

func (suite *SessionDataStoreTestSuite) SetupTest() {
	suite.store = &SessionDataStore{
		entries:        make(map[string]sessionEntry),
		validityPeriod: 10 * time.Minute,
	}
}

func (suite *SessionDataStoreTestSuite) testSessionData() model.SessionData {
	return model.SessionData{
		OAuthParameters: oauth2model.AuthorizationParameter{
			ClientID: "client123",
			State:    "state1",
		},
		AuthenticatedUser: oauth2model.AuthenticatedUser{
			IsAuthenticated: true,
			Subject:         "user42",
		},
	}
}

func (suite *SessionDataStoreTestSuite) TestAddAndGetSession() {
	suite.store.AddSession("key1", suite.testSessionData())

	sessionData, found := suite.store.GetSession("key1")
	suite.True(found)
	suite.Equal("client123", sessionData.OAuthParameters.ClientID)
	suite.Equal("user42", sessionData.AuthenticatedUser.Subject)

	// GetSession does not remove the entry.
	_, found = suite.store.GetSession("key1")
	suite.True(found)
}

func (suite *SessionDataStoreTestSuite) TestConsumeSessionIsOneShot() {
	suite.store.AddSession("key1", suite.testSessionData())

	sessionData, found := suite.store.ConsumeSession("key1")
	suite.True(found)
	suite.Equal("client123", sessionData.OAuthParameters.ClientID)

	_, found = suite.store.ConsumeSession("key1")
	suite.False(found)
	_, found = suite.store.GetSession("key1")
	suite.False(found)
}

func (suite *SessionDataStoreTestSuite) TestGetSessionUnknownKey() {
	sessionData, found := suite.store.GetSession("missing")
	suite.False(found)
	suite.Equal(model.SessionData{}, sessionData)
}

func (suite *SessionDataStoreTestSuite) TestEmptyKeyIsIgnored() {
	suite.store.AddSession("", suite.testSessionData())
	suite.Empty(suite.store.entries)

	_, found := suite.store.GetSession("")
	suite.False(found)
	_, found = suite.store.ConsumeSession("")
	suite.False(found)
}

func (suite *SessionDataStoreTestSuite) TestExpiredSessionIsRemoved() {
	suite.store.validityPeriod = -time.Minute
	suite.store.AddSession("key1", suite.testSessionData())

	_, found := suite.store.GetSession("key1")
	suite.False(found)
	suite.Empty(suite.store.entries)
}

func (suite *SessionDataStoreTestSuite) TestExpiredSessionIsNotConsumable() {
	suite.store.validityPeriod = -time.Minute
	suite.store.AddSession("key1", suite.testSessionData())

	_, found := suite.store.ConsumeSession("key1")
	suite.False(found)
	suite.Empty(suite.store.entries)
}

func (suite *SessionDataStoreTestSuite) TestAddSessionSweepsExpiredEntries() {
	suite.store.validityPeriod = -time.Minute
	suite.store.AddSession("stale1", suite.testSessionData())
	suite.store.AddSession("stale2", suite.testSessionData())

	suite.store.validityPeriod = 10 * time.Minute
	suite.store.AddSession("fresh", suite.testSessionData())

	suite.Len(suite.store.entries, 1)
	suite.Contains(suite.store.entries, "fresh")
}

func (suite *SessionDataStoreTestSuite) TestClearSession() {
	suite.store.AddSession("key1", suite.testSessionData())
	suite.store.ClearSession("key1")

	_, found := suite.store.GetSession("key1")
	suite.False(found)
}

func (suite *SessionDataStoreTestSuite) TestClearSessionStore() {
	suite.store.AddSession("key1", suite.testSessionData())
	suite.store.AddSession("key2", suite.testSessionData())
	suite.store.ClearSessionStore()

	suite.Empty(suite.store.entries)
}

func (suite *SessionDataStoreTestSuite) TestSingletonReturnsSameInstance() {
	suite.Same(GetSessionDataStore(), GetSessionDataStore())
}
