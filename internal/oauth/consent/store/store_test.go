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
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"

	"github.com/meridianid/meridian/internal/oauth/consent/constants"
	"github.com/meridianid/meridian/internal/oauth/consent/model"
	"github.com/meridianid/meridian/internal/system/database/client"
	dbmodel "github.com/meridianid/meridian/internal/system/database/model"
	"github.com/meridianid/meridian/tests/mocks/databasemock"
)

type ConsentStoreTestSuite struct {
	suite.Suite
	sqlMock sqlmock.Sqlmock
	store   *ConsentStore
}

func TestConsentStoreSuite(t *testing.T) {
	suite.Run(t, new(ConsentStoreTestSuite))
}

func (suite *ConsentStoreTestSuite) SetupTest() {
	db, sqlMock, err := sqlmock.New()
	suite.Require().NoError(err)
	suite.sqlMock = sqlMock

	dbClient := client.NewDBClient(dbmodel.NewDB(db), "postgres")
	suite.store = &ConsentStore{
		DBProvider: &databasemock.DBProviderInterfaceMock{
			MockGetDBClient: func(dbName string) (client.DBClientInterface, error) {
				return dbClient, nil
			},
		},
	}
}

func (suite *ConsentStoreTestSuite) TestGetConfirmedConsent() {
	timeGranted := time.Now().Add(-time.Hour).UTC()
	rows := sqlmock.NewRows([]string{"CONSENT_ID", "SCOPE", "TIME_GRANTED"}).
		AddRow("consent123", "openid profile", timeGranted)
	suite.sqlMock.ExpectQuery(regexp.QuoteMeta(constants.QueryGetConfirmedConsent.Query)).
		WithArgs("user42", "client123").
		WillReturnRows(rows)
	suite.sqlMock.ExpectClose()

	consent, err := suite.store.GetConfirmedConsent("user42", "client123")
	suite.Require().NoError(err)
	suite.Equal("consent123", consent.ConsentID)
	suite.Equal("user42", consent.Subject)
	suite.Equal("client123", consent.ClientID)
	suite.Equal([]string{"openid", "profile"}, consent.Scopes)
	suite.WithinDuration(timeGranted, consent.TimeGranted, time.Second)
	suite.NoError(suite.sqlMock.ExpectationsWereMet())
}

func (suite *ConsentStoreTestSuite) TestGetConfirmedConsentNotFound() {
	suite.sqlMock.ExpectQuery(regexp.QuoteMeta(constants.QueryGetConfirmedConsent.Query)).
		WithArgs("user42", "client123").
		WillReturnRows(sqlmock.NewRows([]string{"CONSENT_ID", "SCOPE", "TIME_GRANTED"}))
	suite.sqlMock.ExpectClose()

	consent, err := suite.store.GetConfirmedConsent("user42", "client123")
	suite.Nil(consent)
	suite.ErrorIs(err, constants.ErrConsentNotFound)
	suite.NoError(suite.sqlMock.ExpectationsWereMet())
}

func (suite *ConsentStoreTestSuite) TestGetConfirmedConsentQueryFailure() {
	suite.sqlMock.ExpectQuery(regexp.QuoteMeta(constants.QueryGetConfirmedConsent.Query)).
		WillReturnError(errors.New("db down"))
	suite.sqlMock.ExpectClose()

	consent, err := suite.store.GetConfirmedConsent("user42", "client123")
	suite.Nil(consent)
	suite.Error(err)
	suite.NotErrorIs(err, constants.ErrConsentNotFound)
}

func (suite *ConsentStoreTestSuite) TestInsertConsent() {
	timeGranted := time.Now().UTC()
	consent := model.Consent{
		ConsentID:   "consent123",
		Subject:     "user42",
		ClientID:    "client123",
		Scopes:      []string{"openid", "profile"},
		TimeGranted: timeGranted,
	}

	suite.sqlMock.ExpectExec(regexp.QuoteMeta(constants.QueryInsertConsent.Query)).
		WithArgs("consent123", "user42", "client123", "openid profile", timeGranted).
		WillReturnResult(sqlmock.NewResult(1, 1))
	suite.sqlMock.ExpectClose()

	err := suite.store.InsertConsent(consent)
	suite.NoError(err)
	suite.NoError(suite.sqlMock.ExpectationsWereMet())
}

func (suite *ConsentStoreTestSuite) TestInsertConsentGeneratesIDAndTimestamp() {
	consent := model.Consent{
		Subject:  "user42",
		ClientID: "client123",
		Scopes:   []string{"openid"},
	}

	suite.sqlMock.ExpectExec(regexp.QuoteMeta(constants.QueryInsertConsent.Query)).
		WithArgs(sqlmock.AnyArg(), "user42", "client123", "openid", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	suite.sqlMock.ExpectClose()

	err := suite.store.InsertConsent(consent)
	suite.NoError(err)
	suite.NoError(suite.sqlMock.ExpectationsWereMet())
}
