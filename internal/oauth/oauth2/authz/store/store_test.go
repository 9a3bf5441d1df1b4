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

	"github.com/meridianid/meridian/internal/oauth/oauth2/authz/constants"
	"github.com/meridianid/meridian/internal/oauth/oauth2/authz/model"
	"github.com/meridianid/meridian/internal/system/database/client"
	dbmodel "github.com/meridianid/meridian/internal/system/database/model"
	"github.com/meridianid/meridian/tests/mocks/databasemock"
)

type AuthorizationCodeStoreTestSuite struct {
	suite.Suite
	sqlMock sqlmock.Sqlmock
	store   *AuthorizationCodeStore
}

func TestAuthorizationCodeStoreSuite(t *testing.T) {
	suite.Run(t, new(AuthorizationCodeStoreTestSuite))
}

func (suite *AuthorizationCodeStoreTestSuite) SetupTest() {
	db, sqlMock, err := sqlmock.New()
	suite.Require().NoError(err)
	suite.sqlMock = sqlMock

	dbClient := client.NewDBClient(dbmodel.NewDB(db), "postgres")
	suite.store = &AuthorizationCodeStore{
		DBProvider: &databasemock.DBProviderInterfaceMock{
			MockGetDBClient: func(dbName string) (client.DBClientInterface, error) {
				return dbClient, nil
			},
		},
	}
}

func (suite *AuthorizationCodeStoreTestSuite) testAuthorizationCode() model.AuthorizationCode {
	return model.AuthorizationCode{
		CodeID:           "codeid123",
		Code:             "code123",
		ClientID:         "client123",
		RedirectURI:      "https://client.example.com/cb",
		AuthorizedUserID: "user42",
		Nonce:            "nonce1",
		TimeCreated:      time.Now().Add(-time.Minute),
		ExpiryTime:       time.Now().Add(9 * time.Minute),
		Scopes:           "openid profile",
		State:            constants.AuthCodeStateActive,
	}
}

func (suite *AuthorizationCodeStoreTestSuite) TestInsertAuthorizationCode() {
	authzCode := suite.testAuthorizationCode()

	suite.sqlMock.ExpectBegin()
	suite.sqlMock.ExpectExec(regexp.QuoteMeta(constants.QueryInsertAuthorizationCode.Query)).
		WithArgs(authzCode.CodeID, authzCode.Code, authzCode.ClientID, authzCode.RedirectURI,
			authzCode.AuthorizedUserID, authzCode.Nonce, authzCode.CodeChallenge,
			authzCode.CodeChallengeMethod, authzCode.TimeCreated, authzCode.ExpiryTime,
			authzCode.State).
		WillReturnResult(sqlmock.NewResult(1, 1))
	suite.sqlMock.ExpectExec(regexp.QuoteMeta(constants.QueryInsertAuthorizationCodeScopes.Query)).
		WithArgs(authzCode.CodeID, authzCode.Scopes).
		WillReturnResult(sqlmock.NewResult(1, 1))
	suite.sqlMock.ExpectCommit()
	suite.sqlMock.ExpectClose()

	err := suite.store.InsertAuthorizationCode(authzCode)
	suite.NoError(err)
	suite.NoError(suite.sqlMock.ExpectationsWereMet())
}

func (suite *AuthorizationCodeStoreTestSuite) TestInsertAuthorizationCodeRollsBackOnScopeFailure() {
	authzCode := suite.testAuthorizationCode()

	suite.sqlMock.ExpectBegin()
	suite.sqlMock.ExpectExec(regexp.QuoteMeta(constants.QueryInsertAuthorizationCode.Query)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	suite.sqlMock.ExpectExec(regexp.QuoteMeta(constants.QueryInsertAuthorizationCodeScopes.Query)).
		WillReturnError(errors.New("constraint violation"))
	suite.sqlMock.ExpectRollback()
	suite.sqlMock.ExpectClose()

	err := suite.store.InsertAuthorizationCode(authzCode)
	suite.Error(err)
	suite.NoError(suite.sqlMock.ExpectationsWereMet())
}

func (suite *AuthorizationCodeStoreTestSuite) TestGetAuthorizationCode() {
	timeCreated := time.Now().Add(-time.Minute).UTC()
	expiryTime := time.Now().Add(9 * time.Minute).UTC()

	codeRows := sqlmock.NewRows([]string{"CODE_ID", "AUTHORIZATION_CODE", "CALLBACK_URL",
		"AUTHZ_USER", "NONCE", "CODE_CHALLENGE", "CODE_CHALLENGE_METHOD", "TIME_CREATED",
		"EXPIRY_TIME", "STATE"}).
		AddRow("codeid123", "code123", "https://client.example.com/cb", "user42", "nonce1",
			"challenge", "S256", timeCreated, expiryTime, constants.AuthCodeStateActive)
	suite.sqlMock.ExpectQuery(regexp.QuoteMeta(constants.QueryGetAuthorizationCode.Query)).
		WithArgs("client123", "code123").
		WillReturnRows(codeRows)

	scopeRows := sqlmock.NewRows([]string{"SCOPE"}).AddRow("openid profile")
	suite.sqlMock.ExpectQuery(regexp.QuoteMeta(constants.QueryGetAuthorizationCodeScopes.Query)).
		WithArgs("codeid123").
		WillReturnRows(scopeRows)
	suite.sqlMock.ExpectClose()

	authzCode, err := suite.store.GetAuthorizationCode("client123", "code123")
	suite.Require().NoError(err)
	suite.Equal("codeid123", authzCode.CodeID)
	suite.Equal("code123", authzCode.Code)
	suite.Equal("client123", authzCode.ClientID)
	suite.Equal("https://client.example.com/cb", authzCode.RedirectURI)
	suite.Equal("user42", authzCode.AuthorizedUserID)
	suite.Equal("nonce1", authzCode.Nonce)
	suite.Equal("challenge", authzCode.CodeChallenge)
	suite.Equal("S256", authzCode.CodeChallengeMethod)
	suite.Equal("openid profile", authzCode.Scopes)
	suite.Equal(constants.AuthCodeStateActive, authzCode.State)
	suite.WithinDuration(expiryTime, authzCode.ExpiryTime, time.Second)
	suite.NoError(suite.sqlMock.ExpectationsWereMet())
}

func (suite *AuthorizationCodeStoreTestSuite) TestGetAuthorizationCodeNotFound() {
	suite.sqlMock.ExpectQuery(regexp.QuoteMeta(constants.QueryGetAuthorizationCode.Query)).
		WithArgs("client123", "unknown").
		WillReturnRows(sqlmock.NewRows([]string{"CODE_ID"}))
	suite.sqlMock.ExpectClose()

	_, err := suite.store.GetAuthorizationCode("client123", "unknown")
	suite.ErrorIs(err, constants.ErrAuthorizationCodeNotFound)
	suite.NoError(suite.sqlMock.ExpectationsWereMet())
}

func (suite *AuthorizationCodeStoreTestSuite) TestDeactivateAuthorizationCode() {
	authzCode := suite.testAuthorizationCode()

	suite.sqlMock.ExpectExec(regexp.QuoteMeta(constants.QueryUpdateAuthorizationCodeState.Query)).
		WithArgs(constants.AuthCodeStateInactive, authzCode.CodeID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.sqlMock.ExpectClose()

	err := suite.store.DeactivateAuthorizationCode(authzCode)
	suite.NoError(err)
	suite.NoError(suite.sqlMock.ExpectationsWereMet())
}

func (suite *AuthorizationCodeStoreTestSuite) TestRevokeAuthorizationCode() {
	authzCode := suite.testAuthorizationCode()

	suite.sqlMock.ExpectExec(regexp.QuoteMeta(constants.QueryUpdateAuthorizationCodeState.Query)).
		WithArgs(constants.AuthCodeStateRevoked, authzCode.CodeID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.sqlMock.ExpectClose()

	err := suite.store.RevokeAuthorizationCode(authzCode)
	suite.NoError(err)
	suite.NoError(suite.sqlMock.ExpectationsWereMet())
}

func (suite *AuthorizationCodeStoreTestSuite) TestExpireAuthorizationCode() {
	authzCode := suite.testAuthorizationCode()

	suite.sqlMock.ExpectExec(regexp.QuoteMeta(constants.QueryUpdateAuthorizationCodeState.Query)).
		WithArgs(constants.AuthCodeStateExpired, authzCode.CodeID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.sqlMock.ExpectClose()

	err := suite.store.ExpireAuthorizationCode(authzCode)
	suite.NoError(err)
	suite.NoError(suite.sqlMock.ExpectationsWereMet())
}

func (suite *AuthorizationCodeStoreTestSuite) TestGetDBClientFailure() {
	store := &AuthorizationCodeStore{
		DBProvider: &databasemock.DBProviderInterfaceMock{
			MockGetDBClient: func(dbName string) (client.DBClientInterface, error) {
				return nil, errors.New("datasource unavailable")
			},
		},
	}

	_, err := store.GetAuthorizationCode("client123", "code123")
	suite.Error(err)
}
