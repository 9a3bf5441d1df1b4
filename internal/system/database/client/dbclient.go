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

// Package client provides database client implementations for executing queries and managing transactions.
package client

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/meridianid/meridian/internal/system/database/model"
	"github.com/meridianid/meridian/internal/system/log"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ErrNoRows is returned by QueryRow when the query matches no row. Stores map
// it onto their own not-found errors.
var ErrNoRows = errors.New("query returned no rows")

// DBClientInterface defines the interface for database operations.
type DBClientInterface interface {
	// Query executes a sql query that returns rows, typically a SELECT, and returns the result as a slice of maps.
	Query(query model.DBQuery, args ...interface{}) ([]map[string]interface{}, error)
	// QueryRow executes a sql query expected to match at most one row. It returns
	// ErrNoRows when the query matches none.
	QueryRow(query model.DBQuery, args ...interface{}) (map[string]interface{}, error)
	// Execute executes a sql query without returning data in any rows, and returns number of rows affected.
	Execute(query model.DBQuery, args ...interface{}) (int64, error)
	// BeginTx starts a new database transaction.
	BeginTx() (model.TxInterface, error)
	// Close closes the database connection.
	Close() error
}

// DBClient is the implementation of DBClientInterface.
type DBClient struct {
	db     model.DBInterface
	dbType string
	logger *log.Logger
}

// NewDBClient creates a new instance of DBClient with the provided database connection.
func NewDBClient(db model.DBInterface, dbType string) DBClientInterface {
	return &DBClient{
		db:     db,
		dbType: dbType,
		logger: log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DBClient")),
	}
}

// Query executes a sql query that returns rows, typically a SELECT, and returns the result as a slice of maps.
func (client *DBClient) Query(query model.DBQuery, args ...interface{}) ([]map[string]interface{}, error) {
	client.logger.Debug("Executing query", log.String("queryID", query.GetID()))

	rows, err := client.db.Query(query.GetQuery(client.dbType), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s failed: %w", query.GetID(), err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			client.logger.Error("Error closing rows",
				log.String("queryID", query.GetID()), log.Error(closeErr))
		}
	}()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query %s failed to read columns: %w", query.GetID(), err)
	}

	var results []map[string]interface{}
	for rows.Next() {
		row, err := scanRow(rows, columns)
		if err != nil {
			return nil, fmt.Errorf("query %s failed to scan row: %w", query.GetID(), err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query %s failed while iterating rows: %w", query.GetID(), err)
	}

	return results, nil
}

// QueryRow executes a sql query expected to match at most one row.
func (client *DBClient) QueryRow(query model.DBQuery, args ...interface{}) (map[string]interface{}, error) {
	results, err := client.Query(query, args...)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNoRows
	}
	if len(results) > 1 {
		client.logger.Warn("Query matched multiple rows; using the first",
			log.String("queryID", query.GetID()))
	}
	return results[0], nil
}

// Execute executes a sql query without returning data in any rows, and returns number of rows affected.
func (client *DBClient) Execute(query model.DBQuery, args ...interface{}) (int64, error) {
	client.logger.Debug("Executing statement", log.String("queryID", query.GetID()))

	res, err := client.db.Exec(query.GetQuery(client.dbType), args...)
	if err != nil {
		return 0, fmt.Errorf("query %s failed: %w", query.GetID(), err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("query %s failed to report affected rows: %w", query.GetID(), err)
	}

	return rowsAffected, nil
}

// BeginTx starts a new database transaction.
func (client *DBClient) BeginTx() (model.TxInterface, error) {
	tx, err := client.db.Begin()
	if err != nil {
		return nil, err
	}
	return model.NewTx(tx), nil
}

// Close closes the database connection.
func (client *DBClient) Close() error {
	return client.db.Close()
}

// scanRow reads the current row into a map keyed by lowercased column names.
// Drivers surface text columns as []byte in places; those are normalized to
// string so stores can type-assert uniformly.
func scanRow(rows *sql.Rows, columns []string) (map[string]interface{}, error) {
	values := make([]interface{}, len(columns))
	pointers := make([]interface{}, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	if err := rows.Scan(pointers...); err != nil {
		return nil, err
	}

	row := make(map[string]interface{}, len(columns))
	for i, column := range columns {
		value := values[i]
		if raw, ok := value.([]byte); ok {
			value = string(raw)
		}
		row[strings.ToLower(column)] = value
	}
	return row, nil
}
