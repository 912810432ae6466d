// Package client contains the client-side building blocks that talk to the
// outside world.
//
// # Overview
//
// The package provides:
//  1. The Client interface: the Talk API calls the client core consumes
//     (room listing and management, join, avatars, status, app passwords).
//  2. HTTPClient, the OCS implementation over net/http. Every request carries
//     basic auth, the OCS-APIRequest header and the client User-Agent.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations): the SQLite
//     account database with embedded goose migrations.
//
// # Error Handling
//
// Non-2xx answers are returned as *HTTPError carrying the status code. Through
// errors.Is a 401 matches ErrUnauthorized, 403 common.ErrForbidden, 404
// common.ErrNotFound and 502/503/504 ErrUnavailable. Transport failures wrap
// ErrUnavailable together with the underlying error.
package client
