// Package services contains application services for the Talk client:
// the account service over the local store, the login/logout flow, and the
// room-operation runner that drives a screen host.
//
// Services take a *sql.DB and build repositories per call, so a multi-row
// update can swap the handle for a transaction with dbx.WithTx.
package services
