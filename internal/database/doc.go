// Package database implements the domain repositories on PostgreSQL via pgx.
//
// Repositories are constructed against the shared pool and expose a WithTx
// variant bound to an open transaction, so the toggle engine can compose the
// reaction mutation and the counter adjustment into one atomic unit.
package database
