// Package sqlstore is the SQL data-access layer. Repositories obtain a
// Session from a Provider; inside a unit of work the session is registered
// in the unit, so every repository touched by the unit shares one session
// and, for transactional units, one database transaction.
//
// Outside a unit the session autocommits each statement.
package sqlstore
