// Package sqlstore implements domain.Store on database/sql.
//
// Two dialects are supported: "sqlite" through the pure-Go modernc.org/sqlite
// driver and "postgres" through pgx's database/sql adapter. The schema is
// managed by goose with migrations embedded per dialect. List-valued fields
// (rules, inventories, share lists) are stored as JSON text.
package sqlstore
