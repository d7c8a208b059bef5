// Package database provides SQLite-based storage for csphash run history.
//
// Every successful hash run can be recorded with its directory, time,
// algorithm and sorted digests, together with the JSON form of the full
// report. The history command reads these records back to list previous
// runs and to show which hashes were added or removed since the last one.
//
// The database is a single file (csphash.db) under the XDG data directory
// and is accessed through database/sql with the CGO-free modernc.org/sqlite
// driver.
package database
