// Package catalog records the dataset pages written by profilereport in a
// SQLite database, so earlier pages can be listed and located again.
//
// The database is a single file, profilereport.db, stored by default in
// the XDG data directory. It uses modernc.org/sqlite, a CGO-free driver.
package catalog
