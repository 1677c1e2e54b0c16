// Package gorm provides a GORM-backed AccountStore implementation.
//
// Works with any GORM-supported database (PostgreSQL, MySQL, SQLite).
//
// Usage:
//
//	import (
//	    wagorm "github.com/tlegrave/webauth/stores/gorm"
//	    "gorm.io/gorm"
//	)
//
//	db, err := gorm.Open(dialector, &gorm.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := wagorm.AutoMigrate(db); err != nil {
//	    log.Fatal(err)
//	}
//
//	accounts := wagorm.NewAccountStore(db)
package gorm
