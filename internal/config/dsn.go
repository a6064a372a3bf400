package config

import (
	"fmt"
	"net/url"
)

// buildMySQLDSN assembles a go-sql-driver DSN from discrete database fields.
func buildMySQLDSN(db DatabaseRuntimeConfig) string {
	if db.DSN != "" {
		return db.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
		db.Charset,
		url.QueryEscape(db.Loc),
	)
}
