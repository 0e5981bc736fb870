package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Options configures the MySQL connection and its pool.  Zero values for
// the pool knobs leave the driver defaults in place.
type Options struct {
	User            string
	Pass            string
	Host            string
	Port            string
	Name            string
	MaxConns        int
	ConnMaxLifetime time.Duration
}

// dsn renders the driver connection string.  parseTime maps DATETIME
// columns onto time.Time; loc=UTC keeps every timestamp in one zone.
func (o Options) dsn() string {
	cred := o.User
	if o.Pass != "" {
		cred += ":" + o.Pass
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		cred, o.Host, o.Port, o.Name)
}

// Open connects to MySQL, applies the pool settings and verifies the
// connection with a short ping.
func Open(o Options) (*sql.DB, error) {
	db, err := sql.Open("mysql", o.dsn())
	if err != nil {
		return nil, err
	}

	if o.MaxConns > 0 {
		db.SetMaxOpenConns(o.MaxConns)
		db.SetMaxIdleConns(o.MaxConns)
	}
	if o.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(o.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
