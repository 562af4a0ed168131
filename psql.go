package stripekit

import (
	"database/sql"

	"github.com/andrewpillar/query"
)

// PSQL is a Store backed by PostgreSQL, for when webhook handling is spread
// across multiple processes. Using this implementation of the Store
// interface would require having the following schema,
//
//	CREATE TABLE stripe_events (
//	    id VARCHAR NOT NULL UNIQUE
//	);
type PSQL struct {
	*sql.DB
}

var (
	_ Store = (*PSQL)(nil)

	eventTable = "stripe_events"
)

// LogEvent will store the given event ID in the stripe_events table. If the
// given event ID already exists, then ErrEventExists is returned.
func (p PSQL) LogEvent(id string) error {
	q := query.Select(
		query.Count("id"),
		query.From(eventTable),
		query.Where("id", "=", query.Arg(id)),
	)

	var count int64

	if err := p.QueryRow(q.Build(), q.Args()...).Scan(&count); err != nil {
		return err
	}

	if count > 0 {
		return ErrEventExists
	}

	q = query.Insert(eventTable, query.Columns("id"), query.Values(id))

	_, err := p.Exec(q.Build(), q.Args()...)
	return err
}
