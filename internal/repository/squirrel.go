// Package repository implements the Postgres persistence of tasks and study sessions.
package repository

import sq "github.com/Masterminds/squirrel"

// psql builds statements with PostgreSQL dollar placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
