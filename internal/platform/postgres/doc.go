// Package postgres implements the task store on PostgreSQL using pgx.
// It owns the SQL statements, the positional mapping of result rows onto
// domain.Task, the translation of driver errors into the store error
// taxonomy, and the embedded goose migrations.
package postgres
