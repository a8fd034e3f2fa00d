package sqlite

import (
	_ "embed"
)

// Встроенная схема локальной БД клиента (SQLite).
//
//go:embed migrations/001_init.sql
var initDDL string

func initialDDL() string { return initDDL }
