package main

// database/sql drivers for the import sql and export sql commands.
import (
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)
