//go:build ignore
// +build ignore

// Seeds a demo MySQL database with a small shop schema so the assistant
// has something to answer questions about.
//
//	go run scripts/seed_demo.go -dsn "root:root@tcp(localhost:3306)/" -db demo_shop -count 50
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"math/rand"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		status ENUM('pending','paid','shipped','cancelled') NOT NULL,
		total DECIMAL(10,2) NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	)`,
}

func main() {
	var (
		dsn      string
		database string
		count    int
	)
	flag.StringVar(&dsn, "dsn", "root@tcp(localhost:3306)/", "MySQL DSN without database")
	flag.StringVar(&database, "db", "demo_shop", "Database name")
	flag.IntVar(&count, "count", 50, "Number of orders to generate")
	flag.Parse()

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		panic(fmt.Errorf("open failed: %w", err))
	}
	defer db.Close()

	if _, err := db.Exec("CREATE DATABASE IF NOT EXISTS " + database); err != nil {
		panic(fmt.Errorf("create database failed: %w", err))
	}
	if _, err := db.Exec("USE " + database); err != nil {
		panic(fmt.Errorf("use database failed: %w", err))
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			panic(fmt.Errorf("schema statement failed: %w", err))
		}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	statuses := []string{"pending", "paid", "shipped", "cancelled"}

	for i := 0; i < 10; i++ {
		_, err := db.Exec(
			"INSERT IGNORE INTO users (name, email, created_at) VALUES (?, ?, ?)",
			fmt.Sprintf("user%02d", i), fmt.Sprintf("user%02d@example.com", i),
			time.Now().Add(-time.Duration(rng.Intn(8760))*time.Hour),
		)
		if err != nil {
			panic(fmt.Errorf("insert user failed: %w", err))
		}
	}

	for i := 0; i < count; i++ {
		_, err := db.Exec(
			"INSERT INTO orders (user_id, status, total, created_at) VALUES (?, ?, ?, ?)",
			1+rng.Intn(10),
			statuses[rng.Intn(len(statuses))],
			float64(10+rng.Intn(4900))/100.0,
			time.Now().Add(-time.Duration(rng.Intn(720))*time.Hour),
		)
		if err != nil {
			panic(fmt.Errorf("insert order failed: %w", err))
		}
	}

	fmt.Printf("Seeded %s with 10 users and %d orders\n", database, count)
}
