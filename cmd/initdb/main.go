// Command initdb creates the portal schema and, when none exists yet, an
// initial admin account with interactively supplied credentials.  It is
// run once on a fresh deployment before starting the server.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/iliyamo/terminal-portal/internal/auth"
	"github.com/iliyamo/terminal-portal/internal/database"
	"github.com/iliyamo/terminal-portal/internal/model"
)

const usersTable = `
CREATE TABLE IF NOT EXISTS users (
    id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
    username VARCHAR(64) NOT NULL UNIQUE,
    email VARCHAR(255) NOT NULL UNIQUE,
    password_hash VARCHAR(255) NOT NULL,
    role VARCHAR(16) NOT NULL DEFAULT 'user',
    status VARCHAR(16) NOT NULL DEFAULT 'pending',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    approved_at DATETIME NULL,
    approved_by BIGINT UNSIGNED NULL,
    last_login DATETIME NULL,
    CONSTRAINT fk_users_approved_by FOREIGN KEY (approved_by) REFERENCES users(id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

const signupRequestsTable = `
CREATE TABLE IF NOT EXISTS signup_requests (
    id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255) NOT NULL,
    phone VARCHAR(32) NOT NULL DEFAULT '',
    status VARCHAR(16) NOT NULL DEFAULT 'pending',
    submitted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

func main() {
	_ = godotenv.Load()

	db, err := database.Open(must("DB_USER"), os.Getenv("DB_PASS"), must("DB_HOST"), must("DB_PORT"), must("DB_NAME"))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("Creating tables...")
	if _, err := db.ExecContext(ctx, usersTable); err != nil {
		log.Fatalf("create users table: %v", err)
	}
	if _, err := db.ExecContext(ctx, signupRequestsTable); err != nil {
		log.Fatalf("create signup_requests table: %v", err)
	}
	fmt.Println("Tables ready.")

	var (
		adminID   uint64
		adminName string
	)
	err = db.QueryRowContext(ctx,
		"SELECT id, username FROM users WHERE role=? LIMIT 1", model.RoleAdmin).
		Scan(&adminID, &adminName)
	switch {
	case err == nil:
		fmt.Printf("Admin account already exists: %s\n", adminName)
		return
	case err != sql.ErrNoRows:
		log.Fatalf("check admin: %v", err)
	}

	fmt.Println("Creating the first admin account.")
	reader := bufio.NewReader(os.Stdin)
	username := prompt(reader, "Admin username: ")
	email := prompt(reader, "Admin email: ")

	fmt.Print("Admin password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		log.Fatalf("read password: %v", err)
	}

	if username == "" || email == "" || len(password) == 0 {
		log.Fatal("all fields are required")
	}

	hash, err := auth.HashPassword(string(password))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	res, err := db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role, status, approved_at) VALUES (?,?,?,?,?,NOW())",
		username, email, hash, model.RoleAdmin, model.StatusActive)
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	// The first admin approves itself.
	if _, err := db.ExecContext(ctx, "UPDATE users SET approved_by=? WHERE id=?", id, id); err != nil {
		log.Fatalf("stamp approver: %v", err)
	}

	fmt.Printf("Admin account %q created.\n", username)
}

func prompt(r *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
