package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("user not found")

type Store struct {
	db *sql.DB
}

type User struct {
	ID                int64
	Name              string
	Age               int
	Gender            string
	Mobile            string
	PasswordHash      string
	Category          string
	DisabilityType    string
	EmergencyContacts string
	CreatedAt         time.Time
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite serialises writers anyway, and ":memory:" is per connection.
	db.SetMaxOpenConns(1)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) InitSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	age INTEGER NOT NULL,
	gender TEXT NOT NULL,
	mobile TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	category TEXT NOT NULL,
	disability_type TEXT,
	emergency_contacts TEXT,
	created_at INTEGER NOT NULL
);
`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *Store) CreateUser(ctx context.Context, user User) (User, error) {
	if user.Name == "" {
		return User{}, errors.New("user name required")
	}
	if user.Mobile == "" {
		return User{}, errors.New("user mobile required")
	}
	if user.PasswordHash == "" {
		return User{}, errors.New("user password hash required")
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
INSERT INTO users (name, age, gender, mobile, password, category, disability_type, emergency_contacts, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, user.Name, user.Age, user.Gender, user.Mobile, user.PasswordHash, user.Category,
		nullString(user.DisabilityType), nullString(user.EmergencyContacts), user.CreatedAt.Unix())
	if err != nil {
		return User{}, err
	}
	user.ID, err = res.LastInsertId()
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, name, age, gender, mobile, password, category, disability_type, emergency_contacts, created_at
FROM users
WHERE id = ?
`, id)
	return scanUser(row)
}

func (s *Store) GetUserByMobile(ctx context.Context, mobile string) (User, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, name, age, gender, mobile, password, category, disability_type, emergency_contacts, created_at
FROM users
WHERE mobile = ?
`, mobile)
	return scanUser(row)
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM users
`)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanUser(row *sql.Row) (User, error) {
	var user User
	var disabilityType, contacts sql.NullString
	var createdAt int64
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Age,
		&user.Gender,
		&user.Mobile,
		&user.PasswordHash,
		&user.Category,
		&disabilityType,
		&contacts,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.DisabilityType = disabilityType.String
	user.EmergencyContacts = contacts.String
	user.CreatedAt = time.Unix(createdAt, 0)
	return user, nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
