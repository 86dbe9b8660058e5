package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/user/accounts-go/apperror"
	"github.com/user/accounts-go/auth"
)

// DB is the subset of pgxpool.Pool the users package relies on. Declaring it
// here lets tests substitute a pgxmock pool.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

const userColumns = `id, name, surname, gender, birthdate, address, email, mobile, password_hash, profile_photo`

// UserDirectory is the read-only view over user storage used for identity
// lookups. It never mutates records and never hashes anything.
type UserDirectory struct {
	db DB
}

// NewUserDirectory creates a UserDirectory backed by db.
func NewUserDirectory(db DB) *UserDirectory {
	return &UserDirectory{db: db}
}

// GetByID returns the user with the given id.
func (d *UserDirectory) GetByID(ctx context.Context, id string) (*User, error) {
	row := d.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail returns the user with the given login email.
func (d *UserDirectory) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := d.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// List returns all stored users. Ordering is storage-defined.
func (d *UserDirectory) List(ctx context.Context) ([]User, error) {
	rows, err := d.db.Query(ctx, `SELECT `+userColumns+` FROM users`)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list users", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		user, err := scanUserValues(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan user row", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to iterate users", err)
	}
	return users, nil
}

// ResolveSubject implements auth.SubjectResolver, mapping a verified token
// subject to the account it names.
func (d *UserDirectory) ResolveSubject(ctx context.Context, email string) (*auth.Identity, error) {
	user, err := d.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &auth.Identity{ID: user.ID, Email: user.Email}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	user, err := scanUserValues(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return user, nil
}

func scanUserValues(row rowScanner) (*User, error) {
	var user User
	var gender string
	var surname, address, profilePhoto sql.NullString
	var birthdate sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Name,
		&surname,
		&gender,
		&birthdate,
		&address,
		&user.Email,
		&user.Mobile,
		&user.PasswordHash,
		&profilePhoto,
	)
	if err != nil {
		return nil, err
	}

	user.Gender = Gender(gender)
	if surname.Valid {
		user.Surname = &surname.String
	}
	if birthdate.Valid {
		t := birthdate.Time
		user.Birthdate = &t
	}
	if address.Valid {
		user.Address = &address.String
	}
	if profilePhoto.Valid {
		user.ProfilePhoto = &profilePhoto.String
	}
	return &user, nil
}
