package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/user/accounts-go/apperror"
	"github.com/user/accounts-go/auth"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pgUniqueViolation = "23505"

// AccountService orchestrates account CRUD and credential verification. It
// owns the invariant that stored records never contain a plaintext password:
// every password entering the service goes through the hasher before any
// write, and error messages never echo credentials.
type AccountService struct {
	db     DB
	dir    *UserDirectory
	hasher *auth.PasswordHasher

	// dummyHash is compared against on the unknown-email login path so the
	// response time does not reveal whether the email exists.
	dummyHash string
}

// NewAccountService creates an AccountService.
func NewAccountService(db DB, dir *UserDirectory, hasher *auth.PasswordHasher) *AccountService {
	dummyHash, err := hasher.Hash("account-service-timing-pad")
	if err != nil {
		// bcrypt with the default cost cannot fail on a short static input.
		panic(fmt.Sprintf("failed to prepare dummy hash: %v", err))
	}
	return &AccountService{
		db:        db,
		dir:       dir,
		hasher:    hasher,
		dummyHash: dummyHash,
	}
}

// Create assigns a fresh id, hashes the password and persists the record
// inside a transaction. Duplicate email or mobile yields a conflict error and
// no partial write survives.
func (s *AccountService) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Surname:      optionalString(req.Surname),
		Gender:       req.Gender,
		Birthdate:    req.Birthdate,
		Address:      optionalString(req.Address),
		Email:        strings.ToLower(req.Email),
		Mobile:       req.Mobile,
		PasswordHash: passwordHash,
		ProfilePhoto: optionalString(req.ProfilePhoto),
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to begin transaction", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, name, surname, gender, birthdate, address, email, mobile, password_hash, profile_photo)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		user.ID, user.Name, user.Surname, string(user.Gender), user.Birthdate,
		user.Address, user.Email, user.Mobile, user.PasswordHash, user.ProfilePhoto,
	)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, conflictOrDatabaseError(err, "failed to create user")
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return user, nil
}

// Get returns the user with the given id.
func (s *AccountService) Get(ctx context.Context, id string) (*User, error) {
	return s.dir.GetByID(ctx, id)
}

// List returns all users.
func (s *AccountService) List(ctx context.Context) ([]User, error) {
	return s.dir.List(ctx)
}

// Update overwrites the stored values of the fields provided in req. Empty
// fields are left unchanged, so a value cannot be cleared through update. A
// non-empty password is hashed before storage.
func (s *AccountService) Update(ctx context.Context, id string, req *UpdateUserRequest) (*User, error) {
	var setClauses []string
	var args []any
	argID := 1

	addSet := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if req.Name != "" {
		addSet("name", req.Name)
	}
	if req.Surname != "" {
		addSet("surname", req.Surname)
	}
	if req.Gender != "" {
		addSet("gender", string(req.Gender))
	}
	if req.Birthdate != nil {
		addSet("birthdate", *req.Birthdate)
	}
	if req.Address != "" {
		addSet("address", req.Address)
	}
	if req.Email != "" {
		addSet("email", strings.ToLower(req.Email))
	}
	if req.Mobile != "" {
		addSet("mobile", req.Mobile)
	}
	if req.Password != "" {
		passwordHash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, apperror.NewInternalError("failed to hash password", err)
		}
		addSet("password_hash", passwordHash)
	}
	if req.ProfilePhoto != "" {
		addSet("profile_photo", req.ProfilePhoto)
	}

	if len(setClauses) == 0 {
		return s.dir.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argID, userColumns,
	)

	user, err := scanUserValues(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, conflictOrDatabaseError(err, "failed to update user")
	}
	return user, nil
}

// Delete removes the user with the given id. A missing id yields NotFound;
// deleting it again yields the same outcome, never an internal error.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("user not found", nil)
	}
	return nil
}

// Authenticate verifies a login credential pair. Unknown email and wrong
// password produce the identical error, and the unknown-email path still runs
// a hash comparison, so neither the response nor its timing discloses which
// check failed.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.dir.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if apperror.IsNotFound(err) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, apperror.NewAuthError("invalid email or password", nil)
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperror.NewAuthError("invalid email or password", nil)
	}
	return user, nil
}

func conflictOrDatabaseError(err error, fallback string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		switch {
		case strings.Contains(pgErr.ConstraintName, "email"):
			return apperror.NewConflictError("email already exists", nil)
		case strings.Contains(pgErr.ConstraintName, "mobile"):
			return apperror.NewConflictError("mobile already exists", nil)
		default:
			return apperror.NewConflictError("user already exists", nil)
		}
	}
	return apperror.NewDatabaseError(fallback, err)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
