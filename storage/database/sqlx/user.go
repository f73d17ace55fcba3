package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/equilibrar/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

// userRow mirrors the users table.
type userRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	Role         string         `db:"role"`
	IsActive     bool           `db:"is_active"`
	ProgramIDs   pq.StringArray `db:"program_ids"`
	PasswordHash null.Bytes     `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	LastLogin    null.Time      `db:"last_login"`
}

func (r userRow) user() user.User {
	return user.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Role:         r.Role,
		IsActive:     r.IsActive,
		ProgramIDs:   r.ProgramIDs,
		PasswordHash: r.PasswordHash.Bytes,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		LastLogin:    r.LastLogin.Time,
	}
}

func newUserRow(usr user.User) userRow {
	return userRow{
		ID:           usr.ID,
		Name:         usr.Name,
		Email:        usr.Email,
		Role:         usr.Role,
		IsActive:     usr.IsActive,
		ProgramIDs:   usr.ProgramIDs,
		PasswordHash: null.BytesFrom(usr.PasswordHash),
		CreatedAt:    usr.CreatedAt,
		UpdatedAt:    usr.UpdatedAt,
		LastLogin:    null.NewTime(usr.LastLogin, !usr.LastLogin.IsZero()),
	}
}

func rowsToUsers(rows []userRow) []user.User {
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.user())
	}
	return users
}

const userCols = "id, name, email, role, is_active, program_ids, password_hash, created_at, updated_at, last_login"

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	q := "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1"
	args := []interface{}{email}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, usr := range excludedUsers {
			ids = append(ids, usr.ID)
		}
		q += " AND NOT (id = ANY($2))"
		args = append(args, pq.Array(ids))
	}
	q += ")"

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, q, args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.ID == "" {
		usr.ID = uuid.New().String()
	}
	row := newUserRow(usr)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO users (id, name, email, role, is_active, program_ids, password_hash, created_at, updated_at)
		VALUES (:id, :name, :email, :role, :is_active, :program_ids, :password_hash, :created_at, :updated_at)`, row)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT "+userCols+" FROM users ORDER BY created_at"); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return rowsToUsers(rows), nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row, "SELECT "+userCols+" FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	} else if err != nil {
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return row.user(), nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row, "SELECT "+userCols+" FROM users WHERE email = $1", email)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	} else if err != nil {
		return user.User{}, errors.Wrap(err, "getting user by email")
	}
	return row.user(), nil
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	q := "SELECT " + userCols + " FROM users WHERE 1=1"
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Search != "" {
		p := arg("%" + strings.ToLower(filter.Search) + "%")
		q += " AND (LOWER(name) LIKE " + p + " OR LOWER(email) LIKE " + p + ")"
	}
	if len(filter.Roles) > 0 {
		q += " AND role = ANY(" + arg(pq.Array(filter.Roles)) + ")"
	}
	if filter.IsActive != nil {
		q += " AND is_active = " + arg(*filter.IsActive)
	}
	if !filter.CreatedFrom.IsZero() {
		q += " AND created_at >= " + arg(filter.CreatedFrom.UTC())
	}
	if !filter.CreatedTo.IsZero() {
		q += " AND created_at <= " + arg(filter.CreatedTo.UTC())
	}
	q += " ORDER BY created_at"

	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	return rowsToUsers(rows), nil
}

// UpdateUser merges the provided non-zero fields into the stored user.
func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	if usr.UpdatedAt.IsZero() {
		usr.UpdatedAt = time.Now().UTC()
	}
	var row userRow
	err := repo.db.GetContext(ctx, &row, `
		UPDATE users
		SET name          = COALESCE(NULLIF($2, ''), name),
		    email         = COALESCE(NULLIF($3, ''), email),
		    role          = COALESCE(NULLIF($4, ''), role),
		    is_active     = COALESCE($5, is_active),
		    program_ids   = COALESCE($6, program_ids),
		    password_hash = COALESCE($7, password_hash),
		    updated_at    = $8,
		    last_login    = COALESCE($9, last_login)
		WHERE id = $1
		RETURNING `+userCols,
		usr.ID, usr.Name, usr.Email, usr.Role, null.BoolFromPtr(isActive),
		pq.Array(usr.ProgramIDs), null.NewBytes(usr.PasswordHash, len(usr.PasswordHash) > 0),
		usr.UpdatedAt, null.NewTime(usr.LastLogin, !usr.LastLogin.IsZero()))
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	} else if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return row.user(), nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.db.ExecContext(ctx, "DELETE FROM users WHERE id = ANY($1)", pq.Array(ids))
	return errors.Wrap(err, "deleting users")
}

func (repo *userRepository) GetProfile(ctx context.Context, userID string) (user.Profile, error) {
	var prof user.Profile
	err := repo.db.GetContext(ctx, &prof,
		`SELECT user_id "userid", document_id "documentid", phone, isapre, insurance, address
		 FROM profiles WHERE user_id = $1`, userID)
	if err == sql.ErrNoRows {
		return user.Profile{}, user.ErrNotFound
	} else if err != nil {
		return user.Profile{}, errors.Wrap(err, "getting profile")
	}
	return prof, nil
}

func (repo *userRepository) UpsertProfile(ctx context.Context, prof user.Profile) (user.Profile, error) {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, document_id, phone, isapre, insurance, address)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET document_id = EXCLUDED.document_id, phone = EXCLUDED.phone, isapre = EXCLUDED.isapre,
		    insurance = EXCLUDED.insurance, address = EXCLUDED.address`,
		prof.UserID, prof.DocumentID, prof.Phone, prof.Isapre, prof.Insurance, prof.Address)
	if err != nil {
		return user.Profile{}, errors.Wrap(err, "upserting profile")
	}
	return prof, nil
}
