package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"

	"github.com/bloomgram/auth-backend/internal/core/domain"
	"github.com/bloomgram/auth-backend/internal/repository"
)

func newMockRepo(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool returned error: %v", err)
	}
	t.Cleanup(mock.Close)

	repo := &UserRepository{
		exec:    mock,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}

	return repo, mock
}

func sampleUser() domain.User {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	return domain.User{
		ID:           "11111111-1111-1111-1111-111111111111",
		Email:        "carol@example.com",
		Username:     "carol",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestCreateMapsEmailConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), sampleUser())
	if !errors.Is(err, repository.ErrEmailTaken) {
		t.Fatalf("Create error = %v, want ErrEmailTaken", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateMapsUsernameConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	err := repo.Create(context.Background(), sampleUser())
	if !errors.Is(err, repository.ErrUsernameTaken) {
		t.Fatalf("Create error = %v, want ErrUsernameTaken", err)
	}
}

func TestCreateSucceeds(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), sampleUser()); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing-id")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("GetByID error = %v, want ErrNotFound", err)
	}
}

func TestGetByIDScansResetFields(t *testing.T) {
	repo, mock := newMockRepo(t)

	user := sampleUser()
	token := "some-reset-token"
	expires := time.Date(2025, 5, 1, 10, 30, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{
		"id", "email", "username", "password_hash",
		"reset_token", "reset_token_expires_at", "created_at", "updated_at",
	}).AddRow(
		user.ID, user.Email, user.Username, user.PasswordHash,
		token, &expires, user.CreatedAt, user.UpdatedAt,
	)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(user.ID).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.ResetToken == nil || *got.ResetToken != token {
		t.Fatal("reset token not scanned")
	}
	if got.ResetTokenExpiresAt == nil || !got.ResetTokenExpiresAt.Equal(expires) {
		t.Fatal("reset expiry not scanned")
	}
}

func TestGetByIdentifierMatchesUsernameOrEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	user := sampleUser()
	rows := pgxmock.NewRows([]string{
		"id", "email", "username", "password_hash",
		"reset_token", "reset_token_expires_at", "created_at", "updated_at",
	}).AddRow(
		user.ID, user.Email, user.Username, user.PasswordHash,
		nil, nil, user.CreatedAt, user.UpdatedAt,
	)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE \\(username = \\$1 OR email = \\$2\\)").
		WithArgs("carol", "carol").
		WillReturnRows(rows)

	got, err := repo.GetByIdentifier(context.Background(), "carol")
	if err != nil {
		t.Fatalf("GetByIdentifier returned error: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("GetByIdentifier id = %q, want %q", got.ID, user.ID)
	}
	if got.ResetToken != nil {
		t.Fatal("nil reset token scanned as non-nil")
	}
}

func TestSetResetTokenNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE users").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "missing-id").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetResetToken(context.Background(), "missing-id", "token", time.Now().UTC())
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("SetResetToken error = %v, want ErrNotFound", err)
	}
}

func TestConsumeResetClearsTokenInOneStatement(t *testing.T) {
	repo, mock := newMockRepo(t)

	changedAt := time.Date(2025, 5, 1, 11, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE users SET password_hash = \\$1, reset_token = \\$2, reset_token_expires_at = \\$3, updated_at = \\$4").
		WithArgs("new-hash", nil, nil, changedAt, "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.ConsumeReset(context.Background(), "user-1", "new-hash", changedAt); err != nil {
		t.Fatalf("ConsumeReset returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
