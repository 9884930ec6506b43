package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/avolkovs/artefactreg/internal/common"
	"github.com/avolkovs/artefactreg/internal/dbx"
	"github.com/avolkovs/artefactreg/internal/server/auth"
	"github.com/avolkovs/artefactreg/internal/server/config"
	"github.com/avolkovs/artefactreg/internal/server/models"
	"github.com/avolkovs/artefactreg/internal/server/repositories/artefacts"
	"github.com/avolkovs/artefactreg/internal/server/repositories/associated"
	"github.com/avolkovs/artefactreg/internal/server/repositories/categories"
	"github.com/avolkovs/artefactreg/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- shared fakes ---

type fakeRepoManager struct {
	users      users.Repository
	categories categories.Repository
	associated associated.Repository
	artefacts  artefacts.Repository
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.users }
func (m *fakeRepoManager) Categories(dbx.DBTX) categories.Repository   { return m.categories }
func (m *fakeRepoManager) Associated(dbx.DBTX) associated.Repository   { return m.associated }
func (m *fakeRepoManager) Artefacts(dbx.DBTX) artefacts.Repository     { return m.artefacts }

type fakeUsersRepo struct {
	nextID int64
	byName map[string]*models.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byName: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if _, ok := f.byName[u.Username]; ok {
		return nil, common.ErrorAlreadyExists
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	cp := *u
	f.byName[u.Username] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok := f.byName[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BcryptCost = bcrypt.MinCost
	return cfg
}

// newUserService backs the service with an sqlmock handle so the sign-up
// transaction has something to begin and commit against; the repository
// calls themselves go to the fake.
func newUserService(t *testing.T, repo users.Repository) (*UserService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserService(db, &fakeRepoManager{users: repo}, testConfig()), mock
}

// --- tests ---

func TestSignUp_Success(t *testing.T) {
	s, mock := newUserService(t, newFakeUsersRepo())
	mock.ExpectBegin()
	mock.ExpectCommit()

	user, token, err := s.SignUp(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	require.NotNil(t, user)

	// password is stored hashed
	assert.NotEqual(t, "s3cret", user.PasswordHash)
	assert.NoError(t, auth.CheckPassword("s3cret", user.PasswordHash))

	// the issued token carries the identity
	claims, err := auth.ParseToken(token, []byte(testConfig().SecretKey))
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestSignUp_DuplicateUsername(t *testing.T) {
	repo := newFakeUsersRepo()
	s, mock := newUserService(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, _, err := s.SignUp(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	_, _, err = s.SignUp(context.Background(), "alice", "other")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignUp_EmptyFields(t *testing.T) {
	s, _ := newUserService(t, newFakeUsersRepo())

	_, _, err := s.SignUp(context.Background(), "", "s3cret")
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, _, err = s.SignUp(context.Background(), "alice", "")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestLogin_Success(t *testing.T) {
	repo := newFakeUsersRepo()
	s, mock := newUserService(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()

	_, _, err := s.SignUp(context.Background(), "bob", "hunter2")
	require.NoError(t, err)

	user, token, err := s.Login(context.Background(), "bob", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
	assert.NotEmpty(t, token)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUsersRepo()
	s, mock := newUserService(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()

	_, _, err := s.SignUp(context.Background(), "bob", "hunter2")
	require.NoError(t, err)

	_, _, err = s.Login(context.Background(), "bob", "wrong")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestLogin_UnknownUser(t *testing.T) {
	s, _ := newUserService(t, newFakeUsersRepo())

	_, _, err := s.Login(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
