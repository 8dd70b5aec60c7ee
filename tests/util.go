// Package testutil prepares the databases, services and fixtures shared by the tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/trezcool/shule/apps/di"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/classroom"
	"github.com/trezcool/shule/core/user"
	blobsvc "github.com/trezcool/shule/services/blob"
	logsvc "github.com/trezcool/shule/services/logger"
	"github.com/trezcool/shule/storage/database"
	"github.com/trezcool/shule/storage/database/gormdb"
)

// NewLogger returns a quiet logger that never reports to Rollbar.
func NewLogger(t *testing.T, conf *core.Config) *logsvc.RollbarLogger {
	t.Helper()
	logger, err := logsvc.NewRollbarLogger("TEST", conf)
	require.NoError(t, err)
	logger.Enable(false)
	return logger
}

// PrepareDB opens a private in-memory sqlite database holding the full schema.
func PrepareDB(t *testing.T, conf *core.Config) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	// a single connection keeps the memory database alive and serializes the writers
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := database.OpenGorm(db, conf, NewLogger(t, conf))
	require.NoError(t, err)
	require.NoError(t, gormdb.AutoMigrate(gdb))
	return gdb
}

// Env is a wired test application.
type Env struct {
	Conf       *core.Config
	DB         *gorm.DB
	Translator ut.Translator
	Deps       di.Deps
	Services   *di.Services
	Blobs      afero.Fs
	Google     *FakeGoogle
}

// Setup wires every service over a fresh database, an in-memory blob store and a fake Google.
func Setup(t *testing.T) *Env {
	t.Helper()
	conf := core.NewTestConfig()
	gdb := PrepareDB(t, conf)

	env := &Env{
		Conf:       conf,
		DB:         gdb,
		Translator: di.NewTranslator(),
		Blobs:      afero.NewMemMapFs(),
		Google:     NewFakeGoogle(),
	}
	env.Deps = di.Deps{
		Conf:     conf,
		DB:       gdb,
		Validate: di.NewValidator(gdb, env.Translator),
		Blobs:    blobsvc.NewStore(env.Blobs, conf.Storage.PublicBaseURL),
		Google:   env.Google,
	}
	env.Services = di.NewServices(env.Deps)
	return env
}

// CreateUser stores a user as is, without going through the password policy.
func CreateUser(
	t *testing.T,
	db *gorm.DB,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := core.Now()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	if roles == nil {
		roles = []string{}
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	if err := gormdb.NewUserRepository(db).CreateUser(context.Background(), &usr); err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

// Create stores a fixture record, failing the test on error.
func Create(t *testing.T, db *gorm.DB, rec interface{}) {
	t.Helper()
	require.NoError(t, db.Create(rec).Error)
}

// FakeGoogle is a classroom.Provider that accepts every code but "bad".
type FakeGoogle struct {
	mu        sync.Mutex
	courses   []classroom.Course
	exchanged []string
}

var _ classroom.Provider = (*FakeGoogle)(nil) // interface compliance check

func NewFakeGoogle(courses ...classroom.Course) *FakeGoogle {
	return &FakeGoogle{courses: courses}
}

func (g *FakeGoogle) SetCourses(courses ...classroom.Course) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.courses = courses
}

// Exchanged returns the codes exchanged so far.
func (g *FakeGoogle) Exchanged() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.exchanged...)
}

func (g *FakeGoogle) AuthCodeURL(state string) string {
	return "https://accounts.google.test/o/oauth2/auth?state=" + url.QueryEscape(state)
}

func (g *FakeGoogle) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	if code == "bad" {
		return nil, errors.New("oauth2: invalid_grant")
	}
	g.mu.Lock()
	g.exchanged = append(g.exchanged, code)
	g.mu.Unlock()
	return &oauth2.Token{
		AccessToken:  "access-" + code,
		RefreshToken: "refresh-" + code,
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	}, nil
}

func (g *FakeGoogle) ListCourses(_ context.Context, tok *oauth2.Token) ([]classroom.Course, *oauth2.Token, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]classroom.Course(nil), g.courses...), tok, nil
}
