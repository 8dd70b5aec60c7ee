package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type app struct {
	*testutil.Env
	server *echoapi.Server

	admin, teacher, student  user.User
	adminToken, teacherToken string
	studentToken             string
}

// setup wires a test app. The options adjust the configuration before the server is built.
func setup(t *testing.T, opts ...func(conf *core.Config)) *app {
	env := testutil.Setup(t)
	for _, opt := range opts {
		opt(env.Conf)
	}
	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:       env.Conf,
		Logger:     testutil.NewLogger(t, env.Conf),
		Services:   env.Services,
		Validate:   env.Deps.Validate,
		Translator: env.Translator,
	})
	t.Cleanup(func() { _ = server.Close() })

	a := &app{Env: env, server: server}
	a.admin = testutil.CreateUser(t, env.DB, "Admin", "admin", "admin@test.cd", "Adm1n!pass", []string{user.RoleAdmin}, true)
	a.teacher = testutil.CreateUser(t, env.DB, "Teacher", "teacher", "teacher@test.cd", "T3acher!pass", []string{user.RoleTeacher}, true)
	a.student = testutil.CreateUser(t, env.DB, "Student", "student", "student@test.cd", "Stud3nt!pass", []string{user.RoleStudent}, true)
	a.adminToken = getToken(t, a, a.admin)
	a.teacherToken = getToken(t, a, a.teacher)
	a.studentToken = getToken(t, a, a.student)
	return a
}

// do serves one request and returns the recorder.
func (a *app) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.server.ServeHTTP(rec, req)
	return rec
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) *http.Request {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func newRequest(method, path string, data ...[]byte) *http.Request {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, a *app, usr user.User) string {
	token, err := echoapi.GenerateToken(a.Conf, echoapi.NewUserClaims(a.Conf, usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	if _, ok := j1.([]interface{}); !ok {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// run serves every case and checks its status and, when set, its exact body.
func (a *app) run(t *testing.T, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(newAuthRequest(tt.method, tt.path, tt.token, tt.body))
			checkCodeAndData(t, tt, rec)
		})
	}
}

// decode unmarshals the body of rec into v.
func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

// fields returns the keys of a JSON object body.
func fields(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var m map[string]interface{}
	decode(t, rec, &m)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func TestHome(t *testing.T) {
	a := setup(t)
	rec := a.do(newRequest(http.MethodGet, "/"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Shule API!", rec.Body.String())
}
