package classroom

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/trezcool/shule/core"
)

// fakeProvider hands out a refresh token on the first exchange only, like Google does.
type fakeProvider struct {
	exchanges int
	refreshTo string
	courses   []Course
}

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.google.test/auth?state=" + url.QueryEscape(state)
}

func (p *fakeProvider) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	if code == "bad" {
		return nil, errors.New("oauth2: invalid_grant")
	}
	p.exchanges++
	tok := &oauth2.Token{AccessToken: "access-" + code, TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)}
	if p.exchanges == 1 {
		tok.RefreshToken = "refresh-" + code
	}
	return tok, nil
}

func (p *fakeProvider) ListCourses(_ context.Context, tok *oauth2.Token) ([]Course, *oauth2.Token, error) {
	if p.refreshTo != "" {
		tok = &oauth2.Token{AccessToken: p.refreshTo, Expiry: time.Now().Add(time.Hour)}
	}
	return p.courses, tok, nil
}

type memTokens map[int]Token

func (m memTokens) GetToken(_ context.Context, userID int) (Token, error) {
	tok, ok := m[userID]
	if !ok {
		return Token{}, core.ErrNotFound
	}
	return tok, nil
}

func (m memTokens) SaveToken(_ context.Context, tok Token) error {
	m[tok.UserID] = tok
	return nil
}

func (m memTokens) DeleteToken(_ context.Context, userID int) error {
	if _, ok := m[userID]; !ok {
		return core.ErrNotFound
	}
	delete(m, userID)
	return nil
}

func stateOf(t *testing.T, rawURL string) string {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return u.Query().Get("state")
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr), "got %v", err)
	return vErr.Fields[0].Field
}

func TestService_Connect(t *testing.T) {
	conf := core.NewTestConfig()
	provider := &fakeProvider{}
	tokens := memTokens{}
	svc := NewService(provider, tokens, conf)
	ctx := context.Background()
	ada := core.Identity{UserID: 7}

	connectURL, err := svc.ConnectURL(ada)
	require.NoError(t, err)
	state := stateOf(t, connectURL)

	userID, err := svc.Callback(ctx, "first", state)
	require.NoError(t, err)
	assert.Equal(t, 7, userID)
	assert.Equal(t, "refresh-first", tokens[7].RefreshToken)

	// reconnecting without a new refresh token keeps the stored one
	_, err = svc.Callback(ctx, "second", state)
	require.NoError(t, err)
	assert.Equal(t, "access-second", tokens[7].AccessToken)
	assert.Equal(t, "refresh-first", tokens[7].RefreshToken)

	t.Run("bad code", func(t *testing.T) {
		_, err := svc.Callback(ctx, "bad", state)
		assert.Equal(t, "code", fieldOf(t, err))
	})

	t.Run("missing code", func(t *testing.T) {
		_, err := svc.Callback(ctx, "", state)
		assert.Equal(t, "code", fieldOf(t, err))
	})

	t.Run("expired state", func(t *testing.T) {
		core.NowFunc = func() time.Time { return time.Now().Add(-stateTTL - time.Minute) }
		old, err := svc.ConnectURL(ada)
		core.NowFunc = time.Now
		require.NoError(t, err)

		_, err = svc.Callback(ctx, "code", stateOf(t, old))
		assert.Equal(t, "state", fieldOf(t, err))
	})

	t.Run("forged state", func(t *testing.T) {
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
			Subject:   "7",
			Audience:  "google-classroom",
			ExpiresAt: time.Now().Add(time.Minute).Unix(),
		}).SignedString([]byte("not the secret"))
		require.NoError(t, err)
		_, err = svc.Callback(ctx, "code", forged)
		assert.Equal(t, "state", fieldOf(t, err))
	})

	t.Run("wrong audience", func(t *testing.T) {
		other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
			Subject:   "7",
			ExpiresAt: time.Now().Add(time.Minute).Unix(),
		}).SignedString([]byte(conf.SecretKey))
		require.NoError(t, err)
		_, err = svc.Callback(ctx, "code", other)
		assert.Equal(t, "state", fieldOf(t, err))
	})
}

func TestService_Courses(t *testing.T) {
	provider := &fakeProvider{courses: []Course{{ID: "1", Name: "Math 7A"}}}
	tokens := memTokens{}
	svc := NewService(provider, tokens, core.NewTestConfig())
	ctx := context.Background()
	ada := core.Identity{UserID: 7}

	connected, err := svc.Connected(ctx, ada)
	require.NoError(t, err)
	assert.False(t, connected)

	_, err = svc.Courses(ctx, ada)
	assert.Equal(t, "google", fieldOf(t, err))

	tokens[7] = Token{UserID: 7, AccessToken: "old", RefreshToken: "refresh"}
	connected, err = svc.Connected(ctx, ada)
	require.NoError(t, err)
	assert.True(t, connected)

	courses, err := svc.Courses(ctx, ada)
	require.NoError(t, err)
	assert.Equal(t, provider.courses, courses)

	// a token refreshed while listing is stored, keeping the refresh token
	provider.refreshTo = "new"
	provider.courses = nil
	courses, err = svc.Courses(ctx, ada)
	require.NoError(t, err)
	assert.Equal(t, []Course{}, courses)
	assert.Equal(t, "new", tokens[7].AccessToken)
	assert.Equal(t, "refresh", tokens[7].RefreshToken)

	require.NoError(t, svc.Disconnect(ctx, ada))
	require.NoError(t, svc.Disconnect(ctx, ada))
	connected, err = svc.Connected(ctx, ada)
	require.NoError(t, err)
	assert.False(t, connected)
}
