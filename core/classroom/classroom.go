// Package classroom connects users to their Google Classroom account.
package classroom

import (
	"context"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/trezcool/shule/core"
)

const stateTTL = 10 * time.Minute

// ErrNotConnected is returned when the caller has no stored Google token.
var ErrNotConnected = errors.New("google classroom is not connected")

type (
	// Token is the OAuth token of one user.
	Token struct {
		core.Model
		UserID       int       `json:"user_id" gorm:"not null;uniqueIndex"`
		AccessToken  string    `json:"-" gorm:"not null"`
		RefreshToken string    `json:"-"`
		TokenType    string    `json:"-"`
		Expiry       time.Time `json:"expiry"`
	}

	Course struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		Section       string `json:"section"`
		Room          string `json:"room"`
		State         string `json:"state"`
		AlternateLink string `json:"alternate_link"`
	}

	Provider interface {
		AuthCodeURL(state string) string
		Exchange(ctx context.Context, code string) (*oauth2.Token, error)
		// ListCourses lists the courses of the token owner. It returns the token
		// when it was refreshed during the call.
		ListCourses(ctx context.Context, tok *oauth2.Token) ([]Course, *oauth2.Token, error)
	}

	TokenRepository interface {
		GetToken(ctx context.Context, userID int) (Token, error)
		SaveToken(ctx context.Context, tok Token) error
		DeleteToken(ctx context.Context, userID int) error
	}

	Service struct {
		provider Provider
		repo     TokenRepository
		secret   []byte
	}
)

func (Token) TableName() string { return "google_tokens" }

func (t Token) oauth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}

func NewService(provider Provider, repo TokenRepository, conf *core.Config) *Service {
	return &Service{provider: provider, repo: repo, secret: []byte(conf.SecretKey)}
}

// ConnectURL returns the consent page URL. Its state carries the signed id of the caller.
func (svc *Service) ConnectURL(caller core.Identity) (string, error) {
	now := core.Now()
	claims := jwt.StandardClaims{
		Subject:   strconv.Itoa(caller.UserID),
		Audience:  "google-classroom",
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(stateTTL).Unix(),
	}
	state, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing state")
	}
	return svc.provider.AuthCodeURL(state), nil
}

// Callback exchanges code for a token and stores it for the user named by state.
func (svc *Service) Callback(ctx context.Context, code, state string) (int, error) {
	userID, err := svc.parseState(state)
	if err != nil {
		return 0, err
	}
	if code == "" {
		return 0, core.NewValidationError(errors.New("missing code"), core.FieldError{Field: "code", Error: "this field is required"})
	}

	tok, err := svc.provider.Exchange(ctx, code)
	if err != nil {
		return 0, core.NewValidationError(err, core.FieldError{Field: "code", Error: "the authorization code was rejected"})
	}
	if err := svc.save(ctx, userID, tok); err != nil {
		return 0, err
	}
	return userID, nil
}

func (svc *Service) parseState(state string) (int, error) {
	claims := new(jwt.StandardClaims)
	_, err := jwt.ParseWithClaims(state, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return svc.secret, nil
	})
	if err == nil && !claims.VerifyAudience("google-classroom", true) {
		err = errors.New("invalid audience")
	}
	userID, convErr := strconv.Atoi(claims.Subject)
	if err != nil || convErr != nil || userID == 0 {
		return 0, core.NewValidationError(errors.New("invalid state"), core.FieldError{Field: "state", Error: "the state is invalid or expired"})
	}
	return userID, nil
}

// Connected reports whether the caller has a stored token.
func (svc *Service) Connected(ctx context.Context, caller core.Identity) (bool, error) {
	_, err := svc.repo.GetToken(ctx, caller.UserID)
	if core.IsNotFound(err) {
		return false, nil
	}
	return err == nil, errors.Wrap(err, "getting token")
}

// Courses lists the Google Classroom courses of the caller.
func (svc *Service) Courses(ctx context.Context, caller core.Identity) ([]Course, error) {
	stored, err := svc.repo.GetToken(ctx, caller.UserID)
	if core.IsNotFound(err) {
		return nil, core.NewValidationError(ErrNotConnected, core.FieldError{Field: "google", Error: ErrNotConnected.Error()})
	}
	if err != nil {
		return nil, errors.Wrap(err, "getting token")
	}

	courses, refreshed, err := svc.provider.ListCourses(ctx, stored.oauth2())
	if err != nil {
		return nil, errors.Wrap(err, "listing courses")
	}
	if refreshed != nil && refreshed.AccessToken != stored.AccessToken {
		if err := svc.save(ctx, caller.UserID, refreshed); err != nil {
			return nil, err
		}
	}
	if courses == nil {
		courses = []Course{}
	}
	return courses, nil
}

// Disconnect forgets the token of the caller.
func (svc *Service) Disconnect(ctx context.Context, caller core.Identity) error {
	err := svc.repo.DeleteToken(ctx, caller.UserID)
	if err != nil && !core.IsNotFound(err) {
		return errors.Wrap(err, "deleting token")
	}
	return nil
}

func (svc *Service) save(ctx context.Context, userID int, tok *oauth2.Token) error {
	rec := Token{
		UserID:       userID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry.UTC(),
	}
	// google only sends the refresh token on first consent
	if rec.RefreshToken == "" {
		if old, err := svc.repo.GetToken(ctx, userID); err == nil {
			rec.RefreshToken = old.RefreshToken
		}
	}
	return errors.Wrap(svc.repo.SaveToken(ctx, rec), "saving token")
}
