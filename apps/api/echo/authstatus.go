package echoapi

import (
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
)

type (
	AuthStatus struct {
		Authenticated bool             `json:"authenticated"`
		User          *AuthStatusUser  `json:"user"`
		Session       AuthSession      `json:"session"`
		Headers       AuthStatusHeader `json:"headers"`
	}

	AuthStatusUser struct {
		ID       int      `json:"id"`
		Name     string   `json:"name"`
		Username string   `json:"username"`
		Roles    []string `json:"roles"`
	}

	AuthSession struct {
		HasAuthorizationHeader bool     `json:"has_authorization_header"`
		HasBearerToken         bool     `json:"has_bearer_token"`
		TokenValid             bool     `json:"token_valid"`
		HasCookie              bool     `json:"has_cookie"`
		CookieNames            []string `json:"cookie_names"`
	}

	AuthStatusHeader struct {
		UserAgentPresent bool   `json:"user_agent_present"`
		Accept           string `json:"accept"`
	}
)

// authStatus reports how the request is authenticated, without echoing any credential.
func (s *Server) authStatus(ctx echo.Context) error {
	req := ctx.Request()
	status := AuthStatus{
		Session: AuthSession{CookieNames: []string{}},
		Headers: AuthStatusHeader{
			UserAgentPresent: req.UserAgent() != "",
			Accept:           req.Header.Get(echo.HeaderAccept),
		},
	}

	auth := req.Header.Get(echo.HeaderAuthorization)
	status.Session.HasAuthorizationHeader = auth != ""
	const bearer = "Bearer "
	if len(auth) > len(bearer) && strings.EqualFold(auth[:len(bearer)], bearer) {
		status.Session.HasBearerToken = true
		if claims, err := parseToken(s.deps.Conf, strings.TrimSpace(auth[len(bearer):])); err == nil {
			status.Session.TokenValid = true
			usr, err := s.deps.Services.Users.GetByID(req.Context(), claims.Identity().UserID)
			if err == nil && usr.IsActive {
				status.Authenticated = true
				status.User = &AuthStatusUser{
					ID:       usr.ID,
					Name:     usr.Name,
					Username: usr.Username,
					Roles:    usr.Roles,
				}
			}
		}
	}

	for _, c := range req.Cookies() {
		status.Session.CookieNames = append(status.Session.CookieNames, c.Name)
	}
	sort.Strings(status.Session.CookieNames)
	status.Session.HasCookie = len(status.Session.CookieNames) > 0

	return ctx.JSON(http.StatusOK, status)
}
