// Package gclassroom talks to the Google Classroom API.
package gclassroom

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gc "google.golang.org/api/classroom/v1"
	"google.golang.org/api/option"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/classroom"
)

const coursesPageSize = 100

type Provider struct {
	oauth *oauth2.Config
}

var _ classroom.Provider = (*Provider)(nil) // interface compliance check

func NewProvider(conf *core.Config) *Provider {
	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     conf.Google.ClientID,
			ClientSecret: conf.Google.ClientSecret,
			RedirectURL:  conf.Google.RedirectURL,
			Scopes: []string{
				gc.ClassroomCoursesReadonlyScope,
				gc.ClassroomRostersReadonlyScope,
			},
			Endpoint: google.Endpoint,
		},
	}
}

func (p *Provider) AuthCodeURL(state string) string {
	// offline access returns a refresh token on first consent
	return p.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

func (p *Provider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := p.oauth.Exchange(ctx, code)
	return tok, errors.Wrap(err, "exchanging code")
}

func (p *Provider) ListCourses(ctx context.Context, tok *oauth2.Token) ([]classroom.Course, *oauth2.Token, error) {
	ts := p.oauth.TokenSource(ctx, tok)
	svc, err := gc.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, nil, errors.Wrap(err, "creating classroom client")
	}

	var courses []classroom.Course
	err = svc.Courses.List().CourseStates("ACTIVE").PageSize(coursesPageSize).Pages(ctx, func(resp *gc.ListCoursesResponse) error {
		for _, c := range resp.Courses {
			courses = append(courses, classroom.Course{
				ID:            c.Id,
				Name:          c.Name,
				Section:       c.Section,
				Room:          c.Room,
				State:         c.CourseState,
				AlternateLink: c.AlternateLink,
			})
		}
		return nil
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "listing courses")
	}

	current, err := ts.Token()
	if err != nil {
		return courses, nil, nil
	}
	return courses, current, nil
}
