// Package identity signs users in through an external OAuth2 provider and
// keeps the signed-in user in the session cookie.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"team-timelog/internal/config"
	"team-timelog/internal/models"
)

// User is the identity the provider vouches for.
type User struct {
	ID    uuid.UUID
	Email string
}

type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (User, error)
}

// subjectNamespace scopes ids derived from non-uuid provider subjects.
var subjectNamespace = uuid.MustParse("6f1c2a52-6a4e-4d8e-9a43-7b1d0c3f5e21")

// OAuthProvider runs the authorization-code flow and reads the user from
// the provider's userinfo endpoint.
type OAuthProvider struct {
	conf        *oauth2.Config
	userInfoURL string
}

func NewOAuthProvider(cfg config.OAuth) *OAuthProvider {
	return &OAuthProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret.Value(),
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
			RedirectURL: cfg.RedirectURL,
			Scopes:      cfg.Scopes,
		},
		userInfoURL: cfg.UserInfoURL,
	}
}

func (p *OAuthProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

type userInfo struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
}

func (p *OAuthProvider) Exchange(ctx context.Context, code string) (User, error) {
	tok, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return User{}, &models.RemoteCallError{Op: "exchange code", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return User{}, err
	}
	resp, err := p.conf.Client(ctx, tok).Do(req)
	if err != nil {
		return User{}, &models.RemoteCallError{Op: "fetch userinfo", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return User{}, &models.RemoteCallError{Op: "fetch userinfo", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return User{}, fmt.Errorf("decoding userinfo: %w", err)
	}
	if info.Subject == "" || info.Email == "" {
		return User{}, fmt.Errorf("userinfo is missing sub or email")
	}
	return User{ID: subjectID(info.Subject), Email: strings.TrimSpace(info.Email)}, nil
}

// subjectID uses the subject directly when it is a uuid and derives a
// stable one otherwise.
func subjectID(sub string) uuid.UUID {
	if id, err := uuid.Parse(sub); err == nil {
		return id
	}
	return uuid.NewSHA1(subjectNamespace, []byte(sub))
}
