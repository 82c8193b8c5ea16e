package identity

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

const (
	SessionName = "timelog_session"

	keyUserID = "user_id"
	keyEmail  = "email"
	keyState  = "oauth_state"
	keyFlash  = "flash"
)

// NewSessionStore builds the cookie store. Signing and encryption keys are
// derived from secret so one setting covers both.
func NewSessionStore(secret string, secure bool) (sessions.Store, error) {
	authKey, err := deriveKey(secret, "session-auth", 32)
	if err != nil {
		return nil, err
	}
	encKey, err := deriveKey(secret, "session-enc", 32)
	if err != nil {
		return nil, err
	}

	store := cookie.NewStore(authKey, encKey)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

func deriveKey(secret, info string, n int) ([]byte, error) {
	key := make([]byte, n)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("deriving %s key: %w", info, err)
	}
	return key, nil
}

// CurrentUser returns the signed-in user, if any.
func CurrentUser(c *gin.Context) (User, bool) {
	sess := sessions.Default(c)
	raw, ok := sess.Get(keyUserID).(string)
	if !ok {
		return User{}, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return User{}, false
	}
	email, _ := sess.Get(keyEmail).(string)
	return User{ID: id, Email: email}, true
}

func SignIn(c *gin.Context, u User) error {
	sess := sessions.Default(c)
	sess.Delete(keyState)
	sess.Set(keyUserID, u.ID.String())
	sess.Set(keyEmail, u.Email)
	return sess.Save()
}

func SignOut(c *gin.Context) error {
	sess := sessions.Default(c)
	sess.Clear()
	return sess.Save()
}

// NewState creates and stores the anti-forgery state for a login attempt.
func NewState(c *gin.Context) (string, error) {
	state := uuid.NewString()
	sess := sessions.Default(c)
	sess.Set(keyState, state)
	return state, sess.Save()
}

// ConsumeState reports whether state matches the stored one. The stored
// state is single use; a failed save is returned as an error.
func ConsumeState(c *gin.Context, state string) (bool, error) {
	sess := sessions.Default(c)
	want, ok := sess.Get(keyState).(string)
	sess.Delete(keyState)
	if err := sess.Save(); err != nil {
		return false, fmt.Errorf("clearing login state: %w", err)
	}
	return ok && state != "" && want == state, nil
}

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

type Flash struct {
	Kind    string
	Message string
}

// AddFlash queues a toast for the next rendered page.
func AddFlash(c *gin.Context, kind, message string) error {
	sess := sessions.Default(c)
	sess.AddFlash(kind+"|"+message, keyFlash)
	if err := sess.Save(); err != nil {
		return fmt.Errorf("saving flash: %w", err)
	}
	return nil
}

// Flashes pops the queued toasts. The toasts are returned even when the
// session could not be saved, so a failed save may show them twice.
func Flashes(c *gin.Context) ([]Flash, error) {
	sess := sessions.Default(c)
	raw := sess.Flashes(keyFlash)
	if len(raw) == 0 {
		return nil, nil
	}
	saveErr := sess.Save()
	if saveErr != nil {
		saveErr = fmt.Errorf("popping flashes: %w", saveErr)
	}

	out := make([]Flash, 0, len(raw))
	for _, r := range raw {
		s, ok := r.(string)
		if !ok {
			continue
		}
		kind, msg, found := strings.Cut(s, "|")
		if !found {
			kind, msg = FlashSuccess, s
		}
		out = append(out, Flash{Kind: kind, Message: msg})
	}
	return out, saveErr
}
