package httpapi

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// SessionCookieName carries the anonymous session id that keys carts
// and orders. There is no login; the cookie is the whole identity.
const SessionCookieName = "storefront_session"

// Cookie lifetime matches the cart TTL in Mongo.
const sessionCookieMaxAge = 90 * 24 * 60 * 60

type contextKey string

const sessionIDKey contextKey = "session_id"

// SessionMiddleware reads the session cookie, issuing a fresh uuid
// (and Set-Cookie) when the request carries none.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := ""
		if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
			sessionID = cookie.Value
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   sessionCookieMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getSessionID(ctx context.Context) string {
	if sessionID, ok := ctx.Value(sessionIDKey).(string); ok {
		return sessionID
	}
	return ""
}
