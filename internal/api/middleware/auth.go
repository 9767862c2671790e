package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
)

const (
	HeaderUserID         = "X-User-ID"
	HeaderOrganizationID = "X-Organization-ID"
	HeaderRole           = "X-Role"

	RoleAdmin = "admin"

	msgUnauthorized          = "требуется заголовок X-User-ID"
	msgInvalidOrganizationID = "некорректный заголовок X-Organization-ID"
	msgAdminOnly             = "доступно только администратору"
)

type principalKey struct{}

// Principal вызывающий пользователь, определённый по заголовкам шлюза
type Principal struct {
	UserID         int64
	OrganizationID int64 // 0, если пользователь действует не от организации
	IsAdmin        bool
}

// HasOrganization true, если запрос выполняется от имени организации
func (p Principal) HasOrganization() bool {
	return p.OrganizationID > 0
}

// Auth проверяет X-User-ID и кладёт Principal в контекст
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}

		p := Principal{
			UserID:  userID,
			IsAdmin: strings.EqualFold(r.Header.Get(HeaderRole), RoleAdmin),
		}

		if raw := r.Header.Get(HeaderOrganizationID); raw != "" {
			orgID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || orgID <= 0 {
				handlers.RespondBadRequest(w, msgInvalidOrganizationID)
				return
			}
			p.OrganizationID = orgID
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// RequireAdmin пропускает только администраторов; используется после Auth
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok || !p.IsAdmin {
			handlers.RespondForbidden(w, msgAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithPrincipal кладёт Principal в контекст
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext достаёт Principal из контекста
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
