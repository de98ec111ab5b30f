package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/pkg/crypto"
)

// BasicAuth - middleware для защиты API паролем
//
// Симулятор однопользовательский, поэтому вместо JWT используется
// HTTP Basic Auth с одним паролем. Хеш пароля (bcrypt) приходит из
// конфигурации; имя пользователя не проверяется. Пустой хеш полностью
// отключает проверку - режим локальной разработки.
//
// Безопасность:
// - bcrypt сравнение устойчиво к timing attacks
// - 401 с WWW-Authenticate при отсутствии или неверных credentials
func BasicAuth(passwordHash string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if passwordHash == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, pass, ok := r.BasicAuth()
			if !ok || !crypto.CheckPasswordMatch(pass, passwordHash) {
				w.Header().Set("WWW-Authenticate", `Basic realm="Simulador API"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
