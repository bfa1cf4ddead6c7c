package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const actorKey ctxKey = "actor"

// Actor identifica al miembro del staff que opera el mostrador.
type Actor struct {
	ID string
}

// ActorContext lee el header X-Staff-ID y deja el actor en el context.
// Si no viene header, el request sigue igual; los handlers loguean
// "anonymous". No hay verificación: el servicio corre dentro de la
// red de la guardería.
func ActorContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := strings.TrimSpace(r.Header.Get("X-Staff-ID")); id != "" {
				ctx := context.WithValue(r.Context(), actorKey, Actor{ID: id})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetActor(ctx context.Context) (Actor, bool) {
	v := ctx.Value(actorKey)
	if v == nil {
		return Actor{}, false
	}
	a, ok := v.(Actor)
	return a, ok
}
