package main

import (
	"net/http"
	"strings"

	"trackhouse/internal/app/catalog"
	"trackhouse/internal/app/favorites"
	"trackhouse/internal/app/playlists"
	"trackhouse/internal/app/stats"
	"trackhouse/internal/app/users"
	"trackhouse/internal/httpapi"
	"trackhouse/internal/identity"
	"trackhouse/internal/logging"
	"trackhouse/internal/store"
)

func newHTTPHandler(cfg Config, dataStore *store.Store) http.Handler {
	userSvc := users.New(dataStore)
	catalogSvc := catalog.New(dataStore)
	playlistSvc := playlists.New(dataStore)
	favoritesSvc := favorites.New(dataStore)
	statsSvc := stats.New(dataStore)

	resolver := identity.NewResolver(cfg.IdentitySecret)

	api := httpapi.New(userSvc, catalogSvc, playlistSvc, favoritesSvc, statsSvc, resolver)

	handler := logging.RequestLogging(api.Routes())
	handler = logging.Recovery(handler)
	return withCORS(cfg.AllowedOrigins, handler)
}

func withCORS(allowedOrigins []string, next http.Handler) http.Handler {
	originAllowed := func(origin string) bool {
		if len(allowedOrigins) == 0 || origin == "" {
			return false
		}
		for _, o := range allowedOrigins {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization, X-Identity")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
