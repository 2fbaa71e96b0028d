package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/xhandler"
	log "github.com/sirupsen/logrus"
)

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// AuthenticatedFilter rejects requests without a logged in user with 401.
func AuthenticatedFilter() func(next xhandler.HandlerC) xhandler.HandlerC {
	return func(next xhandler.HandlerC) xhandler.HandlerC {
		return xhandler.HandlerFuncC(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFrom(ctx)
			if !ok {
				log.Error("Context without valid session")
				writeError(w, http.StatusInternalServerError, "Something went wrong")
				return
			}
			if _, ok := session.Values[SessionUserKey]; !ok {
				log.Debug("Handler: Is not loggedin")
				writeError(w, http.StatusUnauthorized, "Unauthorized: No session")
				return
			}
			next.ServeHTTPC(ctx, w, r)
		})
	}
}

// UnauthenticatedFilter rejects requests from a logged in user with 400.
func UnauthenticatedFilter() func(next xhandler.HandlerC) xhandler.HandlerC {
	return func(next xhandler.HandlerC) xhandler.HandlerC {
		return xhandler.HandlerFuncC(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFrom(ctx)
			if !ok {
				log.Error("Context without valid session")
				writeError(w, http.StatusInternalServerError, "Something went wrong")
				return
			}
			if _, ok := session.Values[SessionUserKey]; ok {
				log.Debug("Handler: Is loggedin")
				writeError(w, http.StatusBadRequest, "Already logged in")
				return
			}
			next.ServeHTTPC(ctx, w, r)
		})
	}
}

// UserContext copies the session's user id into the request context.
func UserContext() func(next xhandler.HandlerC) xhandler.HandlerC {
	return func(next xhandler.HandlerC) xhandler.HandlerC {
		return xhandler.HandlerFuncC(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFrom(ctx)
			if !ok {
				log.Error("Context without valid session")
				writeError(w, http.StatusInternalServerError, "Something went wrong")
				return
			}
			user, ok := session.Values[SessionUserKey].(string)
			if !ok {
				log.Error("Session without valid user")
				writeError(w, http.StatusUnauthorized, "Unauthorized: No session")
				return
			}
			next.ServeHTTPC(WithUserID(ctx, user), w, r)
		})
	}
}
