package middleware

import (
	"net/http"
	"runtime/debug"

	"climbing-gym/belay/internal/common"
	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/logging"
)

// Recoverer turns a panicking handler into a 500 and logs the stack
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logging.Error("Handler panic",
					"request_id", GetRequestID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				common.RespondError(w, http.StatusInternalServerError, constants.GetErrorMessage(constants.ErrCodeInternal), "")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
