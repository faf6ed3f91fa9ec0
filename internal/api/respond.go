package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	apperrors "stylesync/internal/errors"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to its status. Server-side failures are logged with
// the underlying error, the client only sees the generic message.
func writeError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	httpErr := apperrors.FromError(err)
	if httpErr.Code >= http.StatusInternalServerError {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, httpErr.Code, map[string]string{"error": httpErr.Message})
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.ErrBadRequest("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return apperrors.ErrBadRequest(validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
	return "invalid request"
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ErrBadRequest(name + " must be a positive integer")
	}
	return id, nil
}
