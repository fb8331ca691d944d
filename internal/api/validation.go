package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"climbing-gym/belay/internal/auth"
	"climbing-gym/belay/internal/common"
	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/middleware"
	"climbing-gym/belay/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so the error location matches the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return services.NewValidationError("body", "Invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return services.NewValidationError(fe.Field(), validationMessage(fe))
		}
		return services.NewValidationError("body", err.Error())
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min", "gt":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date like %s", fe.Field(), fe.Param())
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// urlParamUint reads a positive integer chi URL parameter
func urlParamUint(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, services.NewValidationError(name, name+" must be a positive integer")
	}
	return uint(id), nil
}

// queryInt reads an optional integer query parameter, 0 when absent
func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, services.NewValidationError(name, name+" must be an integer")
	}
	return n, nil
}

func requireClaims(w http.ResponseWriter, r *http.Request) (auth.UserClaims, bool) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		common.RespondError(w, http.StatusUnauthorized, constants.GetErrorMessage(constants.ErrCodeUnauthorized), "")
		return nil, false
	}
	return claims, true
}

func requireGymContext(w http.ResponseWriter, r *http.Request) (services.GymContext, bool) {
	gymCtx := middleware.GetGymContext(r.Context())
	if gymCtx == nil {
		common.RespondError(w, http.StatusForbidden, constants.GetErrorMessage(constants.ErrCodeNoGymContext), "")
		return nil, false
	}
	return gymCtx, true
}
