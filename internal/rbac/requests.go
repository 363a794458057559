package rbac

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CreateRoleRequest is the payload of a role creation.
type CreateRoleRequest struct {
	Name          string   `json:"name"          validate:"required,max=100"`
	DisplayName   string   `json:"displayName"   validate:"required,max=100"`
	Description   *string  `json:"description"   validate:"omitempty,max=255"`
	Color         *string  `json:"color"         validate:"omitempty,hexcolor"`
	PermissionIDs []string `json:"permissionIds" validate:"omitempty,dive,required,max=36"`
}

// UpdateRoleRequest is the payload of a role update.
// Nil fields are left unchanged. A non nil PermissionIDs replaces the permission set,
// an empty slice clears it.
type UpdateRoleRequest struct {
	ID            string    `json:"id"            validate:"required"`
	Name          *string   `json:"name"          validate:"omitempty,max=100"`
	DisplayName   *string   `json:"displayName"   validate:"omitempty,max=100"`
	Description   *string   `json:"description"   validate:"omitempty,max=255"`
	Color         *string   `json:"color"         validate:"omitempty,hexcolor"`
	PermissionIDs *[]string `json:"permissionIds" validate:"omitempty,dive,required,max=36"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// validationError turns a validator failure into a caller facing *Error.
func validationError(err error) *Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return newError(KindValidation, "Invalid request")
	}

	fe := verrs[0]

	switch {
	case fe.Field() == "id" && fe.Tag() == "required":
		return newError(KindValidation, MsgRoleIDRequired)
	case (fe.Field() == "name" || fe.Field() == "displayName") && fe.Tag() == "required":
		return newError(KindValidation, MsgNameRequired)
	case strings.HasPrefix(fe.Field(), "permissionIds") && fe.Tag() == "required":
		return newError(KindValidation, MsgEmptyPermissionID)
	case fe.Tag() == "hexcolor":
		return newError(KindValidation, "Invalid color: %q is not a hex color", fmt.Sprint(fe.Value()))
	case fe.Tag() == "max":
		return newError(KindValidation, "Invalid %s: at most %s characters allowed", fe.Field(), fe.Param())
	default:
		return newError(KindValidation, "Invalid %s", fe.Field())
	}
}
