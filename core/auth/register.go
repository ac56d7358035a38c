package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/irsalhamdi/course-shop/core/user"
	"github.com/irsalhamdi/course-shop/database"
	"github.com/irsalhamdi/course-shop/validate"
	"github.com/sirupsen/logrus"
)

type Registration struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"min=6,max=56,alphanum"`
	Confirm  string `form:"confirm" validate:"eqfield=Password"`
	Name     string `form:"name" validate:"min=3"`
}

func decodeRegistration(r *http.Request) Registration {
	return Registration{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: strings.TrimSpace(r.PostFormValue("password")),
		Confirm:  strings.TrimSpace(r.PostFormValue("confirm")),
		Name:     strings.TrimSpace(r.PostFormValue("name")),
	}
}

// Values is the form as it is re-rendered; passwords are never echoed back.
func (reg Registration) Values() map[string]string {
	return map[string]string{
		"email": reg.Email,
		"name":  reg.Name,
	}
}

// CheckRegistration applies the registration rules. On success the email of
// reg is normalized. The uniqueness lookup is best effort: when the store
// cannot answer the failure is logged and the unique index decides on insert.
func CheckRegistration(ctx context.Context, users user.Store, log logrus.FieldLogger, reg *Registration) (validate.FieldErrors, error) {
	fe := validate.FieldErrors{}
	if err := validate.Check(*reg); err != nil {
		var ok bool
		if fe, ok = validate.AsFieldErrors(err); !ok {
			return nil, err
		}
	}

	if fe.First("email") != "" {
		return fe, nil
	}

	email := validate.NormalizeEmail(reg.Email)
	_, err := users.FetchByEmail(ctx, email)
	switch {
	case err == nil:
		fe.Add("email", validate.Message("email.taken"))
	case errors.Is(err, database.ErrNotFound):
	default:
		log.WithError(err).Error("checking email uniqueness")
	}

	reg.Email = email
	return fe, nil
}
