package validate

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/ru"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	ru_translations "github.com/go-playground/validator/v10/translations/ru"
	"github.com/google/uuid"
)

var validate *validator.Validate

var uni *ut.UniversalTranslator

var (
	mu         sync.RWMutex
	translator ut.Translator
)

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})

	if err := validate.RegisterValidation("price", checkPrice); err != nil {
		panic(err)
	}

	uni = ut.New(en.New(), en.New(), ru.New())

	enTrans, _ := uni.GetTranslator("en")
	en_translations.RegisterDefaultTranslations(validate, enTrans)
	ruTrans, _ := uni.GetTranslator("ru")
	ru_translations.RegisterDefaultTranslations(validate, ruTrans)

	for locale, msgs := range messages {
		t, _ := uni.GetTranslator(locale)
		for key, text := range msgs {
			if err := t.Add(msgPrefix+key, text, true); err != nil {
				panic(fmt.Sprintf("registering message %s/%s: %v", locale, key, err))
			}
		}
	}

	translator = enTrans
}

// SetLocale switches the language of the messages produced by Check and Message.
func SetLocale(locale string) error {
	t, found := uni.GetTranslator(locale)
	if !found || t.Locale() != locale {
		return fmt.Errorf("unsupported locale %q", locale)
	}

	mu.Lock()
	translator = t
	mu.Unlock()
	return nil
}

func current() ut.Translator {
	mu.RLock()
	defer mu.RUnlock()
	return translator
}

// Message translates one of the keys of the messages table, e.g. "email.taken".
func Message(key string) string {
	msg, err := current().T(msgPrefix + key)
	if err != nil {
		return key
	}
	return msg
}

// FieldErrors maps a form field to the messages of the rules it failed.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, msg string) {
	for _, m := range fe[field] {
		if m == msg {
			return
		}
	}
	fe[field] = append(fe[field], msg)
}

// First returns the first message attached to field, if any.
func (fe FieldErrors) First(field string) string {
	if msgs := fe[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(fe[f], "; "))
	}
	return strings.Join(parts, ", ")
}

// AsFieldErrors reports whether err carries per-field validation messages.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Check runs the struct rules of val. A rejection is returned as FieldErrors.
func Check(val any) error {
	if err := validate.Struct(val); err != nil {

		verrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}

		if len(verrors) < 1 {
			return nil
		}

		t := current()
		fe := FieldErrors{}
		for _, ve := range verrors {
			fe.Add(ve.Field(), translate(t, ve))
		}
		return fe
	}

	return nil
}

func translate(t ut.Translator, fe validator.FieldError) string {
	if msg, err := t.T(msgPrefix + fe.Field() + "." + fe.Tag()); err == nil {
		return msg
	}
	if msg, err := t.T(msgPrefix + fe.Field()); err == nil {
		return msg
	}
	return fe.Translate(t)
}

// Plain decimals only: no exponents, hex or digit separators.
var numericRx = regexp.MustCompile(`^[+-]?([0-9]*\.)?[0-9]+$`)

func checkPrice(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if !numericRx.MatchString(s) {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return !math.IsInf(f, 0) && f >= 0
}

func GenerateID() string {
	return uuid.NewString()
}

func CheckID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("ID is not in its proper form")
	}
	return nil
}
