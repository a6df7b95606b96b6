package steps

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"quoteforge/models"
	"quoteforge/services/pricing"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\s\-().]{5,18}[0-9]$`)

var tagMessages = map[string]string{
	"required":      "is required",
	"email":         "must be a valid email address",
	"phone":         "must be a valid phone number",
	"url":           "must be a valid URL",
	"max":           "is too long",
	"gte":           "must not be negative",
	"gtefield":      "must not be lower than the minimum",
	"datetime":      "must be a date formatted as YYYY-MM-DD",
	"projecttype":   "is not a known project type",
	"industry":      "is not a known industry",
	"feature":       "is not a known feature",
	"integration":   "is not a known integration",
	"designtype":    "is not a known design type",
	"designstyle":   "is not a known design style",
	"priority":      "is not a known priority",
	"phase":         "is not a known project phase",
	"cadence":       "is not a known meeting cadence",
	"payment":       "is not a known payment preference",
	"contactmethod": "is not a known contact method",
	"contacttime":   "is not a known contact time",
}

func newValidator(catalog *pricing.Catalog) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	known := map[string]func(string) bool{
		"projecttype": func(s string) bool { _, ok := catalog.ProjectType(models.ProjectType(s)); return ok },
		"industry":    func(s string) bool { _, ok := catalog.Industry(models.Industry(s)); return ok },
		"feature":     func(s string) bool { _, ok := catalog.Feature(models.FeatureID(s)); return ok },
		"integration": func(s string) bool { _, ok := catalog.Integration(models.IntegrationID(s)); return ok },
		"designtype":  func(s string) bool { _, ok := catalog.DesignType(models.DesignType(s)); return ok },
		"priority":    func(s string) bool { _, ok := catalog.Priority(models.Priority(s)); return ok },
		"payment":     func(s string) bool { _, ok := catalog.Payment(models.PaymentPreference(s)); return ok },

		"designstyle":   func(s string) bool { return hasChoice(options.DesignStyles, s) },
		"phase":         func(s string) bool { return hasChoice(options.Phases, s) },
		"cadence":       func(s string) bool { return hasChoice(options.MeetingCadence, s) },
		"contactmethod": func(s string) bool { return hasChoice(options.ContactMethods, s) },
		"contacttime":   func(s string) bool { return hasChoice(options.ContactTimes, s) },
		"phone":         func(s string) bool { return phonePattern.MatchString(strings.TrimSpace(s)) },
	}
	for tag, fn := range known {
		fn := fn
		// Registration only fails for empty tags or nil funcs.
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String())
		})
	}
	return v
}

// translate flattens validator errors into json-path keyed messages.
func translate(err error) FieldErrors {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		key := fieldPath(fe.Namespace())
		if _, exists := out[key]; exists {
			continue
		}
		msg, ok := tagMessages[fe.Tag()]
		if !ok {
			msg = "is invalid"
		}
		out[key] = msg
	}
	return out
}

// fieldPath drops the form struct's name from a validator namespace,
// e.g. "contactForm.email" -> "email".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
