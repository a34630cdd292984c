package event

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// accepted layouts for Draft.DateTime; values without a zone are taken as UTC
var dateTimeLayouts = []string{
	draftDateTimeLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
}

func parseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date time %q", value)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("form"); name != "" {
			return name
		}
		return field.Name
	})
	// registrations only fail on programmer error (empty tag or nil func)
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("event_datetime", func(fl validator.FieldLevel) bool {
		_, err := parseDateTime(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("storable_text", func(fl validator.FieldLevel) bool {
		return storableText(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// storableText reports whether Postgres accepts s in a text column: valid UTF-8 without NUL.
func storableText(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}

// Validate checks the draft and, when it is acceptable, converts it into an Event carrying draft.Id.
// A storage-independent failure is reported only through the returned ValidationErrors.
func Validate(v *validator.Validate, draft Draft) (Event, ValidationErrors) {
	errs := ValidationErrors{}

	if err := v.Struct(draft); err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			errs["_"] = err.Error()
			return Event{}, errs
		}
		for _, fe := range fieldErrors {
			if _, seen := errs[fe.Field()]; !seen {
				errs[fe.Field()] = message(fe)
			}
		}
		return Event{}, errs
	}

	dateTime, err := parseDateTime(draft.DateTime)
	if err != nil {
		errs["dateTime"] = "Date and time is not a valid date and time."
		return Event{}, errs
	}
	// reminder_minutes is a 32-bit INTEGER column
	minutes, err := strconv.ParseInt(draft.ReminderMinutes, 10, 32)
	if err != nil {
		errs["reminderMinutes"] = "Reminder minutes is out of range."
		return Event{}, errs
	}

	return Event{
		Id:              draft.Id,
		Title:           draft.Title,
		DateTime:        dateTime,
		HasReminder:     draft.HasReminder,
		ReminderMinutes: int(minutes),
	}, nil
}

var fieldLabels = map[string]string{
	"title":           "Title",
	"dateTime":        "Date and time",
	"reminderMinutes": "Reminder minutes",
}

func message(fe validator.FieldError) string {
	label := fieldLabels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required.", label)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long.", label, fe.Param())
	case "storable_text":
		return fmt.Sprintf("%s contains invalid characters.", label)
	case "event_datetime":
		return fmt.Sprintf("%s is not a valid date and time.", label)
	case "number":
		return fmt.Sprintf("%s must be a whole number.", label)
	default:
		return fmt.Sprintf("%s is invalid.", label)
	}
}
