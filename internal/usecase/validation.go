package usecase

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func joinValidation(errs []ValidationError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Field + " (" + e.Message + ")"
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func ValidateCaptureLeadInput(input CaptureLeadInput) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateContact(input.Name, input.Phone, input.Email)...)

	if strings.TrimSpace(input.UserSlug) == "" {
		errors = append(errors, ValidationError{"userSlug", "is required"})
	}

	return errors
}

func ValidateCreateLeadInput(input CreateLeadInput) []ValidationError {
	errors := validateContact(input.Name, input.Phone, input.Email)

	if input.Status != "" {
		if _, err := entity.ParseStatus(input.Status); err != nil {
			errors = append(errors, ValidationError{"status", "is invalid"})
		}
	}

	return errors
}

const maxNameLength = 200

var nameTooLong = ValidationError{"name", fmt.Sprintf("must not exceed %d characters", maxNameLength)}

func validateContact(name, phone, email string) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len(name) > maxNameLength {
		errors = append(errors, nameTooLong)
	}

	if strings.TrimSpace(phone) == "" {
		errors = append(errors, ValidationError{"phone", "is required"})
	} else if !entity.IsValidPhone(phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	if strings.TrimSpace(email) != "" && !isValidEmail(email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	return errors
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(strings.TrimSpace(email))
	return err == nil
}

// parseAmount aceita "1500.50", "1500,50", "1.500,50" ou "1,500.50". Com os
// dois separadores, o último é o decimal e o outro agrupa milhares. Valor
// negativo é rejeitado.
func parseAmount(raw string) (decimal.Decimal, error) {
	s, ok := normalizeAmount(strings.TrimSpace(raw))
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%q is not a number", raw)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%q is not a number", raw)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, entity.ErrNegativeAmount
	}
	return d, nil
}

func normalizeAmount(s string) (string, bool) {
	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case comma < 0:
		return s, true
	case dot < 0:
		if strings.Count(s, ",") > 1 {
			return "", false
		}
		return strings.Replace(s, ",", ".", 1), true
	}

	decimalSep, groupSep := ",", "."
	if dot > comma {
		decimalSep, groupSep = ".", ","
	}
	i := strings.LastIndex(s, decimalSep)
	intPart, frac := s[:i], s[i+1:]
	if strings.Contains(frac, groupSep) || strings.Contains(intPart, decimalSep) {
		return "", false
	}

	groups := strings.Split(strings.TrimPrefix(intPart, "-"), groupSep)
	for n, g := range groups {
		if (n == 0 && (len(g) < 1 || len(g) > 3)) || (n > 0 && len(g) != 3) {
			return "", false
		}
	}
	return strings.ReplaceAll(intPart, groupSep, "") + "." + frac, true
}

// parseAppointment aceita RFC3339, ou data (YYYY-MM-DD) com hora opcional
// (HH:MM) interpretada no fuso configurado.
func parseAppointment(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)

	if t, err := time.Parse(time.RFC3339, date); err == nil {
		if clock != "" {
			return time.Time{}, fmt.Errorf("appointmentTime cannot be combined with a full timestamp")
		}
		return t, nil
	}

	d, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q must be RFC3339 or YYYY-MM-DD", date)
	}
	if clock == "" {
		return d, nil
	}

	c, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q must be HH:MM", clock)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, loc), nil
}
