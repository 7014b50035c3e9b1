// Package validation classifies single aggregate values as complete or not.
//
// Every function here is pure. An incomplete field is a query result, never an
// error.
package validation

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
)

const (
	minPhoneDigits = 9
	minTaxIDLength = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether s looks like local@domain.tld.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// IsValidPhone reports whether s carries at least nine digits.
func IsValidPhone(s string) bool {
	digits := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= minPhoneDigits
}

// IsComplete reports whether value, found at fieldPath, satisfies the
// completeness predicate for its semantic type.
func IsComplete(value any, fieldPath string) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return stringComplete(v, fieldPath)
	case models.Role:
		return stringComplete(string(v), fieldPath)
	case bool:
		return true
	case *bool:
		return v != nil
	case int:
		return v >= 0
	case *int:
		return v != nil && *v >= 0
	case float64:
		return v >= 0
	case *float64:
		return v != nil && *v >= 0
	case []models.BusinessLocation:
		return allOf(v, LocationComplete)
	case []models.Person:
		return allOf(v, PersonComplete)
	case []models.DynamicCard:
		return allOf(v, CardComplete)
	case models.Address:
		return AddressComplete(v)
	case *models.Address:
		return v != nil && AddressComplete(*v)
	case models.ContactPerson:
		return ContactPersonComplete(v)
	case models.Fees:
		return FeesComplete(v)
	case models.Consents:
		return ConsentsComplete(v)
	default:
		return hasAnyKey(reflect.ValueOf(value))
	}
}

// LocationComplete is the business-location predicate. Turnover and average
// transaction must be strictly positive here even though a freestanding
// numeric field only needs to be non-negative.
func LocationComplete(l models.BusinessLocation) bool {
	return nonEmpty(l.Name) &&
		AddressComplete(l.Address) &&
		ContactPersonComplete(l.ContactPerson) &&
		hasBankAccount(l.BankAccounts) &&
		nonEmpty(l.BusinessSubject) &&
		positive(l.MonthlyTurnover) &&
		positive(l.AverageTransaction)
}

// PersonComplete is the predicate for authorized persons and actual owners.
func PersonComplete(p models.Person) bool {
	return nonEmpty(p.FirstName) && nonEmpty(p.LastName) && IsValidEmail(p.Email)
}

// CardComplete requires a name, a positive count and a payload matching the
// card's discriminant.
func CardComplete(c models.DynamicCard) bool {
	base := nonEmpty(c.Name) && c.Count > 0
	return models.Match(c, models.CardMatcher[bool]{
		Device:  func(models.DynamicCard, models.DeviceSpec) bool { return base },
		Service: func(models.DynamicCard, models.ServiceSpec) bool { return base },
		Invalid: func(models.DynamicCard) bool { return false },
	})
}

func AddressComplete(a models.Address) bool {
	return nonEmpty(a.Street) && nonEmpty(a.City) && nonEmpty(a.Zip)
}

func ContactPersonComplete(p models.ContactPerson) bool {
	return nonEmpty(p.FirstName) && nonEmpty(p.LastName) && IsValidEmail(p.Email) && nonEmpty(p.Phone)
}

func FeesComplete(f models.Fees) bool {
	return f.RegulatedCards != nil && *f.RegulatedCards >= 0 &&
		f.UnregulatedCards != nil && *f.UnregulatedCards >= 0
}

// ConsentsComplete requires the terms and data-processing flags to be true.
func ConsentsComplete(c models.Consents) bool {
	return c.Terms != nil && *c.Terms && c.GDPR != nil && *c.GDPR
}

func stringComplete(s, fieldPath string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	name := strings.ToLower(lastSegment(fieldPath))
	switch {
	case strings.HasSuffix(name, "email"):
		return IsValidEmail(s)
	case strings.HasSuffix(name, "phone"):
		return IsValidPhone(s)
	case name == "ico" || name == "dic":
		return len(s) >= minTaxIDLength
	}
	return true
}

func allOf[T any](items []T, pred func(T) bool) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if !pred(item) {
			return false
		}
	}
	return true
}

func hasBankAccount(accounts []models.BankAccount) bool {
	for _, a := range accounts {
		if nonEmpty(a.IBAN) && nonEmpty(a.Currency) {
			return true
		}
	}
	return false
}

// hasAnyKey handles shapes without a dedicated rule: a map or struct needs at
// least one populated key, a list at least one element.
func hasAnyKey(v reflect.Value) bool {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice:
		return v.Len() > 0
	case reflect.Array:
		return !v.IsZero()
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() && !v.Field(i).IsZero() {
				return true
			}
		}
		return false
	case reflect.String:
		return strings.TrimSpace(v.String()) != ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() >= 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	case reflect.Float32, reflect.Float64:
		return v.Float() >= 0
	case reflect.Bool:
		return true
	}
	return false
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
}

func nonEmpty(s string) bool { return strings.TrimSpace(s) != "" }

func positive(v *float64) bool { return v != nil && *v > 0 }
