// Package mapper converts customer records between the wire shape the
// API speaks and the denormalized shape the list view renders. All
// functions are total: no input panics, malformed values degrade to
// sensible fallbacks.
package mapper

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mwasonga/customer-console/internal/models"
)

// AddressParts is the decomposed form of a single-line address.
type AddressParts struct {
	Address string
	City    string
	State   string
	Country string
}

// NameParts is the decomposed form of a full name.
type NameParts struct {
	FirstName string
	LastName  string
}

// PhoneParts is the decomposed form of a dialable phone number.
type PhoneParts struct {
	CountryCode string
	PhoneNumber string
}

// defaultCountryCode is a fixed business rule inherited from the
// upstream account system, not a real-world calling code.
const defaultCountryCode = "11"

// Matches a two-letter state code optionally followed by a ZIP group,
// e.g. "CA" or "CA 94103" or "NY 10001-2345".
var stateZipPattern = regexp.MustCompile(`^([A-Z]{2})(?:\s+\d{5}(?:-\d{4})?)?$`)

// ParseAddress splits a single-line address into its parts. Segments
// are comma-separated and trimmed. Missing segments stay empty and the
// country defaults to USA.
func ParseAddress(text string) AddressParts {
	parts := AddressParts{Country: models.DefaultCountry}

	if strings.TrimSpace(text) == "" {
		return parts
	}

	segments := strings.Split(text, ",")
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}

	parts.Address = segments[0]
	if len(segments) > 1 {
		parts.City = segments[1]
	}
	if len(segments) > 2 {
		parts.State = parseStateSegment(segments[2])
	}
	if len(segments) > 3 && segments[3] != "" {
		parts.Country = segments[3]
	}

	return parts
}

// parseStateSegment extracts the state from the third address segment.
// A recognized "XX" or "XX 12345" form yields the two-letter code with
// the ZIP discarded; anything else yields the segment's first token.
func parseStateSegment(segment string) string {
	if m := stateZipPattern.FindStringSubmatch(segment); m != nil {
		return m[1]
	}
	if fields := strings.Fields(segment); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// CombineAddress joins address parts back into a single line. The
// country is appended only when it differs from the USA default.
func CombineAddress(address, city, state, country string) string {
	segments := make([]string, 0, 4)
	for _, s := range []string{address, city, state} {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if country != "" && country != models.DefaultCountry {
		segments = append(segments, country)
	}
	return strings.Join(segments, ", ")
}

// SplitFullName splits a display name on whitespace runs. A single
// token becomes the first name; everything past the first token is
// rejoined as the last name.
func SplitFullName(name string) NameParts {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return NameParts{}
	case 1:
		return NameParts{FirstName: fields[0]}
	default:
		return NameParts{
			FirstName: fields[0],
			LastName:  strings.Join(fields[1:], " "),
		}
	}
}

// CombineFullName joins non-empty name parts with a single space.
func CombineFullName(first, last string) string {
	parts := make([]string, 0, 2)
	for _, s := range []string{first, last} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// ParsePhoneNumber decomposes a raw phone number into a country code
// and subscriber digits. Numbers without a leading "+" keep all their
// digits under the fixed default country code. A "+" followed by a
// single digit pads the country code with a trailing "1"; this is the
// upstream system's rule and is kept as-is.
func ParsePhoneNumber(raw string) PhoneParts {
	parts := PhoneParts{CountryCode: defaultCountryCode}

	if raw == "" {
		return parts
	}

	if !strings.HasPrefix(raw, "+") {
		parts.PhoneNumber = digitsOnly(raw)
		return parts
	}

	digits := digitsOnly(raw[1:])
	switch {
	case len(digits) >= 2:
		parts.CountryCode = digits[:2]
		parts.PhoneNumber = digits[2:]
	case len(digits) == 1:
		parts.CountryCode = digits + "1"
	}
	return parts
}

// FormatPhoneNumber renders a raw subscriber number for display.
// Exactly ten digits get the US presentation; anything else passes
// through verbatim.
func FormatPhoneNumber(digits string) string {
	if len(digits) != 10 || digitsOnly(digits) != digits {
		return digits
	}
	return fmt.Sprintf("+1 (%s) %s-%s", digits[:3], digits[3:6], digits[6:])
}

// AssemblePhoneNumber builds the wire form sent by the edit flow from
// separately edited country-code and subscriber fields.
func AssemblePhoneNumber(countryCode, digits string) string {
	return "+" + countryCode + digits
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripPhoneFormatting removes presentation characters from a display
// phone number without touching any other characters.
var phoneFormattingReplacer = strings.NewReplacer("+", "", " ", "", "-", "", "(", "", ")", "")

// DateFormatter renders a timestamp as a short human-readable date.
// Injected so the mapper stays testable without a live locale.
type DateFormatter func(time.Time) string

// ShortDate is the default date presentation, e.g. "Jan 15, 2024".
func ShortDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// Mapper converts between the wire and display shapes of a customer
// record. The zero value is not usable; construct with New.
type Mapper struct {
	formatDate DateFormatter
}

// New creates a Mapper. A nil formatter falls back to ShortDate.
func New(formatDate DateFormatter) *Mapper {
	if formatDate == nil {
		formatDate = ShortDate
	}
	return &Mapper{formatDate: formatDate}
}

// FromAPIFormat derives the display shape of a wire record. Optional
// wire fields default rather than error: country to USA, status to
// Active, unparsable timestamps to their raw string.
func (m *Mapper) FromAPIFormat(a models.CustomerAccount) DisplayRecord {
	country := a.Country
	if country == "" {
		country = models.DefaultCountry
	}

	status := a.Status
	if status == "" {
		status = "Active"
	}

	rec := DisplayRecord{
		ID:        a.Identity(),
		AccountID: a.AccountID,
		FullName:  CombineFullName(a.FirstName, a.LastName),
		Email:     a.Email,
		Phone:     FormatPhoneNumber(a.PhoneNumber),
		Address:   CombineAddress(a.Address, a.City, a.State, country),
		City:      a.City,
		Company:   a.Company,
		Status:    status,
		Balance:   a.Balance,
	}

	rec.AddressDisplay = joinNonEmpty(", ", a.Address, a.City)
	rec.DateCreated = m.displayDate(a.DateCreated, a.CreatedAt, a.Joined)
	return rec
}

// ToAPIFormat rebuilds the wire shape from form-edited display fields.
// The phone keeps its digits and any non-formatting characters; country
// code decomposition is the edit flow's concern, not this function's.
func (m *Mapper) ToAPIFormat(d DisplayRecord) models.CustomerAccount {
	name := SplitFullName(d.FullName)
	addr := ParseAddress(d.Address)

	return models.CustomerAccount{
		FirstName:   name.FirstName,
		LastName:    name.LastName,
		Email:       d.Email,
		PhoneNumber: phoneFormattingReplacer.Replace(d.Phone),
		Address:     addr.Address,
		City:        addr.City,
		State:       addr.State,
		Country:     addr.Country,
	}
}

// displayDate picks the first present timestamp field and renders it as
// a short date. Absent sources yield an empty string; a present but
// unparsable source falls back to the raw string.
func (m *Mapper) displayDate(sources ...string) string {
	for _, src := range sources {
		if src == "" {
			continue
		}
		t, err := parseTimestamp(src)
		if err != nil {
			return src
		}
		return m.formatDate(t)
	}
	return ""
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
