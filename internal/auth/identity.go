package auth

import (
	"regexp"
	"strings"
	"time"
)

// Identity document parsing. The national identity number is 18 characters:
// chars 7-14 encode the birth date (yyyymmdd) and the parity of char 17
// encodes gender.
var (
	patientIDPattern  = regexp.MustCompile(`^\d{10}$`)
	doctorIDPattern   = regexp.MustCompile(`^\d{8}$`)
	apptIDPattern     = regexp.MustCompile(`^\d{12}$`)
	identityIDPattern = regexp.MustCompile(`^\d{17}[\dXx]$`)
	phonePattern      = regexp.MustCompile(`^1[3-9]\d{9}$`)
)

func IsValidPatientID(id string) bool { return patientIDPattern.MatchString(id) }
func IsValidDoctorID(id string) bool  { return doctorIDPattern.MatchString(id) }
func IsValidApptID(id string) bool    { return apptIDPattern.MatchString(id) }

// IsValidPhone accepts empty (phone is optional) or an 11-digit mobile number.
func IsValidPhone(phone string) bool {
	return phone == "" || phonePattern.MatchString(phone)
}

func IsValidIdentityID(id string) bool {
	if !identityIDPattern.MatchString(id) {
		return false
	}
	_, err := time.Parse("20060102", id[6:14])
	return err == nil
}

// BirthDateFromIdentity extracts the embedded birth date, or zero time if
// the identity number is malformed.
func BirthDateFromIdentity(id string) time.Time {
	if !IsValidIdentityID(id) {
		return time.Time{}
	}
	t, err := time.Parse("20060102", id[6:14])
	if err != nil {
		return time.Time{}
	}
	return t
}

// GenderFromIdentity returns "M" for odd 17th digits, "F" for even ones.
func GenderFromIdentity(id string) string {
	if !IsValidIdentityID(id) {
		return ""
	}
	if int(id[16]-'0')%2 == 1 {
		return "M"
	}
	return "F"
}

// AgeFromIdentity is the whole-year age as of now, -1 when unparseable.
func AgeFromIdentity(id string, now time.Time) int {
	birth := BirthDateFromIdentity(id)
	if birth.IsZero() {
		return -1
	}
	age := now.Year() - birth.Year()
	if now.YearDay() < birth.YearDay() {
		age--
	}
	return age
}

func NormalizeIdentityID(id string) string {
	return strings.ToUpper(id)
}
