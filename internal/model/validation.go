package model

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Field names as they appear on the wire.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldCompany   = "company"
	FieldJobTitle  = "jobTitle"
)

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Rule is one declarative check on a contact field.
type Rule struct {
	Field   string
	Message string
	Valid   func(string) bool
	value   func(ContactFields) string
}

// Rules is the contact rule set. The server applies it before every write,
// the client applies it before submitting.
var Rules = []Rule{
	{Field: FieldFirstName, Message: "First name is required", Valid: minLength(2), value: func(c ContactFields) string { return c.FirstName }},
	{Field: FieldLastName, Message: "Last name is required", Valid: minLength(2), value: func(c ContactFields) string { return c.LastName }},
	{Field: FieldEmail, Message: "Invalid email address", Valid: isEmail, value: func(c ContactFields) string { return c.Email }},
	{Field: FieldPhone, Message: "Phone number must be at least 10 digits", Valid: minLength(10), value: func(c ContactFields) string { return c.Phone }},
	{Field: FieldCompany, Message: "Company name is required", Valid: minLength(2), value: func(c ContactFields) string { return c.Company }},
	{Field: FieldJobTitle, Message: "Job title is required", Valid: minLength(2), value: func(c ContactFields) string { return c.JobTitle }},
}

// Validate checks the fields against Rules and returns a *ValidationError
// naming every offending field, or nil.
func (c ContactFields) Validate() error {
	var fields []FieldError
	for _, rule := range Rules {
		if !rule.Valid(rule.value(c)) {
			fields = append(fields, FieldError{Field: rule.Field, Message: rule.Message})
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func minLength(n int) func(string) bool {
	return func(s string) bool {
		return utf8.RuneCountInString(s) >= n
	}
}

// isEmail accepts a bare addr-spec only, display names and angle brackets are rejected.
func isEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return at > 0 && strings.Contains(s[at+1:], ".")
}
