package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

const (
	applicantNameField  = "name"
	applicantEmailField = "Email"
	dogNameField        = "Name-of-dog-interested-in-adopting"
)

var requiredApplicationFields = []string{applicantNameField, applicantEmailField, dogNameField}

// SubmissionField is one form field as received.
type SubmissionField struct {
	Name  string
	Value string
}

// Submission holds the form fields in the order they appeared in the
// request body.
type Submission []SubmissionField

// Value returns the value of the named field, or "" when it is absent.
func (s Submission) Value(name string) string {
	value, _ := s.lookup(name)
	return value
}

func (s Submission) lookup(name string) (string, bool) {
	for _, field := range s {
		if field.Name == name {
			return field.Value, true
		}
	}
	return "", false
}

// Missing lists the given field names that are absent or blank.
func (s Submission) Missing(names ...string) []string {
	var missing []string
	for _, name := range names {
		if value, ok := s.lookup(name); !ok || strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// set replaces the value of an existing field in place or appends a new one.
func (s Submission) set(name, value string) Submission {
	for i := range s {
		if s[i].Name == name {
			s[i].Value = value
			return s
		}
	}
	return append(s, SubmissionField{Name: name, Value: value})
}

// add appends value to an existing field, comma separated, keeping the
// position of the first occurrence.
func (s Submission) add(name, value string) Submission {
	for i := range s {
		if s[i].Name == name {
			s[i].Value += "," + value
			return s
		}
	}
	return append(s, SubmissionField{Name: name, Value: value})
}

func decodeSubmission(r *http.Request) (Submission, error) {
	mediaType, params, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded":
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, invalidSubmission(err)
		}
		return decodeFormSubmission(string(body))
	case "multipart/form-data":
		return decodeMultipartSubmission(r.Body, params["boundary"])
	default:
		return decodeJSONSubmission(r.Body)
	}
}

func decodeJSONSubmission(r io.Reader) (Submission, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return Submission{}, nil
	}
	if err != nil {
		return nil, invalidSubmission(err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, invalidSubmission(errors.New("submission must be a JSON object"))
	}

	sub := Submission{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, invalidSubmission(err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, invalidSubmission(fmt.Errorf("unexpected token %v", keyTok))
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, invalidSubmission(err)
		}
		sub = sub.set(key, jsonValueText(raw))
	}
	if _, err := dec.Token(); err != nil {
		return nil, invalidSubmission(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, invalidSubmission(err)
		}
		return nil, invalidSubmission(errors.New("unexpected data after submission object"))
	}
	return sub, nil
}

// jsonValueText returns strings unquoted and every other JSON value in its
// compact textual form.
func jsonValueText(raw json.RawMessage) string {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "null"
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}

func decodeFormSubmission(body string) (Submission, error) {
	sub := Submission{}
	for _, pair := range strings.Split(body, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, invalidSubmission(err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, invalidSubmission(err)
		}
		sub = sub.add(key, value)
	}
	return sub, nil
}

func decodeMultipartSubmission(body io.Reader, boundary string) (Submission, error) {
	if boundary == "" {
		return nil, invalidSubmission(errors.New("multipart boundary missing"))
	}
	reader := multipart.NewReader(body, boundary)
	sub := Submission{}
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return sub, nil
		}
		if err != nil {
			return nil, invalidSubmission(err)
		}
		name := part.FormName()
		if name == "" {
			_ = part.Close()
			continue
		}
		if filename := part.FileName(); filename != "" {
			sub = sub.add(name, filename)
			_ = part.Close()
			continue
		}
		value, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return nil, invalidSubmission(err)
		}
		sub = sub.add(name, string(value))
	}
}

func invalidSubmission(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return &apiError{Status: http.StatusRequestEntityTooLarge, Code: "submission_too_large", Message: "submission body too large"}
	}
	return &apiError{Status: http.StatusBadRequest, Code: "invalid_submission", Message: fmt.Sprintf("invalid submission: %v", err)}
}
