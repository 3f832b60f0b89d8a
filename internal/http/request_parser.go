package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"paytrack/internal/core"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// ViewParams holds the view selector and selected date of a dashboard request.
type ViewParams struct {
	View core.View
	Date core.Date
}

// ParseViewParams reads "view" and "date" from the query. A missing view is
// biweek and a missing date is today.
func ParseViewParams(query url.Values, today core.Date) (ViewParams, error) {
	view, err := core.ParseView(query.Get("view"))
	if err != nil {
		return ViewParams{}, err
	}
	date, err := ParseDateParam(query, "date", today)
	if err != nil {
		return ViewParams{}, err
	}
	return ViewParams{View: view, Date: date}, nil
}

// ParseDateParam reads a YYYY-MM-DD query value, falling back to def when
// the key is absent or blank.
func ParseDateParam(query url.Values, key string, def core.Date) (core.Date, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return def, nil
	}
	return core.ParseDate(v)
}

// requestError is a malformed request, reported as 400.
type requestError struct {
	msg string
	err error
}

func (e *requestError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *requestError) Unwrap() error { return e.err }

var errEmptyBody = &requestError{msg: "empty request body"}

// decodeJSON reads one JSON value from the body into v. Date and amount
// problems come back as validation errors; anything else as a request error.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		switch {
		case core.IsValidation(err):
			return err
		case errors.Is(err, core.ErrInvalidAmount):
			return &core.ValidationError{Field: "amount", Err: core.ErrInvalidAmount}
		case errors.Is(err, io.EOF):
			return errEmptyBody
		default:
			return &requestError{msg: "invalid request body", err: err}
		}
	}
	if dec.More() {
		return &requestError{msg: "invalid request body", err: fmt.Errorf("trailing data")}
	}
	return nil
}

// decodeOptionalJSON is decodeJSON for endpoints whose body may be absent.
// An empty body, chunked or not, leaves v untouched.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if err := decodeJSON(w, r, v); err != nil && !errors.Is(err, errEmptyBody) {
		return err
	}
	return nil
}

// sanitizeInput removes control characters except tab, newline and carriage
// return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
