package validation

import (
	"errors"
	"strings"
	"testing"
)

type line struct {
	Name     string   `json:"name" validate:"notblank,max=10"`
	Quantity *float64 `json:"quantity" validate:"omitempty,gte=0"`
}

type payload struct {
	Title    string `json:"title" validate:"required,notblank"`
	Portions int    `json:"number_of_portions" validate:"gt=0"`
	Lines    []line `json:"lines" validate:"dive"`
	Internal string `json:"-"`
}

func TestStructAcceptsValidPayload(t *testing.T) {
	t.Parallel()

	q := 2.0
	p := payload{Title: "Soup", Portions: 2, Lines: []line{{Name: "leek", Quantity: &q}, {Name: "salt"}}}
	if err := Struct(p); err != nil {
		t.Fatalf("Struct() error = %v", err)
	}
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	t.Parallel()

	q := -1.0
	p := payload{Title: "   ", Portions: 0, Lines: []line{{Name: "", Quantity: &q}}}

	err := Struct(p)
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("Struct() error = %v, want *Error", err)
	}

	got := map[string]string{}
	for _, f := range verr.Fields {
		got[f.Field] = f.Message
	}
	want := map[string]string{
		"title":              "is required",
		"number_of_portions": "must be greater than 0",
		"lines[0].name":      "is required",
		"lines[0].quantity":  "must be at least 0",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Fatalf("field %q message = %q, want %q (all: %v)", field, got[field], msg, got)
		}
	}
	if !strings.Contains(verr.Error(), "number_of_portions: must be greater than 0") {
		t.Fatalf("Error() = %q", verr.Error())
	}
}

func TestMaxLengthMessage(t *testing.T) {
	t.Parallel()

	err := Struct(payload{Title: "x", Portions: 1, Lines: []line{{Name: "much too long name"}}})
	var verr *Error
	if !errors.As(err, &verr) || len(verr.Fields) != 1 {
		t.Fatalf("Struct() error = %v", err)
	}
	if verr.Fields[0].Message != "must be at most 10 characters" {
		t.Fatalf("message = %q", verr.Fields[0].Message)
	}
}
