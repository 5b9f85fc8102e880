package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/londonshop-backend/pkg/errors"
)

type addItemBody struct {
	Slug     string `json:"slug" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=1,lte=99"`
	Email    string `json:"email" validate:"omitempty,email"`
}

func postJSON(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	var dest addItemBody
	if err := DecodeJSONBody(postJSON(`{"slug":"mug-1","quantity":2}`+"\n"), &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Slug != "mug-1" || dest.Quantity != 2 {
		t.Fatalf("unexpected decode %+v", dest)
	}
}

func TestDecodeJSONBodyRejections(t *testing.T) {
	tests := map[string]string{
		"empty":         "",
		"whitespace":    "   ",
		"malformed":     `{"slug":`,
		"unknown field": `{"slug":"mug-1","quantity":1,"coupon":"X"}`,
		"trailing data": `{"slug":"mug-1","quantity":1}{"slug":"x"}`,
		"trailing junk": `{"slug":"mug-1","quantity":1} nope`,
		"too large":     `{"slug":"` + strings.Repeat("a", int(MaxBodyBytes)) + `","quantity":1}`,
		"missing field": `{"quantity":1}`,
		"out of range":  `{"slug":"mug-1","quantity":100}`,
		"invalid email": `{"slug":"mug-1","quantity":1,"email":"nope"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			var dest addItemBody
			err := DecodeJSONBody(postJSON(body), &dest)
			if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestDecodeJSONBodyFieldMessages(t *testing.T) {
	var dest addItemBody
	err := DecodeJSONBody(postJSON(`{"quantity":0,"email":"nope"}`), &dest)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %#v", typed.Details())
	}
	want := map[string]string{
		"slug":     "is required",
		"quantity": "must be 1 or more",
		"email":    "must be a valid email",
	}
	for field, msg := range want {
		if details[field] != msg {
			t.Fatalf("field %s: expected %q got %q", field, msg, details[field])
		}
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"trims", "  hoodie  ", 0, "hoodie"},
		{"drops control chars", "hoo\x00die\x07", 0, "hoodie"},
		{"tabs become spaces", "black\thoodie", 0, "black hoodie"},
		{"caps by rune", "café crème", 4, "café"},
		{"no trailing space after cap", "tote bag", 5, "tote"},
		{"short input untouched", "mug", 10, "mug"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeString(tc.input, tc.max); got != tc.want {
				t.Fatalf("expected %q got %q", tc.want, got)
			}
		})
	}
}
