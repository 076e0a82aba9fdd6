package services

import (
	"errors"
	"testing"
)

func validInput() *ListingInput {
	return &ListingInput{
		Title:   "Sea View Flat",
		Persons: 2,
		Price:   500,
		Country: "EG",
		City:    "Cairo",
	}
}

func TestValidateListingAccepts(t *testing.T) {
	in := validInput()
	in.MediaLink = "https://example.com/tour"
	in.AvailableAt = "2026-10-01"
	if err := ValidateListing(in); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
}

func TestValidateListingFieldContracts(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ListingInput)
		field  string
	}{
		{"empty title", func(in *ListingInput) { in.Title = "" }, "title"},
		{"blank title", func(in *ListingInput) { in.Title = "   " }, "title"},
		{"zero persons", func(in *ListingInput) { in.Persons = 0 }, "persons"},
		{"negative persons", func(in *ListingInput) { in.Persons = -1 }, "persons"},
		{"negative price", func(in *ListingInput) { in.Price = -10 }, "price"},
		{"empty country", func(in *ListingInput) { in.Country = "" }, "country"},
		{"empty city", func(in *ListingInput) { in.City = "" }, "city"},
		{"bad media link", func(in *ListingInput) { in.MediaLink = "not a url" }, "mediaLink"},
		{"bad date", func(in *ListingInput) { in.AvailableAt = "October 1st" }, "availableAt"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(in)

			err := ValidateListing(in)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := vErr.Fields[tc.field]; !ok {
				t.Errorf("expected field %q to be named, got %v", tc.field, vErr.Fields)
			}
		})
	}
}

func TestValidateListingZeroPriceIsFine(t *testing.T) {
	in := validInput()
	in.Price = 0
	if err := ValidateListing(in); err != nil {
		t.Fatalf("price 0 must be allowed, got %v", err)
	}
}

func TestValidateListingNamesAllOffendingFields(t *testing.T) {
	in := &ListingInput{}
	err := ValidateListing(in)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"title", "persons", "country", "city"} {
		if _, ok := vErr.Fields[field]; !ok {
			t.Errorf("expected field %q to be named, got %v", field, vErr.Fields)
		}
	}
}

func TestParseAvailableAt(t *testing.T) {
	if got := ParseAvailableAt(""); got != nil {
		t.Errorf("empty input must parse to nil, got %v", got)
	}
	got := ParseAvailableAt("2026-10-01")
	if got == nil || got.Year() != 2026 || got.Month() != 10 || got.Day() != 1 {
		t.Errorf("unexpected parse result: %v", got)
	}
}
