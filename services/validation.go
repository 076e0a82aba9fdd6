package services

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"rental-units-server/models"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format for the optional availability date.
const DateLayout = "2006-01-02"

var validate = validator.New()

// ValidationError names the payload fields that failed their contract.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

// ListingInput is the payload shape shared by unit requests, direct unit
// creation and admin unit edits. A request approved through moderation is
// validated against the exact same contract before materialization.
type ListingInput struct {
	Title       string  `json:"title" validate:"required,max=256"`
	Details     string  `json:"details"`
	ImagePath   string  `json:"imagePath"`
	MediaLink   string  `json:"mediaLink"`
	Persons     int     `json:"persons" validate:"required,gte=1"`
	Price       float64 `json:"price" validate:"gte=0"`
	Negotiable  bool    `json:"negotiable"`
	Country     string  `json:"country" validate:"required"`
	City        string  `json:"city" validate:"required"`
	District    string  `json:"district"`
	Address     string  `json:"address"`
	AvailableAt string  `json:"availableAt"` // optional, YYYY-MM-DD
}

// ValidateListing checks the field-level listing contract and returns a
// *ValidationError naming every offending field.
func ValidateListing(in *ListingInput) error {
	fields := map[string]string{}

	if err := validate.Struct(in); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range errs {
				fields[strings.ToLower(fe.Field()[:1])+fe.Field()[1:]] = contractMessage(fe)
			}
		} else {
			return err
		}
	}

	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "title must not be empty"
	}
	if strings.TrimSpace(in.Country) == "" {
		fields["country"] = "country must not be empty"
	}
	if strings.TrimSpace(in.City) == "" {
		fields["city"] = "city must not be empty"
	}

	if in.MediaLink != "" {
		u, err := url.Parse(in.MediaLink)
		if err != nil || u.Scheme == "" || u.Host == "" {
			fields["mediaLink"] = "media link must be a valid URL"
		}
	}

	if in.AvailableAt != "" {
		if _, err := time.Parse(DateLayout, in.AvailableAt); err != nil {
			fields["availableAt"] = "availability date must be a valid YYYY-MM-DD date"
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func contractMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}

// ParseAvailableAt converts the optional wire date into a timestamp. Call
// ValidateListing first; a bad date here returns nil.
func ParseAvailableAt(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}

// ListingInputFromRequest rebuilds the shared payload shape from a stored
// request so the approval path runs the same checks as direct creation.
func ListingInputFromRequest(r *models.UnitRequest) *ListingInput {
	in := &ListingInput{
		Title:      r.Title,
		Details:    r.Details,
		ImagePath:  r.ImagePath,
		MediaLink:  r.MediaLink,
		Persons:    r.Persons,
		Price:      r.Price,
		Negotiable: r.Negotiable,
		Country:    r.Country,
		City:       r.City,
		District:   r.District,
		Address:    r.Address,
	}
	if r.AvailableAt != nil {
		in.AvailableAt = r.AvailableAt.Format(DateLayout)
	}
	return in
}
