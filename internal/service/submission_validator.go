package service

import (
	"strconv"
	"strings"

	"ylc-be-svc/internal/models"
)

// SubmissionRequest is the normalized lead submission
type SubmissionRequest struct {
	Name        string
	Phone       string
	Email       string
	Service     string
	BudgetMin   int
	BudgetMax   int
	Description string
	Location    string
	Images      []models.StoredImage
}

// Form field names accepted by the validator
const (
	FieldName        = "name"
	FieldPhone       = "phone"
	FieldEmail       = "email"
	FieldService     = "service"
	FieldProjectType = "projectType"
	FieldBudgetMin   = "budget_min"
	FieldBudgetMax   = "budget_max"
	FieldDescription = "description"
	FieldLocation    = "location"
)

// ValidateSubmission trims and checks the raw form fields. Required fields are checked in the
// order name, phone, service, description, location and the first missing one is reported.
func ValidateSubmission(fields map[string]string) (*SubmissionRequest, error) {
	get := func(key string) string {
		return strings.TrimSpace(fields[key])
	}

	req := &SubmissionRequest{
		Name:        get(FieldName),
		Phone:       get(FieldPhone),
		Email:       get(FieldEmail),
		Service:     get(FieldService),
		Description: get(FieldDescription),
		Location:    get(FieldLocation),
		BudgetMin:   ParseBudget(fields[FieldBudgetMin]),
		BudgetMax:   ParseBudget(fields[FieldBudgetMax]),
	}

	// older form builds post projectType instead of service
	if req.Service == "" {
		req.Service = get(FieldProjectType)
	}

	required := []struct {
		field string
		value string
	}{
		{FieldName, req.Name},
		{FieldPhone, req.Phone},
		{FieldService, req.Service},
		{FieldDescription, req.Description},
		{FieldLocation, req.Location},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, &ValidationError{Field: r.field}
		}
	}

	return req, nil
}

// ParseBudget parses a budget amount. Whitespace, "$", "," and "_" are ignored.
// Empty, non-numeric and negative input yields 0; it never fails.
func ParseBudget(raw string) int {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '$', ',', '_', ' ', '\t':
			return -1
		}
		return r
	}, raw)
	if cleaned == "" {
		return 0
	}

	n, err := strconv.Atoi(cleaned)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
