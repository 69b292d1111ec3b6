package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/foliolab/folio-server/internal/domain"
	"github.com/foliolab/folio-server/internal/logger"
)

// Severity classifies an item validation issue.
type Severity string

// Issue severities. Errors drop the item; warnings keep it and log.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding against a single item.
type Issue struct {
	ItemID   string   `json:"item_id,omitempty"`
	Field    string   `json:"field,omitempty"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Result pairs an item with its validation findings. The item is valid
// when no finding carries error severity.
type Result struct {
	Item   domain.PortfolioItem
	Issues []Issue
}

// Valid reports whether the item survives validation.
func (r *Result) Valid() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Report carries batch-wide integrity findings. These are informational
// and never reject individual items.
type Report struct {
	IsValid bool    `json:"is_valid"`
	Total   int     `json:"total"`
	Dropped int     `json:"dropped"`
	Issues  []Issue `json:"issues,omitempty"`
}

// itemRequired projects the fields whose absence drops an item.
type itemRequired struct {
	ID          string `json:"id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// ValidateItem applies the per-item rules and returns a Result rather
// than an error: callers partition into valid/invalid explicitly.
func (v *Validator) ValidateItem(item domain.PortfolioItem) Result {
	res := Result{Item: item}

	required := itemRequired{ID: item.ID, Title: item.Title, Description: item.Description}
	if err := v.v.Struct(required); err != nil {
		for field, msg := range requiredFieldErrors(err) {
			res.Issues = append(res.Issues, Issue{
				ItemID:   item.ID,
				Field:    field,
				Severity: SeverityError,
				Message:  field + " " + msg,
			})
		}
	}

	if !item.Category.IsKnown() {
		res.Issues = append(res.Issues, Issue{
			ItemID:   item.ID,
			Field:    "category",
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("unknown category %q, item retained", item.Category),
		})
	}

	if item.Category == domain.CategoryDevelop && len(item.Technologies) == 0 {
		res.Issues = append(res.Issues, Issue{
			ItemID:   item.ID,
			Field:    "technologies",
			Severity: SeverityWarning,
			Message:  "develop item has no recognized technologies, consider adding technology tags",
		})
	}

	if item.Thumbnail == "" {
		res.Issues = append(res.Issues, Issue{
			ItemID:   item.ID,
			Field:    "thumbnail",
			Severity: SeverityWarning,
			Message:  "missing thumbnail",
		})
	}

	return res
}

// ValidateItems validates a batch. Items failing a hard rule are
// dropped; warnings are logged and the item kept. The returned Report
// adds batch-wide integrity findings (duplicate IDs, missing-field
// counts) that never reject individual items.
func (v *Validator) ValidateItems(items []domain.PortfolioItem, log *logger.Logger) ([]domain.PortfolioItem, Report) {
	report := Report{IsValid: true, Total: len(items)}

	valid := make([]domain.PortfolioItem, 0, len(items))
	missingByField := make(map[string]int)
	for _, item := range items {
		res := v.ValidateItem(item)

		for _, issue := range res.Issues {
			switch issue.Severity {
			case SeverityError:
				missingByField[issue.Field]++
			case SeverityWarning:
				log.Warn("item validation warning",
					"id", issue.ItemID, "field", issue.Field, "message", issue.Message)
			}
		}

		if res.Valid() {
			valid = append(valid, item)
		} else {
			report.Dropped++
			log.Warn("dropping invalid item", "id", item.ID, "title", item.Title)
		}
	}

	for field, count := range missingByField {
		report.IsValid = false
		report.Issues = append(report.Issues, Issue{
			Field:    field,
			Severity: SeverityError,
			Message:  fmt.Sprintf("%d item(s) missing required field %s", count, field),
		})
	}

	// Duplicate IDs across the surviving batch.
	seen := make(map[string]int, len(valid))
	for _, item := range valid {
		seen[item.ID]++
	}
	for id, count := range seen {
		if count > 1 {
			report.IsValid = false
			report.Issues = append(report.Issues, Issue{
				ItemID:   id,
				Field:    "id",
				Severity: SeverityError,
				Message:  fmt.Sprintf("duplicate id %q appears %d times", id, count),
			})
		}
	}

	return valid, report
}

// requiredFieldErrors flattens validator errors into field -> message.
func requiredFieldErrors(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			fields[e.Field()] = constraintMessage(e)
		}
	}
	return fields
}
