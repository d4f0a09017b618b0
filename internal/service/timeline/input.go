package timeline

import (
	"slices"
	"strings"

	"github.com/siron93/moms-app/internal/domain"
)

// PageInput holds the parameters for one timeline page.
type PageInput struct {
	SubjectID string
	// Cursor is the opaque token from a previous page. Empty or corrupt
	// tokens start from the newest item.
	Cursor string
	// Limit is the page size; zero selects the configured default and
	// values above the maximum are clamped.
	Limit int
	// Kinds restricts the feed to some collections. Empty means all.
	Kinds []domain.Kind
}

// Validate checks all fields and collects all errors.
func (i PageInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.SubjectID) == "" {
		errs = append(errs, domain.FieldError{Field: "subject_id", Message: "required"})
	}
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be non-negative"})
	}
	for _, k := range i.Kinds {
		if !k.IsValid() {
			errs = append(errs, domain.FieldError{Field: "kinds", Message: "unknown kind " + string(k)})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (i PageInput) kinds() []domain.Kind {
	if len(i.Kinds) == 0 {
		return domain.AllKinds
	}
	out := slices.Clone(i.Kinds)
	slices.Sort(out)
	return slices.Compact(out)
}
