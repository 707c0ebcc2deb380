package planexport

import (
	"errors"
	"fmt"

	"github.com/aerissecure/planexport/plan"
)

var (
	// ErrInvalidPlanShape is returned when the plan is missing week metadata.
	// It is the same value as plan.ErrInvalidPlanShape.
	ErrInvalidPlanShape = plan.ErrInvalidPlanShape

	// ErrRenderFailed is matched by every RenderError.
	ErrRenderFailed = errors.New("render failed")

	ErrUnknownFormat = errors.New("unknown export format")
)

// RenderError reports a failure while drawing or writing a document. No
// bytes are returned alongside it.
type RenderError struct {
	Format Format
	Stage  string
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%s (%s, %s): %v", ErrRenderFailed, e.Format, e.Stage, e.Err)
}

func (e *RenderError) Is(target error) bool { return target == ErrRenderFailed }

func (e *RenderError) Unwrap() error { return e.Err }
