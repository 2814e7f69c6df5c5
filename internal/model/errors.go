package model

import (
	"fmt"

	"energyplanner/internal/apperr"
)

func invalidInputf(format string, args ...any) error {
	return apperr.New(apperr.InvalidInput, fmt.Sprintf(format, args...))
}

func invalidParamsf(format string, args ...any) error {
	return apperr.New(apperr.InvalidParameters, fmt.Sprintf(format, args...))
}
