package window

import "errors"

var (
	errEmptyCoeffs      = errors.New("window coefficients must not be empty")
	errZeroEnergy       = errors.New("window has zero energy")
	errMismatchedLength = errors.New("samples and coefficients must have same length")
)
