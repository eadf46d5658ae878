package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidLoan       = errors.New("invalid loan")
	ErrEmptyPortfolio    = errors.New("empty portfolio")
	ErrDivisionUndefined = errors.New("division undefined")
	ErrDuplicateProject  = errors.New("duplicate project id")
	ErrInvalidGrid       = errors.New("invalid scenario grid")
)

// InvalidLoanError lists every loan rejected while building a portfolio.
type InvalidLoanError struct {
	ProjectIDs []string
}

func (e *InvalidLoanError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidLoan, strings.Join(e.ProjectIDs, ", "))
}

func (e *InvalidLoanError) Is(target error) bool {
	return target == ErrInvalidLoan
}
