package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidTask  = errors.New("invalid task")
	ErrTaskNotFound = errors.New("task not found")
	ErrUserNotFound = errors.New("user not found")
)

var validate = validator.New()

// Credentials are the only inputs checked by a login
type Credentials struct {
	Email    string `validate:"required"`
	Password string `validate:"min=6"`
}

// Valid returns true if the credentials pass the login checks
func (c Credentials) Valid() bool {
	return validate.Struct(c) == nil
}

// Validate checks a new task's fields
func (in TaskInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}
	return nil
}

// Validate checks the fields a patch sets
func (p TaskPatch) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}
	return nil
}

// Percent returns part/total*100 rounded to one decimal, 0 when total is 0
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
