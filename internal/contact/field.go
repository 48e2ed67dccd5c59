package contact

import (
	"errors"
	"fmt"
)

// Field names one of the three inputs of the contact form.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldMessage Field = "message"
)

// AllFields lists the form inputs in display order.
var AllFields = []Field{FieldName, FieldEmail, FieldMessage}

var ErrUnknownField = errors.New("unknown form field")

// ParseField maps a wire name onto a Field.
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldName, FieldEmail, FieldMessage:
		return Field(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// Fields holds the current value of every input.
type Fields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (f Fields) Get(field Field) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	case FieldMessage:
		return f.Message
	}
	return ""
}

func (f *Fields) Set(field Field, value string) {
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldMessage:
		f.Message = value
	}
}

// Touched records which inputs the visitor has left at least once.
type Touched struct {
	Name    bool `json:"name"`
	Email   bool `json:"email"`
	Message bool `json:"message"`
}

func (t Touched) Get(field Field) bool {
	switch field {
	case FieldName:
		return t.Name
	case FieldEmail:
		return t.Email
	case FieldMessage:
		return t.Message
	}
	return false
}

func (t *Touched) Set(field Field, touched bool) {
	switch field {
	case FieldName:
		t.Name = touched
	case FieldEmail:
		t.Email = touched
	case FieldMessage:
		t.Message = touched
	}
}

// Errors holds the resolved error text per input. Empty means valid.
type Errors struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Message string `json:"message,omitempty"`
}

func (e Errors) Get(field Field) string {
	switch field {
	case FieldName:
		return e.Name
	case FieldEmail:
		return e.Email
	case FieldMessage:
		return e.Message
	}
	return ""
}

func (e *Errors) Set(field Field, msg string) {
	switch field {
	case FieldName:
		e.Name = msg
	case FieldEmail:
		e.Email = msg
	case FieldMessage:
		e.Message = msg
	}
}

// Empty reports whether no input carries an error.
func (e Errors) Empty() bool {
	return e.Name == "" && e.Email == "" && e.Message == ""
}
