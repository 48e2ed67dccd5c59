package contact

import "strings"

// Form is the per-session input state.
type Form struct {
	Fields  Fields  `json:"fields"`
	Touched Touched `json:"touched"`
	Errors  Errors  `json:"errors"`
}

type FormEventKind string

const (
	FormChange FormEventKind = "change"
	FormBlur   FormEventKind = "blur"
)

// FormEvent is a single input event coming from the page.
type FormEvent struct {
	Kind  FormEventKind
	Field Field
	Value string
}

// FieldError returns the resolved error for value, or "" when valid.
// Emptiness is checked before format.
func FieldError(field Field, value string, r Resolver) string {
	if strings.TrimSpace(value) == "" {
		return r.Resolve(RequiredKey(field))
	}
	if !Validate(field, value) {
		return r.Resolve(InvalidKey(field))
	}
	return ""
}

// ReduceForm applies ev to f. Errors are only recomputed for touched
// fields; the first blur marks the field touched and validates it once.
func ReduceForm(f Form, ev FormEvent, r Resolver) Form {
	switch ev.Kind {
	case FormChange:
		f.Fields.Set(ev.Field, ev.Value)
		if f.Touched.Get(ev.Field) {
			f.Errors.Set(ev.Field, FieldError(ev.Field, ev.Value, r))
		}
	case FormBlur:
		if !f.Touched.Get(ev.Field) {
			f.Touched.Set(ev.Field, true)
			f.Errors.Set(ev.Field, FieldError(ev.Field, f.Fields.Get(ev.Field), r))
		}
	}
	return f
}

// ValidateForm checks every field regardless of touched state and forces
// all fields touched when any of them fails. ok is true when the form can
// be sent.
func ValidateForm(f Form, r Resolver) (Form, bool) {
	var errs Errors
	for _, field := range AllFields {
		errs.Set(field, FieldError(field, f.Fields.Get(field), r))
	}
	if errs.Empty() {
		return f, true
	}
	f.Errors = errs
	f.Touched = Touched{Name: true, Email: true, Message: true}
	return f, false
}

// VisibleErrors keeps only the errors of touched fields.
func (f Form) VisibleErrors() Errors {
	var out Errors
	for _, field := range AllFields {
		if f.Touched.Get(field) {
			out.Set(field, f.Errors.Get(field))
		}
	}
	return out
}
