package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var echo = ResolverFunc(func(key string) string { return key })

func TestChangeOnUntouchedFieldLeavesErrorsEmpty(t *testing.T) {
	f := ReduceForm(Form{}, FormEvent{Kind: FormChange, Field: FieldEmail, Value: "nope"}, echo)

	assert.Equal(t, "nope", f.Fields.Email)
	assert.Empty(t, f.Errors.Email)
	assert.False(t, f.Touched.Email)
}

func TestFirstBlurTouchesAndValidates(t *testing.T) {
	f := ReduceForm(Form{}, FormEvent{Kind: FormChange, Field: FieldEmail, Value: "nope"}, echo)
	f = ReduceForm(f, FormEvent{Kind: FormBlur, Field: FieldEmail}, echo)

	assert.True(t, f.Touched.Email)
	assert.Equal(t, "errors.invalid_email", f.Errors.Email)
}

func TestSecondBlurDoesNotRevalidate(t *testing.T) {
	calls := 0
	counting := ResolverFunc(func(key string) string {
		calls++
		return key
	})

	f := ReduceForm(Form{}, FormEvent{Kind: FormBlur, Field: FieldName}, counting)
	assert.Equal(t, 1, calls)
	f = ReduceForm(f, FormEvent{Kind: FormBlur, Field: FieldName}, counting)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "errors.name", f.Errors.Name)
}

func TestTouchedFieldRevalidatesOnChange(t *testing.T) {
	f := ReduceForm(Form{}, FormEvent{Kind: FormBlur, Field: FieldName}, echo)
	assert.Equal(t, "errors.name", f.Errors.Name)

	f = ReduceForm(f, FormEvent{Kind: FormChange, Field: FieldName, Value: "J3"}, echo)
	assert.Equal(t, "errors.invalid_name", f.Errors.Name)

	f = ReduceForm(f, FormEvent{Kind: FormChange, Field: FieldName, Value: "Jean"}, echo)
	assert.Empty(t, f.Errors.Name)
}

func TestClearedTouchedFieldShowsRequired(t *testing.T) {
	f := ReduceForm(Form{}, FormEvent{Kind: FormChange, Field: FieldMessage, Value: "short"}, echo)
	f = ReduceForm(f, FormEvent{Kind: FormBlur, Field: FieldMessage}, echo)
	assert.Equal(t, "errors.invalid_message", f.Errors.Message)

	f = ReduceForm(f, FormEvent{Kind: FormChange, Field: FieldMessage, Value: "   "}, echo)
	assert.Equal(t, "errors.message", f.Errors.Message)
}

func TestReduceFormDoesNotMutateInput(t *testing.T) {
	before := Form{}
	_ = ReduceForm(before, FormEvent{Kind: FormChange, Field: FieldName, Value: "Jean"}, echo)
	assert.Equal(t, Form{}, before)
}

func TestValidateFormForcesTouched(t *testing.T) {
	in := Form{Fields: Fields{Name: "Jean Dupont", Email: "bad", Message: "this is long enough"}}

	out, ok := ValidateForm(in, echo)

	assert.False(t, ok)
	assert.Equal(t, Touched{Name: true, Email: true, Message: true}, out.Touched)
	assert.Equal(t, Errors{Email: "errors.invalid_email"}, out.Errors)
	assert.Equal(t, Errors{Email: "errors.invalid_email"}, out.VisibleErrors())
}

func TestValidateFormAllEmpty(t *testing.T) {
	out, ok := ValidateForm(Form{}, echo)

	assert.False(t, ok)
	assert.Equal(t, Errors{Name: "errors.name", Email: "errors.email", Message: "errors.message"}, out.Errors)
}

func TestValidateFormValid(t *testing.T) {
	in := Form{Fields: Fields{Name: "Jean Dupont", Email: "jean@example.com", Message: "Bonjour, je souhaite vous contacter."}}

	out, ok := ValidateForm(in, echo)

	assert.True(t, ok)
	assert.Equal(t, in, out)
}

func TestVisibleErrorsHidesUntouched(t *testing.T) {
	f := Form{
		Touched: Touched{Name: true},
		Errors:  Errors{Name: "n", Email: "e"},
	}
	assert.Equal(t, Errors{Name: "n"}, f.VisibleErrors())
}
