package contact

// Resolver turns a message key into visitor-facing text.
type Resolver interface {
	Resolve(key string) string
}

// ResolverFunc adapts a plain function to Resolver.
type ResolverFunc func(key string) string

func (f ResolverFunc) Resolve(key string) string {
	return f(key)
}

// Message keys looked up through the Resolver.
const (
	KeySubmissionSuccess = "form_submission_success"
	KeySubmissionError   = "form_submission_error"

	KeyButtonSend    = "contact.send"
	KeyButtonSending = "contact.sending"
	KeyButtonSuccess = "contact.success"
	KeyButtonError   = "contact.error"
)

// RequiredKey is the key shown when field is left empty.
func RequiredKey(field Field) string {
	return "errors." + string(field)
}

// InvalidKey is the key shown when field fails its format check.
func InvalidKey(field Field) string {
	return "errors.invalid_" + string(field)
}
