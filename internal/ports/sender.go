package ports

import "context"

// TemplateMessage is one provider send: a template bound to a recipient,
// header media and body variables.
type TemplateMessage struct {
	// To is the recipient phone as E.164 digits without "+".
	To string

	// Template is the approved template name.
	Template string

	// Language is the template language code (e.g. "en").
	Language string

	// HeaderImageURL binds the template's image header, empty for none.
	HeaderImageURL string

	// BodyVariables substitute the template's numbered body placeholders,
	// in order.
	BodyVariables []string
}

// SendReceipt is the provider's acknowledgement of an accepted message.
type SendReceipt struct {
	// MessageID is the provider-assigned message identifier.
	MessageID string

	// HTTPCode is the HTTP status of the accepting response.
	HTTPCode int
}

// TemplateSender transmits a single templated message through the messaging
// provider. Implementations make exactly one provider call per Send; the
// retry policy lives in the application layer.
type TemplateSender interface {
	// Send issues one provider call. On failure the returned error should
	// carry the HTTP status when one was received, so the caller can
	// classify it for retry.
	Send(ctx context.Context, msg TemplateMessage) (SendReceipt, error)

	// Verify checks the provider credentials and sender identity.
	Verify(ctx context.Context) error
}
