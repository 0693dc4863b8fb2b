package apierror

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the canonical response body: {"status", "message"} plus an
// optional soft warning, validation field errors, and a payload.
type Envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Warning string            `json:"warning,omitempty"`
	Kind    Kind              `json:"kind,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Data    any               `json:"data,omitempty"`
}

// New builds an error envelope with the given message.
func New(msg string) Envelope {
	return Envelope{Status: StatusError, Message: msg}
}

// NewValidation wraps multiple field errors.
func NewValidation(fields map[string]string) Envelope {
	return Envelope{Status: StatusError, Message: "validation failed", Kind: KindValidation, Fields: fields}
}

// Success builds a success envelope. warning is omitted when empty.
func Success(msg string, data any, warning string) Envelope {
	return Envelope{Status: StatusSuccess, Message: msg, Data: data, Warning: warning}
}

// FromError builds the error envelope for err. Store errors get a generic
// message; their cause is logged by the caller, not returned.
func FromError(err error) (int, Envelope) {
	kind := KindOf(err)
	status := HTTPStatus(kind)
	if kind == KindStore {
		return status, Envelope{Status: StatusError, Message: "internal server error", Kind: kind}
	}
	return status, Envelope{Status: StatusError, Message: err.Error(), Kind: kind}
}
