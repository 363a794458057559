package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// APIPath is the prefix of every JSON endpoint.
	APIPath = "/api"

	// ErrNilDepsFatalLogMsg is used if app or one of the handler dependencies is nil.
	ErrNilDepsFatalLogMsg = "app or handler dependencies are nil"

	// MsgInvalidBody is returned when a request body is not valid JSON for the endpoint.
	MsgInvalidBody = "Invalid request body"
)
