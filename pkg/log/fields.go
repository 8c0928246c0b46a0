package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor
	FieldUserID   = "user_id"
	FieldUsername = "username"

	// Service
	FieldService  = "service"
	FieldInstance = "instance_id"

	// Realtime
	FieldClientID  = "client_id"
	FieldEvent     = "event"
	FieldRecipient = "recipient"
	FieldState     = "state"
)
