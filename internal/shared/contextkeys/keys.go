package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "gestion-personas context key " + string(c)
}

// RequestIDKey is the key for the per-request correlation id in context.Context
const RequestIDKey = contextKey("requestID")

// ComponentKey is the key for the name of the component handling the call
const ComponentKey = contextKey("component")

// OperationKey is the key for the command being executed (e.g. "add_person")
const OperationKey = contextKey("operation")

// PersonIDKey is the key for the person a command targets
const PersonIDKey = contextKey("personID")
