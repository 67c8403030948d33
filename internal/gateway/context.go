package gateway

import "github.com/google/uuid"

// TransportKind identifies which shim a call arrived through.
type TransportKind string

const (
	TransportStream  TransportKind = "stream"  // MCP session
	TransportRequest TransportKind = "request" // REST request
)

// CallContext is the per-invocation state for one tool call. It is created
// by a transport shim, owned exclusively by that call's execution path, and
// discarded when the call completes. The credential is immutable for the
// lifetime of the call.
type CallContext struct {
	Credential    Credential
	Transport     TransportKind
	CorrelationID string
}

// NewCallContext creates a CallContext with a fresh correlation ID when the
// shim does not supply one.
func NewCallContext(transport TransportKind, cred Credential, correlationID string) CallContext {
	if correlationID == "" {
		correlationID = uuid.New().String()
	}
	return CallContext{
		Credential:    cred,
		Transport:     transport,
		CorrelationID: correlationID,
	}
}

// credentialArg is the reserved argument name carrying a per-call API key.
// It is stripped before validation so it never reaches the upstream request.
const credentialArg = "api_key"

// ExtractCallKey removes and returns the per-call credential argument from a
// raw argument map. Non-string values are discarded.
func ExtractCallKey(args map[string]interface{}) string {
	if args == nil {
		return ""
	}
	v, ok := args[credentialArg]
	if !ok {
		return ""
	}
	delete(args, credentialArg)
	key, _ := v.(string)
	return key
}
