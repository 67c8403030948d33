package gateway

// CredentialSource identifies where a resolved credential came from.
type CredentialSource string

const (
	SourceNone     CredentialSource = "none"
	SourceArgument CredentialSource = "argument" // explicit per-call argument
	SourceSession  CredentialSource = "session"  // per-connection header
	SourceFallback CredentialSource = "fallback" // process-wide config key
)

// Credential is an opaque upstream API key plus its source. The key is
// unexported so it cannot leak through %v formatting; use Key() at the
// single point where it is attached to an upstream request.
type Credential struct {
	key    string
	source CredentialSource
}

// ResolveCredential picks exactly one credential from the three precedence
// tiers: per-call argument, then per-connection header, then process
// fallback. The first non-empty value wins; lower tiers are never consulted
// once a higher one is present, even if it later proves invalid upstream.
func ResolveCredential(perCall, perSession, fallback string) Credential {
	switch {
	case perCall != "":
		return Credential{key: perCall, source: SourceArgument}
	case perSession != "":
		return Credential{key: perSession, source: SourceSession}
	case fallback != "":
		return Credential{key: fallback, source: SourceFallback}
	}
	return Credential{source: SourceNone}
}

// Present reports whether a credential was resolved.
func (c Credential) Present() bool {
	return c.key != ""
}

// Key returns the raw API key for upstream request construction.
func (c Credential) Key() string {
	return c.key
}

// Source returns the precedence tier the credential was resolved from.
func (c Credential) Source() CredentialSource {
	return c.source
}

// Preview returns a redacted form safe for logging.
func (c Credential) Preview() string {
	if c.key == "" {
		return "(none)"
	}
	if len(c.key) <= 4 {
		return "****"
	}
	return c.key[:4] + "****"
}
