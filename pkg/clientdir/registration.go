package clientdir

import (
	"fmt"
	"slices"
	"strings"
)

// ClientRegistration describes a trusted OAuth2 client.
//
// The directory only interprets ClientID and ClientAlias. Everything else is
// carried through unchanged for the authentication flows that consume it.
type ClientRegistration struct {
	// ClientAlias is the locally unique key for this registration.
	ClientAlias string
	// ClientID is the identifier issued by the provider. It may repeat
	// across registrations for different providers.
	ClientID string

	ClientSecret               string
	ClientAuthenticationMethod string
	AuthorizationGrantType     string
	RedirectURI                string
	Scopes                     []string
	ClientName                 string

	Provider ProviderDetails
}

// ProviderDetails holds the endpoints of the authorization server.
type ProviderDetails struct {
	AuthorizationURI string
	TokenURI         string
	UserInfoURI      string
	JWKSetURI        string
	IssuerURI        string
	Metadata         map[string]any
}

// Validate checks field well-formedness. Loaders call it before handing
// records to a Directory; the directory itself does not.
func (r ClientRegistration) Validate() error {
	if isBlank(r.ClientAlias) {
		return fmt.Errorf("%w: client alias cannot be empty", ErrInvalidRegistration)
	}
	if isBlank(r.ClientID) {
		return fmt.Errorf("%w: client id cannot be empty (alias %q)", ErrInvalidRegistration, r.ClientAlias)
	}
	return nil
}

// Clone returns a deep copy of r. Scopes and metadata are copied so the
// clone shares no mutable state with r.
func (r ClientRegistration) Clone() ClientRegistration {
	c := r
	c.Scopes = slices.Clone(r.Scopes)
	c.Provider.Metadata = cloneMetadata(r.Provider.Metadata)
	return c
}

// HasScope reports whether scope is among the registration's scopes.
func (r ClientRegistration) HasScope(scope string) bool {
	return slices.Contains(r.Scopes, scope)
}

func cloneMetadata(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue copies the container types produced by YAML/JSON/TOML decoding.
// Scalars are immutable and returned as-is.
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMetadata(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return slices.Clone(val)
	case []map[string]any:
		out := make([]map[string]any, len(val))
		for i, item := range val {
			out[i] = cloneMetadata(item)
		}
		return out
	default:
		return v
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// cloneAll deep-copies a slice of registrations.
func cloneAll(regs []ClientRegistration) []ClientRegistration {
	out := make([]ClientRegistration, len(regs))
	for i := range regs {
		out[i] = regs[i].Clone()
	}
	return out
}
