package source

import (
	"context"
	"fmt"

	"github.com/randalmurphal/clientdir/pkg/clientdir"
	"github.com/randalmurphal/clientdir/pkg/clientdir/config"
)

// File loads registrations from a YAML, JSON or TOML document.
//
// The document holds a top-level "registrations" list:
//
//	registrations:
//	  - alias: github
//	    client_id: abc123
//	    client_secret: s3cret
//	    authorization_grant_type: authorization_code
//	    redirect_uri: "{baseUrl}/login/oauth2/code/{registrationId}"
//	    scopes: [read:user]
//	    provider:
//	      authorization_uri: https://github.com/login/oauth/authorize
//	      token_uri: https://github.com/login/oauth/access_token
//
// The file is re-read on every Load.
type File struct {
	Path string
}

// Compile-time interface checks.
var (
	_ Source    = (*File)(nil)
	_ Watchable = (*File)(nil)
)

// NewFile returns a File source for path.
func NewFile(path string) *File {
	return &File{Path: path}
}

// Load implements Source.
func (f *File) Load(ctx context.Context) ([]clientdir.ClientRegistration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg, err := config.FromFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", f.Path, err)
	}
	regs, err := Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", f.Path, err)
	}
	return regs, nil
}

// WatchPaths implements Watchable.
func (f *File) WatchPaths() []string {
	return []string{f.Path}
}

// Decode extracts the "registrations" list from a decoded document and
// validates each entry.
func Decode(cfg config.Config) ([]clientdir.ClientRegistration, error) {
	if !cfg.Has("registrations") {
		return nil, fmt.Errorf("%w: missing \"registrations\" list", ErrMalformed)
	}
	items, ok := cfg.Slice("registrations")
	if !ok {
		return nil, fmt.Errorf("%w: \"registrations\" must be a list of tables", ErrMalformed)
	}

	regs := make([]clientdir.ClientRegistration, 0, len(items))
	for i, item := range items {
		if err := checkScalars(item, registrationKeys); err != nil {
			return nil, fmt.Errorf("registration %d: %w", i, err)
		}
		if err := checkScalars(item.Sub("provider"), providerKeys); err != nil {
			return nil, fmt.Errorf("registration %d provider: %w", i, err)
		}
		reg := decodeRegistration(item)
		if err := reg.Validate(); err != nil {
			return nil, fmt.Errorf("registration %d: %w", i, err)
		}
		regs = append(regs, reg)
	}
	return regs, nil
}

var (
	registrationKeys = []string{
		"alias", "client_id", "client_secret", "client_authentication_method",
		"authorization_grant_type", "redirect_uri", "client_name",
	}
	providerKeys = []string{
		"authorization_uri", "token_uri", "user_info_uri", "jwk_set_uri", "issuer_uri",
	}
)

// checkScalars rejects tables and lists where a string is expected. Bare
// numbers and booleans are accepted and read as text.
func checkScalars(item config.Config, keys []string) error {
	raw := item.Raw()
	for _, key := range keys {
		switch v := raw[key].(type) {
		case map[string]any, []any, []map[string]any:
			return fmt.Errorf("%w: %s must be a string, got %T", ErrMalformed, key, v)
		}
	}
	return nil
}

func decodeRegistration(item config.Config) clientdir.ClientRegistration {
	provider := item.Sub("provider")
	return clientdir.ClientRegistration{
		ClientAlias:                item.String("alias", ""),
		ClientID:                   item.String("client_id", ""),
		ClientSecret:               item.String("client_secret", ""),
		ClientAuthenticationMethod: item.String("client_authentication_method", ""),
		AuthorizationGrantType:     item.String("authorization_grant_type", ""),
		RedirectURI:                item.String("redirect_uri", ""),
		Scopes:                     item.StringSlice("scopes", nil),
		ClientName:                 item.String("client_name", ""),
		Provider: clientdir.ProviderDetails{
			AuthorizationURI: provider.String("authorization_uri", ""),
			TokenURI:         provider.String("token_uri", ""),
			UserInfoURI:      provider.String("user_info_uri", ""),
			JWKSetURI:        provider.String("jwk_set_uri", ""),
			IssuerURI:        provider.String("issuer_uri", ""),
			Metadata:         provider.Map("metadata"),
		},
	}
}
