package registration

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Metadata holds the client metadata defined by OpenID Connect Dynamic
// Client Registration and RFC 7591.
type Metadata struct {
	RedirectURIs                 []string `json:"redirect_uris,omitempty"`
	ResponseTypes                []string `json:"response_types,omitempty"`
	GrantTypes                   []string `json:"grant_types,omitempty"`
	ApplicationType              string   `json:"application_type,omitempty"`
	Contacts                     []string `json:"contacts,omitempty"`
	ClientName                   string   `json:"client_name,omitempty"`
	LogoURI                      string   `json:"logo_uri,omitempty"`
	ClientURI                    string   `json:"client_uri,omitempty"`
	PolicyURI                    string   `json:"policy_uri,omitempty"`
	TOSURI                       string   `json:"tos_uri,omitempty"`
	JWKSURI                      string   `json:"jwks_uri,omitempty"`
	SectorIdentifierURI          string   `json:"sector_identifier_uri,omitempty"`
	SubjectType                  string   `json:"subject_type,omitempty"`
	IDTokenSignedResponseAlg     string   `json:"id_token_signed_response_alg,omitempty"`
	UserinfoSignedResponseAlg    string   `json:"userinfo_signed_response_alg,omitempty"`
	RequestObjectSigningAlg      string   `json:"request_object_signing_alg,omitempty"`
	TokenEndpointAuthMethod      string   `json:"token_endpoint_auth_method,omitempty"`
	TokenEndpointAuthSigningAlg  string   `json:"token_endpoint_auth_signing_alg,omitempty"`
	DefaultMaxAge                int64    `json:"default_max_age,omitempty"`
	RequireAuthTime              bool     `json:"require_auth_time,omitempty"`
	DefaultACRValues             []string `json:"default_acr_values,omitempty"`
	InitiateLoginURI             string   `json:"initiate_login_uri,omitempty"`
	RequestURIs                  []string `json:"request_uris,omitempty"`
	PostLogoutRedirectURIs       []string `json:"post_logout_redirect_uris,omitempty"`
	Scope                        string   `json:"scope,omitempty"`
	SoftwareID                   string   `json:"software_id,omitempty"`
	SoftwareVersion              string   `json:"software_version,omitempty"`
	SoftwareStatement            string   `json:"software_statement,omitempty"`
	FrontchannelLogoutURI        string   `json:"frontchannel_logout_uri,omitempty"`
	BackchannelLogoutURI         string   `json:"backchannel_logout_uri,omitempty"`
	BackchannelLogoutSessionReqd bool     `json:"backchannel_logout_session_required,omitempty"`
}

// NoExtension is the extension type for clients without provider-specific
// metadata.
type NoExtension struct{}

// ClientMetadata is the registration request body. E carries
// provider-specific members, encoded into the same JSON object as Metadata.
// A member set in Metadata is never overridden by E.
type ClientMetadata[E any] struct {
	Metadata
	Extension E
}

// MarshalJSON implements json.Marshaler.
func (m ClientMetadata[E]) MarshalJSON() ([]byte, error) {
	return mergeObjects(m.Metadata, m.Extension)
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *ClientMetadata[E]) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &m.Metadata); err != nil {
		return err
	}
	return json.Unmarshal(data, &m.Extension)
}

// Credentials are the members a provider assigns on registration.
type Credentials struct {
	ClientID                string `json:"client_id"`
	ClientSecret            string `json:"client_secret,omitempty"`
	RegistrationAccessToken string `json:"registration_access_token,omitempty"`
	RegistrationClientURI   string `json:"registration_client_uri,omitempty"`
	ClientIDIssuedAt        int64  `json:"client_id_issued_at,omitempty"`
	ClientSecretExpiresAt   int64  `json:"client_secret_expires_at,omitempty"`
}

// ErrMissingClientID is returned when decoding a response without client_id.
var ErrMissingClientID = errors.New("registration response has no client_id")

// ClientMetadataResponse is what a provider answers to a successful
// registration: the registered metadata plus the assigned Credentials.
type ClientMetadataResponse[E any] struct {
	Credentials
	ClientMetadata[E]
}

// MarshalJSON implements json.Marshaler.
func (r ClientMetadataResponse[E]) MarshalJSON() ([]byte, error) {
	return mergeObjects(r.Credentials, r.ClientMetadata)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *ClientMetadataResponse[E]) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &r.Credentials); err != nil {
		return err
	}
	if r.ClientID == "" {
		return ErrMissingClientID
	}
	return json.Unmarshal(data, &r.ClientMetadata)
}

// mergeObjects encodes base and ext as JSON objects and merges them. Members
// of base win over members of ext with the same name.
func mergeObjects(base, ext any) ([]byte, error) {
	baseJSON, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}
	extJSON, err := json.Marshal(ext)
	if err != nil {
		return nil, fmt.Errorf("could not encode extension: %w", err)
	}
	if bytes.Equal(extJSON, []byte("null")) || bytes.Equal(extJSON, []byte("{}")) {
		return baseJSON, nil
	}

	var merged, extra map[string]json.RawMessage
	if err := json.Unmarshal(baseJSON, &merged); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(extJSON, &extra); err != nil {
		return nil, fmt.Errorf("extension must encode as a JSON object: %w", err)
	}
	for name, value := range extra {
		if _, ok := merged[name]; !ok {
			merged[name] = value
		}
	}
	return json.Marshal(merged)
}
