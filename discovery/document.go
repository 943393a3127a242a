package discovery

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
)

// Document is the provider metadata served at the well-known discovery
// address. Only JWKSURI and RegistrationEndpoint are read by this module;
// members without a field here are kept in Extra and encoded back as is.
type Document struct {
	Issuer                                 string   `json:"issuer,omitempty"`
	AuthorizationEndpoint                  string   `json:"authorization_endpoint,omitempty"`
	TokenEndpoint                          string   `json:"token_endpoint,omitempty"`
	UserinfoEndpoint                       string   `json:"userinfo_endpoint,omitempty"`
	JWKSURI                                string   `json:"jwks_uri"`
	RegistrationEndpoint                   string   `json:"registration_endpoint,omitempty"`
	RevocationEndpoint                     string   `json:"revocation_endpoint,omitempty"`
	IntrospectionEndpoint                  string   `json:"introspection_endpoint,omitempty"`
	EndSessionEndpoint                     string   `json:"end_session_endpoint,omitempty"`
	ScopesSupported                        []string `json:"scopes_supported,omitempty"`
	ResponseTypesSupported                 []string `json:"response_types_supported,omitempty"`
	ResponseModesSupported                 []string `json:"response_modes_supported,omitempty"`
	GrantTypesSupported                    []string `json:"grant_types_supported,omitempty"`
	SubjectTypesSupported                  []string `json:"subject_types_supported,omitempty"`
	IDTokenSigningAlgValuesSupported       []string `json:"id_token_signing_alg_values_supported,omitempty"`
	TokenEndpointAuthMethodsSupported      []string `json:"token_endpoint_auth_methods_supported,omitempty"`
	ClaimsSupported                        []string `json:"claims_supported,omitempty"`
	CodeChallengeMethodsSupported          []string `json:"code_challenge_methods_supported,omitempty"`
	RequestURIParameterSupported           *bool    `json:"request_uri_parameter_supported,omitempty"`
	RequireRequestURIRegistration          *bool    `json:"require_request_uri_registration,omitempty"`
	ClaimsParameterSupported               *bool    `json:"claims_parameter_supported,omitempty"`
	RequestParameterSupported              *bool    `json:"request_parameter_supported,omitempty"`
	ServiceDocumentation                   string   `json:"service_documentation,omitempty"`
	OPPolicyURI                            string   `json:"op_policy_uri,omitempty"`
	OPTOSURI                               string   `json:"op_tos_uri,omitempty"`
	UILocalesSupported                     []string `json:"ui_locales_supported,omitempty"`
	ClaimsLocalesSupported                 []string `json:"claims_locales_supported,omitempty"`
	DisplayValuesSupported                 []string `json:"display_values_supported,omitempty"`
	ACRValuesSupported                     []string `json:"acr_values_supported,omitempty"`
	UserinfoSigningAlgValuesSupported      []string `json:"userinfo_signing_alg_values_supported,omitempty"`
	RequestObjectSigningAlgValuesSupported []string `json:"request_object_signing_alg_values_supported,omitempty"`

	// Extra holds every member of the document not listed above.
	Extra map[string]json.RawMessage `json:"-"`
}

// ErrMissingJWKSURI is returned when decoding a document without jwks_uri.
var ErrMissingJWKSURI = errors.New("discovery document has no jwks_uri")

// document has the fields of Document without its methods.
type document Document

var documentFields = jsonFieldNames(reflect.TypeOf(document{}))

// UnmarshalJSON implements json.Unmarshaler. Only members whose name is
// exactly a field's JSON name fill that field; the rest, including names
// that differ from a field's only in case, go to Extra.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fields := make(map[string]json.RawMessage, len(documentFields))
	for name := range documentFields {
		if value, ok := raw[name]; ok {
			fields[name] = value
			delete(raw, name)
		}
	}

	exact, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	var known document
	if err := json.Unmarshal(exact, &known); err != nil {
		return err
	}
	if known.JWKSURI == "" {
		return ErrMissingJWKSURI
	}
	if len(raw) > 0 {
		known.Extra = raw
	}

	*d = Document(known)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Document) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(document(d))
	if err != nil || len(d.Extra) == 0 {
		return data, err
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for name, value := range d.Extra {
		if _, ok := documentFields[name]; !ok {
			merged[name] = value
		}
	}
	return json.Marshal(merged)
}

func jsonFieldNames(t reflect.Type) map[string]struct{} {
	names := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			names[name] = struct{}{}
		}
	}
	return names
}
