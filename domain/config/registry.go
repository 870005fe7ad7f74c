package config

import (
	"fmt"
	"time"
)

// TimestampLayout is the ISO-8601 form used for __createdAt and __updatedAt.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp formats t the way audit attributes are stored.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

type typeEntry struct {
	empty    func() Record
	defaults func(orgID string) Record
}

// registry is the single table mapping each configuration type to its record
// constructor and default values. Adding a type means adding one entry here and
// one to orderedTypes.
var registry = map[ConfigType]typeEntry{
	TypeOrganization: {
		empty: func() Record { return &OrganizationConfig{} },
		defaults: func(orgID string) Record {
			return &OrganizationConfig{
				Audit:                  Audit{OrganizationID: orgID},
				OrganizationConfigType: TypeOrganization,
				BuyTabs: []BuyTab{
					{Label: "General", Slug: "general", Type: "GENERAL"},
				},
				Profile: []ProfileField{
					{FieldName: ProfileEmail, Editable: boolPtr(false), SsoEditable: boolPtr(false), Required: boolPtr(true)},
					{FieldName: ProfileFirstName, Editable: boolPtr(true), SsoEditable: boolPtr(false), Required: boolPtr(true)},
					{FieldName: ProfileLastName, Editable: boolPtr(true), SsoEditable: boolPtr(false), Required: boolPtr(true)},
				},
			}
		},
	},
	TypeClient: {
		empty: func() Record { return &ClientConfig{} },
		defaults: func(orgID string) Record {
			return &ClientConfig{
				Audit:                  Audit{OrganizationID: orgID},
				OrganizationConfigType: TypeClient,
				Braze:                  &BrazeConfig{PublicKey: "", BaseURL: ""},
				CourtCash:              &CourtCashConfig{Label: "", Enabled: boolPtr(false)},
				PrivacyPolicyURL:       "",
				TermsURL:               "",
			}
		},
	},
	TypeClientIOS: {
		empty: func() Record { return &IOSClientConfig{} },
		defaults: func(orgID string) Record {
			return &IOSClientConfig{
				Audit:                  Audit{OrganizationID: orgID},
				OrganizationConfigType: TypeClientIOS,
				AppStoreURL:            "",
			}
		},
	},
	TypeClientAndroid: {
		empty: func() Record { return &AndroidClientConfig{} },
		defaults: func(orgID string) Record {
			return &AndroidClientConfig{
				Audit:                  Audit{OrganizationID: orgID},
				OrganizationConfigType: TypeClientAndroid,
				PlayStoreURL:           "",
			}
		},
	},
}

var orderedTypes = []ConfigType{TypeOrganization, TypeClient, TypeClientIOS, TypeClientAndroid}

// ConfigTypes returns every configuration type in canonical order.
func ConfigTypes() []ConfigType {
	return append([]ConfigType(nil), orderedTypes...)
}

// ConfigTypeNames returns the configuration type literals in canonical order.
func ConfigTypeNames() []string {
	names := make([]string, len(orderedTypes))
	for i, t := range orderedTypes {
		names[i] = string(t)
	}
	return names
}

// IsValid reports whether t is one of the known configuration types.
func (t ConfigType) IsValid() bool {
	_, ok := registry[t]
	return ok
}

// ParseConfigType converts s to a ConfigType, reporting whether it is known.
func ParseConfigType(s string) (ConfigType, bool) {
	t := ConfigType(s)
	return t, t.IsValid()
}

// NewRecord returns an empty record of type t, or false for an unknown type.
func NewRecord(t ConfigType) (Record, bool) {
	entry, ok := registry[t]
	if !ok {
		return nil, false
	}
	return entry.empty(), true
}

// CreateDefault returns the default record of type t for an organization,
// stamped with the current time and the system actor. An unknown type is a
// programming error and panics.
func CreateDefault(orgID string, t ConfigType) Record {
	entry, ok := registry[t]
	if !ok {
		panic(fmt.Sprintf("config: no default record for configuration type %q", t))
	}

	rec := entry.defaults(orgID)
	now := Timestamp(time.Now())
	meta := rec.Meta()
	meta.CreatedAt = now
	meta.UpdatedAt = now
	meta.UpdatedBy = SystemActor
	return rec
}

func boolPtr(b bool) *bool { return &b }
