// Package config defines the organization configuration record model: the four
// record types stored per organization, their default values and the helpers
// used to shape records before they are written.
package config

// ConfigType discriminates configuration records. It is the table's sort key.
type ConfigType string

const (
	TypeOrganization  ConfigType = "ORGANIZATION_CONFIG"
	TypeClient        ConfigType = "CLIENT_CONFIG"
	TypeClientIOS     ConfigType = "CLIENT_CONFIG_IOS"
	TypeClientAndroid ConfigType = "CLIENT_CONFIG_ANDROID"
)

// Attribute names shared by every record.
const (
	AttrOrganizationID = "OrganizationId"
	AttrConfigType     = "OrganizationConfigType"
	AttrCreatedAt      = "__createdAt"
	AttrUpdatedAt      = "__updatedAt"
	AttrUpdatedBy      = "__updatedBy"
	AttrSSOProviderID  = "ExternalSsoProviderId"
)

// SystemActor is recorded as __updatedBy on records produced by the default factory.
const SystemActor = "system"

// ProfileFieldName enumerates the profile fields an organization can collect.
type ProfileFieldName string

const (
	ProfileEmail       ProfileFieldName = "EMAIL"
	ProfileFirstName   ProfileFieldName = "FIRST_NAME"
	ProfileLastName    ProfileFieldName = "LAST_NAME"
	ProfileBirthday    ProfileFieldName = "BIRTHDAY"
	ProfilePhoneNumber ProfileFieldName = "PHONE_NUMBER"
)

// Record is one configuration record. The set of implementations is closed:
// *OrganizationConfig, *ClientConfig, *IOSClientConfig and *AndroidClientConfig.
type Record interface {
	Type() ConfigType
	OrgID() string
	Meta() *Audit
	sealed()
}

// Audit holds the partition key and the bookkeeping attributes common to all records.
type Audit struct {
	OrganizationID string `json:"OrganizationId" validate:"required,orgid"`
	CreatedAt      string `json:"__createdAt,omitempty"`
	UpdatedAt      string `json:"__updatedAt,omitempty"`
	UpdatedBy      string `json:"__updatedBy,omitempty"`
}

// BuyTab is a purchase tab shown in the client apps.
type BuyTab struct {
	Label     string `json:"Label" validate:"required"`
	Slug      string `json:"Slug" validate:"required"`
	Type      string `json:"Type" validate:"required"`
	GenreCode string `json:"GenreCode,omitempty"`
}

// ProfileField describes how one profile attribute is collected.
type ProfileField struct {
	FieldName   ProfileFieldName `json:"FieldName" validate:"required,oneof=EMAIL FIRST_NAME LAST_NAME BIRTHDAY PHONE_NUMBER"`
	Editable    *bool            `json:"Editable,omitempty"`
	SsoEditable *bool            `json:"SsoEditable,omitempty"`
	Required    *bool            `json:"Required,omitempty"`
}

type CustomerService struct {
	Phone string `json:"Phone,omitempty"`
}

// OrganizationConfig carries the core organization settings.
type OrganizationConfig struct {
	Audit
	OrganizationConfigType ConfigType       `json:"OrganizationConfigType" validate:"required,eq=ORGANIZATION_CONFIG"`
	Name                   string           `json:"Name,omitempty"`
	TeamName               string           `json:"TeamName,omitempty"`
	Slug                   string           `json:"Slug,omitempty"`
	ShortName              string           `json:"ShortName,omitempty"`
	LogoURL                string           `json:"LogoUrl,omitempty" validate:"omitempty,url"`
	FanSiteRootURL         string           `json:"FanSiteRootUrl,omitempty" validate:"omitempty,url"`
	BrandColor             string           `json:"BrandColor,omitempty"`
	ExternalSSOProviderID  string           `json:"ExternalSsoProviderId,omitempty"`
	SocialLink             string           `json:"SocialLink,omitempty" validate:"omitempty,url"`
	DonateLink             string           `json:"DonateLink,omitempty" validate:"omitempty,url"`
	BuyTabs                []BuyTab         `json:"BuyTabs" validate:"dive"`
	Profile                []ProfileField   `json:"Profile" validate:"dive"`
	CustomerService        *CustomerService `json:"CustomerService,omitempty"`
}

type BrazeConfig struct {
	PublicKey string `json:"PublicKey,omitempty"`
	BaseURL   string `json:"BaseUrl,omitempty" validate:"omitempty,url"`
}

type CourtCashConfig struct {
	Label   string `json:"Label,omitempty"`
	Enabled *bool  `json:"Enabled,omitempty"`
}

// ClientConfig carries settings shared by every client app.
type ClientConfig struct {
	Audit
	OrganizationConfigType ConfigType       `json:"OrganizationConfigType" validate:"required,eq=CLIENT_CONFIG"`
	SegmentWriteKey        string           `json:"SegmentWriteKey,omitempty"`
	AmplitudeAPIKey        string           `json:"AmplitudeApiKey,omitempty"`
	Braze                  *BrazeConfig     `json:"Braze,omitempty"`
	CourtCash              *CourtCashConfig `json:"CourtCash,omitempty"`
	PrivacyPolicyURL       string           `json:"PrivacyPolicyUrl,omitempty" validate:"omitempty,url"`
	TermsURL               string           `json:"TermsUrl,omitempty" validate:"omitempty,url"`
}

// IOSClientConfig carries iOS app settings.
type IOSClientConfig struct {
	Audit
	OrganizationConfigType ConfigType `json:"OrganizationConfigType" validate:"required,eq=CLIENT_CONFIG_IOS"`
	AppStoreURL            string     `json:"AppStoreUrl,omitempty" validate:"omitempty,url"`
}

// AndroidClientConfig carries Android app settings.
type AndroidClientConfig struct {
	Audit
	OrganizationConfigType ConfigType `json:"OrganizationConfigType" validate:"required,eq=CLIENT_CONFIG_ANDROID"`
	PlayStoreURL           string     `json:"PlayStoreUrl,omitempty" validate:"omitempty,url"`
}

func (c *OrganizationConfig) Type() ConfigType { return TypeOrganization }
func (c *OrganizationConfig) OrgID() string    { return c.OrganizationID }
func (c *OrganizationConfig) Meta() *Audit     { return &c.Audit }
func (c *OrganizationConfig) sealed()          {}

func (c *ClientConfig) Type() ConfigType { return TypeClient }
func (c *ClientConfig) OrgID() string    { return c.OrganizationID }
func (c *ClientConfig) Meta() *Audit     { return &c.Audit }
func (c *ClientConfig) sealed()          {}

func (c *IOSClientConfig) Type() ConfigType { return TypeClientIOS }
func (c *IOSClientConfig) OrgID() string    { return c.OrganizationID }
func (c *IOSClientConfig) Meta() *Audit     { return &c.Audit }
func (c *IOSClientConfig) sealed()          {}

func (c *AndroidClientConfig) Type() ConfigType { return TypeClientAndroid }
func (c *AndroidClientConfig) OrgID() string    { return c.OrganizationID }
func (c *AndroidClientConfig) Meta() *Audit     { return &c.Audit }
func (c *AndroidClientConfig) sealed()          {}
