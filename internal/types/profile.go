// Package types provides type definitions for structured data used throughout the intelextract system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// ClientProfile identifies one client the tenant produces for.
// Names are unique within a CompanyProfile's client list.
type ClientProfile struct {
	Name     string `json:"name" validate:"required"`
	Industry string `json:"industry"`
}

// VoiceProfile is a derived linguistic fingerprint extracted from the
// tenant's own content. It is created or overwritten only as a side effect
// of a successful voice extraction run.
type VoiceProfile struct {
	SignaturePhrases   []string  `json:"signaturePhrases"`
	SentenceStructures string    `json:"sentenceStructures"`
	HookStyles         []string  `json:"hookStyles"`
	Vocabulary         []string  `json:"vocabulary"`
	AntiPatterns       []string  `json:"antiPatterns"`
	LastUpdated        time.Time `json:"lastUpdated"`
}

// CompanyProfile is the tenant configuration: identity, goals, the client
// roster, and the optional learned voice profile. It is persisted as a
// single current snapshot with no history.
type CompanyProfile struct {
	Name           string          `json:"name" validate:"required"`
	Industry       string          `json:"industry"`
	Focus          string          `json:"focus"`
	Goals          string          `json:"goals"`
	ClientProfiles []ClientProfile `json:"clientProfiles,omitempty" validate:"unique=Name,dive"`
	VoiceProfile   *VoiceProfile   `json:"voiceProfile,omitempty"`
}

// DefaultCompanyProfile returns the seeded tenant configuration used on
// first run, before the user has edited anything.
func DefaultCompanyProfile() *CompanyProfile {
	return &CompanyProfile{
		Name:     "Channel Changers",
		Industry: "Premium AI Video Production",
		Focus:    "Enterprise B2B Video Intelligence & Automation",
		Goals: "Build comprehensive business automation via CC Command Center; " +
			"Establish premium AI video production category leadership; " +
			"Scale through systematic knowledge capture and agent workflows",
		ClientProfiles: []ClientProfile{
			{Name: "Darwinium", Industry: "CYBERSECURITY AI PLATFORM"},
			{Name: "EY", Industry: "ENTERPRISE INTERNAL COMMUNICATIONS"},
			{Name: "3Fold", Industry: "ENERGY TECH / BATTERY STORAGE"},
			{Name: "Under Armour", Industry: "SPORT FASHION / RETAIL"},
			{Name: "Botivo", Industry: "PREMIUM BEVERAGES"},
		},
	}
}

// HasClient reports whether a client with the given name is already on the roster.
func (p *CompanyProfile) HasClient(name string) bool {
	for _, c := range p.ClientProfiles {
		if c.Name == name {
			return true
		}
	}
	return false
}
