package entity

import "fmt"

type BusinessProfile struct {
	ID                 string            `json:"id"                           bson:"_id"                            yaml:"id"`
	OwnerUserID        string            `json:"ownerUserId"                  bson:"owner_user_id"                  yaml:"ownerUserId"`
	BusinessName       string            `json:"businessName"                 bson:"business_name"                  yaml:"businessName"`
	TaxID              string            `json:"taxId,omitempty"              bson:"tax_id,omitempty"               yaml:"taxId,omitempty"`
	RegistrationNumber string            `json:"registrationNumber,omitempty" bson:"registration_number,omitempty"  yaml:"registrationNumber,omitempty"`
	AddressLine1       string            `json:"addressLine1,omitempty"       bson:"address_line1,omitempty"        yaml:"addressLine1,omitempty"`
	AddressLine2       string            `json:"addressLine2,omitempty"       bson:"address_line2,omitempty"        yaml:"addressLine2,omitempty"`
	City               string            `json:"city,omitempty"               bson:"city,omitempty"                 yaml:"city,omitempty"`
	ZipCode            string            `json:"zipCode,omitempty"            bson:"zip_code,omitempty"             yaml:"zipCode,omitempty"`
	PhoneNumber        string            `json:"phoneNumber,omitempty"        bson:"phone_number,omitempty"         yaml:"phoneNumber,omitempty"`
	SocialMediaLinks   map[string]string `json:"socialMediaLinks,omitempty"   bson:"social_media_links,omitempty"   yaml:"socialMediaLinks,omitempty"`
}

// ProfileInput is a partial or full profile. Identifier fields sent by the
// client are accepted and ignored.
type ProfileInput struct {
	ID                 *string            `json:"id"`
	OwnerUserID        *string            `json:"ownerUserId"`
	BusinessName       *string            `json:"businessName"       validate:"required,notblank,max=255"`
	TaxID              *string            `json:"taxId"              validate:"omitempty,max=100"`
	RegistrationNumber *string            `json:"registrationNumber" validate:"omitempty,max=100"`
	AddressLine1       *string            `json:"addressLine1"       validate:"omitempty,max=255"`
	AddressLine2       *string            `json:"addressLine2"       validate:"omitempty,max=255"`
	City               *string            `json:"city"               validate:"omitempty,max=100"`
	ZipCode            *string            `json:"zipCode"            validate:"omitempty,max=20"`
	PhoneNumber        *string            `json:"phoneNumber"        validate:"omitempty,max=50"`
	SocialMediaLinks   map[string]*string `json:"socialMediaLinks"   validate:"omitempty,dive,omitempty,max=2048"`
}

func (in *ProfileInput) FieldMessage(field, key string) string {
	switch field {
	case "businessName":
		return "Business name is required and must be a string up to 255 characters."
	case "taxId":
		return "Tax ID must be a string up to 100 characters."
	case "registrationNumber":
		return "Registration number must be a string up to 100 characters."
	case "addressLine1":
		return "Address Line 1 must be a string up to 255 characters."
	case "addressLine2":
		return "Address Line 2 must be a string up to 255 characters."
	case "city":
		return "City must be a string up to 100 characters."
	case "zipCode":
		return "Zip code must be a string up to 20 characters."
	case "phoneNumber":
		return "Phone number must be a string up to 50 characters."
	case "socialMediaLinks":
		if key == "" {
			return "Social media links must be an object."
		}
		return fmt.Sprintf("Social media link for %s must be a string up to 2048 characters.", key)
	default:
		return fmt.Sprintf("Field %s is invalid.", field)
	}
}

// Merge applies the fields present in the input over a copy of the profile.
// Identifiers are never taken from the input.
func (p BusinessProfile) Merge(in *ProfileInput) *BusinessProfile {
	merged := p
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	assign(&merged.BusinessName, in.BusinessName)
	assign(&merged.TaxID, in.TaxID)
	assign(&merged.RegistrationNumber, in.RegistrationNumber)
	assign(&merged.AddressLine1, in.AddressLine1)
	assign(&merged.AddressLine2, in.AddressLine2)
	assign(&merged.City, in.City)
	assign(&merged.ZipCode, in.ZipCode)
	assign(&merged.PhoneNumber, in.PhoneNumber)

	if in.SocialMediaLinks != nil {
		links := make(map[string]string, len(in.SocialMediaLinks))
		for platform, link := range in.SocialMediaLinks {
			if link != nil {
				links[platform] = *link
			}
		}
		merged.SocialMediaLinks = links
	} else {
		merged.SocialMediaLinks = p.Clone().SocialMediaLinks
	}

	return &merged
}

func (p *BusinessProfile) Clone() *BusinessProfile {
	c := *p
	if p.SocialMediaLinks != nil {
		c.SocialMediaLinks = make(map[string]string, len(p.SocialMediaLinks))
		for platform, link := range p.SocialMediaLinks {
			c.SocialMediaLinks[platform] = link
		}
	}
	return &c
}
