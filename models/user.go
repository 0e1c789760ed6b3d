package models

import "strings"

// UserProfile is the logged-in user's data as stored by the login flow.
// Checkout uses it to pre-fill contact details.
type UserProfile struct {
	ID      interface{} `json:"id,omitempty"`
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Phone   string      `json:"phone"`
	Address string      `json:"address"`
	City    string      `json:"city"`
	ZipCode string      `json:"zip_code"`
}

// ContactInfo holds checkout contact and delivery fields.
type ContactInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
}

// MissingRequired lists the required contact fields that are blank.
func (c ContactInfo) MissingRequired() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"name", c.Name},
		{"email", c.Email},
		{"phone", c.Phone},
		{"address", c.Address},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
