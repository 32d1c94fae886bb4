package domain

import "time"

// Property type options for a listing
const (
	PropertyType1BHK    = "1 BHK"
	PropertyType2BHK    = "2 BHK"
	PropertyType3BHK    = "3 BHK"
	PropertyTypeShared  = "Shared Room"
	PropertyTypePrivate = "Private Room"
)

// Tenant preference options for a listing
const (
	PreferenceBachelor     = "Bachelor"
	PreferenceFamily       = "Family"
	PreferenceGirlsOnly    = "Girls Only"
	PreferenceBoysOnly     = "Boys Only"
	PreferenceProfessional = "Working Professionals"
	PreferenceAny          = "Any"
)

// Room Model
type Room struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)" json:"id"`           // Listing id (UUID), assigned at creation
	OwnerID          string    `gorm:"type:varchar(36);index;not null" json:"owner_id"` // Foreign key to the owning Profile
	Title            string    `gorm:"not null" json:"title"`                           // Listing title
	Description      string    `gorm:"type:text" json:"description"`                    // Optional free-text description
	Address          string    `gorm:"not null" json:"address"`                         // Full street address
	Location         string    `gorm:"not null" json:"location"`                        // Free-text city/area used by search
	Price            float64   `json:"price"`                                           // Monthly rent
	PropertyType     string    `json:"property_type"`                                   // One of the property type options
	TenantPreference string    `json:"tenant_preference"`                               // One of the tenant preference options
	ContactNumber    string    `json:"contact_number"`                                  // Owner contact phone
	Images           []string  `gorm:"serializer:json" json:"images"`                   // Ordered public image URLs, empty (not null) when none
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`                // Immutable creation timestamp, newest-first ordering key
	Owner            Profile   `gorm:"foreignKey:OwnerID" json:"-"`                     // Owning profile, loaded for the detail view
}
