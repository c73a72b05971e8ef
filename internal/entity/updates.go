package entity

import "time"

// UserUpdates holds optional user field updates.
type UserUpdates struct {
	DisplayName  *string
	Role         *string
	BranchID     *uint
	AgentNumber  *string
	PasswordHash *string
	IsActive     *bool
	LastLoginAt  *time.Time
}

// ToMap converts set fields to a GORM updates map.
func (u UserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.DisplayName != nil {
		updates["display_name"] = *u.DisplayName
	}
	if u.Role != nil {
		updates["role"] = *u.Role
	}
	if u.BranchID != nil {
		updates["branch_id"] = *u.BranchID
	}
	if u.AgentNumber != nil {
		updates["agent_number"] = *u.AgentNumber
	}
	if u.PasswordHash != nil {
		updates["password_hash"] = *u.PasswordHash
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	if u.LastLoginAt != nil {
		updates["last_login_at"] = *u.LastLoginAt
	}
	return updates
}

// IsEmpty reports whether no field is set.
func (u UserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// BranchUpdates holds optional branch field updates.
type BranchUpdates struct {
	Name     *string
	City     *string
	Country  *string
	Phone    *string
	IsActive *bool
}

// ToMap converts set fields to a GORM updates map.
func (u BranchUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.City != nil {
		updates["city"] = *u.City
	}
	if u.Country != nil {
		updates["country"] = *u.Country
	}
	if u.Phone != nil {
		updates["phone"] = *u.Phone
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	return updates
}

// IsEmpty reports whether no field is set.
func (u BranchUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// AgentUpdates holds optional agent field updates.
type AgentUpdates struct {
	Name     *string
	Email    *string
	BranchID *uint
	IsActive *bool
}

// ToMap converts set fields to a GORM updates map.
func (u AgentUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Email != nil {
		updates["email"] = *u.Email
	}
	if u.BranchID != nil {
		updates["branch_id"] = *u.BranchID
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	return updates
}

// IsEmpty reports whether no field is set.
func (u AgentUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// CountryUpdates holds optional country field updates.
type CountryUpdates struct {
	Name     *string
	Region   *string
	IsActive *bool
}

// ToMap converts set fields to a GORM updates map.
func (u CountryUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Region != nil {
		updates["region"] = *u.Region
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	return updates
}

// IsEmpty reports whether no field is set.
func (u CountryUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// PlatformUpdates holds optional platform field updates.
type PlatformUpdates struct {
	Name     *string
	IsActive *bool
}

// ToMap converts set fields to a GORM updates map.
func (u PlatformUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	return updates
}

// IsEmpty reports whether no field is set.
func (u PlatformUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// ReportUpdates holds optional report field updates.
type ReportUpdates struct {
	Spend    *float64
	Leads    *int64
	Bookings *int64
	Revenue  *float64
	Notes    *string
}

// ToMap converts set fields to a GORM updates map.
func (u ReportUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Spend != nil {
		updates["spend"] = *u.Spend
	}
	if u.Leads != nil {
		updates["leads"] = *u.Leads
	}
	if u.Bookings != nil {
		updates["bookings"] = *u.Bookings
	}
	if u.Revenue != nil {
		updates["revenue"] = *u.Revenue
	}
	if u.Notes != nil {
		updates["notes"] = *u.Notes
	}
	return updates
}

// IsEmpty reports whether no field is set.
func (u ReportUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
