package entity

import "time"

// DbCountry represents a destination country offered by the agency.
type DbCountry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Code      string    `gorm:"column:code;type:varchar(8);uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Region    string    `gorm:"column:region;type:varchar(100)" json:"region"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
}

// TableName overrides default pluralised name.
func (DbCountry) TableName() string {
	return "countries"
}

type CountryQuery struct {
	BaseParams
	Region          string `json:"region" form:"region" query:"region"`
	Keyword         string `json:"keyword" form:"keyword" query:"keyword"`
	IncludeInactive bool   `json:"include_inactive" form:"include_inactive" query:"include_inactive"`
}

type CountryCreateRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Region   string `json:"region"`
	IsActive *bool  `json:"is_active"`
}

type CountryUpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Region   *string `json:"region,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type CountryListResponse struct {
	Countries []DbCountry `json:"countries"`
	Meta      *Meta       `json:"meta"`
}
