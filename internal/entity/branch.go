package entity

import "time"

// DbBranch represents a physical agency branch office.
type DbBranch struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Code      string    `gorm:"column:code;type:varchar(50);uniqueIndex;not null" json:"code"`
	City      string    `gorm:"column:city;type:varchar(100)" json:"city"`
	Country   string    `gorm:"column:country;type:varchar(100)" json:"country"`
	Phone     string    `gorm:"column:phone;type:varchar(50)" json:"phone"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
}

// TableName overrides default pluralised name.
func (DbBranch) TableName() string {
	return "branches"
}

type BranchQuery struct {
	BaseParams
	Keyword         string `json:"keyword" form:"keyword" query:"keyword"`
	IncludeInactive bool   `json:"include_inactive" form:"include_inactive" query:"include_inactive"`
}

type BranchCreateRequest struct {
	Name     string `json:"name" binding:"required"`
	Code     string `json:"code" binding:"required"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
	IsActive *bool  `json:"is_active"`
}

type BranchUpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	City     *string `json:"city,omitempty"`
	Country  *string `json:"country,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type BranchListResponse struct {
	Branches []DbBranch `json:"branches"`
	Meta     *Meta      `json:"meta"`
}
