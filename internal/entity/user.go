package entity

import "time"

// DbUser represents a persisted user account.
type DbUser struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Email        string     `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	DisplayName  string     `gorm:"column:display_name;type:varchar(255)" json:"display_name"`
	Role         Role       `gorm:"column:role;type:varchar(50);index;not null" json:"role"`
	BranchID     *uint      `gorm:"column:branch_id;index" json:"branch_id"`
	AgentNumber  string     `gorm:"column:agent_number;type:varchar(50);index" json:"agent_number"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" json:"last_login_at"`
}

// TableName overrides default pluralised name.
func (DbUser) TableName() string {
	return "users"
}

// UserSummary is a lightweight user description returned to clients. The
// password hash never leaves the server.
type UserSummary struct {
	ID          uint         `json:"id"`
	Email       string       `json:"email"`
	DisplayName string       `json:"name"`
	Role        Role         `json:"role"`
	BranchID    *uint        `json:"branch_id"`
	AgentNumber string       `json:"agent_number,omitempty"`
	Permissions []Permission `json:"permissions"`
	IsActive    bool         `json:"is_active"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	LastLoginAt *time.Time   `json:"last_login_at"`
}

// UserQuery supports listing users with pagination.
type UserQuery struct {
	BaseParams
	Role     string `json:"role" form:"role" query:"role"`
	BranchID uint   `json:"branch_id" form:"branch_id" query:"branch_id"`
	Keyword  string `json:"keyword" form:"keyword" query:"keyword"`
}

type AuthLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Success   bool        `json:"success"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type UserCreateRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role" binding:"required"`
	BranchID    *uint  `json:"branch_id"`
	AgentNumber string `json:"agent_number"`
	IsActive    *bool  `json:"is_active"`
}

type UserUpdateRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Role        *string `json:"role,omitempty"`
	BranchID    *uint   `json:"branch_id,omitempty"`
	AgentNumber *string `json:"agent_number,omitempty"`
	Password    *string `json:"password,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type UserListResponse struct {
	Users []UserSummary `json:"users"`
	Meta  *Meta         `json:"meta"`
}
