package domain

// User is the identity record returned by the profile endpoint and cached
// in the session store.
type User struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	MobileNumber string  `json:"mobileNumber"`
	Email        string  `json:"email"`
	Roles        *string `json:"roles"`
	Password     string  `json:"password,omitempty"`
}

// RoleSet returns the typed roles the user holds.
func (u *User) RoleSet() RoleSet {
	if u == nil {
		return ParseRoleSet(nil)
	}
	return ParseRoleSet(u.Roles)
}

// Clone returns a deep copy of u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Roles != nil {
		roles := *u.Roles
		c.Roles = &roles
	}
	return &c
}

// StringPtr is a convenience for building optional role strings.
func StringPtr(s string) *string {
	return &s
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	MobileNumber string `json:"mobileNumber" validate:"mobile"`
	Password     string `json:"password" validate:"required"`
}

// LoginResponse carries the token pair issued on login.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Message      string `json:"message,omitempty"`
}

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Name         string `json:"name" validate:"required,nonblank"`
	MobileNumber string `json:"mobileNumber" validate:"mobile"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"min=6"`
}

// SignupForm is the signup screen's input, including the confirmation field
// that never leaves the client.
type SignupForm struct {
	Name            string `json:"name" validate:"required,nonblank"`
	MobileNumber    string `json:"mobileNumber" validate:"mobile"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

// Request drops the confirmation field.
func (f SignupForm) Request() SignupRequest {
	return SignupRequest{
		Name:         f.Name,
		MobileNumber: f.MobileNumber,
		Email:        f.Email,
		Password:     f.Password,
	}
}

// PasswordResetRequest is the body of POST /auth/request-password-reset.
type PasswordResetRequest struct {
	MobileNumber string `json:"mobileNumber" validate:"mobile"`
}

// ResetPasswordRequest is the body of POST /auth/reset-password.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required,nonblank"`
	NewPassword string `json:"newPassword" validate:"min=6"`
}

// UserEditRequest is the body of PUT /users/edit.
type UserEditRequest struct {
	MobileNumber string `json:"mobileNumber" validate:"mobile"`
	Name         string `json:"name" validate:"required,nonblank"`
}

// RoleUpdateRequest is the body of POST /admin/update-role. Roles is the
// serialised wire form produced by JoinRoles.
type RoleUpdateRequest struct {
	MobileNumber string `json:"mobileNumber" validate:"mobile"`
	Roles        string `json:"roles" validate:"required"`
}
