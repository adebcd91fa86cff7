package auth

// SignInInput is the sign-in form.
type SignInInput struct {
	Username string `json:"username" validate:"required,min=2,max=20"`
	Password string `json:"password" validate:"required,min=8,max=20,password"`
}

// SignUpInput is the registration form. Key is required for ROLE_ADMIN.
type SignUpInput struct {
	Name     string `json:"name"     validate:"required,min=2,max=60"`
	Username string `json:"username" validate:"required,min=2,max=20,username"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=20"`
	Role     string `json:"role"     validate:"required,oneof=ROLE_USER ROLE_ADMIN"`
	Key      string `json:"key"      validate:"required_if=Role ROLE_ADMIN"`
}
