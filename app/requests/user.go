package requests

// RegisterUser is the body of POST /api/user/register.
type RegisterUser struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max_bytes=72"`
	Username string `json:"username" validate:"nullable,alpha_dash,min=3,max=32"`
}

// Login is the body of POST /api/user/login.
type Login struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}
