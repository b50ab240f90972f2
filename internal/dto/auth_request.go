package dto

type SignupRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

type LoginRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}
