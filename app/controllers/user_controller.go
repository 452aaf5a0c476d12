package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/productapi/app/requests"
	"github.com/shashiranjanraj/productapi/app/services"
	"github.com/shashiranjanraj/productapi/pkg/apperr"
	"github.com/shashiranjanraj/productapi/pkg/ctx"
)

const msgInvalidRegistration = "Please provide a valid email and a password of at least 8 characters and at most 72 bytes."

// TokenBody is the login response.
type TokenBody struct {
	Token string `json:"token"`
}

type UserController struct {
	auth *services.AuthService
}

func NewUserController(auth *services.AuthService) *UserController {
	return &UserController{auth: auth}
}

func (uc *UserController) Register(c *ctx.Context) {
	var req requests.RegisterUser
	if err := c.BindAndValidate(&req, msgInvalidRegistration); err != nil {
		c.Fail(err)
		return
	}

	if _, err := uc.auth.Register(c.Context(), req); err != nil {
		c.Fail(err)
		return
	}
	c.Message(http.StatusCreated, "User has been registered successfully")
}

func (uc *UserController) Login(c *ctx.Context) {
	var req requests.Login
	if err := c.BindAndValidate(&req, "Please provide email and password."); err != nil {
		c.Fail(err)
		return
	}

	token, err := uc.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, TokenBody{Token: token})
}

// Me returns the authenticated user.
func (uc *UserController) Me(c *ctx.Context) {
	user, err := uc.auth.Profile(c.Context(), c.Subject())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Data(http.StatusOK, user)
}

// Logout revokes the bearer token used for this request.
func (uc *UserController) Logout(c *ctx.Context) {
	claims, ok := c.Claims()
	if !ok {
		c.Fail(apperr.ErrUnauthorized)
		return
	}

	if err := uc.auth.Logout(c.Context(), claims); err != nil {
		c.Fail(err)
		return
	}
	c.Message(http.StatusOK, "Logged out successfully")
}
