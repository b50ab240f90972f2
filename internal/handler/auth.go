package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quillhub/blog-service/internal/dto"
	"github.com/quillhub/blog-service/internal/identity"
	"github.com/quillhub/blog-service/internal/service"
)

func (h *Handler) signupForm(c *gin.Context) {
	if h.redirectIfAuthenticated(c) {
		return
	}

	h.render(c, http.StatusOK, "signup.html", gin.H{"Email": ""})
}

func (h *Handler) signup(c *gin.Context) {
	if h.redirectIfAuthenticated(c) {
		return
	}

	var input dto.SignupRequest
	_ = c.ShouldBind(&input)

	if err := h.services.Auth.SignUp(c.Request.Context(), input); err != nil {
		switch {
		case errors.Is(err, service.ErrFieldsEmpty):
			h.flash(c, "danger", "Email and password cannot be empty.")
		case errors.Is(err, service.ErrPasswordTooShort):
			h.flash(c, "danger", "Password must be at least 6 characters long.")
		case errors.Is(err, identity.ErrEmailExists):
			h.flash(c, "danger", "This email is already registered. Try logging in or use a different email.")
		case errors.Is(err, identity.ErrInvalidEmail):
			h.flash(c, "danger", "The email address is not valid.")
		default:
			h.flash(c, "danger", "Error creating account: "+err.Error())
		}
		h.render(c, http.StatusOK, "signup.html", gin.H{"Email": input.Email})
		return
	}

	h.flash(c, "success", "Account created successfully! Please log in.")
	h.redirect(c, http.StatusSeeOther, "/login")
}

func (h *Handler) loginForm(c *gin.Context) {
	if h.redirectIfAuthenticated(c) {
		return
	}

	h.render(c, http.StatusOK, "login.html", gin.H{"Email": "", "Next": safeNext(c.Query("next"))})
}

func (h *Handler) login(c *gin.Context) {
	if h.redirectIfAuthenticated(c) {
		return
	}

	var input dto.LoginRequest
	_ = c.ShouldBind(&input)

	id, err := h.services.Auth.SignIn(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFieldsEmpty):
			h.flash(c, "danger", "Email and password cannot be empty.")
		case errors.Is(err, service.ErrInvalidCredentials):
			h.flash(c, "danger", "Invalid email or password.")
		default:
			h.flash(c, "danger", "An unexpected error occurred during login: "+err.Error())
		}
		h.render(c, http.StatusOK, "login.html", gin.H{"Email": input.Email, "Next": safeNext(c.Query("next"))})
		return
	}

	if err := h.bindSession(c, id.UID); err != nil {
		c.String(http.StatusInternalServerError, "Error establishing session.")
		return
	}

	h.flash(c, "success", "Logged in successfully! Welcome back.")
	h.redirect(c, http.StatusSeeOther, safeNext(c.Query("next")))
}

func (h *Handler) logout(c *gin.Context) {
	if id := h.currentIdentity(c); id != nil {
		h.services.Auth.ForgetIdentity(c.Request.Context(), id.UID)
	}
	h.clearSession(c)

	h.flash(c, "info", "You have been logged out.")
	h.redirect(c, http.StatusFound, "/")
}

func (h *Handler) redirectIfAuthenticated(c *gin.Context) bool {
	if h.currentIdentity(c) == nil {
		return false
	}

	h.flash(c, "info", "You are already logged in.")
	h.redirect(c, http.StatusFound, "/")
	return true
}

// safeNext keeps the post-login resume target on this site.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/"
}
