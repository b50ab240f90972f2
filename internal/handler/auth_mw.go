package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/quillhub/blog-service/pkg/utils"
)

// currentUserMiddleware resolves the session cookie to an identity for every
// request. Any failure leaves the request unauthenticated; public routes still
// work without a session.
func (h *Handler) currentUserMiddleware(c *gin.Context) {
	token, err := c.Cookie(sessionCookie)
	if err != nil || token == "" {
		c.Next()
		return
	}

	claims, err := utils.DecodeJWT(token, h.sessionSecret)
	if err != nil {
		c.Next()
		return
	}

	uid, ok := claims["uid"].(string)
	if !ok || uid == "" {
		c.Next()
		return
	}

	id, err := h.services.Auth.IdentityByUID(c.Request.Context(), uid)
	if err != nil {
		// Stale session for a deleted or unresolvable account.
		c.Next()
		return
	}

	c.Set(identityKey, *id)

	c.Next()
}

// requireAuth gates routes that need a signed-in identity. The original
// request target rides along so login can resume it.
func (h *Handler) requireAuth(c *gin.Context) {
	if h.currentIdentity(c) != nil {
		c.Next()
		return
	}

	h.flash(c, "warning", "Please log in to access this page.")
	h.redirect(c, http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
	c.Abort()
}
