package handler

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gin-gonic/gin"
)

// One-shot notices shown on the next rendered page. Notices queued before a
// redirect travel in a short-lived cookie; notices queued before a render in
// the same request are consumed directly.

const (
	flashCookie       = "flash"
	pendingNoticesKey = "pending-notices"

	flashCookieMaxAge = 300
)

type notice struct {
	Message  string `json:"message"`
	Category string `json:"category"`
}

func (h *Handler) flash(c *gin.Context, category string, message string) {
	pending := pendingNotices(c)
	pending = append(pending, notice{Message: message, Category: category})
	c.Set(pendingNoticesKey, pending)
}

// redirect persists queued notices into the flash cookie before redirecting,
// so the target page can display them.
func (h *Handler) redirect(c *gin.Context, status int, location string) {
	notices := append(cookieNotices(c), pendingNotices(c)...)
	if len(notices) > 0 {
		data, err := json.Marshal(notices)
		if err == nil {
			c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(data), flashCookieMaxAge, "/", "", false, true)
		}
	}
	c.Set(pendingNoticesKey, []notice(nil))
	c.Redirect(status, location)
}

// takeNotices drains both the flash cookie and this request's queued notices.
func (h *Handler) takeNotices(c *gin.Context) []notice {
	notices := cookieNotices(c)
	if len(notices) > 0 {
		c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	}

	notices = append(notices, pendingNotices(c)...)
	c.Set(pendingNoticesKey, []notice(nil))

	return notices
}

func pendingNotices(c *gin.Context) []notice {
	v, ok := c.Get(pendingNoticesKey)
	if !ok {
		return nil
	}

	pending, ok := v.([]notice)
	if !ok {
		return nil
	}

	return pending
}

func cookieNotices(c *gin.Context) []notice {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}

	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}

	var notices []notice
	if err := json.Unmarshal(data, &notices); err != nil {
		return nil
	}

	return notices
}
