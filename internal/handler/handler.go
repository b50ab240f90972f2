package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/quillhub/blog-service/internal/model"
	"github.com/quillhub/blog-service/internal/service"
	"github.com/quillhub/blog-service/pkg/utils"
	"github.com/spf13/viper"
)

const (
	sessionCookie = "session"
	identityKey   = "identity"
)

type Handler struct {
	services      *service.Service
	sessionSecret []byte
}

func New(services *service.Service, sessionSecret []byte) *Handler {
	return &Handler{
		services:      services,
		sessionSecret: sessionSecret,
	}
}

func (h *Handler) InitRoutes(templatesGlob string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Delete must stay POST-only; report 405 instead of falling through to 404.
	r.HandleMethodNotAllowed = true

	r.LoadHTMLGlob(templatesGlob)
	r.Static("/static", "./web/static")

	r.Use(h.currentUserMiddleware)

	r.GET("/", h.index)
	r.GET("/signup", h.signupForm)
	r.POST("/signup", h.signup)
	r.GET("/login", h.loginForm)
	r.POST("/login", h.login)
	r.GET("/logout", h.requireAuth, h.logout)
	r.GET("/new_post", h.requireAuth, h.newPostForm)
	r.POST("/new_post", h.requireAuth, h.newPost)
	r.GET("/post/:id", h.viewPost)
	r.GET("/edit_post/:id", h.requireAuth, h.editPostForm)
	r.POST("/edit_post/:id", h.requireAuth, h.editPost)
	r.POST("/delete_post/:id", h.requireAuth, h.deletePost)

	r.NoRoute(h.notFound)
	r.NoMethod(h.methodNotAllowed)

	return r
}

func (h *Handler) currentIdentity(c *gin.Context) *model.Identity {
	v, _ := c.Get(identityKey)

	id, ok := v.(model.Identity)
	if !ok {
		return nil
	}

	return &id
}

// bindSession issues the signed session cookie holding the identity's uid.
func (h *Handler) bindSession(c *gin.Context, uid string) error {
	ttl := viper.GetDuration("session.ttl")
	if ttl == 0 {
		ttl = 7 * 24 * time.Hour
	}

	token, err := utils.GenerateJWT(jwt.MapClaims{
		"uid": uid,
		"exp": time.Now().Add(ttl).Unix(),
	}, h.sessionSecret)
	if err != nil {
		return err
	}

	c.SetCookie(sessionCookie, token, int(ttl.Seconds()), "/", "", false, true)
	return nil
}

func (h *Handler) clearSession(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}

// render draws an HTML view with the queued notices and the current identity.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Notices"] = h.takeNotices(c)
	data["CurrentUser"] = h.currentIdentity(c)
	c.HTML(status, name, data)
}

func (h *Handler) notFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "404.html", nil)
}

func (h *Handler) methodNotAllowed(c *gin.Context) {
	c.String(http.StatusMethodNotAllowed, "405 method not allowed")
}
