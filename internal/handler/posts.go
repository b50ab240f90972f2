package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillhub/blog-service/internal/dto"
	"github.com/quillhub/blog-service/internal/markup"
	"github.com/quillhub/blog-service/internal/service"
)

func (h *Handler) index(c *gin.Context) {
	searchQuery := c.Query("q")

	var viewerEmail string
	if id := h.currentIdentity(c); id != nil {
		viewerEmail = id.Email
	}

	posts, err := h.services.Post.List(c.Request.Context(), searchQuery, viewerEmail)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading posts.")
		return
	}

	if searchQuery != "" && len(posts) == 0 {
		h.flash(c, "info", fmt.Sprintf("No posts found matching '%s'. Try a different search.", searchQuery))
	} else if searchQuery != "" {
		h.flash(c, "info", fmt.Sprintf("Showing results for: '%s'", searchQuery))
	}

	h.render(c, http.StatusOK, "index.html", gin.H{
		"Posts":       posts,
		"SearchQuery": searchQuery,
	})
}

func (h *Handler) newPostForm(c *gin.Context) {
	h.render(c, http.StatusOK, "new_post.html", gin.H{"Title": "", "Content": ""})
}

func (h *Handler) newPost(c *gin.Context) {
	user := h.currentIdentity(c)

	var input dto.PostFormRequest
	_ = c.ShouldBind(&input)

	if input.Title == "" || input.Content == "" {
		h.flash(c, "warning", "Title and content cannot be empty.")
		h.render(c, http.StatusOK, "new_post.html", gin.H{"Title": input.Title, "Content": input.Content})
		return
	}

	if _, err := h.services.Post.Create(c.Request.Context(), user.Email, input); err != nil {
		c.String(http.StatusInternalServerError, "Error saving post.")
		return
	}

	h.flash(c, "success", "Your post has been published!")
	h.redirect(c, http.StatusSeeOther, "/")
}

func (h *Handler) viewPost(c *gin.Context) {
	post, err := h.services.Post.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			h.flash(c, "danger", "Post not found.")
			h.redirect(c, http.StatusFound, "/")
			return
		}
		c.String(http.StatusInternalServerError, "Error loading post.")
		return
	}

	var viewerEmail string
	if id := h.currentIdentity(c); id != nil {
		viewerEmail = id.Email
	}

	h.render(c, http.StatusOK, "view_post.html", gin.H{
		"Post":        post,
		"ContentHTML": markup.Render(post.Content),
		"Timestamp":   post.DisplayTime(),
		"IsAuthor":    viewerEmail != "" && viewerEmail == post.Author,
	})
}

func (h *Handler) editPostForm(c *gin.Context) {
	user := h.currentIdentity(c)
	id := c.Param("id")

	post, err := h.services.Post.FindOwned(c.Request.Context(), id, user.Email)
	if err != nil {
		h.redirectOwnershipError(c, err, id, "edit", http.StatusFound)
		return
	}

	h.render(c, http.StatusOK, "edit_post.html", gin.H{
		"ID":      post.ID.String(),
		"Title":   post.Title,
		"Content": post.Content,
	})
}

func (h *Handler) editPost(c *gin.Context) {
	user := h.currentIdentity(c)
	id := c.Param("id")

	post, err := h.services.Post.FindOwned(c.Request.Context(), id, user.Email)
	if err != nil {
		h.redirectOwnershipError(c, err, id, "edit", http.StatusSeeOther)
		return
	}

	var input dto.PostFormRequest
	_ = c.ShouldBind(&input)

	if input.Title == "" || input.Content == "" {
		h.flash(c, "warning", "Title and content cannot be empty.")
		h.render(c, http.StatusOK, "edit_post.html", gin.H{
			"ID":      post.ID.String(),
			"Title":   input.Title,
			"Content": input.Content,
		})
		return
	}

	if err := h.services.Post.Update(c.Request.Context(), id, user.Email, input); err != nil {
		c.String(http.StatusInternalServerError, "Error updating post.")
		return
	}

	h.flash(c, "success", "Post updated successfully!")
	h.redirect(c, http.StatusSeeOther, "/post/"+post.ID.String())
}

func (h *Handler) deletePost(c *gin.Context) {
	user := h.currentIdentity(c)
	id := c.Param("id")

	if err := h.services.Post.Delete(c.Request.Context(), id, user.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound), errors.Is(err, service.ErrNotPostAuthor):
			h.redirectOwnershipError(c, err, id, "delete", http.StatusSeeOther)
		default:
			c.String(http.StatusInternalServerError, "Error deleting post.")
		}
		return
	}

	h.flash(c, "info", "Post deleted successfully!")
	h.redirect(c, http.StatusSeeOther, "/")
}

// redirectOwnershipError maps missing posts to the listing and non-owner
// mutation attempts to a soft redirect back to the post view, never a 403.
func (h *Handler) redirectOwnershipError(c *gin.Context, err error, id string, action string, status int) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		h.flash(c, "danger", "Post not found.")
		h.redirect(c, status, "/")
	case errors.Is(err, service.ErrNotPostAuthor):
		h.flash(c, "danger", "You can only "+action+" your own posts!")
		h.redirect(c, status, "/post/"+id)
	default:
		c.String(http.StatusInternalServerError, "Error loading post.")
	}
}
