package dto

type PostFormRequest struct {
	Title   string `form:"title"`
	Content string `form:"content"`
}
