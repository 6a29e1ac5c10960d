package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

func validateNotReserved(fl validator.FieldLevel) bool {
	return !entity.IsReservedShortURL(fl.Field().String())
}

// createRequest is read from the query string of POST /.
type createRequest struct {
	FullURL  string  `json:"full_url" validate:"required"`
	ShortURL *string `json:"short_url" validate:"omitempty,min=1,max=32,alphanum,notreserved"`
}

type shortlinkResponse struct {
	FullURL     string `json:"full_url"`
	ShortURL    string `json:"short_url"`
	AdminKey    string `json:"admin_key"`
	CreatedAt   int64  `json:"created_at"`
	AccessCount int64  `json:"access_count"`
	Link        string `json:"link"`
}

func (h *shortlinkHandler) toShortlinkResponse(link *entity.Shortlink) shortlinkResponse {
	return shortlinkResponse{
		FullURL:     link.FullURL,
		ShortURL:    link.ShortURL,
		AdminKey:    link.AdminKey,
		CreatedAt:   link.CreatedAt,
		AccessCount: link.AccessCount,
		Link:        h.linkPrefix + "/" + link.ShortURL,
	}
}
