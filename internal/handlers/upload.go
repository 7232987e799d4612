package handlers

import (
	"net/http"

	"github.com/pasinduisuranga/traveler-app/internal/respond"
	"github.com/pasinduisuranga/traveler-app/internal/services"
)

const maxUploadBytes = 10 << 20 // 10 MB

// UploadHandler accepts multipart image uploads and returns the hosted URL.
// When no Cloudinary credentials are configured the route reports uploads
// unavailable instead of failing mid-request.
type UploadHandler struct {
	cloudinary *services.CloudinaryService
}

func NewUploadHandler(c *services.CloudinaryService) *UploadHandler {
	return &UploadHandler{cloudinary: c}
}

// Upload handles POST /api/upload. The file goes in the "image" form field;
// an optional "folder" field groups uploads (avatars, experiences).
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.cloudinary == nil {
		respond.Error(w, http.StatusServiceUnavailable, "File uploads are not available")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid upload, file too large or malformed")
		return
	}

	_, header, err := r.FormFile("image")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "No image file provided")
		return
	}

	folder := r.FormValue("folder")
	if folder == "" {
		folder = "etcp"
	}

	url, err := h.cloudinary.UploadFileFromHeader(r.Context(), header, folder)
	if err != nil {
		respond.Internal(w, err)
		return
	}

	respond.OK(w, map[string]string{"url": url}, "File uploaded successfully")
}
