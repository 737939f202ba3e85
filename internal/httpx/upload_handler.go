package httpx

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lukelektro/storefront-api/internal/upload"
)

type UploadHandler struct {
	Store *upload.Store
}

func (h *UploadHandler) Register(r *chi.Mux) {
	r.Post("/api/upload/image", h.uploadImage)
	r.Delete("/api/upload/image/{filename}", h.deleteImage)
}

func (h *UploadHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxSize+4096)
	if err := r.ParseMultipartForm(upload.MaxSize); err != nil {
		writeError(w, http.StatusBadRequest, "El archivo es demasiado grande. Máximo 5MB.")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No se ha seleccionado ningún archivo")
		return
	}
	defer file.Close()

	if header.Size > upload.MaxSize {
		writeError(w, http.StatusBadRequest, "El archivo es demasiado grande. Máximo 5MB.")
		return
	}

	name, err := h.Store.Save(header.Header.Get("Content-Type"), file)
	if errors.Is(err, upload.ErrInvalidType) {
		writeError(w, http.StatusBadRequest, "Tipo de archivo no válido. Solo se permiten imágenes.")
		return
	}
	if err != nil {
		log.Printf("upload image: %v", err)
		writeError(w, http.StatusInternalServerError, "Error del servidor al subir la imagen")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Imagen subida exitosamente",
		"imagePath": "/images/" + name,
		"fileName":  name,
	})
}

func (h *UploadHandler) deleteImage(w http.ResponseWriter, r *http.Request) {
	err := h.Store.Remove(chi.URLParam(r, "filename"))
	if errors.Is(err, upload.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Archivo no encontrado")
		return
	}
	if err != nil {
		log.Printf("delete image: %v", err)
		writeError(w, http.StatusInternalServerError, "Error del servidor al eliminar la imagen")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Imagen eliminada exitosamente"})
}
