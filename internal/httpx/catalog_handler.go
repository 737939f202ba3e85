package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lukelektro/storefront-api/internal/catalog"
	"github.com/lukelektro/storefront-api/internal/redisx"
)

type CatalogStore interface {
	List(ctx context.Context) ([]catalog.Product, error)
	Featured(ctx context.Context) ([]catalog.Product, error)
	Get(ctx context.Context, id int64) (catalog.Product, error)
	Create(ctx context.Context, in catalog.ProductInput) (catalog.Product, error)
	Update(ctx context.Context, id int64, in catalog.ProductInput) (catalog.Product, error)
	Delete(ctx context.Context, id int64) (catalog.Product, error)
	ListTypes(ctx context.Context) ([]catalog.ProductType, error)
}

type CatalogHandler struct {
	Repo  CatalogStore
	Cache *redisx.Cache
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Get("/api/producto", h.list)
	r.Get("/api/producto/destacados", h.featured)
	r.Get("/api/producto/{id}", h.get)
	r.Post("/api/producto", h.create)
	r.Put("/api/producto/{id}", h.update)
	r.Delete("/api/producto/{id}", h.delete)
	r.Get("/api/tipo-producto", h.listTypes)
}

func (h *CatalogHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Repo.List(ctx)
	if err != nil {
		log.Printf("list products: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if ps == nil {
		ps = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *CatalogHandler) featured(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var ps []catalog.Product
	if h.Cache.GetJSON(ctx, redisx.KeyFeaturedProducts, &ps) {
		writeJSON(w, http.StatusOK, ps)
		return
	}

	ps, err := h.Repo.Featured(ctx)
	if err != nil {
		log.Printf("featured products: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if ps == nil {
		ps = []catalog.Product{}
	}
	h.Cache.SetJSON(ctx, redisx.KeyFeaturedProducts, ps, redisx.TTLCatalogCache)
	writeJSON(w, http.StatusOK, ps)
}

func (h *CatalogHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Repo.Get(ctx, id)
	if errors.Is(err, catalog.ErrProductNotFound) {
		writeError(w, http.StatusNotFound, "Producto no encontrado")
		return
	}
	if err != nil {
		log.Printf("get product %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) create(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if in.Name == "" || in.Price <= 0 || in.TypeID == 0 {
		writeError(w, http.StatusBadRequest,
			"Faltan campos requeridos: nombre_prod, precio_prod, stock_prod, id_tipoprod")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Repo.Create(ctx, in)
	if err != nil {
		log.Printf("create product: %v", err)
		writeError(w, http.StatusInternalServerError, "Error del servidor al crear el producto")
		return
	}
	h.Cache.Invalidate(ctx, redisx.KeyFeaturedProducts)
	writeJSON(w, http.StatusCreated, p)
}

func (h *CatalogHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Repo.Update(ctx, id, in)
	if errors.Is(err, catalog.ErrProductNotFound) {
		writeError(w, http.StatusNotFound, "Producto no encontrado")
		return
	}
	if err != nil {
		log.Printf("update product %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Error del servidor")
		return
	}
	h.Cache.Invalidate(ctx, redisx.KeyFeaturedProducts)
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Repo.Delete(ctx, id)
	if errors.Is(err, catalog.ErrProductNotFound) {
		writeError(w, http.StatusNotFound, "Producto no encontrado")
		return
	}
	if err != nil {
		log.Printf("delete product %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Error del servidor")
		return
	}
	h.Cache.Invalidate(ctx, redisx.KeyFeaturedProducts)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Producto eliminado exitosamente",
		"producto": p,
	})
}

func (h *CatalogHandler) listTypes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var ts []catalog.ProductType
	if h.Cache.GetJSON(ctx, redisx.KeyProductTypes, &ts) {
		writeJSON(w, http.StatusOK, ts)
		return
	}

	ts, err := h.Repo.ListTypes(ctx)
	if err != nil {
		log.Printf("list product types: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if ts == nil {
		ts = []catalog.ProductType{}
	}
	h.Cache.SetJSON(ctx, redisx.KeyProductTypes, ts, redisx.TTLCatalogCache)
	writeJSON(w, http.StatusOK, ts)
}
