package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime"
	"net/http"
	"strconv"

	"product-catalog/internal/catalog"
	"product-catalog/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// CatalogService defines the catalog operations the HTTP layer consumes.
type CatalogService interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, filters catalog.Filters) ([]domain.Product, error)
}

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	service  CatalogService
	validate *validator.Validate
}

// NewHTTPHandler creates a new HTTPHandler with dependencies.
func NewHTTPHandler(service CatalogService) *HTTPHandler {
	return &HTTPHandler{
		service:  service,
		validate: validator.New(),
	}
}

// --- Helpers ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil { // Avoid writing empty body for 204 No Content
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("ERROR: Failed to encode JSON response: %v", err)
			http.Error(w, `{"error": "Internal server error during JSON encoding"}`, http.StatusInternalServerError)
		}
	}
}

// requireJSON enforces an application/json Content-Type on write requests.
func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		respondWithError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	return true
}

// respondWithServiceError maps catalog sentinel errors to status codes.
func respondWithServiceError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		respondWithError(w, http.StatusNotFound, catalog.ErrNotFound.Error())
	case errors.As(err, &validationErr):
		respondWithError(w, http.StatusBadRequest, validationErr.Error())
	default:
		log.Printf("ERROR: catalog operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// --- Product Handlers ---

// ProductInput defines the expected input for creating or updating a
// product. Price arrives as a decimal string or number; pointers
// distinguish absent fields from zero values. Category strings are
// accepted as-is and coerced to a known tag, unknown labels included.
type ProductInput struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Available   *bool            `json:"available" validate:"required"`
	Category    string           `json:"category" validate:"required"`
}

func (in *ProductInput) toDomain() *domain.Product {
	return &domain.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       *in.Price,
		Available:   *in.Available,
		Category:    domain.ParseCategory(in.Category),
	}
}

func (h *HTTPHandler) decodeProductInput(w http.ResponseWriter, r *http.Request) (*ProductInput, bool) {
	var input ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return nil, false
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return nil, false
	}
	return &input, true
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}

	input, ok := h.decodeProductInput(w, r)
	if !ok {
		return
	}

	created, err := h.service.CreateProduct(r.Context(), input.toDomain())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/products/%d", created.ID))
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	// Ids are opaque to clients; anything that does not parse cannot be
	// stored, so it reads as absent rather than malformed.
	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusNotFound, catalog.ErrNotFound.Error())
		return
	}

	product, err := h.service.GetProduct(r.Context(), productID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, product)
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}

	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusNotFound, catalog.ErrNotFound.Error())
		return
	}

	input, ok := h.decodeProductInput(w, r)
	if !ok {
		return
	}

	updated, err := h.service.UpdateProduct(r.Context(), productID, input.toDomain())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	// Delete never asserts existence; an unparseable id denotes nothing
	// stored, so there is nothing to remove and the delete still succeeds.
	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err == nil {
		if err := h.service.DeleteProduct(r.Context(), productID); err != nil {
			respondWithServiceError(w, err)
			return
		}
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	qParams := r.URL.Query()

	var filters catalog.Filters
	if name := qParams.Get("name"); name != "" {
		filters.Name = &name
	}
	if category := qParams.Get("category"); category != "" {
		filters.Category = &category
	}
	if availableStr := qParams.Get("available"); availableStr != "" {
		available, err := strconv.ParseBool(availableStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid available value: must be true or false")
			return
		}
		filters.Available = &available
	}

	products, err := h.service.ListProducts(r.Context(), filters)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, products)
}

// --- Route Registration ---

// RegisterRoutes sets up the HTTP routes for the service.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.CreateProduct) // POST /products
		r.Get("/", h.ListProducts)   // GET /products

		r.Route("/{productId}", func(r chi.Router) {
			r.Get("/", h.GetProduct)       // GET /products/{productId}
			r.Put("/", h.UpdateProduct)    // PUT /products/{productId}
			r.Delete("/", h.DeleteProduct) // DELETE /products/{productId}
		})
	})
}
