package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/application"
	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/pkg/response"
)

// ProductService is the catalog surface used by ProductHandler
type ProductService interface {
	List(ctx context.Context, in application.ListProductsInput) (*application.ProductPage, error)
	GetByTitle(ctx context.Context, title string) (*entity.Product, error)
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Create(ctx context.Context, in application.CreateProductInput) (*entity.Product, error)
	Update(ctx context.Context, id string, patch entity.ProductPatch) (*entity.Product, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]entity.Product, error)
	UploadImage(ctx context.Context, r io.Reader, filename, contentType string) (string, error)
}

type ProductHandler struct {
	Svc    ProductService
	Logger *logrus.Logger
}

func NewProductHandler(svc ProductService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{Svc: svc, Logger: logger}
}

// List handles GET /products/all
func (h *ProductHandler) List(c *gin.Context) {
	q := newQueryParser(c)
	in := application.ListProductsInput{
		Page:  q.Int("page"),
		Limit: q.Int("limit"),
		Filter: entity.ProductFilter{
			Search:       c.Query("search"),
			Designer:     c.Query("designer"),
			ProductType:  c.Query("productType"),
			Color:        c.Query("color"),
			InStock:      q.Bool("inStock"),
			MinPrice:     q.Float("minPrice"),
			MaxPrice:     q.Float("maxPrice"),
			IsNewProduct: q.Bool("isNewProduct"),
		},
	}
	if !q.Valid() {
		response.Send(c, response.Error[any](c, http.StatusBadRequest, "invalid query", q.errors))
		return
	}
	page, err := h.Svc.List(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, page, "products fetched", nil))
}

func (h *ProductHandler) GetByTitle(c *gin.Context) {
	p, err := h.Svc.GetByTitle(c.Request.Context(), c.Param("title"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, p, "product fetched", nil))
}

func (h *ProductHandler) GetByID(c *gin.Context) {
	p, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, p, "product fetched", nil))
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req application.CreateProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusCreated, p, "product created", nil))
}

// Update applies a partial update; keys absent from the body are left untouched
func (h *ProductHandler) Update(c *gin.Context) {
	var patch entity.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeBindError(c, err)
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, p, "product updated", nil))
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, gin.H{"id": id}, "product deleted", nil))
}

func (h *ProductHandler) Search(c *gin.Context) {
	q := newQueryParser(c)
	size := q.Int("size")
	if !q.Valid() {
		response.Send(c, response.Error[any](c, http.StatusBadRequest, "invalid query", q.errors))
		return
	}
	products, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, products, "products fetched", gin.H{"count": len(products)}))
}

// UploadImage stores a multipart "file" and returns its public URL
func (h *ProductHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Send(c, response.Error[any](c, http.StatusBadRequest, "file is required", nil))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Send(c, response.Error[any](c, http.StatusBadRequest, "cannot open file", nil))
		return
	}
	defer f.Close()

	url, err := h.Svc.UploadImage(c.Request.Context(), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusCreated, gin.H{"url": url}, "image uploaded", nil))
}
