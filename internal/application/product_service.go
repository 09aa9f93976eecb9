package application

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	repo "github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/validation"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 9
	MaxPageSize     = 100

	// keeps (page-1)*limit well inside the int64 skip Mongo accepts
	MaxPage = math.MaxInt32

	defaultSearchSize = 10
	maxSearchSize     = 50
)

// ProductCache is a read-through cache for single products keyed by id
type ProductCache interface {
	Get(ctx context.Context, id string) (*entity.Product, bool, error)
	Set(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id string) error
}

// ProductIndex is a full-text search index over the catalog
type ProductIndex interface {
	Index(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]entity.Product, error)
}

// ImageStore persists uploaded product images and returns their public URL
type ImageStore interface {
	Upload(ctx context.Context, r io.Reader, filename, contentType string) (string, error)
}

type ProductService struct {
	Repo   repo.ProductRepository
	Cache  ProductCache
	Index  ProductIndex
	Images ImageStore
	Logger *logrus.Logger
}

// NewProductService builds the catalog service. cache, index and images may be nil.
func NewProductService(r repo.ProductRepository, cache ProductCache, index ProductIndex, images ImageStore, logger *logrus.Logger) *ProductService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ProductService{Repo: r, Cache: cache, Index: index, Images: images, Logger: logger}
}

type ColorVariantInput struct {
	Color        string   `json:"color" binding:"required"`
	MainImage    string   `json:"mainImage" binding:"required"`
	HoverImage   string   `json:"hoverImage" binding:"required"`
	DetailImages []string `json:"detailImages"`
}

type CreateProductInput struct {
	Title            string              `json:"title" binding:"required"`
	Designer         string              `json:"designer" binding:"required"`
	ProductType      string              `json:"productType" binding:"required"`
	ColorVariants    []ColorVariantInput `json:"colorVariants" binding:"required,min=1,dive"`
	Dimensions       string              `json:"dimensions"`
	Material         string              `json:"material"`
	Colors           string              `json:"colors"`
	Currency         string              `json:"currency" binding:"required"`
	Price            *float64            `json:"price" binding:"required,gte=0"`
	OldPrice         *float64            `json:"oldPrice" binding:"omitempty,gte=0"`
	Rating           float64             `json:"rating" binding:"gte=0,lte=5"`
	IsNewProduct     bool                `json:"isNewProduct"`
	IsSoldOut        bool                `json:"isSoldOut"`
	AvailableUnits   int                 `json:"availableUnits" binding:"gte=0"`
	DescriptionTitle string              `json:"descriptionTitle"`
	DescriptionText  string              `json:"descriptionText"`
}

func (in CreateProductInput) toEntity() *entity.Product {
	variants := make([]entity.ColorVariant, 0, len(in.ColorVariants))
	for _, v := range in.ColorVariants {
		variants = append(variants, entity.ColorVariant{
			Color:        v.Color,
			MainImage:    v.MainImage,
			HoverImage:   v.HoverImage,
			DetailImages: v.DetailImages,
		})
	}
	p := &entity.Product{
		Title:            in.Title,
		Designer:         in.Designer,
		ProductType:      in.ProductType,
		ColorVariants:    variants,
		Dimensions:       entity.NilIfEmpty(in.Dimensions),
		Material:         entity.NilIfEmpty(in.Material),
		Colors:           entity.NilIfEmpty(in.Colors),
		Currency:         in.Currency,
		Price:            *in.Price,
		Rating:           in.Rating,
		IsNewProduct:     in.IsNewProduct,
		IsSoldOut:        in.IsSoldOut,
		AvailableUnits:   in.AvailableUnits,
		DescriptionTitle: entity.NilIfEmpty(in.DescriptionTitle),
		DescriptionText:  entity.NilIfEmpty(in.DescriptionText),
	}
	if in.OldPrice != nil && *in.OldPrice != 0 {
		v := *in.OldPrice
		p.OldPrice = &v
	}
	p.EnsureVariantIDs()
	p.RecomputeDiscount()
	return p
}

type ListProductsInput struct {
	Filter entity.ProductFilter
	Page   int
	Limit  int
}

type ProductPage struct {
	TotalCount int64            `json:"totalCount"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Products   []entity.Product `json:"products"`
}

func (s *ProductService) List(ctx context.Context, in ListProductsInput) (*ProductPage, error) {
	if in.Page == 0 {
		in.Page = DefaultPage
	}
	if in.Limit == 0 {
		in.Limit = DefaultPageSize
	}
	details := map[string]string{}
	if in.Page < 1 {
		details["page"] = "must be at least 1"
	} else if in.Page > MaxPage {
		details["page"] = "must be at most 2147483647"
	}
	if in.Limit < 1 || in.Limit > MaxPageSize {
		details["limit"] = "must be between 1 and 100"
	}
	f := in.Filter
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		details["minPrice"] = "must not exceed maxPrice"
	}
	if len(details) > 0 {
		return nil, invalid("invalid query parameters", details)
	}

	products, total, err := s.Repo.List(ctx, f, in.Page, in.Limit)
	if err != nil {
		s.Logger.WithError(err).Error("list products failed")
		return nil, err
	}
	if products == nil {
		products = []entity.Product{}
	}
	return &ProductPage{TotalCount: total, Page: in.Page, Limit: in.Limit, Products: products}, nil
}

func (s *ProductService) GetByTitle(ctx context.Context, title string) (*entity.Product, error) {
	p, err := s.Repo.GetByTitle(ctx, title)
	if err != nil {
		return nil, s.mapRepoErr(err, "get product by title failed")
	}
	return p, nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	oid, err := parseID(id, "product id")
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		cached, ok, cErr := s.Cache.Get(ctx, oid.Hex())
		if cErr != nil {
			s.Logger.WithError(cErr).WithField("product_id", id).Warn("product cache read failed")
		} else if ok {
			productCacheHits.Add(1)
			return cached, nil
		}
	}
	p, err := s.Repo.GetByID(ctx, oid)
	if err != nil {
		return nil, s.mapRepoErr(err, "get product by id failed")
	}
	if s.Cache != nil {
		if cErr := s.Cache.Set(ctx, p); cErr != nil {
			s.Logger.WithError(cErr).WithField("product_id", id).Warn("product cache write failed")
		}
	}
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*entity.Product, error) {
	if err := validation.Struct(in); err != nil {
		return nil, invalid("invalid product", validation.ToDetails(err))
	}
	p := in.toEntity()
	if err := s.Repo.Create(ctx, p); err != nil {
		s.Logger.WithError(err).WithField("title", p.Title).Error("create product failed")
		return nil, err
	}
	productsCreated.Add(1)
	s.Logger.WithField("product_id", p.ID.Hex()).Info("product created")
	s.indexProduct(ctx, p)
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id string, patch entity.ProductPatch) (*entity.Product, error) {
	oid, err := parseID(id, "product id")
	if err != nil {
		return nil, err
	}
	if details := patch.Validate(); len(details) > 0 {
		return nil, invalid("invalid product update", details)
	}
	p, err := s.Repo.GetByID(ctx, oid)
	if err != nil {
		return nil, s.mapRepoErr(err, "load product for update failed")
	}
	patch.Apply(p)
	if err := s.Repo.Replace(ctx, p); err != nil {
		return nil, s.mapRepoErr(err, "update product failed")
	}
	s.evict(ctx, oid.Hex())
	s.indexProduct(ctx, p)
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "product id")
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, oid); err != nil {
		return s.mapRepoErr(err, "delete product failed")
	}
	s.evict(ctx, oid.Hex())
	if s.Index != nil {
		if iErr := s.Index.Delete(ctx, oid.Hex()); iErr != nil {
			s.Logger.WithError(iErr).WithField("product_id", id).Warn("product index delete failed")
		}
	}
	s.Logger.WithField("product_id", id).Info("product deleted")
	return nil
}

// Search runs a full-text query against the index and falls back to the
// title-substring listing when no index is configured or it fails.
func (s *ProductService) Search(ctx context.Context, q string, size int) ([]entity.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, invalid("invalid query parameters", map[string]string{"q": "is required"})
	}
	if size <= 0 || size > maxSearchSize {
		size = defaultSearchSize
	}
	if s.Index != nil {
		found, err := s.Index.Search(ctx, q, size)
		if err == nil {
			return found, nil
		}
		s.Logger.WithError(err).Warn("product index search failed, falling back to store")
	}
	products, _, err := s.Repo.List(ctx, entity.ProductFilter{Search: q}, 1, size)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []entity.Product{}
	}
	return products, nil
}

func (s *ProductService) UploadImage(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	if s.Images == nil {
		return "", ErrStorageDisabled
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", invalid("invalid upload", map[string]string{"file": "must be an image"})
	}
	url, err := s.Images.Upload(ctx, r, filename, contentType)
	if err != nil {
		s.Logger.WithError(err).WithField("filename", filename).Error("image upload failed")
		return "", err
	}
	return url, nil
}

func (s *ProductService) indexProduct(ctx context.Context, p *entity.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, p); err != nil {
		s.Logger.WithError(err).WithField("product_id", p.ID.Hex()).Warn("product index failed")
	}
}

func (s *ProductService) evict(ctx context.Context, id string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, id); err != nil {
		s.Logger.WithError(err).WithField("product_id", id).Warn("product cache evict failed")
	}
}

func (s *ProductService) mapRepoErr(err error, msg string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrProductNotFound
	}
	s.Logger.WithError(err).Error(msg)
	return err
}

func parseID(id, what string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, invalid("invalid "+what, map[string]string{what: "must be a valid ObjectID"})
	}
	return oid, nil
}
