package controllers

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmreyes-dev/partstream-backend/api/responses"
	"github.com/dmreyes-dev/partstream-backend/api/validators"
	productsvc "github.com/dmreyes-dev/partstream-backend/internal/products"
	"github.com/dmreyes-dev/partstream-backend/pkg/enums"
	pkgerrors "github.com/dmreyes-dev/partstream-backend/pkg/errors"
	"github.com/dmreyes-dev/partstream-backend/pkg/listing"
	"github.com/dmreyes-dev/partstream-backend/pkg/logger"
)

type compatibilityRequest struct {
	Make      string `json:"make" validate:"required"`
	Model     string `json:"model" validate:"required"`
	YearStart int    `json:"yearStart" validate:"required,min=1900"`
	YearEnd   int    `json:"yearEnd" validate:"required,min=1900"`
}

type specificationRequest struct {
	Label string `json:"label" validate:"required"`
	Value string `json:"value" validate:"required"`
}

type createProductRequest struct {
	Name           string                 `json:"name" validate:"required,max=100"`
	SKU            string                 `json:"sku" validate:"required"`
	CategoryID     string                 `json:"categoryId" validate:"required,uuid"`
	Description    *string                `json:"description,omitempty"`
	Price          decimal.Decimal        `json:"price"`
	StockStatus    *string                `json:"stockStatus,omitempty"`
	ImageURL       string                 `json:"imageUrl" validate:"required"`
	Model3DURL     *string                `json:"model3dUrl,omitempty"`
	Model3DType    *string                `json:"model3dType,omitempty"`
	IsFeatured     *bool                  `json:"featured,omitempty"`
	Compatibility  []compatibilityRequest `json:"compatibility,omitempty" validate:"omitempty,dive"`
	Specifications []specificationRequest `json:"specification,omitempty" validate:"omitempty,dive"`
}

type updateProductRequest struct {
	Name           *string                 `json:"name,omitempty" validate:"omitempty,max=100"`
	SKU            *string                 `json:"sku,omitempty"`
	CategoryID     *string                 `json:"categoryId,omitempty" validate:"omitempty,uuid"`
	Description    *string                 `json:"description,omitempty"`
	Price          *decimal.Decimal        `json:"price,omitempty"`
	StockStatus    *string                 `json:"stockStatus,omitempty"`
	ImageURL       *string                 `json:"imageUrl,omitempty"`
	Model3DURL     *string                 `json:"model3dUrl,omitempty"`
	Model3DType    *string                 `json:"model3dType,omitempty"`
	ClearModel3D   bool                    `json:"clearModel3d,omitempty"`
	IsFeatured     *bool                   `json:"featured,omitempty"`
	Compatibility  *[]compatibilityRequest `json:"compatibility,omitempty" validate:"omitempty,dive"`
	Specifications *[]specificationRequest `json:"specification,omitempty" validate:"omitempty,dive"`
}

// ListProducts serves the public catalog listing: search, filters, vehicle
// compatibility, sorting, projection, and pagination from the query string.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := listing.Parse(r.URL.Query(), listing.ProductOptions())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, total, err := svc.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteList(w, responses.ListMeta{
			Results: len(rows),
			Total:   total,
			Page:    query.Pagination.Page,
			Pages:   query.Pagination.Pages(total),
		}, map[string]any{"products": rows})
	}
}

// GetProduct returns one active product with category, compatibility, and
// specifications.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"product": product})
	}
}

// CreateProduct handles admin product creation.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"product": product})
	}
}

// UpdateProduct handles admin product mutation.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"product": product})
	}
}

// DeleteProduct soft-deletes a product.
func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// UploadProductImage accepts a multipart "image" part, enforces the size cap
// and an image/* MIME type sniffed from the payload, and stores the object.
func UploadProductImage(svc productsvc.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image exceeds the size limit or is not valid multipart"))
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image file is required"))
			return
		}
		defer file.Close()

		// Sniff the real content type; the client-sent header is not trusted.
		head := make([]byte, 512)
		n, err := io.ReadFull(file, head)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable image payload"))
			return
		}
		head = head[:n]

		contentType := http.DetectContentType(head)
		if !strings.HasPrefix(contentType, "image/") {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "file must be an image"))
			return
		}

		body := io.MultiReader(bytes.NewReader(head), file)
		product, err := svc.UploadImage(r.Context(), id, productsvc.ImageUpload{
			Filename:    header.Filename,
			ContentType: contentType,
			Body:        body,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"product": product})
	}
}

func (req createProductRequest) toCreateInput() (productsvc.CreateProductInput, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid categoryId")
	}

	var stockStatus enums.StockStatus
	if req.StockStatus != nil {
		parsed, err := enums.ParseStockStatus(strings.TrimSpace(*req.StockStatus))
		if err != nil {
			return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stockStatus")
		}
		stockStatus = parsed
	}

	model3dType, err := parseOptionalModel3DType(req.Model3DType)
	if err != nil {
		return productsvc.CreateProductInput{}, err
	}

	isFeatured := false
	if req.IsFeatured != nil {
		isFeatured = *req.IsFeatured
	}

	return productsvc.CreateProductInput{
		Name:           req.Name,
		SKU:            req.SKU,
		CategoryID:     categoryID,
		Description:    req.Description,
		Price:          req.Price,
		StockStatus:    stockStatus,
		ImageURL:       strings.TrimSpace(req.ImageURL),
		Model3DURL:     req.Model3DURL,
		Model3DType:    model3dType,
		IsFeatured:     isFeatured,
		Compatibility:  toCompatibilityInputs(req.Compatibility),
		Specifications: toSpecificationInputs(req.Specifications),
	}, nil
}

func (req updateProductRequest) toUpdateInput() (productsvc.UpdateProductInput, error) {
	input := productsvc.UpdateProductInput{
		Name:         req.Name,
		SKU:          req.SKU,
		Description:  req.Description,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
		Model3DURL:   req.Model3DURL,
		ClearModel3D: req.ClearModel3D,
		IsFeatured:   req.IsFeatured,
	}

	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return productsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid categoryId")
		}
		input.CategoryID = &categoryID
	}

	if req.StockStatus != nil {
		parsed, err := enums.ParseStockStatus(strings.TrimSpace(*req.StockStatus))
		if err != nil {
			return productsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stockStatus")
		}
		input.StockStatus = &parsed
	}

	model3dType, err := parseOptionalModel3DType(req.Model3DType)
	if err != nil {
		return productsvc.UpdateProductInput{}, err
	}
	input.Model3DType = model3dType

	if req.Compatibility != nil {
		rows := toCompatibilityInputs(*req.Compatibility)
		input.Compatibility = &rows
	}
	if req.Specifications != nil {
		rows := toSpecificationInputs(*req.Specifications)
		input.Specifications = &rows
	}

	return input, nil
}

func parseOptionalModel3DType(raw *string) (*enums.Model3DType, error) {
	if raw == nil {
		return nil, nil
	}
	parsed, err := enums.ParseModel3DType(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid model3dType")
	}
	return &parsed, nil
}

func toCompatibilityInputs(rows []compatibilityRequest) []productsvc.CompatibilityInput {
	out := make([]productsvc.CompatibilityInput, 0, len(rows))
	for _, row := range rows {
		out = append(out, productsvc.CompatibilityInput{
			Make:      row.Make,
			Model:     row.Model,
			YearStart: row.YearStart,
			YearEnd:   row.YearEnd,
		})
	}
	return out
}

func toSpecificationInputs(rows []specificationRequest) []productsvc.SpecificationInput {
	out := make([]productsvc.SpecificationInput, 0, len(rows))
	for _, row := range rows {
		out = append(out, productsvc.SpecificationInput{
			Label: row.Label,
			Value: row.Value,
		})
	}
	return out
}
