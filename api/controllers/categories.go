package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmreyes-dev/partstream-backend/api/responses"
	"github.com/dmreyes-dev/partstream-backend/api/validators"
	categorysvc "github.com/dmreyes-dev/partstream-backend/internal/categories"
	pkgerrors "github.com/dmreyes-dev/partstream-backend/pkg/errors"
	"github.com/dmreyes-dev/partstream-backend/pkg/logger"
)

type createCategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=50"`
	ParentID    *string `json:"parentId,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=50"`
	ParentID    *string `json:"parentId,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

// ListCategories returns every active category as a flat list.
func ListCategories(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": rows})
	}
}

// ListParentCategories returns top-level categories with their subcategories.
func ListParentCategories(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListParents(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": rows})
	}
}

// GetCategory resolves the path segment as a UUID first and a slug second.
func GetCategory(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idOrSlug := chi.URLParam(r, "idOrSlug")
		category, err := svc.GetByIDOrSlug(r.Context(), idOrSlug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"category": category})
	}
}

// CreateCategory handles admin category creation.
func CreateCategory(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		parentID, err := parseOptionalUUID(payload.ParentID, "parentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.Create(r.Context(), categorysvc.CreateCategoryInput{
			Name:        payload.Name,
			ParentID:    parentID,
			Description: payload.Description,
			ImageURL:    payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"category": category})
	}
}

// UpdateCategory handles admin category mutation. Sending parentId as an
// empty string detaches the category from its parent.
func UpdateCategory(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := categorysvc.UpdateCategoryInput{
			Name:        payload.Name,
			Description: payload.Description,
			ImageURL:    payload.ImageURL,
		}
		if payload.ParentID != nil {
			if strings.TrimSpace(*payload.ParentID) == "" {
				input.ClearParent = true
			} else {
				parentID, err := parseOptionalUUID(payload.ParentID, "parentId")
				if err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
				input.ParentID = parentID
			}
		}

		category, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"category": category})
	}
}

// DeleteCategory soft-deletes a category.
func DeleteCategory(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
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

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+param)
	}
	return id, nil
}

func parseOptionalUUID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
	}
	return &parsed, nil
}
