package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dmreyes-dev/partstream-backend/api/middleware"
	"github.com/dmreyes-dev/partstream-backend/api/responses"
	"github.com/dmreyes-dev/partstream-backend/api/validators"
	inquirysvc "github.com/dmreyes-dev/partstream-backend/internal/inquiries"
	"github.com/dmreyes-dev/partstream-backend/pkg/enums"
	pkgerrors "github.com/dmreyes-dev/partstream-backend/pkg/errors"
	"github.com/dmreyes-dev/partstream-backend/pkg/logger"
	"github.com/dmreyes-dev/partstream-backend/pkg/pagination"
)

type createInquiryRequest struct {
	ProductID    string  `json:"productId" validate:"required,uuid"`
	VehicleMake  string  `json:"vehicleMake" validate:"required"`
	VehicleModel string  `json:"vehicleModel" validate:"required"`
	VehicleYear  int     `json:"vehicleYear" validate:"required,min=1900"`
	VehicleVIN   *string `json:"vehicleVin,omitempty"`
	ContactPhone string  `json:"contactPhone" validate:"required"`
	ContactEmail string  `json:"contactEmail" validate:"required,email"`
	Type         *string `json:"type,omitempty"`
	Message      string  `json:"message" validate:"required"`
}

type updateInquiryRequest struct {
	Status     *string `json:"status,omitempty"`
	AdminNotes *string `json:"adminNotes,omitempty"`
}

// CreateInquiry files an inquiry for the authenticated customer.
func CreateInquiry(svc inquirysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload createInquiryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid productId"))
			return
		}

		var inquiryType enums.InquiryType
		if payload.Type != nil {
			parsed, err := enums.ParseInquiryType(strings.TrimSpace(*payload.Type))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type"))
				return
			}
			inquiryType = parsed
		}

		inquiry, err := svc.Create(r.Context(), userID, inquirysvc.CreateInquiryInput{
			ProductID:    productID,
			VehicleMake:  payload.VehicleMake,
			VehicleModel: payload.VehicleModel,
			VehicleYear:  payload.VehicleYear,
			VehicleVIN:   payload.VehicleVIN,
			ContactPhone: payload.ContactPhone,
			ContactEmail: payload.ContactEmail,
			Type:         inquiryType,
			Message:      payload.Message,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"inquiry": inquiry})
	}
}

// ListInquiries serves the admin inbox, filterable by status and type.
func ListInquiries(svc inquirysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filters inquirysvc.ListFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseInquiryStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filters.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			inquiryType, err := enums.ParseInquiryType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type"))
				return
			}
			filters.Type = &inquiryType
		}

		params := pagination.ParseParams(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))
		rows, total, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteList(w, responses.ListMeta{
			Results: len(rows),
			Total:   total,
			Page:    params.Page,
			Pages:   params.Pages(total),
		}, map[string]any{"inquiries": rows})
	}
}

// GetInquiry returns one inquiry with its product and author.
func GetInquiry(svc inquirysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		inquiry, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"inquiry": inquiry})
	}
}

// UpdateInquiry lets an admin move the inquiry through the pipeline and
// attach notes.
func UpdateInquiry(svc inquirysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateInquiryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := inquirysvc.UpdateInquiryInput{AdminNotes: payload.AdminNotes}
		if payload.Status != nil {
			status, err := enums.ParseInquiryStatus(strings.TrimSpace(*payload.Status))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			input.Status = &status
		}

		inquiry, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"inquiry": inquiry})
	}
}

// DeleteInquiry permanently removes an inquiry.
func DeleteInquiry(svc inquirysvc.Service, logg *logger.Logger) http.HandlerFunc {
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
