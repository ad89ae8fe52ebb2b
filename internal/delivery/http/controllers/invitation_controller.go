package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"certinvite/internal/delivery/http/helpers"
	"certinvite/internal/delivery/http/middleware"
	"certinvite/internal/domain"
	"certinvite/internal/services"
)

// maxActivations bounds the per-invitation quantity accepted on the admin surface.
const maxActivations = 10000

// CreateInvitationRequest is the request body for POST /admin/profiles/{profileID}/invitations.
// Activations 0 creates an invitation without a quantity limit.
type CreateInvitationRequest struct {
	UserID      int64  `json:"user_id"`
	Activations int    `json:"activations"`
	Email       string `json:"email,omitempty"`
}

// Validate implements Validator.
func (c CreateInvitationRequest) Validate() []string {
	var errs []string
	if c.UserID <= 0 {
		errs = append(errs, "user_id must be a positive integer")
	}
	if c.Activations < 0 || c.Activations > maxActivations {
		errs = append(errs, "activations must be between 0 and "+strconv.Itoa(maxActivations))
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			errs = append(errs, "email is not a valid address")
		}
	}
	return errs
}

// CreateInvitationResponse is returned by POST /admin/profiles/{profileID}/invitations.
type CreateInvitationResponse struct {
	Invitation *domain.Invitation `json:"invitation"`
	Link       string             `json:"link"`
	MailSent   bool               `json:"mail_sent"`
}

// CreateInvitationSuccessResponse is the success response envelope for invitation creation (201).
type CreateInvitationSuccessResponse struct {
	Data  CreateInvitationResponse `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// InvitationListItem is an invitation together with its redemption link.
type InvitationListItem struct {
	*domain.Invitation
	Link string `json:"link"`
}

// ListInvitationsResponse is the response body for GET /admin/profiles/{profileID}/invitations.
type ListInvitationsResponse struct {
	Items      []InvitationListItem   `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListInvitationsSuccessResponse is the success response envelope for invitation listing (200).
type ListInvitationsSuccessResponse struct {
	Data  ListInvitationsResponse `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// InvitationSuccessResponse is the envelope for endpoints returning one invitation.
type InvitationSuccessResponse struct {
	Data  *domain.Invitation `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// IssueCertificateRequest is the request body for POST /admin/invitations/{token}/certificates.
type IssueCertificateRequest struct {
	SerialNumber string    `json:"serial_number"`
	CAType       string    `json:"ca_type"`
	Expiry       time.Time `json:"expiry"`
}

// Validate implements Validator.
func (c IssueCertificateRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.SerialNumber) == "" {
		errs = append(errs, "serial_number is required")
	}
	if strings.TrimSpace(c.CAType) == "" {
		errs = append(errs, "ca_type is required")
	}
	if c.Expiry.IsZero() {
		errs = append(errs, "expiry is required")
	}
	return errs
}

// CertificateSuccessResponse is the success response envelope for certificate recording (201).
type CertificateSuccessResponse struct {
	Data  *domain.Certificate `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// AccountStatusResponse is the public projection of an invitation. It never
// carries the owning profile or user.
type AccountStatusResponse struct {
	Status               domain.InvitationStatus `json:"status"`
	Expiry               time.Time               `json:"expiry"`
	ActivationsTotal     int                     `json:"activations_total"`
	ActivationsRemaining int                     `json:"activations_remaining"`
	Certificates         []*domain.Certificate   `json:"certificates"`
}

// AccountStatusSuccessResponse is the success response envelope for GET /accountstatus (200).
type AccountStatusSuccessResponse struct {
	Data  AccountStatusResponse `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

type InvitationController struct {
	Logger        *slog.Logger
	Ledger        domain.InvitationLedger
	Certificates  domain.CertificateService
	Notifier      domain.InvitationNotifier
	PublicBaseURL string
}

// NewInvitationController wires the invitation endpoints. notifier may be nil,
// in which case invitations are never mailed.
func NewInvitationController(logger *slog.Logger, ledger domain.InvitationLedger, certificates domain.CertificateService, notifier domain.InvitationNotifier, publicBaseURL string) *InvitationController {
	return &InvitationController{
		Logger:        logger,
		Ledger:        ledger,
		Certificates:  certificates,
		Notifier:      notifier,
		PublicBaseURL: publicBaseURL,
	}
}

// CreateInvitation godoc
// @Summary Create an invitation
// @Description Creates an invitation for a user of the given profile and returns it with its redemption link. When email is given the link is mailed; mail_sent reports whether that succeeded. activations 0 means no quantity limit.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profileID path int true "Profile ID"
// @Param body body CreateInvitationRequest true "Invitation data"
// @Success 201 {object} controllers.CreateInvitationSuccessResponse "data contains the invitation and link"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/profiles/{profileID}/invitations [post]
func (c *InvitationController) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	profileID, ok := parseProfileID(w, r)
	if !ok {
		return
	}
	var req CreateInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	inv, err := c.Ledger.Create(r.Context(), profileID, req.UserID, req.Activations)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	link, err := services.BuildInvitationLink(c.PublicBaseURL, true, inv.Token)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	resp := CreateInvitationResponse{Invitation: inv, Link: link}
	if req.Email != "" && c.Notifier != nil {
		if err := c.Notifier.SendInvitation(r.Context(), inv, req.Email, link); err != nil {
			c.Logger.WarnContext(r.Context(), "invitation mail failed", "invitation_id", inv.ID, "err", err)
		} else {
			resp.MailSent = true
		}
	}
	if principal, ok := middleware.PrincipalFromContext(r.Context()); ok {
		c.Logger.InfoContext(r.Context(), "invitation issued by operator", "invitation_id", inv.ID, "operator", principal.Subject)
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, resp)
}

// ListInvitations godoc
// @Summary List invitations of a profile
// @Description Returns the invitations of a profile with derived status, newest expiry first.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param profileID path int true "Profile ID"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListInvitationsSuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /admin/profiles/{profileID}/invitations [get]
func (c *InvitationController) ListInvitations(w http.ResponseWriter, r *http.Request) {
	profileID, ok := parseProfileID(w, r)
	if !ok {
		return
	}
	params := helpers.ParsePagination(r)
	invs, total, err := c.Ledger.ListByProfile(r.Context(), profileID, params)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	items := make([]InvitationListItem, 0, len(invs))
	for _, inv := range invs {
		link, err := services.BuildInvitationLink(c.PublicBaseURL, true, inv.Token)
		if err != nil {
			c.writeError(w, r, err)
			return
		}
		items = append(items, InvitationListItem{Invitation: inv, Link: link})
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListInvitationsResponse{Items: items, Pagination: meta})
}

// RevokeInvitation godoc
// @Summary Revoke an invitation
// @Description Moves the invitation expiry to now. Revoking an already expired invitation keeps its earlier expiry.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param token path string true "Invitation token"
// @Success 200 {object} controllers.InvitationSuccessResponse "data contains the reloaded invitation"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /admin/invitations/{token}/revoke [post]
func (c *InvitationController) RevokeInvitation(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	inv, err := c.Ledger.Load(r.Context(), token)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	if err := c.Ledger.Revoke(r.Context(), inv); err != nil {
		c.writeError(w, r, err)
		return
	}
	inv, err = c.Ledger.Load(r.Context(), token)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, inv)
}

// IssueCertificate godoc
// @Summary Record an issued certificate
// @Description Records a certificate minted under the invitation. Fails when the invitation is unknown, expired or has no activations left.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param token path string true "Invitation token"
// @Param body body IssueCertificateRequest true "Certificate data"
// @Success 201 {object} controllers.CertificateSuccessResponse "data contains the recorded certificate"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /admin/invitations/{token}/certificates [post]
func (c *InvitationController) IssueCertificate(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	var req IssueCertificateRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	cert, err := c.Certificates.Issue(r.Context(), token, req.SerialNumber, req.CAType, req.Expiry)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, cert)
}

// AccountStatus godoc
// @Summary Resolve an invitation token
// @Description Public lookup used by the redemption front end. Unknown and expired tokens still return 200 with status invalid or expired.
// @Tags public
// @Produce json
// @Param token query string true "Invitation token"
// @Success 200 {object} controllers.AccountStatusSuccessResponse "data contains the invitation status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /accountstatus [get]
func (c *InvitationController) AccountStatus(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing token")
		return
	}
	inv, err := c.Ledger.Load(r.Context(), token)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, AccountStatusResponse{
		Status:               inv.Status,
		Expiry:               inv.Expiry,
		ActivationsTotal:     inv.ActivationsTotal,
		ActivationsRemaining: inv.ActivationsRemaining,
		Certificates:         inv.Certificates,
	})
}

func parseProfileID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("profileID"), 10, 64)
	if err != nil || id <= 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "profileID must be a positive integer")
		return 0, false
	}
	return id, true
}

// writeError maps ledger errors to responses. Store details are logged, not returned.
func (c *InvitationController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "invitation not found")
	case errors.Is(err, domain.ErrInvitationExpired):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "this invitation has expired")
	case errors.Is(err, domain.ErrInvitationRedeemed), errors.Is(err, domain.ErrActivationsExhausted):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "this invitation has no activations left")
	case errors.Is(err, domain.ErrDuplicateCertificate):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "a certificate with this serial number is already recorded")
	case errors.Is(err, domain.ErrStoreUnavailable):
		c.Logger.ErrorContext(r.Context(), "request failed", "route", r.Pattern, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeServiceUnavailable, "invitation store unavailable, try again later")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "route", r.Pattern, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
	}
}
