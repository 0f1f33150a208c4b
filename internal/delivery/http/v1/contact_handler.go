package v1

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"natsu-gallery-backend/internal/delivery/http/middleware"
	"natsu-gallery-backend/internal/delivery/http/response"
	"natsu-gallery-backend/internal/domain"
	"natsu-gallery-backend/pkg/apperror"
	"natsu-gallery-backend/pkg/ratelimit"
)

const (
	msgContactAccepted    = "お問い合わせを受け付けました。"
	msgContactRateLimited = "短期間に多くのリクエストがありました。しばらくしてから再度お試しください。"
	msgContactSendFailed  = "お問い合わせの送信中にエラーが発生しました。"
	msgContactUnavailable = "現在お問い合わせを受け付けできません。しばらくしてから再度お試しください。"
	msgContactTooLarge    = "リクエストの内容が大きすぎます。"

	msgContactBodyUnreadable = "リクエスト本文を読み取れませんでした。"

	defaultMaxBodyBytes = 16 << 10
)

type ContactHandler struct {
	contactUC    domain.ContactUsecase
	maxBodyBytes int64
	now          func() time.Time
}

// NewContactHandler registers the contact routes (public, no auth required)
func NewContactHandler(api *gin.RouterGroup, contactUC domain.ContactUsecase, maxBodyBytes int64, now func() time.Time) {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	if now == nil {
		now = time.Now
	}
	handler := &ContactHandler{
		contactUC:    contactUC,
		maxBodyBytes: maxBodyBytes,
		now:          now,
	}

	api.POST("/contact", handler.SubmitContact)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Relays a contact form submission to the site owner by email. Limited to 5 requests per minute per client.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.MessageResponse
// @Failure      400      {object}  response.ErrorsResponse
// @Failure      413      {object}  response.MessageResponse
// @Failure      429      {object}  response.MessageResponse
// @Failure      500      {object}  response.MessageResponse
// @Failure      503      {object}  response.MessageResponse
// @Header       all      {integer} RateLimit-Limit      "Requests allowed per window"
// @Header       all      {integer} RateLimit-Remaining  "Requests left in the current window"
// @Header       all      {integer} RateLimit-Reset      "Seconds until the window resets"
// @Header       429      {integer} Retry-After          "Seconds until the next request may be sent"
// @Router       /api/contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Error(apperror.PayloadTooLarge(msgContactTooLarge))
			return
		}
		readErr := apperror.Validation([]domain.FieldError{{Field: "body", Message: msgContactBodyUnreadable}})
		readErr.Err = err
		c.Error(readErr)
		return
	}

	client := domain.ClientInfo{
		Key:       c.ClientIP(),
		RequestID: middleware.GetRequestID(c),
		Endpoint:  c.FullPath(),
		UserAgent: c.Request.UserAgent(),
	}

	result, err := h.contactUC.Submit(c.Request.Context(), client, body)
	if result.RateLimit != nil {
		middleware.SetRateLimitHeaders(c, *result.RateLimit, h.now())
	}

	var verrs domain.ValidationErrors
	switch {
	case err == nil:
		response.Message(c, http.StatusOK, msgContactAccepted)
	case errors.Is(err, domain.ErrRateLimited):
		c.Error(apperror.TooManyRequests(msgContactRateLimited))
	case errors.As(err, &verrs):
		c.Error(apperror.Validation([]domain.FieldError(verrs)))
	case errors.Is(err, ratelimit.ErrStoreUnavailable):
		c.Error(apperror.ServiceUnavailable(msgContactUnavailable, err))
	default:
		c.Error(apperror.New(http.StatusInternalServerError, msgContactSendFailed, err))
	}
}
