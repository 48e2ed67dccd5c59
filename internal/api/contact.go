package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-contact/internal/contact"
	"portfolio-contact/internal/i18n"
	"portfolio-contact/internal/session"
	"portfolio-contact/internal/ws"
	"portfolio-contact/pkg/models"
)

const (
	SessionCookie = "contact_session"
	// EventState is the websocket event carrying a contact snapshot.
	EventState = "contact_state"
)

type ContactHandler struct {
	Sessions  *session.Manager
	Catalog   *i18n.Catalog
	Hub       *ws.Hub
	CookieTTL time.Duration
	Secure    bool
}

func NewContactHandler(sessions *session.Manager, catalog *i18n.Catalog, hub *ws.Hub, cookieTTL time.Duration) *ContactHandler {
	return &ContactHandler{Sessions: sessions, Catalog: catalog, Hub: hub, CookieTTL: cookieTTL}
}

// session returns the visitor's session, creating it on first contact, and
// refreshes the cookie.
func (h *ContactHandler) session(c *gin.Context) *session.Session {
	id, _ := c.Cookie(SessionCookie)
	locale := h.Catalog.Negotiate(c.Query("lang"), c.GetHeader("Accept-Language"))
	s, _ := h.Sessions.Acquire(id, locale)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, s.ID, int(h.CookieTTL.Seconds()), "/", "", h.Secure, true)
	return s
}

func (h *ContactHandler) GetState(c *gin.Context) {
	s := h.session(c)
	c.JSON(http.StatusOK, s.Controller.Snapshot())
}

func (h *ContactHandler) Change(c *gin.Context) {
	var req models.FieldChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	field, err := contact.ParseField(req.Field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := h.session(c)
	snap, err := s.Controller.Change(field, req.Value)
	if err != nil {
		controllerError(c, snap, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *ContactHandler) Blur(c *gin.Context) {
	var req models.FieldBlurRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	field, err := contact.ParseField(req.Field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := h.session(c)
	snap, err := s.Controller.Blur(field)
	if err != nil {
		controllerError(c, snap, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Submit answers once the relay call has settled. The relay call is not
// tied to the request so a visitor leaving the page does not abort it.
func (h *ContactHandler) Submit(c *gin.Context) {
	s := h.session(c)
	snap, err := s.Controller.Submit(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		controllerError(c, snap, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Stream pushes every snapshot of the visitor's session over a websocket.
// The session must already exist since the upgrade response cannot carry
// a new cookie.
func (h *ContactHandler) Stream(c *gin.Context) {
	id, _ := c.Cookie(SessionCookie)
	s, ok := h.Sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No contact session"})
		return
	}
	h.Hub.ServeWs(c.Writer, c.Request, s.ID, &ws.Event{Type: EventState, Data: s.Controller.Snapshot()})
}

func controllerError(c *gin.Context, snap contact.Snapshot, err error) {
	switch {
	case errors.Is(err, contact.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "state": snap})
	case errors.Is(err, contact.ErrClosed):
		c.JSON(http.StatusGone, gin.H{"error": "Contact session expired"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
