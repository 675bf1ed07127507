package web

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/Domenick1991/flightdesk/internal/session"
	"github.com/gin-gonic/gin"
)

// bookings renders the booking history. Anonymous visitors get a static
// prompt and no backend fetch happens for them.
func (s *Server) bookings(c *gin.Context) {
	store := s.store(c)
	if !store.LoggedIn() {
		c.HTML(http.StatusOK, "bookings.tmpl", s.pageData(c, gin.H{"Gated": true}))
		return
	}

	data := gin.H{}
	bookings, err := store.Bookings(c.Request.Context())
	if err != nil {
		data["Error"] = err.Error()
	}
	data["Bookings"] = bookings
	c.HTML(http.StatusOK, "bookings.tmpl", s.pageData(c, data))
}

// ticket streams the backend's ticket artifact for one of the user's PNRs.
func (s *Server) ticket(c *gin.Context) {
	store := s.store(c)

	ticket, err := store.Ticket(c.Request.Context(), c.Param("pnr"))
	if err != nil {
		if errors.Is(err, session.ErrAuthRequired) {
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		c.Redirect(http.StatusSeeOther, "/bookings?err="+url.QueryEscape(err.Error()))
		return
	}

	contentType := ticket.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, ticket.Data)
}
