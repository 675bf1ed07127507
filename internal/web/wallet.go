package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Domenick1991/flightdesk/internal/session"
	"github.com/gin-gonic/gin"
)

func (s *Server) wallet(c *gin.Context) {
	store := s.store(c)
	if !store.LoggedIn() {
		c.HTML(http.StatusOK, "wallet.tmpl", s.pageData(c, gin.H{"Gated": true}))
		return
	}

	// pick up top-ups and bookings made elsewhere; best-effort by design
	store.RefreshWallet(c.Request.Context())
	c.HTML(http.StatusOK, "wallet.tmpl", s.pageData(c, nil))
}

func (s *Server) topUp(c *gin.Context) {
	store := s.store(c)

	amount, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm("amount")), 64)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/wallet?err="+url.QueryEscape("Amount must be a number"))
		return
	}

	if err := store.TopUp(c.Request.Context(), amount); err != nil {
		if errors.Is(err, session.ErrAuthRequired) {
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		c.Redirect(http.StatusSeeOther, "/wallet?err="+url.QueryEscape(err.Error()))
		return
	}
	c.Redirect(http.StatusSeeOther, "/wallet?msg="+url.QueryEscape("Wallet updated"))
}
