package web

import (
	"net/http"
	"strings"

	"github.com/Domenick1991/flightdesk/internal/backend"
	"github.com/gin-gonic/gin"
)

func (s *Server) loginPage(c *gin.Context) {
	if s.store(c).LoggedIn() {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "login.tmpl", s.pageData(c, nil))
}

func (s *Server) loginSubmit(c *gin.Context) {
	store := s.store(c)

	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	if _, err := store.Login(c.Request.Context(), email, password); err != nil {
		c.HTML(http.StatusOK, "login.tmpl", s.pageData(c, gin.H{
			"Error": err.Error(),
			"Email": email,
		}))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) registerPage(c *gin.Context) {
	if s.store(c).LoggedIn() {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "register.tmpl", s.pageData(c, nil))
}

func (s *Server) registerSubmit(c *gin.Context) {
	store := s.store(c)

	input := backend.RegisterInput{
		Username: strings.TrimSpace(c.PostForm("username")),
		Email:    strings.TrimSpace(c.PostForm("email")),
		FullName: strings.TrimSpace(c.PostForm("full_name")),
		Password: c.PostForm("password"),
	}

	if _, err := store.Register(c.Request.Context(), input); err != nil {
		c.HTML(http.StatusOK, "register.tmpl", s.pageData(c, gin.H{
			"Error": err.Error(),
			"Form":  input,
		}))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) logout(c *gin.Context) {
	if err := s.store(c).Logout(c.Request.Context()); err != nil {
		s.logger.Warn("logout: snapshot clear failed", "error", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}
