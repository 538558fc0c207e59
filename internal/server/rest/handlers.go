package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/dmitrijs2005/jobboard/internal/server/models"
	v "github.com/dmitrijs2005/jobboard/internal/server/validation"
)

// bindJSON decodes the body into dst and runs its Validate method, if any.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return v.Invalid(err)
	}
	if val, ok := dst.(validation.Validatable); ok {
		if err := val.Validate(); err != nil {
			return v.Invalid(err)
		}
	}
	return nil
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, v.Invalid(fmt.Errorf("%s: must be a positive integer", name))
	}
	return id, nil
}

func (s *HTTPServer) login(c *gin.Context) {
	var in loginIn
	if err := bindJSON(c, &in); err != nil {
		s.abortWithError(c, err)
		return
	}

	token, err := s.services.Users.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, token)
}

func (s *HTTPServer) createUser(c *gin.Context) {
	var in registerIn
	if err := bindJSON(c, &in); err != nil {
		s.abortWithError(c, err)
		return
	}

	user, err := s.services.Users.Register(c.Request.Context(), in.toRegistration())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newUserOut(user))
}

func (s *HTTPServer) searchJobs(c *gin.Context) {
	filter := models.JobFilter{
		Country:  c.Query("country"),
		Category: c.Query("category"),
		Query:    c.Query("q"),
	}

	list, err := s.services.Jobs.Search(c.Request.Context(), filter, c.Query("lang"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *HTTPServer) getJob(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	job, err := s.services.Jobs.Get(c.Request.Context(), id, c.Query("lang"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *HTTPServer) addContact(c *gin.Context) {
	var in contactIn
	if err := bindJSON(c, &in); err != nil {
		s.abortWithError(c, err)
		return
	}

	msg, err := s.services.Contacts.Submit(c.Request.Context(), in.Email, in.Message)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (s *HTTPServer) apply(c *gin.Context) {
	var in applicationIn
	if err := bindJSON(c, &in); err != nil {
		s.abortWithError(c, err)
		return
	}

	app, err := s.services.Applications.Apply(c.Request.Context(), principal(c).UserID(), in.JobID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (s *HTTPServer) myApplications(c *gin.Context) {
	list, err := s.services.Applications.ListForUser(c.Request.Context(), principal(c).UserID())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
