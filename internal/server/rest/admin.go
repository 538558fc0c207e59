package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/jobboard/internal/server/models"
	v "github.com/dmitrijs2005/jobboard/internal/server/validation"
)

func (s *HTTPServer) adminListUsers(c *gin.Context) {
	list, err := s.services.Admin.ListUsers(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	out := make([]adminUserOut, len(list))
	for i := range list {
		out[i] = newAdminUserOut(&list[i])
	}
	c.JSON(http.StatusOK, out)
}

func (s *HTTPServer) adminGetUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	d, err := s.services.Admin.GetUser(c.Request.Context(), id)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAdminUserDetailOut(d))
}

func (s *HTTPServer) adminUpdateUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	var in adminUserIn
	if err := bindJSON(c, &in); err != nil {
		s.abortWithError(c, err)
		return
	}

	user, err := s.services.Admin.UpdateUser(c.Request.Context(), id, in.toUpdate())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAdminUserOut(user))
}

func (s *HTTPServer) adminDeleteUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	if err := s.services.Admin.DeleteUser(c.Request.Context(), principal(c).UserID(), id); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) adminUserApplications(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	list, err := s.services.Admin.ListUserApplications(c.Request.Context(), id)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	out := make([]adminApplicationOut, len(list))
	for i, a := range list {
		out[i] = newAdminApplicationOut(a)
	}
	c.JSON(http.StatusOK, out)
}

func (s *HTTPServer) adminListJobs(c *gin.Context) {
	list, err := s.services.Jobs.ListAll(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *HTTPServer) adminCreateJob(c *gin.Context) {
	job := models.Job{IsActive: true}
	if err := bindJSON(c, &job); err != nil {
		s.abortWithError(c, err)
		return
	}

	created, err := s.services.Jobs.Create(c.Request.Context(), &job)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// adminUpdateJob applies the request body on top of the stored job, so
// only the keys present in the body change.
func (s *HTTPServer) adminUpdateJob(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		s.abortWithError(c, v.Invalid(err))
		return
	}

	job, err := s.services.Jobs.Update(c.Request.Context(), id, func(j *models.Job) error {
		return json.Unmarshal(body, j)
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *HTTPServer) adminListTranslations(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	list, err := s.services.Jobs.ListTranslations(c.Request.Context(), id)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *HTTPServer) adminUpsertTranslation(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		s.abortWithError(c, v.Invalid(err))
		return
	}

	_, err = s.services.Jobs.UpsertTranslation(c.Request.Context(), id, c.Param("lang"), func(tr *models.JobTranslation) error {
		return json.Unmarshal(body, tr)
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
