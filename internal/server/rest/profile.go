package rest

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/server/services"
	v "github.com/dmitrijs2005/jobboard/internal/server/validation"
)

// multipartOverhead is allowed on top of the resume size limit for the
// multipart envelope.
const multipartOverhead = 64 << 10

func (s *HTTPServer) loadProfile(c *gin.Context) {
	c.JSON(http.StatusOK, newUserOut(principal(c).User))
}

func (s *HTTPServer) updateProfile(c *gin.Context) {
	var in profileFields
	if err := bindJSON(c, &in); err != nil {
		s.abortWithError(c, err)
		return
	}

	user, err := s.services.Profiles.UpdateProfile(c.Request.Context(), principal(c).UserID(), in.toProfile())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserOut(user))
}

func (s *HTTPServer) listExperience(c *gin.Context) {
	list, err := s.services.Profiles.ListExperience(c.Request.Context(), principal(c).UserID())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *HTTPServer) addExperience(c *gin.Context) {
	var in experienceIn
	if err := bindJSON(c, &in); err != nil {
		s.abortWithError(c, err)
		return
	}

	e, err := s.services.Profiles.AddExperience(c.Request.Context(), principal(c).UserID(), in.Text)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (s *HTTPServer) deleteExperience(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	if err := s.services.Profiles.DeleteExperience(c.Request.Context(), principal(c).UserID(), id); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) uploadResume(c *gin.Context) {
	limit := s.maxResume + multipartOverhead
	if c.Request.ContentLength > limit {
		s.abortWithError(c, common.ErrResumeTooLarge)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.abortWithError(c, common.ErrResumeTooLarge)
			return
		}
		s.abortWithError(c, v.Invalid(errors.New("file: is required")))
		return
	}

	f, err := fh.Open()
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	defer f.Close()

	user, err := s.services.Profiles.UploadResume(c.Request.Context(), principal(c).UserID(), services.ResumeFile{
		Filename:    filepath.Base(fh.Filename),
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserOut(user))
}

func (s *HTTPServer) resumeLink(c *gin.Context) {
	link, err := s.services.Profiles.ResumeLink(c.Request.Context(), principal(c).UserID())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

func (s *HTTPServer) deleteResume(c *gin.Context) {
	if err := s.services.Profiles.DeleteResume(c.Request.Context(), principal(c).UserID()); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
