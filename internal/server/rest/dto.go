package rest

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/services"
	v "github.com/dmitrijs2005/jobboard/internal/server/validation"
)

// profileFields are the self-service fields as the front end names them.
type profileFields struct {
	Name                       *string `json:"userName"`
	Surname                    *string `json:"userSurname"`
	Age                        *int    `json:"userAge"`
	Gender                     *string `json:"userGender"`
	Phone                      *string `json:"userPhoneNumber"`
	Citizenship                *string `json:"userCitizenship"`
	EmploymentStatus           *string `json:"userEmploymentStatus"`
	PreferredJob               *string `json:"userPrefferedJob"`
	SecondPreferredJob         *string `json:"userSecondPrefferedJob"`
	PreferredJobLocation       *string `json:"userPrefferedJobLocation"`
	SecondPreferredJobLocation *string `json:"userSecondPrefferedJobLocation"`
	About                      *string `json:"userTellAboutYourSelf"`
}

func newProfileFields(p models.Profile) profileFields {
	return profileFields{
		Name:                       p.Name,
		Surname:                    p.Surname,
		Age:                        p.Age,
		Gender:                     p.Gender,
		Phone:                      p.Phone,
		Citizenship:                p.Citizenship,
		EmploymentStatus:           p.EmploymentStatus,
		PreferredJob:               p.PreferredJob,
		SecondPreferredJob:         p.SecondPreferredJob,
		PreferredJobLocation:       p.PreferredJobLocation,
		SecondPreferredJobLocation: p.SecondPreferredJobLocation,
		About:                      p.About,
	}
}

func (f profileFields) toProfile() models.Profile {
	return models.Profile{
		Name:                       f.Name,
		Surname:                    f.Surname,
		Age:                        f.Age,
		Gender:                     f.Gender,
		Phone:                      f.Phone,
		Citizenship:                f.Citizenship,
		EmploymentStatus:           f.EmploymentStatus,
		PreferredJob:               f.PreferredJob,
		SecondPreferredJob:         f.SecondPreferredJob,
		PreferredJobLocation:       f.PreferredJobLocation,
		SecondPreferredJobLocation: f.SecondPreferredJobLocation,
		About:                      f.About,
	}
}

type userOut struct {
	ID    int64  `json:"userId"`
	Email string `json:"userEmail"`
	profileFields
	ResumeFilename *string `json:"resumeFilename"`
}

func newUserOut(u *models.User) userOut {
	out := userOut{ID: u.ID, Email: u.Email, profileFields: newProfileFields(u.Profile)}
	if u.HasResume() {
		out.ResumeFilename = u.ResumeFilename
	}
	return out
}

type loginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in loginIn) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required),
		validation.Field(&in.Password, validation.Required),
	)
}

type registerIn struct {
	Email    string `json:"userEmail"`
	Password string `json:"password"`
	profileFields
}

func (in registerIn) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, v.Email...),
		validation.Field(&in.Password, v.Password...),
	)
}

func (in registerIn) toRegistration() services.Registration {
	return services.Registration{Email: in.Email, Password: in.Password, Profile: in.toProfile()}
}

type experienceIn struct {
	Text string `json:"userExperience"`
}

type applicationIn struct {
	JobID int64 `json:"job_id"`
}

func (in applicationIn) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.JobID, validation.Required, validation.Min(int64(1))),
	)
}

type contactIn struct {
	Email   string `json:"userEmail"`
	Message string `json:"message"`
}

type adminUserIn struct {
	Name             *string `json:"userName"`
	Surname          *string `json:"userSurname"`
	Phone            *string `json:"userPhoneNumber"`
	Citizenship      *string `json:"userCitizenship"`
	EmploymentStatus *string `json:"userEmploymentStatus"`
	IsAdmin          *bool   `json:"isAdmin"`
}

func (in adminUserIn) toUpdate() models.AdminUserUpdate {
	return models.AdminUserUpdate{
		Name:             in.Name,
		Surname:          in.Surname,
		Phone:            in.Phone,
		Citizenship:      in.Citizenship,
		EmploymentStatus: in.EmploymentStatus,
		IsAdmin:          in.IsAdmin,
	}
}

type adminUserOut struct {
	ID               int64   `json:"userId"`
	Email            string  `json:"userEmail"`
	Name             *string `json:"userName"`
	Surname          *string `json:"userSurname"`
	Phone            *string `json:"userPhoneNumber"`
	Citizenship      *string `json:"userCitizenship"`
	EmploymentStatus *string `json:"userEmploymentStatus"`
	IsAdmin          bool    `json:"isAdmin"`
}

func newAdminUserOut(u *models.User) adminUserOut {
	return adminUserOut{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		Surname:          u.Surname,
		Phone:            u.Phone,
		Citizenship:      u.Citizenship,
		EmploymentStatus: u.EmploymentStatus,
		IsAdmin:          u.IsAdmin,
	}
}

type experienceOut struct {
	ID         int64  `json:"id"`
	Experience string `json:"experience"`
}

type adminUserDetailOut struct {
	ID    int64  `json:"userId"`
	Email string `json:"userEmail"`
	profileFields
	IsAdmin           bool            `json:"is_admin"`
	HasResume         bool            `json:"has_resume"`
	Experiences       []experienceOut `json:"experiences"`
	ApplicationsCount int             `json:"applications_count"`
}

func newAdminUserDetailOut(d *services.UserDetail) adminUserDetailOut {
	out := adminUserDetailOut{
		ID:                d.User.ID,
		Email:             d.User.Email,
		profileFields:     newProfileFields(d.User.Profile),
		IsAdmin:           d.User.IsAdmin,
		HasResume:         d.User.HasResume(),
		Experiences:       make([]experienceOut, len(d.Experiences)),
		ApplicationsCount: d.ApplicationsCount,
	}
	for i, e := range d.Experiences {
		out.Experiences[i] = experienceOut{ID: e.ID, Experience: e.Text}
	}
	return out
}

type adminApplicationOut struct {
	ID         int64     `json:"id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	JobID      int64     `json:"job_id"`
	JobTitle   string    `json:"job_title"`
	JobCountry string    `json:"job_country"`
}

func newAdminApplicationOut(a models.ApplicationWithJob) adminApplicationOut {
	return adminApplicationOut{
		ID:         a.ID,
		Status:     a.Status,
		CreatedAt:  a.CreatedAt,
		JobID:      a.Job.ID,
		JobTitle:   a.Job.Title,
		JobCountry: a.Job.Country,
	}
}
