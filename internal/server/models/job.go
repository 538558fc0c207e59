package models

import "time"

// Job is a job posting. Fields listed in TranslatableFields can be
// overridden per language by a JobTranslation.
type Job struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	CompanyName   *string `json:"company_name"`
	ReferenceCode *string `json:"reference_code"`

	Country          string  `json:"country"`
	City             *string `json:"city"`
	WorkplaceAddress *string `json:"workplace_address"`

	Category       *string `json:"category"`
	EmploymentType *string `json:"employment_type"`
	ShiftType      *string `json:"shift_type"`

	SalaryFrom        *float64 `json:"salary_from"`
	SalaryTo          *float64 `json:"salary_to"`
	Currency          *string  `json:"currency"`
	SalaryType        *string  `json:"salary_type"`
	IsNet             *bool    `json:"is_net"`
	HousingProvided   *bool    `json:"housing_provided"`
	HousingDetails    *string  `json:"housing_details"`
	TransportProvided *bool    `json:"transport_provided"`
	Bonuses           *string  `json:"bonuses"`

	MinExperienceYears     *int    `json:"min_experience_years"`
	LanguageRequired       *string `json:"language_required"`
	DocumentsRequired      *string `json:"documents_required"`
	DrivingLicenseRequired *bool   `json:"driving_license_required"`

	ShortDescription *string `json:"short_description"`
	FullDescription  *string `json:"full_description"`
	Responsibilities *string `json:"responsibilities"`
	RequirementsText *string `json:"requirements_text"`
	BenefitsText     *string `json:"benefits_text"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JobFilter narrows the public job listing. Empty fields do not filter.
type JobFilter struct {
	Country  string
	Category string
	Query    string
	Limit    int
}

// JobTranslation overrides the translatable fields of a job for one language.
type JobTranslation struct {
	ID       int64  `json:"id"`
	JobID    int64  `json:"job_id"`
	LangCode string `json:"lang_code"`

	Title             *string `json:"title"`
	ShortDescription  *string `json:"short_description"`
	FullDescription   *string `json:"full_description"`
	Responsibilities  *string `json:"responsibilities"`
	RequirementsText  *string `json:"requirements_text"`
	BenefitsText      *string `json:"benefits_text"`
	HousingDetails    *string `json:"housing_details"`
	DocumentsRequired *string `json:"documents_required"`
	Bonuses           *string `json:"bonuses"`
	LanguageRequired  *string `json:"language_required"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Localize returns a copy of job with every non-empty field of tr
// replacing the corresponding base field. A nil tr returns the job as is.
func (j Job) Localize(tr *JobTranslation) Job {
	if tr == nil {
		return j
	}
	if tr.Title != nil && *tr.Title != "" {
		j.Title = *tr.Title
	}
	pick := func(dst **string, v *string) {
		if v != nil && *v != "" {
			*dst = v
		}
	}
	pick(&j.ShortDescription, tr.ShortDescription)
	pick(&j.FullDescription, tr.FullDescription)
	pick(&j.Responsibilities, tr.Responsibilities)
	pick(&j.RequirementsText, tr.RequirementsText)
	pick(&j.BenefitsText, tr.BenefitsText)
	pick(&j.HousingDetails, tr.HousingDetails)
	pick(&j.DocumentsRequired, tr.DocumentsRequired)
	pick(&j.Bonuses, tr.Bonuses)
	pick(&j.LanguageRequired, tr.LanguageRequired)
	return j
}
