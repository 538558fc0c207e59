package models

import "time"

// ApplicationStatusApplied is the status of a freshly submitted application.
const ApplicationStatusApplied = "applied"

// Application records that a user applied for a job. A user can apply for
// a given job only once.
type Application struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	JobID     int64     `json:"job_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// JobSummary is the short job projection embedded in application listings.
type JobSummary struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Country  string  `json:"country"`
	City     *string `json:"city"`
	Category *string `json:"category"`
}

// ApplicationWithJob is an application joined with its job.
type ApplicationWithJob struct {
	ID        int64      `json:"id"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	Job       JobSummary `json:"job"`
}

// ContactMessage is a message left through the public contact form.
type ContactMessage struct {
	ID        int64     `json:"id"`
	Email     string    `json:"userEmail"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"-"`
}
