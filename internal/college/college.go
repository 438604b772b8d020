package college

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/campushq/voicedesk/internal/db"
)

// Course is one program the college offers.
type Course struct {
	Name        string `json:"name"`
	Duration    string `json:"duration,omitempty"`
	Fees        string `json:"fees,omitempty"`
	Eligibility string `json:"eligibility,omitempty"`
	Description string `json:"description,omitempty"`
}

// Facility is a campus facility shown to callers and on the site.
type Facility struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Hostel groups hostel details.
type Hostel struct {
	Description string `json:"description,omitempty"`
	Fees        string `json:"fees,omitempty"`
}

// Contact groups the college's public contact channels.
type Contact struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Info is the single college profile the assistant speaks from. The
// database holds at most one row.
type Info struct {
	Name             string     `json:"name"`
	Tagline          string     `json:"tagline,omitempty"`
	Logo             string     `json:"logo,omitempty"`
	About            string     `json:"about,omitempty"`
	Courses          []Course   `json:"courses"`
	Facilities       []Facility `json:"facilities"`
	HostelDetails    Hostel     `json:"hostelDetails"`
	AdmissionProcess string     `json:"admissionProcess,omitempty"`
	Founder          string     `json:"founder,omitempty"`
	Chairman         string     `json:"chairman,omitempty"`
	Director         string     `json:"director,omitempty"`
	Website          string     `json:"website,omitempty"`
	Contact          Contact    `json:"contact"`
	LastUpdated      time.Time  `json:"lastUpdated"`
}

// Store persists the singleton college profile.
type Store struct {
	db *db.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Get returns the college profile, or nil when none has been seeded.
func (s *Store) Get(ctx context.Context) (*Info, error) {
	var info Info
	var courses, facilities string
	err := s.db.QueryRowContext(ctx,
		`SELECT name, tagline, logo, about, courses, facilities,
		        hostel_description, hostel_fees, admission_process,
		        founder, chairman, director, website,
		        contact_email, contact_phone, contact_address, last_updated
		 FROM college_info WHERE id = 1`,
	).Scan(&info.Name, &info.Tagline, &info.Logo, &info.About, &courses, &facilities,
		&info.HostelDetails.Description, &info.HostelDetails.Fees, &info.AdmissionProcess,
		&info.Founder, &info.Chairman, &info.Director, &info.Website,
		&info.Contact.Email, &info.Contact.Phone, &info.Contact.Address, &info.LastUpdated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading college info: %w", err)
	}
	if err := json.Unmarshal([]byte(courses), &info.Courses); err != nil {
		return nil, fmt.Errorf("decoding courses: %w", err)
	}
	if err := json.Unmarshal([]byte(facilities), &info.Facilities); err != nil {
		return nil, fmt.Errorf("decoding facilities: %w", err)
	}
	return &info, nil
}

// Upsert writes the profile, creating the singleton row if needed.
func (s *Store) Upsert(ctx context.Context, info *Info) error {
	if info.Name == "" {
		return fmt.Errorf("college name is required")
	}
	courses, err := json.Marshal(orEmptyCourses(info.Courses))
	if err != nil {
		return fmt.Errorf("encoding courses: %w", err)
	}
	facilities, err := json.Marshal(orEmptyFacilities(info.Facilities))
	if err != nil {
		return fmt.Errorf("encoding facilities: %w", err)
	}
	info.LastUpdated = time.Now().UTC()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO college_info (
		    id, name, tagline, logo, about, courses, facilities,
		    hostel_description, hostel_fees, admission_process,
		    founder, chairman, director, website,
		    contact_email, contact_phone, contact_address, last_updated
		 ) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		    name = excluded.name,
		    tagline = excluded.tagline,
		    logo = excluded.logo,
		    about = excluded.about,
		    courses = excluded.courses,
		    facilities = excluded.facilities,
		    hostel_description = excluded.hostel_description,
		    hostel_fees = excluded.hostel_fees,
		    admission_process = excluded.admission_process,
		    founder = excluded.founder,
		    chairman = excluded.chairman,
		    director = excluded.director,
		    website = excluded.website,
		    contact_email = excluded.contact_email,
		    contact_phone = excluded.contact_phone,
		    contact_address = excluded.contact_address,
		    last_updated = excluded.last_updated`,
		info.Name, info.Tagline, info.Logo, info.About, string(courses), string(facilities),
		info.HostelDetails.Description, info.HostelDetails.Fees, info.AdmissionProcess,
		info.Founder, info.Chairman, info.Director, info.Website,
		info.Contact.Email, info.Contact.Phone, info.Contact.Address, info.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("saving college info: %w", err)
	}
	return nil
}

func orEmptyCourses(c []Course) []Course {
	if c == nil {
		return []Course{}
	}
	return c
}

func orEmptyFacilities(f []Facility) []Facility {
	if f == nil {
		return []Facility{}
	}
	return f
}
