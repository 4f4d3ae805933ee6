package challenges

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Challenge is a design exercise. List- and object-valued fields are
// JSON columns; rows written by older seeds may leave any of them
// NULL, which is why reads go through Shaped().
type Challenge struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title            string         `gorm:"size:255" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	LongDescription  string         `gorm:"type:text" json:"long_description"`
	Difficulty       string         `gorm:"size:10" json:"difficulty"`
	Frequency        string         `gorm:"size:10" json:"frequency"`
	Tags             datatypes.JSON `json:"tags"`
	Companies        datatypes.JSON `json:"companies"`
	Requirements     datatypes.JSON `json:"requirements"`
	Deliverables     datatypes.JSON `json:"deliverables"`
	Resources        datatypes.JSON `json:"resources"`
	Insights         datatypes.JSON `json:"insights"`
	SubmissionsCount int            `gorm:"default:0" json:"submissions_count"`
	Rating           float64        `gorm:"default:0" json:"rating"`
	Author           string         `gorm:"size:255" json:"author"`
	UserID           uuid.UUID      `gorm:"type:uuid;index" json:"-"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// SeenInInterviews counts community reports.
type SeenInInterviews struct {
	Yes int `json:"yes"`
	No  int `json:"no"`
}

// CompanyReport is one company inside the insights block.
type CompanyReport struct {
	Name    string `json:"name"`
	Reports int    `json:"reports"`
}

// Insights is the interview-intelligence block attached to a challenge.
type Insights struct {
	InterviewFrequency string           `json:"interview_frequency"`
	SeenInInterviews   SeenInInterviews `json:"seen_in_interviews"`
	LastReported       string           `json:"last_reported"`
	Companies          []CompanyReport  `json:"companies"`
	CommonRole         string           `json:"common_role"`
	InterviewStage     string           `json:"interview_stage"`
}

// ShapedChallenge is the API form of a challenge: every field present
// with its documented default, never null.
type ShapedChallenge struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	LongDescription string    `json:"long_description"`
	Difficulty      string    `json:"difficulty"`
	Frequency       string    `json:"frequency"`
	CreatedAt       time.Time `json:"created_at"`
	Tags            []string  `json:"tags"`
	Companies       []string  `json:"companies"`
	Deliverables    []string  `json:"deliverables"`
	Resources       []string  `json:"resources"`
	Requirements    []string  `json:"requirements"`
	Insights        Insights  `json:"insights"`
	Submissions     int       `json:"submissions"`
	Rating          float64   `json:"rating"`
	Author          string    `json:"author"`
}

func defaultInsights() Insights {
	return Insights{
		InterviewFrequency: "medium",
		SeenInInterviews:   SeenInInterviews{},
		LastReported:       "N/A",
		Companies:          []CompanyReport{},
		CommonRole:         "UI/UX Designer",
		InterviewStage:     "Take-home",
	}
}

// Shaped fills every missing field with its default so consumers never
// see a null.
func (c *Challenge) Shaped() ShapedChallenge {
	shaped := ShapedChallenge{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		LongDescription: c.LongDescription,
		Difficulty:      c.Difficulty,
		Frequency:       c.Frequency,
		CreatedAt:       c.CreatedAt,
		Tags:            stringList(c.Tags),
		Companies:       stringList(c.Companies),
		Deliverables:    stringList(c.Deliverables),
		Resources:       stringList(c.Resources),
		Requirements:    stringList(c.Requirements),
		Submissions:     c.SubmissionsCount,
		Rating:          c.Rating,
		Author:          c.Author,
	}

	if shaped.Title == "" {
		shaped.Title = "Untitled Challenge"
	}
	if shaped.Description == "" {
		shaped.Description = "No description available"
	}
	if shaped.LongDescription == "" {
		shaped.LongDescription = shaped.Description
	}
	if shaped.Difficulty == "" {
		shaped.Difficulty = "easy"
	}
	if shaped.Frequency == "" {
		shaped.Frequency = "medium"
	}
	if shaped.CreatedAt.IsZero() {
		shaped.CreatedAt = time.Now().UTC()
	}
	if shaped.Author == "" {
		shaped.Author = "Unknown"
	}

	shaped.Insights = defaultInsights()
	if len(c.Insights) > 0 {
		var insights Insights
		if err := json.Unmarshal(c.Insights, &insights); err == nil {
			if insights.InterviewFrequency == "" {
				insights.InterviewFrequency = "medium"
			}
			if insights.LastReported == "" {
				insights.LastReported = "N/A"
			}
			if insights.Companies == nil {
				insights.Companies = []CompanyReport{}
			}
			if insights.CommonRole == "" {
				insights.CommonRole = "UI/UX Designer"
			}
			if insights.InterviewStage == "" {
				insights.InterviewStage = "Take-home"
			}
			shaped.Insights = insights
		}
	}

	return shaped
}

func stringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil || list == nil {
		return []string{}
	}
	return list
}
