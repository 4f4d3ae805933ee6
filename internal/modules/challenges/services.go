package challenges

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrChallengeNotFound = errors.New("challenge not found")

type ChallengeService struct {
	db *gorm.DB
}

func NewChallengeService(db *gorm.DB) *ChallengeService {
	return &ChallengeService{db: db}
}

// GetAll returns every challenge, newest first, shaped.
func (s *ChallengeService) GetAll() ([]ShapedChallenge, error) {
	var rows []Challenge
	if err := s.db.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	shaped := make([]ShapedChallenge, len(rows))
	for i := range rows {
		shaped[i] = rows[i].Shaped()
	}
	return shaped, nil
}

func (s *ChallengeService) GetByID(challengeID uuid.UUID) (*ShapedChallenge, error) {
	var row Challenge
	if err := s.db.Where("id = ?", challengeID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	shaped := row.Shaped()
	return &shaped, nil
}

type CreateChallengeInput struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	LongDescription string   `json:"long_description"`
	Difficulty      string   `json:"difficulty"`
	Frequency       string   `json:"frequency"`
	Tags            []string `json:"tags"`
	Companies       []string `json:"companies"`
}

func (s *ChallengeService) Create(userID uuid.UUID, input CreateChallengeInput) (*ShapedChallenge, error) {
	if input.Title == "" || input.Description == "" {
		return nil, errors.New("title and description are required")
	}

	row := Challenge{
		Title:           input.Title,
		Description:     input.Description,
		LongDescription: input.LongDescription,
		Difficulty:      input.Difficulty,
		Frequency:       input.Frequency,
		Tags:            toJSON(input.Tags),
		Companies:       toJSON(input.Companies),
		UserID:          userID,
	}

	if err := s.db.Create(&row).Error; err != nil {
		return nil, err
	}

	shaped := row.Shaped()
	return &shaped, nil
}

func toJSON(list []string) datatypes.JSON {
	if list == nil {
		list = []string{}
	}
	b, _ := json.Marshal(list)
	return datatypes.JSON(b)
}
