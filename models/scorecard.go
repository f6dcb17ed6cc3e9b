package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/boldventures/scorecard_backend/config"
	"github.com/boldventures/scorecard_backend/utils"
)

// DateLayout is the only accepted textual date format for submissions.
const DateLayout = "2006-01-02"

type Scorecard struct {
	ID              int       `gorm:"primary_key" json:"id"`
	Date            time.Time `gorm:"type:date;not null" json:"-"`
	CompanyName     string    `gorm:"size:255;not null;index" json:"company_name"`
	Sector          string    `gorm:"size:255;index" json:"sector"`
	InvestmentStage string    `gorm:"size:100" json:"investment_stage"`
	Alignment       int       `gorm:"not null" json:"alignment"`
	Team            int       `gorm:"not null" json:"team"`
	Market          int       `gorm:"not null" json:"market"`
	Product         int       `gorm:"not null" json:"product"`
	PotentialReturn int       `gorm:"not null" json:"potential_return"`
	BoldExcitement  int       `gorm:"not null" json:"bold_excitement"`
	Score           float64   `gorm:"not null" json:"score"`
	UserId          int       `gorm:"index" json:"user_id"`
	ScoredBy        User      `gorm:"foreignKey:UserId" json:"-"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (card *Scorecard) DateString() string {
	return card.Date.Format(DateLayout)
}

// NewScorecard is the submission payload. Sub-scores are pointers so an absent
// field can be told apart from a legitimate 0.
type NewScorecard struct {
	Date            string `json:"date"`
	CompanyName     string `json:"company_name"`
	Sector          string `json:"sector"`
	InvestmentStage string `json:"investment_stage"`
	Alignment       *int   `json:"alignment" validate:"omitempty,min=0,max=10"`
	Team            *int   `json:"team" validate:"omitempty,min=0,max=10"`
	Market          *int   `json:"market" validate:"omitempty,min=0,max=10"`
	Product         *int   `json:"product" validate:"omitempty,min=0,max=10"`
	PotentialReturn *int   `json:"potential_return" validate:"omitempty,min=0,max=10"`
	BoldExcitement  *int   `json:"bold_excitement" validate:"omitempty,min=0,max=10"`
}

// CreateScorecard validates the submission, recomputes the composite score
// server-side and persists the record in one transaction. It does NOT mirror
// the record into the shared spreadsheet; that is the caller's follow-up step
// once the transaction has committed.
func CreateScorecard(ctx context.Context, input *NewScorecard) (*Scorecard, error) {
	if msg := utils.ValidateScorecardFields(
		input.Date, input.CompanyName, input.Sector, input.InvestmentStage,
		input.Alignment, input.Team, input.Market, input.Product,
		input.PotentialReturn, input.BoldExcitement,
	); msg != "" {
		return nil, utils.NewValidationError(msg)
	}
	if msg := utils.ValidateStructRanges(input); msg != "" {
		return nil, utils.NewValidationError(msg)
	}

	date, err := time.Parse(DateLayout, strings.TrimSpace(input.Date))
	if err != nil {
		return nil, utils.NewValidationError("Date must be in YYYY-MM-DD format.")
	}

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}

	card := Scorecard{
		Date:            date,
		CompanyName:     strings.TrimSpace(input.CompanyName),
		Sector:          strings.TrimSpace(input.Sector),
		InvestmentStage: strings.TrimSpace(input.InvestmentStage),
		Alignment:       *input.Alignment,
		Team:            *input.Team,
		Market:          *input.Market,
		Product:         *input.Product,
		PotentialReturn: *input.PotentialReturn,
		BoldExcitement:  *input.BoldExcitement,
		Score: utils.ComputeScore(
			*input.Alignment, *input.Team, *input.Market,
			*input.Product, *input.PotentialReturn, *input.BoldExcitement,
		),
		UserId: userId,
	}

	db := config.GetDB()
	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	if err := tx.WithContext(ctx).Create(&card).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := db.WithContext(ctx).Preload("ScoredBy").First(&card, card.ID).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// GetAllScorecards returns every scorecard joined with its owning user,
// in insertion order.
func GetAllScorecards(ctx context.Context) ([]*Scorecard, error) {
	db := config.GetDB()
	var results []*Scorecard
	if err := db.WithContext(ctx).Preload("ScoredBy").Order("id asc").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func GetSectors(ctx context.Context) ([]string, error) {
	db := config.GetDB()
	var sectors []string
	if err := db.WithContext(ctx).Model(&Scorecard{}).
		Distinct().Where("sector <> ''").Pluck("sector", &sectors).Error; err != nil {
		return nil, err
	}
	return sectors, nil
}

func GetCompanyNames(ctx context.Context) ([]string, error) {
	db := config.GetDB()
	var names []string
	if err := db.WithContext(ctx).Model(&Scorecard{}).
		Distinct().Where("company_name <> ''").Pluck("company_name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}
