package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	wa "github.com/tlegrave/webauth"
)

// AccountModel is the GORM model for accounts
type AccountModel struct {
	ID                string `gorm:"primaryKey;size:64"`
	Username          string `gorm:"size:255;uniqueIndex"`
	Email             string `gorm:"size:320;uniqueIndex"`
	Password          string `gorm:"size:255"`
	ConfirmationToken string `gorm:"size:64"`
	ConfirmedAt       *time.Time
	RememberToken     string `gorm:"size:64"`
	ResetToken        string `gorm:"size:64"`
	ResetAt           *time.Time
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (AccountModel) TableName() string {
	return "users"
}

// BeforeCreate assigns an identifier when the caller did not provide one
func (m *AccountModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m *AccountModel) ToAccount() *wa.Account {
	return &wa.Account{
		ID:                m.ID,
		Username:          m.Username,
		Email:             m.Email,
		PasswordHash:      m.Password,
		ConfirmationToken: m.ConfirmationToken,
		ConfirmedAt:       m.ConfirmedAt,
		RememberToken:     m.RememberToken,
		ResetToken:        m.ResetToken,
		ResetAt:           m.ResetAt,
	}
}

func AccountToModel(a *wa.Account) *AccountModel {
	return &AccountModel{
		ID:                a.ID,
		Username:          a.Username,
		Email:             a.Email,
		Password:          a.PasswordHash,
		ConfirmationToken: a.ConfirmationToken,
		ConfirmedAt:       a.ConfirmedAt,
		RememberToken:     a.RememberToken,
		ResetToken:        a.ResetToken,
		ResetAt:           a.ResetAt,
	}
}
