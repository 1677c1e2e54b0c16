package gorm

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	wa "github.com/tlegrave/webauth"
)

// AutoMigrate runs database migrations for the webauth tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&AccountModel{})
}

// AccountStore implements wa.AccountStore using GORM. All lookups and
// mutations go through parameterized conditions; uniqueness of usernames and
// emails is enforced by the database.
type AccountStore struct {
	db *gorm.DB
}

func NewAccountStore(db *gorm.DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) CreateAccount(account *wa.Account) (string, error) {
	model := AccountToModel(account)
	if err := s.db.Create(model).Error; err != nil {
		return "", err
	}
	account.ID = model.ID
	return model.ID, nil
}

func (s *AccountStore) GetAccountByID(id string) (*wa.Account, error) {
	var model AccountModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wa.ErrAccountNotFound
		}
		return nil, err
	}
	return model.ToAccount(), nil
}

func (s *AccountStore) GetConfirmedByUsername(username string) (*wa.Account, error) {
	return s.confirmed("username = ?", username)
}

func (s *AccountStore) GetConfirmedByEmail(email string) (*wa.Account, error) {
	return s.confirmed("email = ?", email)
}

func (s *AccountStore) confirmed(condition string, value string) (*wa.Account, error) {
	var model AccountModel
	err := s.db.Where(condition, value).Where("confirmed_at IS NOT NULL").First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wa.ErrAccountNotFound
		}
		return nil, err
	}
	return model.ToAccount(), nil
}

func (s *AccountStore) ConfirmAccount(id string, at time.Time) error {
	return s.updates(id, map[string]any{
		"confirmation_token": "",
		"confirmed_at":       at,
	})
}

func (s *AccountStore) SetRememberToken(id, token string) error {
	return s.updates(id, map[string]any{
		"remember_token": token,
	})
}

func (s *AccountStore) SetResetToken(id, token string, at time.Time) error {
	return s.updates(id, map[string]any{
		"reset_token": token,
		"reset_at":    at,
	})
}

func (s *AccountStore) SetPassword(id, passwordHash string) error {
	// single UPDATE so the password write and the reset-token clear are
	// atomic
	return s.updates(id, map[string]any{
		"password":    passwordHash,
		"reset_token": "",
		"reset_at":    nil,
	})
}

func (s *AccountStore) updates(id string, fields map[string]any) error {
	result := s.db.Model(&AccountModel{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update %s: %w", id, wa.ErrAccountNotFound)
	}
	return nil
}
