// Package stores provides a file-based AccountStore, storing each account as
// a JSON file. It is suitable for development, tests and small applications;
// production deployments should use the relational store in stores/gorm.
package stores

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	wa "github.com/tlegrave/webauth"
)

// FSAccountStore stores accounts as JSON files. Uniqueness of usernames and
// emails is enforced through mapping files holding the account id.
type FSAccountStore struct {
	StoragePath string

	// serializes read-modify-write cycles within one process
	mu sync.Mutex
}

func NewFSAccountStore(storagePath string) *FSAccountStore {
	return &FSAccountStore{StoragePath: storagePath}
}

func (s *FSAccountStore) accountPath(id string) string {
	return filepath.Join(s.StoragePath, "accounts", id+".json")
}

func (s *FSAccountStore) usernamePath(username string) string {
	return filepath.Join(s.StoragePath, "usernames", strings.ToLower(username)+".json")
}

func (s *FSAccountStore) emailPath(email string) string {
	return filepath.Join(s.StoragePath, "emails", strings.ToLower(email)+".json")
}

func (s *FSAccountStore) CreateAccount(account *wa.Account) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	if _, err := os.Stat(s.usernamePath(account.Username)); err == nil {
		return "", fmt.Errorf("username already taken: %s", account.Username)
	}
	if _, err := os.Stat(s.emailPath(account.Email)); err == nil {
		return "", fmt.Errorf("email already registered: %s", account.Email)
	}

	if err := s.writeAccount(account); err != nil {
		return "", err
	}
	if err := s.writeMapping(s.usernamePath(account.Username), account.ID); err != nil {
		os.Remove(s.accountPath(account.ID))
		return "", err
	}
	if err := s.writeMapping(s.emailPath(account.Email), account.ID); err != nil {
		// roll back so a retry does not trip over half-written state
		os.Remove(s.usernamePath(account.Username))
		os.Remove(s.accountPath(account.ID))
		return "", err
	}
	return account.ID, nil
}

func (s *FSAccountStore) GetAccountByID(id string) (*wa.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAccount(id)
}

func (s *FSAccountStore) GetConfirmedByUsername(username string) (*wa.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmedByMapping(s.usernamePath(username))
}

func (s *FSAccountStore) GetConfirmedByEmail(email string) (*wa.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmedByMapping(s.emailPath(email))
}

func (s *FSAccountStore) ConfirmAccount(id string, at time.Time) error {
	return s.update(id, func(account *wa.Account) {
		account.ConfirmationToken = ""
		account.ConfirmedAt = &at
	})
}

func (s *FSAccountStore) SetRememberToken(id, token string) error {
	return s.update(id, func(account *wa.Account) {
		account.RememberToken = token
	})
}

func (s *FSAccountStore) SetResetToken(id, token string, at time.Time) error {
	return s.update(id, func(account *wa.Account) {
		account.ResetToken = token
		account.ResetAt = &at
	})
}

func (s *FSAccountStore) SetPassword(id, passwordHash string) error {
	return s.update(id, func(account *wa.Account) {
		account.PasswordHash = passwordHash
		account.ResetToken = ""
		account.ResetAt = nil
	})
}

func (s *FSAccountStore) update(id string, mutate func(*wa.Account)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.readAccount(id)
	if err != nil {
		return err
	}
	mutate(account)
	return s.writeAccount(account)
}

func (s *FSAccountStore) confirmedByMapping(mappingPath string) (*wa.Account, error) {
	id, err := s.readMapping(mappingPath)
	if err != nil {
		return nil, err
	}
	account, err := s.readAccount(id)
	if err != nil {
		return nil, err
	}
	// the login/reset queries only see confirmed accounts
	if !account.Confirmed() {
		return nil, wa.ErrAccountNotFound
	}
	return account, nil
}

func (s *FSAccountStore) readAccount(id string) (*wa.Account, error) {
	data, err := os.ReadFile(s.accountPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, wa.ErrAccountNotFound
		}
		return nil, err
	}
	var account wa.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *FSAccountStore) writeAccount(account *wa.Account) error {
	data, err := json.MarshalIndent(account, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomicFile(s.accountPath(account.ID), data)
}

type idMapping struct {
	AccountID string `json:"account_id"`
}

func (s *FSAccountStore) writeMapping(path, accountID string) error {
	data, err := json.MarshalIndent(&idMapping{AccountID: accountID}, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomicFile(path, data)
}

func (s *FSAccountStore) readMapping(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", wa.ErrAccountNotFound
		}
		return "", err
	}
	var mapping idMapping
	if err := json.Unmarshal(data, &mapping); err != nil {
		return "", err
	}
	return mapping.AccountID, nil
}
