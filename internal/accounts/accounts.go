package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"arogyapath/internal/storage"
)

const (
	CategoryDisabled         = "disabled"
	CategoryDifferentlyAbled = "differently_abled"
	CategorySenior           = "senior"
)

var (
	ErrInvalidCategory   = errors.New("invalid category")
	ErrMobileTaken       = errors.New("mobile already registered")
	ErrMobileNotFound    = errors.New("mobile not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrMissingField      = errors.New("missing required field")
)

var messages = map[error]string{
	ErrInvalidCategory:   "Please select a valid category.",
	ErrMobileTaken:       "Mobile number already registered. Please login.",
	ErrMobileNotFound:    "Mobile number not found. Please sign up.",
	ErrIncorrectPassword: "Incorrect password. Please try again.",
}

// Message returns the text shown to the person filling in the form.
func Message(err error) string {
	for sentinel, msg := range messages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	if errors.Is(err, ErrMissingField) {
		return "Please fill in all required fields."
	}
	return "Something went wrong. Please try again."
}

// Store is the slice of storage.Store that accounts needs.
type Store interface {
	CreateUser(ctx context.Context, user storage.User) (storage.User, error)
	GetUserByID(ctx context.Context, id int64) (storage.User, error)
	GetUserByMobile(ctx context.Context, mobile string) (storage.User, error)
}

type Service struct {
	Store Store
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
}

type Registration struct {
	Name              string
	Age               int
	Gender            string
	Mobile            string
	Password          string
	Category          string
	DisabilityType    string
	EmergencyContacts string
}

func (s *Service) Register(ctx context.Context, reg Registration) (storage.User, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Gender = strings.TrimSpace(reg.Gender)
	reg.Mobile = strings.TrimSpace(reg.Mobile)
	reg.Category = strings.TrimSpace(reg.Category)
	reg.DisabilityType = strings.TrimSpace(reg.DisabilityType)
	reg.EmergencyContacts = strings.TrimSpace(reg.EmergencyContacts)

	switch {
	case reg.Name == "":
		return storage.User{}, fmt.Errorf("%w: name", ErrMissingField)
	case reg.Mobile == "":
		return storage.User{}, fmt.Errorf("%w: mobile", ErrMissingField)
	case reg.Password == "":
		return storage.User{}, fmt.Errorf("%w: password", ErrMissingField)
	case reg.Age <= 0:
		return storage.User{}, fmt.Errorf("%w: age", ErrMissingField)
	}
	if !validCategory(reg.Category) {
		return storage.User{}, ErrInvalidCategory
	}

	if _, err := s.Store.GetUserByMobile(ctx, reg.Mobile); err == nil {
		return storage.User{}, ErrMobileTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return storage.User{}, fmt.Errorf("lookup mobile: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost())
	if err != nil {
		return storage.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.Store.CreateUser(ctx, storage.User{
		Name:              reg.Name,
		Age:               reg.Age,
		Gender:            reg.Gender,
		Mobile:            reg.Mobile,
		PasswordHash:      string(hash),
		Category:          reg.Category,
		DisabilityType:    reg.DisabilityType,
		EmergencyContacts: reg.EmergencyContacts,
	})
	if err != nil {
		return storage.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *Service) Authenticate(ctx context.Context, mobile, password string) (storage.User, error) {
	user, err := s.Store.GetUserByMobile(ctx, strings.TrimSpace(mobile))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.User{}, ErrMobileNotFound
		}
		return storage.User{}, fmt.Errorf("lookup mobile: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return storage.User{}, ErrIncorrectPassword
	}
	return user, nil
}

func (s *Service) Lookup(ctx context.Context, id int64) (storage.User, error) {
	return s.Store.GetUserByID(ctx, id)
}

func (s *Service) cost() int {
	if s.Cost > 0 {
		return s.Cost
	}
	return bcrypt.DefaultCost
}

func validCategory(category string) bool {
	switch category {
	case CategoryDisabled, CategoryDifferentlyAbled, CategorySenior:
		return true
	}
	return false
}

// HomePath is where a user lands after signing up or logging in.
func HomePath(user storage.User) string {
	if user.Category == CategoryDisabled || user.Category == CategoryDifferentlyAbled {
		return fmt.Sprintf("/disabled/%d", user.ID)
	}
	return fmt.Sprintf("/senior/%d", user.ID)
}

type Contact struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// ParseEmergencyContacts reads the stored "Name:Number,Name:Number" form.
// Entries that do not split into exactly two parts are dropped.
func ParseEmergencyContacts(raw string) []Contact {
	contacts := []Contact{}
	if raw == "" {
		return contacts
	}
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.Split(entry, ":")
		if len(parts) != 2 {
			continue
		}
		contacts = append(contacts, Contact{Name: parts[0], Number: parts[1]})
	}
	return contacts
}
