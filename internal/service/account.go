package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mkozhevin/retail_orders/internal/events"
	"github.com/mkozhevin/retail_orders/internal/hash"
	"github.com/mkozhevin/retail_orders/internal/logging"
	"github.com/mkozhevin/retail_orders/internal/models"
	"github.com/mkozhevin/retail_orders/internal/repo"
	"github.com/mkozhevin/retail_orders/internal/tokens"
	"github.com/mkozhevin/retail_orders/internal/transport"
)

const (
	minPasswordLen  = 8
	accessTokenTTL  = 24 * time.Hour
	maxAddressCount = 5
)

type AccountService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	Events    events.Publisher
}

// validatePassword enforces the password policy: minimum length and not
// entirely numeric.
func validatePassword(password string) *Error {
	var problems []string
	if len(password) < minPasswordLen {
		problems = append(problems,
			fmt.Sprintf("Пароль должен содержать не менее %d символов.", minPasswordLen))
	}
	numeric := password != ""
	for _, r := range password {
		if r < '0' || r > '9' {
			numeric = false
			break
		}
	}
	if numeric {
		problems = append(problems, "Пароль не может состоять только из цифр.")
	}
	if len(problems) > 0 {
		return &Error{Kind: ErrValidation, Message: "password", Details: problems}
	}
	return nil
}

func (s *AccountService) register(ctx context.Context, req transport.RegisterRequest, userType string) error {
	l := logging.FromContext(ctx).With("svc", "account.register", "type", userType)

	if err := validatePassword(req.Password); err != nil {
		return err
	}

	user := models.User{
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Patronymic: req.Patronymic,
		Company:    req.Company,
		Position:   req.Position,
		Phone:      req.Phone,
		Type:       userType,
		Active:     false,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return err
	}

	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			return Errf(ErrConflict, "Пользователь с таким email уже существует")
		}
		return err
	}

	token, err := s.Repo.GetOrCreateConfirmToken(ctx, user.ID)
	if err != nil {
		// The account exists; confirmation can be re-requested.
		l.Error("confirm token not created", "user_id", user.ID, "error", err)
		return nil
	}

	publish(ctx, s.Events, events.TopicUserEvents, fmt.Sprint(user.ID), events.UserRegistered{
		Type:   events.TypeUserRegistered,
		UserID: user.ID,
		Email:  user.Email,
		Token:  token.Key,
	})
	l.Info("user registered", "user_id", user.ID)
	return nil
}

// RegisterBuyer requires the full profile field set.
func (s *AccountService) RegisterBuyer(ctx context.Context, req transport.RegisterRequest) error {
	if req.FirstName == "" || req.LastName == "" || req.Email == "" ||
		req.Password == "" || req.Company == "" || req.Position == "" {
		return errMissingFields()
	}
	return s.register(ctx, req, models.UserTypeBuyer)
}

// RegisterPartner needs only contact email, password and company.
func (s *AccountService) RegisterPartner(ctx context.Context, req transport.RegisterRequest) error {
	if req.Email == "" || req.Password == "" || req.Company == "" {
		return errMissingFields()
	}
	return s.register(ctx, req, models.UserTypeShop)
}

func (s *AccountService) Confirm(ctx context.Context, email, key string) error {
	if email == "" || key == "" {
		return errMissingFields()
	}
	if err := s.Repo.ConfirmEmail(ctx, email, key); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Errf(ErrValidation, "Неправильно указан токен или email")
		}
		return err
	}
	return nil
}

// Login authenticates an active account and issues a bearer token.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", errMissingFields()
	}

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", Errf(ErrValidation, "Не удалось авторизовать")
		}
		return "", err
	}
	if !user.Active || !hash.CheckPassword(user.PasswordHash, password) {
		return "", Errf(ErrValidation, "Не удалось авторизовать")
	}

	return tokens.NewAccessToken(s.JWTSecret, user.ID, user.Type, time.Now().Add(accessTokenTTL))
}

func (s *AccountService) Details(ctx context.Context, userID uint) (*models.User, error) {
	return s.Repo.UserByID(ctx, userID)
}

func (s *AccountService) Update(ctx context.Context, userID uint, req transport.AccountUpdateRequest) error {
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		return err
	}

	if req.Password != nil {
		if err := validatePassword(*req.Password); err != nil {
			return err
		}
		if err := user.SetPassword(*req.Password); err != nil {
			return err
		}
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Patronymic != nil {
		user.Patronymic = *req.Patronymic
	}
	if req.Company != nil {
		user.Company = *req.Company
	}
	if req.Position != nil {
		user.Position = *req.Position
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	return s.Repo.SaveUser(ctx, user)
}

func (s *AccountService) Addresses(ctx context.Context, userID uint) ([]models.Address, error) {
	return s.Repo.Addresses(ctx, userID)
}

// CreateAddress enforces the per-user address cap.
func (s *AccountService) CreateAddress(ctx context.Context, userID uint, req transport.AddressRequest) error {
	if req.City == "" || req.Street == "" {
		return errMissingFields()
	}

	total, err := s.Repo.CountAddresses(ctx, userID)
	if err != nil {
		return err
	}
	if total >= maxAddressCount {
		return Errf(ErrValidation, "Максимальное количество адресов: %d.", maxAddressCount)
	}

	address := models.Address{
		UserID:    userID,
		City:      req.City,
		Street:    req.Street,
		House:     req.House,
		Structure: req.Structure,
		Building:  req.Building,
		Apartment: req.Apartment,
	}
	return s.Repo.CreateAddress(ctx, &address)
}

func (s *AccountService) UpdateAddress(ctx context.Context, userID uint, req transport.AddressRequest) error {
	if req.ID == 0 {
		return errMissingFields()
	}

	address, err := s.Repo.AddressByID(ctx, req.ID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Errf(ErrNotFound, "Нет адреса с таким id")
		}
		return err
	}

	if req.City != "" {
		address.City = req.City
	}
	if req.Street != "" {
		address.Street = req.Street
	}
	if req.House != "" {
		address.House = req.House
	}
	if req.Structure != "" {
		address.Structure = req.Structure
	}
	if req.Building != "" {
		address.Building = req.Building
	}
	if req.Apartment != "" {
		address.Apartment = req.Apartment
	}

	return s.Repo.SaveAddress(ctx, address)
}

func (s *AccountService) DeleteAddresses(ctx context.Context, userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, errMissingFields()
	}
	return s.Repo.DeleteAddresses(ctx, userID, ids)
}
