package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"fiber-storefront/internal/domain"
	"fiber-storefront/pkg/logger"
)

const (
	minPasswordLength  = 5
	loginFailedMessage = "Sorry, we did not recognize either your email or password. Please try again or create a new account."
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^\s*(?:\+?(\d{1,3}))?([-. (]*(\d{3})[-. )]*)?((\d{3})[-. ]*(\d{2,4})(?:[-.x ]*(\d+))?)\s*$`)
)

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type UpdateAccountRequest struct {
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type AddressRequest struct {
	domain.AddressInput
	IsDefaultAddress bool `json:"isDefaultAddress"`
}

type AccountUsecase struct {
	repo domain.CustomerRepository
}

func NewAccountUsecase(repo domain.CustomerRepository) *AccountUsecase {
	return &AccountUsecase{repo: repo}
}

func (u *AccountUsecase) Login(ctx context.Context, email, password string) (*domain.CustomerAccessToken, error) {
	if err := validateEmail(email, true); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, domain.NewValidationError("password", "Please enter your password")
	}

	token, err := u.repo.CreateAccessToken(ctx, strings.TrimSpace(email), password)
	if err != nil {
		var userErr *domain.UserError
		if errors.As(err, &userErr) {
			return nil, &domain.UserError{Field: userErr.Field, Code: userErr.Code, Message: loginFailedMessage}
		}
		return nil, err
	}
	return token, nil
}

// Logout revokes the backend token. A revoke failure is logged, the session still ends.
func (u *AccountUsecase) Logout(ctx context.Context, accessToken string) {
	if accessToken == "" {
		return
	}
	if err := u.repo.DeleteAccessToken(ctx, accessToken); err != nil {
		logger.WithContext(ctx).Warn().Err(err).Msg("Failed to revoke customer access token")
	}
}

// Register creates the customer and logs them in.
func (u *AccountUsecase) Register(ctx context.Context, req RegisterRequest) (*domain.CustomerAccessToken, error) {
	if err := validateEmail(req.Email, true); err != nil {
		return nil, err
	}
	if err := validatePassword("password", req.Password, true); err != nil {
		return nil, err
	}
	if err := validateNames(req.FirstName, req.LastName); err != nil {
		return nil, err
	}

	err := u.repo.CreateCustomer(ctx, domain.CustomerCreateInput{
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	})
	if err != nil {
		return nil, err
	}
	return u.repo.CreateAccessToken(ctx, strings.TrimSpace(req.Email), req.Password)
}

func (u *AccountUsecase) GetAccount(ctx context.Context, accessToken string) (*domain.Customer, error) {
	if accessToken == "" {
		return nil, domain.ErrUnauthorized
	}
	return u.repo.GetCustomer(ctx, accessToken)
}

// UpdateAccount returns the replacement access token when the backend rotated it
// (password changes), otherwise nil.
func (u *AccountUsecase) UpdateAccount(ctx context.Context, accessToken string, req UpdateAccountRequest) (*domain.CustomerAccessToken, error) {
	if accessToken == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := validateEmail(req.Email, false); err != nil {
		return nil, err
	}
	if err := validateNames(req.FirstName, req.LastName); err != nil {
		return nil, err
	}
	if err := validatePhone(req.Phone); err != nil {
		return nil, err
	}
	if err := validatePassword("newPassword", req.NewPassword, false); err != nil {
		return nil, err
	}
	if req.NewPassword != "" && req.CurrentPassword == "" {
		return nil, domain.NewValidationError("currentPassword", "Please enter your current password")
	}

	if req.NewPassword != "" {
		customer, err := u.repo.GetCustomer(ctx, accessToken)
		if err != nil {
			return nil, err
		}
		if _, err := u.repo.CreateAccessToken(ctx, customer.Email, req.CurrentPassword); err != nil {
			var userErr *domain.UserError
			if errors.As(err, &userErr) {
				return nil, domain.NewValidationError("currentPassword", "Your current password is incorrect")
			}
			return nil, err
		}
	}

	return u.repo.UpdateCustomer(ctx, accessToken, domain.CustomerUpdateInput{
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Password:  req.NewPassword,
	})
}

func (u *AccountUsecase) CreateAddress(ctx context.Context, accessToken string, req AddressRequest) (string, error) {
	if accessToken == "" {
		return "", domain.ErrUnauthorized
	}
	if err := validateAddress(req.AddressInput); err != nil {
		return "", err
	}

	id, err := u.repo.CreateAddress(ctx, accessToken, req.AddressInput)
	if err != nil {
		return "", err
	}
	if req.IsDefaultAddress {
		if err := u.repo.SetDefaultAddress(ctx, accessToken, id); err != nil {
			return "", err
		}
	}
	return id, nil
}

func (u *AccountUsecase) UpdateAddress(ctx context.Context, accessToken, id string, req AddressRequest) error {
	if accessToken == "" {
		return domain.ErrUnauthorized
	}
	if id == "" {
		return domain.NewValidationError("id", "Address id is required")
	}
	if err := validateAddress(req.AddressInput); err != nil {
		return err
	}

	if err := u.repo.UpdateAddress(ctx, accessToken, id, req.AddressInput); err != nil {
		return err
	}
	if req.IsDefaultAddress {
		return u.repo.SetDefaultAddress(ctx, accessToken, id)
	}
	return nil
}

func (u *AccountUsecase) DeleteAddress(ctx context.Context, accessToken, id string) error {
	if accessToken == "" {
		return domain.ErrUnauthorized
	}
	if id == "" {
		return domain.NewValidationError("id", "Address id is required")
	}
	return u.repo.DeleteAddress(ctx, accessToken, id)
}

// Recover asks the backend to email a password reset link.
func (u *AccountUsecase) Recover(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return domain.NewValidationError("email", "Email is required")
	}
	if err := validateEmail(email, true); err != nil {
		return err
	}
	return u.repo.RecoverCustomer(ctx, strings.TrimSpace(email))
}

func (u *AccountUsecase) Reset(ctx context.Context, id, resetToken, password string) (*domain.CustomerAccessToken, error) {
	if id == "" || resetToken == "" {
		return nil, domain.NewValidationError("resetToken", "Invalid password reset link")
	}
	if err := validatePassword("password", password, true); err != nil {
		return nil, err
	}
	return u.repo.ResetCustomer(ctx, id, resetToken, password)
}

// --- validation ---

func validateEmail(email string, required bool) error {
	email = strings.TrimSpace(email)
	if email == "" {
		if required {
			return domain.NewValidationError("email", "Please enter a valid email")
		}
		return nil
	}
	if !emailRegex.MatchString(email) {
		return domain.NewValidationError("email", "Please enter a valid email")
	}
	return nil
}

func validatePassword(field, password string, required bool) error {
	if password == "" {
		if required {
			return domain.NewValidationError(field, "Please enter a password")
		}
		return nil
	}
	if len(password) < minPasswordLength {
		return domain.NewValidationError(field, "Passwords must have at least 5 characters")
	}
	return nil
}

func validateNames(firstName, lastName string) error {
	if strings.TrimSpace(firstName) == "" {
		return domain.NewValidationError("firstName", "Please enter your first name")
	}
	if strings.TrimSpace(lastName) == "" {
		return domain.NewValidationError("lastName", "Please enter your last name")
	}
	return nil
}

func validatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if !phoneRegex.MatchString(phone) {
		return domain.NewValidationError("phone", "Please enter a valid phone number")
	}
	return nil
}

func validateAddress(in domain.AddressInput) error {
	if err := validateNames(in.FirstName, in.LastName); err != nil {
		return err
	}
	return validatePhone(in.Phone)
}
