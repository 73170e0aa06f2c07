package domain

import (
	"context"
	"time"
)

type ContextKey string

const (
	CustomerSessionContextKey   ContextKey = "customerSession"
	StorefrontSessionContextKey ContextKey = "storefrontSession"
)

// CustomerSession is what AuthMiddleware unwraps from the session cookie.
type CustomerSession struct {
	AccessToken string
	ExpiresAt   time.Time
}

type Customer struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Phone          string    `json:"phone"`
	DefaultAddress *Address  `json:"defaultAddress,omitempty"`
	Addresses      []Address `json:"addresses"`
	Orders         []Order   `json:"orders"`
}

type Address struct {
	ID               string `json:"id"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Company          string `json:"company"`
	Address1         string `json:"address1"`
	Address2         string `json:"address2"`
	City             string `json:"city"`
	Province         string `json:"province"`
	Country          string `json:"country"`
	Zip              string `json:"zip"`
	Phone            string `json:"phone"`
	IsDefaultAddress bool   `json:"isDefaultAddress"`
}

type Order struct {
	ID                string          `json:"id"`
	OrderNumber       int             `json:"orderNumber"`
	ProcessedAt       time.Time       `json:"processedAt"`
	FinancialStatus   string          `json:"financialStatus"`
	FulfillmentStatus string          `json:"fulfillmentStatus"`
	TotalPrice        Money           `json:"totalPrice"`
	LineItems         []OrderLineItem `json:"lineItems"`
}

type OrderLineItem struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Image    *Image `json:"image,omitempty"`
}

type CustomerAccessToken struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type CustomerCreateInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CustomerUpdateInput only sends non-empty fields upstream.
type CustomerUpdateInput struct {
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Password  string `json:"password,omitempty"`
}

type AddressInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Company   string `json:"company,omitempty"`
	Address1  string `json:"address1,omitempty"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city,omitempty"`
	Province  string `json:"province,omitempty"`
	Country   string `json:"country,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// --- Interfaces ---

// CustomerRepository is the commerce backend's customer API.
type CustomerRepository interface {
	CreateAccessToken(ctx context.Context, email, password string) (*CustomerAccessToken, error)
	DeleteAccessToken(ctx context.Context, token string) error
	CreateCustomer(ctx context.Context, input CustomerCreateInput) error
	GetCustomer(ctx context.Context, token string) (*Customer, error)
	UpdateCustomer(ctx context.Context, token string, input CustomerUpdateInput) (*CustomerAccessToken, error)

	// Addresses
	CreateAddress(ctx context.Context, token string, input AddressInput) (string, error)
	UpdateAddress(ctx context.Context, token, id string, input AddressInput) error
	DeleteAddress(ctx context.Context, token, id string) error
	SetDefaultAddress(ctx context.Context, token, id string) error

	// Password recovery
	RecoverCustomer(ctx context.Context, email string) error
	ResetCustomer(ctx context.Context, id, resetToken, password string) (*CustomerAccessToken, error)
}
