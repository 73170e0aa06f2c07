package storefront

import (
	"context"
	"time"

	"fiber-storefront/internal/domain"
)

const addressFragment = `
fragment AddressFields on MailingAddress {
  id
  firstName
  lastName
  company
  address1
  address2
  city
  province
  country
  zip
  phone
}
`

const mutationAccessTokenCreate = `
mutation CustomerAccessTokenCreate($input: CustomerAccessTokenCreateInput!) {
  customerAccessTokenCreate(input: $input) {
    customerAccessToken { accessToken expiresAt }
    customerUserErrors { code field message }
  }
}
`

const mutationAccessTokenDelete = `
mutation CustomerAccessTokenDelete($customerAccessToken: String!) {
  customerAccessTokenDelete(customerAccessToken: $customerAccessToken) {
    deletedAccessToken
    userErrors { field message }
  }
}
`

const mutationCustomerCreate = `
mutation CustomerCreate($input: CustomerCreateInput!) {
  customerCreate(input: $input) {
    customer { id }
    customerUserErrors { code field message }
  }
}
`

const queryCustomer = `
query CustomerDetails($customerAccessToken: String!) {
  customer(customerAccessToken: $customerAccessToken) {
    id
    email
    firstName
    lastName
    phone
    defaultAddress { ...AddressFields }
    addresses(first: 20) { nodes { ...AddressFields } }
    orders(first: 20, sortKey: PROCESSED_AT, reverse: true) {
      nodes {
        id
        orderNumber
        processedAt
        financialStatus
        fulfillmentStatus
        totalPrice { amount currencyCode }
        lineItems(first: 10) {
          nodes {
            title
            quantity
            variant { image { url altText width height } }
          }
        }
      }
    }
  }
}
` + addressFragment

const mutationCustomerUpdate = `
mutation CustomerUpdate($customerAccessToken: String!, $customer: CustomerUpdateInput!) {
  customerUpdate(customerAccessToken: $customerAccessToken, customer: $customer) {
    customer { id }
    customerAccessToken { accessToken expiresAt }
    customerUserErrors { code field message }
  }
}
`

const mutationAddressCreate = `
mutation CustomerAddressCreate($customerAccessToken: String!, $address: MailingAddressInput!) {
  customerAddressCreate(customerAccessToken: $customerAccessToken, address: $address) {
    customerAddress { id }
    customerUserErrors { code field message }
  }
}
`

const mutationAddressUpdate = `
mutation CustomerAddressUpdate($customerAccessToken: String!, $id: ID!, $address: MailingAddressInput!) {
  customerAddressUpdate(customerAccessToken: $customerAccessToken, id: $id, address: $address) {
    customerAddress { id }
    customerUserErrors { code field message }
  }
}
`

const mutationAddressDelete = `
mutation CustomerAddressDelete($customerAccessToken: String!, $id: ID!) {
  customerAddressDelete(customerAccessToken: $customerAccessToken, id: $id) {
    deletedCustomerAddressId
    customerUserErrors { code field message }
  }
}
`

const mutationDefaultAddressUpdate = `
mutation CustomerDefaultAddressUpdate($customerAccessToken: String!, $addressId: ID!) {
  customerDefaultAddressUpdate(customerAccessToken: $customerAccessToken, addressId: $addressId) {
    customer { id }
    customerUserErrors { code field message }
  }
}
`

const mutationCustomerRecover = `
mutation CustomerRecover($email: String!) {
  customerRecover(email: $email) {
    customerUserErrors { code field message }
  }
}
`

const mutationCustomerReset = `
mutation CustomerReset($id: ID!, $input: CustomerResetInput!) {
  customerReset(id: $id, input: $input) {
    customerAccessToken { accessToken expiresAt }
    customerUserErrors { code field message }
  }
}
`

type accessTokenNode struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func (n *accessTokenNode) toDomain() *domain.CustomerAccessToken {
	if n == nil {
		return nil
	}
	return &domain.CustomerAccessToken{AccessToken: n.AccessToken, ExpiresAt: n.ExpiresAt}
}

type customerNode struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Phone          string          `json:"phone"`
	DefaultAddress *domain.Address `json:"defaultAddress"`
	Addresses      struct {
		Nodes []domain.Address `json:"nodes"`
	} `json:"addresses"`
	Orders struct {
		Nodes []struct {
			ID                string       `json:"id"`
			OrderNumber       int          `json:"orderNumber"`
			ProcessedAt       time.Time    `json:"processedAt"`
			FinancialStatus   string       `json:"financialStatus"`
			FulfillmentStatus string       `json:"fulfillmentStatus"`
			TotalPrice        domain.Money `json:"totalPrice"`
			LineItems         struct {
				Nodes []struct {
					Title    string `json:"title"`
					Quantity int    `json:"quantity"`
					Variant  *struct {
						Image *domain.Image `json:"image"`
					} `json:"variant"`
				} `json:"nodes"`
			} `json:"lineItems"`
		} `json:"nodes"`
	} `json:"orders"`
}

func (n *customerNode) toDomain() *domain.Customer {
	c := &domain.Customer{
		ID:             n.ID,
		Email:          n.Email,
		FirstName:      n.FirstName,
		LastName:       n.LastName,
		Phone:          n.Phone,
		DefaultAddress: n.DefaultAddress,
		Addresses:      make([]domain.Address, 0, len(n.Addresses.Nodes)),
		Orders:         make([]domain.Order, 0, len(n.Orders.Nodes)),
	}
	for _, a := range n.Addresses.Nodes {
		a.IsDefaultAddress = n.DefaultAddress != nil && a.ID == n.DefaultAddress.ID
		c.Addresses = append(c.Addresses, a)
	}
	for _, o := range n.Orders.Nodes {
		order := domain.Order{
			ID:                o.ID,
			OrderNumber:       o.OrderNumber,
			ProcessedAt:       o.ProcessedAt,
			FinancialStatus:   o.FinancialStatus,
			FulfillmentStatus: o.FulfillmentStatus,
			TotalPrice:        o.TotalPrice,
			LineItems:         make([]domain.OrderLineItem, 0, len(o.LineItems.Nodes)),
		}
		for _, li := range o.LineItems.Nodes {
			item := domain.OrderLineItem{Title: li.Title, Quantity: li.Quantity}
			if li.Variant != nil {
				item.Image = li.Variant.Image
			}
			order.LineItems = append(order.LineItems, item)
		}
		c.Orders = append(c.Orders, order)
	}
	return c
}

func (c *Client) CreateAccessToken(ctx context.Context, email, password string) (*domain.CustomerAccessToken, error) {
	data, err := do[struct {
		Payload struct {
			Token  *accessTokenNode `json:"customerAccessToken"`
			Errors []userError      `json:"customerUserErrors"`
		} `json:"customerAccessTokenCreate"`
	}](ctx, c, "CustomerAccessTokenCreate", map[string]interface{}{
		"input": map[string]string{"email": email, "password": password},
	})
	if err != nil {
		return nil, err
	}
	if err := userErrorsToErr(data.Payload.Errors); err != nil {
		return nil, err
	}
	if data.Payload.Token == nil {
		return nil, domain.ErrUnauthorized
	}
	return data.Payload.Token.toDomain(), nil
}

func (c *Client) DeleteAccessToken(ctx context.Context, token string) error {
	data, err := do[struct {
		Payload struct {
			Errors []userError `json:"userErrors"`
		} `json:"customerAccessTokenDelete"`
	}](ctx, c, "CustomerAccessTokenDelete", map[string]interface{}{"customerAccessToken": token})
	if err != nil {
		return err
	}
	return userErrorsToErr(data.Payload.Errors)
}

func (c *Client) CreateCustomer(ctx context.Context, input domain.CustomerCreateInput) error {
	data, err := do[struct {
		Payload struct {
			Errors []userError `json:"customerUserErrors"`
		} `json:"customerCreate"`
	}](ctx, c, "CustomerCreate", map[string]interface{}{"input": input})
	if err != nil {
		return err
	}
	return userErrorsToErr(data.Payload.Errors)
}

// GetCustomer maps an unknown or expired token to domain.ErrUnauthorized.
func (c *Client) GetCustomer(ctx context.Context, token string) (*domain.Customer, error) {
	data, err := do[struct {
		Customer *customerNode `json:"customer"`
	}](ctx, c, "CustomerDetails", map[string]interface{}{"customerAccessToken": token})
	if err != nil {
		return nil, err
	}
	if data.Customer == nil {
		return nil, domain.ErrUnauthorized
	}
	return data.Customer.toDomain(), nil
}

// UpdateCustomer returns a fresh access token when the backend rotated it (password change).
func (c *Client) UpdateCustomer(ctx context.Context, token string, input domain.CustomerUpdateInput) (*domain.CustomerAccessToken, error) {
	data, err := do[struct {
		Payload struct {
			Token  *accessTokenNode `json:"customerAccessToken"`
			Errors []userError      `json:"customerUserErrors"`
		} `json:"customerUpdate"`
	}](ctx, c, "CustomerUpdate", map[string]interface{}{"customerAccessToken": token, "customer": input})
	if err != nil {
		return nil, err
	}
	if err := userErrorsToErr(data.Payload.Errors); err != nil {
		return nil, err
	}
	return data.Payload.Token.toDomain(), nil
}

func (c *Client) CreateAddress(ctx context.Context, token string, input domain.AddressInput) (string, error) {
	data, err := do[struct {
		Payload struct {
			Address *struct {
				ID string `json:"id"`
			} `json:"customerAddress"`
			Errors []userError `json:"customerUserErrors"`
		} `json:"customerAddressCreate"`
	}](ctx, c, "CustomerAddressCreate", map[string]interface{}{"customerAccessToken": token, "address": input})
	if err != nil {
		return "", err
	}
	if err := userErrorsToErr(data.Payload.Errors); err != nil {
		return "", err
	}
	if data.Payload.Address == nil {
		return "", domain.ErrUnauthorized
	}
	return data.Payload.Address.ID, nil
}

func (c *Client) UpdateAddress(ctx context.Context, token, id string, input domain.AddressInput) error {
	data, err := do[struct {
		Payload struct {
			Errors []userError `json:"customerUserErrors"`
		} `json:"customerAddressUpdate"`
	}](ctx, c, "CustomerAddressUpdate", map[string]interface{}{"customerAccessToken": token, "id": id, "address": input})
	if err != nil {
		return err
	}
	return userErrorsToErr(data.Payload.Errors)
}

func (c *Client) DeleteAddress(ctx context.Context, token, id string) error {
	data, err := do[struct {
		Payload struct {
			Errors []userError `json:"customerUserErrors"`
		} `json:"customerAddressDelete"`
	}](ctx, c, "CustomerAddressDelete", map[string]interface{}{"customerAccessToken": token, "id": id})
	if err != nil {
		return err
	}
	return userErrorsToErr(data.Payload.Errors)
}

func (c *Client) SetDefaultAddress(ctx context.Context, token, id string) error {
	data, err := do[struct {
		Payload struct {
			Errors []userError `json:"customerUserErrors"`
		} `json:"customerDefaultAddressUpdate"`
	}](ctx, c, "CustomerDefaultAddressUpdate", map[string]interface{}{"customerAccessToken": token, "addressId": id})
	if err != nil {
		return err
	}
	return userErrorsToErr(data.Payload.Errors)
}

func (c *Client) RecoverCustomer(ctx context.Context, email string) error {
	data, err := do[struct {
		Payload struct {
			Errors []userError `json:"customerUserErrors"`
		} `json:"customerRecover"`
	}](ctx, c, "CustomerRecover", map[string]interface{}{"email": email})
	if err != nil {
		return err
	}
	return userErrorsToErr(data.Payload.Errors)
}

func (c *Client) ResetCustomer(ctx context.Context, id, resetToken, password string) (*domain.CustomerAccessToken, error) {
	data, err := do[struct {
		Payload struct {
			Token  *accessTokenNode `json:"customerAccessToken"`
			Errors []userError      `json:"customerUserErrors"`
		} `json:"customerReset"`
	}](ctx, c, "CustomerReset", map[string]interface{}{
		"id":    id,
		"input": map[string]string{"resetToken": resetToken, "password": password},
	})
	if err != nil {
		return nil, err
	}
	if err := userErrorsToErr(data.Payload.Errors); err != nil {
		return nil, err
	}
	if data.Payload.Token == nil {
		return nil, domain.ErrUnauthorized
	}
	return data.Payload.Token.toDomain(), nil
}
