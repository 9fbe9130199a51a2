// Package checkout holds the checkout form: field state, synchronous
// validation, and submission.
package checkout

import (
	"context"
	"regexp"
	"sync"

	"storefront/pkg/api"
)

const DefaultCountry = "United States"

// SubmitErrorKey indexes the generic submission failure in the error
// map, alongside the per-field keys.
const SubmitErrorKey = "submit"

const submitFailedMessage = "Failed to process order. Please try again."

// Data is the form's field set. Country is prefilled and never
// required; AddressLine2 is optional.
type Data struct {
	Email        string
	Name         string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
}

func NewData() Data {
	return Data{Country: DefaultCountry}
}

// Permissive on purpose: one @, no whitespace, a dot in the domain.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate evaluates every rule so the caller gets the complete error
// set in one pass. An empty map means the form may be submitted.
func Validate(d Data) map[string]string {
	errs := make(map[string]string)
	switch {
	case d.Email == "":
		errs["email"] = "Email is required"
	case !emailPattern.MatchString(d.Email):
		errs["email"] = "Please enter a valid email"
	}
	if d.Name == "" {
		errs["name"] = "Name is required"
	}
	if d.AddressLine1 == "" {
		errs["address_line_1"] = "Address is required"
	}
	if d.City == "" {
		errs["city"] = "City is required"
	}
	if d.State == "" {
		errs["state"] = "State is required"
	}
	if d.PostalCode == "" {
		errs["postal_code"] = "Postal code is required"
	}
	return errs
}

// Checkouter is the slice of api.Client the form submits through.
type Checkouter interface {
	Checkout(ctx context.Context, req api.CheckoutRequest) (*api.Order, error)
}

// CartRefresher is satisfied by cartstate.Store; after a successful
// order the server has cleared the cart and the local copy must follow.
type CartRefresher interface {
	Refresh(ctx context.Context)
}

// Controller drives one checkout form instance. Validation runs on
// submit only; a field's error clears when that field is next edited.
type Controller struct {
	client Checkouter
	store  CartRefresher

	mu         sync.Mutex
	data       Data
	errors     map[string]string
	submitting bool
}

func NewController(client Checkouter, store CartRefresher) *Controller {
	return &Controller{
		client: client,
		store:  store,
		data:   NewData(),
		errors: map[string]string{},
	}
}

func (c *Controller) Data() Data {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

// Errors returns a copy of the current error map.
func (c *Controller) Errors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	errs := make(map[string]string, len(c.errors))
	for k, v := range c.errors {
		errs[k] = v
	}
	return errs
}

func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// SetField updates one field by its wire name and clears any error
// previously recorded against it. Unknown names are ignored.
func (c *Controller) SetField(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch name {
	case "email":
		c.data.Email = value
	case "name":
		c.data.Name = value
	case "address_line_1":
		c.data.AddressLine1 = value
	case "address_line_2":
		c.data.AddressLine2 = value
	case "city":
		c.data.City = value
	case "state":
		c.data.State = value
	case "postal_code":
		c.data.PostalCode = value
	case "country":
		c.data.Country = value
	default:
		return
	}
	delete(c.errors, name)
}

// Submit validates and, when clean, places the order. On success it
// refreshes the cart store and returns the new order id for the
// confirmation redirect. On any failure it returns ok=false with the
// errors available via Errors(), and the form stays editable.
func (c *Controller) Submit(ctx context.Context) (orderID string, ok bool) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return "", false
	}
	data := c.data
	if errs := Validate(data); len(errs) > 0 {
		c.errors = errs
		c.mu.Unlock()
		return "", false
	}
	c.errors = map[string]string{}
	c.submitting = true
	c.mu.Unlock()

	order, err := c.client.Checkout(ctx, api.CheckoutRequest{
		Email:        data.Email,
		Name:         data.Name,
		AddressLine1: data.AddressLine1,
		AddressLine2: data.AddressLine2,
		City:         data.City,
		State:        data.State,
		PostalCode:   data.PostalCode,
		Country:      data.Country,
	})

	c.mu.Lock()
	c.submitting = false
	if err != nil {
		c.errors[SubmitErrorKey] = submitFailedMessage
		c.mu.Unlock()
		return "", false
	}
	c.mu.Unlock()

	c.store.Refresh(ctx)
	return order.ID, true
}
