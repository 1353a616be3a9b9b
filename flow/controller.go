package flow

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"log/slog"
	"ru-ticket/common/constant"
	"ru-ticket/common/errs"
	"ru-ticket/eligibility"
	"ru-ticket/model"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	ErrNotLoggedIn      = errors.New("not logged in")
	ErrUnknownId        = errors.New("registration id not registered on this device")
	ErrInvalidId        = errors.New("registration id must contain only digits")
	ErrNoTicket         = errors.New("no ticket purchased")
	ErrVisitorWithoutId = errors.New("only visitors may register without a registration id")
	ErrUnknownCategory  = errors.New("unknown category")
)

// API is the slice of the ticket API the client flow drives.
type API interface {
	CreateTicket(ctx context.Context, req model.CreateTicketRequest) (string, error)
	PaymentReference(ctx context.Context, ticketId string) (model.PaymentReferenceResponse, error)
	ConfirmPayment(ctx context.Context, ticketId string) error
	PaymentStatus(ctx context.Context, ticketId string) (bool, error)
}

type RegisterInput struct {
	Name     string `validate:"required,fullname"`
	Category string `validate:"required"`
	Id       string `validate:"omitempty,number"`
	Photo    string
}

type Purchase struct {
	TicketId   string
	Restaurant eligibility.Restaurant
	Meal       eligibility.Meal
	Price      model.Money
	// Paid is set for free meals, which skip the payment reference.
	Paid      bool
	Reference *model.PaymentReferenceResponse
}

// Controller walks a client through register, buy, pay and redeem. It is
// safe for use by one user session at a time.
type Controller struct {
	API      API
	Profiles ProfileStore
	Engine   *eligibility.Engine
	Validate *validator.Validate
	Poller   *Poller

	TimeNow func() time.Time

	mu sync.Mutex
}

func NewController(api API, profiles ProfileStore, engine *eligibility.Engine, validate *validator.Validate, pollInterval time.Duration) (*Controller, error) {
	if err := RegisterValidations(validate); err != nil {
		return nil, err
	}

	return &Controller{
		API:      api,
		Profiles: profiles,
		Engine:   engine,
		Validate: validate,
		Poller:   &Poller{Interval: pollInterval},
		TimeNow:  time.Now,
	}, nil
}

func (c *Controller) now() time.Time {
	if c.TimeNow == nil {
		return time.Now()
	}
	return c.TimeNow()
}

func (c *Controller) Register(in RegisterInput) (*Profile, error) {
	in.Name = strings.Join(strings.Fields(in.Name), " ")
	in.Id = strings.TrimSpace(in.Id)

	if err := c.Validate.Struct(in); err != nil {
		return nil, err
	}

	category, ok := eligibility.LookupCategory(in.Category)
	if !ok {
		return nil, ErrUnknownCategory
	}

	if in.Id == "" {
		if category.Code != eligibility.VisitorCategory {
			return nil, ErrVisitorWithoutId
		}
		in.Id = strconv.FormatInt(c.now().UnixMilli(), 10)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	profile := &Profile{
		Id:       in.Id,
		Name:     in.Name,
		Category: category.Code,
		Price:    category.Price,
		Photo:    in.Photo,
	}

	if err := c.Profiles.Save(profile); err != nil {
		return nil, err
	}

	return profile, nil
}

func (c *Controller) Login(id string) (*Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.Trim(id, "0123456789") != "" {
		return nil, ErrInvalidId
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	profile, err := c.Profiles.Load()
	if errors.Is(err, ErrNoProfile) {
		return nil, ErrUnknownId
	}
	if err != nil {
		return nil, err
	}

	if profile.Id != id {
		return nil, ErrUnknownId
	}

	return profile, nil
}

func (c *Controller) Profile() (*Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.profile()
}

func (c *Controller) profile() (*Profile, error) {
	profile, err := c.Profiles.Load()
	if errors.Is(err, ErrNoProfile) {
		return nil, ErrNotLoggedIn
	}
	return profile, err
}

// Buy resolves the meal being served at restaurant, prices it for the
// profile's category and obtains a ticket. Free meals are confirmed right
// away; paid ones come back with a payment reference.
func (c *Controller) Buy(ctx context.Context, restaurant string, forcedMeal string) (Purchase, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	profile, err := c.profile()
	if err != nil {
		return Purchase{}, err
	}

	r, ok := eligibility.ParseRestaurant(restaurant)
	if !ok {
		return Purchase{}, eligibility.ErrUnknownRestaurant
	}

	meal, err := c.Engine.ResolveMeal(r, eligibility.Meal(forcedMeal), c.now())
	if err != nil {
		return Purchase{}, err
	}

	category, ok := eligibility.LookupCategory(profile.Category)
	if !ok {
		return Purchase{}, ErrUnknownCategory
	}

	price, err := eligibility.MealPrice(category, meal)
	if err != nil {
		return Purchase{}, err
	}

	profile.Restaurant = string(r)
	profile.Meal = string(meal)
	profile.MealPrice = &price
	if err = c.Profiles.Save(profile); err != nil {
		return Purchase{}, err
	}

	if profile.TicketId == "" {
		id, err := c.API.CreateTicket(ctx, model.CreateTicketRequest{
			Name:       profile.Name,
			Category:   profile.Category,
			Price:      &price,
			Restaurant: string(r),
			Meal:       string(meal),
			Photo:      profile.Photo,
		})
		if err != nil {
			return Purchase{}, fmt.Errorf("create ticket: %w", err)
		}

		profile.TicketId = id
		if err = c.Profiles.Save(profile); err != nil {
			return Purchase{}, err
		}
	}

	purchase := Purchase{TicketId: profile.TicketId, Restaurant: r, Meal: meal, Price: price}

	if price <= 0 {
		if err = c.API.ConfirmPayment(ctx, profile.TicketId); err != nil {
			return purchase, fmt.Errorf("confirm free meal: %w", err)
		}
		purchase.Paid = true
		return purchase, nil
	}

	ref, err := c.API.PaymentReference(ctx, profile.TicketId)
	if err != nil {
		return purchase, fmt.Errorf("payment reference: %w", err)
	}
	purchase.Reference = &ref

	return purchase, nil
}

// SimulatePayment marks the current ticket paid through the trusted confirm
// endpoint.
func (c *Controller) SimulatePayment(ctx context.Context) error {
	ticketId, err := c.ticketId()
	if err != nil {
		return err
	}

	return c.API.ConfirmPayment(ctx, ticketId)
}

// WaitForPayment polls the payment status until the ticket is paid, ctx is
// done or Logout stops the poll.
func (c *Controller) WaitForPayment(ctx context.Context) error {
	ticketId, err := c.ticketId()
	if err != nil {
		return err
	}

	result := c.Poller.Start(ctx, func(ctx context.Context) (bool, error) {
		paid, err := c.API.PaymentStatus(ctx, ticketId)
		if err == nil {
			slog.DebugContext(ctx, "payment status polled", slog.String(constant.LogFieldTicketId, ticketId), slog.Bool("paid", paid))
		}
		return paid, err
	})

	return <-result
}

// RedemptionCode returns SQRU|<ticketId> once the ticket is paid and, outside
// dev mode, while its restaurant is serving.
func (c *Controller) RedemptionCode(ctx context.Context) (string, error) {
	c.mu.Lock()
	profile, err := c.profile()
	c.mu.Unlock()
	if err != nil {
		return "", err
	}

	if profile.TicketId == "" {
		return "", ErrNoTicket
	}

	if !c.Engine.DevMode {
		now := c.now()
		if profile.Restaurant != "" {
			if _, ok := c.Engine.CurrentMeal(eligibility.Restaurant(profile.Restaurant), now); !ok {
				return "", eligibility.ErrClosed
			}
		} else if !c.Engine.AnyRestaurantOpen(now) {
			return "", eligibility.ErrClosed
		}
	}

	paid, err := c.API.PaymentStatus(ctx, profile.TicketId)
	if err != nil {
		return "", err
	}
	if !paid {
		return "", errs.ErrPaymentPending
	}

	return constant.RedemptionCodePrefix + profile.TicketId, nil
}

func (c *Controller) Logout() error {
	c.Poller.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.Profiles.Delete()
}

func (c *Controller) ticketId() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	profile, err := c.profile()
	if err != nil {
		return "", err
	}
	if profile.TicketId == "" {
		return "", ErrNoTicket
	}
	return profile.TicketId, nil
}
