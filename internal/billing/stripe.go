package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fulmenhq/gofulmen/logging"
	"github.com/stripe/stripe-go/v78"
	portalsession "github.com/stripe/stripe-go/v78/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/webhook"
	"go.uber.org/zap"
)

// Config holds the Stripe credentials and plan price mapping.
type Config struct {
	Enabled       bool   `mapstructure:"enabled"`
	SecretKey     string `mapstructure:"secret_key"`
	WebhookSecret string `mapstructure:"webhook_secret"`

	PriceBasic   string `mapstructure:"price_basic"`
	PricePremium string `mapstructure:"price_premium"`
	PricePro     string `mapstructure:"price_pro"`

	SuccessURL string `mapstructure:"success_url"`
	CancelURL  string `mapstructure:"cancel_url"`
	ReturnURL  string `mapstructure:"return_url"`
}

// Accounts is the slice of the user store the billing service needs.
type Accounts interface {
	SetPlan(ctx context.Context, email, plan string) error
	LinkStripeSubscription(ctx context.Context, email, customerID, subscriptionID string) error
	SetPlanByStripeCustomer(ctx context.Context, customerID, plan string) error
	ClearStripeSubscription(ctx context.Context, customerID string) error
}

// Service processes Stripe webhooks and creates checkout and portal
// sessions.
type Service struct {
	cfg      Config
	accounts Accounts
	logger   *logging.Logger
}

// NewService wires the Stripe client key and returns the billing service.
func NewService(cfg Config, accounts Accounts, logger *logging.Logger) (*Service, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}
	if strings.TrimSpace(cfg.WebhookSecret) == "" {
		return nil, fmt.Errorf("stripe webhook secret is required")
	}

	stripe.Key = cfg.SecretKey
	return &Service{cfg: cfg, accounts: accounts, logger: logger}, nil
}

// PlanForPrice maps a Stripe price ID back to the plan it sells.
func (s *Service) PlanForPrice(priceID string) (Plan, bool) {
	switch priceID {
	case "":
		return PlanFree, false
	case s.cfg.PriceBasic:
		return PlanBasic, true
	case s.cfg.PricePremium:
		return PlanPremium, true
	case s.cfg.PricePro:
		return PlanPro, true
	default:
		return PlanFree, false
	}
}

func (s *Service) priceForPlan(plan Plan) (string, error) {
	switch plan {
	case PlanBasic:
		return s.cfg.PriceBasic, nil
	case PlanPremium:
		return s.cfg.PricePremium, nil
	case PlanPro:
		return s.cfg.PricePro, nil
	default:
		return "", fmt.Errorf("plan %s has no checkout price", plan)
	}
}

// NewCheckoutSession creates a subscription checkout for the given plan and
// returns the hosted payment URL.
func (s *Service) NewCheckoutSession(email string, plan Plan) (string, error) {
	priceID, err := s.priceForPlan(plan)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(priceID) == "" {
		return "", fmt.Errorf("no price configured for plan %s", plan)
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(priceID),
			Quantity: stripe.Int64(1),
		}},
		SuccessURL:    stripe.String(s.cfg.SuccessURL),
		CancelURL:     stripe.String(s.cfg.CancelURL),
		CustomerEmail: stripe.String(email),
	}
	params.AddMetadata("plan", string(plan))

	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

// NewPortalSession creates a billing portal session so a subscriber can
// manage or cancel their plan.
func (s *Service) NewPortalSession(customerID string) (string, error) {
	if strings.TrimSpace(customerID) == "" {
		return "", fmt.Errorf("stripe customer id is required")
	}

	sess, err := portalsession.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(s.cfg.ReturnURL),
	})
	if err != nil {
		return "", fmt.Errorf("create portal session: %w", err)
	}
	return sess.URL, nil
}

// HandleWebhook verifies the event signature and applies the subscription
// lifecycle to the user store. Unknown event types are acknowledged and
// ignored.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.cfg.WebhookSecret)
	if err != nil {
		return fmt.Errorf("verify webhook signature: %w", err)
	}

	switch string(event.Type) {
	case "checkout.session.completed":
		return s.applyCheckoutCompleted(ctx, event.Data.Raw)
	case "customer.subscription.updated":
		return s.applySubscriptionUpdated(ctx, event.Data.Raw)
	case "customer.subscription.deleted":
		return s.applySubscriptionDeleted(ctx, event.Data.Raw)
	default:
		if s.logger != nil {
			s.logger.Debug("Ignoring stripe event", zap.String("type", string(event.Type)))
		}
		return nil
	}
}

func (s *Service) applyCheckoutCompleted(ctx context.Context, raw json.RawMessage) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return fmt.Errorf("decode checkout session: %w", err)
	}

	email := sess.CustomerEmail
	if email == "" && sess.CustomerDetails != nil {
		email = sess.CustomerDetails.Email
	}
	if email == "" {
		return fmt.Errorf("checkout session carries no customer email")
	}

	plan := ParsePlan(sess.Metadata["plan"])
	if !plan.Paid() {
		return fmt.Errorf("checkout session carries no paid plan metadata")
	}

	var customerID, subscriptionID string
	if sess.Customer != nil {
		customerID = sess.Customer.ID
	}
	if sess.Subscription != nil {
		subscriptionID = sess.Subscription.ID
	}

	if customerID != "" {
		if err := s.accounts.LinkStripeSubscription(ctx, email, customerID, subscriptionID); err != nil {
			return err
		}
	}
	if err := s.accounts.SetPlan(ctx, email, string(plan)); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("Checkout completed",
			zap.String("plan", string(plan)),
			zap.String("customer_id", customerID))
	}
	return nil
}

func (s *Service) applySubscriptionUpdated(ctx context.Context, raw json.RawMessage) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return fmt.Errorf("decode subscription: %w", err)
	}
	if sub.Customer == nil || sub.Customer.ID == "" {
		return fmt.Errorf("subscription carries no customer")
	}

	if sub.Status == stripe.SubscriptionStatusCanceled || sub.Status == stripe.SubscriptionStatusUnpaid {
		return s.accounts.ClearStripeSubscription(ctx, sub.Customer.ID)
	}

	plan := PlanFree
	if sub.Items != nil {
		for _, item := range sub.Items.Data {
			if item.Price == nil {
				continue
			}
			if p, ok := s.PlanForPrice(item.Price.ID); ok {
				plan = p
				break
			}
		}
	}

	if err := s.accounts.SetPlanByStripeCustomer(ctx, sub.Customer.ID, string(plan)); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("Subscription updated",
			zap.String("plan", string(plan)),
			zap.String("customer_id", sub.Customer.ID),
			zap.String("status", string(sub.Status)))
	}
	return nil
}

func (s *Service) applySubscriptionDeleted(ctx context.Context, raw json.RawMessage) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return fmt.Errorf("decode subscription: %w", err)
	}
	if sub.Customer == nil || sub.Customer.ID == "" {
		return fmt.Errorf("subscription carries no customer")
	}

	if err := s.accounts.ClearStripeSubscription(ctx, sub.Customer.ID); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("Subscription cancelled", zap.String("customer_id", sub.Customer.ID))
	}
	return nil
}
