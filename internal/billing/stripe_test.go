package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v78/webhook"
)

type fakeAccounts struct {
	plans        map[string]string
	customerPlan map[string]string
	linked       map[string]string
	cleared      []string
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		plans:        map[string]string{},
		customerPlan: map[string]string{},
		linked:       map[string]string{},
	}
}

func (f *fakeAccounts) SetPlan(ctx context.Context, email, plan string) error {
	f.plans[email] = plan
	return nil
}

func (f *fakeAccounts) LinkStripeSubscription(ctx context.Context, email, customerID, subscriptionID string) error {
	f.linked[email] = customerID + "/" + subscriptionID
	return nil
}

func (f *fakeAccounts) SetPlanByStripeCustomer(ctx context.Context, customerID, plan string) error {
	f.customerPlan[customerID] = plan
	return nil
}

func (f *fakeAccounts) ClearStripeSubscription(ctx context.Context, customerID string) error {
	f.cleared = append(f.cleared, customerID)
	return nil
}

func testService(t *testing.T, accounts Accounts) *Service {
	t.Helper()
	svc, err := NewService(Config{
		SecretKey:     "sk_test_123",
		WebhookSecret: "whsec_test",
		PriceBasic:    "price_basic",
		PricePremium:  "price_premium",
		PricePro:      "price_pro",
	}, accounts, nil)
	require.NoError(t, err)
	return svc
}

func sign(t *testing.T, payload string) string {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    "whsec_test",
		Timestamp: time.Now(),
	})
	return signed.Header
}

func TestNewServiceRequiresCredentials(t *testing.T) {
	_, err := NewService(Config{}, newFakeAccounts(), nil)
	require.Error(t, err)

	_, err = NewService(Config{SecretKey: "sk"}, newFakeAccounts(), nil)
	require.Error(t, err)
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	svc := testService(t, newFakeAccounts())
	err := svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=bogus")
	require.Error(t, err)
	require.Contains(t, err.Error(), "signature")
}

func TestHandleWebhookCheckoutCompleted(t *testing.T) {
	accounts := newFakeAccounts()
	svc := testService(t, accounts)

	payload := `{
		"id": "evt_1", "object": "event", "api_version": "2024-04-10",
		"type": "checkout.session.completed",
		"data": {"object": {
			"object": "checkout.session",
			"customer_email": "pat@example.com",
			"customer": {"id": "cus_123"},
			"subscription": {"id": "sub_456"},
			"metadata": {"plan": "premium"}
		}}
	}`

	err := svc.HandleWebhook(context.Background(), []byte(payload), sign(t, payload))
	require.NoError(t, err)
	require.Equal(t, "premium", accounts.plans["pat@example.com"])
	require.Equal(t, "cus_123/sub_456", accounts.linked["pat@example.com"])
}

func TestHandleWebhookSubscriptionUpdated(t *testing.T) {
	accounts := newFakeAccounts()
	svc := testService(t, accounts)

	payload := `{
		"id": "evt_2", "object": "event", "api_version": "2024-04-10",
		"type": "customer.subscription.updated",
		"data": {"object": {
			"object": "subscription",
			"status": "active",
			"customer": {"id": "cus_123"},
			"items": {"data": [{"price": {"id": "price_pro"}}]}
		}}
	}`

	err := svc.HandleWebhook(context.Background(), []byte(payload), sign(t, payload))
	require.NoError(t, err)
	require.Equal(t, "pro", accounts.customerPlan["cus_123"])
}

func TestHandleWebhookSubscriptionDeleted(t *testing.T) {
	accounts := newFakeAccounts()
	svc := testService(t, accounts)

	payload := `{
		"id": "evt_3", "object": "event", "api_version": "2024-04-10",
		"type": "customer.subscription.deleted",
		"data": {"object": {
			"object": "subscription",
			"status": "canceled",
			"customer": {"id": "cus_123"}
		}}
	}`

	err := svc.HandleWebhook(context.Background(), []byte(payload), sign(t, payload))
	require.NoError(t, err)
	require.Equal(t, []string{"cus_123"}, accounts.cleared)
}

func TestHandleWebhookIgnoresUnknownEvents(t *testing.T) {
	accounts := newFakeAccounts()
	svc := testService(t, accounts)

	payload := `{"id": "evt_4", "object": "event", "api_version": "2024-04-10", "type": "invoice.paid", "data": {"object": {}}}`
	err := svc.HandleWebhook(context.Background(), []byte(payload), sign(t, payload))
	require.NoError(t, err)
	require.Empty(t, accounts.plans)
	require.Empty(t, accounts.cleared)
}

func TestPlanForPrice(t *testing.T) {
	svc := testService(t, newFakeAccounts())

	for plan, price := range map[Plan]string{
		PlanBasic:   "price_basic",
		PlanPremium: "price_premium",
		PlanPro:     "price_pro",
	} {
		got, ok := svc.PlanForPrice(price)
		require.True(t, ok, fmt.Sprintf("price %s", price))
		require.Equal(t, plan, got)
	}

	_, ok := svc.PlanForPrice("price_unknown")
	require.False(t, ok)
}

func TestNewCheckoutSessionRejectsFreePlan(t *testing.T) {
	svc := testService(t, newFakeAccounts())
	_, err := svc.NewCheckoutSession("pat@example.com", PlanFree)
	require.Error(t, err)
}
