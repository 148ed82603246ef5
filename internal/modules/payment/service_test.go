package payment

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"wmx/internal/domain"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testServerKey = "test-server-key"

// ---- mocks ----

type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	if p != nil {
		p.ID = 1
	}
	return args.Error(0)
}

func (m *MockPaymentRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) ListByInvoice(ctx context.Context, invoiceID int64) ([]domain.Payment, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) UpdateStatusIfChanged(ctx context.Context, orderID string, status domain.PaymentStatus, gatewayStatus, rawNotification string, paidAt *time.Time) (bool, error) {
	args := m.Called(ctx, orderID, status, gatewayStatus, rawNotification, paidAt)
	return args.Bool(0), args.Error(1)
}

type MockInvoiceStore struct {
	mock.Mock
}

func (m *MockInvoiceStore) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceStore) Update(ctx context.Context, inv *domain.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceStore) UpdateStatus(ctx context.Context, id int64, status domain.InvoiceStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockUserReader struct {
	mock.Mock
}

func (m *MockUserReader) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserReader) List(ctx context.Context, role string, query string, page, limit int) ([]domain.User, int64, error) {
	args := m.Called(ctx, role, query, page, limit)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

type fakeRecorder struct {
	activities    []domain.ActivityLog
	notifications []domain.Notification
}

func (f *fakeRecorder) CreateActivity(ctx context.Context, a *domain.ActivityLog) error {
	f.activities = append(f.activities, *a)
	return nil
}

func (f *fakeRecorder) Create(ctx context.Context, n *domain.Notification) error {
	f.notifications = append(f.notifications, *n)
	return nil
}

type fakeQueue struct {
	items []struct {
		Type string
		Data map[string]string
	}
}

func (f *fakeQueue) Push(itemType string, priority int, data map[string]string) {
	f.items = append(f.items, struct {
		Type string
		Data map[string]string
	}{itemType, data})
}

type fakeGateway struct {
	enabled bool
	result  *TransactionResult
	status  *StatusResult
	err     error
}

func (g *fakeGateway) Enabled() bool { return g.enabled }

func (g *fakeGateway) ClientKey() string { return "SB-client-key" }

func (g *fakeGateway) CreateTransaction(ctx context.Context, orderID string, amount int64, name, email string) (*TransactionResult, error) {
	return g.result, g.err
}

func (g *fakeGateway) TransactionStatus(ctx context.Context, orderID string) (*StatusResult, error) {
	if g.status == nil {
		return nil, g.err
	}
	return g.status, nil
}

// ---- helpers ----

func signedNotification(t *testing.T, orderID, statusCode, grossAmount, transactionStatus string) []byte {
	t.Helper()
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + testServerKey))
	payload := map[string]string{
		"order_id":           orderID,
		"status_code":        statusCode,
		"gross_amount":       grossAmount,
		"signature_key":      hex.EncodeToString(sum[:]),
		"transaction_status": transactionStatus,
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return raw
}

func newTestService(payments *MockPaymentRepo, invoices *MockInvoiceStore, users *MockUserReader, recorder *fakeRecorder, queue *fakeQueue, gw *fakeGateway) *Service {
	return NewService(payments, invoices, users, recorder, queue, gw, testServerKey)
}

// ---- tests ----

func TestStatusFromGateway(t *testing.T) {
	cases := []struct {
		transaction string
		fraud       string
		want        domain.PaymentStatus
	}{
		{"settlement", "", domain.PaymentPaid},
		{"capture", "accept", domain.PaymentPaid},
		{"capture", "challenge", domain.PaymentDenied},
		{"pending", "", domain.PaymentPending},
		{"deny", "", domain.PaymentDenied},
		{"cancel", "", domain.PaymentCancelled},
		{"expire", "", domain.PaymentExpired},
		{"refund", "", domain.PaymentFailed},
	}

	for _, tc := range cases {
		t.Run(tc.transaction+"/"+tc.fraud, func(t *testing.T) {
			require.Equal(t, tc.want, StatusFromGateway(tc.transaction, tc.fraud))
		})
	}
}

func TestHandleNotificationRejectsBadSignature(t *testing.T) {
	payments := new(MockPaymentRepo)
	svc := newTestService(payments, new(MockInvoiceStore), new(MockUserReader), &fakeRecorder{}, &fakeQueue{}, &fakeGateway{})

	raw := signedNotification(t, "WMX-1-abc", "200", "150000.00", "settlement")

	var tampered map[string]string
	require.NoError(t, json.Unmarshal(raw, &tampered))
	tampered["gross_amount"] = "1.00" // amount mutation invalidates the signature
	mutated, _ := json.Marshal(tampered)

	err := svc.HandleNotification(context.Background(), mutated)
	require.ErrorIs(t, err, ErrBadSignature)

	// nothing is looked up, let alone written
	payments.AssertNotCalled(t, "GetByOrderID", mock.Anything, mock.Anything)
}

func TestHandleNotificationSettlement(t *testing.T) {
	payments := new(MockPaymentRepo)
	invoices := new(MockInvoiceStore)
	users := new(MockUserReader)
	recorder := &fakeRecorder{}
	queue := &fakeQueue{}
	svc := newTestService(payments, invoices, users, recorder, queue, &fakeGateway{})

	orderID := "WMX-7-abc"
	payments.On("GetByOrderID", mock.Anything, orderID).
		Return(&domain.Payment{ID: 3, OrderID: orderID, InvoiceID: 7, ClientID: 42, Amount: 150000}, nil)
	payments.On("UpdateStatusIfChanged", mock.Anything, orderID, domain.PaymentPaid, "settlement", mock.Anything, mock.Anything).
		Return(true, nil)
	invoices.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.Invoice{ID: 7, Number: "INV-1", ClientID: 42, Amount: 150000, Currency: "IDR", Status: domain.InvoicePending}, nil)
	invoices.On("Update", mock.Anything, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.Status == domain.InvoicePaid && inv.PaidAt != nil
	})).Return(nil)
	users.On("List", mock.Anything, string(domain.RoleAdmin), "", 1, 50).
		Return([]domain.User{{ID: 1, Role: domain.RoleAdmin}}, int64(1), nil)

	raw := signedNotification(t, orderID, "200", "150000.00", "settlement")
	require.NoError(t, svc.HandleNotification(context.Background(), raw))

	payments.AssertExpectations(t)
	invoices.AssertExpectations(t)

	// client receipt email queued, client and admin notified
	require.Len(t, queue.items, 1)
	require.Equal(t, "payment_receipt", queue.items[0].Type)
	require.Equal(t, "42", queue.items[0].Data["user_id"])
	require.Len(t, recorder.notifications, 2)
}

func TestHandleNotificationRedeliveryIsNoop(t *testing.T) {
	payments := new(MockPaymentRepo)
	invoices := new(MockInvoiceStore)
	queue := &fakeQueue{}
	recorder := &fakeRecorder{}
	svc := newTestService(payments, invoices, new(MockUserReader), recorder, queue, &fakeGateway{})

	orderID := "WMX-7-abc"
	payments.On("GetByOrderID", mock.Anything, orderID).
		Return(&domain.Payment{ID: 3, OrderID: orderID, InvoiceID: 7, Status: domain.PaymentPaid}, nil)
	// status already matches, no row changes
	payments.On("UpdateStatusIfChanged", mock.Anything, orderID, domain.PaymentPaid, "settlement", mock.Anything, mock.Anything).
		Return(false, nil)

	raw := signedNotification(t, orderID, "200", "150000.00", "settlement")
	require.NoError(t, svc.HandleNotification(context.Background(), raw))

	invoices.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	require.Empty(t, queue.items)
	require.Empty(t, recorder.notifications)
}

func TestHandleNotificationExpireReopensInvoice(t *testing.T) {
	payments := new(MockPaymentRepo)
	invoices := new(MockInvoiceStore)
	recorder := &fakeRecorder{}
	svc := newTestService(payments, invoices, new(MockUserReader), recorder, &fakeQueue{}, &fakeGateway{})

	orderID := "WMX-9-xyz"
	payments.On("GetByOrderID", mock.Anything, orderID).
		Return(&domain.Payment{ID: 5, OrderID: orderID, InvoiceID: 9, ClientID: 42}, nil)
	payments.On("UpdateStatusIfChanged", mock.Anything, orderID, domain.PaymentExpired, "expire", mock.Anything, mock.Anything).
		Return(true, nil)
	invoices.On("GetByID", mock.Anything, int64(9)).
		Return(&domain.Invoice{ID: 9, ClientID: 42, Status: domain.InvoiceOverdue}, nil)
	invoices.On("UpdateStatus", mock.Anything, int64(9), domain.InvoicePending).Return(nil)

	raw := signedNotification(t, orderID, "407", "150000.00", "expire")
	require.NoError(t, svc.HandleNotification(context.Background(), raw))

	invoices.AssertExpectations(t)
}

func TestHandleNotificationUnknownOrder(t *testing.T) {
	payments := new(MockPaymentRepo)
	svc := newTestService(payments, new(MockInvoiceStore), new(MockUserReader), &fakeRecorder{}, &fakeQueue{}, &fakeGateway{})

	payments.On("GetByOrderID", mock.Anything, "WMX-404-gone").Return(nil, gorm.ErrRecordNotFound)

	raw := signedNotification(t, "WMX-404-gone", "200", "10.00", "settlement")
	require.ErrorIs(t, svc.HandleNotification(context.Background(), raw), ErrNotFound)
}

func TestCreateTokenGuards(t *testing.T) {
	t.Run("gateway disabled", func(t *testing.T) {
		svc := newTestService(new(MockPaymentRepo), new(MockInvoiceStore), new(MockUserReader), &fakeRecorder{}, &fakeQueue{}, &fakeGateway{enabled: false})
		_, err := svc.CreateToken(context.Background(), 42, 7)
		require.ErrorIs(t, err, ErrGatewayDisabled)
	})

	t.Run("foreign invoice", func(t *testing.T) {
		invoices := new(MockInvoiceStore)
		invoices.On("GetByID", mock.Anything, int64(7)).
			Return(&domain.Invoice{ID: 7, ClientID: 999, Status: domain.InvoicePending}, nil)

		svc := newTestService(new(MockPaymentRepo), invoices, new(MockUserReader), &fakeRecorder{}, &fakeQueue{}, &fakeGateway{enabled: true})
		_, err := svc.CreateToken(context.Background(), 42, 7)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("not payable", func(t *testing.T) {
		invoices := new(MockInvoiceStore)
		invoices.On("GetByID", mock.Anything, int64(7)).
			Return(&domain.Invoice{ID: 7, ClientID: 42, Status: domain.InvoicePaid}, nil)

		svc := newTestService(new(MockPaymentRepo), invoices, new(MockUserReader), &fakeRecorder{}, &fakeQueue{}, &fakeGateway{enabled: true})
		_, err := svc.CreateToken(context.Background(), 42, 7)
		require.ErrorIs(t, err, ErrNotPayable)
	})
}

func TestStatusPollSyncsFromGateway(t *testing.T) {
	payments := new(MockPaymentRepo)
	invoices := new(MockInvoiceStore)
	users := new(MockUserReader)
	queue := &fakeQueue{}
	gw := &fakeGateway{enabled: true, status: &StatusResult{TransactionStatus: "settlement"}}
	svc := newTestService(payments, invoices, users, &fakeRecorder{}, queue, gw)

	orderID := "WMX-7-abc"
	payments.On("GetByOrderID", mock.Anything, orderID).
		Return(&domain.Payment{ID: 3, OrderID: orderID, InvoiceID: 7, ClientID: 42, Status: domain.PaymentPending}, nil)
	payments.On("UpdateStatusIfChanged", mock.Anything, orderID, domain.PaymentPaid, "settlement", mock.Anything, mock.Anything).
		Return(true, nil)
	invoices.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.Invoice{ID: 7, Number: "INV-1", ClientID: 42, Currency: "IDR", Status: domain.InvoicePending}, nil)
	invoices.On("Update", mock.Anything, mock.Anything).Return(nil)
	users.On("List", mock.Anything, string(domain.RoleAdmin), "", 1, 50).
		Return([]domain.User{}, int64(0), nil)

	// polling the status runs the same transition the webhook would
	p, err := svc.Status(context.Background(), 42, false, orderID)
	require.NoError(t, err)
	require.Equal(t, domain.PaymentPaid, p.Status)
	require.Equal(t, "settlement", p.GatewayStatus)
	require.Len(t, queue.items, 1)

	// another client cannot poll it
	_, err = svc.Status(context.Background(), 99, false, orderID)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestCreateTokenOrderIDFormat(t *testing.T) {
	payments := new(MockPaymentRepo)
	invoices := new(MockInvoiceStore)
	users := new(MockUserReader)

	invoices.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.Invoice{ID: 7, ClientID: 42, Amount: 150000, Status: domain.InvoicePending}, nil)
	users.On("GetByID", mock.Anything, int64(42)).
		Return(&domain.User{ID: 42, Name: "Client", Email: "c@example.com"}, nil)
	payments.On("Create", mock.Anything, mock.Anything).Return(nil)

	gw := &fakeGateway{enabled: true, result: &TransactionResult{Token: "snap-token", RedirectURL: "https://pay.example/redirect"}}
	svc := newTestService(payments, invoices, users, &fakeRecorder{}, &fakeQueue{}, gw)

	p, err := svc.CreateToken(context.Background(), 42, 7)
	require.NoError(t, err)
	require.Equal(t, "snap-token", p.GatewayToken)
	require.Regexp(t, fmt.Sprintf("^WMX-%d-[0-9a-f-]{36}$", 7), p.OrderID)

	// the checkout response pairs the token with the publishable key
	require.Equal(t, "SB-client-key", svc.ClientKey())
}
