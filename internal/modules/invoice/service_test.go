package invoice

import (
	"context"
	"testing"
	"time"

	"wmx/internal/database"
	"wmx/internal/domain"
	"wmx/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

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

func setupService(t *testing.T) (*Service, *fakeQueue, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.AllModels()...))

	queue := &fakeQueue{}
	svc := NewService(
		repository.NewInvoiceRepository(db),
		repository.NewProjectRepository(db),
		repository.NewNotificationRepository(db),
		queue,
	)
	return svc, queue, db
}

func seedProject(t *testing.T, db *gorm.DB, clientID int64) *domain.Project {
	t.Helper()
	p := &domain.Project{ClientID: clientID, Name: "Website", Status: domain.ProjectInProgress}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestCreateTakesClientFromProject(t *testing.T) {
	svc, _, db := setupService(t)
	ctx := context.Background()
	p := seedProject(t, db, 42)

	inv, err := svc.Create(ctx, 1, CreateInvoiceRequest{ProjectID: p.ID, Amount: 5_000_000})
	require.NoError(t, err)
	require.Equal(t, int64(42), inv.ClientID)
	require.Equal(t, domain.InvoiceDraft, inv.Status)
	require.Equal(t, "IDR", inv.Currency)
	require.Regexp(t, `^INV-\d{8}-[0-9a-f]{6}$`, inv.Number)

	_, err = svc.Create(ctx, 1, CreateInvoiceRequest{ProjectID: 999, Amount: 1})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestIssueOnlyFromDraft(t *testing.T) {
	svc, _, db := setupService(t)
	ctx := context.Background()
	p := seedProject(t, db, 42)

	inv, err := svc.Create(ctx, 1, CreateInvoiceRequest{ProjectID: p.ID, Amount: 5_000_000})
	require.NoError(t, err)

	issued, err := svc.Issue(ctx, 1, inv.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvoicePending, issued.Status)

	_, err = svc.Issue(ctx, 1, inv.ID)
	require.ErrorIs(t, err, ErrNotIssuable)

	// issued invoices can no longer be edited
	amount := int64(1)
	_, err = svc.Update(ctx, 1, inv.ID, UpdateInvoiceRequest{Amount: &amount})
	require.ErrorIs(t, err, ErrNotDraft)
}

func TestCancelPaidInvoiceRefused(t *testing.T) {
	svc, _, db := setupService(t)
	ctx := context.Background()
	p := seedProject(t, db, 42)

	inv, err := svc.Create(ctx, 1, CreateInvoiceRequest{ProjectID: p.ID, Amount: 5_000_000})
	require.NoError(t, err)
	require.NoError(t, db.Model(&domain.Invoice{}).Where("id = ?", inv.ID).Update("status", domain.InvoicePaid).Error)

	_, err = svc.Cancel(ctx, 1, inv.ID)
	require.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestGetForUserCrossTenant(t *testing.T) {
	svc, _, db := setupService(t)
	ctx := context.Background()
	p := seedProject(t, db, 42)

	inv, err := svc.Create(ctx, 1, CreateInvoiceRequest{ProjectID: p.ID, Amount: 5_000_000})
	require.NoError(t, err)

	_, err = svc.GetForUser(ctx, 99, false, inv.ID)
	require.ErrorIs(t, err, ErrForbidden)

	got, err := svc.GetForUser(ctx, 42, false, inv.ID)
	require.NoError(t, err)
	require.Equal(t, inv.ID, got.ID)

	// admins see everything
	_, err = svc.GetForUser(ctx, 99, true, inv.ID)
	require.NoError(t, err)
}

func TestSweepOverdue(t *testing.T) {
	svc, queue, db := setupService(t)
	ctx := context.Background()
	p := seedProject(t, db, 42)

	now := time.Now()
	pastDue := now.AddDate(0, 0, -3)
	future := now.AddDate(0, 0, 3)

	overdue, err := svc.Create(ctx, 1, CreateInvoiceRequest{ProjectID: p.ID, Amount: 5_000_000, DueDate: &pastDue})
	require.NoError(t, err)
	_, err = svc.Issue(ctx, 1, overdue.ID)
	require.NoError(t, err)

	current, err := svc.Create(ctx, 1, CreateInvoiceRequest{ProjectID: p.ID, Amount: 2_000_000, DueDate: &future})
	require.NoError(t, err)
	_, err = svc.Issue(ctx, 1, current.ID)
	require.NoError(t, err)

	res, err := svc.SweepOverdue(ctx, now)
	require.NoError(t, err)
	require.Equal(t, SweepResult{MarkedOverdue: 1, Reminders: 1}, res)

	require.Len(t, queue.items, 1)
	require.Equal(t, "invoice_reminder", queue.items[0].Type)
	require.Equal(t, "42", queue.items[0].Data["user_id"])
	require.Equal(t, overdue.Number, queue.items[0].Data["number"])

	got, err := svc.GetForUser(ctx, 42, false, overdue.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvoiceOverdue, got.Status)

	// a second pass finds nothing new
	res, err = svc.SweepOverdue(ctx, now)
	require.NoError(t, err)
	require.Equal(t, SweepResult{}, res)
}

func TestFormatAmount(t *testing.T) {
	require.Equal(t, "IDR 1500000", FormatAmount("IDR", 1_500_000))
	require.Equal(t, "USD 25.00", FormatAmount("USD", 2500))
	require.Equal(t, "USD 25.05", FormatAmount("USD", 2505))
}
