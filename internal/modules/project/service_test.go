package project

import (
	"context"
	"testing"

	"wmx/internal/database"
	"wmx/internal/domain"
	"wmx/internal/mail"
	"wmx/internal/repository"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeQueue struct {
	types []string
}

func (f *fakeQueue) Push(itemType string, priority int, data map[string]string) {
	f.types = append(f.types, itemType)
}

func setupService(t *testing.T) (*Service, *fakeQueue, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.AllModels()...))

	queue := &fakeQueue{}
	svc := NewService(
		repository.NewProjectRepository(db),
		repository.NewUserRepository(db),
		repository.NewNotificationRepository(db),
		queue,
	)
	return svc, queue, db
}

func seedClient(t *testing.T, db *gorm.DB) *domain.User {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("client123"), bcrypt.DefaultCost)
	u := &domain.User{
		Email:        "client@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleClient,
		Name:         "Client",
		IsActive:     true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func countNotifications(t *testing.T, db *gorm.DB, notifType string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&domain.Notification{}).Where("type = ?", notifType).Count(&n).Error)
	return n
}

func TestCompletionFiresOnce(t *testing.T) {
	svc, queue, db := setupService(t)
	ctx := context.Background()
	client := seedClient(t, db)

	p, err := svc.Create(ctx, 1, CreateProjectRequest{ClientID: client.ID, Name: "Website"})
	require.NoError(t, err)

	progress := 100
	updated, err := svc.Update(ctx, 1, p.ID, UpdateProjectRequest{Progress: &progress})
	require.NoError(t, err)
	require.Equal(t, domain.ProjectCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	require.Equal(t, 100, updated.Progress)

	firstCompletedAt := *updated.CompletedAt
	require.Equal(t, int64(1), countNotifications(t, db, domain.NotifProjectComplete))
	require.Equal(t, []string{mail.TemplateProjectStatus}, queue.types)

	// re-saving the completed project changes nothing
	name := "Website v2"
	again, err := svc.Update(ctx, 1, p.ID, UpdateProjectRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, firstCompletedAt.Unix(), again.CompletedAt.Unix())
	require.Equal(t, int64(1), countNotifications(t, db, domain.NotifProjectComplete))
	require.Len(t, queue.types, 1)
}

func TestCompletionViaStatus(t *testing.T) {
	svc, _, db := setupService(t)
	ctx := context.Background()
	client := seedClient(t, db)

	p, err := svc.Create(ctx, 1, CreateProjectRequest{ClientID: client.ID, Name: "Branding"})
	require.NoError(t, err)

	status := string(domain.ProjectCompleted)
	updated, err := svc.Update(ctx, 1, p.ID, UpdateProjectRequest{Status: &status})
	require.NoError(t, err)

	// completing by status also pins progress to 100
	require.Equal(t, 100, updated.Progress)
	require.NotNil(t, updated.CompletedAt)
}

func TestUpdateValidation(t *testing.T) {
	svc, _, db := setupService(t)
	ctx := context.Background()
	client := seedClient(t, db)

	p, err := svc.Create(ctx, 1, CreateProjectRequest{ClientID: client.ID, Name: "Website"})
	require.NoError(t, err)

	over := 101
	_, err = svc.Update(ctx, 1, p.ID, UpdateProjectRequest{Progress: &over})
	require.ErrorIs(t, err, ErrBadProgress)

	bad := "archived"
	_, err = svc.Update(ctx, 1, p.ID, UpdateProjectRequest{Status: &bad})
	require.ErrorIs(t, err, ErrBadStatus)
}

func TestMilestoneCompletionFiresOnce(t *testing.T) {
	svc, _, db := setupService(t)
	ctx := context.Background()
	client := seedClient(t, db)

	p, err := svc.Create(ctx, 1, CreateProjectRequest{ClientID: client.ID, Name: "Website"})
	require.NoError(t, err)

	m, err := svc.AddMilestone(ctx, 1, p.ID, CreateMilestoneRequest{Title: "Design"})
	require.NoError(t, err)
	require.Equal(t, domain.MilestonePending, m.Status)

	done := string(domain.MilestoneCompleted)
	completed, err := svc.UpdateMilestone(ctx, 1, p.ID, m.ID, UpdateMilestoneRequest{Status: &done})
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)
	require.Equal(t, int64(1), countNotifications(t, db, domain.NotifMilestoneDone))

	// saving it again while already completed is silent
	title := "Design & assets"
	_, err = svc.UpdateMilestone(ctx, 1, p.ID, m.ID, UpdateMilestoneRequest{Title: &title, Status: &done})
	require.NoError(t, err)
	require.Equal(t, int64(1), countNotifications(t, db, domain.NotifMilestoneDone))
}

func TestMilestoneMustBelongToProject(t *testing.T) {
	svc, _, db := setupService(t)
	ctx := context.Background()
	client := seedClient(t, db)

	p1, err := svc.Create(ctx, 1, CreateProjectRequest{ClientID: client.ID, Name: "One"})
	require.NoError(t, err)
	p2, err := svc.Create(ctx, 1, CreateProjectRequest{ClientID: client.ID, Name: "Two"})
	require.NoError(t, err)

	m, err := svc.AddMilestone(ctx, 1, p1.ID, CreateMilestoneRequest{Title: "Kickoff"})
	require.NoError(t, err)

	done := string(domain.MilestoneCompleted)
	_, err = svc.UpdateMilestone(ctx, 1, p2.ID, m.ID, UpdateMilestoneRequest{Status: &done})
	require.ErrorIs(t, err, ErrBadMilestone)
}

func TestGetForUserOwnership(t *testing.T) {
	svc, _, db := setupService(t)
	ctx := context.Background()
	client := seedClient(t, db)

	p, err := svc.Create(ctx, 1, CreateProjectRequest{ClientID: client.ID, Name: "Website"})
	require.NoError(t, err)

	_, err = svc.GetForUser(ctx, client.ID+100, false, p.ID)
	require.ErrorIs(t, err, ErrForbidden)

	got, err := svc.GetForUser(ctx, client.ID, false, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)
}
