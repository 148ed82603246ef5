package portfolio

import (
	"context"
	"fmt"
	"testing"

	"wmx/internal/database"
	"wmx/internal/domain"
	"wmx/internal/repository"

	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	deleted []string
	err     error
}

func (f *fakeObjects) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return f.err
}

func setupService(t *testing.T, maxImages int) (*Service, *fakeObjects) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.AllModels()...))

	objects := &fakeObjects{}
	return NewService(repository.NewPortfolioRepository(db), objects, maxImages), objects
}

func addImage(t *testing.T, svc *Service, userID int64, key string) *domain.PortfolioImage {
	t.Helper()
	img, err := svc.AddImage(context.Background(), userID, AddImageRequest{
		URL:       "https://cdn.example.com/" + key,
		ObjectKey: key,
	})
	require.NoError(t, err)
	return img
}

func TestGalleryCap(t *testing.T) {
	svc, _ := setupService(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		addImage(t, svc, 1, fmt.Sprintf("portfolio/img-%d.png", i))
	}

	_, err := svc.AddImage(ctx, 1, AddImageRequest{URL: "https://cdn.example.com/x", ObjectKey: "portfolio/over.png"})
	require.ErrorIs(t, err, ErrGalleryFull)

	// the cap is per user
	_, err = svc.AddImage(ctx, 2, AddImageRequest{URL: "https://cdn.example.com/y", ObjectKey: "portfolio/other.png"})
	require.NoError(t, err)

	images, err := svc.ListImages(ctx, 1)
	require.NoError(t, err)
	require.Len(t, images, 3)
}

func TestDeleteImageOwnership(t *testing.T) {
	svc, objects := setupService(t, 10)
	ctx := context.Background()

	img := addImage(t, svc, 1, "portfolio/mine.png")

	// another client cannot delete it
	require.ErrorIs(t, svc.DeleteImage(ctx, 2, img.ID, false), ErrForbidden)

	// an admin can
	require.NoError(t, svc.DeleteImage(ctx, 2, img.ID, true))
	require.Equal(t, []string{"portfolio/mine.png"}, objects.deleted)

	require.ErrorIs(t, svc.DeleteImage(ctx, 1, img.ID, false), ErrNotFound)
}

func TestDeleteImageFreesCapSlot(t *testing.T) {
	svc, _ := setupService(t, 1)
	ctx := context.Background()

	img := addImage(t, svc, 1, "portfolio/only.png")

	_, err := svc.AddImage(ctx, 1, AddImageRequest{URL: "u", ObjectKey: "portfolio/second.png"})
	require.ErrorIs(t, err, ErrGalleryFull)

	require.NoError(t, svc.DeleteImage(ctx, 1, img.ID, false))

	_, err = svc.AddImage(ctx, 1, AddImageRequest{URL: "u", ObjectKey: "portfolio/second.png"})
	require.NoError(t, err)
}

func TestPublishedFilter(t *testing.T) {
	svc, _ := setupService(t, 10)
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, CreateItemRequest{Title: "Shown", Published: true})
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, CreateItemRequest{Title: "Hidden", Published: false})
	require.NoError(t, err)

	public, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	require.Equal(t, "Shown", public[0].Title)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}
