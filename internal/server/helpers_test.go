package server

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evergreenbyte/keepsake/internal/database"
	"github.com/evergreenbyte/keepsake/internal/media"
	"github.com/evergreenbyte/keepsake/internal/photos"
	"github.com/evergreenbyte/keepsake/internal/stories"
	"github.com/evergreenbyte/keepsake/internal/wishes"
	"github.com/gin-gonic/gin"
)

type fakeWishService struct {
	createFn func(ctx context.Context, name, message string) (wishes.Wish, error)
	listFn   func(ctx context.Context) ([]wishes.Wish, error)
	updateFn func(ctx context.Context, id, name, message string) (wishes.Wish, error)
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakeWishService) Create(ctx context.Context, name, message string) (wishes.Wish, error) {
	return f.createFn(ctx, name, message)
}

func (f *fakeWishService) List(ctx context.Context) ([]wishes.Wish, error) {
	return f.listFn(ctx)
}

func (f *fakeWishService) Update(ctx context.Context, id, name, message string) (wishes.Wish, error) {
	return f.updateFn(ctx, id, name, message)
}

func (f *fakeWishService) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

type fakePhotoService struct {
	uploadFn  func(ctx context.Context, files []media.File) ([]media.UploadResult, error)
	listFn    func(ctx context.Context, page, limit int) (photos.Listing, error)
	effectsFn func(ctx context.Context, publicID string, effects photos.Effects) (photos.Photo, error)
}

func (f *fakePhotoService) Upload(ctx context.Context, files []media.File) ([]media.UploadResult, error) {
	return f.uploadFn(ctx, files)
}

func (f *fakePhotoService) List(ctx context.Context, page, limit int) (photos.Listing, error) {
	return f.listFn(ctx, page, limit)
}

func (f *fakePhotoService) ApplyEffects(ctx context.Context, publicID string, effects photos.Effects) (photos.Photo, error) {
	return f.effectsFn(ctx, publicID, effects)
}

type fakeStoryService struct {
	createFn func(ctx context.Context, input stories.CreateInput) (stories.Story, error)
	listFn   func(ctx context.Context) ([]stories.StoryWithPhotos, error)
}

func (f *fakeStoryService) Create(ctx context.Context, input stories.CreateInput) (stories.Story, error) {
	return f.createFn(ctx, input)
}

func (f *fakeStoryService) List(ctx context.Context) ([]stories.StoryWithPhotos, error) {
	return f.listFn(ctx)
}

type fakeHealthChecker struct {
	state   database.State
	pingErr error
}

func (f *fakeHealthChecker) State() database.State {
	return f.state
}

func (f *fakeHealthChecker) Ping(ctx context.Context) error {
	return f.pingErr
}

func emptyDependencies() Dependencies {
	return Dependencies{
		Wishes:  &fakeWishService{},
		Photos:  &fakePhotoService{},
		Stories: &fakeStoryService{},
	}
}

func newTestRouter(testContext *testing.T, deps Dependencies) http.Handler {
	testContext.Helper()
	gin.SetMode(gin.TestMode)
	handler, err := NewHTTPHandler(deps)
	if err != nil {
		testContext.Fatalf("failed to build handler: %v", err)
	}
	return handler
}

func performRequest(handler http.Handler, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func multipartBody(testContext *testing.T, fieldName string, fileNames ...string) (*bytes.Buffer, string) {
	testContext.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, fileName := range fileNames {
		part, err := writer.CreateFormFile(fieldName, fileName)
		if err != nil {
			testContext.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write([]byte("image-bytes-" + fileName)); err != nil {
			testContext.Fatalf("failed to write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		testContext.Fatalf("failed to close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}
