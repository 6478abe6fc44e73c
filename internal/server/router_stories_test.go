package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/evergreenbyte/keepsake/internal/apperr"
	"github.com/evergreenbyte/keepsake/internal/photos"
	"github.com/evergreenbyte/keepsake/internal/stories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateStoryForwardsInput(testContext *testing.T) {
	var receivedInput stories.CreateInput
	deps := emptyDependencies()
	deps.Stories = &fakeStoryService{
		createFn: func(ctx context.Context, input stories.CreateInput) (stories.Story, error) {
			receivedInput = input
			return stories.Story{ID: primitive.NewObjectID(), Title: input.Title}, nil
		},
	}
	router := newTestRouter(testContext, deps)

	request := httptest.NewRequest(http.MethodPost, "/stories",
		strings.NewReader(`{"title":"Weekend Trip","description":"two days away","date":"2025-05-17","photoIds":["p1","p2"]}`))
	request.Header.Set("Content-Type", "application/json")
	recorder := performRequest(router, request)

	if recorder.Code != http.StatusOK {
		testContext.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if receivedInput.Title != "Weekend Trip" {
		testContext.Fatalf("unexpected title: %s", receivedInput.Title)
	}
	if len(receivedInput.PhotoIDs) != 2 || receivedInput.PhotoIDs[0] != "p1" {
		testContext.Fatalf("unexpected photo ids: %v", receivedInput.PhotoIDs)
	}
	if receivedInput.Date == nil || receivedInput.Date.Year() != 2025 {
		testContext.Fatalf("unexpected date: %v", receivedInput.Date)
	}
}

func TestCreateStoryRejectsMalformedDate(testContext *testing.T) {
	router := newTestRouter(testContext, emptyDependencies())

	request := httptest.NewRequest(http.MethodPost, "/stories",
		strings.NewReader(`{"title":"Weekend Trip","date":"yesterday","photoIds":["p1"]}`))
	request.Header.Set("Content-Type", "application/json")
	recorder := performRequest(router, request)

	if recorder.Code != http.StatusBadRequest {
		testContext.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestCreateStoryMapsValidationToBadRequest(testContext *testing.T) {
	deps := emptyDependencies()
	deps.Stories = &fakeStoryService{
		createFn: func(ctx context.Context, input stories.CreateInput) (stories.Story, error) {
			return stories.Story{}, apperr.New("stories.create", "missing_fields", "Title and photos are required", apperr.ErrInvalidInput)
		},
	}
	router := newTestRouter(testContext, deps)

	request := httptest.NewRequest(http.MethodPost, "/stories", strings.NewReader(`{"title":"","photoIds":[]}`))
	request.Header.Set("Content-Type", "application/json")
	recorder := performRequest(router, request)

	if recorder.Code != http.StatusBadRequest {
		testContext.Fatalf("expected 400, got %d", recorder.Code)
	}

	var payload map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		testContext.Fatalf("failed to decode response: %v", err)
	}
	if payload["error"] != "Title and photos are required" {
		testContext.Fatalf("unexpected error body: %v", payload)
	}
}

func TestListStoriesEmbedsPhotos(testContext *testing.T) {
	storyID := primitive.NewObjectID()
	deps := emptyDependencies()
	deps.Stories = &fakeStoryService{
		listFn: func(ctx context.Context) ([]stories.StoryWithPhotos, error) {
			return []stories.StoryWithPhotos{
				{
					Story: stories.Story{ID: storyID, Title: "Weekend Trip"},
					Photos: []photos.Photo{
						{PublicID: "p1", SecureURL: "https://cdn.example.com/p1"},
						{PublicID: "p2", SecureURL: "https://cdn.example.com/p2"},
					},
				},
			}, nil
		},
	}
	router := newTestRouter(testContext, deps)

	recorder := performRequest(router, httptest.NewRequest(http.MethodGet, "/stories", http.NoBody))
	if recorder.Code != http.StatusOK {
		testContext.Fatalf("expected 200, got %d", recorder.Code)
	}

	var payload []struct {
		Title  string `json:"title"`
		Photos []struct {
			PublicID string `json:"public_id"`
		} `json:"photos"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		testContext.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 1 || payload[0].Title != "Weekend Trip" {
		testContext.Fatalf("unexpected listing: %+v", payload)
	}
	if len(payload[0].Photos) != 2 || payload[0].Photos[0].PublicID != "p1" || payload[0].Photos[1].PublicID != "p2" {
		testContext.Fatalf("unexpected embedded photos: %+v", payload[0].Photos)
	}
}
