package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"personal-rag/internal/service"
	"personal-rag/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		mockSetup  func(*mocks.MockQueryService)
		wantStatus int
		want       HealthResponse
	}{
		{
			name: "healthy",
			mockSetup: func(m *mocks.MockQueryService) {
				m.EXPECT().Health(gomock.Any()).Return(service.HealthStatus{Collection: "personal_info", Count: 5}, nil)
			},
			wantStatus: http.StatusOK,
			want:       HealthResponse{Status: "healthy", Collection: "personal_info", Count: 5},
		},
		{
			name: "empty collection is still healthy",
			mockSetup: func(m *mocks.MockQueryService) {
				m.EXPECT().Health(gomock.Any()).Return(service.HealthStatus{Collection: "personal_info"}, nil)
			},
			wantStatus: http.StatusOK,
			want:       HealthResponse{Status: "healthy", Collection: "personal_info", Count: 0},
		},
		{
			name: "store failure",
			mockSetup: func(m *mocks.MockQueryService) {
				m.EXPECT().Health(gomock.Any()).Return(service.HealthStatus{}, errors.New("failed to count collection: connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockQueryService := mocks.NewMockQueryService(ctrl)
			tt.mockSetup(mockQueryService)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			NewHealthHandler(mockQueryService).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("HealthHandler.ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}

			if tt.wantStatus != http.StatusOK {
				assertErrorBody(t, w, "failed to count collection: connection refused")
				return
			}

			var got HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if got != tt.want {
				t.Errorf("HealthHandler.ServeHTTP() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestHealthResponse_JSONFields(t *testing.T) {
	raw, err := json.Marshal(HealthResponse{Status: "healthy", Collection: "personal_info", Count: 2})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	want := `{"status":"healthy","chromadb_collection":"personal_info","chromadb_count":2}`
	if string(raw) != want {
		t.Errorf("HealthResponse JSON = %s, want %s", raw, want)
	}
}

func TestInfoHandler_ServeHTTP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	NewInfoHandler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("InfoHandler.ServeHTTP() status = %v", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %s", ct)
	}

	var got InfoResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Message != "RAG Application API" {
		t.Errorf("message = %q", got.Message)
	}
	for _, path := range []string{"/query", "/health"} {
		if got.Endpoints[path] == "" {
			t.Errorf("endpoints missing %s: %v", path, got.Endpoints)
		}
	}
}
