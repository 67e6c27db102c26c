package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/woodbine/internal/model"
)

// mockProfileService はProfileServiceInterfaceのモック実装。
type mockProfileService struct {
	getFn          func(ctx context.Context) model.Profile
	updateFn       func(ctx context.Context, p model.Profile) (model.Profile, error)
	updateAvatarFn func(ctx context.Context, uri string) (model.Profile, error)
	clearAllFn     func(ctx context.Context, confirmed bool) error
	logoutCalls    int
}

func (m *mockProfileService) Get(ctx context.Context) model.Profile {
	if m.getFn != nil {
		return m.getFn(ctx)
	}
	return model.Profile{}
}

func (m *mockProfileService) Update(ctx context.Context, p model.Profile) (model.Profile, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, p)
	}
	return p, nil
}

func (m *mockProfileService) UpdateAvatar(ctx context.Context, uri string) (model.Profile, error) {
	if m.updateAvatarFn != nil {
		return m.updateAvatarFn(ctx, uri)
	}
	return model.Profile{Avatar: uri}, nil
}

func (m *mockProfileService) ClearAll(ctx context.Context, confirmed bool) error {
	if m.clearAllFn != nil {
		return m.clearAllFn(ctx, confirmed)
	}
	return nil
}

func (m *mockProfileService) Logout(ctx context.Context) {
	m.logoutCalls++
}

func TestProfileHandler_GetProfile_EmptyFields(t *testing.T) {
	h := NewProfileHandler(&mockProfileService{})

	w := httptest.NewRecorder()
	h.GetProfile(w, httptest.NewRequest(http.MethodGet, "/api/profile", nil))

	var got map[string]string
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	for _, field := range []string{"name", "email", "avatar"} {
		v, ok := got[field]
		if !ok {
			t.Errorf("missing field %q", field)
		}
		if v != "" {
			t.Errorf("%s = %q, want empty", field, v)
		}
	}
}

func TestProfileHandler_UpdateProfile(t *testing.T) {
	var saved model.Profile
	svc := &mockProfileService{
		updateFn: func(ctx context.Context, p model.Profile) (model.Profile, error) {
			saved = p
			return p, nil
		},
	}
	h := NewProfileHandler(svc)

	body := `{"name":"Alex","email":"alex@example.com","avatar":"content://media/1"}`
	w := httptest.NewRecorder()
	h.UpdateProfile(w, httptest.NewRequest(http.MethodPut, "/api/profile", bytes.NewBufferString(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if saved.Name != "Alex" || saved.Email != "alex@example.com" || saved.Avatar != "content://media/1" {
		t.Errorf("saved = %+v, unexpected profile", saved)
	}
}

func TestProfileHandler_UpdateAvatar_Empty(t *testing.T) {
	svc := &mockProfileService{
		updateAvatarFn: func(ctx context.Context, uri string) (model.Profile, error) {
			return model.Profile{}, model.NewValidationError("avatar")
		},
	}
	h := NewProfileHandler(svc)

	w := httptest.NewRecorder()
	h.UpdateAvatar(w, httptest.NewRequest(http.MethodPut, "/api/profile/avatar", bytes.NewBufferString(`{"uri":""}`)))

	assertErrorCode(t, w, http.StatusUnprocessableEntity, model.ErrCodeValidationFailed)
}

func TestProfileHandler_ClearStorage_Confirmation(t *testing.T) {
	tests := []struct {
		name          string
		url           string
		wantConfirmed bool
		wantStatus    int
	}{
		{"no confirm", "/api/storage", false, http.StatusBadRequest},
		{"confirm false", "/api/storage?confirm=false", false, http.StatusBadRequest},
		{"confirm garbage", "/api/storage?confirm=yes-please", false, http.StatusBadRequest},
		{"confirm true", "/api/storage?confirm=true", true, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotConfirmed bool
			svc := &mockProfileService{
				clearAllFn: func(ctx context.Context, confirmed bool) error {
					gotConfirmed = confirmed
					if !confirmed {
						return model.NewConfirmationRequiredError()
					}
					return nil
				},
			}
			h := NewProfileHandler(svc)

			w := httptest.NewRecorder()
			h.ClearStorage(w, httptest.NewRequest(http.MethodDelete, tt.url, nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if gotConfirmed != tt.wantConfirmed {
				t.Errorf("confirmed = %v, want %v", gotConfirmed, tt.wantConfirmed)
			}
		})
	}
}

func TestProfileHandler_Logout(t *testing.T) {
	svc := &mockProfileService{}
	h := NewProfileHandler(svc)

	w := httptest.NewRecorder()
	h.Logout(w, httptest.NewRequest(http.MethodPost, "/api/profile/logout", nil))

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if svc.logoutCalls != 1 {
		t.Errorf("logout calls = %d, want 1", svc.logoutCalls)
	}
}
