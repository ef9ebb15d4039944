package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"product-catalog/internal/domain"
	"product-catalog/internal/dto"

	"github.com/go-chi/chi/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

type mockUserService struct {
	users  map[int64]dto.UserDTO
	nextID int64

	insertErr error
}

func newMockUserService() *mockUserService {
	return &mockUserService{users: make(map[int64]dto.UserDTO), nextID: 1}
}

func (m *mockUserService) FindAllPaged(_ context.Context, page domain.PageRequest) (domain.Page[dto.UserDTO], error) {
	content := make([]dto.UserDTO, 0, len(m.users))
	for _, u := range m.users {
		content = append(content, u)
	}
	return domain.NewPage(content, page, int64(len(content))), nil
}

func (m *mockUserService) FindByID(_ context.Context, id int64) (dto.UserDTO, error) {
	u, ok := m.users[id]
	if !ok {
		return dto.UserDTO{}, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockUserService) Insert(_ context.Context, d dto.UserInsertDTO) (dto.UserDTO, error) {
	if m.insertErr != nil {
		return dto.UserDTO{}, m.insertErr
	}
	u := d.UserDTO
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return u, nil
}

func (m *mockUserService) Update(_ context.Context, id int64, d dto.UserUpdateDTO) (dto.UserDTO, error) {
	if _, ok := m.users[id]; !ok {
		return dto.UserDTO{}, domain.ErrNotFound
	}
	u := d.UserDTO
	u.ID = id
	m.users[id] = u
	return u, nil
}

func (m *mockUserService) Delete(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserService) LoadByEmail(_ context.Context, email string) (*domain.User, error) {
	return nil, domain.ErrIdentityNotFound
}

func newUserTestRouter(svc *mockUserService) chi.Router {
	handler := NewUserHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	handler.RegisterRoutes(r, passthroughMiddleware, passthroughMiddleware)
	return r
}

func TestUserInsertSetsLocationHeader(t *testing.T) {
	svc := newMockUserService()
	router := newUserTestRouter(svc)

	payload := `{"first_name":"Maria","last_name":"Green","email":"maria@gmail.com","password":"123456","roles":[{"id":2}]}`
	req := httptest.NewRequest("POST", "/api/users", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}

	var created dto.UserDTO
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode user: %v", err)
	}
	want := fmt.Sprintf("/api/users/%d", created.ID)
	if got := w.Header().Get("Location"); got != want {
		t.Errorf("expected Location %q, got %q", want, got)
	}
	if created.Email != "maria@gmail.com" {
		t.Errorf("unexpected email %q", created.Email)
	}
}

func TestUserInsertMapsValidationFailure(t *testing.T) {
	svc := newMockUserService()
	svc.insertErr = &domain.ValidationError{Violations: []domain.FieldMessage{
		{Field: "email", Message: "is already in use"},
	}}
	router := newUserTestRouter(svc)

	payload := `{"first_name":"Maria","last_name":"Green","email":"maria@gmail.com","password":"123456"}`
	req := httptest.NewRequest("POST", "/api/users", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "is already in use") {
		t.Errorf("expected the violation message in the body, got %s", w.Body.String())
	}
}

func TestUserFindAllReturnsPage(t *testing.T) {
	svc := newMockUserService()
	svc.users[1] = dto.UserDTO{ID: 1, FirstName: "Alex", Email: "alex@gmail.com"}
	router := newUserTestRouter(svc)

	req := httptest.NewRequest("GET", "/api/users?page=0&size=12", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var page domain.Page[dto.UserDTO]
	if err := json.NewDecoder(w.Body).Decode(&page); err != nil {
		t.Fatalf("failed to decode page: %v", err)
	}
	if page.TotalElements != 1 || len(page.Content) != 1 {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestUserUpdateAndDeleteErrors(t *testing.T) {
	router := newUserTestRouter(newMockUserService())

	update := httptest.NewRequest("PUT", "/api/users/42", strings.NewReader(`{"first_name":"A","last_name":"B","email":"a@b.com"}`))
	update.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, update)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 updating a missing user, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/users/42", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 deleting a missing user, got %d", w.Code)
	}
}

func TestProperty_UserResponsesNeverLeakPasswords(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("created user response and later reads omit the password", prop.ForAll(
		func(firstName, password string) bool {
			svc := newMockUserService()
			router := newUserTestRouter(svc)

			body, _ := json.Marshal(map[string]any{
				"first_name": firstName,
				"last_name":  "Tester",
				"email":      firstName + "@example.com",
				"password":   password,
				"roles":      []map[string]any{{"id": 1, "authority": "ROLE_OPERATOR"}},
			})

			req := httptest.NewRequest("POST", "/api/users", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusCreated {
				return false
			}
			if strings.Contains(w.Body.String(), password) {
				return false
			}

			var created dto.UserDTO
			if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
				return false
			}

			read := httptest.NewRecorder()
			router.ServeHTTP(read, httptest.NewRequest("GET", fmt.Sprintf("/api/users/%d", created.ID), nil))
			return read.Code == http.StatusOK && !strings.Contains(read.Body.String(), password)
		},
		gen.RegexMatch(`[a-z]{4,10}`),
		gen.RegexMatch(`secret-[0-9a-f]{12}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
