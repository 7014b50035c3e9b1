package httptransport_test

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/autosave"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/progress"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/wizard"
	presencemodels "github.com/sampleslayer92/utopia-produkcia-sub005/internal/presence/models"
	httptransport "github.com/sampleslayer92/utopia-produkcia-sub005/internal/transport/http"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/transport/http/mocks"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
	dErrors "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain-errors"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/requestcontext"
)

// =============================================================================
// Wizard Handler Test Suite
// =============================================================================
// Justification for unit tests: the handler owns path parsing, body
// validation, identity propagation and error-to-status mapping. The wizard
// behind it is covered by its own suite, so the service is mocked here.

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
	caseID  id.CaseID
	token   id.SessionID
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.router = chi.NewRouter()
	httptransport.New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
	s.caseID = id.NewCaseID()
	s.token = id.NewSessionID()
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) view() httptransport.SessionView {
	data := models.New(s.caseID)
	return httptransport.SessionView{
		Token:     s.token,
		CaseID:    s.caseID,
		Data:      data,
		Progress:  progress.Calculate(data, progress.DefaultSteps()),
		SaveState: autosave.StateIdle,
	}
}

func (s *HandlerSuite) sessionPath(suffix string) string {
	return "/sessions/" + s.token.String() + suffix
}

// =============================================================================
// Open
// =============================================================================

func (s *HandlerSuite) TestOpen() {
	s.Run("passes identity from context and returns the session", func() {
		userID := id.UserID(uuid.New())
		s.service.EXPECT().Open(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ any, req wizard.OpenRequest) (httptransport.SessionView, error) {
				s.Equal(s.caseID, req.CaseID)
				s.Equal(userID, req.UserID)
				s.Equal("Jana", req.DisplayName)
				s.Equal("test-agent", req.UserAgent)
				return s.view(), nil
			})

		req := httptest.NewRequest(http.MethodPost, "/cases/"+s.caseID.String()+"/sessions",
			strings.NewReader(`{"display_name":"  Jana "}`))
		req.Header.Set("User-Agent", "test-agent")
		req = req.WithContext(requestcontext.WithUserID(req.Context(), userID))
		w := s.do(req)

		s.Equal(http.StatusCreated, w.Code)
		var body httptransport.SessionResponse
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&body))
		s.Equal(s.token.String(), body.SessionID)
		s.Equal(s.caseID.String(), body.CaseID)
		s.Equal("idle", body.SaveState)
		s.Len(body.Progress.Steps, len(progress.DefaultSteps()))
	})

	s.Run("malformed case id is a bad request", func() {
		req := httptest.NewRequest(http.MethodPost, "/cases/not-a-uuid/sessions", strings.NewReader(`{}`))
		w := s.do(req)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("service unavailability maps to 503", func() {
		s.service.EXPECT().Open(gomock.Any(), gomock.Any()).
			Return(httptransport.SessionView{}, dErrors.New(dErrors.CodeUnavailable, "failed to load case"))
		req := httptest.NewRequest(http.MethodPost, "/cases/"+s.caseID.String()+"/sessions", strings.NewReader(`{}`))
		w := s.do(req)
		s.Equal(http.StatusServiceUnavailable, w.Code)
	})
}

// =============================================================================
// Section Updates
// =============================================================================

func (s *HandlerSuite) TestUpdateContact() {
	s.Run("returns the auto-fill summary", func() {
		signer := id.NewPersonID()
		s.service.EXPECT().UpdateContact(gomock.Any(), s.token, gomock.Any()).DoAndReturn(
			func(_ any, _ id.SessionID, contact models.ContactInfo) (httptransport.SessionView, models.Patch, error) {
				s.Equal("Jana", contact.FirstName)
				s.Equal(models.RoleManagingDirector, contact.Role)
				return s.view(), models.Patch{
					AppendAuthorizedPersons: []models.Person{{ID: signer}},
					SigningPersonID:         &signer,
				}, nil
			})

		body := `{"firstName":" Jana ","lastName":"Nováková","email":"jana@example.sk","role":"managing_director"}`
		w := s.do(httptest.NewRequest(http.MethodPut, s.sessionPath("/contact"), strings.NewReader(body)))

		s.Equal(http.StatusOK, w.Code)
		var resp httptransport.ContactResponse
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
		s.Equal(1, resp.Autofill.AddedAuthorizedPersons)
		s.True(resp.Autofill.SigningPersonSet)
		s.False(resp.Autofill.TechnicalContactSet)
	})

	s.Run("unknown role is rejected before the service", func() {
		w := s.do(httptest.NewRequest(http.MethodPut, s.sessionPath("/contact"),
			strings.NewReader(`{"role":"janitor"}`)))
		s.Equal(http.StatusUnprocessableEntity, w.Code)
	})

	s.Run("malformed email is rejected, empty email is a draft", func() {
		w := s.do(httptest.NewRequest(http.MethodPut, s.sessionPath("/contact"),
			strings.NewReader(`{"email":"not-an-email"}`)))
		s.Equal(http.StatusUnprocessableEntity, w.Code)

		s.service.EXPECT().UpdateContact(gomock.Any(), s.token, gomock.Any()).Return(s.view(), models.Patch{}, nil)
		w = s.do(httptest.NewRequest(http.MethodPut, s.sessionPath("/contact"),
			strings.NewReader(`{"firstName":"Jana"}`)))
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("unknown session maps to 404", func() {
		s.service.EXPECT().UpdateContact(gomock.Any(), s.token, gomock.Any()).
			Return(httptransport.SessionView{}, models.Patch{}, dErrors.New(dErrors.CodeNotFound, "wizard session not found"))
		w := s.do(httptest.NewRequest(http.MethodPut, s.sessionPath("/contact"), strings.NewReader(`{}`)))
		s.Equal(http.StatusNotFound, w.Code)
	})
}

func (s *HandlerSuite) TestSectionMutations() {
	s.Run("company update applies a reducer that replaces company info", func() {
		s.service.EXPECT().Mutate(gomock.Any(), s.token, gomock.Any()).DoAndReturn(
			func(_ any, _ id.SessionID, mutation models.Mutation) (httptransport.SessionView, error) {
				next := mutation(models.New(s.caseID))
				s.Equal("Alza s.r.o.", next.CompanyInfo.CompanyName)
				s.Equal("12345678", next.CompanyInfo.ICO)
				return s.view(), nil
			})
		w := s.do(httptest.NewRequest(http.MethodPut, s.sessionPath("/company"),
			strings.NewReader(`{"companyName":" Alza s.r.o. ","ico":"12345678"}`)))
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("negative card count is rejected", func() {
		w := s.do(httptest.NewRequest(http.MethodPut, s.sessionPath("/devices"),
			strings.NewReader(`{"dynamicCards":[{"type":"device","count":-1}]}`)))
		s.Equal(http.StatusUnprocessableEntity, w.Code)
	})

	s.Run("consents update reaches the service", func() {
		s.service.EXPECT().Mutate(gomock.Any(), s.token, gomock.Any()).DoAndReturn(
			func(_ any, _ id.SessionID, mutation models.Mutation) (httptransport.SessionView, error) {
				next := mutation(models.New(s.caseID))
				s.Require().NotNil(next.Consents.GDPR)
				s.True(*next.Consents.GDPR)
				return s.view(), nil
			})
		w := s.do(httptest.NewRequest(http.MethodPut, s.sessionPath("/consents"),
			strings.NewReader(`{"gdprConsent":true}`)))
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("empty body is a bad request", func() {
		w := s.do(httptest.NewRequest(http.MethodPut, s.sessionPath("/company"), strings.NewReader("")))
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

// =============================================================================
// Navigation, Saving and Presence
// =============================================================================

func (s *HandlerSuite) TestGoToStep() {
	s.Run("returns the step's progress", func() {
		s.service.EXPECT().GoToStep(gomock.Any(), s.token, 7).
			Return(progress.StepProgress{Index: 7, Name: "Summary", CompletionPercentage: 100, IsComplete: true, Visited: true}, nil)
		w := s.do(httptest.NewRequest(http.MethodPost, s.sessionPath("/steps/7"), nil))

		s.Equal(http.StatusOK, w.Code)
		var body httptransport.StepResponse
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&body))
		s.True(body.IsComplete)
		s.NotNil(body.RequiredFields)
	})

	s.Run("non-numeric step is a bad request", func() {
		w := s.do(httptest.NewRequest(http.MethodPost, s.sessionPath("/steps/two"), nil))
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("out of range step propagates as bad request", func() {
		s.service.EXPECT().GoToStep(gomock.Any(), s.token, 99).
			Return(progress.StepProgress{}, dErrors.New(dErrors.CodeBadRequest, "step 99 out of range [0,8)"))
		w := s.do(httptest.NewRequest(http.MethodPost, s.sessionPath("/steps/99"), nil))
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *HandlerSuite) TestForceSaveAndClose() {
	s.Run("successful save has no content", func() {
		s.service.EXPECT().ForceSave(gomock.Any(), s.token).Return(nil)
		w := s.do(httptest.NewRequest(http.MethodPost, s.sessionPath("/save"), nil))
		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("persistence failure hides the cause", func() {
		s.service.EXPECT().ForceSave(gomock.Any(), s.token).
			Return(dErrors.Wrap(errors.New("pq: connection refused"), dErrors.CodePersistenceFailure, "save failed"))
		w := s.do(httptest.NewRequest(http.MethodPost, s.sessionPath("/save"), nil))
		s.Equal(http.StatusServiceUnavailable, w.Code)
		s.NotContains(w.Body.String(), "connection refused")
	})

	s.Run("close has no content", func() {
		s.service.EXPECT().Close(gomock.Any(), s.token).Return(nil)
		w := s.do(httptest.NewRequest(http.MethodDelete, s.sessionPath(""), nil))
		s.Equal(http.StatusNoContent, w.Code)
	})
}

func (s *HandlerSuite) TestPresence() {
	s.Run("lists other sessions and an empty conflict list", func() {
		other := presencemodels.Session{Token: id.NewSessionID(), CaseID: s.caseID, DisplayName: "Peter"}
		s.service.EXPECT().Presence(gomock.Any(), s.token).
			Return(httptransport.PresenceView{Active: []presencemodels.Session{other}}, nil)
		w := s.do(httptest.NewRequest(http.MethodGet, s.sessionPath("/presence"), nil))

		s.Equal(http.StatusOK, w.Code)
		var body struct {
			Active    []presencemodels.Session `json:"active"`
			Conflicts []json.RawMessage        `json:"conflicts"`
		}
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&body))
		s.Require().Len(body.Active, 1)
		s.Equal("Peter", body.Active[0].DisplayName)
		s.NotNil(body.Conflicts)
		s.Empty(body.Conflicts)
	})

	s.Run("malformed session id is a bad request", func() {
		w := s.do(httptest.NewRequest(http.MethodGet, "/sessions/xyz/presence", nil))
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *HandlerSuite) TestProgress() {
	s.service.EXPECT().Session(gomock.Any(), s.token).Return(s.view(), nil)
	w := s.do(httptest.NewRequest(http.MethodGet, s.sessionPath("/progress"), nil))

	s.Equal(http.StatusOK, w.Code)
	var body httptransport.ProgressResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&body))
	s.Equal(len(progress.DefaultSteps()), body.TotalSteps)
}
