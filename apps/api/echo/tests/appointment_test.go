package tests

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/equilibrar/core/user"
	testutil "github.com/trezcool/equilibrar/tests"
)

func Test_appointmentApi(t *testing.T) {
	coord := testutil.CreateUser(t, usrRepo, "Appt Coord", "appt.coord@test.cl", "", user.RoleCoordinator, true)
	prof := testutil.CreateUser(t, usrRepo, "Appt Prof", "appt.prof@test.cl", "", user.RoleProfessional, true)
	patient := testutil.CreateUser(t, usrRepo, "Appt Patient", "appt.patient@test.cl", "", user.RoleClient, true)
	other := testutil.CreateUser(t, usrRepo, "Appt Other", "appt.other@test.cl", "", user.RoleClient, true)

	coordToken := getToken(t, coord)
	patientToken := getToken(t, patient)

	scheduledAt := time.Now().UTC().AddDate(0, 0, 3).Format(time.RFC3339)
	body := func(modality, link string) []byte {
		return []byte(fmt.Sprintf(
			`{"patient_id":%q,"professional_id":%q,"scheduled_at":%q,"modality":%q,"link":%q}`,
			patient.ID, prof.ID, scheduledAt, modality, link,
		))
	}

	var apptID string

	t.Run("create is staff only", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/appointments", patientToken, body("Presencial", ""))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("teleconsultation requires a link", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/appointments", coordToken, body("Teleconsulta", ""))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"link": "a meeting link is required for teleconsultations"}),
		}, rec)
	})

	t.Run("invalid modality", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/appointments", coordToken, body("Telepatía", ""))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"modality": "invalid modality"}),
		}, rec)
	})

	t.Run("create", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/appointments", coordToken, body("Teleconsulta", "https://meet.google.com/abc-defg-hij"))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %d: %s", rec.Code, rec.Body.String())
		}

		appts, err := apptSvc.QueryByPatient(req.Context(), patient.ID)
		if err != nil || len(appts) != 1 {
			t.Fatalf("QueryByPatient() = %v, %v; want 1 appointment", appts, err)
		}
		apptID = appts[0].ID
	})

	t.Run("staff query requires a filter", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/appointments", coordToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "patient_id or professional_id is required"}),
		}, rec)
	})

	t.Run("patients see their own without a filter", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/appointments", patientToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("patients cannot see other patients' appointments", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/appointments/"+apptID, getToken(t, other))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}, rec)
	})

	t.Run("record attendance", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/appointments/"+apptID+"/attendance", coordToken,
			[]byte(`{"attended":true,"notes":"llegó puntual"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d: %s", rec.Code, rec.Body.String())
		}

		appt, err := apptSvc.GetByID(req.Context(), apptID)
		if err != nil {
			t.Fatalf("GetByID() failed: %v", err)
		}
		if appt.Attended == nil || !*appt.Attended {
			t.Error("attendance not recorded")
		}
	})
}
