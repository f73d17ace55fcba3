package tests

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/equilibrar/core/program"
	"github.com/trezcool/equilibrar/core/user"
	testutil "github.com/trezcool/equilibrar/tests"
)

func Test_enrollmentApi_create(t *testing.T) {
	staff := testutil.CreateUser(t, usrRepo, "Enr Staff", "enr.staff@test.cl", "", user.RoleCoordinator, true)
	patient := testutil.CreateUser(t, usrRepo, "Enr Patient", "enr.patient@test.cl", "", user.RoleClient, true)

	staffToken := getToken(t, staff)
	body := func(patientID, programID string) []byte {
		return []byte(fmt.Sprintf(`{"patient_id":%q,"program_id":%q}`, patientID, programID))
	}

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "staff only", token: getToken(t, patient), body: body(patient.ID, program.ProgramCulpaID),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "unknown program", token: staffToken, body: body(patient.ID, "p-nope"),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Not Found"}),
		},
		{name: "ok", token: staffToken, body: body(patient.ID, program.ProgramCulpaID), wantCode: http.StatusCreated},
		{
			name: "one active enrollment per patient", token: staffToken, body: body(patient.ID, program.ProgramAngustiaID),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/enrollments", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}

	t.Run("query requires a filter", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/enrollments", staffToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "patient_id or program_id is required"}),
		}, rec)
	})

	t.Run("query by patient", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/enrollments?patient_id="+patient.ID, staffToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func Test_enrollmentApi_updateStatus(t *testing.T) {
	staff := testutil.CreateUser(t, usrRepo, "St Staff", "st.staff@test.cl", "", user.RoleAdmin, true)
	patient := testutil.CreateUser(t, usrRepo, "St Patient", "st.patient@test.cl", "", user.RoleClient, true)
	enr := testutil.CreateEnrollment(t, enrRepo, patient.ID, program.ProgramCulpaID, time.Now().UTC())

	staffToken := getToken(t, staff)
	path := "/v1/enrollments/" + enr.ID + "/status"

	tests := []httpTest{
		{
			name: "invalid status", body: []byte(`{"status":"paused"}`), wantCode: http.StatusBadRequest,
		},
		{
			name: "invalid transition", body: []byte(`{"status":"pending"}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"status": "invalid enrollment status transition"}),
		},
		{name: "active to completed", body: []byte(`{"status":"completed"}`)},
		{
			name: "completed is terminal", body: []byte(`{"status":"cancelled"}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"status": "invalid enrollment status transition"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, path, staffToken, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			wantCode := tt.wantCode
			if wantCode == 0 {
				wantCode = http.StatusOK
			}
			if rec.Code != wantCode {
				t.Fatalf("code = %d, want %d: %s", rec.Code, wantCode, rec.Body.String())
			}
		})
	}
}

func Test_enrollmentApi_clientEndpoints(t *testing.T) {
	staff := testutil.CreateUser(t, usrRepo, "Cl Staff", "cl.staff@test.cl", "", user.RoleProfessional, true)
	patient := testutil.CreateUser(t, usrRepo, "Cl Patient", "cl.patient@test.cl", "", user.RoleClient, true)
	other := testutil.CreateUser(t, usrRepo, "Cl Other", "cl.other@test.cl", "", user.RoleClient, true)

	start := time.Now().UTC().AddDate(0, 0, -8) // week 2
	testutil.CreateEnrollment(t, enrRepo, patient.ID, program.ProgramCulpaID, start)

	patientToken := getToken(t, patient)
	staffToken := getToken(t, staff)
	base := "/v1/clients/" + patient.ID

	t.Run("patients cannot reach other patients' data", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, base+"/dashboard", getToken(t, other))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("sessions are gated", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, base+"/sessions", patientToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d: %s", rec.Code, rec.Body.String())
		}
		sessions, err := enrSvc.VisibleSessions(req.Context(), patient.ID, time.Now().UTC())
		if err != nil {
			t.Fatalf("VisibleSessions() failed: %v", err)
		}
		checkCodeAndData(t, httpTest{wantData: marchallList(t, toList(sessions)...)}, rec)
	})

	t.Run("progress upsert", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, base+"/progress", patientToken,
			[]byte(`{"week_number":2,"initial_test_done":true,"audio_listened_count":3}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d: %s", rec.Code, rec.Body.String())
		}

		req, rec = newAuthRequest(http.MethodGet, base+"/progress/week/2", staffToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("progress upsert rejects out of range weeks", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, base+"/progress", patientToken, []byte(`{"week_number":5}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"week_number": "week_number is out of range"}),
		}, rec)
	})

	t.Run("results from raw answers", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, base+"/results", patientToken,
			[]byte(`{"week":2,"answers":{"1":3,"2":3,"3":3,"4":3,"5":3,"6":3,"7":3,"8":3,"9":3,"10":3,"11":3,"12":3,"13":3,"14":3,"15":3,"16":3,"17":3,"18":3,"19":3,"20":3}}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %d: %s", rec.Code, rec.Body.String())
		}

		results, err := enrSvc.QueryTestResults(req.Context(), patient.ID)
		if err != nil {
			t.Fatalf("QueryTestResults() failed: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("results = %d, want 1", len(results))
		}
		want := program.Scores{SelfJudgment: 18, MaladaptiveGuilt: 15, ConsciousResponsibility: 21, ErrorHumanization: 6}
		if results[0].Scores != want {
			t.Errorf("scores = %+v, want %+v", results[0].Scores, want)
		}
	})

	t.Run("results reject mismatched scales", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, base+"/results", patientToken,
			[]byte(`{"week":2,"scores":{"score_autojuicio":99,"score_culpa_no_adaptativa":15,"score_responsabilidad_consciente":21,"score_humanizacion_error":6}}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("results require scores or answers", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, base+"/results", patientToken, []byte(`{"week":2}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "either scores or answers are required"}),
		}, rec)
	})

	t.Run("dashboard", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, base+"/dashboard", patientToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d: %s", rec.Code, rec.Body.String())
		}
		dash, err := enrSvc.Dashboard(req.Context(), patient.ID, time.Now().UTC())
		if err != nil {
			t.Fatalf("Dashboard() failed: %v", err)
		}
		if dash.CurrentWeek != 2 {
			t.Errorf("CurrentWeek = %d, want 2", dash.CurrentWeek)
		}
		if dash.LatestScores == nil {
			t.Error("LatestScores missing")
		}
	})
}

func toList(sessions []program.GatedSession) []interface{} {
	objs := make([]interface{}, 0, len(sessions))
	for _, s := range sessions {
		objs = append(objs, s)
	}
	return objs
}
