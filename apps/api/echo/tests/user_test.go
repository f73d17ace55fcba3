package tests

import (
	"net/http"
	"testing"

	"github.com/trezcool/equilibrar/core/user"
	testutil "github.com/trezcool/equilibrar/tests"
)

func Test_userApi_login(t *testing.T) {
	testutil.CreateUser(t, usrRepo, "Login Ok", "login.ok@test.cl", "Str0ngPa$$word", user.RoleClient, true)
	testutil.CreateUser(t, usrRepo, "Login Off", "login.off@test.cl", "Str0ngPa$$word", user.RoleClient, false)

	tests := []httpTest{
		{
			name: "empty body", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "this field is required", "password": "this field is required"}),
		},
		{
			name: "unknown account", body: []byte(`{"email":"nope@test.cl","password":"lol"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong password", body: []byte(`{"email":"login.ok@test.cl","password":"lol"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "deactivated account", body: []byte(`{"email":"login.off@test.cl","password":"Str0ngPa$$word"}`),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{name: "ok", body: []byte(`{"email":"login.ok@test.cl","password":"Str0ngPa$$word"}`), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
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
}

func Test_userApi_register(t *testing.T) {
	admin := testutil.CreateUser(t, usrRepo, "Reg Admin", "reg.admin@test.cl", "", user.RoleAdmin, true)
	coord := testutil.CreateUser(t, usrRepo, "Reg Coord", "reg.coord@test.cl", "", user.RoleCoordinator, true)
	patient := testutil.CreateUser(t, usrRepo, "Reg Patient", "reg.patient@test.cl", "", user.RoleClient, true)

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "staff required", token: getToken(t, patient), body: []byte(`{"name":"New","email":"new1@test.cl","role":"client"}`),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "cannot grant a higher role", token: getToken(t, coord),
			body:     []byte(`{"name":"New","email":"new2@test.cl","role":"admin"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"role": "not enough rights to set this role"}),
		},
		{
			name: "email taken", token: getToken(t, admin),
			body:     []byte(`{"name":"New","email":"reg.patient@test.cl","role":"client"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "ok", token: getToken(t, admin),
			body:     []byte(`{"name":"Nueva Paciente","email":"new3@test.cl","role":"client"}`),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", tt.token, tt.body)
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
}

func Test_userApi_retrieve(t *testing.T) {
	staff := testutil.CreateUser(t, usrRepo, "Ret Staff", "ret.staff@test.cl", "", user.RoleProfessional, true)
	patient := testutil.CreateUser(t, usrRepo, "Ret Patient", "ret.patient@test.cl", "", user.RoleClient, true)
	other := testutil.CreateUser(t, usrRepo, "Ret Other", "ret.other@test.cl", "", user.RoleClient, true)

	tests := []httpTest{
		{name: "auth required", path: "/v1/users/" + patient.ID, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "own account", path: "/v1/users/" + patient.ID, token: getToken(t, patient),
			wantData: marchallObj(t, patient),
		},
		{
			name: "staff can see any account", path: "/v1/users/" + patient.ID, token: getToken(t, staff),
			wantData: marchallObj(t, patient),
		},
		{
			name: "patients cannot see other accounts", path: "/v1/users/" + other.ID, token: getToken(t, patient),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_destroy(t *testing.T) {
	admin := testutil.CreateUser(t, usrRepo, "Del Admin", "del.admin@test.cl", "", user.RoleAdmin, true)
	victim := testutil.CreateUser(t, usrRepo, "Del Victim", "del.victim@test.cl", "", user.RoleClient, true)

	t.Run("cannot delete own account", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/users/"+admin.ID, getToken(t, admin))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("ok", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/users/"+victim.ID, getToken(t, admin))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %d, want %d: %s", rec.Code, http.StatusNoContent, rec.Body.String())
		}
	})
}

func Test_userApi_profile(t *testing.T) {
	patient := testutil.CreateUser(t, usrRepo, "Prof Patient", "prof.patient@test.cl", "", user.RoleClient, true)
	token := getToken(t, patient)

	t.Run("update", func(t *testing.T) {
		body := []byte(`{"document_id":"16.482.913-5","phone":"+56 9 5214 7788","isapre":"Banmédica","address":"Av. Providencia 1208"}`)
		req, rec := newAuthRequest(http.MethodPut, "/v1/users/"+patient.ID+"/profile", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("retrieve", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/users/"+patient.ID+"/profile", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantData: marchallObj(t, user.Profile{
				UserID:     patient.ID,
				DocumentID: "16.482.913-5",
				Phone:      "+56 9 5214 7788",
				Isapre:     "Banmédica",
				Address:    "Av. Providencia 1208",
			}),
		}, rec)
	})

	t.Run("invalid phone", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/users/"+patient.ID+"/profile", token, []byte(`{"phone":"lol"}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"phone": "invalid phone number"}),
		}, rec)
	})
}
