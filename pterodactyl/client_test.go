package pterodactyl_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sakuranet-billing/pterodactyl"
)

func TestAuthorizationHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client := pterodactyl.New(srv.URL, "ptla_secret")
	if _, err := client.FindUserByEmail("a@b.c"); err != nil {
		t.Fatal("Expected no error, got", err)
	}
	if gotAuth != "Bearer ptla_secret" {
		t.Error("Expected bearer token header, got", gotAuth)
	}
}

func TestFindUserByEmailNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"object":"list","data":[]}`))
	}))
	defer srv.Close()

	client := pterodactyl.New(srv.URL, "key")
	user, err := client.FindUserByEmail("nobody@example.com")
	if err != nil {
		t.Fatal("Expected no error for an empty result, got", err)
	}
	if user != nil {
		t.Error("Expected nil user, got", user)
	}
}

func TestFindUserByEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/application/users" {
			t.Error("Unexpected path", r.URL.Path)
		}
		if r.URL.Query().Get("filter[email]") != "a@b.c" {
			t.Error("Expected email filter, got", r.URL.RawQuery)
		}
		w.Write([]byte(`{"data":[{"object":"user","attributes":{"id":7,"email":"a@b.c","username":"client_1_abc"}}]}`))
	}))
	defer srv.Close()

	client := pterodactyl.New(srv.URL, "key")
	user, err := client.FindUserByEmail("a@b.c")
	if err != nil {
		t.Fatal("Expected no error, got", err)
	}
	if user == nil || user.ID != 7 || user.Username != "client_1_abc" {
		t.Error("Expected user 7, got", user)
	}
}

func TestErrorDetailSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors":[{"code":"NoViableAllocationException","detail":"No allocations satisfying the requirements were found."}]}`))
	}))
	defer srv.Close()

	client := pterodactyl.New(srv.URL, "key")
	_, err := client.CreateServer(pterodactyl.CreateServerRequest{Name: "x"})

	apiErr, ok := err.(*pterodactyl.APIError)
	if !ok {
		t.Fatal("Expected an APIError, got", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Error("Expected status 422, got", apiErr.StatusCode)
	}
	if apiErr.Detail != "No allocations satisfying the requirements were found." {
		t.Error("Expected panel detail, got", apiErr.Detail)
	}
}

func TestGetEggFlattensVariables(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/application/nests/1/eggs/5" {
			t.Error("Unexpected path", r.URL.Path)
		}
		w.Write([]byte(`{"object":"egg","attributes":{
			"id":5,"name":"Paper",
			"docker_image":"ghcr.io/pterodactyl/yolks:java_17",
			"startup":"java -jar {{SERVER_JARFILE}}",
			"relationships":{"variables":{"object":"list","data":[
				{"object":"egg_variable","attributes":{"name":"Server Jar","env_variable":"SERVER_JARFILE","default_value":"server.jar","rules":"required|string"}},
				{"object":"egg_variable","attributes":{"name":"Version","env_variable":"MC_VERSION","default_value":"latest","rules":"required|string"}}
			]}}}}`))
	}))
	defer srv.Close()

	client := pterodactyl.New(srv.URL, "key")
	egg, err := client.GetEgg(1, 5)
	if err != nil {
		t.Fatal("Expected no error, got", err)
	}
	if egg.Name != "Paper" || egg.DockerImage != "ghcr.io/pterodactyl/yolks:java_17" {
		t.Error("Unexpected egg attributes:", egg)
	}
	if len(egg.Variables) != 2 {
		t.Fatal("Expected 2 variables, got", len(egg.Variables))
	}
	if egg.Variables[0].EnvVariable != "SERVER_JARFILE" || egg.Variables[0].DefaultValue != "server.jar" {
		t.Error("Unexpected first variable:", egg.Variables[0])
	}
}

func TestCreateServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/application/servers" {
			t.Error("Unexpected request", r.Method, r.URL.Path)
		}
		var req pterodactyl.CreateServerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Error("Failed to decode request body:", err)
		}
		if req.Environment["SERVER_JARFILE"] != "server.jar" {
			t.Error("Expected environment in payload, got", req.Environment)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"object":"server","attributes":{"id":12,"identifier":"d3aac109","name":"my server"}}`))
	}))
	defer srv.Close()

	client := pterodactyl.New(srv.URL, "key")
	server, err := client.CreateServer(pterodactyl.CreateServerRequest{
		Name:        "my server",
		Environment: map[string]string{"SERVER_JARFILE": "server.jar"},
	})
	if err != nil {
		t.Fatal("Expected no error, got", err)
	}
	if server.ID != 12 || server.Identifier != "d3aac109" {
		t.Error("Unexpected server:", server)
	}
}

func TestListNests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"object":"list","data":[
			{"object":"nest","attributes":{"id":1,"name":"Minecraft",
				"relationships":{"eggs":{"object":"list","data":[
					{"object":"egg","attributes":{"id":5,"name":"Paper","docker_image":"yolks:java_17"}}
				]}}}}
		]}`))
	}))
	defer srv.Close()

	client := pterodactyl.New(srv.URL, "key")
	nests, err := client.ListNests()
	if err != nil {
		t.Fatal("Expected no error, got", err)
	}
	if len(nests) != 1 || nests[0].Name != "Minecraft" {
		t.Fatal("Unexpected nests:", nests)
	}
	if len(nests[0].Eggs) != 1 || nests[0].Eggs[0].Name != "Paper" {
		t.Error("Unexpected eggs:", nests[0].Eggs)
	}
}
