package provision_test

import (
	"testing"

	"sakuranet-billing/provision"
	"sakuranet-billing/pterodactyl"
)

func TestBuildEnvironment(t *testing.T) {
	vars := []pterodactyl.EggVariable{
		{Name: "Server Jar", EnvVariable: "SERVER_JARFILE", DefaultValue: "server.jar", Rules: "required|string"},
		{Name: "Version", EnvVariable: "MC_VERSION", DefaultValue: "latest", Rules: "required|string"},
	}

	env := provision.BuildEnvironment(vars, map[string]string{
		"MC_VERSION": "1.20.4",
		"NOT_A_VAR":  "ignored",
	})

	if env["SERVER_JARFILE"] != "server.jar" {
		t.Error("Expected default server.jar, got", env["SERVER_JARFILE"])
	}
	if env["MC_VERSION"] != "1.20.4" {
		t.Error("Expected override 1.20.4, got", env["MC_VERSION"])
	}
	if _, ok := env["NOT_A_VAR"]; ok {
		t.Error("Expected undeclared override to be dropped")
	}
}

func TestInferEnvironment(t *testing.T) {
	cases := []struct {
		v    pterodactyl.EggVariable
		want string
	}{
		{pterodactyl.EggVariable{EnvVariable: "A", DefaultValue: "x", Rules: "required|string"}, "x"},
		{pterodactyl.EggVariable{EnvVariable: "B", Rules: "nullable|string"}, ""},
		{pterodactyl.EggVariable{EnvVariable: "C", Rules: "required|numeric"}, "0"},
		{pterodactyl.EggVariable{EnvVariable: "D", Rules: "required|integer|between:1,65535"}, "0"},
		{pterodactyl.EggVariable{EnvVariable: "E", Rules: "required|boolean"}, "0"},
		{pterodactyl.EggVariable{EnvVariable: "F", Rules: "required|string|max:20"}, "changeme"},
	}

	var vars []pterodactyl.EggVariable
	for _, tc := range cases {
		vars = append(vars, tc.v)
	}

	env := provision.InferEnvironment(vars)

	for _, tc := range cases {
		if env[tc.v.EnvVariable] != tc.want {
			t.Error("Variable", tc.v.EnvVariable, "with rules", tc.v.Rules,
				": expected", tc.want, "got", env[tc.v.EnvVariable])
		}
	}
}
