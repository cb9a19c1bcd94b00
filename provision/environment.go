package provision

import (
	"strings"

	"sakuranet-billing/pterodactyl"
)

// BuildEnvironment fills every variable the egg declares, preferring a
// caller-supplied override. Overrides for variables the egg does not
// declare are dropped.
func BuildEnvironment(vars []pterodactyl.EggVariable, overrides map[string]string) map[string]string {
	env := make(map[string]string, len(vars))
	for _, v := range vars {
		if val, ok := overrides[v.EnvVariable]; ok {
			env[v.EnvVariable] = val
		} else {
			env[v.EnvVariable] = v.DefaultValue
		}
	}
	return env
}

// InferEnvironment fills variables with no caller input at all, as
// needed when switching a server's egg: the panel rejects startup
// updates that leave a required variable empty, so required variables
// without a default get a type-appropriate placeholder.
func InferEnvironment(vars []pterodactyl.EggVariable) map[string]string {
	env := make(map[string]string, len(vars))
	for _, v := range vars {
		env[v.EnvVariable] = inferValue(v)
	}
	return env
}

func inferValue(v pterodactyl.EggVariable) string {
	if v.DefaultValue != "" {
		return v.DefaultValue
	}
	if !strings.Contains(v.Rules, "required") {
		return ""
	}
	if strings.Contains(v.Rules, "numeric") || strings.Contains(v.Rules, "integer") {
		return "0"
	}
	if strings.Contains(v.Rules, "boolean") {
		return "0"
	}
	return "changeme"
}
