// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package scenario

import (
	"strings"
	"testing"
)

func TestResolveVariablesPrecedence(t *testing.T) {
	declarations := map[string]Variable{
		"REGION":  {Default: "us-west-2"},
		"CLUSTER": {Default: "demo"},
		"PROFILE": {Default: "dev"},
	}
	params := map[string]string{"CLUSTER": "override", "EXTRA": "param-only"}
	environ := func(name string) string {
		if name == "PROFILE" {
			return "prod"
		}
		return ""
	}

	resolved, err := ResolveVariables(declarations, params, environ)
	if err != nil {
		t.Fatalf("ResolveVariables: %v", err)
	}

	want := map[string]string{
		"REGION":  "us-west-2",  // default only
		"CLUSTER": "override",   // param beats default
		"PROFILE": "prod",       // environment beats both
		"EXTRA":   "param-only", // undeclared params pass through
	}
	for name, value := range want {
		if resolved[name] != value {
			t.Errorf("resolved[%q] = %q, want %q", name, resolved[name], value)
		}
	}
}

func TestResolveVariablesMissingRequired(t *testing.T) {
	declarations := map[string]Variable{
		"B_VAR": {Required: true},
		"A_VAR": {Required: true},
		"OK":    {Default: "set"},
	}

	_, err := ResolveVariables(declarations, nil, nil)
	if err == nil {
		t.Fatal("ResolveVariables succeeded with required variables unset")
	}
	// Missing names are sorted for a stable message.
	if !strings.Contains(err.Error(), "A_VAR, B_VAR") {
		t.Errorf("error = %q, want sorted missing names", err)
	}
}

func TestExpand(t *testing.T) {
	variables := map[string]string{"NAME": "demo", "REGION": "eu-central-1"}

	got, err := Expand("eksctl create cluster --name ${NAME} --region ${REGION}", variables)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := "eksctl create cluster --name demo --region eu-central-1"
	if got != want {
		t.Errorf("Expand = %q, want %q", got, want)
	}

	// Bare $NAME is left for the shell.
	got, err = Expand("echo $HOME and ${NAME}", variables)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got != "echo $HOME and demo" {
		t.Errorf("Expand = %q", got)
	}

	if _, err := Expand("kubectl --context ${MISSING}", variables); err == nil {
		t.Error("Expand succeeded with an unresolved reference")
	}
}

func TestExpandStep(t *testing.T) {
	step := Step{
		Name:  "install",
		Run:   "istioctl install --set profile=${PROFILE}",
		Check: "kubectl -n ${NAMESPACE} get pods",
		When:  "test -n \"${PROFILE}\"",
		Env:   map[string]string{"NAMESPACE": "${MESH_NS}"},
		Probe: nil,
	}
	variables := map[string]string{"PROFILE": "ambient", "MESH_NS": "istio-system"}

	expanded, err := ExpandStep(step, variables)
	if err != nil {
		t.Fatalf("ExpandStep: %v", err)
	}

	if expanded.Run != "istioctl install --set profile=ambient" {
		t.Errorf("Run = %q", expanded.Run)
	}
	// Env values expand first and feed the remaining fields.
	if expanded.Check != "kubectl -n istio-system get pods" {
		t.Errorf("Check = %q", expanded.Check)
	}
	if expanded.Env["NAMESPACE"] != "istio-system" {
		t.Errorf("Env[NAMESPACE] = %q", expanded.Env["NAMESPACE"])
	}

	// The input step is untouched.
	if step.Run != "istioctl install --set profile=${PROFILE}" {
		t.Errorf("input step mutated: Run = %q", step.Run)
	}
	if step.Env["NAMESPACE"] != "${MESH_NS}" {
		t.Errorf("input step mutated: Env[NAMESPACE] = %q", step.Env["NAMESPACE"])
	}
}

func TestExpandStepProbe(t *testing.T) {
	step := Step{
		Name: "verify-gateway",
		Probe: &Probe{
			URL:        "http://${GATEWAY_HOST}/healthz",
			ExpectBody: "${EXPECTED}",
		},
	}
	original := step.Probe
	variables := map[string]string{"GATEWAY_HOST": "gw.example.com", "EXPECTED": "ok"}

	expanded, err := ExpandStep(step, variables)
	if err != nil {
		t.Fatalf("ExpandStep: %v", err)
	}
	if expanded.Probe.URL != "http://gw.example.com/healthz" {
		t.Errorf("Probe.URL = %q", expanded.Probe.URL)
	}
	if expanded.Probe.ExpectBody != "ok" {
		t.Errorf("Probe.ExpectBody = %q", expanded.Probe.ExpectBody)
	}
	if original.URL != "http://${GATEWAY_HOST}/healthz" {
		t.Errorf("input probe mutated: URL = %q", original.URL)
	}
}

func TestExpandStepUnresolvedNamesStep(t *testing.T) {
	step := Step{Name: "deploy", Run: "helm install ${CHART}"}

	_, err := ExpandStep(step, nil)
	if err == nil {
		t.Fatal("ExpandStep succeeded with an unresolved reference")
	}
	if !strings.Contains(err.Error(), `step "deploy"`) || !strings.Contains(err.Error(), "CHART") {
		t.Errorf("error = %q, want step name and variable name", err)
	}
}
