// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

package scenario

import (
	"os"
	"path/filepath"
	"testing"
)

const yamlScenario = `
name: ambient-mesh
description: Deploy an ambient mesh demo cluster.
variables:
  CLUSTER_NAME:
    description: EKS cluster name
    default: ambient-demo
  REGION:
    required: true
steps:
  - name: create-cluster
    description: Provision the cluster
    run: eksctl create cluster --name ${CLUSTER_NAME} --region ${REGION}
    timeout: 30m
  - name: verify-gateway
    verify: true
    probe:
      url: http://gateway.example.com/healthz
      expect_status: 200
      interval: 5s
      attempts: 12
`

func TestParseYAML(t *testing.T) {
	s, err := Parse([]byte(yamlScenario))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if s.Name != "ambient-mesh" {
		t.Errorf("Name = %q, want %q", s.Name, "ambient-mesh")
	}
	if len(s.Steps) != 2 {
		t.Fatalf("len(Steps) = %d, want 2", len(s.Steps))
	}
	if s.Steps[0].Run == "" || s.Steps[0].Timeout != "30m" {
		t.Errorf("step 0 parsed wrong: %+v", s.Steps[0])
	}
	if !s.Steps[1].Verify {
		t.Error("step 1 should be a verify step")
	}
	if s.Steps[1].Probe == nil || s.Steps[1].Probe.Attempts != 12 {
		t.Errorf("step 1 probe parsed wrong: %+v", s.Steps[1].Probe)
	}
	if v, ok := s.Variables["CLUSTER_NAME"]; !ok || v.Default != "ambient-demo" {
		t.Errorf("CLUSTER_NAME variable parsed wrong: %+v", v)
	}
	if !s.Variables["REGION"].Required {
		t.Error("REGION should be required")
	}
}

func TestParseJSONCStripsComments(t *testing.T) {
	data := []byte(`{
		// scenario generated by export tooling
		"name": "smoke",
		"steps": [
			{"name": "probe-app", "probe": {"url": "http://localhost:8080/"}}, // trailing comma next
		],
	}`)

	s, err := ParseJSONC(data)
	if err != nil {
		t.Fatalf("ParseJSONC: %v", err)
	}
	if s.Name != "smoke" || len(s.Steps) != 1 {
		t.Errorf("ParseJSONC = %+v", s)
	}
}

func TestReadFileDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "demo.yaml")
	if err := os.WriteFile(yamlPath, []byte("steps:\n  - name: a\n    run: \"true\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	s, err := ReadFile(yamlPath)
	if err != nil {
		t.Fatalf("ReadFile(yaml): %v", err)
	}
	// Name falls back to the file basename.
	if s.Name != "demo" {
		t.Errorf("Name = %q, want %q", s.Name, "demo")
	}

	jsoncPath := filepath.Join(dir, "demo.jsonc")
	if err := os.WriteFile(jsoncPath, []byte(`{"steps": [{"name": "a", "run": "true"}]}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := ReadFile(jsoncPath); err != nil {
		t.Fatalf("ReadFile(jsonc): %v", err)
	}

	badPath := filepath.Join(dir, "demo.toml")
	if err := os.WriteFile(badPath, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := ReadFile(badPath); err == nil {
		t.Error("ReadFile accepted an unsupported extension")
	}
}

func TestNameFromPath(t *testing.T) {
	cases := []struct{ path, want string }{
		{"examples/ambient-mesh.yaml", "ambient-mesh"},
		{"/abs/path/smoke.jsonc", "smoke"},
		{"plain.yml", "plain"},
	}
	for _, c := range cases {
		if got := NameFromPath(c.path); got != c.want {
			t.Errorf("NameFromPath(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}

func TestFingerprintStableAndContentSensitive(t *testing.T) {
	a := Fingerprint([]byte(yamlScenario))
	b := Fingerprint([]byte(yamlScenario))
	if a != b {
		t.Errorf("Fingerprint not deterministic: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("Fingerprint length = %d, want 64 hex chars", len(a))
	}

	c := Fingerprint([]byte(yamlScenario + "\n# edited\n"))
	if c == a {
		t.Error("Fingerprint unchanged after content edit")
	}
}

func TestFingerprintFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	if err := os.WriteFile(path, []byte(yamlScenario), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := FingerprintFile(path)
	if err != nil {
		t.Fatalf("FingerprintFile: %v", err)
	}
	if want := Fingerprint([]byte(yamlScenario)); got != want {
		t.Errorf("FingerprintFile = %q, want %q", got, want)
	}

	if _, err := FingerprintFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("FingerprintFile succeeded on a missing file")
	}
}
