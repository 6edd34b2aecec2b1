// Copyright 2026 The Runbook Authors
// SPDX-License-Identifier: Apache-2.0

// Package scenario provides parsing, validation, and variable expansion
// for runbook scenario definitions. A scenario is an ordered list of
// named steps (shell commands and HTTP probes) that provision and
// verify an environment, typically by driving external CLIs such as
// aws, eksctl, kubectl, and istioctl.
//
// Scenarios are authored on disk as YAML, or as JSONC (JSON extended
// with comments and trailing commas) for definitions generated from
// JSON tooling. ReadFile picks the format from the file extension.
//
// The typical flow:
//
//  1. ReadFile or Parse: bytes → Scenario
//  2. Validate: structural checks (unique names, run XOR probe, ...)
//  3. ResolveVariables: merge declarations + params + environment
//  4. ExpandStep: substitute ${NAME} references before execution
//
// Fingerprint hashes the raw definition so the runner can warn when a
// progress record was written against a different version of the file.
package scenario
