// Package codegen emits the companion C fragment for the bootloader-side
// gamepad driver from a persisted controller mapping.
package codegen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/nuevauno/grub-snes-gamepad/internal/calib"
	"github.com/nuevauno/grub-snes-gamepad/internal/mapping"
)

const cFragmentTemplate = `/*
 * Auto-generated controller configuration
 * Controller: {{ .Controller.Name }}
 * VID: {{ .Controller.VID }}  PID: {{ .Controller.PID }}
 */

/* Add to supported_controllers[] array: */
{ {{ .Controller.VID }}, {{ .Controller.PID }}, "{{ .Controller.Name }}" },

/* HID Report Analysis:
 * Report size: {{ .Mapping.ReportSize }} bytes
 * Baseline (neutral): {{ .Mapping.Baseline }}
 */
{{ if .Buttons }}
/* Button mappings detected:
{{- range .Buttons }}
{{- $key := .Key }}
{{- range .Changes }}
 * {{ $key }}: byte[{{ .Byte }}] 0x{{ printf "%02x" .From }} -> 0x{{ printf "%02x" .To }} (mask 0x{{ printf "%02x" .Diff }})
{{- end }}
{{- end }}
 */
{{ end }}`

type buttonView struct {
	Key     string
	Changes []mapping.Change
}

type fragmentView struct {
	Controller mapping.ControllerInfo
	Mapping    mapping.Mapping
	Buttons    []buttonView
}

// CFragment renders the C fragment for a mapping file. Buttons appear in
// calibration order regardless of map iteration order.
func CFragment(f *mapping.File) (string, error) {
	view := fragmentView{Controller: f.Controller, Mapping: f.Mapping}
	for _, btn := range calib.Buttons() {
		entry, ok := f.Mapping.Buttons[btn.Key()]
		if !ok {
			continue
		}
		view.Buttons = append(view.Buttons, buttonView{Key: btn.Key(), Changes: entry.Changes})
	}

	tpl, err := template.New("cfragment").Parse(cFragmentTemplate)
	if err != nil {
		return "", fmt.Errorf("parse C fragment template: %w", err)
	}
	var out strings.Builder
	if err := tpl.Execute(&out, view); err != nil {
		return "", fmt.Errorf("render C fragment: %w", err)
	}
	return out.String(), nil
}

// WriteC renders the fragment and writes it next to the mapping artifact,
// returning the path written.
func WriteC(dir string, f *mapping.File) (string, error) {
	code, err := CFragment(f)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := strings.TrimSuffix(f.FileName("json"), ".json") + ".c"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
