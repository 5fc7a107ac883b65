package driver

import (
	"encoding/json"
	"fmt"

	"cobolfront/internal/diag"
	"cobolfront/internal/observ"
	"cobolfront/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	Cached  bool                 `json:"cached,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic attaches the timer report as an info diagnostic with
// the JSON payload in its only note. It ignores the bag limit.
func appendTimingDiagnostic(bag *diag.Bag, uri string, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "file"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s, %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	loc := source.Location{URI: uri}
	entry := diag.New(diag.SevInfo, diag.ObsTimings, loc, msg).WithNote(loc, string(data))

	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
