package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mbergner/oberfranken-events/internal/event"
	"github.com/mbergner/oberfranken-events/internal/geoloc"
)

func sampleResult() *OutputResult {
	lat, lon := 50.3219, 11.9180
	e := event.NewCandidate("stadt-hof", "Konzert im Park", "2026-05-10T19:00:00Z", "https://hof.de/events")
	e.Category = "Konzert"
	e.Location = &geoloc.Resolved{
		Name:   "Stadtpark Hof",
		Lat:    &lat,
		Lon:    &lon,
		Method: geoloc.MethodIframeExtraction,
	}

	unresolved := event.NewCandidate("stadt-hof", "Treffen", "2026-05-11T19:00:00Z", "https://hof.de/events")
	unresolved.Location = &geoloc.Resolved{
		Name:        "Kulturscheune",
		NeedsReview: true,
		Method:      geoloc.MethodUnresolved,
	}

	return &OutputResult{
		CheckedAt:   time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Events:      []*event.Candidate{e, unresolved},
		EventCount:  2,
		NeedsReview: 1,
	}
}

func TestWriteOutputText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, sampleResult(), FormatText, false); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "2 events (1 need location review)") {
		t.Errorf("missing summary line in output:\n%s", out)
	}
	if !strings.Contains(out, "Konzert im Park") {
		t.Errorf("missing event title in output:\n%s", out)
	}
	if !strings.Contains(out, "50.3219, 11.9180") {
		t.Errorf("missing coordinates in output:\n%s", out)
	}
	if !strings.Contains(out, "*review*") {
		t.Errorf("missing review marker in output:\n%s", out)
	}
}

func TestWriteOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, sampleResult(), FormatJSON, false); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}

	var decoded OutputResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.EventCount != 2 || decoded.NeedsReview != 1 {
		t.Errorf("unexpected counts %+v", decoded)
	}
	if len(decoded.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(decoded.Events))
	}
	if decoded.Events[0].Location.Method != geoloc.MethodIframeExtraction {
		t.Errorf("unexpected method %s", decoded.Events[0].Location.Method)
	}
}

func TestWriteOutputEmpty(t *testing.T) {
	var buf bytes.Buffer
	result := &OutputResult{CheckedAt: time.Now().UTC()}
	if err := WriteOutput(&buf, result, FormatText, false); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}
	if !strings.Contains(buf.String(), "No events found.") {
		t.Errorf("missing empty message:\n%s", buf.String())
	}
}
