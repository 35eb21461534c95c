package integration

import (
	"net/http"
	"strings"
	"testing"
)

func TestNudgeFlow_GenerateListMarkRead(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "nudge@test.com", "password123")

	// A quiet week still produces the weekly savings challenge tip.
	rec := app.request("POST", "/api/v1/nudges/generate", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	created, _ := result["created"].([]interface{})
	if len(created) != 1 {
		t.Fatalf("expected one nudge for a quiet week, got %v", result["created"])
	}
	tip := created[0].(map[string]interface{})
	if tip["type"] != "tip" || !strings.Contains(tip["message"].(string), "₹100") {
		t.Errorf("expected challenge tip for ₹100, got %v", tip)
	}
	if result["notification"] == "" {
		t.Error("expected a toast notification")
	}

	// Heavy shopping produces a top-category warning on the next run.
	app.createTransaction(t, token, -80, "shopping", "want")
	rec = app.request("POST", "/api/v1/nudges/generate", "", token)
	result = parseJSON(t, rec)
	created, _ = result["created"].([]interface{})
	var warning map[string]interface{}
	for _, n := range created {
		nudge := n.(map[string]interface{})
		if strings.Contains(nudge["message"].(string), "shopping") {
			warning = nudge
		}
	}
	if warning == nil {
		t.Fatalf("expected a shopping warning, got %v", created)
	}
	if warning["type"] != "warning" || warning["actionable"] != true {
		t.Errorf("expected actionable warning, got %v", warning)
	}

	// Listing returns history newest first
	rec = app.request("GET", "/api/v1/nudges", "", token)
	listResult := parseJSON(t, rec)
	nudges := listResult["nudges"].([]interface{})
	if len(nudges) < 2 {
		t.Fatalf("expected accumulated nudges, got %d", len(nudges))
	}

	// Mark the newest nudge read
	newest := nudges[0].(map[string]interface{})
	rec = app.request("POST", "/api/v1/nudges/"+newest["id"].(string)+"/read", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("mark read failed: %d %s", rec.Code, rec.Body.String())
	}
	readResult := parseJSON(t, rec)
	nudge := readResult["nudge"].(map[string]interface{})
	if nudge["read"] != true {
		t.Errorf("expected read flag set, got %v", nudge["read"])
	}
}

func TestNudgeFlow_MarkReadUnknownID(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "nudge404@test.com", "password123")

	rec := app.request("POST", "/api/v1/nudges/missing/read", "", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	errObj := result["error"].(map[string]interface{})
	if errObj["code"] != "NUDGE_NOT_FOUND" {
		t.Errorf("expected NUDGE_NOT_FOUND, got %v", errObj["code"])
	}
}
