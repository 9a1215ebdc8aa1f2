package llm

import (
	"testing"
)

func TestParseJSONResponsePlain(t *testing.T) {
	result := ParseJSONResponse(`{"main_topic": "rates", "num": 42}`)
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if result["main_topic"] != "rates" {
		t.Errorf("expected main_topic='rates', got %v", result["main_topic"])
	}
	if result["num"] != float64(42) {
		t.Errorf("expected num=42, got %v", result["num"])
	}
}

func TestParseJSONResponseWithTaggedFence(t *testing.T) {
	text := "Here is the analysis:\n```json\n{\"main_topic\": \"rates\"}\n```\nDone."
	result := ParseJSONResponse(text)
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if result["main_topic"] != "rates" {
		t.Errorf("expected main_topic='rates', got %v", result["main_topic"])
	}
}

func TestParseJSONResponseWithBareFence(t *testing.T) {
	text := "```\n{\"main_topic\": \"rates\"}\n```"
	result := ParseJSONResponse(text)
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if result["main_topic"] != "rates" {
		t.Errorf("expected main_topic='rates', got %v", result["main_topic"])
	}
}

func TestParseJSONResponseTaggedFencePreferred(t *testing.T) {
	// A tagged fence later in the response wins over an earlier bare fence
	// being misread; all three forms must agree on the same object.
	forms := []string{
		"```json\n{\"k\": \"v\"}\n```",
		"```\n{\"k\": \"v\"}\n```",
		`{"k": "v"}`,
	}
	for _, form := range forms {
		result := ParseJSONResponse(form)
		if result == nil {
			t.Fatalf("expected non-nil result for %q", form)
		}
		if result["k"] != "v" {
			t.Errorf("form %q: expected k='v', got %v", form, result["k"])
		}
	}
}

func TestParseJSONResponseUnterminatedFence(t *testing.T) {
	result := ParseJSONResponse("```json\n{\"k\": \"v\"}")
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if result["k"] != "v" {
		t.Errorf("expected k='v', got %v", result["k"])
	}
}

func TestParseJSONResponseInvalid(t *testing.T) {
	result := ParseJSONResponse("not json at all")
	if result != nil {
		t.Error("expected nil for invalid JSON")
	}
}

func TestParseJSONResponseEmpty(t *testing.T) {
	result := ParseJSONResponse("")
	if result != nil {
		t.Error("expected nil for empty string")
	}
}

func TestParseJSONResponseWhitespace(t *testing.T) {
	result := ParseJSONResponse("  \n  {\"k\": \"v\"}  \n  ")
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if result["k"] != "v" {
		t.Errorf("expected k='v', got %v", result["k"])
	}
}
