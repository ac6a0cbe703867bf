package schema

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEverySchemaCompiles(t *testing.T) {
	for _, name := range []string{InitRepo, Empty, GetRepoStructure, ReadFile, Framework, AddFeature, AddNewQueue} {
		t.Run(name, func(t *testing.T) {
			if _, err := getSchema(name); err != nil {
				t.Fatalf("getSchema(%s) error: %v", name, err)
			}
			var doc map[string]any
			if err := json.Unmarshal(Raw(name), &doc); err != nil {
				t.Fatalf("Raw(%s) is not JSON: %v", name, err)
			}
			if doc["type"] != "object" {
				t.Errorf("Raw(%s) type = %v, want object", name, doc["type"])
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		schema  string
		args    map[string]any
		valid   bool
		keyword string
	}{
		{"init ok", InitRepo, map[string]any{"path": "/tmp/repo"}, true, ""},
		{"init missing path", InitRepo, nil, false, "required"},
		{"init empty path", InitRepo, map[string]any{"path": ""}, false, "minLength"},
		{"init long path", InitRepo, map[string]any{"path": strings.Repeat("a", 5001)}, false, "maxLength"},
		{"structure defaults", GetRepoStructure, map[string]any{}, true, ""},
		{"structure depth 1", GetRepoStructure, map[string]any{"depth": 1}, true, ""},
		{"structure depth 5", GetRepoStructure, map[string]any{"depth": 5.0}, true, ""},
		{"structure depth 0", GetRepoStructure, map[string]any{"depth": 0}, false, "minimum"},
		{"structure depth 6", GetRepoStructure, map[string]any{"depth": 6}, false, "maximum"},
		{"structure depth fraction", GetRepoStructure, map[string]any{"depth": 2.5}, false, "type"},
		{"structure children 0", GetRepoStructure, map[string]any{"maxChildren": 0}, false, "minimum"},
		{"read ok", ReadFile, map[string]any{"filePath": "src/main.go"}, true, ""},
		{"read wrong type", ReadFile, map[string]any{"filePath": 7}, false, "type"},
		{"framework ok", Framework, map[string]any{"framework": "nestjs"}, true, ""},
		{"framework unknown", Framework, map[string]any{"framework": "rails"}, false, "enum"},
		{"feature ok", AddFeature, map[string]any{"framework": "springboot", "moduleName": "user-profile"}, true, ""},
		{"feature bad name", AddFeature, map[string]any{"framework": "nestjs", "moduleName": "../evil"}, false, "pattern"},
		{"queue ok", AddNewQueue, map[string]any{"framework": "nestjs", "queueName": "email"}, true, ""},
		{"queue missing name", AddNewQueue, map[string]any{"framework": "nestjs"}, false, "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Validate(tt.schema, tt.args)
			if err != nil {
				t.Fatalf("Validate() error: %v", err)
			}
			if result.Valid != tt.valid {
				t.Fatalf("Valid = %v, want %v (issues: %+v)", result.Valid, tt.valid, result.Issues)
			}
			if tt.valid {
				return
			}
			if !hasKeyword(result.Issues, tt.keyword) {
				t.Errorf("expected an issue with keyword %q, got %+v", tt.keyword, result.Issues)
			}
			if !strings.HasPrefix(result.Summary(), "Invalid arguments: ") {
				t.Errorf("Summary() = %q", result.Summary())
			}
		})
	}
}

func TestSummaryIncludesPath(t *testing.T) {
	result, err := Validate(GetRepoStructure, map[string]any{"depth": 9})
	if err != nil {
		t.Fatal(err)
	}
	if got := result.Summary(); !strings.Contains(got, "/depth: ") {
		t.Errorf("Summary() = %q, want it to mention /depth", got)
	}
}

// ─── Test Helpers ───────────────────────────────────────────────────

func hasKeyword(issues []ValidationIssue, keyword string) bool {
	for _, is := range issues {
		if is.Keyword == keyword {
			return true
		}
	}
	return false
}
