package catalog

import (
	"strings"
	"testing"
)

func TestTagsLookup(t *testing.T) {
	tags := Tags{ExtraVoid: map[string]bool{"x-icon": true}}

	tests := []struct {
		tag   string
		known bool
		void  bool
	}{
		{"div", true, false},
		{"DIV", true, false},
		{"meta", true, true},
		{"br", true, true},
		{"img", true, true},
		{"template", true, false},
		{"x-icon", true, true},
		{"my-widget", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			info, ok := tags.Lookup(tt.tag)
			if ok != tt.known {
				t.Errorf("Expected known=%v, got %v", tt.known, ok)
			}
			if info.Void != tt.void {
				t.Errorf("Expected void=%v, got %v", tt.void, info.Void)
			}
			if tags.IsVoid(tt.tag) != tt.void {
				t.Errorf("IsVoid(%q) disagrees with Lookup", tt.tag)
			}
		})
	}
}

func TestDefaultValues(t *testing.T) {
	values := DefaultValues()

	tests := []struct {
		family   string
		caseKey  string
		expected string
		ok       bool
	}{
		{"dir", "rtl", "rtl", true},
		{"target", "blank", "_blank", true},
		{"hidden", "untilFound", "until-found", true},
		{"referrerpolicy", "origin", "origin", true},
		{"dir", "sideways", "", false},
		{"unknown", "x", "", false},
	}

	for _, tt := range tests {
		got, ok := values.Lookup(tt.family, tt.caseKey)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("Lookup(%q, %q) = (%q, %v), expected (%q, %v)",
				tt.family, tt.caseKey, got, ok, tt.expected, tt.ok)
		}
	}

	if name, ok := values.FamilyOf("formtarget"); !ok || name != "target" {
		t.Errorf("Expected formtarget to belong to target, got %q", name)
	}

	families := values.Families()
	for i := 1; i < len(families); i++ {
		if families[i-1] > families[i] {
			t.Fatalf("Families not sorted: %v", families)
		}
	}
	for _, name := range families {
		f, _ := values.Family(name)
		if f.Type == "" || len(f.Attributes) == 0 || len(f.Cases) == 0 {
			t.Errorf("Family %q is incomplete: %+v", name, f)
		}
	}
}

func TestLoadValuesErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"malformed", "families: [", "failed to parse"},
		{
			name: "attribute in two families",
			data: `families:
  a: {attributes: [dir], type: A, cases: {x: ""}}
  b: {attributes: [dir], type: B, cases: {y: ""}}
`,
			wantErr: "belongs to families",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadValues([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
