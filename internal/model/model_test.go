package model

import "testing"

func TestParseFieldType(t *testing.T) {
	tests := []struct {
		input   string
		want    FieldType
		wantErr bool
	}{
		{"bool", FieldBool, false},
		{"string", FieldString, false},
		{"Bool", 0, true},
		{"int", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFieldType(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseFieldType(%q): ожидалась ошибка", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFieldType(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFieldType(%q) = %v, ожидалось %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSchemaFieldString(t *testing.T) {
	f := SchemaField{Name: "is_active", Type: FieldBool}
	if f.String() != "is_active -> bool" {
		t.Errorf("String() = %q", f.String())
	}
}
